package errors

import (
	"fmt"
	"testing"
)

func TestBuildDefaultsCategoryAndComponent(t *testing.T) {
	t.Parallel()

	ee := New(fmt.Errorf("test error")).Build()

	if ee.Err.Error() != "test error" {
		t.Errorf("Expected error message 'test error', got '%s'", ee.Err.Error())
	}
	if ee.Category == "" {
		t.Errorf("expected a non-empty category to be detected")
	}
	if ee.GetComponent() == "" {
		t.Errorf("expected a non-empty component to be detected")
	}
}

func TestBuildExplicitComponentAndCategory(t *testing.T) {
	t.Parallel()

	ee := Newf("queue is full").
		Component("tonequeue").
		Category(CategoryQueueFull).
		Context("capacity", 30).
		Build()

	if ee.GetComponent() != "tonequeue" {
		t.Errorf("expected component 'tonequeue', got %q", ee.GetComponent())
	}
	if ee.Category != CategoryQueueFull {
		t.Errorf("expected category %q, got %q", CategoryQueueFull, ee.Category)
	}
	if got := ee.GetContext()["capacity"]; got != 30 {
		t.Errorf("expected context capacity=30, got %v", got)
	}
}

func TestIsCategory(t *testing.T) {
	t.Parallel()

	err := New(fmt.Errorf("boom")).Category(CategoryQueueBlocked).Build()

	if !IsCategory(err, CategoryQueueBlocked) {
		t.Errorf("expected IsCategory to match CategoryQueueBlocked")
	}
	if IsCategory(err, CategoryQueueFull) {
		t.Errorf("expected IsCategory not to match CategoryQueueFull")
	}
}

func TestEnhancedErrorIsMatchesByCategory(t *testing.T) {
	t.Parallel()

	a := New(fmt.Errorf("a")).Category(CategoryQueueFull).Build()
	b := New(fmt.Errorf("b")).Category(CategoryQueueFull).Build()
	c := New(fmt.Errorf("c")).Category(CategoryValidation).Build()

	if !a.Is(b) {
		t.Errorf("expected errors with the same category to match via Is")
	}
	if a.Is(c) {
		t.Errorf("expected errors with different categories not to match via Is")
	}
}
