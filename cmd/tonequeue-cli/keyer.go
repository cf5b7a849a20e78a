package main

import (
	"context"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/kd9qzo/cwtonequeue/cwtone"
	"github.com/kd9qzo/cwtonequeue/internal/conf"
	"github.com/kd9qzo/cwtonequeue/internal/logging"
	"github.com/kd9qzo/cwtonequeue/internal/tonequeue"
)

const (
	dotUnit       = 60 * time.Millisecond
	dashUnit      = 3 * dotUnit
	elementGap    = dotUnit
	wordGapMicros = int64(7 * dotUnit / time.Microsecond)
	keyTone       = 600

	// keyRepeatTimeout bridges the gap between Bubble Tea's key-down-only
	// KeyMsg stream and a real iambic keyer's key-down/key-up pair.
	// Terminals deliver a steady stream of repeated KeyMsg values while a
	// key is physically held (OS auto-repeat); if none arrives within
	// this window we treat the key as released. Too short and a slow
	// terminal's repeat rate reads as an early release; too long and a
	// genuine release lags visibly before the real-length dot/dash
	// lands. 120ms sits comfortably above typical auto-repeat intervals
	// (~30-50ms) while staying short enough to feel responsive.
	keyRepeatTimeout = 120 * time.Millisecond
)

func keyerCommand(settings *conf.Settings) *cobra.Command {
	return &cobra.Command{
		Use:   "keyer",
		Short: "Interactive iambic keyer: . and - enqueue tones, space enqueues a word gap, backspace revokes",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runKeyer(cmd.Context(), settings)
		},
	}
}

func runKeyer(ctx context.Context, settings *conf.Settings) error {
	logging.Init()

	sys, err := cwtone.New(ctx, settings)
	if err != nil {
		return fmt.Errorf("keyer: %w", err)
	}
	if err := sys.Start(ctx); err != nil {
		return fmt.Errorf("keyer: %w", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = sys.Stop(shutdownCtx)
	}()

	program := tea.NewProgram(newKeyerModel(sys.Queue))
	_, err = program.Run()
	return err
}

type tickMsg time.Time

func tick() tea.Cmd {
	return tea.Tick(80*time.Millisecond, func(t time.Time) tea.Msg { return tickMsg(t) })
}

// holdReleaseMsg fires keyRepeatTimeout after the most recent KeyMsg for
// a held dot/dash key. If no further repeat of that key has arrived by
// then (gen still matches), the key is treated as released.
type holdReleaseMsg struct {
	key string
	gen int
}

func holdReleaseCheck(key string, gen int) tea.Cmd {
	return tea.Tick(keyRepeatTimeout, func(time.Time) tea.Msg {
		return holdReleaseMsg{key: key, gen: gen}
	})
}

type keyerModel struct {
	queue        *tonequeue.Queue
	newCharacter bool
	lastErr      error

	// holding is "." or "-" while a forever tone is sticking at the head
	// of the queue for that key, "" otherwise. holdGen is bumped on
	// every KeyMsg for the held key, so a stale holdReleaseMsg (superseded
	// by a fresh repeat) is recognized and discarded rather than firing a
	// premature release.
	holding string
	holdGen int
}

func newKeyerModel(queue *tonequeue.Queue) keyerModel {
	return keyerModel{queue: queue, newCharacter: true}
}

func (m keyerModel) Init() tea.Cmd {
	return tick()
}

func (m keyerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			return m, tea.Quit
		case ".", "-":
			return m.keyDown(msg.String())
		case " ":
			m.lastErr = m.queue.Enqueue(tonequeue.Tone{
				DurationUsec: wordGapMicros,
				FrequencyHz:  0,
				IsFirst:      m.newCharacter,
			})
			m.newCharacter = true
		case "backspace":
			m.lastErr = m.queue.Backspace()
			m.newCharacter = true
		}
		return m, nil
	case holdReleaseMsg:
		return m.keyUp(msg), nil
	case tickMsg:
		return m, tick()
	}
	return m, nil
}

// keyDown handles a KeyMsg for "." or "-". The first such event for a
// key starts a forever tone (held key down, duration unknown) and a
// release-detection timer; a repeated event for the same key (OS
// auto-repeat while still held) just refreshes that timer.
func (m keyerModel) keyDown(key string) (tea.Model, tea.Cmd) {
	if m.holding != key {
		m.holding = key
		m.lastErr = m.queue.Enqueue(tonequeue.Tone{
			DurationUsec: int64(dotUnit / time.Microsecond),
			FrequencyHz:  keyTone,
			IsForever:    true,
			IsFirst:      m.newCharacter,
		})
	}
	m.holdGen++
	return m, holdReleaseCheck(key, m.holdGen)
}

// keyUp finalizes a hold once keyRepeatTimeout has passed without a
// further repeat of the held key: the real dot/dash tone (now that its
// duration is known) terminates the forever tone at the head of the
// queue, followed by the inter-element gap.
func (m keyerModel) keyUp(msg holdReleaseMsg) keyerModel {
	if m.holding != msg.key || m.holdGen != msg.gen {
		return m
	}
	duration := dotUnit
	if msg.key == "-" {
		duration = dashUnit
	}
	m.lastErr = m.queue.Enqueue(tonequeue.Tone{
		DurationUsec: int64(duration / time.Microsecond),
		FrequencyHz:  keyTone,
	})
	if m.lastErr == nil {
		m.lastErr = m.queue.Enqueue(tonequeue.Tone{
			DurationUsec: int64(elementGap / time.Microsecond),
			FrequencyHz:  0,
		})
	}
	m.newCharacter = false
	m.holding = ""
	return m
}

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("6"))
	barStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	errStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	helpStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)

func (m keyerModel) View() string {
	length := m.queue.Length()
	capacity := m.queue.Capacity()
	bar := barStyle.Render(fmt.Sprintf("[%s%s] %d/%d",
		repeat("#", length), repeat(".", capacity-length), length, capacity))

	state := "IDLE"
	if m.queue.IsBusy() {
		state = "BUSY"
	}

	out := titleStyle.Render("cwtonequeue keyer") + "\n\n"
	out += bar + "  state=" + state
	if m.holding != "" {
		out += "  holding=" + m.holding
	}
	out += "\n\n"
	if m.lastErr != nil {
		out += errStyle.Render("error: "+m.lastErr.Error()) + "\n\n"
	}
	out += helpStyle.Render(". dot   - dash   space word-gap   backspace undo   esc quit") + "\n"
	return out
}

func repeat(s string, n int) string {
	if n <= 0 {
		return ""
	}
	out := make([]byte, 0, n*len(s))
	for i := 0; i < n; i++ {
		out = append(out, s...)
	}
	return string(out)
}
