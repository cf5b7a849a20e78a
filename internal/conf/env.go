// env.go - Environment variable configuration and validation for cwtonequeue
package conf

import (
	"fmt"
	"log"
	"strconv"

	"github.com/spf13/viper"
)

// envBinding holds metadata for an environment variable binding.
type envBinding struct {
	ConfigKey string             // Viper config key
	EnvVar    string             // Environment variable name
	Validate  func(string) error // Optional validation function
}

// getEnvBindings returns all environment variable bindings with validation.
func getEnvBindings() []envBinding {
	return []envBinding{
		{"tonequeue.capacity", "CWTONEQUEUE_CAPACITY", validateEnvPositiveInt},
		{"tonequeue.highwatermark", "CWTONEQUEUE_HIGH_WATER_MARK", validateEnvPositiveInt},
		{"tonequeue.lowwatermark", "CWTONEQUEUE_LOW_WATER_MARK", validateEnvNonNegativeInt},
		{"tonequeue.freqmin", "CWTONEQUEUE_FREQ_MIN", validateEnvNonNegativeInt},
		{"tonequeue.freqmax", "CWTONEQUEUE_FREQ_MAX", validateEnvPositiveInt},

		{"keysink.mqtt.enabled", "CWTONEQUEUE_MQTT_ENABLED", nil},
		{"keysink.mqtt.broker", "CWTONEQUEUE_MQTT_BROKER", nil},
		{"keysink.mqtt.topic", "CWTONEQUEUE_MQTT_TOPIC", nil},
		{"keysink.mqtt.username", "CWTONEQUEUE_MQTT_USERNAME", nil},
		{"keysink.mqtt.password", "CWTONEQUEUE_MQTT_PASSWORD", nil},

		{"httpserver.enabled", "CWTONEQUEUE_HTTP_ENABLED", nil},
		{"httpserver.listen", "CWTONEQUEUE_HTTP_LISTEN", nil},

		{"metrics.enabled", "CWTONEQUEUE_METRICS_ENABLED", nil},
	}
}

// bindEnvVars sets up environment variable bindings with validation.
func bindEnvVars() error {
	bindings := getEnvBindings()
	var warnings []string

	for _, binding := range bindings {
		if err := viper.BindEnv(binding.ConfigKey, binding.EnvVar); err != nil {
			warnings = append(warnings, fmt.Sprintf("failed to bind %s: %v", binding.EnvVar, err))
			continue
		}
		if binding.Validate == nil {
			continue
		}
		if value := viper.GetString(binding.ConfigKey); value != "" {
			if err := binding.Validate(value); err != nil {
				return fmt.Errorf("invalid value for %s: %w", binding.EnvVar, err)
			}
		}
	}

	for _, w := range warnings {
		log.Println("conf:", w)
	}
	return nil
}

func validateEnvPositiveInt(value string) error {
	n, err := strconv.Atoi(value)
	if err != nil {
		return fmt.Errorf("expected integer, got %q", value)
	}
	if n <= 0 {
		return fmt.Errorf("expected a positive integer, got %d", n)
	}
	return nil
}

func validateEnvNonNegativeInt(value string) error {
	n, err := strconv.Atoi(value)
	if err != nil {
		return fmt.Errorf("expected integer, got %q", value)
	}
	if n < 0 {
		return fmt.Errorf("expected a non-negative integer, got %d", n)
	}
	return nil
}
