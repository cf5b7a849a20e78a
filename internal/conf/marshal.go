// conf/marshal.go
package conf

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// structToMap converts a Settings value into a map Viper can merge back
// into its config tree, round-tripping through YAML so field names follow
// the same case folding Viper/YAML already apply when reading config.yaml.
func structToMap(settings *Settings) (map[string]any, error) {
	data, err := yaml.Marshal(settings)
	if err != nil {
		return nil, fmt.Errorf("error marshaling settings to yaml: %w", err)
	}

	var result map[string]any
	if err := yaml.Unmarshal(data, &result); err != nil {
		return nil, fmt.Errorf("error unmarshaling yaml into map: %w", err)
	}
	return result, nil
}
