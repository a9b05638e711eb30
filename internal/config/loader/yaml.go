package loader

import "gopkg.in/yaml.v3"

// decodeYAML parses YAML data into a map.
func decodeYAML(data []byte) (map[string]any, error) {
	var config map[string]any
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, err
	}
	return config, nil
}
