package loader

import "encoding/json"

// decodeJSON parses JSON data into a map.
func decodeJSON(data []byte) (map[string]any, error) {
	var config map[string]any
	if err := json.Unmarshal(data, &config); err != nil {
		return nil, err
	}
	return config, nil
}
