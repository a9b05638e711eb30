package layer

import "strings"

// Merge combines two configuration trees and returns a new tree.
// Values in override win over values in base. Maps are merged
// recursively; every other value shape (slices, scalars) is replaced
// wholesale by the override side.
//
// Neither input is mutated: the result is built from deep copies, so a
// tree may safely participate in further merges after this call.
func Merge(base, override map[string]any) map[string]any {
	result := cloneMap(base)
	if result == nil {
		result = make(map[string]any)
	}
	if override == nil {
		return result
	}

	for key, overrideVal := range override {
		baseVal, exists := result[key]
		if !exists {
			result[key] = cloneValue(overrideVal)
			continue
		}

		// If both sides are maps, merge recursively
		overrideMap, overrideIsMap := overrideVal.(map[string]any)
		baseMap, baseIsMap := baseVal.(map[string]any)
		if overrideIsMap && baseIsMap {
			result[key] = Merge(baseMap, overrideMap)
		} else {
			// Otherwise, override replaces base
			result[key] = cloneValue(overrideVal)
		}
	}

	return result
}

// cloneValue creates a deep copy of a value.
func cloneValue(val any) any {
	switch v := val.(type) {
	case map[string]any:
		return cloneMap(v)
	case []any:
		return cloneSlice(v)
	default:
		return val
	}
}

// GetPath retrieves a value from a nested map using a dot-separated path.
func GetPath(data map[string]any, path string) (any, bool) {
	if data == nil {
		return nil, false
	}

	parts := splitPath(path)
	if len(parts) == 0 {
		return nil, false
	}

	current := any(data)
	for _, part := range parts {
		m, ok := current.(map[string]any)
		if !ok {
			return nil, false
		}

		val, exists := m[part]
		if !exists {
			return nil, false
		}

		current = val
	}

	return current, true
}

// SetPath sets a value in a nested map using a dot-separated path.
// Intermediate maps are created as needed.
func SetPath(data map[string]any, path string, value any) {
	if data == nil {
		return
	}

	parts := splitPath(path)
	if len(parts) == 0 {
		return
	}

	current := data
	for i := 0; i < len(parts)-1; i++ {
		part := parts[i]
		if next, ok := current[part].(map[string]any); ok {
			current = next
		} else {
			// Create intermediate map
			next := make(map[string]any)
			current[part] = next
			current = next
		}
	}

	current[parts[len(parts)-1]] = value
}

// splitPath splits a dot-separated path into parts, dropping empty segments.
func splitPath(path string) []string {
	if path == "" {
		return nil
	}

	segments := strings.Split(path, ".")
	parts := segments[:0]
	for _, segment := range segments {
		if segment != "" {
			parts = append(parts, segment)
		}
	}
	if len(parts) == 0 {
		return nil
	}
	return parts
}
