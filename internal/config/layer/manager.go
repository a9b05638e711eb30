package layer

import "sort"

// Manager holds configuration layers and provides merged access.
// A Manager is built once per resolution and is not safe for
// concurrent use; each run constructs its own.
type Manager struct {
	layers []*Layer       // Sorted by priority (ascending)
	merged map[string]any // Cached merged result
	dirty  bool           // Whether merged cache needs refresh
}

// NewManager creates a new layer manager.
func NewManager() *Manager {
	return &Manager{
		layers: make([]*Layer, 0),
		dirty:  true,
	}
}

// AddLayer adds a layer to the manager.
// Layers are automatically sorted by priority.
func (m *Manager) AddLayer(layer *Layer) {
	m.layers = append(m.layers, layer)
	m.sortLayers()
	m.dirty = true
}

// RemoveLayer removes a layer by name.
// Returns true if the layer was found and removed.
func (m *Manager) RemoveLayer(name string) bool {
	for i, layer := range m.layers {
		if layer.Name == name {
			m.layers = append(m.layers[:i], m.layers[i+1:]...)
			m.dirty = true
			return true
		}
	}
	return false
}

// GetLayer returns a layer by name, or nil if not present.
func (m *Manager) GetLayer(name string) *Layer {
	for _, layer := range m.layers {
		if layer.Name == name {
			return layer
		}
	}
	return nil
}

// Merge returns the merged configuration across all layers, lowest
// priority first. The result is cached until the layer set changes.
// Layer data is never mutated by merging.
func (m *Manager) Merge() map[string]any {
	if !m.dirty && m.merged != nil {
		return m.merged
	}

	merged := make(map[string]any)
	for _, layer := range m.layers {
		merged = Merge(merged, layer.Data)
	}

	m.merged = merged
	m.dirty = false
	return merged
}

// sortLayers sorts layers by ascending priority. The sort is stable so
// layers with equal priority keep their insertion order.
func (m *Manager) sortLayers() {
	sort.SliceStable(m.layers, func(i, j int) bool {
		return m.layers[i].Priority < m.layers[j].Priority
	})
}
