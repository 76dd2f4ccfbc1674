package layer

import (
	"sort"
	"sync"
)

// Manager manages configuration layers and provides merged access.
type Manager struct {
	mu      sync.RWMutex
	layers  []*Layer        // Sorted by priority (ascending)
	replace map[string]bool // Top-level keys replaced rather than merged
	merged  map[string]any  // Cached merged result
	dirty   bool            // Whether merged cache needs refresh
}

// NewManager creates a new layer manager. Tables named in replace are
// taken whole from the highest layer that sets them instead of being
// merged key by key.
func NewManager(replace ...string) *Manager {
	m := &Manager{
		replace: make(map[string]bool, len(replace)),
		dirty:   true,
	}
	for _, key := range replace {
		m.replace[key] = true
	}
	return m
}

// AddLayer adds a layer to the manager, replacing any layer with the same
// name. Layers are kept sorted by priority.
func (m *Manager) AddLayer(layer *Layer) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i, l := range m.layers {
		if l.Name == layer.Name {
			m.layers[i] = layer
			m.sortLayers()
			m.dirty = true
			return
		}
	}

	m.layers = append(m.layers, layer)
	m.sortLayers()
	m.dirty = true
}

// GetLayer returns a layer by name.
func (m *Manager) GetLayer(name string) *Layer {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.findLayer(name)
}

// Layers returns a copy of all layers sorted by priority.
func (m *Manager) Layers() []*Layer {
	m.mu.RLock()
	defer m.mu.RUnlock()

	result := make([]*Layer, len(m.layers))
	copy(result, m.layers)
	return result
}

// Merge combines all layers into a single configuration map.
// Results are cached until a layer is added or updated.
func (m *Manager) Merge() map[string]any {
	m.mu.Lock()
	defer m.mu.Unlock()
	return cloneMap(m.mergedData())
}

// mergedData refreshes the cache if dirty and returns the internal
// reference. Callers must hold the write lock.
func (m *Manager) mergedData() map[string]any {
	if m.dirty || m.merged == nil {
		result := make(map[string]any)
		for _, layer := range m.layers {
			for key := range m.replace {
				if _, ok := layer.Data[key]; ok {
					delete(result, key)
				}
			}
			result = DeepMerge(result, layer.Data)
		}
		m.merged = result
		m.dirty = false
	}
	return m.merged
}

// Get returns the effective value for a setting path.
func (m *Manager) Get(path string) (any, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return GetByPath(m.mergedData(), path)
}

// WhichLayer returns the name of the highest layer that sets path, or ""
// if none does.
func (m *Manager) WhichLayer(path string) string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for i := len(m.layers) - 1; i >= 0; i-- {
		if _, ok := GetByPath(m.layers[i].Data, path); ok {
			return m.layers[i].Name
		}
	}
	return ""
}

// Set sets a value in the layer for source, creating the layer if needed.
func (m *Manager) Set(source Source, path string, value any) {
	m.mu.Lock()
	defer m.mu.Unlock()

	layer := m.findLayer(source.String())
	if layer == nil {
		layer = NewLayer(source)
		m.layers = append(m.layers, layer)
		m.sortLayers()
	}
	SetByPath(layer.Data, path, value)
	m.dirty = true
}

// sortLayers sorts layers by priority (ascending).
func (m *Manager) sortLayers() {
	sort.SliceStable(m.layers, func(i, j int) bool {
		return m.layers[i].Priority < m.layers[j].Priority
	})
}

// findLayer finds a layer by name (must hold lock).
func (m *Manager) findLayer(name string) *Layer {
	for _, layer := range m.layers {
		if layer.Name == name {
			return layer
		}
	}
	return nil
}
