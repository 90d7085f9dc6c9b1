package seenstore

// MemoryStore keeps the seen-set in memory, in observation order. State is
// lost on restart, so the first poll after a restart treats the whole first
// page as already-seen bootstrap data rather than new items.
type MemoryStore struct {
	order []string
	index map[string]struct{}
}

// NewMemoryStore creates an empty in-memory seen-set.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		index: make(map[string]struct{}),
	}
}

func (m *MemoryStore) Add(id string) error {
	if _, ok := m.index[id]; ok {
		return nil
	}
	m.index[id] = struct{}{}
	m.order = append(m.order, id)
	return nil
}

func (m *MemoryStore) Contains(id string) bool {
	_, ok := m.index[id]
	return ok
}

func (m *MemoryStore) Len() int {
	return len(m.order)
}

func (m *MemoryStore) Close() error {
	return nil
}

// IDs returns the identifiers in the order they were first observed.
func (m *MemoryStore) IDs() []string {
	out := make([]string, len(m.order))
	copy(out, m.order)
	return out
}
