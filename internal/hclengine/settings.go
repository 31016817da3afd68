package hclengine

// settings implements engine.Settings. References are recorded in first-add
// order and deduplicated; this engine resolves nothing eagerly, so a
// reference only becomes meaningful if a later namespace import draws on it.
type settings struct {
	names []string
	seen  map[string]struct{}
}

func newSettings() *settings {
	return &settings{seen: make(map[string]struct{})}
}

func (s *settings) AddReference(name string) error {
	if _, ok := s.seen[name]; ok {
		return nil
	}
	s.seen[name] = struct{}{}
	s.names = append(s.names, name)
	return nil
}

func (s *settings) References() []string {
	out := make([]string, len(s.names))
	copy(out, s.names)
	return out
}
