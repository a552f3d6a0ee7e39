package cricket

// setting holds a configuration value that is either unset or set.
type setting[T any] struct {
	value T
	ok    bool
}

func (s *setting[T]) set(v T) {
	s.value = v
	s.ok = true
}

func (s setting[T]) get() (T, bool) {
	return s.value, s.ok
}

func (s setting[T]) isSet() bool {
	return s.ok
}
