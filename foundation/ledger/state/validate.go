package state

// Validate walks the chain from genesis forward and reports the first
// mismatch found. A nil return means the chain holds together.
func (s *State) Validate() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.db.Validate()
}

// IsValid is the boundary form of Validate, reporting the outcome as a
// boolean. An invalid chain is an expected outcome, not an exceptional
// one.
func (s *State) IsValid() bool {
	return s.Validate() == nil
}
