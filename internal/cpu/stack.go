package cpu

// StackDepth is the maximum number of nested calls.
const StackDepth = 16

// Stack is the bounded call stack of return addresses.
type Stack struct {
	entries [StackDepth]uint16
	depth   int
}

// Push stores a return address, it fails if the stack is full.
func (s *Stack) Push(address uint16) error {
	if s.depth == StackDepth {
		return ErrStackOverflow
	}
	s.entries[s.depth] = address
	s.depth++
	return nil
}

// Pop removes and returns the most recent return address, it fails if the stack is empty.
func (s *Stack) Pop() (uint16, error) {
	if s.depth == 0 {
		return 0, ErrStackUnderflow
	}
	s.depth--
	return s.entries[s.depth], nil
}

// Depth returns the number of stored return addresses.
func (s *Stack) Depth() int {
	return s.depth
}

// Reset empties the stack.
func (s *Stack) Reset() {
	s.entries = [StackDepth]uint16{}
	s.depth = 0
}
