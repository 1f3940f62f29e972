// Package dicetest provides deterministic dice sources for tests.
package dicetest

// Call records the bounds of one Uniform call.
type Call struct {
	Low  int
	High int
}

// Sequence returns its values in order, starting over when exhausted.
type Sequence struct {
	values []int
	next   int
	calls  []Call
}

// NewSequence returns a source yielding values in order.
// With no values it always yields the low bound.
func NewSequence(values ...int) *Sequence {
	return &Sequence{values: append([]int(nil), values...)}
}

// Uniform records the call and returns the next value.
func (s *Sequence) Uniform(low, high int) int {
	s.calls = append(s.calls, Call{Low: low, High: high})
	if len(s.values) == 0 {
		return low
	}
	v := s.values[s.next%len(s.values)]
	s.next++
	return v
}

// Calls returns every recorded call.
func (s *Sequence) Calls() []Call {
	return append([]Call(nil), s.calls...)
}

// Count returns the number of calls made so far.
func (s *Sequence) Count() int {
	return len(s.calls)
}
