package classifier

import "fmt"

// Mock is a test implementation of the Classifier interface. It returns
// a fixed vector, or plays back a queued per-call sequence.
type Mock struct {
	probs []float32
	queue [][]float32
	err   error
	calls int
}

// NewMock creates a Mock returning a uniform distribution over n
// categories until configured otherwise.
func NewMock(n int) *Mock {
	probs := make([]float32, n)
	for i := range probs {
		probs[i] = 1 / float32(n)
	}
	return &Mock{probs: probs}
}

// SetProbs sets the vector returned by Predict.
func (m *Mock) SetProbs(probs []float32) {
	m.probs = probs
}

// SetSequence queues per-call vectors; each Predict consumes one entry
// until the queue drains, then SetProbs applies again.
func (m *Mock) SetSequence(seq [][]float32) {
	m.queue = seq
}

// SetError sets the error returned by Predict.
func (m *Mock) SetError(err error) {
	m.err = err
}

// Calls returns how many times Predict has been invoked.
func (m *Mock) Calls() int {
	return m.calls
}

// Predict returns the configured result.
func (m *Mock) Predict(tensor []float32) ([]float32, error) {
	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	if len(m.queue) > 0 {
		next := m.queue[0]
		m.queue = m.queue[1:]
		return next, nil
	}
	return m.probs, nil
}

// Close is a no-op for the mock.
func (m *Mock) Close() error {
	return nil
}

// Peaked builds a probability vector of length n with weight p at index
// peak and the remainder spread uniformly. Panics on a bad index, which
// in tests is the right failure mode.
func Peaked(n, peak int, p float32) []float32 {
	if peak < 0 || peak >= n {
		panic(fmt.Sprintf("peak index %d out of range [0, %d)", peak, n))
	}
	probs := make([]float32, n)
	rest := (1 - p) / float32(n-1)
	for i := range probs {
		probs[i] = rest
	}
	probs[peak] = p
	return probs
}
