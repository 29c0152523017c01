package llm

import (
	"context"
	"sync"
)

// ContentStream is a cancellable pull stream of incremental completion
// text. The producing goroutine pushes chunks with Emit and finishes with
// CloseSend; the consumer pulls with Recv until ok is false, then checks
// Err. Close aborts the upstream request via the attached cancel func.
type ContentStream struct {
	ch     chan string
	cancel context.CancelFunc

	mu  sync.Mutex
	err error

	closeOnce chan struct{}
	once      sync.Once
}

// NewContentStream builds a stream whose Close cancels the given context.
func NewContentStream(cancel context.CancelFunc) *ContentStream {
	return &ContentStream{
		ch:        make(chan string, 16),
		cancel:    cancel,
		closeOnce: make(chan struct{}),
	}
}

// Recv returns the next chunk. ok is false once the producer finished or
// the stream was closed.
func (s *ContentStream) Recv() (string, bool) {
	chunk, ok := <-s.ch
	return chunk, ok
}

// Err reports the terminal error, nil on clean completion. Only
// meaningful after Recv returned ok=false.
func (s *ContentStream) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

// Close aborts the upstream request and drains the producer.
func (s *ContentStream) Close() {
	s.once.Do(func() {
		close(s.closeOnce)
		if s.cancel != nil {
			s.cancel()
		}
	})
	for range s.ch {
	}
}

// Emit pushes a chunk to the consumer. Returns false when the stream was
// closed and the producer should stop.
func (s *ContentStream) Emit(chunk string) bool {
	select {
	case s.ch <- chunk:
		return true
	case <-s.closeOnce:
		return false
	}
}

// CloseSend ends the stream from the producer side, recording the
// terminal error (nil for clean completion).
func (s *ContentStream) CloseSend(err error) {
	s.mu.Lock()
	s.err = err
	s.mu.Unlock()
	close(s.ch)
}
