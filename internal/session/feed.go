package session

import (
	"sync"

	"github.com/google/uuid"

	"github.com/banshee-data/sprint.report/internal/sprint"
)

// feedBuffer is how many analyses a slow subscriber may fall behind before
// it starts missing them.
const feedBuffer = 16

// feed fans accepted analyses out to live subscribers. Delivery never blocks
// frame processing.
type feed struct {
	mu          sync.Mutex
	subscribers map[string]chan sprint.Analysis
	closed      bool
}

// Subscribe returns a channel receiving every analysis accepted from now on,
// and the ID to pass to Unsubscribe. The channel is closed by Unsubscribe or
// when the session is removed from its Manager.
func (s *Session) Subscribe() (string, <-chan sprint.Analysis) {
	s.feed.mu.Lock()
	defer s.feed.mu.Unlock()

	ch := make(chan sprint.Analysis, feedBuffer)
	if s.feed.closed {
		close(ch)
		return "", ch
	}
	if s.feed.subscribers == nil {
		s.feed.subscribers = make(map[string]chan sprint.Analysis)
	}
	id := uuid.NewString()
	s.feed.subscribers[id] = ch
	return id, ch
}

// Unsubscribe closes and forgets the subscriber id. Unknown IDs are ignored.
func (s *Session) Unsubscribe(id string) {
	s.feed.mu.Lock()
	defer s.feed.mu.Unlock()
	if ch, ok := s.feed.subscribers[id]; ok {
		close(ch)
		delete(s.feed.subscribers, id)
	}
}

// Subscribers reports the number of live subscribers.
func (s *Session) Subscribers() int {
	s.feed.mu.Lock()
	defer s.feed.mu.Unlock()
	return len(s.feed.subscribers)
}

func (s *Session) publish(a sprint.Analysis) {
	s.feed.mu.Lock()
	defer s.feed.mu.Unlock()
	for _, ch := range s.feed.subscribers {
		select {
		case ch <- a:
		default:
			// full: drop for this subscriber only
		}
	}
}

// closeFeed ends every subscription; later Subscribe calls get a closed
// channel.
func (s *Session) closeFeed() {
	s.feed.mu.Lock()
	defer s.feed.mu.Unlock()
	s.feed.closed = true
	for id, ch := range s.feed.subscribers {
		close(ch)
		delete(s.feed.subscribers, id)
	}
}
