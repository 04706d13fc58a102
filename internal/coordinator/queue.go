package coordinator

import "sync"

// keyQueue serializes work per key. Slots are handed out in the order
// acquire is called, so writes to one key complete in issue order.
type keyQueue struct {
	mu    sync.Mutex
	tails map[string]chan struct{}
}

func newKeyQueue() *keyQueue {
	return &keyQueue{tails: make(map[string]chan struct{})}
}

// slot is a reserved position in a key's queue
type slot struct {
	q    *keyQueue
	key  string
	prev <-chan struct{}
	done chan struct{}
}

// acquire reserves the next position for key without blocking.
func (q *keyQueue) acquire(key string) *slot {
	q.mu.Lock()
	defer q.mu.Unlock()

	s := &slot{q: q, key: key, prev: q.tails[key], done: make(chan struct{})}
	q.tails[key] = s.done
	return s
}

// wait blocks until every earlier slot on the same key has been released.
func (s *slot) wait() {
	if s.prev != nil {
		<-s.prev
	}
}

func (s *slot) release() {
	s.q.mu.Lock()
	if s.q.tails[s.key] == s.done {
		delete(s.q.tails, s.key)
	}
	s.q.mu.Unlock()
	close(s.done)
}

// pending reports how many keys still have queued work
func (q *keyQueue) pending() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.tails)
}
