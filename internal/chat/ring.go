package chat

import "time"

// SystemSender labels server-generated narration lines (turn and guess
// outcomes) so clients can style them apart from player chat.
const SystemSender = "System"

// DefaultCapacity is the per-channel history bound.
const DefaultCapacity = 50

// Message is one immutable chat entry.
type Message struct {
	Ts       time.Time `json:"ts"`
	Username string    `json:"username"`
	Text     string    `json:"text"`
}

// Ring is a bounded FIFO chat history. Oldest entries are evicted once the
// buffer is over capacity. Not safe for concurrent use; the broker owns it.
type Ring struct {
	max     int
	entries []Message
}

func NewRing(max int) *Ring {
	if max <= 0 {
		max = DefaultCapacity
	}
	return &Ring{max: max}
}

func (r *Ring) Push(m Message) {
	r.entries = append(r.entries, m)
	for len(r.entries) > r.max {
		r.entries = r.entries[1:]
	}
}

func (r *Ring) Len() int { return len(r.entries) }

// History returns a copy of the buffered entries, oldest first.
func (r *Ring) History() []Message {
	out := make([]Message, len(r.entries))
	copy(out, r.entries)
	return out
}
