package chat

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRingEvictsOldestPastCapacity(t *testing.T) {
	r := NewRing(50)
	for i := 0; i < 51; i++ {
		r.Push(Message{Ts: time.Now(), Username: "a", Text: fmt.Sprintf("msg %d", i)})
	}

	require.Equal(t, 50, r.Len())
	history := r.History()
	assert.Equal(t, "msg 1", history[0].Text, "oldest entry evicted first")
	assert.Equal(t, "msg 50", history[49].Text)
}

func TestRingHistoryIsACopy(t *testing.T) {
	r := NewRing(5)
	r.Push(Message{Text: "one"})

	h := r.History()
	h[0].Text = "mutated"
	assert.Equal(t, "one", r.History()[0].Text)
}

func TestRingDefaultCapacity(t *testing.T) {
	r := NewRing(0)
	for i := 0; i < DefaultCapacity+10; i++ {
		r.Push(Message{Text: "x"})
	}
	assert.Equal(t, DefaultCapacity, r.Len())
}
