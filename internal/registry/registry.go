package registry

import (
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/wordarena/wordarena-backend/internal/game"
	"github.com/wordarena/wordarena-backend/internal/word"
)

// ListingItem is one row of the lobby view.
type ListingItem struct {
	ID           string     `json:"id"`
	Name         string     `json:"name"`
	State        game.State `json:"state"`
	Players      int        `json:"players"`
	Capacity     int        `json:"capacity"`
	HostUsername string     `json:"host_username"`
}

// Registry owns the table of live games. It is not safe for concurrent use:
// the broker goroutine is its single owner, which is what serializes all
// game mutation.
type Registry struct {
	games  map[string]*game.Game
	picker *word.Picker
	now    func() time.Time
}

func New(picker *word.Picker, now func() time.Time) *Registry {
	if now == nil {
		now = time.Now
	}
	return &Registry{
		games:  make(map[string]*game.Game),
		picker: picker,
		now:    now,
	}
}

func (r *Registry) Create(spec game.Spec) *game.Game {
	id := uuid.NewString()
	g := game.New(id, spec, r.picker, r.now())
	r.games[id] = g
	return g
}

func (r *Registry) Get(id string) (*game.Game, bool) {
	g, ok := r.games[id]
	return g, ok
}

func (r *Registry) Delete(id string) {
	delete(r.games, id)
}

func (r *Registry) Len() int { return len(r.games) }

// Listing renders the lobby view, newest-created first.
func (r *Registry) Listing() []ListingItem {
	ordered := make([]*game.Game, 0, len(r.games))
	for _, g := range r.games {
		ordered = append(ordered, g)
	}
	// newest first; fall back to id so the order is stable under equal stamps
	sort.Slice(ordered, func(i, j int) bool { return after(ordered[i], ordered[j]) })

	items := make([]ListingItem, 0, len(ordered))
	for _, g := range ordered {
		items = append(items, ListingItem{
			ID:           g.ID,
			Name:         g.Name,
			State:        g.State,
			Players:      len(g.Players),
			Capacity:     g.Capacity,
			HostUsername: g.HostUsername,
		})
	}
	return items
}

func after(a, b *game.Game) bool {
	if !a.CreatedAt.Equal(b.CreatedAt) {
		return a.CreatedAt.After(b.CreatedAt)
	}
	return a.ID < b.ID
}
