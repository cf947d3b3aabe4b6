package game

import (
	"errors"
	"sort"
	"strings"
	"time"

	"github.com/wordarena/wordarena-backend/internal/chat"
	"github.com/wordarena/wordarena-backend/internal/word"
)

var ErrGameEnded = errors.New("game already ended")
var ErrGameFull = errors.New("game is full")
var ErrNotActive = errors.New("game is not active")
var ErrWrongTurn = errors.New("not your turn")
var ErrEmptyGuess = errors.New("enter a letter or word")
var ErrLetterGuessed = errors.New("letter already guessed")
var ErrNotInGame = errors.New("join the game first")

type State string

const (
	StateActive State = "active"
	StateEnded  State = "ended"
)

// Attempts every game starts with. Wrong guesses burn them down.
const StartingAttempts = 6

const (
	MinPlayers        = 2
	MaxPlayers        = 8
	DefaultMaxPlayers = 4
)

type Player struct {
	ID       string `json:"id"`
	Username string `json:"username"`
}

// Game is one session: a fixed secret word, an ordered roster, and a turn
// cursor. All mutation happens on the broker goroutine; Game itself holds
// no locks.
type Game struct {
	ID           string
	Name         string
	HostID       string
	HostUsername string
	Capacity     int
	State        State
	CreatedAt    time.Time

	Word      string
	Guessed   map[rune]bool
	Remaining int

	Players   []Player
	TurnIndex int

	Chat     *chat.Ring
	WinnerID string // empty until a win; set once, never cleared
}

// Spec carries the host's creation request before sanitizing.
type Spec struct {
	Host       Player
	Name       string
	Capacity   int
	SecretWord string
}

// New builds a game from a creation request: name trimmed with a default,
// capacity clamped to [MinPlayers, MaxPlayers], secret word sanitized or
// picked from the vocabulary.
func New(id string, spec Spec, picker *word.Picker, now time.Time) *Game {
	name := word.SanitizeName(spec.Name)
	if name == "" {
		name = "Game " + id[:4]
	}

	capacity := spec.Capacity
	if capacity == 0 {
		capacity = DefaultMaxPlayers
	}
	if capacity < MinPlayers {
		capacity = MinPlayers
	}
	if capacity > MaxPlayers {
		capacity = MaxPlayers
	}

	return &Game{
		ID:           id,
		Name:         name,
		HostID:       spec.Host.ID,
		HostUsername: spec.Host.Username,
		Capacity:     capacity,
		State:        StateActive,
		CreatedAt:    now,
		Word:         picker.Resolve(spec.SecretWord),
		Guessed:      make(map[rune]bool),
		Remaining:    StartingAttempts,
		Chat:         chat.NewRing(chat.DefaultCapacity),
	}
}

// AddPlayer appends a player to the roster. Joining a game you already
// belong to is a no-op success.
func (g *Game) AddPlayer(p Player) error {
	if g.State == StateEnded {
		return ErrGameEnded
	}
	if g.HasPlayer(p.ID) {
		return nil
	}
	if len(g.Players) >= g.Capacity {
		return ErrGameFull
	}
	g.Players = append(g.Players, p)
	if len(g.Players) == 1 {
		g.TurnIndex = 0
	}
	return nil
}

// RemovePlayer drops every roster entry for userID and reports whether the
// roster is now empty, in which case the caller must delete the game.
// Ending status is never altered by removal.
func (g *Game) RemovePlayer(userID string) (empty bool) {
	before := len(g.Players)
	kept := g.Players[:0]
	for _, p := range g.Players {
		if p.ID != userID {
			kept = append(kept, p)
		}
	}
	g.Players = kept

	if len(g.Players) == 0 {
		return before > 0
	}
	if g.TurnIndex >= len(g.Players) {
		g.TurnIndex = 0
	}
	return false
}

func (g *Game) HasPlayer(userID string) bool {
	for _, p := range g.Players {
		if p.ID == userID {
			return true
		}
	}
	return false
}

// CurrentTurn names whose move is next; ok is false on an empty roster.
func (g *Game) CurrentTurn() (Player, bool) {
	if len(g.Players) == 0 || g.TurnIndex >= len(g.Players) {
		return Player{}, false
	}
	return g.Players[g.TurnIndex], true
}

func (g *Game) advanceTurn() {
	if len(g.Players) == 0 {
		return
	}
	g.TurnIndex = (g.TurnIndex + 1) % len(g.Players)
}

func (g *Game) end(winnerID string) {
	g.State = StateEnded
	g.WinnerID = winnerID
}

// Snapshot is the full game state rendering pushed to the game channel on
// every mutation.
type Snapshot struct {
	ID           string   `json:"id"`
	Name         string   `json:"name"`
	State        State    `json:"state"`
	HostUsername string   `json:"host_username"`
	Players      []Player `json:"players"`
	Capacity     int      `json:"capacity"`
	Remaining    int      `json:"remaining"`
	Guessed      string   `json:"guessed"`
	Masked       string   `json:"masked"`
	CurrentTurn  *Player  `json:"current_turn"`
	WinnerID     *string  `json:"winner_id"`
}

func (g *Game) Snapshot() Snapshot {
	snap := Snapshot{
		ID:           g.ID,
		Name:         g.Name,
		State:        g.State,
		HostUsername: g.HostUsername,
		Players:      append([]Player(nil), g.Players...),
		Capacity:     g.Capacity,
		Remaining:    g.Remaining,
		Guessed:      guessedDisplay(g.Guessed),
		Masked:       word.Mask(g.Word, g.Guessed),
	}
	if cur, ok := g.CurrentTurn(); ok {
		snap.CurrentTurn = &cur
	}
	if g.WinnerID != "" {
		id := g.WinnerID
		snap.WinnerID = &id
	}
	return snap
}

// guessedDisplay renders the guessed set sorted and comma-joined: "A, E, P".
func guessedDisplay(guessed map[rune]bool) string {
	letters := make([]string, 0, len(guessed))
	for c := range guessed {
		letters = append(letters, string(c))
	}
	sort.Strings(letters)
	return strings.Join(letters, ", ")
}
