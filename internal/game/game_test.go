package game

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/wordarena/wordarena-backend/internal/word"
)

var (
	alice = Player{ID: "u1", Username: "alice"}
	bob   = Player{ID: "u2", Username: "bob"}
	carol = Player{ID: "u3", Username: "carol"}
)

func newTestGame(t *testing.T, secret string, capacity int, players ...Player) *Game {
	t.Helper()
	picker := word.NewPicker([]string{"PEACH"}, func(n int) int { return 0 })
	g := New("abcd-1234", Spec{Host: players[0], Name: "test game", Capacity: capacity, SecretWord: secret}, picker, time.Now())
	for _, p := range players {
		if err := g.AddPlayer(p); err != nil {
			t.Fatalf("add player %s: %v", p.Username, err)
		}
	}
	return g
}

func TestNewDefaultsAndClamps(t *testing.T) {
	picker := word.NewPicker([]string{"PEACH"}, func(n int) int { return 0 })

	cases := []struct {
		name         string
		spec         Spec
		wantName     string
		wantCapacity int
		wantWord     string
	}{
		{
			name:         "defaults",
			spec:         Spec{Host: alice},
			wantName:     "Game abcd",
			wantCapacity: 4,
			wantWord:     "PEACH",
		},
		{
			name:         "capacity clamped up",
			spec:         Spec{Host: alice, Name: "tiny", Capacity: 1},
			wantName:     "tiny",
			wantCapacity: 2,
			wantWord:     "PEACH",
		},
		{
			name:         "capacity clamped down",
			spec:         Spec{Host: alice, Capacity: 99, SecretWord: "apple"},
			wantName:     "Game abcd",
			wantCapacity: 8,
			wantWord:     "APPLE",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			g := New("abcd-1234", tc.spec, picker, time.Now())
			if g.Name != tc.wantName {
				t.Fatalf("name: want %q, got %q", tc.wantName, g.Name)
			}
			if g.Capacity != tc.wantCapacity {
				t.Fatalf("capacity: want %d, got %d", tc.wantCapacity, g.Capacity)
			}
			if g.Word != tc.wantWord {
				t.Fatalf("word: want %q, got %q", tc.wantWord, g.Word)
			}
			if g.State != StateActive || g.Remaining != StartingAttempts {
				t.Fatalf("fresh game not active with %d attempts: %+v", StartingAttempts, g)
			}
		})
	}
}

func TestAddPlayerIdempotent(t *testing.T) {
	g := newTestGame(t, "APPLE", 4, alice, bob)

	if err := g.AddPlayer(alice); err != nil {
		t.Fatalf("rejoining should be a no-op success, got %v", err)
	}
	if len(g.Players) != 2 {
		t.Fatalf("roster length changed on rejoin: %d", len(g.Players))
	}
	if g.Players[0].ID != alice.ID || g.Players[1].ID != bob.ID {
		t.Fatalf("roster order changed on rejoin: %+v", g.Players)
	}
}

func TestAddPlayerCapacity(t *testing.T) {
	g := newTestGame(t, "APPLE", 2, alice, bob)

	err := g.AddPlayer(carol)
	if !errors.Is(err, ErrGameFull) {
		t.Fatalf("want ErrGameFull, got %v", err)
	}
	if len(g.Players) != 2 {
		t.Fatalf("roster grew past capacity: %d", len(g.Players))
	}
}

func TestAddPlayerEndedGame(t *testing.T) {
	g := newTestGame(t, "APPLE", 4, alice)
	g.end(alice.ID)

	if err := g.AddPlayer(bob); !errors.Is(err, ErrGameEnded) {
		t.Fatalf("want ErrGameEnded, got %v", err)
	}
}

func TestRemovePlayerResetsCursor(t *testing.T) {
	g := newTestGame(t, "APPLE", 4, alice, bob, carol)
	g.TurnIndex = 2

	if empty := g.RemovePlayer(carol.ID); empty {
		t.Fatalf("roster should not be empty")
	}
	if g.TurnIndex != 0 {
		t.Fatalf("cursor should reset to 0 when out of range, got %d", g.TurnIndex)
	}
}

func TestRemovePlayerLastEmpties(t *testing.T) {
	g := newTestGame(t, "APPLE", 4, alice)

	if empty := g.RemovePlayer(alice.ID); !empty {
		t.Fatalf("removing the last player should report an empty roster")
	}
	if empty := g.RemovePlayer(alice.ID); empty {
		t.Fatalf("removing from an already-empty roster must not re-report empty")
	}
}

func TestLetterCompletionWin(t *testing.T) {
	g := newTestGame(t, "APPLE", 4, alice, bob)

	players := []Player{alice, bob}
	for i, letter := range []string{"A", "P", "L"} {
		out, err := g.Guess(players[i%2], letter)
		if err != nil {
			t.Fatalf("guess %q: %v", letter, err)
		}
		if out.Ended {
			t.Fatalf("game ended early on %q", letter)
		}
	}

	out, err := g.Guess(bob, "E")
	if err != nil {
		t.Fatalf("final guess: %v", err)
	}
	if !out.Ended || g.State != StateEnded {
		t.Fatalf("game should end when the word completes")
	}
	if g.WinnerID != bob.ID {
		t.Fatalf("winner should be the last guesser, got %q", g.WinnerID)
	}
	if g.Remaining != StartingAttempts {
		t.Fatalf("correct letters must not cost attempts, remaining=%d", g.Remaining)
	}

	snap := g.Snapshot()
	if snap.Masked != "A P P L E" {
		t.Fatalf("masked display: want %q, got %q", "A P P L E", snap.Masked)
	}
	if snap.Guessed != "A, E, L, P" {
		t.Fatalf("guessed display: want %q, got %q", "A, E, L, P", snap.Guessed)
	}
}

func TestAttemptExhaustionOnWordGuesses(t *testing.T) {
	g := newTestGame(t, "MANGO", 4, alice, bob)
	players := []Player{alice, bob}

	for i := 0; i < 6; i++ {
		before := g.Remaining
		out, err := g.Guess(players[i%2], fmt.Sprintf("WRONGWORD%c", 'A'+i))
		if err != nil {
			t.Fatalf("wrong word %d: %v", i, err)
		}
		if g.Remaining != before-1 {
			t.Fatalf("wrong word must cost exactly one attempt: %d -> %d", before, g.Remaining)
		}
		if i < 5 && out.Ended {
			t.Fatalf("ended too early after %d wrong words", i+1)
		}
	}

	if g.State != StateEnded || g.Remaining != 0 {
		t.Fatalf("game should end with no attempts: state=%s remaining=%d", g.State, g.Remaining)
	}
	if g.WinnerID != "" {
		t.Fatalf("exhaustion has no winner, got %q", g.WinnerID)
	}

	if _, err := g.Guess(alice, "MANGO"); !errors.Is(err, ErrNotActive) {
		t.Fatalf("ended game must reject guesses, got %v", err)
	}
}

func TestDuplicateLetterIsFree(t *testing.T) {
	g := newTestGame(t, "MANGO", 4, alice, bob)

	if _, err := g.Guess(alice, "Z"); err != nil {
		t.Fatalf("first Z: %v", err)
	}
	if g.Remaining != 5 {
		t.Fatalf("wrong letter should cost one attempt, remaining=%d", g.Remaining)
	}

	// bob repeats the letter: rejected, no attempt spent, still bob's turn
	_, err := g.Guess(bob, "Z")
	if !errors.Is(err, ErrLetterGuessed) {
		t.Fatalf("want ErrLetterGuessed, got %v", err)
	}
	if g.Remaining != 5 {
		t.Fatalf("duplicate letter must be free, remaining=%d", g.Remaining)
	}
	if cur, _ := g.CurrentTurn(); cur.ID != bob.ID {
		t.Fatalf("duplicate letter must not advance the turn")
	}
}

func TestGuessRejections(t *testing.T) {
	g := newTestGame(t, "MANGO", 4, alice, bob)

	cases := []struct {
		name    string
		player  Player
		guess   string
		wantErr error
	}{
		{"out of turn", bob, "A", ErrWrongTurn},
		{"empty after sanitizing", alice, "123 !?", ErrEmptyGuess},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			before := g.Remaining
			_, err := g.Guess(tc.player, tc.guess)
			if !errors.Is(err, tc.wantErr) {
				t.Fatalf("want %v, got %v", tc.wantErr, err)
			}
			if g.Remaining != before {
				t.Fatalf("rejected guess mutated attempts")
			}
			if cur, _ := g.CurrentTurn(); cur.ID != alice.ID {
				t.Fatalf("rejected guess advanced the turn")
			}
		})
	}
}

func TestExactWordGuessWins(t *testing.T) {
	g := newTestGame(t, "MANGO", 4, alice, bob)

	out, err := g.Guess(alice, "mango")
	if err != nil {
		t.Fatalf("exact word: %v", err)
	}
	if !out.Ended || g.WinnerID != alice.ID {
		t.Fatalf("exact word should win: %+v winner=%q", out, g.WinnerID)
	}
	if snap := g.Snapshot(); snap.Masked != "M A N G O" {
		t.Fatalf("win should reveal the word, got %q", snap.Masked)
	}
}

func TestRoundRobinCursor(t *testing.T) {
	g := newTestGame(t, "MANGO", 4, alice, bob, carol)
	players := []Player{alice, bob, carol}

	// distinct harmless letters keep the game alive for two full cycles
	letters := []string{"B", "C", "D", "E", "F", "H"}
	for i, letter := range letters {
		want := players[i%3]
		cur, ok := g.CurrentTurn()
		if !ok || cur.ID != want.ID {
			t.Fatalf("step %d: acting player should be %s, cursor says %s", i, want.Username, cur.Username)
		}
		if _, err := g.Guess(cur, letter); err != nil {
			t.Fatalf("step %d: %v", i, err)
		}
	}
}
