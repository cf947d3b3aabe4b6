package game

import (
	"fmt"
	"strings"

	"github.com/wordarena/wordarena-backend/internal/word"
)

// Outcome describes an accepted guess. Narration is the system chat line to
// append to the game channel; Ended reports a terminal transition.
type Outcome struct {
	Narration string
	Ended     bool
}

// Guess applies one guess from p. A rejected guess returns an error and
// mutates nothing: the turn does not advance and no attempt is spent.
//
// Single letters are free to repeat (a duplicate is rejected without cost),
// while a wrong full-word guess always burns an attempt. The asymmetry is
// deliberate: it keeps letter play cheap and makes word-spamming expensive.
func (g *Game) Guess(p Player, raw string) (Outcome, error) {
	if g.State != StateActive {
		return Outcome{}, ErrNotActive
	}

	current, ok := g.CurrentTurn()
	if !ok || current.ID != p.ID {
		return Outcome{}, ErrWrongTurn
	}

	guess := word.SanitizeWord(raw)
	if guess == "" {
		return Outcome{}, ErrEmptyGuess
	}

	if len(guess) > 1 {
		return g.guessWord(p, guess)
	}
	return g.guessLetter(p, rune(guess[0]))
}

func (g *Game) guessWord(p Player, guess string) (Outcome, error) {
	if guess == g.Word {
		for _, c := range g.Word {
			g.Guessed[c] = true
		}
		g.end(p.ID)
		return Outcome{
			Narration: fmt.Sprintf("%s guessed the word and wins!", p.Username),
			Ended:     true,
		}, nil
	}

	g.Remaining--
	if g.Remaining <= 0 {
		g.end("")
		return Outcome{
			Narration: fmt.Sprintf("%s guessed wrong. Game over.", p.Username),
			Ended:     true,
		}, nil
	}

	g.advanceTurn()
	return Outcome{Narration: fmt.Sprintf("%s guessed wrong.", p.Username)}, nil
}

func (g *Game) guessLetter(p Player, letter rune) (Outcome, error) {
	if g.Guessed[letter] {
		return Outcome{}, ErrLetterGuessed
	}

	g.Guessed[letter] = true
	if !strings.ContainsRune(g.Word, letter) {
		g.Remaining--
	}

	if word.Solved(g.Word, g.Guessed) {
		g.end(p.ID)
		return Outcome{
			Narration: fmt.Sprintf("%s completed the word and wins!", p.Username),
			Ended:     true,
		}, nil
	}
	if g.Remaining <= 0 {
		g.end("")
		return Outcome{Narration: "No attempts left. Game over.", Ended: true}, nil
	}

	g.advanceTurn()
	return Outcome{Narration: fmt.Sprintf("%s guessed %q.", p.Username, string(letter))}, nil
}
