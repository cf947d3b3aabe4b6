package word

import (
	"math/rand"
	"strings"
	"unicode/utf8"
)

// Fallback vocabulary used when a game is created without a usable secret word.
var Vocabulary = []string{
	"APPLE", "BANANA", "ORANGE", "MANGO", "PEACH",
	"SOCKET", "SESSION", "CHANNEL", "KEYBOARD", "COMPUTER",
}

// SanitizeName trims a display name and caps it at 40 characters.
func SanitizeName(v string) string {
	return truncateRunes(strings.TrimSpace(v), 40)
}

// SanitizeWord normalizes a secret word or guess to [A-Z]{0,24}: uppercase,
// non-letters stripped, capped at 24. Empty result means the input was unusable.
func SanitizeWord(v string) string {
	raw := strings.ToUpper(strings.TrimSpace(v))
	var b strings.Builder
	for _, c := range raw {
		if c >= 'A' && c <= 'Z' {
			b.WriteRune(c)
		}
		if b.Len() == 24 {
			break
		}
	}
	return b.String()
}

// SanitizeChat trims chat text, strips angle brackets, and caps at 240 characters.
func SanitizeChat(v string) string {
	raw := strings.TrimSpace(v)
	raw = strings.ReplaceAll(raw, "<", "")
	raw = strings.ReplaceAll(raw, ">", "")
	return truncateRunes(raw, 240)
}

// truncateRunes caps s at max characters, never splitting a multibyte rune.
func truncateRunes(s string, max int) string {
	if utf8.RuneCountInString(s) <= max {
		return s
	}
	return string([]rune(s)[:max])
}

// Mask renders the secret word with guessed letters shown and the rest as
// underscores, space-delimited: "A P P L E" or "_ A _ _ _".
func Mask(word string, guessed map[rune]bool) string {
	parts := make([]string, 0, len(word))
	for _, c := range word {
		if guessed[c] {
			parts = append(parts, string(c))
		} else {
			parts = append(parts, "_")
		}
	}
	return strings.Join(parts, " ")
}

// Solved reports whether every letter of word has been guessed.
func Solved(word string, guessed map[rune]bool) bool {
	for _, c := range word {
		if !guessed[c] {
			return false
		}
	}
	return true
}

// Picker selects fallback words. Intn is injectable so tests can pin the pick.
type Picker struct {
	vocab []string
	intn  func(n int) int
}

func NewPicker(vocab []string, intn func(n int) int) *Picker {
	if vocab == nil {
		vocab = Vocabulary
	}
	if intn == nil {
		intn = rand.Intn
	}
	return &Picker{vocab: vocab, intn: intn}
}

func (p *Picker) Pick() string {
	return p.vocab[p.intn(len(p.vocab))]
}

// Resolve sanitizes a requested secret word, falling back to a random
// vocabulary pick when the result is empty.
func (p *Picker) Resolve(requested string) string {
	if w := SanitizeWord(requested); w != "" {
		return w
	}
	return p.Pick()
}
