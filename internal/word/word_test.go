package word

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSanitizeWord(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{"lowercase upcased", "apple", "APPLE"},
		{"surrounding space trimmed", "  mango  ", "MANGO"},
		{"digits and punctuation stripped", "b4-n4_n4!", "BNN"},
		{"capped at 24", strings.Repeat("AB", 20), strings.Repeat("AB", 12)},
		{"nothing usable", "123 !?", ""},
		{"empty", "", ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, SanitizeWord(tc.in))
		})
	}
}

func TestSanitizeName(t *testing.T) {
	assert.Equal(t, "Friday Night", SanitizeName("  Friday Night  "))
	long := strings.Repeat("x", 60)
	assert.Len(t, SanitizeName(long), 40)
}

func TestSanitizeChat(t *testing.T) {
	assert.Equal(t, "hello world", SanitizeChat("  hello <world> "))
	assert.Equal(t, "", SanitizeChat("  <> "))
	long := strings.Repeat("y", 300)
	assert.Len(t, SanitizeChat(long), 240)
}

func TestSanitizeCapsOnRuneBoundaries(t *testing.T) {
	// a multibyte rune straddling the cap must be dropped whole, never
	// split into invalid UTF-8
	chat := SanitizeChat(strings.Repeat("x", 239) + "éé")
	require.True(t, utf8.ValidString(chat))
	assert.Equal(t, 240, utf8.RuneCountInString(chat))
	assert.True(t, strings.HasSuffix(chat, "é"))

	name := SanitizeName(strings.Repeat("x", 39) + "éé")
	require.True(t, utf8.ValidString(name))
	assert.Equal(t, 40, utf8.RuneCountInString(name))
	assert.True(t, strings.HasSuffix(name, "é"))

	short := "héllo"
	assert.Equal(t, short, SanitizeName(short), "short multibyte input passes through")
}

func TestMask(t *testing.T) {
	guessed := map[rune]bool{'A': true, 'P': true}
	assert.Equal(t, "A P P _ _", Mask("APPLE", guessed))

	none := map[rune]bool{}
	assert.Equal(t, "_ _ _ _ _", Mask("MANGO", none))
}

func TestSolved(t *testing.T) {
	guessed := map[rune]bool{'A': true, 'P': true, 'L': true}
	assert.False(t, Solved("APPLE", guessed))
	guessed['E'] = true
	assert.True(t, Solved("APPLE", guessed))
}

func TestPickerResolve(t *testing.T) {
	p := NewPicker([]string{"SOCKET", "PEACH"}, func(n int) int { return 1 })

	require.Equal(t, "APPLE", p.Resolve("apple"), "valid input wins over fallback")
	require.Equal(t, "PEACH", p.Resolve(""), "empty input falls back to the pinned pick")
	require.Equal(t, "PEACH", p.Resolve("42!"), "unusable input falls back too")
}
