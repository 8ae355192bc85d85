package slug

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name  string
		title string
		want  string
	}{
		{"simple title", "Sandalwood Incense", "sandalwood-incense"},
		{"mixed case", "Rose Agarbatti Premium", "rose-agarbatti-premium"},
		{"special characters stripped", "Pooja Thali (Brass) — 12\"", "pooja-thali-brass-12"},
		{"multiple spaces collapsed", "Camphor   Tablets    Pure", "camphor-tablets-pure"},
		{"existing hyphens collapsed", "dhoop--sticks---pack", "dhoop-sticks-pack"},
		{"leading and trailing trimmed", "  -Holy Water-  ", "holy-water"},
		{"unicode stripped", "श्री Incense", "incense"},
		{"empty", "", ""},
		{"only symbols", "!!!###", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Normalize(tt.title))
		})
	}
}

func TestNormalize_Truncation(t *testing.T) {
	long := strings.Repeat("incense ", 30)
	got := Normalize(long)

	assert.LessOrEqual(t, len(got), MaxLength)
	assert.False(t, strings.HasSuffix(got, "-"), "truncation must not leave a trailing hyphen")
}

func TestNormalize_Idempotent(t *testing.T) {
	once := Normalize("Sacred Rudraksha Mala 108 Beads")
	assert.Equal(t, once, Normalize(once))
}
