package normalize

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSanitizeStripsDisallowedRunes(t *testing.T) {
	cases := map[string]string{
		"Hyperion ✦":              "Hyperion",
		"Aspect of the End":       "Aspect of the End",
		"Wither Goggles ✧":        "Wither Goggles ✧",
		"[Lvl 100] Wolf":          "[Lvl 100] Wolf",
		"Jerry's Stone?!":         "Jerry's Stone",
		"Pickonimbus   2000":      "Pickonimbus 2000",
		"  Padded  Helmet  ":      "Padded Helmet",
		"Blood-Soaked Coins ❤":    "Blood-Soaked Coins ❤",
		"Witch's 文字 Hat":          "Witch's Hat",
		"Travel Scroll (Special)": "Travel Scroll (Special)",
		"":                        "",
		"☃":                       "",
	}

	for input, want := range cases {
		assert.Equal(t, want, Sanitize(input), "input %q", input)
	}
}

func TestSanitizeIdempotent(t *testing.T) {
	inputs := []string{
		"Hyperion ✦",
		"  weird ☃ name  with   runs ",
		"[Lvl 42] Ender Dragon",
		"Heroic Valkyrie ◆",
		"plain",
	}

	for _, input := range inputs {
		once := Sanitize(input)
		assert.Equal(t, once, Sanitize(once), "sanitize must be idempotent for %q", input)
	}
}
