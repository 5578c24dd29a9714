package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSlugify(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{"simple", "Tech Corp", "tech-corp"},
		{"punctuation collapsed", "Acme, Inc.", "acme-inc"},
		{"leading and trailing trimmed", "  --Hello World--  ", "hello-world"},
		{"already a slug", "tech-corp", "tech-corp"},
		{"digits kept", "Team 42", "team-42"},
		{"unicode stripped", "Café Münster", "caf-m-nster"},
		{"only symbols", "!!!", ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Slugify(tc.in))
		})
	}
}

func TestSlugifyIdempotent(t *testing.T) {
	once := Slugify("My Great Organization!")
	assert.Equal(t, once, Slugify(once))
}
