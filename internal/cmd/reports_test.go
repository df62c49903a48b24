package cmd

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
)

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 10))
	assert.Equal(t, "exactly 10", truncate("exactly 10", 10))
	assert.Equal(t, "one two", truncate("one\ntwo", 10))
	assert.Equal(t, "this is...", truncate("this is far too long", 10))

	// Counts characters, not bytes, so multibyte runes are never split
	long := strings.Repeat("ü", 20)
	got := truncate(long, 10)
	assert.Equal(t, strings.Repeat("ü", 7)+"...", got)
	assert.True(t, utf8.ValidString(got))
}
