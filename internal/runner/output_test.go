package runner

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCapText_PassthroughUnderLimit(t *testing.T) {
	assert.Equal(t, "hello", capText("hello", 100, "stdout"))
}

func TestCapText_TruncatesWithSentinel(t *testing.T) {
	value := strings.Repeat("a", 20)
	got := capText(value, 10, "stdout")
	assert.Equal(t, strings.Repeat("a", 10)+"\n[stdout truncated at 10 bytes]", got)
}

func TestDecodeLossy_ReplacesInvalidBytes(t *testing.T) {
	raw := []byte{'o', 'k', 0xff, 0xfe}
	got := decodeLossy(raw)
	assert.Contains(t, got, "ok")
	assert.NotEqual(t, string(raw), got)
}
