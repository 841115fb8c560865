package runner

import "fmt"

// decodeLossy converts raw subprocess output bytes to a string, replacing
// any byte sequence that is not valid UTF-8 rather than rejecting it.
func decodeLossy(raw []byte) string {
	return lossyUTF8(raw)
}

// capText applies the configured byte ceiling to value, appending a
// sentinel line when truncation occurs (spec.md §4.4 Output capping). The
// cap point is computed on the bytes of value, not on its rune count. When
// the cut falls on a rune boundary, the returned text's byte length is
// exactly maxBytes plus a newline and the sentinel; when it splits a
// multi-byte rune, the partial rune's bytes are each replaced with U+FFFD,
// so the capped part is then longer than maxBytes.
func capText(value string, maxBytes int, streamName string) string {
	raw := []byte(value)
	if len(raw) <= maxBytes {
		return value
	}
	capped := lossyUTF8(raw[:maxBytes])
	return fmt.Sprintf("%s\n[%s truncated at %d bytes]", capped, streamName, maxBytes)
}

// lossyUTF8 re-decodes raw through the UTF-8 replacement-character rules,
// matching Python's str.decode(..., errors="replace").
func lossyUTF8(raw []byte) string {
	return string([]rune(string(raw)))
}
