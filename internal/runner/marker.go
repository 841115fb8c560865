package runner

import (
	"encoding/json"
	"strings"
)

const resultMarkerPrefix = "__RESULT_JSON__="

// extractResultMarker scans stdout lines from the last toward the first for
// a line starting with the result-marker prefix; the first (i.e. last in
// the original stream) match wins, so a script may log arbitrarily before
// emitting its marker (spec.md §4.4 Result marker protocol).
//
// It returns the stdout with the marker line removed, the decoded payload
// (nil if none), a non-empty parseError describing a malformed payload, and
// whether a marker line was found at all.
func extractResultMarker(stdout string) (cleaned string, payload any, parseError string, found bool) {
	lines := strings.Split(stdout, "\n")
	// strings.Split on a trailing-newline-terminated string yields a final
	// empty element that isn't a real line; drop it so removing a marker
	// line ahead of it doesn't leave that artifact as a spurious trailing
	// blank line once the remainder is rejoined.
	if strings.HasSuffix(stdout, "\n") {
		lines = lines[:len(lines)-1]
	}

	for i := len(lines) - 1; i >= 0; i-- {
		if !strings.HasPrefix(lines[i], resultMarkerPrefix) {
			continue
		}
		raw := strings.TrimPrefix(lines[i], resultMarkerPrefix)
		cleanedLines := append(append([]string{}, lines[:i]...), lines[i+1:]...)
		cleaned = strings.Join(cleanedLines, "\n")

		var decoded any
		if err := json.Unmarshal([]byte(raw), &decoded); err != nil {
			return cleaned, nil, "malformed result marker JSON: " + err.Error(), true
		}
		return cleaned, decoded, "", true
	}
	return stdout, nil, "", false
}

// wholeStdoutAsJSON attempts to parse stdout (trimmed) as a JSON document in
// its entirety. It is only used by the workflow-script execution path as a
// fallback when no result marker is present (spec.md §4.4) — custom
// workflow code gets no such fallback, since its entrypoint contract
// already requires an explicit return value.
func wholeStdoutAsJSON(stdout string) (any, bool) {
	trimmed := strings.TrimSpace(stdout)
	if trimmed == "" {
		return nil, false
	}
	var decoded any
	if err := json.Unmarshal([]byte(trimmed), &decoded); err != nil {
		return nil, false
	}
	return decoded, true
}
