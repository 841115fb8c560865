package render

import (
	"fmt"
	"strings"
)

// renderSearchResults formats a list of {repository, filename, matches, url}
// entries shared by several workflow payload shapes (spec.md §4.5).
func renderSearchResults(results []any, maxFiles, maxMatchesPerFile int) []string {
	var lines []string
	for i, entry := range results {
		if i >= maxFiles {
			break
		}
		m, ok := asMap(entry)
		if !ok {
			lines = append(lines, fmt.Sprintf("%d. `%s`", i+1, stringifyScalar(entry)))
			continue
		}

		repository := asString(m["repository"])
		filename := asString(m["filename"])
		var parts []string
		if repository != "" {
			parts = append(parts, repository)
		}
		if filename != "" {
			parts = append(parts, filename)
		}
		location := strings.Join(parts, "/")
		if location == "" {
			location = "(unknown location)"
		}
		lines = append(lines, fmt.Sprintf("%d. `%s`", i+1, location))

		matches := asList(m["matches"])
		for j, match := range matches {
			if j >= maxMatchesPerFile {
				break
			}
			matchMap, ok := asMap(match)
			if !ok {
				lines = append(lines, fmt.Sprintf("   - `%s`", stringifyScalar(match)))
				continue
			}
			lineNumber := coerceInt(matchMap["line_number"], 0)
			text := strings.TrimSpace(strings.ReplaceAll(asString(matchMap["text"]), "\n", " "))
			if len(text) > 220 {
				text = text[:217] + "..."
			}
			lines = append(lines, fmt.Sprintf("   - L%d: `%s`", lineNumber, text))
		}
		if len(matches) > maxMatchesPerFile {
			lines = append(lines, fmt.Sprintf("   - ... `%d` more matches", len(matches)-maxMatchesPerFile))
		}

		if url := asString(m["url"]); url != "" {
			lines = append(lines, "   "+url)
		}
	}

	if len(results) > maxFiles {
		lines = append(lines, fmt.Sprintf("... and `%d` more files.", len(results)-maxFiles))
	}
	return lines
}
