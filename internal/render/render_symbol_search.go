package render

import "fmt"

func renderSymbolSearch(payload any) []string {
	m, ok := asMap(payload)
	if !ok {
		return renderGeneric(payload)
	}

	query := asString(m["query"])
	totalHits := coerceInt(m["total_hits"], 0)
	results := asList(m["results"])

	var lines []string
	if query != "" {
		lines = append(lines, fmt.Sprintf("Found `%d` matches for `%s`.", totalHits, query))
	} else {
		lines = append(lines, fmt.Sprintf("Found `%d` matches.", totalHits))
	}
	lines = append(lines, "")

	if len(results) > 0 {
		lines = append(lines, renderSearchResults(results, 10, 4)...)
	} else {
		lines = append(lines, "No matches found.")
	}
	return lines
}
