package render

import "fmt"

func renderRepoDiscovery(payload any) []string {
	m, ok := asMap(payload)
	if !ok {
		return renderGeneric(payload)
	}

	query := asString(m["query"])
	repositories := asList(m["repositories"])
	results := asList(m["results"])

	var lines []string
	if query != "" {
		lines = append(lines, fmt.Sprintf("Found `%d` repositories for `%s`.", len(repositories), query))
	} else {
		lines = append(lines, fmt.Sprintf("Found `%d` repositories.", len(repositories)))
	}
	lines = append(lines, "")

	if len(repositories) > 0 {
		lines = append(lines, "### Repositories")
		for i, repo := range repositories {
			lines = append(lines, fmt.Sprintf("%d. `%s`", i+1, stringifyScalar(repo)))
		}
	} else {
		lines = append(lines, "No repositories found.")
	}

	if len(results) > 0 {
		lines = append(lines, "", "### Top Matches")
		lines = append(lines, renderSearchResults(results, 10, 4)...)
	}
	return lines
}
