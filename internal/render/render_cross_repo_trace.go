package render

import "fmt"

func renderCrossRepoTrace(payload any) []string {
	m, ok := asMap(payload)
	if !ok {
		return renderGeneric(payload)
	}

	symbol := asString(m["symbol"])
	inspectedRepos := coerceInt(m["inspected_repos"], 0)
	trace := asList(m["trace"])
	errs := asList(m["errors"])

	var lines []string
	if symbol != "" {
		lines = append(lines, fmt.Sprintf("Cross-repo trace for `%s` across `%d` repos.", symbol, inspectedRepos))
	} else {
		lines = append(lines, fmt.Sprintf("Cross-repo trace across `%d` repos.", inspectedRepos))
	}
	lines = append(lines, "")

	if len(trace) == 0 {
		lines = append(lines, "No trace results found.")
	} else {
		for i, entry := range trace {
			repoEntry, ok := asMap(entry)
			if !ok {
				continue
			}
			repo := asString(repoEntry["repo"])
			if repo == "" {
				repo = "(unknown repo)"
			}
			definitionHits := coerceInt(repoEntry["definition_hits"], 0)
			usageHits := coerceInt(repoEntry["usage_hits"], 0)
			lines = append(lines,
				fmt.Sprintf("### %d. `%s`", i+1, repo),
				fmt.Sprintf("- Definition hits: `%d`", definitionHits),
				fmt.Sprintf("- Usage hits: `%d`", usageHits),
			)

			definitions := asList(repoEntry["definitions"])
			usages := asList(repoEntry["usages"])
			if len(definitions) > 0 {
				lines = append(lines, "- Sample definitions:")
				lines = append(lines, indentMarkdown(renderSearchResults(definitions, 2, 4), 2)...)
			}
			if len(usages) > 0 {
				lines = append(lines, "- Sample usages:")
				lines = append(lines, indentMarkdown(renderSearchResults(usages, 2, 4), 2)...)
			}
		}
	}

	if len(errs) > 0 {
		lines = append(lines, "", "### Errors")
		for _, e := range errs {
			if errMap, ok := asMap(e); ok {
				repo := errMap["repo"]
				if repo == nil {
					repo = "(unknown repo)"
				}
				errMsg := errMap["error"]
				if errMsg == nil {
					errMsg = "(unknown error)"
				}
				lines = append(lines, fmt.Sprintf("- `%s`: %s", stringifyScalar(repo), stringifyScalar(errMsg)))
			} else {
				lines = append(lines, fmt.Sprintf("- %s", stringifyScalar(e)))
			}
		}
	}

	return lines
}
