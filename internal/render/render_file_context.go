package render

import (
	"fmt"
	"path/filepath"
	"strings"
)

var languageBySuffix = map[string]string{
	".py":   "python",
	".ts":   "ts",
	".tsx":  "tsx",
	".js":   "javascript",
	".jsx":  "jsx",
	".go":   "go",
	".java": "java",
	".rb":   "ruby",
	".rs":   "rust",
	".c":    "c",
	".cc":   "cpp",
	".cpp":  "cpp",
	".h":    "c",
	".hpp":  "cpp",
	".json": "json",
	".yaml": "yaml",
	".yml":  "yaml",
	".md":   "markdown",
	".sh":   "bash",
	".sql":  "sql",
	".html": "html",
	".css":  "css",
}

func renderFileContext(payload any) []string {
	m, ok := asMap(payload)
	if !ok {
		return renderGeneric(payload)
	}

	repo := asString(m["repo"])
	path := asString(m["path"])
	startLine := coerceInt(m["start_line"], 1)
	endLine := coerceInt(m["end_line"], startLine)
	content := asString(m["content"])

	header := fmt.Sprintf("Lines `%d-%d`", startLine, endLine)
	if repo != "" && path != "" {
		header = fmt.Sprintf("`%s/%s` lines `%d-%d`", repo, path, startLine, endLine)
	}
	lines := []string{header, ""}

	if content == "" {
		lines = append(lines, "No content returned for the requested range.")
		return lines
	}

	language := languageFromPath(path)
	numbered := withLineNumbers(content, startLine)
	lines = append(lines, "```"+language, numbered, "```")
	return lines
}

// withLineNumbers right-aligns a line-number gutter against content, the
// same way the original renderer presents file context excerpts.
func withLineNumbers(content string, startLine int) string {
	lines := strings.Split(content, "\n")
	if len(lines) == 1 && lines[0] == "" {
		return ""
	}
	maxLine := startLine + len(lines) - 1
	width := len(fmt.Sprintf("%d", maxLine))
	if width < 2 {
		width = 2
	}

	out := make([]string, len(lines))
	for i, line := range lines {
		out[i] = fmt.Sprintf("%*d | %s", width, startLine+i, line)
	}
	return strings.Join(out, "\n")
}

func languageFromPath(path string) string {
	suffix := strings.ToLower(filepath.Ext(path))
	if lang, ok := languageBySuffix[suffix]; ok {
		return lang
	}
	return "text"
}
