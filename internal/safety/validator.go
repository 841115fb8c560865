// Package safety implements the Safety Validator: a static check over
// caller-supplied custom workflow code that enumerates imports and call
// sites against allow/deny lists and checks for a required entrypoint
// shape (spec.md §4.3).
//
// There is no Python AST library in the Go ecosystem worth depending on for
// this one check, so the validator works line-by-line with regexes instead
// of building a real parse tree. That means it can be fooled by code that
// spreads an import or call expression across multiple lines, or that
// hides one inside a string or comment containing a "#" — acceptable here
// because the validator is a policy gate, not a security boundary on its
// own; the runner's subprocess sandboxing is what actually contains a
// caller's code.
package safety

import (
	"regexp"
	"strings"
)

var (
	importRe     = regexp.MustCompile(`^\s*import\s+(.+)$`)
	fromImportRe = regexp.MustCompile(`^\s*from\s+([\w.]*)\s+import\s+(.+)$`)
	defRe        = regexp.MustCompile(`^\s*(?:async\s+)?def\s+([A-Za-z_]\w*)\s*\(`)
	mainGuardRe  = regexp.MustCompile(`^\s*if\s+__name__\s*==\s*(['"])__main__\1\s*:`)
	callRe       = regexp.MustCompile(`\b(compile|eval|exec|input|open|__import__)\s*\(`)
)

// Result is the outcome of validating one source file. Rejections is empty
// iff the code is accepted.
type Result struct {
	Rejections []string
}

// Accepted reports whether the code passed every check.
func (r Result) Accepted() bool { return len(r.Rejections) == 0 }

// Validate statically analyses code and returns the rejections encountered,
// in first-occurrence order with duplicates removed.
func Validate(code string) Result {
	var rejections []string
	seen := make(map[string]bool)
	reject := func(msg string) {
		if seen[msg] {
			return
		}
		seen[msg] = true
		rejections = append(rejections, msg)
	}

	var hasRun, hasMain, hasParseArgs, hasMainGuard bool

	for _, rawLine := range strings.Split(code, "\n") {
		line := stripComment(rawLine)
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}

		if m := fromImportRe.FindStringSubmatch(line); m != nil {
			module := m[1]
			for _, name := range splitImportNames(m[2]) {
				target := name
				if module != "" {
					target = module + "." + name
				}
				checkImportTarget(target, reject)
			}
		} else if m := importRe.FindStringSubmatch(line); m != nil {
			for _, name := range splitImportNames(m[1]) {
				checkImportTarget(name, reject)
			}
		}

		if m := defRe.FindStringSubmatch(line); m != nil {
			switch m[1] {
			case "run":
				hasRun = true
			case "main":
				hasMain = true
			case "parse_args":
				hasParseArgs = true
			}
		}

		if mainGuardRe.MatchString(line) {
			hasMainGuard = true
		}

		for _, m := range callRe.FindAllStringSubmatch(line, -1) {
			reject("banned_call: " + m[1])
		}
	}

	hasLegacyEntrypoint := hasParseArgs && hasMain && hasMainGuard
	if !hasRun && !hasLegacyEntrypoint {
		reject("missing_required_entrypoint: run(args) or async run(args)")
		if !hasParseArgs {
			reject("missing_required_entrypoint: parse_args()")
		}
		if !hasMain {
			reject("missing_required_entrypoint: main(args) or async main(args)")
		}
		if !hasMainGuard {
			reject(`missing_required_entrypoint: if __name__ == "__main__": guard`)
		}
	}

	return Result{Rejections: rejections}
}

// checkImportTarget applies the import policy to a single resolved target
// (already combined with its from-import module, if any) and reports a
// rejection through reject if the target is not permitted.
func checkImportTarget(target string, reject func(string)) {
	if target == "" {
		return
	}
	if isBannedImport(target) {
		reject("banned_import: " + target)
		return
	}
	if !isAllowedImport(target) {
		reject("disallowed_import: " + target)
	}
}

// splitImportNames splits the comma-separated tail of an import statement
// ("a, b as c, d.e") into bare dotted names with any "as alias" stripped.
func splitImportNames(tail string) []string {
	var names []string
	for _, part := range strings.Split(tail, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		if idx := strings.Index(part, " as "); idx >= 0 {
			part = part[:idx]
		}
		part = strings.TrimSpace(part)
		if part == "*" || part == "" {
			continue
		}
		names = append(names, part)
	}
	return names
}

// stripComment removes a trailing "# ..." comment from a line. This is a
// textual approximation: a "#" inside a string literal is (incorrectly)
// treated as a comment start. Custom workflow code that relies on a literal
// "#" inside a string on the same line as an import or call is not
// supported by this check.
func stripComment(line string) string {
	if idx := strings.Index(line, "#"); idx >= 0 {
		return line[:idx]
	}
	return line
}
