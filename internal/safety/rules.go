package safety

// bannedRoots are import roots that are never permitted, regardless of the
// allow list below. A banned root wins even if some descendant of it would
// otherwise look like an allowed dotted path.
var bannedRoots = []string{
	"builtins",
	"ctypes",
	"importlib",
	"multiprocessing",
	"os",
	"pathlib",
	"shlex",
	"shutil",
	"socket",
	"subprocess",
	"tempfile",
}

// allowedRoots are the only import roots custom workflow code may resolve
// against once the banned check above has passed.
var allowedRoots = []string{
	"argparse",
	"asyncio",
	"json",
	"sys",
	"runtime.zoekt_tools",
}

// bannedCalls names callees that are rejected regardless of how they are
// reached (bare name or attribute access) — these all provide an escape
// hatch out of the sandboxed interpreter.
var bannedCalls = map[string]bool{
	"compile":   true,
	"eval":      true,
	"exec":      true,
	"input":     true,
	"open":      true,
	"__import__": true,
}

// rootOrDescendant reports whether name equals root or is a dotted
// descendant of it ("os" matches "os", and "os.path" via the "os" root, but
// "oswald" does not).
func rootOrDescendant(name, root string) bool {
	if name == root {
		return true
	}
	return len(name) > len(root) && name[:len(root)] == root && name[len(root)] == '.'
}

func isBannedImport(name string) bool {
	for _, root := range bannedRoots {
		if rootOrDescendant(name, root) {
			return true
		}
	}
	return false
}

func isAllowedImport(name string) bool {
	for _, root := range allowedRoots {
		if rootOrDescendant(name, root) {
			return true
		}
	}
	return false
}
