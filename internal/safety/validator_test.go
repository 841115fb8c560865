package safety

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidate_AllowsMinimalRunEntrypoint(t *testing.T) {
	code := "from runtime import zoekt_tools\n\ndef run(args):\n    return zoekt_tools.list_repos()\n"
	got := Validate(code)
	assert.True(t, got.Accepted(), "%v", got.Rejections)
}

func TestValidate_AllowsDottedRuntimeImport(t *testing.T) {
	code := "import runtime.zoekt_tools as zoekt_tools\n\ndef run(args):\n    return zoekt_tools.list_repos()\n"
	got := Validate(code)
	assert.True(t, got.Accepted(), "%v", got.Rejections)
}

func TestValidate_RejectsNonZoektToolsRuntimeFromImport(t *testing.T) {
	code := "from runtime import dangerous\n\ndef run(args):\n    return dangerous\n"
	got := Validate(code)
	assert.Equal(t, []string{"disallowed_import: runtime.dangerous"}, got.Rejections)
}

func TestValidate_RejectsBannedImportRoot(t *testing.T) {
	code := "import subprocess\n\ndef run(args):\n    return 0\n"
	got := Validate(code)
	assert.Contains(t, got.Rejections, "banned_import: subprocess")
}

func TestValidate_RejectsBannedImportDescendant(t *testing.T) {
	code := "import os.path\n\ndef run(args):\n    return 0\n"
	got := Validate(code)
	assert.Contains(t, got.Rejections, "banned_import: os.path")
}

func TestValidate_RejectsBannedCallBareName(t *testing.T) {
	code := "def run(args):\n    return eval(args[\"expr\"])\n"
	got := Validate(code)
	assert.Contains(t, got.Rejections, "banned_call: eval")
}

func TestValidate_RejectsBannedCallAttributeAccess(t *testing.T) {
	code := "import os\n\ndef run(args):\n    f = os.open(\"/etc/passwd\")\n    return f\n"
	got := Validate(code)
	assert.Contains(t, got.Rejections, "banned_call: open")
	assert.Contains(t, got.Rejections, "banned_import: os")
}

func TestValidate_AcceptsLegacyEntrypoint(t *testing.T) {
	code := `import argparse
import sys


def parse_args():
    parser = argparse.ArgumentParser()
    return parser.parse_args()


def main(args):
    return 0


if __name__ == "__main__":
    sys.exit(main(parse_args()))
`
	got := Validate(code)
	assert.True(t, got.Accepted(), "%v", got.Rejections)
}

func TestValidate_MissingEntrypointListsAllThreeLegacyGaps(t *testing.T) {
	code := "import json\n\nx = 1\n"
	got := Validate(code)
	assert.Equal(t, []string{
		"missing_required_entrypoint: run(args) or async run(args)",
		"missing_required_entrypoint: parse_args()",
		"missing_required_entrypoint: main(args) or async main(args)",
		`missing_required_entrypoint: if __name__ == "__main__": guard`,
	}, got.Rejections)
}

func TestValidate_AsyncRunSatisfiesEntrypoint(t *testing.T) {
	code := "async def run(args):\n    return 0\n"
	got := Validate(code)
	assert.True(t, got.Accepted(), "%v", got.Rejections)
}

func TestValidate_PartialLegacyEntrypointOnlyReportsMissingPieces(t *testing.T) {
	code := `import sys


def main(args):
    return 0


if __name__ == "__main__":
    sys.exit(main({}))
`
	got := Validate(code)
	assert.Equal(t, []string{
		"missing_required_entrypoint: run(args) or async run(args)",
		"missing_required_entrypoint: parse_args()",
	}, got.Rejections)
}

func TestValidate_DeduplicatesRepeatedBannedCall(t *testing.T) {
	code := "def run(args):\n    eval(\"1\")\n    eval(\"2\")\n    return 0\n"
	got := Validate(code)
	assert.Equal(t, []string{"banned_call: eval"}, got.Rejections)
}

func TestValidate_MultipleImportsOnOneLine(t *testing.T) {
	code := "import json, subprocess, sys\n\ndef run(args):\n    return 0\n"
	got := Validate(code)
	assert.Contains(t, got.Rejections, "banned_import: subprocess")
	assert.NotContains(t, got.Rejections, "disallowed_import: json")
	assert.NotContains(t, got.Rejections, "disallowed_import: sys")
}
