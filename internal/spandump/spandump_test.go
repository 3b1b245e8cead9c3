package spandump

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/dshills/glint/internal/syntax/grammar"
)

func TestDump(t *testing.T) {
	path := filepath.Join(t.TempDir(), "demo.sh")
	script := "# header\necho \"hi\"\n"
	if err := os.WriteFile(path, []byte(script), 0o644); err != nil {
		t.Fatal(err)
	}

	var out strings.Builder
	if err := Dump(&out, path, grammar.TagShell); err != nil {
		t.Fatalf("Dump error = %v", err)
	}

	got := out.String()
	if !strings.Contains(got, "comment") {
		t.Errorf("output missing comment span:\n%s", got)
	}
	if !strings.Contains(got, "double-quoted") {
		t.Errorf("output missing double-quoted span:\n%s", got)
	}
	if !strings.Contains(got, `"# header"`) {
		t.Errorf("output missing line text:\n%s", got)
	}
}

func TestDumpUnknownTagIsNeutral(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.bin")
	if err := os.WriteFile(path, []byte("# not a comment here\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	var out strings.Builder
	if err := Dump(&out, path, grammar.TagText); err != nil {
		t.Fatalf("Dump error = %v", err)
	}

	// The line text echoes into the output, so check the category column.
	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	if len(lines) == 0 {
		t.Fatal("no output lines")
	}
	for _, line := range lines {
		fields := strings.Split(line, "\t")
		if len(fields) < 3 {
			t.Fatalf("malformed output line %q", line)
		}
		if fields[1] != "neutral" {
			t.Errorf("span category = %q, want neutral in %q", fields[1], line)
		}
	}
}

func TestDumpMissingFile(t *testing.T) {
	var out strings.Builder
	if err := Dump(&out, filepath.Join(t.TempDir(), "absent"), grammar.TagShell); err == nil {
		t.Error("Dump of a missing file should fail")
	}
}
