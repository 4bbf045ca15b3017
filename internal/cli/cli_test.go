package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"unicode/utf8"
)

func writeSequenceFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write sequence file: %v", err)
	}
	return path
}

func runCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func TestValidateCommand(t *testing.T) {
	dir := t.TempDir()
	path := writeSequenceFile(t, dir, "ok.yaml", `label: ok
steps:
  - type: try
  - type: action
  - type: catch
  - type: end
`)

	out, err := runCommand(t, "validate", path)
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if !strings.Contains(out, `sequence "ok" is valid (4 steps)`) {
		t.Fatalf("unexpected output: %q", out)
	}
}

func TestValidateCommandRejectsBrokenNesting(t *testing.T) {
	dir := t.TempDir()
	path := writeSequenceFile(t, dir, "broken.yaml", `label: broken
steps:
  - type: while
  - type: action
`)

	_, err := runCommand(t, "validate", path)
	if err == nil {
		t.Fatalf("expected validation failure")
	}
	if !strings.Contains(err.Error(), "Steps are not nested correctly") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestShowCommand(t *testing.T) {
	dir := t.TempDir()
	path := writeSequenceFile(t, dir, "show.yaml", `label: render target
steps:
  - type: if
    script: ready
  - type: action
    label: announce
  - type: end
`)

	out, err := runCommand(t, "show", path)
	if err != nil {
		t.Fatalf("show: %v", err)
	}
	if !strings.Contains(out, "render target") || !strings.Contains(out, "IF") {
		t.Fatalf("unexpected output: %q", out)
	}
	if !strings.Contains(out, "announce") {
		t.Fatalf("expected step label in output: %q", out)
	}
}

func TestListCommand(t *testing.T) {
	dir := t.TempDir()
	writeSequenceFile(t, dir, "a.yaml", `label: alpha
steps:
  - type: action
`)
	writeSequenceFile(t, dir, "b.yaml", `label: beta
steps:
  - type: end
`)

	out, err := runCommand(t, "list", "--dir", dir)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if !strings.Contains(out, "alpha") || !strings.Contains(out, "beta") {
		t.Fatalf("expected both sequences listed: %q", out)
	}
	if !strings.Contains(out, "invalid") {
		t.Fatalf("expected beta to be reported invalid: %q", out)
	}
}

func TestTruncateKeepsRuneBoundaries(t *testing.T) {
	long := strings.Repeat("ü", 40)
	out := truncate(long, 10)
	if !utf8.ValidString(out) {
		t.Fatalf("truncate produced invalid UTF-8: %q", out)
	}
	if got := []rune(out); len(got) != 10 || string(got[7:]) != "..." {
		t.Fatalf("unexpected truncation: %q", out)
	}

	if got := truncate("short", 10); got != "short" {
		t.Fatalf("short text must pass through, got %q", got)
	}
	if got := truncate("abc", 3); got != "abc" {
		t.Fatalf("tiny limits must pass through, got %q", got)
	}
}

func TestParseVars(t *testing.T) {
	vars, err := parseVars([]string{"count=3", "rate=2.5", "on=true", "name=probe"})
	if err != nil {
		t.Fatalf("parseVars: %v", err)
	}

	if got, ok := vars["count"].(int64); !ok || got != 3 {
		t.Fatalf("expected count=3 as int64, got %#v", vars["count"])
	}
	if got, ok := vars["rate"].(float64); !ok || got != 2.5 {
		t.Fatalf("expected rate=2.5 as float64, got %#v", vars["rate"])
	}
	if got, ok := vars["on"].(bool); !ok || !got {
		t.Fatalf("expected on=true as bool, got %#v", vars["on"])
	}
	if got, ok := vars["name"].(string); !ok || got != "probe" {
		t.Fatalf("expected name=probe as string, got %#v", vars["name"])
	}

	if _, err := parseVars([]string{"missing"}); err == nil {
		t.Fatalf("expected error for flag without value")
	}
	if _, err := parseVars([]string{"1bad=1"}); err == nil {
		t.Fatalf("expected error for invalid variable name")
	}
}
