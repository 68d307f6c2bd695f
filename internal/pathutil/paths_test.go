package pathutil

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
)

func TestOutputPath(t *testing.T) {
	out := t.TempDir()

	tests := []struct {
		name        string
		file        string
		want        string
		errContains string
	}{
		{name: "plain file", file: "out_neurons.db", want: filepath.Join(out, "out_neurons.db")},
		{name: "nested file", file: filepath.Join("legend", "types.json"), want: filepath.Join(out, "legend", "types.json")},
		{name: "dot-dot inside", file: filepath.Join("a", "..", "frames.jsonl"), want: filepath.Join(out, "frames.jsonl")},
		{name: "escape with dot-dot", file: filepath.Join("..", "frames.jsonl"), errContains: "outside the output directory"},
		{name: "embedded escape", file: filepath.Join("a", "..", "..", "x"), errContains: "outside the output directory"},
		{name: "absolute", file: filepath.Join(out, "x.db"), errContains: "relative"},
		{name: "empty", file: "", errContains: "empty"},
		{name: "null byte", file: "a\x00b", errContains: "null byte"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := OutputPath(out, tt.file)
			if tt.errContains != "" {
				if err == nil || !strings.Contains(err.Error(), tt.errContains) {
					t.Fatalf("OutputPath(%q) error = %v, want error containing %q", tt.file, err, tt.errContains)
				}
				return
			}
			if err != nil {
				t.Fatalf("OutputPath(%q) error = %v", tt.file, err)
			}
			if got != tt.want {
				t.Errorf("OutputPath(%q) = %q, want %q", tt.file, got, tt.want)
			}
		})
	}
}

func TestOutputPath_MissingDir(t *testing.T) {
	out := filepath.Join(t.TempDir(), "not", "yet", "created")
	got, err := OutputPath(out, "frames.jsonl")
	if err != nil {
		t.Fatalf("OutputPath() error = %v", err)
	}
	if got != filepath.Join(out, "frames.jsonl") {
		t.Errorf("OutputPath() = %q", got)
	}
}

func TestContain(t *testing.T) {
	first := t.TempDir()
	second := t.TempDir()

	if err := Contain(first, first); err != nil {
		t.Errorf("root itself rejected: %v", err)
	}
	if err := Contain(filepath.Join(second, "x"), first, second); err != nil {
		t.Errorf("second root not matched: %v", err)
	}
	if err := Contain(filepath.Join(second, "x"), first); err == nil {
		t.Error("path in another directory accepted")
	}
	if err := Contain(filepath.Join(first, "x")); err == nil || !strings.Contains(err.Error(), "no output directory") {
		t.Errorf("no roots: error = %v", err)
	}
	if err := Contain("", first); err == nil {
		t.Error("empty path accepted")
	}
	// A sibling sharing the prefix is not inside.
	if err := Contain(first+"bar", first); err == nil {
		t.Error("prefix sibling accepted")
	}
}

func TestContain_Symlinks(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("symlink test not supported on Windows")
	}

	out := t.TempDir()
	outside := t.TempDir()
	if err := os.Symlink(outside, filepath.Join(out, "escape")); err != nil {
		t.Fatalf("failed to create symlink: %v", err)
	}
	real := filepath.Join(out, "real")
	if err := os.MkdirAll(real, 0700); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.Symlink(real, filepath.Join(out, "link")); err != nil {
		t.Fatalf("failed to create symlink: %v", err)
	}

	if _, err := OutputPath(out, filepath.Join("escape", "frames.jsonl")); err == nil {
		t.Error("symlink escaping the output directory accepted")
	}
	if _, err := OutputPath(out, filepath.Join("link", "frames.jsonl")); err != nil {
		t.Errorf("symlink inside the output directory rejected: %v", err)
	}
}

func TestRedactPath(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"", ""},
		{"/home/user/data/network", ".../data/network"},
		{"/a/b/c/d/e.txt", ".../d/e.txt"},
		{"/file.txt", "file.txt"},
		{"dir/file.txt", ".../dir/file.txt"},
		{"file.txt", "file.txt"},
		{"/home/user/.neurovis/", ".../user/.neurovis"},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := RedactPath(tt.input); got != tt.want {
				t.Errorf("RedactPath(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}
