// Package pathutil keeps render outputs inside their output directory and
// shortens paths for messages that leave the process.
package pathutil

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// RedactPath reduces a full path to .../<parent>/<basename>.
// For example, "/home/user/data/network" becomes ".../data/network".
func RedactPath(path string) string {
	if path == "" {
		return ""
	}
	cleaned := filepath.Clean(path)
	parent := filepath.Base(filepath.Dir(cleaned))
	base := filepath.Base(cleaned)
	if parent == "." || parent == string(filepath.Separator) {
		return base
	}
	return ".../" + parent + "/" + base
}

// OutputPath joins name onto dir and rejects results that resolve outside
// dir, through "..", an absolute name, or a symlink.
func OutputPath(dir, name string) (string, error) {
	if name == "" {
		return "", fmt.Errorf("output path: empty file name")
	}
	if filepath.IsAbs(name) {
		return "", fmt.Errorf("output path: %q must be relative to the output directory", name)
	}
	path := filepath.Join(dir, name)
	if err := Contain(path, dir); err != nil {
		return "", err
	}
	return path, nil
}

// Contain checks that path lies within one of roots after cleaning and
// resolving symlinks on the deepest existing ancestor.
func Contain(path string, roots ...string) error {
	if path == "" {
		return fmt.Errorf("output path: path is empty")
	}
	if len(roots) == 0 {
		return fmt.Errorf("output path: no output directory given")
	}
	if strings.ContainsRune(path, '\x00') {
		return fmt.Errorf("output path: path contains null byte")
	}

	abs, err := filepath.Abs(filepath.Clean(path))
	if err != nil {
		return fmt.Errorf("output path: %w", err)
	}
	dir, err := resolve(filepath.Dir(abs))
	if err != nil {
		return fmt.Errorf("output path: %w", err)
	}
	resolved := filepath.Join(dir, filepath.Base(abs))

	for _, root := range roots {
		rootAbs, err := filepath.Abs(filepath.Clean(root))
		if err != nil {
			continue
		}
		rootResolved, err := resolve(rootAbs)
		if err != nil {
			continue
		}
		if within(resolved, rootResolved) {
			return nil
		}
	}
	return fmt.Errorf("output path: %q is outside the output directory", RedactPath(abs))
}

// resolve evaluates symlinks on the deepest existing ancestor of dir and
// re-appends the parts that do not exist yet.
func resolve(dir string) (string, error) {
	if resolved, err := filepath.EvalSymlinks(dir); err == nil {
		return resolved, nil
	}
	parent := filepath.Dir(dir)
	if parent == dir {
		return "", fmt.Errorf("cannot resolve %s", RedactPath(dir))
	}
	resolvedParent, err := resolve(parent)
	if err != nil {
		return "", err
	}
	return filepath.Join(resolvedParent, filepath.Base(dir)), nil
}

// within reports whether path is base or below it.
func within(path, base string) bool {
	if path == base {
		return true
	}
	return strings.HasPrefix(path, base+string(os.PathSeparator))
}
