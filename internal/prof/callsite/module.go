package callsite

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"golang.org/x/mod/modfile"
)

// ErrNoModule is returned when no go.mod encloses the search directory.
var ErrNoModule = errors.New("no go.mod found")

// FindModule walks up from dir to the nearest go.mod and returns the
// directory containing it together with its declared module path.
func FindModule(dir string) (root, module string, err error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", "", fmt.Errorf("resolve %s: %w", dir, err)
	}

	for cur := abs; ; {
		goMod := filepath.Join(cur, "go.mod")

		data, err := os.ReadFile(goMod)
		if err == nil {
			module, err := modulePath(goMod, data)
			if err != nil {
				return "", "", err
			}
			return cur, module, nil
		}
		if !errors.Is(err, os.ErrNotExist) {
			return "", "", fmt.Errorf("read %s: %w", goMod, err)
		}

		parent := filepath.Dir(cur)
		if parent == cur {
			return "", "", fmt.Errorf("%w: searched from %s", ErrNoModule, abs)
		}
		cur = parent
	}
}

// modulePath parses a go.mod file and returns its module directive.
func modulePath(goModPath string, data []byte) (string, error) {
	f, err := modfile.Parse(goModPath, data, nil)
	if err != nil {
		return "", fmt.Errorf("parse %s: %w", goModPath, err)
	}

	if f.Module == nil || f.Module.Mod.Path == "" {
		return "", fmt.Errorf("parse %s: missing module directive", goModPath)
	}

	return f.Module.Mod.Path, nil
}
