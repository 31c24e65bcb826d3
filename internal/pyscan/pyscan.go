// Package pyscan inspects directory trees for Python package layout.
package pyscan

import (
	"os"
	"path/filepath"
)

// PackageDirs returns the immediate subdirectories of root that contain an
// __init__.py, in lexical order. When root is "." the bare directory names
// come back without a "./" prefix, which is how build tools expect them.
// Symlinks to directories count as directories.
func PackageDirs(root string) ([]string, error) {
	entries, err := os.ReadDir(root)
	if err != nil {
		return nil, err
	}

	var dirs []string
	for _, entry := range entries {
		path := entry.Name()
		if root != "." {
			path = filepath.Join(root, entry.Name())
		}
		if !entry.IsDir() {
			info, err := os.Stat(path)
			if err != nil || !info.IsDir() {
				continue
			}
		}
		if _, err := os.Stat(filepath.Join(path, "__init__.py")); err == nil {
			dirs = append(dirs, path)
		}
	}
	return dirs, nil
}

// IsPackageDir reports whether dir holds an __init__.py.
func IsPackageDir(dir string) bool {
	_, err := os.Stat(filepath.Join(dir, "__init__.py"))
	return err == nil
}
