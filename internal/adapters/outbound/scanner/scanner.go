package scanner

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// skipDirs are tool and output directories. They are only skipped directly
// under the project root; deeper down they are ordinary package names.
var skipDirs = map[string]bool{
	"vendor":       true,
	"node_modules": true,
	".git":         true,
	".gradle":      true,
	".idea":        true,
	".inspections": true,
	"build":        true,
}

// FileScanner implements domain.SourceScanner by walking the filesystem.
type FileScanner struct{}

func New() *FileScanner {
	return &FileScanner{}
}

// Scan walks each source directory under root and returns the absolute,
// sorted, de-duplicated paths of files with one of the given extensions.
// Missing source directories are skipped. Excludes match a directory name
// at any depth or a root-relative path.
func (s *FileScanner) Scan(root string, dirs, extensions, excludes []string) ([]string, error) {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, err
	}

	exts := make(map[string]bool, len(extensions))
	for _, e := range extensions {
		exts[strings.ToLower(e)] = true
	}
	extraSkip := make(map[string]bool, len(excludes))
	for _, p := range excludes {
		extraSkip[filepath.ToSlash(strings.TrimSuffix(p, "/"))] = true
	}

	seen := make(map[string]bool)
	var files []string

	for _, dir := range dirs {
		start := dir
		if !filepath.IsAbs(start) {
			start = filepath.Join(absRoot, dir)
		}
		if _, err := os.Stat(start); errors.Is(err, fs.ErrNotExist) {
			continue
		}

		err := filepath.WalkDir(start, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}

			relPath, _ := filepath.Rel(absRoot, path)
			relPath = filepath.ToSlash(relPath)

			if d.IsDir() {
				if path != start && extraSkip[d.Name()] {
					return filepath.SkipDir
				}
				if skipDirs[d.Name()] && filepath.Dir(path) == absRoot {
					return filepath.SkipDir
				}
				if extraSkip[relPath] {
					return filepath.SkipDir
				}
				return nil
			}

			if len(exts) > 0 && !exts[strings.ToLower(filepath.Ext(d.Name()))] {
				return nil
			}
			if extraSkip[relPath] {
				return nil
			}
			if !seen[path] {
				seen[path] = true
				files = append(files, path)
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
	}

	sort.Strings(files)
	return files, nil
}
