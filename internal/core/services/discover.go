package services

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// SourceExtension is the file extension recognised by directory scans.
const SourceExtension = ".h2k"

// Discover resolves the batch inputs: explicit files are accepted as
// given, directories are scanned recursively for source documents. The
// result is sorted for deterministic scheduling.
func Discover(inputs []string) ([]string, error) {
	seen := make(map[string]struct{})
	var files []string

	add := func(path string) {
		if _, dup := seen[path]; dup {
			return
		}
		seen[path] = struct{}{}
		files = append(files, path)
	}

	for _, input := range inputs {
		info, err := os.Stat(input)
		if err != nil {
			return nil, fmt.Errorf("input %s: %w", input, err)
		}

		if !info.IsDir() {
			add(input)
			continue
		}

		err = filepath.WalkDir(input, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				return nil
			}
			if strings.EqualFold(filepath.Ext(path), SourceExtension) {
				add(path)
			}
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("scanning %s: %w", input, err)
		}
	}

	if len(files) == 0 {
		return nil, fmt.Errorf("no source documents found in %d input(s)", len(inputs))
	}

	sort.Strings(files)
	return files, nil
}
