package fec

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// FileInfo describes a candidate FEC file in an ingest directory.
type FileInfo struct {
	Name string
	Path string
	Size int64
}

var ingestExtensions = map[string]bool{
	".txt": true,
	".csv": true,
	".tsv": true,
	".xml": true,
}

// Scan returns the FEC-looking files in a directory, sorted by name so
// that multi-year exports come out in chronological order.
func Scan(dir string) ([]FileInfo, error) {
	dirEntries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading ingest dir: %w", err)
	}

	var files []FileInfo
	for _, e := range dirEntries {
		if e.IsDir() {
			continue
		}
		if !ingestExtensions[strings.ToLower(filepath.Ext(e.Name()))] {
			continue
		}
		info, err := e.Info()
		if err != nil {
			return nil, fmt.Errorf("stat %s: %w", e.Name(), err)
		}
		files = append(files, FileInfo{
			Name: e.Name(),
			Path: filepath.Join(dir, e.Name()),
			Size: info.Size(),
		})
	}
	sort.Slice(files, func(i, j int) bool { return files[i].Name < files[j].Name })
	return files, nil
}

// ParseFile reads and parses a single FEC file from disk.
func ParseFile(path string) (*Result, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return Parse(content, filepath.Base(path))
}

// ParseDir parses every FEC file found in a directory. Per-file failures
// are collected, not fatal: one bad file must not sink a multi-year batch.
func ParseDir(dir string) ([]*Result, []error, error) {
	files, err := Scan(dir)
	if err != nil {
		return nil, nil, err
	}

	var results []*Result
	var fileErrs []error
	for _, f := range files {
		res, err := ParseFile(f.Path)
		if err != nil {
			fileErrs = append(fileErrs, err)
			continue
		}
		results = append(results, res)
	}
	return results, fileErrs, nil
}
