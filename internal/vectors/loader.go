package vectors

import (
	"errors"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// ParseSuite parses a vector suite from YAML bytes.
func ParseSuite(data []byte) (*Suite, error) {
	var s Suite
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, &LoadError{
			Message: "failed to parse YAML",
			Cause:   err,
		}
	}

	if s.Name == "" {
		return nil, &LoadError{Message: "suite name is required"}
	}
	if len(s.Vectors) == 0 {
		return nil, &LoadError{Message: "suite must have at least one vector"}
	}

	for i, v := range s.Vectors {
		if v.Name == "" {
			return nil, &LoadError{Message: "vector " + strconv.Itoa(i) + ": name is required"}
		}
		if len(v.Frame) == 0 {
			return nil, &LoadError{Message: "vector " + v.Name + ": frame is required"}
		}
		if (v.Type == "") == (v.Error == "") {
			return nil, &LoadError{Message: "vector " + v.Name + ": exactly one of type or error is required"}
		}
		switch v.Error {
		case "", ErrorTooShort, ErrorUnknownVariantShape:
		default:
			return nil, &LoadError{Message: "vector " + v.Name + ": unknown error " + v.Error}
		}
	}

	return &s, nil
}

// LoadSuite loads a vector suite from a file.
func LoadSuite(path string) (*Suite, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &LoadError{
			File:    path,
			Message: "failed to read file",
			Cause:   err,
		}
	}

	s, err := ParseSuite(data)
	if err != nil {
		var le *LoadError
		if errors.As(err, &le) {
			le.File = path
			return nil, le
		}
		return nil, &LoadError{File: path, Message: err.Error()}
	}
	s.File = path

	return s, nil
}

// LoadDirectory loads all suites from a directory in file name order.
// Only files with .yaml or .yml extensions are loaded.
func LoadDirectory(dir string) ([]*Suite, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, &LoadError{
			File:    dir,
			Message: "failed to read directory",
			Cause:   err,
		}
	}

	var names []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		ext := strings.ToLower(filepath.Ext(entry.Name()))
		if ext != ".yaml" && ext != ".yml" {
			continue
		}
		names = append(names, entry.Name())
	}
	sort.Strings(names)

	suites := make([]*Suite, 0, len(names))
	for _, name := range names {
		s, err := LoadSuite(filepath.Join(dir, name))
		if err != nil {
			return nil, err
		}
		suites = append(suites, s)
	}

	return suites, nil
}
