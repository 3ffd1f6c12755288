package mapping

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/dreamware/indexcoord/internal/obslog"
)

// Loader reads mapping files rooted at a configuration directory.
type Loader struct {
	root string
}

// New returns a Loader rooted at configRoot (the value of
// config.Config.MappingRoot).
func New(configRoot string) *Loader {
	return &Loader{root: configRoot}
}

// Load merges the default, per-index, and request mappings in spec order
// and returns the resulting type->source accumulator.
func (l *Loader) Load(indexName string, requestMappings map[string]string) (map[string]string, error) {
	acc := make(map[string]string)

	if err := l.mergeDir(acc, filepath.Join(l.root, "mappings", "_default")); err != nil {
		return nil, err
	}
	if err := l.mergeDir(acc, filepath.Join(l.root, "mappings", indexName)); err != nil {
		return nil, err
	}
	for typeName, source := range requestMappings {
		acc[typeName] = source
	}
	return acc, nil
}

// mergeDir walks dir (if it exists) and merges every file it finds into
// acc, keyed by the file's type name. A missing directory is not an error:
// "_default" and the per-index directory are both optional (spec.md §4.3).
func (l *Loader) mergeDir(acc map[string]string, dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}

	seenInThisDir := make(map[string]struct{})
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		typeName, ok := typeNameOf(entry.Name())
		if !ok {
			obslog.L().Warnw("mapping file has no type extension, skipping", "path", path)
			continue
		}
		if _, dup := seenInThisDir[typeName]; dup {
			obslog.L().Warnw("type already provided by another file in this directory, skipping", "path", path, "type", typeName)
			continue
		}
		data, err := os.ReadFile(path)
		if err != nil {
			obslog.L().Warnw("failed to read mapping file, skipping", "path", path, "err", err)
			continue
		}
		seenInThisDir[typeName] = struct{}{}
		acc[typeName] = string(data)
	}
	return nil
}

// typeNameOf derives a mapping file's type name from everything before its
// last '.'. A file with no '.' has no unambiguous type name.
func typeNameOf(filename string) (string, bool) {
	idx := strings.LastIndex(filename, ".")
	if idx <= 0 {
		return "", false
	}
	return filename[:idx], true
}
