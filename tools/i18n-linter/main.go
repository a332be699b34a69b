// Copyright (c) 2026 Assetkeeper Team
// Assetkeeper - device check-in/check-out tracking
// This source code is licensed under the MIT license found in the LICENSE file.

// i18n-linter checks the locale files against each other and against the
// message ids the Go sources pass to i18n.T.
//
// It fails when a locale lacks a key of the primary locale or when code
// asks for an id the primary locale does not define. Keys nothing refers
// to are reported as a warning only, since some ids are assembled at
// runtime.
package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	localesDir    = "internal/i18n/locales"
	primaryLocale = "en.yaml"
	projectRoot   = "."
)

var (
	// i18n.T("id") and i18n.T("prefix." + x)
	callRe = regexp.MustCompile(`i18n\.T\("([^"]+)"(\s*\+)?`)
	// Key-shaped literals, e.g. table header ids handed to a helper.
	literalRe = regexp.MustCompile(`"([a-z]+\.[a-z._]+)"`)
)

// usage collects the ids the sources mention.
type usage struct {
	calls    map[string]string // id -> first location
	prefixes map[string]string
	literals map[string]struct{}
}

func main() {
	ok, err := lint(projectRoot, localesDir, primaryLocale, os.Stdout)
	if err != nil {
		fmt.Printf("error: %v\n", err)
		os.Exit(1)
	}
	if !ok {
		os.Exit(1)
	}
}

func lint(root, dir, primary string, w io.Writer) (bool, error) {
	used, err := findUsedKeys(root)
	if err != nil {
		return false, fmt.Errorf("scan sources: %w", err)
	}
	primaryKeys, err := loadKeysFromLocale(filepath.Join(dir, primary))
	if err != nil {
		return false, fmt.Errorf("load primary locale %s: %w", primary, err)
	}
	files, err := filepath.Glob(filepath.Join(dir, "*.yaml"))
	if err != nil {
		return false, err
	}

	ok := true
	for _, id := range sortedKeys(used.calls) {
		if _, found := primaryKeys[id]; !found {
			_, _ = fmt.Fprintf(w, "undefined: %s (%s)\n", id, used.calls[id])
			ok = false
		}
	}
	for _, p := range sortedKeys(used.prefixes) {
		if !hasPrefix(primaryKeys, p) {
			_, _ = fmt.Fprintf(w, "undefined prefix: %s (%s)\n", p, used.prefixes[p])
			ok = false
		}
	}

	for _, file := range files {
		if filepath.Base(file) == primary {
			continue
		}
		keys, err := loadKeysFromLocale(file)
		if err != nil {
			return false, fmt.Errorf("load %s: %w", file, err)
		}
		for _, k := range sortedKeys(primaryKeys) {
			if _, found := keys[k]; !found {
				_, _ = fmt.Fprintf(w, "missing in %s: %s\n", filepath.Base(file), k)
				ok = false
			}
		}
		for _, k := range sortedKeys(keys) {
			if _, found := primaryKeys[k]; !found {
				_, _ = fmt.Fprintf(w, "extra in %s: %s\n", filepath.Base(file), k)
				ok = false
			}
		}
	}

	for _, k := range sortedKeys(primaryKeys) {
		if !used.refers(k) {
			_, _ = fmt.Fprintf(w, "warning: unreferenced key %s\n", k)
		}
	}
	return ok, nil
}

func (u usage) refers(key string) bool {
	if _, ok := u.calls[key]; ok {
		return true
	}
	if _, ok := u.literals[key]; ok {
		return true
	}
	for p := range u.prefixes {
		if strings.HasPrefix(key, p) {
			return true
		}
	}
	return false
}

// findUsedKeys scans every non-test .go file below root, skipping tools/.
func findUsedKeys(root string) (usage, error) {
	u := usage{calls: map[string]string{}, prefixes: map[string]string{}, literals: map[string]struct{}{}}
	err := filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			name := d.Name()
			if name == "tools" || (name != "." && strings.HasPrefix(name, "_")) {
				return filepath.SkipDir
			}
			return nil
		}
		if !strings.HasSuffix(path, ".go") || strings.HasSuffix(path, "_test.go") {
			return nil
		}
		content, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		for i, line := range strings.Split(string(content), "\n") {
			loc := fmt.Sprintf("%s:%d", path, i+1)
			for _, m := range callRe.FindAllStringSubmatch(line, -1) {
				target := u.calls
				if m[2] != "" {
					target = u.prefixes
				}
				if _, seen := target[m[1]]; !seen {
					target[m[1]] = loc
				}
			}
			for _, m := range literalRe.FindAllStringSubmatch(line, -1) {
				u.literals[m[1]] = struct{}{}
			}
		}
		return nil
	})
	return u, err
}

// loadKeysFromLocale reads a YAML locale and returns its flattened keys.
func loadKeysFromLocale(path string) (map[string]struct{}, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var data map[string]any
	if err := yaml.Unmarshal(content, &data); err != nil {
		return nil, err
	}
	keys := make(map[string]struct{})
	flattenYAML("", data, keys)
	return keys, nil
}

// flattenYAML joins nested mappings with dots. Flat files pass through.
func flattenYAML(prefix string, node any, keys map[string]struct{}) {
	m, ok := node.(map[string]any)
	if !ok {
		if prefix != "" {
			keys[prefix] = struct{}{}
		}
		return
	}
	for k, v := range m {
		if prefix != "" {
			k = prefix + "." + k
		}
		flattenYAML(k, v, keys)
	}
}

func hasPrefix(keys map[string]struct{}, prefix string) bool {
	for k := range keys {
		if strings.HasPrefix(k, prefix) {
			return true
		}
	}
	return false
}

func sortedKeys[V any](m map[string]V) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
