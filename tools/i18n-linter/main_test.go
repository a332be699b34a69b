// Copyright (c) 2026 Assetkeeper Team
// Assetkeeper - device check-in/check-out tracking
// This source code is licensed under the MIT license found in the LICENSE file.

package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func TestFlattenYAML_NestedAndFlat(t *testing.T) {
	keys := map[string]struct{}{}
	flattenYAML("", map[string]any{
		"prompt.code": "Enter code: ",
		"report":      map[string]any{"none_all": "x"},
	}, keys)
	for _, k := range []string{"prompt.code", "report.none_all"} {
		if _, ok := keys[k]; !ok {
			t.Fatalf("expected key %s in %v", k, keys)
		}
	}
}

func TestFindUsedKeys(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "ui", "a.go"), `package ui
func f(filter string) {
	_ = i18n.T("device.added", "001")
	_ = i18n.T("report.none_"+filter)
	printTable(nil, []string{"header.code"}, nil)
}`)
	writeFile(t, filepath.Join(root, "ui", "a_test.go"), `package ui
func g() { _ = i18n.T("only.in_tests") }`)
	writeFile(t, filepath.Join(root, "tools", "x.go"), `package x
func h() { _ = i18n.T("tool.key") }`)

	u, err := findUsedKeys(root)
	if err != nil {
		t.Fatalf("findUsedKeys: %v", err)
	}
	if _, ok := u.calls["device.added"]; !ok {
		t.Fatalf("expected device.added call, got %v", u.calls)
	}
	if _, ok := u.prefixes["report.none_"]; !ok {
		t.Fatalf("expected report.none_ prefix, got %v", u.prefixes)
	}
	if !u.refers("header.code") || !u.refers("report.none_in") {
		t.Fatalf("expected literal and prefix references to count")
	}
	if _, ok := u.calls["only.in_tests"]; ok {
		t.Fatalf("test files must be skipped")
	}
	if _, ok := u.calls["tool.key"]; ok {
		t.Fatalf("tools/ must be skipped")
	}
}

func TestLint_ReportsMissingAndUndefined(t *testing.T) {
	root := t.TempDir()
	dir := filepath.Join(root, "locales")
	writeFile(t, filepath.Join(root, "a.go"), `package a
func f() { _ = i18n.T("device.added"); _ = i18n.T("device.gone") }`)
	writeFile(t, filepath.Join(dir, "en.yaml"), "device.added: \"added\"\ndevice.unused: \"u\"\n")
	writeFile(t, filepath.Join(dir, "de.yaml"), "device.added: \"hinzugefuegt\"\n")

	var out bytes.Buffer
	ok, err := lint(root, dir, "en.yaml", &out)
	if err != nil {
		t.Fatalf("lint: %v", err)
	}
	if ok {
		t.Fatalf("expected lint to fail:\n%s", out.String())
	}
	for _, want := range []string{"undefined: device.gone", "missing in de.yaml: device.unused", "warning: unreferenced key device.unused"} {
		if !strings.Contains(out.String(), want) {
			t.Fatalf("expected %q in output:\n%s", want, out.String())
		}
	}
}

func TestLint_ProjectLocalesConsistent(t *testing.T) {
	var out bytes.Buffer
	ok, err := lint(filepath.Join("..", ".."), filepath.Join("..", "..", localesDir), primaryLocale, &out)
	if err != nil {
		t.Fatalf("lint: %v", err)
	}
	if !ok {
		t.Fatalf("project locales are inconsistent:\n%s", out.String())
	}
}
