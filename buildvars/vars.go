// Copyright (c) 2026 Assetkeeper Team
// Assetkeeper - device check-in/check-out tracking
// This source code is licensed under the MIT license found in the LICENSE file.

// Package buildvars holds values injected at link time.
package buildvars

// Version is set via `-ldflags -X github.com/toeirei/assetkeeper/buildvars.Version=...`.
// It stays empty for development builds.
var Version string

// VersionOrDefault returns Version when set and def otherwise.
func VersionOrDefault(def string) string {
	if Version != "" {
		return Version
	}
	return def
}
