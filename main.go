// Copyright (c) 2026 Assetkeeper Team
// Assetkeeper - device check-in/check-out tracking
// This source code is licensed under the MIT license found in the LICENSE file.

// Command assetkeeper tracks employees, devices and who holds which device.
//
// Usage:
//
//	go run . [command] [flags]
//	./assetkeeper [command] [flags]
//
// See --help for the available commands.
package main

import (
	"os"

	"github.com/toeirei/assetkeeper/ui/cli"
)

func main() {
	os.Exit(cli.ExitCode(cli.Execute()))
}
