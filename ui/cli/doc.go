// Copyright (c) 2026 Assetkeeper Team
// Assetkeeper - device check-in/check-out tracking
// This source code is licensed under the MIT license found in the LICENSE file.
//
// Package cli implements the Assetkeeper command line with Cobra. Commands
// load configuration, open one database session per invocation and delegate
// the business rules to internal/core. Prompts, tables and messages live
// here; nothing in this package decides whether a check-in is legal.
package cli
