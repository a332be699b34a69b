// Copyright (c) 2026 Assetkeeper Team
// Assetkeeper - device check-in/check-out tracking
// This source code is licensed under the MIT license found in the LICENSE file.

// Package db is the persistence layer of Assetkeeper.
//
// A Store wraps a Bun database for SQLite, PostgreSQL or MySQL and applies
// the embedded migrations when it is opened. Every command works inside a
// single Session, which is one transaction: it commits when the command
// succeeds and rolls back otherwise.
//
// Testing notes
//   - Use NewStoreFromDSN("sqlite", "file:<name>?mode=memory&cache=shared")
//     for tests that need real SQL semantics and migrations.
//   - sqlmock backs the maintenance tests through the sqlOpenFunc hook.
package db
