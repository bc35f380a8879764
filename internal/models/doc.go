// Package models defines the persisted domain models for billsplit.
//
// The calculation itself is stateless (see internal/calculator); the only
// thing the service stores is a Session, an opaque JSON blob keyed by a
// generated identifier so a group can reopen and share a bill later.
//
// # Design Principles
//
//  1. Opaque storage: the server never parses session data, so the frontend
//     state format can change without migrations.
//  2. Plain values: models hold no behavior and no references to storage.
//  3. Unix timestamps: CreatedAt/UpdatedAt are seconds since epoch, matching
//     the column types used by every store backend.
package models
