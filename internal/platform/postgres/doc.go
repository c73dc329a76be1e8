// Package postgres provides PostgreSQL implementations of the store
// interfaces, plus the embedded schema migrations applied with goose.
//
// Stores take a store.DBTX so they work with either *sql.DB or *sql.Tx.
// JSON-shaped fields (exercise payloads, word id lists, synonyms, activity
// details) are stored as JSONB and encoded in Go.
package postgres
