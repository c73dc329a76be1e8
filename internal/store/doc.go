// Package store defines the persistence ports of the learning engine: words,
// exercises, progress and the activity log. Implementations live under
// internal/platform (postgres for production, memory for tests and local runs).
//
// Implementations return the sentinel errors of this package (ErrWordNotFound,
// ErrWordExists, ErrExerciseCompleted, ...) so services can map them to domain
// errors without knowing the backend.
package store
