// Package service contains the learning engine's use cases. It orchestrates
// the pure domain rules (SRS scheduling, gamification) and the exercise
// generator and evaluator over the store interfaces defined in
// internal/store.
//
// Three services are exposed:
//
//   - VocabularyService manages a user's words and their direct reviews.
//   - ExerciseService generates exercises and scores submitted answers.
//     A submission completes the exercise, reschedules the primary word and
//     records the completion on the user's progress, in that order.
//   - ProgressService applies gamification events and reports progress.
//
// Every user-visible change is published as an events.ActivityEvent.
// Emission failures are logged and never fail the operation.
//
// Sequential writes are not wrapped in a transaction. Concurrent requests
// for the same user race with last-write-wins semantics.
package service
