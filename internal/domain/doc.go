// Package domain contains the core entities of the learning engine: vocabulary
// words with their spaced-repetition state, exercises and their results, user
// progress and the activity log. It has no knowledge of storage or transport.
package domain
