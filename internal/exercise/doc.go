// Package exercise builds and scores practice exercises.
//
// Each exercise type is a Kind in a Registry: a Builder that turns a word
// into question, options and answer payloads, and a Scorer that grades a
// submitted answer into a correctness flag, a 0-5 recall quality and a 0-100
// score. Generator and Evaluator wrap the registry with the random source and
// the content oracle; persistence is left to the service layer.
package exercise
