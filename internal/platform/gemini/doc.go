// Package gemini implements oracle.Oracle and enrich.Enricher on Google's
// Gemini API.
//
// Prompts are embedded text templates, one per request kind. Responses are
// requested as JSON with a response schema and validated before use. Rate
// limit responses (HTTP 429) are reported as transient oracle errors so the
// retry decorator in package oracle can back off; everything else is fatal.
package gemini
