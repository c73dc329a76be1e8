// Package events carries activity events from the services that produce them
// to the handlers that record them.
//
// Services emit an ActivityEvent for every user-visible change (words added,
// exercises generated and completed, check-ins, level ups and streak rewards)
// without knowing who consumes it. The primary components are:
// - ActivityEvent: what happened, to whom, and about which entity
// - EventHandler: interface for components that process events
// - EventEmitter: interface for components that publish events
// - ActivityLogHandler: persists events to the activity log
package events
