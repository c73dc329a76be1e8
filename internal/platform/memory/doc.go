// Package memory provides in-process implementations of the store interfaces.
// They back service tests and the server's --memory mode; data does not
// survive a restart.
package memory
