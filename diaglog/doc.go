// Package diaglog provides append-only line-delimited JSON diagnostic logs.
//
// The categorization core treats these logs as write-only: entries are
// appended best-effort, and a failed write never interrupts categorization.
// Offline tooling (the analyze package, admin review) consumes them.
package diaglog
