// Package session holds per-session state for interactive use. Each
// interactive session owns exactly one Log; nothing here is global or
// shared across sessions.
package session

import "spendguard/internal/model"

// Log is an ordered, session-scoped record of simulated transactions.
type Log struct {
	entries []model.SimulatedTransaction
}

// NewLog creates an empty session log.
func NewLog() *Log {
	return &Log{}
}

// Append records a simulated transaction at the end of the log.
func (l *Log) Append(entry model.SimulatedTransaction) {
	l.entries = append(l.entries, entry)
}

// Entries returns a copy of the log in insertion order.
func (l *Log) Entries() []model.SimulatedTransaction {
	out := make([]model.SimulatedTransaction, len(l.entries))
	copy(out, l.entries)
	return out
}

// Len returns the number of logged transactions.
func (l *Log) Len() int {
	return len(l.entries)
}
