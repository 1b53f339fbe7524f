// Package session owns widget interaction state for the lifetime of a
// session. A Reconciler merges each run's declarations with the stored state
// and with interactions queued since the previous run. Stores are partitioned
// per session and must never be shared between sessions.
package session
