// Package aggregates contains infrastructure implementations of domain aggregate contracts.
//
// Implementations here compose table-level repos from internal/data/repos and
// own the transaction boundary of each invariant-critical write.
package aggregates
