// Package aggregates defines domain-facing aggregate contracts.
//
// Contracts here carry no persistence or transport detail. Each one names a
// write boundary whose invariants must hold atomically.
package aggregates
