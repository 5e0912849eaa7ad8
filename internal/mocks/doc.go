// Package mocks provides centralized mock implementations for testing.
//
// Each mock exposes function fields (XxxFn) for per-test behavior plus a
// simple in-memory default implementation, so a test only overrides the
// methods it cares about. Store mocks return themselves from WithTx; paired
// with MockTxRunner the service transaction path runs without a database.
package mocks
