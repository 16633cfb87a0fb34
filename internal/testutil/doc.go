// Package testutil provides fluent fixture builders for ledger records and
// sample configuration documents used across the test suites.
package testutil
