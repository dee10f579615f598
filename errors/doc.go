// Package errors provides the structured error type shared by flowkit packages.
// Every error carries a machine-readable code so callers can tell a rejected
// definition from a bad schedule or an invalid pipeline without string matching.
package errors
