// Package errors provides structured error types for wasm-toolcheck.
//
// Errors are categorized by Phase (where verification failed) and Kind (error
// category). The Error type carries the export involved, a detail message and
// the cause chain.
//
// Use the Builder for structured error construction:
//
//	err := errors.New(errors.PhaseCall, errors.KindTrap).
//		Export("add").
//		Detail("unreachable executed").
//		Build()
//
// Or use convenience constructors for common patterns:
//
//	err := errors.NotFound(errors.PhaseEntry, "_start")
//	err := errors.SignatureMismatch("add", "(i32, i32) -> i32", "(i64) -> ()")
//
// All errors implement the standard error interface and support errors.Is/As.
// Two *Error values match under errors.Is when Phase and Kind are equal.
package errors
