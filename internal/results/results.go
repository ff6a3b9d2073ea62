// Package results defines the Success/Failure envelope returned by
// service operations. A Failure is a business outcome (validation,
// bad state) surfaced to the caller; the separate error return is for
// infrastructure faults only.
package results

// OperationResult carries either a success or a failure payload.
// Exactly one side is expected to be set.
type OperationResult[S any, F any] struct {
	Success S
	Failure F
}

// Success builds a result with the success side set.
func Success[S any, F any](v S) OperationResult[S, F] {
	return OperationResult[S, F]{Success: v}
}

// Failure builds a result with the failure side set.
func Failure[S any, F any](v F) OperationResult[S, F] {
	return OperationResult[S, F]{Failure: v}
}
