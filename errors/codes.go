package errors

// ErrorCode represents a machine-readable error code.
type ErrorCode string

// Definition errors
const (
	// ErrCodeNotImplemented indicates an abstract flow definition was used directly.
	ErrCodeNotImplemented ErrorCode = "NOT_IMPLEMENTED"
	// ErrCodeInvalidSchedule indicates a cron expression failed validation.
	ErrCodeInvalidSchedule ErrorCode = "INVALID_SCHEDULE"
	// ErrCodeInvalidPipeline indicates a builder did not produce a usable pipeline graph.
	ErrCodeInvalidPipeline ErrorCode = "INVALID_PIPELINE"
)

// Input errors
const (
	// ErrCodeInvalidInput indicates the input is invalid.
	ErrCodeInvalidInput ErrorCode = "INVALID_INPUT"
	// ErrCodeMissingField indicates a required field is missing.
	ErrCodeMissingField ErrorCode = "MISSING_FIELD"
	// ErrCodeNotFound indicates the requested resource was not found.
	ErrCodeNotFound ErrorCode = "NOT_FOUND"
)

// Execution errors
const (
	// ErrCodeCancelled indicates execution stopped because its context ended.
	ErrCodeCancelled ErrorCode = "CANCELLED"
	// ErrCodeTaskFailed indicates a task node returned an error.
	ErrCodeTaskFailed ErrorCode = "TASK_FAILED"
	// ErrCodeInternal indicates an unexpected internal error.
	ErrCodeInternal ErrorCode = "INTERNAL_ERROR"
)

var retryableCodes = map[ErrorCode]bool{
	ErrCodeCancelled:  true,
	ErrCodeTaskFailed: true,
	ErrCodeInternal:   false,
}

// IsRetryableCode returns true if the error code indicates a retryable error.
// Definition errors are never retryable: the caller has to fix its input.
func IsRetryableCode(code ErrorCode) bool {
	return retryableCodes[code]
}
