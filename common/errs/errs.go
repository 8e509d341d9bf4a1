package errs

// ErrorKind identifies a kind of internal error.
// fully support for errors.Is and errors.As.
type ErrorKind string

const (
	// NotFound is returned when a requested item is not found.
	NotFound = ErrorKind("Not Found")

	// AuthRequired is returned when a request carries no credential or an
	// invalid one. Maps to HTTP 401.
	AuthRequired = ErrorKind("authentication required")

	// Forbidden is returned when a credential is valid but the
	// authorization decision is deny. Maps to HTTP 403. The public
	// message never explains which grant path failed.
	Forbidden = ErrorKind("not authorized")

	// InvalidArgument is returned when caller-supplied input fails
	// validation before any external call is made.
	InvalidArgument = ErrorKind("invalid argument")

	// Unavailable is returned when an upstream dependency (chain RPC,
	// storage gateway) fails. Retryable by the caller.
	Unavailable = ErrorKind("upstream unavailable")

	// Unsupported is returned for unknown configuration values.
	Unsupported = ErrorKind("unsupported")

	// SomethingWentWrong is an internal, non-retryable failure.
	SomethingWentWrong = ErrorKind("something went wrong")

	// Account decode failures. All of them deny access at the
	// authorization boundary.
	TruncatedRecord  = ErrorKind("record truncated")
	InvalidEnumValue = ErrorKind("invalid enum value")
	InvalidUTF8      = ErrorKind("invalid utf-8 in record")
	InvalidRecord    = ErrorKind("invalid record")
)

// Error satisfies the error interface and prints human-readable errors.
func (e ErrorKind) Error() string {
	return string(e)
}
