// Package apperrors provides chained application errors that carry an optional HTTP
// status code. Errors created from a template remain matchable with errors.Is against
// the template and against every error attached to them.
package apperrors

// Error defines the interface for application errors. All methods that derive a new
// error return Error to support method chaining.
type Error interface {
	error
	Unwrap() error // support for errors.Is / errors.As

	Msg(msg string) Error                  // creates a new error with message and wraps original
	MsgErr(msg string, err ...error) Error // creates error with message and wraps extra errors
	Err(err ...error) Error                // attaches additional errors to current error
	SetStatusCode(int) Error               // sets HTTP status code for the error
	StatusCode() int                       // returns the current status code
	ErrorAll() string                      // returns full message including wrapped errors
}
