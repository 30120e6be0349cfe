// Package errs provides the typed errors shared by the order engine.
//
// Every type follows the same shape: a sentinel (ErrValueIsRequired, ErrConflict, ...),
// a struct carrying the details, constructors with and without a cause, Error() and
// Unwrap() returning the sentinel so callers can classify with errors.Is.
//
// The adapters map the sentinels to transport codes:
//   - ErrValidation, ErrValueIsInvalid, ErrValueIsRequired, ErrValueIsOutOfRange: bad request
//   - ErrObjectNotFound: not found
//   - ErrConflict: illegal state change
//   - ErrTransientStore: the store failed in a way a retry may fix
package errs
