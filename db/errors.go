package db

import "errors"

var ErrKeyNotFound = errors.New("key not found")

// CloseAndWrapOnError closes and wraps the closing error, if any, around the
// existing one so that neither is lost.
func CloseAndWrapOnError(closeFn func() error, existingErr *error) {
	if closeErr := closeFn(); closeErr != nil {
		if *existingErr == nil {
			*existingErr = closeErr
		} else {
			*existingErr = errors.Join(*existingErr, closeErr)
		}
	}
}
