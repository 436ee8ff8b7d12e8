package utils

import "fmt"

// RunAndWrapOnError runs the given cleanup function after the fact and wraps any
// cleanup error around the original one so neither is lost.
func RunAndWrapOnError(cleanup func() error, existingErr error) error {
	if cleanupErr := cleanup(); cleanupErr != nil {
		if existingErr == nil {
			return cleanupErr
		}
		return fmt.Errorf(`failed to run cleanup: %v with existing err: %w`, cleanupErr, existingErr)
	}
	return existingErr
}
