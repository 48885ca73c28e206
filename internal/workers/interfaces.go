// Package workers runs the scheduled maintenance jobs of the server: purging
// expired sessions and archiving the activity log.
package workers

// Worker is a background job owned by [Workers].
//
// Run returns immediately and the work happens in goroutines owned by the
// worker. Stop blocks until any running invocation has finished.
type Worker interface {
	Run()
	Stop()
}
