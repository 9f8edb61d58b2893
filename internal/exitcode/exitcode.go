// Package exitcode defines exit codes for the CLI.
package exitcode

const (
	// Success indicates successful completion.
	Success = 0

	// UserError indicates a user error (bad args, unknown command, task out of range).
	UserError = 1

	// StorageError indicates the task list could not be written.
	StorageError = 2
)
