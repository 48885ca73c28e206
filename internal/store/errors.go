package store

import "errors"

// Sentinel errors returned by repository methods to signal well-known failure
// conditions. Callers should use [errors.Is] to match against these values.
var (
	// ErrUserAlreadyExists is returned when a user with the same email is
	// already present in the users table.
	ErrUserAlreadyExists = errors.New("user already exists")

	// ErrUserNotFound is returned when no active user matches the email.
	ErrUserNotFound = errors.New("no user was found")

	// ErrAlreadyBanned is returned when a banned_users row for the email
	// already exists.
	ErrAlreadyBanned = errors.New("user is already banned")

	// ErrUnavailable is returned when the backend cannot be reached or the
	// operation hit a transient failure (connection loss, lock contention,
	// deadline exceeded). Other sentinels never wrap it.
	ErrUnavailable = errors.New("store is unavailable")

	// ErrUnknownDriver is returned by [NewStorages] for an unsupported driver.
	ErrUnknownDriver = errors.New("unknown storage driver")
)

// Low-level database operation errors. These are wrapped by repository
// methods when a SQL-level operation fails before any domain logic can be
// applied.
var (
	// ErrBuildingSQLQuery is returned when squirrel cannot render a query.
	ErrBuildingSQLQuery = errors.New("error building sql query")

	// ErrExecutingQuery is returned when executing a SELECT fails.
	ErrExecutingQuery = errors.New("error executing sql query")

	// ErrBeginningTransaction is returned when the driver cannot start a
	// new transaction.
	ErrBeginningTransaction = errors.New("failed to begin transaction")

	// ErrCommitingTransaction is returned when committing an open
	// transaction fails. The transaction is considered rolled back.
	ErrCommitingTransaction = errors.New("failed to commit transaction")

	// ErrExecutingStatement is returned when an INSERT, UPDATE or DELETE
	// fails.
	ErrExecutingStatement = errors.New("failed to execute statement")

	// ErrScanningRow is returned when scanning column values from a result
	// row fails.
	ErrScanningRow = errors.New("failed to scan row")
)
