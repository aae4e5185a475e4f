/*
Package errors provides semantic error types for the entity service layer.

The package defines common error scenarios with specific types that can be
checked using the standard errors.Is() function or the provided helper functions.

Common Errors:

	var (
	    ErrNotFound        = errors.New("entity not found")
	    ErrAlreadyExists   = errors.New("entity already exists")
	    ErrInvalidInput    = errors.New("invalid input")
	    ErrConditionFailed = errors.New("condition check failed")
	    ErrPrecondition    = errors.New("precondition failed")
	    ErrConfiguration   = errors.New("configuration error")
	    ErrPersistence     = errors.New("persistence failed")
	    ErrInvariantViolation = errors.New("invariant violation")
	)

Datastores report ErrNotFound, ErrAlreadyExists and ErrConditionFailed. The
service layer reinterprets a not-found update as an insert and wraps every
other datastore failure in a PersistenceError, which keeps the original
error reachable through errors.Unwrap.

Usage:

	// Check error type
	_, err := store.Update(ctx, record)
	if err != nil {
	    if errors.IsNotFound(err) {
	        // Handle not found case
	        return store.Insert(ctx, record)
	    }
	    return nil, errors.NewPersistenceError(err, "failed to save the %s", kind)
	}

	// Create typed errors
	err := errors.NewNotFoundError("User", "123")
	err := errors.NewValidationError("email", "invalid format")
	err := errors.NewConditionFailedError("update", "version mismatch")
	err := errors.NewConfigurationError("widget", "service does not exist", nil)

The error types implement the error interface and support wrapping,
making them compatible with Go's standard error handling patterns.
*/
package errors