package commonerrors

var (
	ErrInternal = NewDomainError(
		"INTERNAL_ERROR",
		KindInternal,
		"internal server error",
	)

	ErrStoreUnavailable = NewDomainError(
		"STORE_UNAVAILABLE",
		KindUnavailable,
		"storage temporarily unavailable",
	)

	ErrDatabase = NewDomainError(
		"DATABASE_ERROR",
		KindInternal,
		"database operation failed",
	)

	ErrUniqueViolation = NewDomainError(
		"UNIQUE_VIOLATION",
		KindConflict,
		"unique constraint violation",
	)

	ErrMissingRequiredEnv = NewDomainError(
		"MISSING_REQUIRED_ENV",
		KindInvalidArgument,
		"missing required environment variable",
	)

	ErrInvalidSessionSecret = NewDomainError(
		"INVALID_SESSION_SECRET",
		KindInvalidArgument,
		"SESSION_SECRET must be at least 32 bytes",
	)
)
