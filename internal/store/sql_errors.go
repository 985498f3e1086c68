package store

// ErrorClassification is the meaning of a driver error for the caller,
// as returned by [ErrorClassificator.Classify].
type ErrorClassification int

const (
	// NonRetryable errors will fail again if repeated.
	NonRetryable ErrorClassification = iota
	// Retryable errors are transient (lost connection, lock contention).
	Retryable
	// UniqueViolation means a unique index or primary key rejected the row.
	UniqueViolation
	// ForeignKeyViolation means a referenced row does not exist.
	ForeignKeyViolation
)

// ErrorClassificator translates dialect specific driver errors.
type ErrorClassificator interface {
	Classify(err error) ErrorClassification
	// Constraint returns a description of the violated constraint, which
	// contains the column or index name. Empty when unknown.
	Constraint(err error) string
}
