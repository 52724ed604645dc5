// Package parsererror defines the typed errors surfaced across package
// boundaries. Data-quality problems in statement files are not errors; they
// travel as strings inside models.ParseResult. The types here cover format
// recognition failures and caller-side contract violations, the only two
// classes that propagate as hard failures.
package parsererror

import "fmt"

// InvalidFormatError reports that an input document does not conform to the
// format a parser expected. It is terminal for the batch but not for the
// caller, which decides what to show the user.
type InvalidFormatError struct {
	ExpectedFormat string
	Msg            string
}

func (e *InvalidFormatError) Error() string {
	return fmt.Sprintf("invalid %s input: %s", e.ExpectedFormat, e.Msg)
}

// ExtractionError reports a failure of the external text-extraction
// collaborator (PDF decoding), as opposed to unparseable statement content.
type ExtractionError struct {
	Stage string
	Err   error
}

func (e *ExtractionError) Error() string {
	return fmt.Sprintf("extraction failed at %s: %v", e.Stage, e.Err)
}

func (e *ExtractionError) Unwrap() error {
	return e.Err
}

// NotFoundError reports a lookup for an entity that does not exist for the
// calling user. It signals a caller-side invariant violation, not dirty data.
type NotFoundError struct {
	Entity string
	ID     string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %q not found", e.Entity, e.ID)
}

// OwnershipError reports an operation on an entity owned by another user.
type OwnershipError struct {
	Entity string
	ID     string
	UserID string
}

func (e *OwnershipError) Error() string {
	return fmt.Sprintf("%s %q does not belong to user %q", e.Entity, e.ID, e.UserID)
}
