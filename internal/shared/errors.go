package shared

import "fmt"

var (
	// Configuration errors
	ErrMissingConfig = fmt.Errorf("configuration not found")
	ErrInvalidConfig = fmt.Errorf("invalid configuration")

	// Credential errors
	ErrCredentialNotFound = fmt.Errorf("credential not found")
	ErrCredentialInvalid  = fmt.Errorf("credential invalid")

	// API errors
	ErrAPIRequest = fmt.Errorf("API request failed")

	// Storage errors
	ErrInternalConsistency = fmt.Errorf("internal consistency failure")
	ErrUnsupportedDriver   = fmt.Errorf("unsupported database driver")

	// Input validation errors
	ErrInvalidRecord   = fmt.Errorf("invalid record")
	ErrMissingArgument = fmt.Errorf("missing required argument")
	ErrInvalidArgument = fmt.Errorf("invalid argument")
	ErrAborted         = fmt.Errorf("aborted by user")
)

// CredentialKind distinguishes a missing token file from an unusable one.
type CredentialKind int

const (
	CredentialNotFound CredentialKind = iota
	CredentialInvalid
)

func (k CredentialKind) String() string {
	switch k {
	case CredentialNotFound:
		return "not_found"
	case CredentialInvalid:
		return "invalid"
	default:
		return ""
	}
}

// CredentialError reports a token file that could not be turned into a bearer token.
type CredentialError struct {
	Kind CredentialKind
	Path string
	Err  error
}

func (e *CredentialError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%v: %s: %v", e.sentinel(), e.Path, e.Err)
	}
	return fmt.Sprintf("%v: %s", e.sentinel(), e.Path)
}

// Unwrap returns the sentinel for Kind so callers can use [errors.Is].
func (e *CredentialError) Unwrap() []error {
	if e.Err != nil {
		return []error{e.sentinel(), e.Err}
	}
	return []error{e.sentinel()}
}

func (e *CredentialError) sentinel() error {
	if e.Kind == CredentialNotFound {
		return ErrCredentialNotFound
	}
	return ErrCredentialInvalid
}

// InternalConsistencyError means a natural-key lookup came back empty right after an insert-or-ignore.
//
// It signals a defect, never an external condition.
type InternalConsistencyError struct {
	Entity string
	URI    string
	Err    error
}

func (e *InternalConsistencyError) Error() string {
	return fmt.Sprintf("%v: no %s row for uri %q after upsert", ErrInternalConsistency, e.Entity, e.URI)
}

func (e *InternalConsistencyError) Unwrap() []error {
	if e.Err != nil {
		return []error{ErrInternalConsistency, e.Err}
	}
	return []error{ErrInternalConsistency}
}
