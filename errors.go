package expenses_bot

import (
	"fmt"
)

// Errors implementing fmt.Stringer are shown to the user as-is;
// everything else renders as a generic internal error.

type UnknownCommandError struct {
	Command string
}

func (e UnknownCommandError) Error() string {
	return e.String()
}

func (e UnknownCommandError) String() string {
	if e.Command != "" {
		return fmt.Sprintf(`unknown command "%s"`, e.Command)
	}
	return "unknown command"
}

type InternalError struct {
	Err error
}

func (e InternalError) Error() string {
	if e.Err != nil {
		return e.String() + ": " + e.Err.Error()
	}
	return e.String()
}

func (InternalError) String() string {
	return "internal error"
}

func NewInternalError(e error) *InternalError {
	return &InternalError{Err: e}
}

// RateUnavailableError aborts a whole stats computation: no partial
// conversion is ever returned.
type RateUnavailableError struct {
	From string
	To   string
}

func (e RateUnavailableError) Error() string {
	return e.String()
}

func (e RateUnavailableError) String() string {
	return fmt.Sprintf("exchange rate %s → %s is unavailable, statistics not computed", e.From, e.To)
}

// MissingColumnError means the store snapshot has no column matching
// any known alias of a required field. Distinct from an empty result.
type MissingColumnError struct {
	Field string
}

func (e MissingColumnError) Error() string {
	return e.String()
}

func (e MissingColumnError) String() string {
	return fmt.Sprintf(`sheet has no "%s" column`, e.Field)
}

type StoreError struct {
	Err error
}

func (e StoreError) Error() string {
	if e.Err != nil {
		return e.String() + ": " + e.Err.Error()
	}
	return e.String()
}

func (StoreError) String() string {
	return "spreadsheet is unreachable, try again later"
}

func NewStoreError(e error) *StoreError {
	return &StoreError{Err: e}
}
