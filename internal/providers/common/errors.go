package common

import (
	"errors"
	"fmt"
)

type ErrorKind string

const (
	KindUnavailable ErrorKind = "unavailable"
	KindMalformed   ErrorKind = "malformed"
)

// SourceError is the only error a fetcher returns. The engine treats it as
// zero candidates from that source.
type SourceError struct {
	Source string
	Kind   ErrorKind
	Err    error
}

func (e *SourceError) Error() string {
	return fmt.Sprintf("%s: source %s: %v", e.Source, e.Kind, e.Err)
}

func (e *SourceError) Unwrap() error {
	return e.Err
}

func Unavailable(source string, err error) *SourceError {
	return &SourceError{Source: source, Kind: KindUnavailable, Err: err}
}

func Malformed(source string, err error) *SourceError {
	return &SourceError{Source: source, Kind: KindMalformed, Err: err}
}

// KindOf returns the kind of a wrapped SourceError, or KindUnavailable for
// any other error.
func KindOf(err error) ErrorKind {
	var sourceErr *SourceError
	if errors.As(err, &sourceErr) {
		return sourceErr.Kind
	}
	return KindUnavailable
}
