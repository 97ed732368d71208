package readability

import (
	"errors"
	"fmt"
)

// Stage identifies which phase of the pipeline an error originated in, so
// callers can tell a malformed-input failure from an algorithm giving up.
type Stage string

const (
	StageParse     Stage = "parse"
	StagePreprocess Stage = "preprocess"
	StageScore     Stage = "score"
	StageSelect    Stage = "select"
	StageCleanup   Stage = "cleanup"
	StageMetadata  Stage = "metadata"
)

// NotReaderableError reports that the document parsed fine but nothing in
// it cleared the bar to be considered an article (see IsProbablyReadable
// and Config.CharThreshold).
type NotReaderableError struct {
	Reason string
}

func (e *NotReaderableError) Error() string {
	if e.Reason == "" {
		return "readability: document is not readerable"
	}
	return fmt.Sprintf("readability: document is not readerable: %s", e.Reason)
}

// EmptyDocumentError reports that the input had no parseable content at all
// (an empty or whitespace-only string).
type EmptyDocumentError struct{}

func (e *EmptyDocumentError) Error() string { return "readability: document is empty" }

// MalformedDomError wraps an underlying HTML-parse failure.
type MalformedDomError struct {
	Err error
}

func (e *MalformedDomError) Error() string {
	return fmt.Sprintf("readability: malformed document: %v", e.Err)
}

func (e *MalformedDomError) Unwrap() error { return e.Err }

// StageError annotates an error with the pipeline stage and operation it
// came from, without discarding the original error for errors.As/errors.Is.
type StageError struct {
	Stage Stage
	Op    string
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("readability: %s: %s: %v", e.Stage, e.Op, e.Err)
}

func (e *StageError) Unwrap() error { return e.Err }

// WrapError annotates err with the stage and operation it failed in. It
// returns nil if err is nil, so callers can use it unconditionally:
// return WrapError(err, StageParse, "html.Parse")
func WrapError(err error, stage Stage, op string) error {
	if err == nil {
		return nil
	}
	return &StageError{Stage: stage, Op: op, Err: err}
}

// IsNotReaderable reports whether err (or anything it wraps) is a
// NotReaderableError.
func IsNotReaderable(err error) bool {
	var target *NotReaderableError
	return errors.As(err, &target)
}
