package core

import (
	"fmt"

	"github.com/aindus-labs/veritas/pkg/token"
)

// ErrorKind is the machine-readable classification of a calculation failure.
type ErrorKind string

// Error kinds, one per failure class of the pipeline.
const (
	KindLexError         ErrorKind = "lex_error"
	KindParseError       ErrorKind = "parse_error"
	KindComplexityError  ErrorKind = "complexity_error"
	KindUnknownNameError ErrorKind = "unknown_name_error"
	KindEvalError        ErrorKind = "eval_error"
	KindTimeoutError     ErrorKind = "timeout_error"
	KindInvalidRequest   ErrorKind = "invalid_request"
)

// Stage identifies where in the calculation pipeline a failure occurred.
type Stage string

// Pipeline stages in order. A calculation either advances through all of
// them or terminates at the stage recorded in its Failure.
const (
	StageReceived   Stage = "received"
	StageTokenized  Stage = "tokenized"
	StageParsed     Stage = "parsed"
	StageValidated  Stage = "validated"
	StageEvaluated  Stage = "evaluated"
	StageProofBuilt Stage = "proof_built"
	StageCompleted  Stage = "completed"
)

// Failure is the structured error surfaced at the calculation boundary.
// Fragment is the offending slice of the query text when the failing
// stage can identify one. Message carries only the fragment or position,
// never internal exception text or code paths.
type Failure struct {
	Kind     ErrorKind      `json:"kind"`
	Stage    Stage          `json:"stage"`
	Position token.Position `json:"position,omitempty"`
	Fragment string         `json:"fragment,omitempty"`
	Message  string         `json:"message"`
}

func (f *Failure) Error() string {
	if f.Position.IsValid() {
		return fmt.Sprintf("%s at line %d, column %d: %s", f.Kind, f.Position.Line, f.Position.Column, f.Message)
	}
	return fmt.Sprintf("%s: %s", f.Kind, f.Message)
}
