// Package ferrors collects the sentinel error kinds raised while resolving
// imports and rewriting a document tree, plus the richer error types that
// wrap each sentinel with enough context to explain a failure to a caller.
package ferrors

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinels. Callers match on these with errors.Is; they are never compared
// by string.
var (
	ErrFileNotFound         = errors.New("source not found")
	ErrImportCycle          = errors.New("import cycle")
	ErrOverlappingMatches   = errors.New("overlapping rule matches")
	ErrSkipMismatch         = errors.New("mismatched skip markers")
	ErrMalformedEnvelope    = errors.New("malformed envelope")
	ErrIndexOutOfRange      = errors.New("index out of range")
	ErrMacroRecursionLimit  = errors.New("macro recursion limit reached")
	ErrInvalidArgs          = errors.New("invalid command-line arguments")
)

// FileNotFoundError reports that none of the candidate paths tried by the
// file finder resolved to an existing source.
type FileNotFoundError struct {
	Reference     string
	CallingSource string
	Tried         []string
}

func (e *FileNotFoundError) Error() string {
	return fmt.Sprintf("source not found: %q (referenced from %q); tried: %s",
		e.Reference, e.CallingSource, strings.Join(e.Tried, ", "))
}

func (e *FileNotFoundError) Unwrap() error { return ErrFileNotFound }

// NewFileNotFound builds a FileNotFoundError.
func NewFileNotFound(reference, callingSource string, tried []string) error {
	return &FileNotFoundError{Reference: reference, CallingSource: callingSource, Tried: tried}
}

// ImportCycleError reports a source importing one of its own ancestors,
// carrying the full cycle path for diagnostics.
type ImportCycleError struct {
	Cycle []string
}

func (e *ImportCycleError) Error() string {
	return fmt.Sprintf("import cycle: %s", strings.Join(e.Cycle, " -> "))
}

func (e *ImportCycleError) Unwrap() error { return ErrImportCycle }

// NewImportCycle builds an ImportCycleError from the ancestor stack plus the
// repeated source that closes the cycle.
func NewImportCycle(cycle []string) error {
	return &ImportCycleError{Cycle: cycle}
}

// OverlappingMatchesError reports two rule matches of the same rule category
// claiming intersecting byte ranges.
type OverlappingMatchesError struct {
	RuleKind   string
	ABegin, AEnd int
	BBegin, BEnd int
}

func (e *OverlappingMatchesError) Error() string {
	return fmt.Sprintf("overlapping %s matches: [%d,%d) and [%d,%d)",
		e.RuleKind, e.ABegin, e.AEnd, e.BBegin, e.BEnd)
}

func (e *OverlappingMatchesError) Unwrap() error { return ErrOverlappingMatches }

// NewOverlappingMatches builds an OverlappingMatchesError.
func NewOverlappingMatches(ruleKind string, aBegin, aEnd, bBegin, bEnd int) error {
	return &OverlappingMatchesError{RuleKind: ruleKind, ABegin: aBegin, AEnd: aEnd, BBegin: bBegin, BEnd: bEnd}
}

// SkipMismatchError reports an unbalanced %%FLACHTEX-SKIP-START/STOP pair.
type SkipMismatchError struct {
	Reason string
	Pos    int
}

func (e *SkipMismatchError) Error() string {
	return fmt.Sprintf("skip marker mismatch at byte %d: %s", e.Pos, e.Reason)
}

func (e *SkipMismatchError) Unwrap() error { return ErrSkipMismatch }

// NewSkipMismatch builds a SkipMismatchError.
func NewSkipMismatch(reason string, pos int) error {
	return &SkipMismatchError{Reason: reason, Pos: pos}
}

// MalformedEnvelopeError reports a JSON envelope that violates the origin
// segment invariants (partition, ordering, no zero-length segments).
type MalformedEnvelopeError struct {
	Reason string
}

func (e *MalformedEnvelopeError) Error() string {
	return fmt.Sprintf("malformed envelope: %s", e.Reason)
}

func (e *MalformedEnvelopeError) Unwrap() error { return ErrMalformedEnvelope }

// NewMalformedEnvelope builds a MalformedEnvelopeError.
func NewMalformedEnvelope(reason string) error {
	return &MalformedEnvelopeError{Reason: reason}
}

// IndexOutOfRangeError reports an access past the end of a traceable string.
type IndexOutOfRangeError struct {
	Index, Len int
}

func (e *IndexOutOfRangeError) Error() string {
	return fmt.Sprintf("index %d out of range for length %d", e.Index, e.Len)
}

func (e *IndexOutOfRangeError) Unwrap() error { return ErrIndexOutOfRange }

// NewIndexOutOfRange builds an IndexOutOfRangeError.
func NewIndexOutOfRange(index, length int) error {
	return &IndexOutOfRangeError{Index: index, Len: length}
}

// MacroRecursionLimitError is a non-fatal diagnostic: a macro call site was
// left untouched because its expansion chain exceeded the configured depth.
type MacroRecursionLimitError struct {
	Name  string
	Depth int
}

func (e *MacroRecursionLimitError) Error() string {
	return fmt.Sprintf("macro %q left unexpanded past recursion depth %d", e.Name, e.Depth)
}

func (e *MacroRecursionLimitError) Unwrap() error { return ErrMacroRecursionLimit }

// NewMacroRecursionLimit builds a MacroRecursionLimitError.
func NewMacroRecursionLimit(name string, depth int) error {
	return &MacroRecursionLimitError{Name: name, Depth: depth}
}

// InvalidArgsError reports a command-line invocation that cannot be
// validated into a usable Options value.
type InvalidArgsError struct {
	Reason string
}

func (e *InvalidArgsError) Error() string { return fmt.Sprintf("invalid arguments: %s", e.Reason) }

func (e *InvalidArgsError) Unwrap() error { return ErrInvalidArgs }

// NewInvalidArgs builds an InvalidArgsError.
func NewInvalidArgs(reason string) error {
	return &InvalidArgsError{Reason: reason}
}
