// Package microshard - errors.go provides the error taxonomy and rich error
// types with context for debugging.
//
// Every fallible operation returns one of the sentinel errors below, usually
// wrapped in a typed error carrying the offending value and position. All
// errors are caller-input problems; nothing in this package retries.

package microshard

import (
	"errors"
	"fmt"
)

// Sentinel errors. Use errors.Is() to classify a failure; use errors.As()
// with the typed errors below to recover details.
var (
	// ErrInvalidInput is returned when a required argument is absent or nil.
	ErrInvalidInput = errors.New("required argument missing")

	// ErrBufferTooSmall is returned when a caller-supplied destination
	// cannot hold the result. Only fixed-buffer APIs (Put) report it.
	ErrBufferTooSmall = errors.New("destination buffer too small")

	// ErrInvalidHex is returned when a non-hexadecimal, non-hyphen
	// character appears where a hex digit was expected.
	ErrInvalidHex = errors.New("invalid hexadecimal character")

	// ErrBadLength is returned when parsed input, after stripping
	// separators, is not exactly the expected digit or byte count.
	ErrBadLength = errors.New("invalid input length")

	// ErrBadFormat is returned when a textual timestamp does not match the
	// required YYYY-MM-DDTHH:MM:SS separator structure.
	ErrBadFormat = errors.New("timestamp does not match ISO 8601 pattern")

	// ErrRange is returned when a timestamp is structurally well-formed but
	// denotes an impossible calendar date/time, or a pre-1970 instant.
	ErrRange = errors.New("calendar value out of range")

	// ErrShardOutOfRange is returned when a shard ID exceeds 32 bits.
	// Only boundaries accepting a wider integer type can report it.
	ErrShardOutOfRange = errors.New("shard ID exceeds 32-bit range")

	// ErrTimeOverflow is returned when a timestamp exceeds the 54-bit
	// microsecond range (26th century).
	ErrTimeOverflow = errors.New("timestamp exceeds 54-bit range")
)

// ============================================================================
// Custom Error Types
// ============================================================================

// ParseError reports a failure while parsing the textual or binary wire form
// of an identifier.
//
// It records where in the input the parse failed, which makes malformed IDs
// in logs and bug reports much easier to diagnose.
//
// Example usage:
//
//	if _, err := microshard.Parse(s); err != nil {
//	    var parseErr *microshard.ParseError
//	    if errors.As(err, &parseErr) {
//	        log.Printf("bad ID at offset %d: %q", parseErr.Offset, parseErr.Input)
//	    }
//	}
type ParseError struct {
	// Input is the original input string (or a description of binary input).
	Input string

	// Offset is the byte offset of the offending character, or -1 when the
	// failure is about the input as a whole (wrong length).
	Offset int

	// Digits is the number of hex digits seen after stripping hyphens.
	// Only meaningful for length failures.
	Digits int

	// Kind is the sentinel this error wraps (ErrInvalidHex or ErrBadLength).
	Kind error
}

// Error implements the error interface.
func (e *ParseError) Error() string {
	if errors.Is(e.Kind, ErrBadLength) {
		return fmt.Sprintf("parse %q: %v (got %d hex digits, want 32)", e.Input, e.Kind, e.Digits)
	}
	return fmt.Sprintf("parse %q: %v at offset %d", e.Input, e.Kind, e.Offset)
}

// Unwrap returns the sentinel error for errors.Is() compatibility.
func (e *ParseError) Unwrap() error {
	return e.Kind
}

// TimeError reports a timestamp that cannot be represented: either a
// microsecond count beyond the 54-bit field, or an ISO string denoting an
// impossible or pre-1970 calendar instant.
type TimeError struct {
	// Micros is the offending microsecond value, when known.
	Micros uint64

	// Input is the ISO 8601 text, when the failure came from parsing.
	Input string

	// Detail names the field or rule that was violated ("month", "day",
	// "separator", "overflow", ...).
	Detail string

	// Kind is the sentinel this error wraps (ErrBadFormat, ErrRange, or
	// ErrTimeOverflow).
	Kind error
}

// Error implements the error interface.
func (e *TimeError) Error() string {
	if e.Input != "" {
		return fmt.Sprintf("timestamp %q: %v (%s)", e.Input, e.Kind, e.Detail)
	}
	return fmt.Sprintf("timestamp %d: %v (max %d)", e.Micros, e.Kind, MaxTime)
}

// Unwrap returns the sentinel error for errors.Is() compatibility.
func (e *TimeError) Unwrap() error {
	return e.Kind
}

// ShardError reports a shard ID received through a wide-integer boundary
// (CLI flag, SQL parameter) that does not fit the 32-bit shard field.
type ShardError struct {
	// Shard is the out-of-range value as received.
	Shard int64
}

// Error implements the error interface.
func (e *ShardError) Error() string {
	return fmt.Sprintf("shard %d: %v (valid range 0-%d)", e.Shard, ErrShardOutOfRange, MaxShard)
}

// Unwrap returns ErrShardOutOfRange for errors.Is() compatibility.
func (e *ShardError) Unwrap() error {
	return ErrShardOutOfRange
}

// ============================================================================
// Error Helper Functions
// ============================================================================

// IsParseError checks if an error is or wraps a ParseError.
func IsParseError(err error) bool {
	var parseErr *ParseError
	return errors.As(err, &parseErr)
}

// IsTimeError checks if an error is or wraps a TimeError.
func IsTimeError(err error) bool {
	var timeErr *TimeError
	return errors.As(err, &timeErr)
}

// IsShardError checks if an error is or wraps a ShardError.
func IsShardError(err error) bool {
	var shardErr *ShardError
	return errors.As(err, &shardErr)
}

// GetParseError extracts the ParseError from an error chain.
//
// Returns the ParseError and true if found, nil and false otherwise.
func GetParseError(err error) (*ParseError, bool) {
	var parseErr *ParseError
	if errors.As(err, &parseErr) {
		return parseErr, true
	}
	return nil, false
}

// GetTimeError extracts the TimeError from an error chain.
//
// Returns the TimeError and true if found, nil and false otherwise.
func GetTimeError(err error) (*TimeError, bool) {
	var timeErr *TimeError
	if errors.As(err, &timeErr) {
		return timeErr, true
	}
	return nil, false
}

// ============================================================================
// Error Constructor Helpers
// ============================================================================

// newHexError creates a ParseError for an invalid character at offset.
func newHexError(input string, offset int) *ParseError {
	return &ParseError{
		Input:  input,
		Offset: offset,
		Kind:   ErrInvalidHex,
	}
}

// newLengthError creates a ParseError for a wrong digit count.
func newLengthError(input string, digits int) *ParseError {
	return &ParseError{
		Input:  input,
		Offset: -1,
		Digits: digits,
		Kind:   ErrBadLength,
	}
}

// newTimeError creates a TimeError for a 54-bit timestamp overflow.
func newTimeError(micros uint64) *TimeError {
	return &TimeError{
		Micros: micros,
		Detail: "overflow",
		Kind:   ErrTimeOverflow,
	}
}

// newFormatError creates a TimeError for a structural ISO 8601 mismatch.
func newFormatError(input, detail string) *TimeError {
	return &TimeError{
		Input:  input,
		Detail: detail,
		Kind:   ErrBadFormat,
	}
}

// newRangeError creates a TimeError for an impossible calendar value.
func newRangeError(input, detail string) *TimeError {
	return &TimeError{
		Input:  input,
		Detail: detail,
		Kind:   ErrRange,
	}
}

// newShardError creates a ShardError for a wide-integer shard value.
func newShardError(shard int64) *ShardError {
	return &ShardError{Shard: shard}
}
