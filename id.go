// Package microshard - id.go provides the ID type with encoding and utility
// methods.
//
// The ID type wraps the 128-bit MicroShard UUID as two 64-bit halves and
// provides the two wire forms (hyphenated hex text, 16-byte big-endian
// binary), component extraction, validation, comparison, and integration
// with JSON, text, binary, and SQL marshaling interfaces.

package microshard

import (
	"database/sql/driver"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// ID is a 128-bit, time-sortable, shard-aware identifier.
//
// # Representation
//
// The value is held as two unsigned 64-bit halves, which keeps all field
// operations in CPU registers on 64-bit hardware. IDs are immutable value
// types: they are constructed once, compared and hashed by raw 128-bit
// value, and never mutated.
//
// # Interface Implementations
//
// The ID type implements standard Go interfaces for seamless integration:
//   - json.Marshaler/Unmarshaler: canonical string form
//   - encoding.TextMarshaler/Unmarshaler: for XML, YAML, TOML
//   - encoding.BinaryMarshaler/Unmarshaler: 16-byte big-endian wire form
//   - sql.Scanner/driver.Valuer: BLOB(16) or text database columns
//   - fmt.Stringer: canonical hyphenated hex
//
// # Ordering
//
// Because the timestamp occupies the most significant bits, IDs built with
// strictly increasing timestamps compare strictly increasing, both as raw
// 128-bit values (Compare, Less) and as canonical strings.
//
// # Performance
//
// All operations are allocation-free except those producing new strings or
// slices:
//   - Component extraction: ~5ns (bitshifting)
//   - String: ~60ns (one 36-byte allocation)
//   - Parse: ~45ns (lookup-table nibble decoding)
//
// Example:
//
//	id, _ := microshard.Generate(42)
//	fmt.Println(id)            // 0632e9f3-64d2-8d2a-8000-02ba49f3c1e7
//	fmt.Println(id.Shard())    // 42
//	fmt.Println(id.Time())     // 2026-08-30 12:00:00.123456 +0000 UTC
type ID struct {
	hi uint64
	lo uint64
}

// Nil is the zero ID. It is not a valid MicroShard UUID (its version and
// variant fields are zero) and is never produced by construction.
var Nil ID

// encodeHexMap holds the lowercase hex digits used by the canonical form.
const encodeHexMap = "0123456789abcdef"

// decodeHexMap provides O(1) character-to-nibble lookups.
// Invalid characters are marked with 0xFF for fast validation.
// Initialized once at package init time, read-only afterwards, and therefore
// safe for concurrent access without synchronization.
var decodeHexMap [256]byte

func init() {
	for i := 0; i < 256; i++ {
		decodeHexMap[i] = 0xFF
	}
	for i := 0; i < len(encodeHexMap); i++ {
		decodeHexMap[encodeHexMap[i]] = byte(i)
	}
	// Uppercase digits parse too; output is always lowercase.
	for c := byte('A'); c <= 'F'; c++ {
		decodeHexMap[c] = c - 'A' + 10
	}
}

// ============================================================================
// Construction
// ============================================================================

// FromParts composes an ID from its two raw 64-bit halves.
//
// No validation is performed; the result may fail IsValid(). This is the
// inverse of Parts() and exists for callers that persist the halves
// separately (e.g. two BIGINT columns).
func FromParts(hi, lo uint64) ID {
	return ID{hi: hi, lo: lo}
}

// Parts returns the raw high and low 64-bit halves of the ID.
func (id ID) Parts() (hi, lo uint64) {
	return id.hi, id.lo
}

// ============================================================================
// Text Wire Form
// ============================================================================

// String returns the canonical textual form: 36 lowercase hex characters
// hyphenated 8-4-4-4-12 over the 16 big-endian bytes.
//
// This implements fmt.Stringer.
//
// Performance: ~60ns (single 36-byte allocation)
//
// Example:
//
//	fmt.Println(id) // "0632e9f3-64d2-8d2a-8000-02ba49f3c1e7"
func (id ID) String() string {
	b := id.Bytes()
	var buf [36]byte
	j := 0
	for i, v := range b {
		switch i {
		case 4, 6, 8, 10:
			buf[j] = '-'
			j++
		}
		buf[j] = encodeHexMap[v>>4]
		buf[j+1] = encodeHexMap[v&0x0F]
		j += 2
	}
	return string(buf[:])
}

// Parse parses the textual form of an ID.
//
// Exactly 32 hex digits are required, but hyphens may appear anywhere in any
// quantity and are discarded, so both the canonical 8-4-4-4-12 form and the
// bare 32-digit form are accepted, as well as non-canonical hyphen
// placements. Uppercase hex digits are accepted; output forms are always
// lowercase.
//
// Returns ErrInvalidHex (wrapped in a *ParseError) on any character that is
// neither a hex digit nor a hyphen, and ErrBadLength when the stripped digit
// count is not exactly 32.
//
// Performance: ~45ns (lookup-table nibble decoding, no allocation)
//
// Example:
//
//	id, err := microshard.Parse("018e65c9-3a10-0400-8000-a4f1d3b8e1a1")
func Parse(s string) (ID, error) {
	var b [16]byte
	idx := 0
	hiNibble := -1
	digits := 0

	for i := 0; i < len(s); i++ {
		c := s[i]
		if c == '-' {
			continue
		}
		v := decodeHexMap[c]
		if v == 0xFF {
			return Nil, newHexError(s, i)
		}
		digits++
		if digits > 32 {
			// Keep scanning so a later invalid character still reports
			// ErrInvalidHex and the final digit count is accurate.
			continue
		}
		if hiNibble == -1 {
			hiNibble = int(v)
			continue
		}
		b[idx] = byte(hiNibble<<4) | v
		idx++
		hiNibble = -1
	}

	if digits != 32 {
		return Nil, newLengthError(s, digits)
	}

	return FromBytes(b[:])
}

// MustParse parses the textual form and panics on error.
//
// Use only for hard-coded known-good IDs (tests, fixtures).
func MustParse(s string) ID {
	id, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return id
}

// ============================================================================
// Binary Wire Form
// ============================================================================

// Bytes returns the 16-byte big-endian binary form: the high half first,
// then the low half, most significant byte first within each.
//
// This is the only persisted representation and matches byte-for-byte
// across implementations (the SQL collaborator layers store exactly this).
//
// Performance: ~10ns (two register writes)
func (id ID) Bytes() [16]byte {
	var b [16]byte
	for i := 7; i >= 0; i-- {
		b[i] = byte(id.hi >> (8 * (7 - i)))
		b[i+8] = byte(id.lo >> (8 * (7 - i)))
	}
	return b
}

// Put writes the 16-byte binary form into dst.
//
// Returns ErrBufferTooSmall when dst holds fewer than 16 bytes; dst is left
// untouched in that case. On success exactly 16 bytes are written.
func (id ID) Put(dst []byte) error {
	if len(dst) < 16 {
		return fmt.Errorf("put: %w (have %d bytes, need 16)", ErrBufferTooSmall, len(dst))
	}
	b := id.Bytes()
	copy(dst, b[:])
	return nil
}

// FromBytes parses the 16-byte big-endian binary form.
//
// Returns ErrBadLength when b is not exactly 16 bytes. Total for any 16-byte
// input: every bit pattern decodes, even ones construction never produces.
func FromBytes(b []byte) (ID, error) {
	if len(b) != 16 {
		return Nil, newLengthError(fmt.Sprintf("<%d bytes>", len(b)), len(b))
	}
	var id ID
	for i := 0; i < 8; i++ {
		id.hi = id.hi<<8 | uint64(b[i])
		id.lo = id.lo<<8 | uint64(b[i+8])
	}
	return id, nil
}

// ============================================================================
// Component Extraction
// ============================================================================

// Micros returns the embedded timestamp as microseconds since the Unix
// epoch. Total function, defined for any bit pattern.
//
// Performance: ~5ns (bitshifting)
func (id ID) Micros() uint64 {
	return unpackTime(id)
}

// Time returns the embedded timestamp as a UTC time.Time with microsecond
// precision.
func (id ID) Time() time.Time {
	micros := int64(unpackTime(id))
	return time.Unix(micros/1_000_000, (micros%1_000_000)*1000).UTC()
}

// ISOTime returns the embedded timestamp as an ISO 8601 string with six
// fractional digits and a trailing Z, e.g. "2023-01-01T00:00:00.000000Z".
func (id ID) ISOTime() string {
	return formatISO(unpackTime(id))
}

// Shard returns the embedded 32-bit shard ID. Total function.
//
// Performance: ~5ns (bitshifting)
func (id ID) Shard() uint32 {
	return unpackShard(id)
}

// Random returns the 36-bit entropy field. Total function.
func (id ID) Random() uint64 {
	return unpackRandom(id)
}

// VersionField returns the 4-bit version field (8 for IDs produced by
// construction).
func (id ID) VersionField() uint64 {
	return (id.hi >> versionShift) & versionMask
}

// VariantField returns the 2-bit variant field (binary 10 for IDs produced
// by construction).
func (id ID) VariantField() uint64 {
	return (id.lo >> variantShift) & variantMask
}

// IsValid reports whether the version and variant fields carry the constant
// marker values every constructed MicroShard UUID has.
//
// This checks format membership, not provenance: any 128-bit pattern with
// version 8 and variant 10 passes.
func (id ID) IsValid() bool {
	return id.VersionField() == Version && id.VariantField() == Variant
}

// ============================================================================
// Comparison
// ============================================================================

// Compare returns the ordering of two IDs by raw 128-bit value.
//
// Returns -1 if id < other, 0 if equal, 1 if id > other. Because the
// timestamp occupies the most significant bits, this is also creation-time
// order for IDs with distinct timestamps.
func (id ID) Compare(other ID) int {
	switch {
	case id.hi < other.hi:
		return -1
	case id.hi > other.hi:
		return 1
	case id.lo < other.lo:
		return -1
	case id.lo > other.lo:
		return 1
	}
	return 0
}

// Less reports whether id orders before other. Suitable for sort.Slice.
func (id ID) Less(other ID) bool {
	return id.Compare(other) < 0
}

// Before reports whether id embeds an earlier timestamp than other.
func (id ID) Before(other ID) bool {
	return unpackTime(id) < unpackTime(other)
}

// After reports whether id embeds a later timestamp than other.
func (id ID) After(other ID) bool {
	return unpackTime(id) > unpackTime(other)
}

// Age returns the duration since the ID's embedded timestamp.
func (id ID) Age() time.Duration {
	return time.Since(id.Time())
}

// ============================================================================
// JSON / Text / Binary Marshaling
// ============================================================================

// MarshalJSON implements json.Marshaler using the canonical string form.
//
// Example:
//
//	type Order struct {
//	    ID microshard.ID `json:"id"`
//	}
//	// Marshals as: {"id": "0632e9f3-64d2-8d2a-8000-02ba49f3c1e7"}
func (id ID) MarshalJSON() ([]byte, error) {
	s := id.String()
	b := make([]byte, 0, len(s)+2)
	b = append(b, '"')
	b = append(b, s...)
	b = append(b, '"')
	return b, nil
}

// UnmarshalJSON implements json.Unmarshaler.
//
// Accepts a JSON string in any form Parse accepts.
func (id *ID) UnmarshalJSON(data []byte) error {
	if len(data) < 2 || data[0] != '"' || data[len(data)-1] != '"' {
		return fmt.Errorf("unmarshal ID: %w: expected JSON string, got %s", ErrBadFormat, string(data))
	}
	parsed, err := Parse(string(data[1 : len(data)-1]))
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}

// MarshalText implements encoding.TextMarshaler (canonical string form).
// Used by XML, YAML, TOML, and CSV encoders.
func (id ID) MarshalText() ([]byte, error) {
	return []byte(id.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (id *ID) UnmarshalText(text []byte) error {
	parsed, err := Parse(string(text))
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}

// MarshalBinary implements encoding.BinaryMarshaler (16-byte big-endian
// wire form).
func (id ID) MarshalBinary() ([]byte, error) {
	b := id.Bytes()
	return b[:], nil
}

// UnmarshalBinary implements encoding.BinaryUnmarshaler.
//
// Returns ErrBadLength when data is not exactly 16 bytes.
func (id *ID) UnmarshalBinary(data []byte) error {
	parsed, err := FromBytes(data)
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}

// ============================================================================
// SQL Database Integration
// ============================================================================

// Scan implements sql.Scanner for reading from a database.
//
// Supported column types:
//   - []byte of length 16: the binary wire form (BLOB columns)
//   - []byte or string of text: any form Parse accepts (TEXT columns)
//   - nil: scans as the Nil ID
//
// Example:
//
//	var id microshard.ID
//	err := db.QueryRow("SELECT id FROM orders WHERE ref = ?", ref).Scan(&id)
func (id *ID) Scan(value interface{}) error {
	if value == nil {
		*id = Nil
		return nil
	}

	switch v := value.(type) {
	case []byte:
		if len(v) == 16 {
			parsed, err := FromBytes(v)
			if err != nil {
				return err
			}
			*id = parsed
			return nil
		}
		parsed, err := Parse(string(v))
		if err != nil {
			return err
		}
		*id = parsed
	case string:
		parsed, err := Parse(v)
		if err != nil {
			return err
		}
		*id = parsed
	default:
		return fmt.Errorf("cannot scan %T into ID", value)
	}

	return nil
}

// Value implements driver.Valuer for writing to a database.
//
// Returns the 16-byte binary wire form, matching BLOB(16) columns and the
// storage format of the database extension bindings.
//
// Recommended schema:
//
//	-- SQLite
//	CREATE TABLE orders (id BLOB PRIMARY KEY, ...);
//
//	-- PostgreSQL
//	CREATE TABLE orders (id BYTEA PRIMARY KEY, ...);
func (id ID) Value() (driver.Value, error) {
	b := id.Bytes()
	return b[:], nil
}

// ============================================================================
// UUID Interop
// ============================================================================

// UUID converts the ID to a github.com/google/uuid UUID.
//
// The byte layout is identical (the MicroShard format is a version-8 UUID),
// so this is a plain copy: uuid.UUID tooling (formatting, URN rendering,
// column types) works on MicroShard IDs unchanged.
func (id ID) UUID() uuid.UUID {
	return uuid.UUID(id.Bytes())
}

// FromUUID converts a github.com/google/uuid UUID to an ID.
//
// No validation is performed; use IsValid to check that the value actually
// carries the MicroShard version and variant markers.
func FromUUID(u uuid.UUID) ID {
	id, _ := FromBytes(u[:])
	return id
}
