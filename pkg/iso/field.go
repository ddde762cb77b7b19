package iso

import (
	"bytes"
	"fmt"

	"github.com/hkumarmk/iso8583-switch/pkg/encoding"
)

// Field is the unit of the spec-driven field model: fixed-length fields,
// variable-length (L/LL/LLL) fields, and the bitmap field all implement it.
// A spec is just an ordered slice of Fields, and a composite field (the
// bitmap) holds its own slice of child Fields — the same interface recurses
// one level deep, which is as far as ISO8583 nesting needs to go.
type Field interface {
	// Name identifies the field within a message's field-data map.
	Name() string

	// Position is the bitmap position this field occupies, or 0 for
	// top-level fields (MTI, the bitmap itself) that aren't addressed by
	// bit position.
	Position() int

	// Parse consumes this field's bytes from r and records the decoded
	// value into msg.
	Parse(r *reader, msg *IsoMsg) error

	// Assemble encodes this field's current value from msg onto buf.
	Assemble(buf *bytes.Buffer, msg *IsoMsg) error

	// ToString renders a decoded field value for human display; for most
	// encodings this is the identity, but Binary/TLV fields render as hex.
	ToString(value string) string
}

// FixedField is a field of a constant number of logical characters.
type FixedField struct {
	FieldName string
	Len       int
	Pos       int
	Encoding  encoding.Encoder
}

var _ Field = (*FixedField)(nil)

func (f *FixedField) Name() string     { return f.FieldName }
func (f *FixedField) Position() int    { return f.Pos }
func (f *FixedField) ToString(v string) string {
	return toDisplayString(f.Encoding, v)
}

func (f *FixedField) Parse(r *reader, msg *IsoMsg) error {
	data, err := r.take(f.Encoding.ByteLength(f.Len))
	if err != nil {
		return newParseError(f.FieldName, err)
	}

	value, err := f.Encoding.Decode(data, f.Len)
	if err != nil {
		return newParseError(f.FieldName, err)
	}

	msg.fieldData[f.FieldName] = value

	return nil
}

func (f *FixedField) Assemble(buf *bytes.Buffer, msg *IsoMsg) error {
	value, ok := msg.fieldData[f.FieldName]
	if !ok {
		return newParseError(f.FieldName, ErrFieldDataMissing)
	}

	data, err := f.Encoding.Encode(value)
	if err != nil {
		return newParseError(f.FieldName, err)
	}

	buf.Write(data)

	return nil
}

// VarField is a variable-length field prefixed by a fixed-width length
// indicator (ISO8583's L/LL/LLL fields), itself encoded independently of
// the field's own content (e.g. an ASCII length indicator in front of a
// BCD-encoded value).
type VarField struct {
	FieldName   string
	MaxLen      int
	Pos         int
	Encoding    encoding.Encoder
	LenDigits   int
	LenEncoding encoding.Encoder
}

var _ Field = (*VarField)(nil)

func (f *VarField) Name() string  { return f.FieldName }
func (f *VarField) Position() int { return f.Pos }
func (f *VarField) ToString(v string) string {
	return toDisplayString(f.Encoding, v)
}

func (f *VarField) Parse(r *reader, msg *IsoMsg) error {
	lenData, err := r.take(f.LenEncoding.ByteLength(f.LenDigits))
	if err != nil {
		return newParseError(f.FieldName, fmt.Errorf("length indicator: %w", err))
	}

	lenStr, err := f.LenEncoding.Decode(lenData, f.LenDigits)
	if err != nil {
		return newParseError(f.FieldName, fmt.Errorf("length indicator: %w", err))
	}

	n, err := parseDigits(lenStr)
	if err != nil {
		return newParseError(f.FieldName, fmt.Errorf("length indicator %q: %w", lenStr, err))
	}

	if n > f.MaxLen {
		return newParseError(f.FieldName, fmt.Errorf("%w: %d > %d", ErrFieldLengthLimit, n, f.MaxLen))
	}

	data, err := r.take(f.Encoding.ByteLength(n))
	if err != nil {
		return newParseError(f.FieldName, err)
	}

	value, err := f.Encoding.Decode(data, n)
	if err != nil {
		return newParseError(f.FieldName, err)
	}

	msg.fieldData[f.FieldName] = value

	return nil
}

func (f *VarField) Assemble(buf *bytes.Buffer, msg *IsoMsg) error {
	value, ok := msg.fieldData[f.FieldName]
	if !ok {
		return newParseError(f.FieldName, ErrFieldDataMissing)
	}

	if len([]rune(value)) > f.MaxLen {
		return newParseError(f.FieldName, fmt.Errorf("%w: %d > %d", ErrFieldLengthLimit, len(value), f.MaxLen))
	}

	lenStr := fmt.Sprintf("%0*d", f.LenDigits, len(value))

	lenData, err := f.LenEncoding.Encode(lenStr)
	if err != nil {
		return newParseError(f.FieldName, fmt.Errorf("length indicator: %w", err))
	}

	buf.Write(lenData)

	data, err := f.Encoding.Encode(value)
	if err != nil {
		return newParseError(f.FieldName, err)
	}

	buf.Write(data)

	return nil
}

func parseDigits(s string) (int, error) {
	n := 0

	for _, c := range s {
		if c < '0' || c > '9' {
			return 0, fmt.Errorf("%w: %q", ErrInvalidDigit, c)
		}

		n = n*10 + int(c-'0')
	}

	return n, nil
}

// toDisplayString renders a field's decoded value for IsoMsg.String() and
// FieldValueAt: identity for character-oriented encodings, hex for opaque
// Binary/TLV content.
func toDisplayString(enc encoding.Encoder, value string) string {
	switch enc.Name() {
	case "Binary", "TLV":
		return encoding.ToHex([]byte(value))
	default:
		return value
	}
}
