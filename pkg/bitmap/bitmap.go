// Package bitmap implements the ISO8583 primary/secondary/tertiary presence
// bitmap: a 192-bit map that indicates which fields follow a message's MTI.
package bitmap

import (
	"encoding/binary"
	"encoding/hex"
	"errors"
	"fmt"
)

// ErrInvalidBitmap is returned when raw bitmap bytes are short or malformed.
var ErrInvalidBitmap = errors.New("invalid bitmap data")

const (
	primaryLen   = 8
	secondaryLen = 16
	tertiaryLen  = 24

	primaryCap   = 64
	secondaryCap = 128
	tertiaryCap  = 192
)

// Accessor is the read/write contract for a presence bitmap.
type Accessor interface {
	IsOn(pos int) bool
	SetOn(pos int)
	PresentFields() []int
	HasSecondary() bool
	HasTertiary() bool
	Bytes() []byte
	HexString() string
}

// Bitmap is a 192-position presence map split across three 64-bit words.
// Position 1 set means a secondary bitmap follows; position 65 set means a
// tertiary bitmap follows. Setting any position above 64 or 128 cascades
// the corresponding marker bit on automatically.
type Bitmap struct {
	primary   uint64
	secondary uint64
	tertiary  uint64
}

var _ Accessor = (*Bitmap)(nil)

// New constructs a Bitmap from its three words directly.
func New(primary, secondary, tertiary uint64) *Bitmap {
	return &Bitmap{primary: primary, secondary: secondary, tertiary: tertiary}
}

// FromBytes parses 8, 16, or 24 bytes into a Bitmap.
func FromBytes(data []byte) (*Bitmap, error) {
	if len(data) != primaryLen && len(data) != secondaryLen && len(data) != tertiaryLen {
		return nil, fmt.Errorf("%w: got %d bytes, want 8, 16, or 24", ErrInvalidBitmap, len(data))
	}

	bmp := &Bitmap{primary: binary.BigEndian.Uint64(data[0:8])}
	if len(data) >= secondaryLen {
		bmp.secondary = binary.BigEndian.Uint64(data[8:16])
	}
	if len(data) >= tertiaryLen {
		bmp.tertiary = binary.BigEndian.Uint64(data[16:24])
	}

	return bmp, nil
}

// IsOn reports whether position pos (1..192) is set. Out-of-range positions
// are a programming error and return false rather than panicking, matching
// the reserved-word treatment used for parsing untrusted wire data elsewhere.
func (b *Bitmap) IsOn(pos int) bool {
	word, bit, ok := b.locate(pos)
	if !ok {
		return false
	}

	return *word&bit != 0
}

// SetOn marks position pos present, cascading the secondary/tertiary
// continuation markers (positions 1 and 65) as required by the invariants
// in spec §3: any position in 65..128 implies bit 1 is on; any position in
// 129..192 implies bit 65 is on.
func (b *Bitmap) SetOn(pos int) {
	switch {
	case pos >= 1 && pos <= primaryCap:
		b.primary |= highBit(pos)
	case pos > primaryCap && pos <= secondaryCap:
		b.secondary |= highBit(pos - primaryCap)
		b.primary |= highBit(1)
	case pos > secondaryCap && pos <= tertiaryCap:
		b.tertiary |= highBit(pos - secondaryCap)
		b.primary |= highBit(1)
		b.secondary |= highBit(1)
	}
}

// Unset clears position pos without touching the continuation markers.
func (b *Bitmap) Unset(pos int) {
	word, bit, ok := b.locate(pos)
	if !ok {
		return
	}

	*word &^= bit
}

func (b *Bitmap) locate(pos int) (word *uint64, bit uint64, ok bool) {
	switch {
	case pos >= 1 && pos <= primaryCap:
		return &b.primary, highBit(pos), true
	case pos > primaryCap && pos <= secondaryCap:
		return &b.secondary, highBit(pos - primaryCap), true
	case pos > secondaryCap && pos <= tertiaryCap:
		return &b.tertiary, highBit(pos - secondaryCap), true
	default:
		return nil, 0, false
	}
}

func highBit(posInWord int) uint64 {
	return uint64(1) << (primaryCap - posInWord)
}

// HasSecondary reports whether the secondary bitmap word is present on the
// wire, i.e. bit 1 is set.
func (b *Bitmap) HasSecondary() bool {
	return b.IsOn(1)
}

// HasTertiary reports whether the tertiary bitmap word is present on the
// wire, i.e. bit 65 is set.
func (b *Bitmap) HasTertiary() bool {
	return b.IsOn(65)
}

// PresentFields returns, in ascending order, every position set in the
// bitmap excluding the continuation markers at 1 and 65.
func (b *Bitmap) PresentFields() []int {
	top := primaryCap
	if b.HasTertiary() {
		top = tertiaryCap
	} else if b.HasSecondary() {
		top = secondaryCap
	}

	fields := make([]int, 0, top)
	for pos := 2; pos <= top; pos++ {
		if pos == 65 {
			continue
		}
		if b.IsOn(pos) {
			fields = append(fields, pos)
		}
	}

	return fields
}

// Bytes serializes the bitmap: 8 bytes if no secondary bit is set, 16 if
// secondary but not tertiary, 24 if tertiary is present.
func (b *Bitmap) Bytes() []byte {
	n := primaryLen
	if b.HasSecondary() {
		n = secondaryLen
	}
	if b.HasTertiary() {
		n = tertiaryLen
	}

	buf := make([]byte, n)
	binary.BigEndian.PutUint64(buf[0:8], b.primary)
	if n >= secondaryLen {
		binary.BigEndian.PutUint64(buf[8:16], b.secondary)
	}
	if n >= tertiaryLen {
		binary.BigEndian.PutUint64(buf[16:24], b.tertiary)
	}

	return buf
}

// HexString returns the 48-character lowercase hex rendering of all three
// words, regardless of which are actually present on the wire.
func (b *Bitmap) HexString() string {
	var buf [24]byte
	binary.BigEndian.PutUint64(buf[0:8], b.primary)
	binary.BigEndian.PutUint64(buf[8:16], b.secondary)
	binary.BigEndian.PutUint64(buf[16:24], b.tertiary)

	return hex.EncodeToString(buf[:])
}
