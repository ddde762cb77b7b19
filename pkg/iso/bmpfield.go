package iso

import (
	"bytes"
	"fmt"

	"github.com/hkumarmk/iso8583-switch/pkg/bitmap"
)

// bmpFieldName is the conventional name of the bitmap field. Parse stores
// the raw bitmap bytes under the BmpField's own FieldName, and
// Spec.FieldByName finds the bitmap field by its type, not by this name.
const bmpFieldName = "bitmap"

// BmpField is the composite bitmap field: it owns the 1-192 bit presence
// map and the child Fields that occupy bitmap positions 2-192 (position 1
// and 65 are bitmap continuation bits, never data fields).
type BmpField struct {
	FieldName string
	Pos       int
	Children  []Field
}

var _ Field = (*BmpField)(nil)

func (f *BmpField) Name() string  { return f.FieldName }
func (f *BmpField) Position() int { return f.Pos }

func (f *BmpField) ToString(v string) string {
	return fmt.Sprintf("%x", v)
}

// ChildByPosition returns the child field occupying bitmap position pos.
func (f *BmpField) ChildByPosition(pos int) (Field, bool) {
	for _, c := range f.Children {
		if c.Position() == pos {
			return c, true
		}
	}

	return nil, false
}

// ChildByName returns the child field with the given name.
func (f *BmpField) ChildByName(name string) (Field, bool) {
	for _, c := range f.Children {
		if c.Name() == name {
			return c, true
		}
	}

	return nil, false
}

func (f *BmpField) Parse(r *reader, msg *IsoMsg) error {
	primary, err := r.take(bitmapWordBytes)
	if err != nil {
		return newParseError(f.FieldName, fmt.Errorf("primary bitmap: %w", err))
	}

	all := append([]byte{}, primary...)

	if primary[0]&0x80 == 0x80 {
		secondary, err := r.take(bitmapWordBytes)
		if err != nil {
			return newParseError(f.FieldName, fmt.Errorf("secondary bitmap: %w", err))
		}

		all = append(all, secondary...)

		if secondary[0]&0x80 == 0x80 {
			tertiary, err := r.take(bitmapWordBytes)
			if err != nil {
				return newParseError(f.FieldName, fmt.Errorf("tertiary bitmap: %w", err))
			}

			all = append(all, tertiary...)
		}
	}

	bmp, err := bitmap.FromBytes(all)
	if err != nil {
		return newParseError(f.FieldName, err)
	}

	msg.Bitmap = bmp
	msg.fieldData[f.FieldName] = string(all)

	for _, pos := range bmp.PresentFields() {
		child, ok := f.ChildByPosition(pos)
		if !ok {
			return newParseError(f.FieldName, fmt.Errorf("%w: position %d", ErrFieldNotDefined, pos))
		}

		if err := child.Parse(r, msg); err != nil {
			return err
		}
	}

	return nil
}

func (f *BmpField) Assemble(buf *bytes.Buffer, msg *IsoMsg) error {
	if msg.Bitmap == nil {
		return newParseError(f.FieldName, fmt.Errorf("%w: no bitmap set on message", ErrFieldDataMissing))
	}

	buf.Write(msg.Bitmap.Bytes())

	for _, pos := range msg.Bitmap.PresentFields() {
		child, ok := f.ChildByPosition(pos)
		if !ok {
			return newParseError(f.FieldName, fmt.Errorf("%w: position %d", ErrFieldNotDefined, pos))
		}

		if err := child.Assemble(buf, msg); err != nil {
			return err
		}
	}

	return nil
}

const bitmapWordBytes = 8
