package iso

import (
	"bytes"
	"fmt"
	"log/slog"
)

// Spec is the definition of a message layout: an ordered top-level field
// list (typically an MTI FixedField followed by the BmpField carrying all
// data elements) shared by every message of that type.
type Spec struct {
	SpecName string
	Fields   []Field
}

// Name returns the spec's identifying name, as used by the registry.
func (s *Spec) Name() string { return s.SpecName }

// FieldByName looks up a field by name among the top-level fields first,
// then falls back to searching the bitmap's children, mirroring how most
// callers think in terms of data-element names rather than frame position.
func (s *Spec) FieldByName(name string) (Field, error) {
	for _, f := range s.Fields {
		if f.Name() == name {
			return f, nil
		}
	}

	bmp, err := s.bitmapField()
	if err != nil {
		return nil, err
	}

	if child, ok := bmp.ChildByName(name); ok {
		return child, nil
	}

	return nil, fmt.Errorf("%w: %q", ErrFieldNotDefined, name)
}

func (s *Spec) bitmapField() (*BmpField, error) {
	for _, f := range s.Fields {
		if bmp, ok := f.(*BmpField); ok {
			return bmp, nil
		}
	}

	return nil, fmt.Errorf("%w: spec %q has no bitmap field", ErrFieldNotDefined, s.SpecName)
}

// Parse decodes data into a new IsoMsg according to the spec's field order.
// Any residual bytes left after the last field are reported as a warning on
// the default slog logger but are not fatal, matching how the field model
// tolerates trailer padding some networks add.
func (s *Spec) Parse(data []byte) (*IsoMsg, error) {
	r := newReader(data)
	msg := &IsoMsg{
		MsgSpec:   s,
		fieldData: make(map[string]string),
	}

	for _, f := range s.Fields {
		if err := f.Parse(r, msg); err != nil {
			return nil, err
		}
	}

	if rest := len(r.remaining()); rest > 0 {
		slog.Warn("residual bytes after parse", slog.String("spec", s.SpecName), slog.Int("bytes", rest))
	}

	return msg, nil
}

// Assemble encodes msg back into wire bytes according to the spec's field
// order.
func (s *Spec) Assemble(msg *IsoMsg) ([]byte, error) {
	var buf bytes.Buffer

	for _, f := range s.Fields {
		if err := f.Assemble(&buf, msg); err != nil {
			return nil, err
		}
	}

	return buf.Bytes(), nil
}
