package iso

import (
	"fmt"
	"sort"
	"strings"

	"github.com/hkumarmk/iso8583-switch/pkg/bitmap"
)

// IsoMsg is a parsed (or in-progress) message for a given Spec: the decoded
// value of every field present, keyed by field name, plus the bitmap that
// says which data elements are present.
type IsoMsg struct {
	MsgSpec   *Spec
	Bitmap    *bitmap.Bitmap
	fieldData map[string]string
}

// NewMessage starts an empty message for building up with Set before
// assembling it with Spec.Assemble.
func NewMessage(s *Spec) *IsoMsg {
	return &IsoMsg{
		MsgSpec:   s,
		Bitmap:    bitmap.New(0, 0, 0),
		fieldData: make(map[string]string),
	}
}

// Spec returns the spec this message was parsed or built against.
func (m *IsoMsg) Spec() *Spec { return m.MsgSpec }

// Get returns a field's decoded logical value by name.
func (m *IsoMsg) Get(name string) (string, bool) {
	v, ok := m.fieldData[name]

	return v, ok
}

// Set records a field's decoded logical value and, for data-element fields
// (those with a bitmap position), turns on the corresponding bitmap bit.
func (m *IsoMsg) Set(name, value string) error {
	f, err := m.MsgSpec.FieldByName(name)
	if err != nil {
		return err
	}

	m.fieldData[name] = value

	if f.Position() > 0 {
		if m.Bitmap == nil {
			m.Bitmap = bitmap.New(0, 0, 0)
		}

		m.Bitmap.SetOn(f.Position())
	}

	return nil
}

// FieldValueAt returns the human-displayable value of the data element at
// bitmap position pos.
func (m *IsoMsg) FieldValueAt(pos int) (string, error) {
	bmp, err := m.MsgSpec.bitmapField()
	if err != nil {
		return "", NewIsoError("no bitmap field in spec", err)
	}

	child, ok := bmp.ChildByPosition(pos)
	if !ok {
		return "", NewIsoError(fmt.Sprintf("no field defined at position %d", pos), nil)
	}

	value, ok := m.fieldData[child.Name()]
	if !ok {
		return "", NewIsoError(fmt.Sprintf("no value for field at position %d", pos), nil)
	}

	return child.ToString(value), nil
}

// String renders every present field as a human-readable dump, one field
// per line, sorted by name for deterministic output.
func (m *IsoMsg) String() string {
	names := make([]string, 0, len(m.fieldData))
	for name := range m.fieldData {
		names = append(names, name)
	}

	sort.Strings(names)

	var b strings.Builder

	for _, name := range names {
		f, err := m.MsgSpec.FieldByName(name)
		if err != nil {
			fmt.Fprintf(&b, "\n%-20.40s: %s ", name, m.fieldData[name])

			continue
		}

		fmt.Fprintf(&b, "\n%-20.40s: %s ", name, f.ToString(m.fieldData[name]))
	}

	return b.String()
}
