package iso

import (
	"bytes"
	"testing"

	"github.com/hkumarmk/iso8583-switch/pkg/encoding"
)

func TestFixedField_ParseAssemble(t *testing.T) {
	f := &FixedField{FieldName: "message_type", Len: 4, Encoding: encoding.ASCII}
	msg := &IsoMsg{fieldData: make(map[string]string)}

	r := newReader([]byte("0200residual"))
	if err := f.Parse(r, msg); err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	if got := msg.fieldData["message_type"]; got != "0200" {
		t.Errorf("fieldData[message_type] = %q, want %q", got, "0200")
	}

	if got := string(r.remaining()); got != "residual" {
		t.Errorf("remaining = %q, want %q", got, "residual")
	}

	var buf bytes.Buffer
	if err := f.Assemble(&buf, msg); err != nil {
		t.Fatalf("Assemble failed: %v", err)
	}

	if buf.String() != "0200" {
		t.Errorf("Assemble: got %q, want %q", buf.String(), "0200")
	}
}

func TestFixedField_Parse_ShortRead(t *testing.T) {
	f := &FixedField{FieldName: "message_type", Len: 4, Encoding: encoding.ASCII}
	msg := &IsoMsg{fieldData: make(map[string]string)}

	r := newReader([]byte("02"))
	if err := f.Parse(r, msg); err == nil {
		t.Error("expected error for short read, got nil")
	}
}

func TestFixedField_BCD(t *testing.T) {
	f := &FixedField{FieldName: "stan", Len: 6, Encoding: encoding.BCD}
	msg := &IsoMsg{fieldData: make(map[string]string)}

	var buf bytes.Buffer
	msg.fieldData["stan"] = "123456"
	if err := f.Assemble(&buf, msg); err != nil {
		t.Fatalf("Assemble failed: %v", err)
	}

	r := newReader(buf.Bytes())
	out := &IsoMsg{fieldData: make(map[string]string)}
	if err := f.Parse(r, out); err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	if out.fieldData["stan"] != "123456" {
		t.Errorf("round trip: got %q, want %q", out.fieldData["stan"], "123456")
	}
}

func TestVarField_ParseAssemble(t *testing.T) {
	f := &VarField{
		FieldName:   "pan",
		MaxLen:      19,
		Encoding:    encoding.ASCII,
		LenDigits:   2,
		LenEncoding: encoding.ASCII,
	}
	msg := &IsoMsg{fieldData: make(map[string]string)}

	r := newReader([]byte("164111111111111111rest"))
	if err := f.Parse(r, msg); err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	if got := msg.fieldData["pan"]; got != "4111111111111111" {
		t.Errorf("fieldData[pan] = %q, want %q", got, "4111111111111111")
	}

	if got := string(r.remaining()); got != "rest" {
		t.Errorf("remaining = %q, want %q", got, "rest")
	}

	var buf bytes.Buffer
	if err := f.Assemble(&buf, msg); err != nil {
		t.Fatalf("Assemble failed: %v", err)
	}

	if buf.String() != "164111111111111111" {
		t.Errorf("Assemble: got %q, want %q", buf.String(), "164111111111111111")
	}
}

func TestVarField_ExceedsMaxLength(t *testing.T) {
	f := &VarField{
		FieldName:   "pan",
		MaxLen:      4,
		Encoding:    encoding.ASCII,
		LenDigits:   2,
		LenEncoding: encoding.ASCII,
	}
	msg := &IsoMsg{fieldData: make(map[string]string)}

	r := newReader([]byte("05abcde"))
	if err := f.Parse(r, msg); err == nil {
		t.Error("expected error for length exceeding max, got nil")
	}
}

func TestVarField_Assemble_MissingValue(t *testing.T) {
	f := &VarField{FieldName: "pan", MaxLen: 19, Encoding: encoding.ASCII, LenDigits: 2, LenEncoding: encoding.ASCII}
	msg := &IsoMsg{fieldData: make(map[string]string)}

	var buf bytes.Buffer
	if err := f.Assemble(&buf, msg); err == nil {
		t.Error("expected error for missing field value, got nil")
	}
}
