package iso_test

import (
	"strings"
	"testing"

	"github.com/hkumarmk/iso8583-switch/pkg/iso"
)

func TestIsoMsg_SetGet(t *testing.T) {
	spec := testSpec()
	msg := iso.NewMessage(spec)

	if err := msg.Set("proc_code", "000000"); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	got, ok := msg.Get("proc_code")
	if !ok || got != "000000" {
		t.Errorf("Get(proc_code) = (%q, %v), want (%q, true)", got, ok, "000000")
	}

	if !msg.Bitmap.IsOn(3) {
		t.Error("expected bit 3 to be turned on by Set")
	}
}

func TestIsoMsg_Set_UnknownField(t *testing.T) {
	spec := testSpec()
	msg := iso.NewMessage(spec)

	if err := msg.Set("nonexistent", "x"); err == nil {
		t.Error("expected error setting an unknown field, got nil")
	}
}

func TestIsoMsg_FieldValueAt(t *testing.T) {
	spec := testSpec()
	msg := iso.NewMessage(spec)
	_ = msg.Set("proc_code", "000000")

	v, err := msg.FieldValueAt(3)
	if err != nil {
		t.Fatalf("FieldValueAt(3) failed: %v", err)
	}
	if v != "000000" {
		t.Errorf("FieldValueAt(3) = %q, want %q", v, "000000")
	}
}

func TestIsoMsg_FieldValueAt_NotPresent(t *testing.T) {
	spec := testSpec()
	msg := iso.NewMessage(spec)

	if _, err := msg.FieldValueAt(3); err == nil {
		t.Error("expected error for absent field value, got nil")
	}
}

func TestIsoMsg_String(t *testing.T) {
	spec := testSpec()
	msg := iso.NewMessage(spec)
	_ = msg.Set("message_type", "0200")
	_ = msg.Set("proc_code", "000000")

	out := msg.String()
	if !strings.Contains(out, "message_type") || !strings.Contains(out, "0200") {
		t.Errorf("String() = %q, expected it to mention message_type and its value", out)
	}
	if !strings.Contains(out, "proc_code") || !strings.Contains(out, "000000") {
		t.Errorf("String() = %q, expected it to mention proc_code and its value", out)
	}
}
