package pin_test

import (
	"encoding/hex"
	"testing"

	"github.com/hkumarmk/iso8583-switch/pkg/pin"
)

func TestGeneratePINBlock_ISO0Vector(t *testing.T) {
	key, err := hex.DecodeString("e0f4543f3e2a2c5ffc7e5e5a222e3e4d")
	if err != nil {
		t.Fatalf("bad key fixture: %v", err)
	}

	block, err := pin.GeneratePINBlock("1234", "4111111111111111", key)
	if err != nil {
		t.Fatalf("GeneratePINBlock failed: %v", err)
	}

	got := hex.EncodeToString(block)
	want := "6042012526a9c2e0"

	if got != want {
		t.Errorf("block = %s, want %s", got, want)
	}
}

func TestGeneratePINBlock_ThreeKey(t *testing.T) {
	key, err := hex.DecodeString("e0f4543f3e2a2c5ffc7e5e5a222e3e4de0f4543f3e2a2c5f")
	if err != nil {
		t.Fatalf("bad key fixture: %v", err)
	}

	// A 24-byte key built as k1||k2||k1 should match the 16-byte two-key
	// form, since that is exactly how two-key 3DES is defined.
	block, err := pin.GeneratePINBlock("1234", "4111111111111111", key)
	if err != nil {
		t.Fatalf("GeneratePINBlock failed: %v", err)
	}

	got := hex.EncodeToString(block)
	want := "6042012526a9c2e0"

	if got != want {
		t.Errorf("block = %s, want %s", got, want)
	}
}

func TestGeneratePINBlock_PinTooLong(t *testing.T) {
	key := make([]byte, 16)

	if _, err := pin.GeneratePINBlock("1234567890123", "4111111111111111", key); err == nil {
		t.Error("expected error for a 13-digit PIN, got nil")
	}
}

func TestGeneratePINBlock_PANTooShort(t *testing.T) {
	key := make([]byte, 16)

	if _, err := pin.GeneratePINBlock("1234", "123456789012", key); err == nil {
		t.Error("expected error for a 12-digit PAN, got nil")
	}
}

func TestGeneratePINBlock_InvalidKeyLength(t *testing.T) {
	key := make([]byte, 10)

	if _, err := pin.GeneratePINBlock("1234", "4111111111111111", key); err == nil {
		t.Error("expected error for a 10-byte key, got nil")
	}
}
