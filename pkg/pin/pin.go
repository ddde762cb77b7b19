// Package pin generates ISO 9564 format-0 PIN blocks, the clear-PIN/PAN
// combination step that precedes encryption under a zone PIN key in most
// card-present payment flows.
package pin

import (
	"crypto/des"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
)

const (
	blockHexLen = 16 // 8 bytes, rendered as 16 hex characters
	blockBytes  = 8
	panDigits   = 12 // rightmost 12 PAN digits excluding the check digit
	tripleKeyLen = 24
	twoKeyLen    = 16
)

var (
	// ErrPinTooLong reports a PIN that is empty or has more than 12 digits,
	// the most a format 0 block accepts here.
	ErrPinTooLong = errors.New("pin: PIN too long for format 0 block")
	// ErrPANTooShort reports a PAN with fewer than 13 digits, the minimum
	// format 0 needs to take its rightmost-12-excluding-check-digit slice.
	ErrPANTooShort = errors.New("pin: PAN too short for format 0 block")
	// ErrInvalidKeyLength reports a key that is neither a 16-byte two-key
	// nor a 24-byte three-key 3DES key.
	ErrInvalidKeyLength = errors.New("pin: key must be 16 (2-key) or 24 (3-key) bytes")
)

const maxPinDigits = 12

// Option configures GeneratePINBlock.
type Option func(*config)

type config struct {
	rand io.Reader
}

// WithRandSource overrides the padding randomness source. The default uses
// a fixed 0xF fill rather than crypto/rand, matching deployed switches that
// pad deterministically so PIN block generation is reproducible in tests;
// pass crypto/rand (or any io.Reader) here for the random-pad variant ISO
// 9564 also permits.
func WithRandSource(r io.Reader) Option {
	return func(c *config) { c.rand = r }
}

// GeneratePINBlock builds an ISO 9564 format-0 PIN block for clearPIN under
// pan, encrypted with key (a 16-byte two-key or 24-byte three-key 3DES
// key). The padding nibbles after the PIN digits default to 0xF; pass
// WithRandSource(crypto/rand.Reader) for randomized padding.
func GeneratePINBlock(clearPIN, pan string, key []byte, opts ...Option) ([]byte, error) {
	if len(clearPIN) == 0 || len(clearPIN) > maxPinDigits {
		return nil, fmt.Errorf("%w: got %d digits", ErrPinTooLong, len(clearPIN))
	}

	if len(pan) < 13 {
		return nil, fmt.Errorf("%w: got %d digits", ErrPANTooShort, len(pan))
	}

	cfg := &config{rand: fixedPadReader{}}
	for _, o := range opts {
		o(cfg)
	}

	block1, err := pinField(clearPIN, cfg.rand)
	if err != nil {
		return nil, fmt.Errorf("pin: building PIN field: %w", err)
	}

	block2 := panField(pan)

	xored := make([]byte, blockBytes)
	for i := range xored {
		xored[i] = block1[i] ^ block2[i]
	}

	cipherKey, err := expandKey(key)
	if err != nil {
		return nil, err
	}

	block, err := des.NewTripleDESCipher(cipherKey)
	if err != nil {
		return nil, fmt.Errorf("pin: %w", err)
	}

	out := make([]byte, blockBytes)
	block.Encrypt(out, xored)

	return out, nil
}

// pinField builds the "0" + len(pin) + pin hex string, padded to 16 hex
// characters using padSrc for the trailing nibbles.
func pinField(clearPIN string, padSrc io.Reader) ([]byte, error) {
	hexStr := fmt.Sprintf("0%X%s", len(clearPIN), clearPIN)

	padNibbles := blockHexLen - len(hexStr)
	if padNibbles > 0 {
		padBytes := make([]byte, (padNibbles+1)/2)
		if _, err := io.ReadFull(padSrc, padBytes); err != nil {
			return nil, err
		}

		pad := hex.EncodeToString(padBytes)[:padNibbles]
		hexStr += pad
	}

	return hex.DecodeString(hexStr)
}

// panField builds the "0000" + rightmost-12-digits-excluding-check-digit
// hex string.
func panField(pan string) []byte {
	start := len(pan) - 1 - panDigits
	digits := pan[start : start+panDigits]

	data, _ := hex.DecodeString("0000" + digits)

	return data
}

// expandKey normalizes a 16-byte two-key 3DES key into the 24-byte form
// crypto/des expects (k1 || k2 || k1), and passes a 24-byte
// three-key through unchanged.
func expandKey(key []byte) ([]byte, error) {
	switch len(key) {
	case tripleKeyLen:
		return key, nil
	case twoKeyLen:
		out := make([]byte, tripleKeyLen)
		copy(out, key)
		copy(out[twoKeyLen:], key[:twoKeyLen/2])

		return out, nil
	default:
		return nil, fmt.Errorf("%w: got %d", ErrInvalidKeyLength, len(key))
	}
}

// fixedPadReader fills reads with 0xFF bytes, producing the deterministic
// 0xF-nibble padding ISO 9564 format 0 commonly uses in practice.
type fixedPadReader struct{}

func (fixedPadReader) Read(p []byte) (int, error) {
	for i := range p {
		p[i] = 0xFF
	}

	return len(p), nil
}
