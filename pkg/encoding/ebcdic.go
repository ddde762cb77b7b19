package encoding

import (
	"fmt"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"
)

var (
	_ Encoder = (*ebcdicEncoder)(nil)

	//nolint:gochecknoglobals // EBCDIC037 is stateless and safe for concurrent use
	// EBCDIC037 is the Encoder for IBM code page 037, the EBCDIC variant most
	// host-originated ISO8583 traffic (and mainframe-adjacent switches) use.
	EBCDIC037 Encoder = &ebcdicEncoder{}
)

// ebcdicEncoder implements Encoder for IBM-037 EBCDIC, one wire byte per
// logical character, via golang.org/x/text's code page tables.
type ebcdicEncoder struct{}

func (e *ebcdicEncoder) Name() string { return "EBCDIC037" }

func (e *ebcdicEncoder) ByteLength(nChars int) int { return nChars }

func (e *ebcdicEncoder) Decode(data []byte, nChars int) (string, error) {
	if len(data) != nChars {
		return "", fmt.Errorf("EBCDIC037: expected %d bytes, got %d", nChars, len(data))
	}

	out, _, err := transform.Bytes(charmap.CodePage037.NewDecoder(), data)
	if err != nil {
		return "", fmt.Errorf("EBCDIC037: decode: %w", err)
	}

	return string(out), nil
}

func (e *ebcdicEncoder) Encode(value string) ([]byte, error) {
	out, _, err := transform.Bytes(charmap.CodePage037.NewEncoder(), []byte(value))
	if err != nil {
		return nil, fmt.Errorf("EBCDIC037: encode: %w", err)
	}

	return out, nil
}
