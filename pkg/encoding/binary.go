package encoding

import "fmt"

// binaryEncoder implements Encoder for raw binary content: one wire byte per
// logical "character" and no alphabet restriction. Field content stored
// under this encoding is opaque; human rendering is left to the caller
// (typically hex, via ToHex).
type binaryEncoder struct{}

var (
	_      Encoder = (*binaryEncoder)(nil)
	Binary Encoder = &binaryEncoder{}
)

func (e *binaryEncoder) Name() string { return "Binary" }

func (e *binaryEncoder) ByteLength(nChars int) int { return nChars }

func (e *binaryEncoder) Decode(data []byte, nChars int) (string, error) {
	if len(data) != nChars {
		return "", fmt.Errorf("Binary: expected %d bytes, got %d", nChars, len(data))
	}

	return string(data), nil
}

func (e *binaryEncoder) Encode(value string) ([]byte, error) {
	return []byte(value), nil
}
