// Package encoding provides the byte-level codecs ISO8583 fields are built
// from: converting between raw wire bytes and the ASCII/EBCDIC/BCD/binary
// representations spec.md §4.1 describes, including the byte-length
// arithmetic that differs between character-oriented and packed encodings.
package encoding

// Encoder converts between a field's logical content (a string of digits or
// characters; one byte per logical character, except that EBCDIC037 decodes
// to UTF-8 text, where a non-ASCII character takes more than one byte) and
// its on-wire byte
// representation. ByteLength lets callers compute how many wire bytes a
// given number of logical characters occupies before reading them, which is
// required for BCD (two digits per byte) and is a no-op for the others.
type Encoder interface {
	// Name identifies the encoder for error messages and spec declarations.
	Name() string

	// ByteLength returns the number of wire bytes needed to hold nChars
	// logical characters under this encoding.
	ByteLength(nChars int) int

	// Decode converts exactly ByteLength(nChars) wire bytes into an
	// nChars-length logical string. It rejects bytes outside the
	// encoding's alphabet.
	Decode(data []byte, nChars int) (string, error)

	// Encode converts a logical string into ByteLength(len(value)) wire
	// bytes. It is the exact inverse of Decode.
	Encode(value string) ([]byte, error)
}
