// Package mli implements the message length indicator framing that sits in
// front of every ISO8583 message on the wire: a fixed-width binary prefix
// telling the reader how many bytes of message body follow.
package mli

import (
	"encoding/binary"
	"errors"
	"fmt"
)

// ErrShortRead reports that fewer bytes are available than the MLI needs to
// parse — a recoverable condition for a stream reader: wait for more bytes
// and retry, rather than treat the connection as broken.
var ErrShortRead = errors.New("mli: insufficient bytes buffered")

// ErrFrameTooLarge reports a length indicator value the framer considers
// structurally invalid (e.g. an "inclusive" frame claiming to be smaller
// than its own prefix) — unlike ErrShortRead this is fatal to the
// connection, since the frame can never become valid by reading more bytes.
var ErrFrameTooLarge = errors.New("mli: invalid frame length")

// MLI frames a message body with a fixed-width length prefix. Parse reads
// the prefix from the front of data and returns the body length it encodes.
// Create builds the prefix bytes for a body of n bytes.
type MLI interface {
	// PrefixLen is the number of bytes Parse consumes and Create produces.
	PrefixLen() int

	// Parse reads the length prefix from the front of data and returns the
	// number of body bytes that follow it.
	Parse(data []byte) (int, error)

	// Create returns the length prefix bytes for a body of n bytes.
	Create(n int) ([]byte, error)
}

// mli2E is a 2-byte binary prefix exclusive of its own length: the encoded
// value is exactly the body length.
type mli2E struct{}

// mli2I is a 2-byte binary prefix inclusive of its own length: the encoded
// value is the body length plus 2.
type mli2I struct{}

// mli4E is a 4-byte binary prefix exclusive of its own length.
type mli4E struct{}

// mli4I is a 4-byte binary prefix inclusive of its own length.
type mli4I struct{}

// MLI2E, MLI2I, MLI4E, and MLI4I are the four framing variants ISO8583
// servers commonly negotiate: 2 or 4 byte prefixes, each either exclusive
// or inclusive of the prefix's own bytes in the encoded count.
var (
	MLI2E MLI = mli2E{}
	MLI2I MLI = mli2I{}
	MLI4E MLI = mli4E{}
	MLI4I MLI = mli4I{}
)

const (
	prefixLen2 = 2
	prefixLen4 = 4

	maxUint16 = 0xFFFF
)

func (mli2E) PrefixLen() int { return prefixLen2 }

func (mli2E) Parse(data []byte) (int, error) {
	if len(data) < prefixLen2 {
		return 0, fmt.Errorf("%w: need %d bytes, have %d", ErrShortRead, prefixLen2, len(data))
	}

	return int(binary.BigEndian.Uint16(data)), nil
}

func (mli2E) Create(n int) ([]byte, error) {
	if n > maxUint16 {
		return nil, fmt.Errorf("%w: body length %d exceeds 2-byte maximum", ErrFrameTooLarge, n)
	}

	buf := make([]byte, prefixLen2)
	binary.BigEndian.PutUint16(buf, uint16(n)) //nolint:gosec // bounds checked above

	return buf, nil
}

func (mli2I) PrefixLen() int { return prefixLen2 }

func (mli2I) Parse(data []byte) (int, error) {
	if len(data) < prefixLen2 {
		return 0, fmt.Errorf("%w: need %d bytes, have %d", ErrShortRead, prefixLen2, len(data))
	}

	n := int(binary.BigEndian.Uint16(data))
	if n < prefixLen2 {
		return 0, fmt.Errorf("%w: inclusive length %d smaller than prefix", ErrFrameTooLarge, n)
	}

	return n - prefixLen2, nil
}

func (mli2I) Create(n int) ([]byte, error) {
	if n+prefixLen2 > maxUint16 {
		return nil, fmt.Errorf("%w: body length %d exceeds 2-byte maximum", ErrFrameTooLarge, n)
	}

	buf := make([]byte, prefixLen2)
	binary.BigEndian.PutUint16(buf, uint16(n+prefixLen2)) //nolint:gosec // bounds checked above

	return buf, nil
}

func (mli4E) PrefixLen() int { return prefixLen4 }

func (mli4E) Parse(data []byte) (int, error) {
	if len(data) < prefixLen4 {
		return 0, fmt.Errorf("%w: need %d bytes, have %d", ErrShortRead, prefixLen4, len(data))
	}

	return int(binary.BigEndian.Uint32(data)), nil
}

func (mli4E) Create(n int) ([]byte, error) {
	buf := make([]byte, prefixLen4)
	binary.BigEndian.PutUint32(buf, uint32(n)) //nolint:gosec // n is a slice length, never negative

	return buf, nil
}

func (mli4I) PrefixLen() int { return prefixLen4 }

func (mli4I) Parse(data []byte) (int, error) {
	if len(data) < prefixLen4 {
		return 0, fmt.Errorf("%w: need %d bytes, have %d", ErrShortRead, prefixLen4, len(data))
	}

	n := int(binary.BigEndian.Uint32(data))
	if n < prefixLen4 {
		return 0, fmt.Errorf("%w: inclusive length %d smaller than prefix", ErrFrameTooLarge, n)
	}

	return n - prefixLen4, nil
}

func (mli4I) Create(n int) ([]byte, error) {
	buf := make([]byte, prefixLen4)
	binary.BigEndian.PutUint32(buf, uint32(n+prefixLen4)) //nolint:gosec // n is a slice length, never negative

	return buf, nil
}
