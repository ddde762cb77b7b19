package mli

import (
	"errors"
	"fmt"
)

// state is the per-connection framing state: a connection alternates
// between waiting for enough bytes to decode the length prefix and waiting
// for enough bytes to complete the body it announced.
type state int

const (
	stateReadingPrefix state = iota
	stateReadingBody
)

// Default frame size caps, per spec §5: 64 KiB is generous for any 2-byte
// MLI (whose own prefix can't address more than 64 KiB anyway) and 16 MiB
// bounds the much larger range a 4-byte MLI can claim, so a hostile or
// buggy peer can't make a connection's accumulator grow unbounded.
const (
	defaultMaxBody2 = 64 * 1024
	defaultMaxBody4 = 16 * 1024 * 1024
)

// Accumulator buffers bytes read off a stream connection and yields
// complete message bodies as they become available, hiding the
// prefix/body state machine a TCP reader otherwise has to hand-roll. Feed
// it bytes as they arrive with Push, then drain ready frames with Next.
type Accumulator struct {
	framer  MLI
	buf     []byte
	state   state
	bodyN   int
	maxBody int
}

// Option configures an Accumulator.
type Option func(*Accumulator)

// WithMaxBody overrides the accumulator's maximum accepted body size. A
// frame announcing more than n body bytes is treated as a fatal framing
// error (ErrFrameTooLarge) rather than buffered.
func WithMaxBody(n int) Option {
	return func(a *Accumulator) { a.maxBody = n }
}

// NewAccumulator returns an Accumulator that frames bodies using framer.
// The default maximum body size is 64 KiB for a 2-byte MLI and 16 MiB for
// a 4-byte MLI; override with WithMaxBody.
func NewAccumulator(framer MLI, opts ...Option) *Accumulator {
	a := &Accumulator{framer: framer, maxBody: defaultMaxBody(framer)}

	for _, opt := range opts {
		opt(a)
	}

	return a
}

func defaultMaxBody(framer MLI) int {
	if framer.PrefixLen() >= prefixLen4 {
		return defaultMaxBody4
	}

	return defaultMaxBody2
}

// Push appends newly read bytes to the accumulator's internal buffer.
func (a *Accumulator) Push(data []byte) {
	a.buf = append(a.buf, data...)
}

// Next returns the next complete message body, if one is fully buffered.
// ok is false when more bytes are needed; err is non-nil only for a fatal
// framing error, which means the connection should be closed.
func (a *Accumulator) Next() (body []byte, ok bool, err error) {
	for {
		switch a.state {
		case stateReadingPrefix:
			n, perr := a.framer.Parse(a.buf)
			if perr != nil {
				if errors.Is(perr, ErrShortRead) {
					return nil, false, nil
				}

				return nil, false, perr
			}

			if n > a.maxBody {
				return nil, false, fmt.Errorf("%w: frame of %d bytes exceeds max %d", ErrFrameTooLarge, n, a.maxBody)
			}

			a.buf = a.buf[a.framer.PrefixLen():]
			a.bodyN = n
			a.state = stateReadingBody

		case stateReadingBody:
			if len(a.buf) < a.bodyN {
				return nil, false, nil
			}

			body = a.buf[:a.bodyN]
			a.buf = a.buf[a.bodyN:]
			a.state = stateReadingPrefix

			return body, true, nil
		}
	}
}
