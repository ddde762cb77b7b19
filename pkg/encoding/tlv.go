package encoding

import (
	"fmt"

	"github.com/euicc-go/bertlv"
)

// tlvEncoder implements Encoder for BER-TLV content (ISO8583 field 55 and
// similar EMV/ICC data elements): one wire byte per logical character, like
// Binary, but Decode/Encode additionally validate that the bytes form a
// well-formed sequence of BER-TLV objects using github.com/euicc-go/bertlv.
type tlvEncoder struct{}

var (
	_   Encoder = (*tlvEncoder)(nil)
	TLV Encoder = &tlvEncoder{}
)

func (e *tlvEncoder) Name() string { return "TLV" }

func (e *tlvEncoder) ByteLength(nChars int) int { return nChars }

// Decode validates that data parses as a sequence of BER-TLV objects and
// returns it as opaque content, stored the way Binary fields are.
func (e *tlvEncoder) Decode(data []byte, nChars int) (string, error) {
	if len(data) != nChars {
		return "", fmt.Errorf("TLV: expected %d bytes, got %d", nChars, len(data))
	}

	if err := validateTLVSequence(data); err != nil {
		return "", fmt.Errorf("TLV: decode: %w", err)
	}

	return string(data), nil
}

// Encode validates that value is already a well-formed BER-TLV byte
// sequence and passes it through unchanged.
func (e *tlvEncoder) Encode(value string) ([]byte, error) {
	data := []byte(value)

	if err := validateTLVSequence(data); err != nil {
		return nil, fmt.Errorf("TLV: encode: %w", err)
	}

	return data, nil
}

func validateTLVSequence(data []byte) error {
	read := 0
	for read < len(data) {
		tlv := &bertlv.TLV{}
		if err := tlv.UnmarshalBinary(data[read:]); err != nil {
			return err
		}

		b, err := tlv.MarshalBinary()
		if err != nil {
			return err
		}

		read += len(b)
	}

	return nil
}
