package registry

import (
	"github.com/hkumarmk/iso8583-switch/pkg/encoding"
	"github.com/hkumarmk/iso8583-switch/pkg/iso"
)

// SampleSpec builds the bundled demonstration spec: a 4-byte ASCII MTI
// followed by a bitmap carrying a handful of common payment data elements.
// It exercises the ASCII, EBCDIC037, TLV and Binary encodings (no field is
// BCD-encoded) and all three bitmap segments, the way original_source's
// SampleSpec did for the primary segment alone.
func SampleSpec() *iso.Spec {
	return &iso.Spec{
		SpecName: "SampleSpec",
		Fields: []iso.Field{
			&iso.FixedField{FieldName: "message_type", Len: 4, Encoding: encoding.ASCII},
			&iso.BmpField{
				FieldName: "bitmap",
				Children: []iso.Field{
					&iso.VarField{
						FieldName:   "pan",
						Pos:         2,
						MaxLen:      19,
						Encoding:    encoding.ASCII,
						LenDigits:   2,
						LenEncoding: encoding.ASCII,
					},
					&iso.FixedField{FieldName: "proc_code", Pos: 3, Len: 6, Encoding: encoding.ASCII},
					&iso.FixedField{FieldName: "stan", Pos: 11, Len: 6, Encoding: encoding.ASCII},
					&iso.FixedField{FieldName: "expiration_date", Pos: 14, Len: 4, Encoding: encoding.ASCII},
					&iso.FixedField{FieldName: "terminal_id", Pos: 41, Len: 8, Encoding: encoding.EBCDIC037},
					&iso.VarField{
						FieldName:   "icc_data",
						Pos:         55,
						MaxLen:      255,
						Encoding:    encoding.TLV,
						LenDigits:   3,
						LenEncoding: encoding.ASCII,
					},
					&iso.FixedField{FieldName: "network_mgmt_code", Pos: 70, Len: 3, Encoding: encoding.ASCII},
					&iso.FixedField{FieldName: "reserved_private", Pos: 160, Len: 8, Encoding: encoding.Binary},
				},
			},
		},
	}
}
