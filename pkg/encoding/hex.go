package encoding

import "encoding/hex"

// ToHex renders raw binary content as a lowercase hex string, the canonical
// human rendering for Binary-encoded fields (spec §4.3 to_string).
func ToHex(data []byte) string {
	return hex.EncodeToString(data)
}

// FromHex is the inverse of ToHex, used when a caller sets a Binary field's
// value from its hex rendering (spec §4.3 to_raw).
func FromHex(s string) ([]byte, error) {
	return hex.DecodeString(s)
}
