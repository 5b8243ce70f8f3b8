package delta

import "fmt"

// DecodeLengthByteArray decodes a DELTA_LENGTH_BYTE_ARRAY stream: a
// DELTA_BINARY_PACKED stream of lengths followed by the concatenated value
// bytes. count is the number of values the page header declares.
func DecodeLengthByteArray(dst [][]byte, src []byte, count int) ([][]byte, error) {
	lengths, n, err := DecodeInt32(src)
	if err != nil {
		return dst, fmt.Errorf("delta: decoding lengths: %w", err)
	}
	if len(lengths) != count {
		return dst, fmt.Errorf("delta: length count %d does not match page value count %d", len(lengths), count)
	}

	pos := n
	for i, length := range lengths {
		if length < 0 || pos+int(length) > len(src) {
			return dst, fmt.Errorf("delta: value %d length %d exceeds page body", i, length)
		}
		dst = append(dst, src[pos:pos+int(length)])
		pos += int(length)
	}
	return dst, nil
}
