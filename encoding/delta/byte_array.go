package delta

import "fmt"

// DecodeByteArray decodes a DELTA_BYTE_ARRAY stream: a DELTA_BINARY_PACKED
// stream of prefix lengths, a DELTA_BINARY_PACKED stream of suffix lengths,
// then the concatenated suffix bytes. Each value is reconstructed by
// sharing the declared prefix length of bytes with the previous value.
func DecodeByteArray(dst [][]byte, src []byte, count int) ([][]byte, error) {
	prefixLengths, n, err := DecodeInt32(src)
	if err != nil {
		return dst, fmt.Errorf("delta: decoding prefix lengths: %w", err)
	}
	if len(prefixLengths) != count {
		return dst, fmt.Errorf("delta: prefix length count %d does not match page value count %d", len(prefixLengths), count)
	}
	pos := n

	suffixLengths, n2, err := DecodeInt32(src[pos:])
	if err != nil {
		return dst, fmt.Errorf("delta: decoding suffix lengths: %w", err)
	}
	if len(suffixLengths) != count {
		return dst, fmt.Errorf("delta: suffix length count %d does not match page value count %d", len(suffixLengths), count)
	}
	pos += n2

	var previous []byte
	for i := 0; i < count; i++ {
		prefixLen := int(prefixLengths[i])
		suffixLen := int(suffixLengths[i])
		if prefixLen < 0 || prefixLen > len(previous) {
			return dst, fmt.Errorf("delta: value %d prefix length %d exceeds previous value", i, prefixLen)
		}
		if suffixLen < 0 || pos+suffixLen > len(src) {
			return dst, fmt.Errorf("delta: value %d suffix length %d exceeds page body", i, suffixLen)
		}
		value := make([]byte, prefixLen+suffixLen)
		copy(value, previous[:prefixLen])
		copy(value[prefixLen:], src[pos:pos+suffixLen])
		pos += suffixLen

		dst = append(dst, value)
		previous = value
	}

	return dst, nil
}
