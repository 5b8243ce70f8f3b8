// Package rle implements the RLE/bit-packed hybrid used for repetition and
// definition levels, RLE_DICTIONARY/PLAIN_DICTIONARY index streams, and the
// RLE-encoded boolean values.
//
// Unlike the teacher's streaming (io.Reader) decoder, this package decodes
// directly from an in-memory page body: the specification's pipeline always
// decompresses a page in full before decoding it, so there is no streaming
// concern to carry forward.
package rle

import (
	"encoding/binary"
	"fmt"

	"github.com/honeymaro/hyparquet-go/internal/bits"
)

// bitReader extracts bitWidth-sized, LSB-first packed integers from a byte
// slice, the bit layout parquet's bit-packing and RLE hybrid both use.
type bitReader struct {
	data     []byte
	pos      int
	bitBuf   uint64
	bitCount uint
}

func (r *bitReader) fill() {
	for r.bitCount <= 56 && r.pos < len(r.data) {
		r.bitBuf |= uint64(r.data[r.pos]) << r.bitCount
		r.bitCount += 8
		r.pos++
	}
}

func (r *bitReader) next(bitWidth uint) uint32 {
	r.fill()
	mask := uint64(1)<<bitWidth - 1
	v := r.bitBuf & mask
	r.bitBuf >>= bitWidth
	r.bitCount -= bitWidth
	return uint32(v)
}

// DecodeInt32 decodes exactly count values of the given bitWidth (0..32)
// from the hybrid RLE/bit-packed stream at the start of src, appending them
// to dst. It returns the number of bytes of src consumed.
//
// bitWidth == 0 means every value is implicitly zero (used when a column's
// maximum level is zero, or a dictionary has a single entry); no bytes are
// consumed in that case.
func DecodeInt32(dst []int32, src []byte, bitWidth int, count int) ([]int32, int, error) {
	if bitWidth == 0 {
		for i := 0; i < count; i++ {
			dst = append(dst, 0)
		}
		return dst, 0, nil
	}
	if bitWidth < 0 || bitWidth > 32 {
		return dst, 0, fmt.Errorf("rle: unsupported bit width %d", bitWidth)
	}

	valueWidth := uint(bitWidth)
	valueBytes := bits.ByteCount(valueWidth)
	br := &bitReader{data: src}
	remaining := count

	for remaining > 0 {
		if br.pos >= len(src) && br.bitCount == 0 {
			return dst, br.pos, fmt.Errorf("rle: unexpected end of stream, %d values remaining", remaining)
		}

		header, n, err := readUvarint(src[br.pos:])
		if err != nil {
			return dst, br.pos, fmt.Errorf("rle: reading run header: %w", err)
		}
		br.pos += n
		br.bitBuf, br.bitCount = 0, 0 // run header is always byte-aligned

		if header&1 == 0 {
			// run-length run: header>>1 repetitions of one packed value.
			runLength := int(header >> 1)
			if runLength > remaining {
				runLength = remaining
			}
			if br.pos+valueBytes > len(src) {
				return dst, br.pos, fmt.Errorf("rle: run-length value truncated")
			}
			value := readLittleEndian(src[br.pos:br.pos+valueBytes], valueWidth)
			br.pos += valueBytes
			for i := 0; i < runLength; i++ {
				dst = append(dst, value)
			}
			remaining -= runLength
		} else {
			// bit-packed run: header>>1 groups of 8 values each.
			numGroups := int(header >> 1)
			numValues := numGroups * 8
			packedBytes := bits.ByteCount(valueWidth * 8 * uint(numGroups))
			if br.pos+packedBytes > len(src) {
				return dst, br.pos, fmt.Errorf("rle: bit-packed run truncated")
			}
			sub := &bitReader{data: src[br.pos : br.pos+packedBytes]}
			take := numValues
			if take > remaining {
				take = remaining
			}
			for i := 0; i < take; i++ {
				dst = append(dst, int32(sub.next(valueWidth)))
			}
			br.pos += packedBytes
			remaining -= take
		}
	}

	return dst, br.pos, nil
}

// DecodeBoolean decodes count RLE-encoded boolean values (bit width 1).
func DecodeBoolean(dst []bool, src []byte, count int) ([]bool, int, error) {
	ints, n, err := DecodeInt32(nil, src, 1, count)
	if err != nil {
		return dst, n, err
	}
	for _, v := range ints {
		dst = append(dst, v != 0)
	}
	return dst, n, nil
}

func readLittleEndian(b []byte, bitWidth uint) int32 {
	var buf [4]byte
	copy(buf[:], b)
	return int32(binary.LittleEndian.Uint32(buf[:]))
}

func readUvarint(b []byte) (uint64, int, error) {
	var result uint64
	var shift uint
	for i, c := range b {
		result |= uint64(c&0x7f) << shift
		if c&0x80 == 0 {
			return result, i + 1, nil
		}
		shift += 7
		if shift >= 64 {
			return 0, 0, fmt.Errorf("rle: varint overflow")
		}
	}
	return 0, 0, fmt.Errorf("rle: truncated varint")
}

// DecodeLevels decodes a V1-style length-prefixed hybrid level stream: a
// four-byte little-endian length followed by that many bytes of hybrid
// RLE/bit-packed data. It returns the decoded levels and the total number of
// src bytes consumed, including the length prefix.
func DecodeLevels(src []byte, bitWidth int, count int) ([]int32, int, error) {
	if len(src) < 4 {
		return nil, 0, fmt.Errorf("rle: level stream missing length prefix")
	}
	length := int(binary.LittleEndian.Uint32(src))
	if length < 0 || 4+length > len(src) {
		return nil, 0, fmt.Errorf("rle: level stream length %d exceeds page body", length)
	}
	levels, _, err := DecodeInt32(make([]int32, 0, count), src[4:4+length], bitWidth, count)
	if err != nil {
		return nil, 0, err
	}
	return levels, 4 + length, nil
}

// BitWidthForMaxLevel returns ceil(log2(maxLevel+1)), the bit width the
// format uses to pack a repetition or definition level stream.
func BitWidthForMaxLevel(maxLevel int) int {
	width := 0
	for (1 << width) <= maxLevel {
		width++
	}
	return width
}
