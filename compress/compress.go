// Package compress provides the decompressor dispatch named in the
// specification's Decompressor Dispatch component: a thin table mapping a
// page's declared codec to a decompressor, producing exactly
// uncompressed_page_size bytes or failing with CorruptPage.
//
// Grounded on the teacher's compress package (same Codec shape, same
// sync.Pool-backed decode helper), trimmed to the decode side since this
// module never writes parquet files.
package compress

import (
	"bytes"
	"fmt"
	"io"
	"sync"

	"github.com/honeymaro/hyparquet-go/format"
)

// Reader is implemented by the stdlib/third-party decompression readers
// this package adapts.
type Reader interface {
	io.ReadCloser
	Reset(io.Reader) error
}

// Codec decompresses pages compressed with one parquet CompressionCodec.
//
// Codec instances must be safe to use concurrently from multiple goroutines.
type Codec interface {
	fmt.Stringer

	CompressionCodec() format.CompressionCodec

	// Decode writes the uncompressed version of src to dst and returns it,
	// reallocating dst if its capacity is too small.
	Decode(dst, src []byte) ([]byte, error)
}

// Decompressor is an embeddable helper implementing the pooled-reader Decode
// pattern shared by every codec in this package's subpackages.
type Decompressor struct {
	readers sync.Pool
}

func (d *Decompressor) Decode(dst, src []byte, newReader func(io.Reader) (Reader, error)) ([]byte, error) {
	input := bytes.NewReader(src)

	r, _ := d.readers.Get().(Reader)
	if r != nil {
		if err := r.Reset(input); err != nil {
			return dst, err
		}
	} else {
		var err error
		if r, err = newReader(input); err != nil {
			return dst, err
		}
	}
	defer func() {
		if err := r.Reset(nil); err == nil {
			d.readers.Put(r)
		}
	}()

	output := bytes.NewBuffer(dst[:0])
	if _, err := output.ReadFrom(r); err != nil {
		return output.Bytes(), err
	}
	return output.Bytes(), nil
}

// Table dispatches by format.CompressionCodec to a configured Codec.
// Request.Compressors (see the root package's Request type) lets callers
// override or extend this table; the root package's defaultCompressors
// builds the defaults used when a request leaves it unset.
type Table map[format.CompressionCodec]Codec

// Decode decompresses src (a page's compressed body) using the codec
// registered for the given CompressionCodec, verifying the result is
// exactly uncompressedSize bytes.
func (t Table) Decode(codec format.CompressionCodec, dst, src []byte, uncompressedSize int) ([]byte, error) {
	c, ok := t[codec]
	if !ok {
		return nil, fmt.Errorf("compress: no decompressor configured for codec %s", codec)
	}
	if cap(dst) < uncompressedSize {
		dst = make([]byte, uncompressedSize)
	} else {
		dst = dst[:uncompressedSize]
	}
	out, err := c.Decode(dst, src)
	if err != nil {
		return nil, fmt.Errorf("compress: decoding %s page: %w", codec, err)
	}
	if len(out) != uncompressedSize {
		return nil, fmt.Errorf("compress: %s page decompressed to %d bytes, header declared %d", codec, len(out), uncompressedSize)
	}
	return out, nil
}
