// Package codec implements the dictionary-based zstd framing the server uses
// for its binary frames. The shared dictionary ships embedded as a zstd frame
// itself and is decompressed once per codec, before any game frame can be
// decoded.
package codec

import (
	_ "embed"
	"fmt"

	"github.com/klauspost/compress/zstd"
)

//go:embed dict.zst
var compressedDict []byte

// maxDictSize bounds the decompressed dictionary.
const maxDictSize = 112640

// Codec decodes and encodes frames against the shared dictionary. It is owned
// by a single session and not safe for concurrent use.
type Codec struct {
	dictLen int
	dec     *zstd.Decoder
	enc     *zstd.Encoder
}

// New bootstraps the shared dictionary and prepares the decoder and encoder
// around it.
func New() (*Codec, error) {
	dict, err := decompressDict()
	if err != nil {
		return nil, err
	}

	dec, err := zstd.NewReader(nil,
		zstd.WithDecoderDicts(dict),
		zstd.WithDecoderConcurrency(1),
	)
	if err != nil {
		return nil, fmt.Errorf("init decoder: %w", err)
	}

	enc, err := zstd.NewWriter(nil,
		zstd.WithEncoderDict(dict),
		zstd.WithEncoderConcurrency(1),
	)
	if err != nil {
		dec.Close()
		return nil, fmt.Errorf("init encoder: %w", err)
	}

	return &Codec{dictLen: len(dict), dec: dec, enc: enc}, nil
}

func decompressDict() ([]byte, error) {
	r, err := zstd.NewReader(nil, zstd.WithDecoderConcurrency(1))
	if err != nil {
		return nil, fmt.Errorf("init dictionary reader: %w", err)
	}
	defer r.Close()

	dict, err := r.DecodeAll(compressedDict, make([]byte, 0, maxDictSize))
	if err != nil {
		return nil, fmt.Errorf("decompress dictionary: %w", err)
	}
	return dict, nil
}

// DictLen reports the decompressed dictionary size in bytes.
func (c *Codec) DictLen() int {
	return c.dictLen
}

// Decompress decodes one binary frame. The exact output length is not framed,
// so the destination over-allocates relative to the input.
func (c *Codec) Decompress(frame []byte) ([]byte, error) {
	out, err := c.dec.DecodeAll(frame, make([]byte, 0, 10*len(frame)))
	if err != nil {
		return nil, fmt.Errorf("decompress frame: %w", err)
	}
	return out, nil
}

// Compress encodes data against the shared dictionary. Used to build frames
// in tests and fixtures; the agent itself only ever decodes.
func (c *Codec) Compress(data []byte) []byte {
	return c.enc.EncodeAll(data, make([]byte, 0, len(data)))
}

// Close releases the underlying encoder and decoder.
func (c *Codec) Close() {
	c.dec.Close()
	c.enc.Close()
}
