// Copyright 2024 The Blosc Developers. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

// Package codec is the concrete compression backend the cmd/btune-tune
// CLI drives behind the btune.Tuner's abstract Codec enum. The core
// btune package never imports this: it only ever sees (ctime, cbytes)
// pairs reported back through Update. This package exists purely so the
// CLI has real bytes to compress.
package codec

import (
	"bytes"
	"fmt"
	"io"

	"github.com/Blosc/BTune"
	"github.com/klauspost/compress/s2"
	"github.com/klauspost/compress/zlib"
	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
)

// Compressor compresses and decompresses whole buffers, the CLI's stand-in
// for a single blosc2 block codec.
type Compressor interface {
	Compress(src []byte) ([]byte, error)
	Decompress(src []byte, sizeHint int) ([]byte, error)
}

// New returns the Compressor backing c at the given clevel (1-9, codec-
// specific scaling applied internally). The SPEC_FULL domain-stack
// mapping is: ZSTD/ZLIB -> klauspost/compress, LZ4/LZ4HC ->
// github.com/pierrec/lz4/v4, BLOSCLZ -> klauspost/compress/s2 (closest
// ecosystem analogue to a fast byte-oriented LZ codec).
func New(c btune.Codec, clevel int) (Compressor, error) {
	switch c {
	case btune.ZSTD:
		return newZstdCompressor(clevel)
	case btune.ZLIB:
		return newZlibCompressor(clevel)
	case btune.LZ4:
		return &lz4Compressor{level: lz4.Fast}, nil
	case btune.LZ4HC:
		return &lz4Compressor{level: lz4.Level(clampLevel(clevel, 1, 9))}, nil
	case btune.BloscLZ:
		return &s2Compressor{}, nil
	default:
		return nil, fmt.Errorf("codec: unsupported codec %v", c)
	}
}

func clampLevel(v, min, max int) int {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}

type zstdCompressor struct {
	encoder *zstd.Encoder
	decoder *zstd.Decoder
}

func newZstdCompressor(clevel int) (*zstdCompressor, error) {
	level := zstd.EncoderLevelFromZstd(clampLevel(clevel, 1, 22))
	enc, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(level))
	if err != nil {
		return nil, fmt.Errorf("codec: zstd encoder: %w", err)
	}
	dec, err := zstd.NewReader(nil)
	if err != nil {
		return nil, fmt.Errorf("codec: zstd decoder: %w", err)
	}
	return &zstdCompressor{encoder: enc, decoder: dec}, nil
}

func (z *zstdCompressor) Compress(src []byte) ([]byte, error) {
	return z.encoder.EncodeAll(src, nil), nil
}

func (z *zstdCompressor) Decompress(src []byte, sizeHint int) ([]byte, error) {
	return z.decoder.DecodeAll(src, make([]byte, 0, sizeHint))
}

type zlibCompressor struct {
	level int
}

func newZlibCompressor(clevel int) (*zlibCompressor, error) {
	return &zlibCompressor{level: clampLevel(clevel, zlib.BestSpeed, zlib.BestCompression)}, nil
}

func (z *zlibCompressor) Compress(src []byte) ([]byte, error) {
	var buf bytes.Buffer
	w, err := zlib.NewWriterLevel(&buf, z.level)
	if err != nil {
		return nil, fmt.Errorf("codec: zlib writer: %w", err)
	}
	if _, err := w.Write(src); err != nil {
		return nil, fmt.Errorf("codec: zlib write: %w", err)
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("codec: zlib close: %w", err)
	}
	return buf.Bytes(), nil
}

func (z *zlibCompressor) Decompress(src []byte, sizeHint int) ([]byte, error) {
	r, err := zlib.NewReader(bytes.NewReader(src))
	if err != nil {
		return nil, fmt.Errorf("codec: zlib reader: %w", err)
	}
	defer r.Close()
	out := make([]byte, 0, sizeHint)
	buf := bytes.NewBuffer(out)
	if _, err := io.Copy(buf, r); err != nil {
		return nil, fmt.Errorf("codec: zlib read: %w", err)
	}
	return buf.Bytes(), nil
}

type lz4Compressor struct {
	level lz4.CompressionLevel
}

func (l *lz4Compressor) Compress(src []byte) ([]byte, error) {
	var buf bytes.Buffer
	w := lz4.NewWriter(&buf)
	if err := w.Apply(lz4.CompressionLevelOption(l.level)); err != nil {
		return nil, fmt.Errorf("codec: lz4 options: %w", err)
	}
	if _, err := w.Write(src); err != nil {
		return nil, fmt.Errorf("codec: lz4 write: %w", err)
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("codec: lz4 close: %w", err)
	}
	return buf.Bytes(), nil
}

func (l *lz4Compressor) Decompress(src []byte, sizeHint int) ([]byte, error) {
	r := lz4.NewReader(bytes.NewReader(src))
	out := bytes.NewBuffer(make([]byte, 0, sizeHint))
	if _, err := io.Copy(out, r); err != nil {
		return nil, fmt.Errorf("codec: lz4 read: %w", err)
	}
	return out.Bytes(), nil
}

type s2Compressor struct{}

func (s *s2Compressor) Compress(src []byte) ([]byte, error) {
	return s2.Encode(nil, src), nil
}

func (s *s2Compressor) Decompress(src []byte, sizeHint int) ([]byte, error) {
	dst := make([]byte, sizeHint)
	return s2.Decode(dst, src)
}
