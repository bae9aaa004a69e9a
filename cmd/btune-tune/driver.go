// Copyright 2024 The Blosc Developers. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package main

import (
	"fmt"
	"time"

	"github.com/Blosc/BTune"
	"github.com/Blosc/BTune/internal/codec"
	"github.com/Blosc/BTune/internal/shuffle"
)

// chunkResult is reported to the caller of runTuning once per chunk, for
// progress bars (tune) or tabular tracing (trace).
type chunkResult struct {
	index     int
	rawBytes  int
	cbytes    int
	ctime     float64
	candidate btune.Params
}

// runTuning drives the Init/NextBlockSize/NextCparams/compress/Update loop
// over chunks, exactly the per-context callback sequence the core package
// expects. onChunk is called after every Update. The returned Params are
// the ones last published onto the context, i.e. the candidate tried on
// the final chunk; the Tuner's internal best is not read back.
func runTuning(cfg btune.Config, typeSize int32, nthreads int, chunks [][]byte, onChunk func(chunkResult)) (btune.Params, error) {
	ctx := newMemContext(typeSize, nthreads)
	tuner := btune.Init(cfg, ctx)
	defer tuner.Free()

	for i, chunk := range chunks {
		ctx.sourceSize = int32(len(chunk))

		tuner.NextBlockSize(ctx)
		candidate := tuner.NextCparams(chunk, ctx)

		cbytes, ctime, err := compressChunk(chunk, candidate, typeSize)
		if err != nil {
			return btune.Params{}, fmt.Errorf("btune-tune: compressing chunk %d: %w", i, err)
		}
		ctx.destSize = int32(cbytes)

		tuner.Update(ctx, ctime)

		onChunk(chunkResult{
			index:     i,
			rawBytes:  len(chunk),
			cbytes:    cbytes,
			ctime:     ctime,
			candidate: candidate,
		})
	}

	return ctx.cparams, nil
}

// compressChunk applies the candidate's filter then codec to chunk,
// returning the compressed size and elapsed wall-clock time — the CLI's
// stand-in for the real compressor the core btune package never imports.
func compressChunk(chunk []byte, p btune.Params, typeSize int32) (cbytes int, ctime float64, err error) {
	start := time.Now()

	src := chunk
	switch p.Filter {
	case btune.Shuffle:
		src, err = shuffle.Shuffle(chunk, int(typeSize))
	case btune.BitShuffle:
		src, err = shuffle.BitShuffle(chunk, int(typeSize))
	case btune.ByteDelta:
		src = shuffle.ByteDelta(chunk)
	}
	if err != nil {
		return 0, 0, fmt.Errorf("filter: %w", err)
	}

	comp, err := codec.New(p.Codec, p.Clevel)
	if err != nil {
		return 0, 0, err
	}
	out, err := comp.Compress(src)
	if err != nil {
		return 0, 0, fmt.Errorf("compress: %w", err)
	}

	return len(out), time.Since(start).Seconds(), nil
}

// probeChunk runs only the entropy-probe codec registry path (btune-tune
// probe), bypassing the Tuner entirely.
func probeChunk(chunk []byte) (int, error) {
	return codec.ProbeEstimate(chunk)
}

// chunkBuffer splits buf into chunkSize-sized pieces (the final one may be
// shorter).
func chunkBuffer(buf []byte, chunkSize int) [][]byte {
	var chunks [][]byte
	for off := 0; off < len(buf); off += chunkSize {
		end := off + chunkSize
		if end > len(buf) {
			end = len(buf)
		}
		chunks = append(chunks, buf[off:end])
	}
	return chunks
}
