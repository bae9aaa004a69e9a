// Copyright 2024 The Blosc Developers. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package main

import (
	"testing"

	"github.com/Blosc/BTune"
	"github.com/Blosc/BTune/internal"
	"github.com/stretchr/testify/require"
)

func TestChunkBufferSplitsEvenlyWithRemainder(t *testing.T) {
	buf := make([]byte, 100)
	chunks := chunkBuffer(buf, 32)
	require.Len(t, chunks, 4)
	require.Len(t, chunks[0], 32)
	require.Len(t, chunks[3], 4) // 100 = 3*32 + 4
}

func TestChunkBufferEmpty(t *testing.T) {
	require.Nil(t, chunkBuffer(nil, 32))
}

func TestCompressChunkAppliesFilterThenCodec(t *testing.T) {
	chunk := internal.GenRepeatingChunk(4096, 13)
	p := btune.Params{Codec: btune.LZ4, Filter: btune.Shuffle, Clevel: 3}
	cbytes, ctime, err := compressChunk(chunk, p, 4)
	require.NoError(t, err)
	require.Greater(t, cbytes, 0)
	require.GreaterOrEqual(t, ctime, 0.0)
}

func TestCompressChunkRandomDataNeverCompressesBetterThanRepeating(t *testing.T) {
	p := btune.Params{Codec: btune.ZSTD, Filter: btune.NoFilter, Clevel: 5}
	repeating, _, err := compressChunk(internal.GenRepeatingChunk(8192, 5), p, 4)
	require.NoError(t, err)
	random, _, err := compressChunk(internal.GenPredictableRandomData(8192), p, 4)
	require.NoError(t, err)
	require.Less(t, repeating, random)
}

func TestRunTuningProducesAFinalParamsSet(t *testing.T) {
	cfg := btune.DefaultConfig()
	var raw [][]byte
	for i := 0; i < 6; i++ {
		raw = append(raw, internal.GenRepeatingChunk(8192, 7+i))
	}

	var seen int
	best, err := runTuning(cfg, 4, 4, raw, func(r chunkResult) {
		seen++
		require.GreaterOrEqual(t, r.cbytes, 0)
	})
	require.NoError(t, err)
	require.Equal(t, len(raw), seen)
	require.NotZero(t, best.BlockSize)
}

func TestProbeChunkEstimatesSize(t *testing.T) {
	chunk := internal.FirstN(4096, internal.GenPredictableRandomData(8192))
	cbytes, err := probeChunk(chunk)
	require.NoError(t, err)
	require.Greater(t, cbytes, 0)
	require.LessOrEqual(t, cbytes, len(chunk))
}
