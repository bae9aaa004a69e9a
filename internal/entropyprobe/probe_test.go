// Copyright 2024 The Blosc Developers. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package entropyprobe

import (
	"testing"

	"github.com/Blosc/BTune/internal"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func TestGetCratioPositiveOnAnyNonEmptyBuffer(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		buf := rapid.SliceOfN(rapid.Byte(), 1, 8192).Draw(t, "buf")
		ratio := GetCratio(buf, 3, 3)
		require.Greater(t, ratio, 0.0)
	})
}

func TestGetCratioEmptyBuffer(t *testing.T) {
	require.Equal(t, 0.0, GetCratio(nil, 3, 3))
}

func TestGetCratioRepeatingBytesCompressesAtLeastTwofold(t *testing.T) {
	// A short-period repeating buffer should compress well under this
	// estimator.
	buf := internal.GenRepeatingChunk(4096, 3)
	ratio := GetCratio(buf, 3, 3)
	require.GreaterOrEqual(t, ratio, 2.0)
}

func TestGetCratioAllZerosIsHighlyCompressible(t *testing.T) {
	small := GetCratio(internal.GenZeroChunk(256), 3, 3)
	large := GetCratio(internal.GenZeroChunk(4096), 3, 3)
	require.Greater(t, small, 0.0)
	require.Greater(t, large, small)
}

func TestEstimatedCBytesNeverExceedsInputLen(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		inputLen := rapid.IntRange(1, 1<<20).Draw(t, "inputLen")
		cratio := rapid.Float64Range(0, 10).Draw(t, "cratio")
		cbytes := EstimatedCBytes(inputLen, cratio)
		require.LessOrEqual(t, cbytes, inputLen)
	})
}

func TestEstimatedCBytesZeroRatioFallsBackToInputLen(t *testing.T) {
	require.Equal(t, 100, EstimatedCBytes(100, 0))
}
