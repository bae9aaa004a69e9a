// Copyright 2024 The Blosc Developers. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package btune

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestIsHCR(t *testing.T) {
	require.False(t, isHCR(BloscLZ, BitShuffle))
	require.False(t, isHCR(BloscLZ, Shuffle))
	require.True(t, isHCR(LZ4, BitShuffle))
	require.False(t, isHCR(LZ4, Shuffle))
	require.True(t, isHCR(LZ4HC, NoFilter))
	require.True(t, isHCR(ZLIB, Shuffle))
	require.True(t, isHCR(ZSTD, BitShuffle))
}

func TestComputeBlockSizeSourceSmallerThanTypeSize(t *testing.T) {
	bs := computeBlockSize(BloscLZ, Shuffle, 5, 8, 4, 0)
	require.Equal(t, int32(1), bs)
}

func TestComputeBlockSizeHonoursUserHint(t *testing.T) {
	// A non-zero userBlockSize is a forced hint, clamped to at least
	// minBufferSize and never exceeding sourceSize. clevel 0 keeps the
	// clevel>0 enlargement to at least 64 KiB out of the picture.
	bs := computeBlockSize(BloscLZ, Shuffle, 0, 4, 1<<20, 256)
	require.Equal(t, int32(256), bs)

	bs = computeBlockSize(BloscLZ, Shuffle, 0, 4, 1<<20, 32)
	require.Equal(t, int32(minBufferSize), bs)
}

func TestComputeBlockSizeNeverExceedsSourceSize(t *testing.T) {
	bs := computeBlockSize(ZSTD, Shuffle, 9, 8, 1000, 0)
	require.LessOrEqual(t, bs, int32(1000))
}

func TestComputeBlockSizeHCRDoublesAtL1(t *testing.T) {
	// clevel 0: above that, both sizes are lifted to the same 64 KiB floor.
	nonHCR := computeBlockSize(BloscLZ, Shuffle, 0, 1, L1*4, 0)
	hcr := computeBlockSize(ZSTD, Shuffle, 0, 1, L1*4, 0)
	require.Greater(t, hcr, nonHCR)
}

func TestComputeBlockSizeIsMultipleOfTypeSize(t *testing.T) {
	bs := computeBlockSize(ZLIB, Shuffle, 6, 7, 1<<20, 0)
	require.Zero(t, bs%7)
}

func TestComputeBlockSizeClevelZeroNeverRescaledAboveMax(t *testing.T) {
	bs := computeBlockSize(BloscLZ, NoFilter, 0, 4, 1<<20, 0)
	require.LessOrEqual(t, bs, int32(1<<20))
	require.Greater(t, bs, int32(0))
}
