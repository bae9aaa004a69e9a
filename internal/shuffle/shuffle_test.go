// Copyright 2024 The Blosc Developers. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package shuffle

import (
	"testing"

	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func TestShuffleUnshuffleRoundTrip(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		typesize := rapid.IntRange(1, 16).Draw(rt, "typesize")
		nElements := rapid.IntRange(0, 64).Draw(rt, "nElements")
		src := rapid.SliceOfN(rapid.Byte(), nElements*typesize, nElements*typesize).Draw(rt, "src")

		shuffled, err := Shuffle(src, typesize)
		require.NoError(rt, err)
		require.Len(rt, shuffled, len(src))

		back, err := Unshuffle(shuffled, typesize)
		require.NoError(rt, err)
		require.Equal(rt, src, back)
	})
}

func TestShuffleRejectsNonMultipleLength(t *testing.T) {
	_, err := Shuffle([]byte{1, 2, 3}, 4)
	require.Error(t, err)
}

func TestShuffleRejectsNonPositiveTypeSize(t *testing.T) {
	_, err := Shuffle([]byte{1, 2, 3, 4}, 0)
	require.Error(t, err)
}

func TestBitShuffleUnBitShuffleRoundTrip(t *testing.T) {
	// nElements restricted to multiples of 8 so every bit-plane lands on a
	// whole-byte boundary in the transposed output.
	rapid.Check(t, func(rt *rapid.T) {
		typesize := rapid.IntRange(1, 8).Draw(rt, "typesize")
		nGroups := rapid.IntRange(0, 8).Draw(rt, "nGroups")
		nElements := nGroups * 8
		src := rapid.SliceOfN(rapid.Byte(), nElements*typesize, nElements*typesize).Draw(rt, "src")

		shuffled, err := BitShuffle(src, typesize)
		require.NoError(rt, err)

		back, err := UnBitShuffle(shuffled, typesize)
		require.NoError(rt, err)
		require.Equal(rt, src, back)
	})
}

func TestBitShuffleRejectsNonMultipleLength(t *testing.T) {
	_, err := BitShuffle([]byte{1, 2, 3}, 4)
	require.Error(t, err)
}

func TestByteDeltaUnByteDeltaRoundTrip(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		src := rapid.SliceOfN(rapid.Byte(), 0, 256).Draw(rt, "src")
		delta := ByteDelta(src)
		back := UnByteDelta(delta)
		require.Equal(rt, src, back)
	})
}

func TestByteDeltaEmpty(t *testing.T) {
	require.Nil(t, ByteDelta(nil))
	require.Nil(t, UnByteDelta(nil))
}
