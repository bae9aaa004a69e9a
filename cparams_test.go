// Copyright 2024 The Blosc Developers. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package btune

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// fakeContext is a minimal Context (and, via SetNThreadsDecomp,
// DecompContext) implementation for exercising setCparams/
// nextBlockSizeDelta without any real compression backend.
type fakeContext struct {
	typeSize, sourceSize int32
	nThreadsComp         int
	nThreadsDecomp       int
	blockSize            int32
	params               Params
	destSize             int32
}

func (f *fakeContext) TypeSize() int32         { return f.typeSize }
func (f *fakeContext) SourceSize() int32       { return f.sourceSize }
func (f *fakeContext) NThreadsComp() int       { return f.nThreadsComp }
func (f *fakeContext) NThreadsDecomp() int     { return f.nThreadsDecomp }
func (f *fakeContext) SetNThreadsDecomp(n int) { f.nThreadsDecomp = n }
func (f *fakeContext) SetCParams(p Params)     { f.params = p }
func (f *fakeContext) SetBlockSize(bs int32)   { f.blockSize = bs }
func (f *fakeContext) BlockSize() int32        { return f.blockSize }
func (f *fakeContext) DestSize() int32         { return f.destSize }

func TestNextCodecFilterForcesAlwaysSplitForBloscLZ(t *testing.T) {
	tu := &Tuner{
		codecs:           []Codec{BloscLZ},
		filterSplitLimit: NumFilters * NumSplits,
	}
	tu.aux.Codec = BloscLZ
	tu.nextCodecFilter()
	require.Equal(t, AlwaysSplit, tu.aux.SplitMode)
}

func TestNextCodecFilterSplitModeCyclesForOtherCodecs(t *testing.T) {
	tu := &Tuner{
		codecs:           []Codec{ZSTD},
		filterSplitLimit: NumFilters * NumSplits,
		auxIndex:         0,
	}
	tu.nextCodecFilter()
	require.Equal(t, NeverSplit, tu.aux.SplitMode)
	tu.nextCodecFilter()
	require.Equal(t, AlwaysSplit, tu.aux.SplitMode)
}

func TestNextCodecFilterStartsSlowCodecsAtClevel3(t *testing.T) {
	tu := &Tuner{
		config:           Config{PerfMode: PerfBalanced},
		codecs:           []Codec{ZSTD},
		filterSplitLimit: NumFilters * NumSplits,
		nHards:           0,
	}
	tu.nextCodecFilter()
	require.Equal(t, 3, tu.aux.Clevel)
}

func TestNextShuffleSizeIncreasingCapsAtMax(t *testing.T) {
	tu := &Tuner{}
	tu.aux.IncreasingShuffle = true
	tu.aux.ShuffleSize = MaxShuffle
	tu.nextShuffleSize()
	require.Equal(t, int32(MaxShuffle), tu.aux.ShuffleSize) // already at ceiling, unchanged

	tu.aux.ShuffleSize = 4
	tu.nextShuffleSize()
	require.Equal(t, int32(8), tu.aux.ShuffleSize)
}

func TestNextShuffleSizeDecreasingFloorsAtFilterMinimum(t *testing.T) {
	tu := &Tuner{}
	tu.aux.IncreasingShuffle = false
	tu.aux.Filter = Shuffle
	tu.aux.ShuffleSize = MinShuffle
	tu.nextShuffleSize()
	require.Equal(t, int32(MinShuffle), tu.aux.ShuffleSize) // floored, unchanged

	tu.aux.Filter = BitShuffle
	tu.aux.ShuffleSize = 4
	tu.nextShuffleSize()
	require.Equal(t, int32(2), tu.aux.ShuffleSize)
}

func TestNextThreadsRespectsMaxAndMin(t *testing.T) {
	tu := &Tuner{maxThreads: 4, threadsForComp: true}
	tu.aux.IncreasingNThreads = true
	tu.aux.NThreadsComp = 4
	tu.nextThreads()
	require.Equal(t, 4, tu.aux.NThreadsComp) // already at max

	tu.aux.NThreadsComp = 2
	tu.nextThreads()
	require.Equal(t, 3, tu.aux.NThreadsComp)

	tu.threadsForComp = false
	tu.aux.IncreasingNThreads = false
	tu.aux.NThreadsDecomp = MinThreads
	tu.nextThreads()
	require.Equal(t, MinThreads, tu.aux.NThreadsDecomp)
}

func TestNextClevelZstdLevel9Clamped(t *testing.T) {
	tu := &Tuner{stepSize: 1}
	tu.aux.IncreasingClevel = true
	tu.aux.Clevel = 8
	tu.aux.Codec = ZSTD
	tu.nextClevel()
	require.Equal(t, 8, tu.aux.Clevel) // 9 is forced back down to 8
}

func TestNextClevelDecreasingNeverGoesBelowStepSize(t *testing.T) {
	tu := &Tuner{stepSize: 2}
	tu.aux.IncreasingClevel = false
	tu.aux.Clevel = 2
	tu.nextClevel()
	require.Equal(t, 2, tu.aux.Clevel) // Clevel(2) not > stepSize(2), unchanged
}

func TestNextClevelHardReadaptResetsBlockSize(t *testing.T) {
	tu := &Tuner{stepSize: 1, readaptFrom: ReadaptHard}
	tu.aux.BlockSize = 4096
	tu.aux.IncreasingClevel = true
	tu.nextClevel()
	require.Zero(t, tu.aux.BlockSize)
}

func TestNextBlockSizeDeltaIncreasingRespectsSourceSize(t *testing.T) {
	tu := &Tuner{stepSize: 1}
	ctx := &fakeContext{sourceSize: 8192}
	tu.aux.IncreasingBlock = true
	tu.aux.BlockSize = 4096
	tu.nextBlockSizeDelta(ctx)
	require.Equal(t, int32(8192), tu.aux.BlockSize)

	// Doubling again would exceed sourceSize, so it stays put.
	tu.nextBlockSizeDelta(ctx)
	require.Equal(t, int32(8192), tu.aux.BlockSize)
}

func TestNextBlockSizeDeltaDecreasingStopsBelowFloor(t *testing.T) {
	tu := &Tuner{stepSize: 1}
	ctx := &fakeContext{sourceSize: 1 << 20}
	tu.aux.IncreasingBlock = false
	// At MinBlock, one more halving is still allowed; hasEndedBlocksize is
	// what stops the BLOCKSIZE axis, not this guard.
	tu.aux.BlockSize = MinBlock
	tu.nextBlockSizeDelta(ctx)
	require.Equal(t, int32(MinBlock/2), tu.aux.BlockSize)

	// Once strictly below the (stepFactor-scaled) floor, it no longer moves.
	tu.aux.BlockSize = MinBlock/2 - 1
	tu.nextBlockSizeDelta(ctx)
	require.Equal(t, int32(MinBlock/2-1), tu.aux.BlockSize)
}

func TestSetCparamsCapsClevelForBalancedAndHCR(t *testing.T) {
	tu := &Tuner{config: Config{CompMode: CompBalanced}}
	tu.aux.Codec = ZSTD
	tu.aux.Clevel = 7
	tu.aux.Filter = NoFilter
	ctx := &fakeContext{typeSize: 4, sourceSize: 4096}
	tu.setCparams(ctx)
	require.Equal(t, 3, ctx.params.Clevel)

	tu = &Tuner{config: Config{CompMode: CompHCR}}
	tu.aux.Codec = LZ4HC
	tu.aux.Clevel = 9
	tu.aux.Filter = NoFilter
	ctx2 := &fakeContext{typeSize: 4, sourceSize: 4096}
	tu.setCparams(ctx2)
	require.Equal(t, 6, ctx2.params.Clevel)
}

func TestSetCparamsResolvesAutoBlockSize(t *testing.T) {
	tu := &Tuner{config: Config{CompMode: CompBalanced}}
	tu.aux.Codec = BloscLZ
	tu.aux.Filter = NoFilter
	tu.aux.Clevel = 5
	tu.aux.BlockSize = 0
	ctx := &fakeContext{typeSize: 4, sourceSize: 1 << 20}
	tu.setCparams(ctx)
	require.NotZero(t, ctx.params.BlockSize)
}
