// Copyright 2024 The Blosc Developers. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package btune

import "fmt"

// Codec identifies a compression codec understood by the pipeline. BTune
// only ever manipulates this as an opaque enum; the codec implementations
// themselves are out of scope.
type Codec int

const (
	BloscLZ Codec = iota
	LZ4
	LZ4HC
	ZLIB
	ZSTD
)

func (c Codec) String() string {
	switch c {
	case BloscLZ:
		return "blosclz"
	case LZ4:
		return "lz4"
	case LZ4HC:
		return "lz4hc"
	case ZLIB:
		return "zlib"
	case ZSTD:
		return "zstd"
	default:
		return fmt.Sprintf("codec(%d)", int(c))
	}
}

// Filter is the byte-permutation pre-filter applied before the codec runs.
type Filter int

const (
	NoFilter Filter = iota
	Shuffle
	BitShuffle
	ByteDelta
)

func (f Filter) String() string {
	switch f {
	case NoFilter:
		return "nofilter"
	case Shuffle:
		return "shuffle"
	case BitShuffle:
		return "bitshuffle"
	case ByteDelta:
		return "bytedelta"
	default:
		return fmt.Sprintf("filter(%d)", int(f))
	}
}

// SplitMode controls whether the codec processes subtype-partitioned
// sub-blocks or the whole block as a unit.
type SplitMode int

const (
	NeverSplit SplitMode = iota
	AlwaysSplit
)

func (s SplitMode) String() string {
	if s == AlwaysSplit {
		return "split"
	}
	return "nosplit"
}

// Bound constants for the data model invariants.
const (
	MinClevel = 1
	MaxClevel = 9

	MinBlock = 16 * 1024      // 16 KiB
	MaxBlock = 2 * 1024 * 1024 // 2 MiB

	MinBitshuffle = 1
	MinShuffle    = 2
	MaxShuffle    = 16

	MinThreads = 1

	SoftStepSize = 1
	HardStepSize = 2

	// MaxStateThreads bounds how many evaluations the THREADS axis gets
	// before BTune gives up on it; large enough that it is never hit by
	// accident during a normal hard readapt.
	MaxStateThreads = 50

	// NumFilters and NumSplits size the CODEC_FILTER search grid
	// (codecs × filters × splits).
	NumFilters = 3 // NoFilter, Shuffle, BitShuffle (ByteDelta is never searched)
	NumSplits  = 2

	// L1 is the size of the L1 cache assumed by the blocksize heuristic.
	L1 = 32 * 1024

	// minBufferSize is the smallest blocksize the heuristic will ever
	// clamp a caller-supplied blocksize hint up to.
	minBufferSize = 128

	// overhead is BLOSC2_MAX_OVERHEAD's Go-side stand-in: the per-chunk
	// framing cost below which a chunk is considered "special values".
	overhead = 32
)

// Direction encodes which way a coordinate-descent axis is currently
// stepping. It lives on Params (specifically on best, never aux) so it
// survives candidate rejection.
type Direction struct {
	IncreasingClevel   bool
	IncreasingBlock    bool
	IncreasingShuffle  bool
	IncreasingNThreads bool
}

// Params is a single point in the compression parameter space, plus the
// measurements BTune recorded for it and the direction flags that decide
// how a coordinate-descent axis steps next.
type Params struct {
	Codec     Codec
	Filter    Filter
	SplitMode SplitMode

	Clevel      int
	BlockSize   int32
	ShuffleSize int32

	NThreadsComp   int
	NThreadsDecomp int

	Direction

	// Measurements recorded by Update for this candidate.
	Score float64
	Ratio float64
	Ctime float64
	Dtime float64
}

// Equal reports whether two Params carry identical tunable fields,
// ignoring measurements. Mirrors btune.c's cparams_equals, kept around for
// callers that want to detect a no-op readapt.
func (p Params) Equal(o Params) bool {
	return p.Codec == o.Codec &&
		p.Filter == o.Filter &&
		p.SplitMode == o.SplitMode &&
		p.Clevel == o.Clevel &&
		p.BlockSize == o.BlockSize &&
		p.ShuffleSize == o.ShuffleSize &&
		p.NThreadsComp == o.NThreadsComp &&
		p.NThreadsDecomp == o.NThreadsDecomp
}

// defaultParams mirrors cparams_btune_default in btune.c: LZ4, shuffle,
// always-split, clevel 9 (rewritten by Init depending on comp_mode),
// direction flags matching the original's bounce-from-the-top posture.
func defaultParams() Params {
	return Params{
		Codec:       LZ4,
		Filter:      Shuffle,
		SplitMode:   AlwaysSplit,
		Clevel:      MaxClevel,
		BlockSize:   0,
		ShuffleSize: 0,
		Direction: Direction{
			IncreasingClevel:   false,
			IncreasingBlock:    true,
			IncreasingShuffle:  true,
			IncreasingNThreads: false,
		},
		Score: 100,
		Ratio: 1.1,
		Ctime: 100,
		Dtime: 100,
	}
}
