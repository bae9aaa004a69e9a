// Copyright 2024 The Blosc Developers. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package btune

import "fmt"

// Bandwidth units, expressed in kB/s, matching btune.h's bandwidth_units
// enumeration.
const (
	KBps    = 1
	MBps    = 1024 * KBps
	MBps10  = 10 * MBps
	MBps100 = 100 * MBps
	GBps    = 1024 * MBps
	GBps10  = 10 * GBps
	GBps100 = 100 * GBps
	TBps    = 1024 * GBps
)

func bandwidthString(kbps uint32) string {
	switch {
	case kbps < MBps:
		return fmt.Sprintf("%d KB/s", kbps)
	case kbps < GBps:
		return fmt.Sprintf("%d MB/s", kbps/KBps/1024)
	case kbps < TBps:
		return fmt.Sprintf("%d GB/s", kbps/MBps/1024)
	default:
		return fmt.Sprintf("%d TB/s", kbps/GBps/1024)
	}
}

// PerfMode selects which timings the scoring function weighs.
type PerfMode int

const (
	PerfComp PerfMode = iota
	PerfDecomp
	PerfBalanced
)

func (m PerfMode) String() string {
	switch m {
	case PerfComp:
		return "COMP"
	case PerfDecomp:
		return "DECOMP"
	case PerfBalanced:
		return "BALANCED"
	default:
		return "UNKNOWN"
	}
}

// CompMode selects the improvement predicate's bias (speed vs. ratio).
type CompMode int

const (
	CompHSP CompMode = iota
	CompBalanced
	CompHCR
)

func (m CompMode) String() string {
	switch m {
	case CompHSP:
		return "HSP"
	case CompBalanced:
		return "BALANCED"
	case CompHCR:
		return "HCR"
	default:
		return "UNKNOWN"
	}
}

// RepeatMode decides what BTune does once the configured readapt budget is
// exhausted.
type RepeatMode int

const (
	RepeatStop RepeatMode = iota
	RepeatSoft
	RepeatAll
)

func (m RepeatMode) String() string {
	switch m {
	case RepeatStop:
		return "STOP"
	case RepeatSoft:
		return "REPEAT_SOFT"
	case RepeatAll:
		return "REPEAT_ALL"
	default:
		return "UNKNOWN"
	}
}

// Behaviour controls the cadence of hard/soft/wait readapts.
type Behaviour struct {
	NWaitsBeforeReadapt uint32
	NSoftsBeforeHard    uint32
	NHardsBeforeStop    uint32
	RepeatMode          RepeatMode
}

// Config is the caller-supplied BTune configuration. Copied by value into
// the Tuner on Init, so the caller's copy may be reused or discarded freely
// afterwards.
type Config struct {
	// Bandwidth is the assumed transmission bandwidth, in kB/s, used by
	// the scoring function.
	Bandwidth uint32

	PerfMode  PerfMode
	CompMode  CompMode
	Behaviour Behaviour

	// CParamsHint, when true, seeds best/aux from the caller-supplied
	// codec/filter/clevel/blocksize/thread counts instead of starting a
	// hard readapt from BTune's own defaults.
	CParamsHint bool
}

// DefaultConfig mirrors BTUNE_CONFIG_DEFAULTS: optimizes memory bandwidth,
// compression speed, decompression speed and ratio together. It starts
// with a hard readapt, then cycles 5 soft readapts and 1 hard readapt
// before stopping.
func DefaultConfig() Config {
	return Config{
		Bandwidth: 2 * GBps10,
		PerfMode:  PerfBalanced,
		CompMode:  CompBalanced,
		Behaviour: Behaviour{
			NWaitsBeforeReadapt: 0,
			NSoftsBeforeHard:    5,
			NHardsBeforeStop:    1,
			RepeatMode:          RepeatStop,
		},
		CParamsHint: false,
	}
}

// Context is the subset of the compressing/decompressing context BTune
// reads from and publishes into on every chunk. It stands in for the
// `cctx`/`dctx` blosc2_context pointers of the original API: Init reads
// the starting typesize and compression thread count from it,
// NextBlockSize/NextCparams read the source size and publish the chosen
// candidate into it, and Update reads the measured compressed size back
// out of it.
//
// A real integration backs this with whatever per-chunk compression
// context its own codec library exposes; BTune never looks past this
// interface.
type Context interface {
	// TypeSize is the element size (bytes) of the data being compressed.
	TypeSize() int32
	// SourceSize is the uncompressed size of the current chunk.
	SourceSize() int32
	// NThreadsComp/NThreadsDecomp report the context's current thread
	// counts. Init seeds both Params thread counts and the THREADS axis
	// bound from NThreadsComp (or from a DecompContext when one is given);
	// the Tuner does not call NThreadsDecomp on this interface.
	NThreadsComp() int
	NThreadsDecomp() int

	// SetCParams publishes a candidate onto the context ahead of
	// compressing the next chunk.
	SetCParams(p Params)
	// SetBlockSize overwrites just the blocksize (next_blocksize).
	SetBlockSize(blocksize int32)
	// BlockSize reports the blocksize currently published on the context,
	// which the blocksize heuristic treats as a caller-forced hint when
	// non-zero.
	BlockSize() int32

	// DestSize is the compressed size BTune reads back in Update.
	DestSize() int32
}
