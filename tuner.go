// Copyright 2024 The Blosc Developers. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

// Package btune implements an adaptive compression-parameter tuner for a
// chunked, block-oriented compression pipeline. It explores the
// (codec, filter, split-mode, clevel, blocksize, shufflesize, thread-count)
// parameter space across chunks using a hierarchy of hard/soft/wait
// readapts, scores each attempt with a bandwidth-aware objective function,
// and commits only improving parameters as the new best.
//
// The Tuner runs synchronously on the caller's goroutine: Init, then
// NextBlockSize/NextCparams/Update once per chunk, then Free. It owns no
// shared state and makes no concurrency guarantees beyond what the caller's
// own compressor does internally.
package btune

import (
	"os"

	"github.com/sirupsen/logrus"
)

// DecompContext is the borrowed decompression context BTune publishes new
// thread counts into. It is borrowed, not owned: pass nil to Init if there
// is none; BTune then tracks the decompression thread count itself.
type DecompContext interface {
	NThreadsDecomp() int
	SetNThreadsDecomp(n int)
}

// Inferencer runs the first-chunk model-driven codec/filter classification
// classification. Implementations normally wrap internal/inference.Model.
type Inferencer interface {
	// Infer examines the first chunk and returns the single (codec,
	// filter) pair the model predicts, or ok=false if inference is
	// unavailable (missing metadata/model, parse error, predictor
	// rejection).
	Infer(chunk []byte, typeSize int32) (codec Codec, filter Filter, ok bool)
}

type initOpts struct {
	dctx       DecompContext
	inferencer Inferencer
	hint       *Params
}

// InitOption configures optional Init behaviour beyond the required
// Config/Context pair.
type InitOption func(*initOpts)

// WithDecompContext supplies the borrowed decompression context whose
// thread count BTune will adjust under perf_mode DECOMP or BALANCED.
func WithDecompContext(dctx DecompContext) InitOption {
	return func(o *initOpts) { o.dctx = dctx }
}

// WithInferencer supplies the first-chunk model inferencer. Without one,
// next_cparams always falls through to the full search, which is the
// expected behaviour when inference is unavailable.
func WithInferencer(inf Inferencer) InitOption {
	return func(o *initOpts) { o.inferencer = inf }
}

// WithCParamsHint supplies the caller's own starting codec/filter/clevel/
// blocksize/split-mode when Config.CParamsHint is true. A real compressor
// would read these back out of its own context, which this package has no
// business peeking into, so they are passed explicitly instead. Ignored
// when Config.CParamsHint is false.
func WithCParamsHint(hint Params) InitOption {
	return func(o *initOpts) { o.hint = &hint }
}

// Tuner owns one compressing context's worth of search state. Created by
// Init, released by Free; lives across the lifetime of one compressing
// context.
type Tuner struct {
	config Config

	codecs  []Codec
	filters []Filter

	// filterSplitLimit = NumFilters*NumSplits, computed once in Init and
	// reused by both NextCparams and the CODEC_FILTER state transition.
	filterSplitLimit int

	best, aux Params

	state       State
	readaptFrom ReadaptType
	stepSize    int

	auxIndex   int
	stepsCount int
	repIndex   int

	nHards, nSofts, nWaitings int
	isRepeating               bool

	threadsForComp bool
	maxThreads     int
	nthreadsDecomp int // fallback when dctx == nil
	dctx           DecompContext

	// currentScore/currentCratio stand in for the original's
	// current_scores/current_cratios arrays. The reference always means
	// over a single sample; BTune accepts that resolution rather than
	// threading a repetition count through Config that nothing yet sets.
	currentScore, currentCratio float64

	inferencer Inferencer
	nChunks    int

	logEnabled   bool
	debugEnabled bool
}

// Init allocates a Tuner bound to the given context. config is copied by
// value; a zero Config{} is not a substitute for DefaultConfig() — callers
// that want the documented defaults must pass DefaultConfig() explicitly,
// matching the original's "falls back to defaults if null" only applying
// to a literal nil, not a zero struct.
func Init(config Config, cctx Context, opts ...InitOption) *Tuner {
	o := initOpts{}
	for _, fn := range opts {
		fn(&o)
	}

	t := &Tuner{
		config:     config,
		dctx:       o.dctx,
		inferencer: o.inferencer,
	}
	t.logEnabled = os.Getenv("BTUNE_LOG") != ""
	t.debugEnabled = os.Getenv("BTUNE_DEBUG") != ""

	t.filterSplitLimit = NumFilters * NumSplits
	t.codecs = codecsForCompMode(config.CompMode, config.PerfMode)
	t.filters = []Filter{NoFilter, Shuffle, BitShuffle}

	best := defaultParams()
	best.Codec = t.codecs[0]
	if config.CompMode == CompHCR {
		best.Clevel = 8
	} else {
		best.Clevel = 9
	}
	best.ShuffleSize = cctx.TypeSize()
	best.NThreadsComp = cctx.NThreadsComp()

	if o.dctx != nil {
		comp, decomp := cctx.NThreadsComp(), o.dctx.NThreadsDecomp()
		if comp > decomp {
			t.maxThreads = comp
		} else {
			t.maxThreads = decomp
		}
		best.NThreadsDecomp = decomp
		t.nthreadsDecomp = decomp
	} else {
		t.maxThreads = cctx.NThreadsComp()
		best.NThreadsDecomp = cctx.NThreadsComp()
		t.nthreadsDecomp = cctx.NThreadsComp()
	}
	t.best = best
	t.aux = best

	t.threadsForComp = config.PerfMode != PerfDecomp

	if t.logEnabled {
		t.logStart()
	}

	if config.CParamsHint {
		if o.hint != nil {
			hint := *o.hint
			hint.NThreadsComp = cctx.NThreadsComp()
			hint.NThreadsDecomp = t.best.NThreadsDecomp
			t.best = hint
			t.aux = hint
		}
		t.addCodec(t.best.Codec)
		switch {
		case config.Behaviour.NHardsBeforeStop > 0:
			switch {
			case config.Behaviour.NSoftsBeforeHard > 0:
				t.initSoft()
			case config.Behaviour.NWaitsBeforeReadapt > 0:
				t.state = Waiting
				t.readaptFrom = ReadaptWait
			default:
				t.initHard()
			}
		default:
			t.initWithoutHards()
		}
	} else {
		t.initHard()
		t.config.Behaviour.NHardsBeforeStop++
	}

	if t.config.Behaviour.NHardsBeforeStop == 1 {
		t.stepSize = SoftStepSize
	} else {
		t.stepSize = HardStepSize
	}

	return t
}

// codecsForCompMode mirrors btune_get_codecs: HCR mode only tries ZSTD and
// ZLIB; every other mode includes LZ4 (mandatory), BALANCED additionally
// tries BLOSCLZ, and a DECOMP-optimizing perf_mode adds LZ4HC.
func codecsForCompMode(comp CompMode, perf PerfMode) []Codec {
	var codecs []Codec
	if comp == CompHCR {
		codecs = append(codecs, ZSTD, ZLIB)
		return codecs
	}
	codecs = append(codecs, LZ4)
	if comp == CompBalanced {
		codecs = append(codecs, BloscLZ)
	}
	if perf == PerfDecomp {
		codecs = append(codecs, LZ4HC)
	}
	return codecs
}

// addCodec appends compcode to codecs if not already present (btune.c's
// add_codec).
func (t *Tuner) addCodec(c Codec) {
	for _, existing := range t.codecs {
		if existing == c {
			return
		}
	}
	t.codecs = append(t.codecs, c)
}

// Free releases the Tuner's state. It is safe to call at most once; after
// Free, the Tuner must not be used again.
func (t *Tuner) Free() {
	t.codecs = nil
	t.filters = nil
	t.best = Params{}
	t.aux = Params{}
	t.inferencer = nil
	t.dctx = nil
}

func (t *Tuner) trace(format string, args ...interface{}) {
	if t.debugEnabled {
		logrus.Debugf(format, args...)
	}
}
