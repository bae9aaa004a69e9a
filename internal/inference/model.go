// Copyright 2024 The Blosc Developers. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package inference

import (
	"os"
	"time"

	"github.com/Blosc/BTune"
	"github.com/Blosc/BTune/internal/entropyprobe"
	"github.com/sirupsen/logrus"
)

// probeBlockSize is the fixed window the inferencer splits a chunk into
// before probing each block, standing in for the real schunk.blocksize
// the original reads off the context (btune_model.cpp's
// get_best_codec_for_chunk uses cparams.blocksize = schunk->blocksize).
// Nothing in Context exposes a pre-chunk blocksize before one has been
// chosen, so a fixed window close to the default L1-based starting
// blocksize is used instead.
const probeBlockSize = 32 * 1024

// Predictor is the external model predictor, treated as a pure function —
// the tensor-model interpreter used for first-chunk inference. It
// receives one block's normalized (cratio, cspeed) pair and returns the
// index into Metadata.Categories it predicts.
type Predictor interface {
	Predict(cratio, cspeed float64) (category int, err error)
}

// block is one entropy-probed block's raw (cratio, cspeed) measurement,
// the Go analogue of a blosc2_instr record.
type block struct {
	cratio float64
	cspeed float64
}

// probeBlocks splits chunk into probeBlockSize windows (never_split mode:
// every window is probed independently, matching BLOSC_NEVER_SPLIT) and
// runs the entropy probe over each, timing the probe itself as a cspeed
// proxy for the real per-block compression speed the original measures.
func probeBlocks(chunk []byte) []block {
	if len(chunk) == 0 {
		return nil
	}
	var blocks []block
	for off := 0; off < len(chunk); off += probeBlockSize {
		end := off + probeBlockSize
		if end > len(chunk) {
			end = len(chunk)
		}
		window := chunk[off:end]

		start := time.Now()
		cratio := entropyprobe.GetCratio(window, 3, 3)
		elapsed := time.Since(start).Seconds()

		cspeed := 0.0
		if elapsed > 0 {
			cspeed = float64(len(window)) / elapsed
		}
		blocks = append(blocks, block{cratio: cratio, cspeed: cspeed})
	}
	return blocks
}

// Model wires metadata, predictor and entropy-probe measurements together
// into a btune.Inferencer. Construct with NewModel; a nil *Model (returned
// when environment variables are unset) is a valid, always-declining
// Inferencer.
type Model struct {
	metadata  *Metadata
	predictor Predictor
}

// NewModel loads BTUNE_METADATA and selects a model artifact path from
// BTUNE_MODEL_BALANCED/BTUNE_MODEL_HCR/BTUNE_MODEL_HSP according to mode,
// then builds predictor via newPredictor. Returns (nil, nil) — not an
// error — when either environment variable is unset, matching the
// "inference unavailable" contract: next_cparams must fall through to
// the full search silently rather than fail the chunk.
func NewModel(mode btune.CompMode, newPredictor func(modelPath string) (Predictor, error)) (*Model, error) {
	metaPath := os.Getenv("BTUNE_METADATA")
	if metaPath == "" {
		logrus.Debug("btune: BTUNE_METADATA is not set, inference disabled")
		return nil, nil
	}
	modelPath := os.Getenv(modelEnvVar(mode))
	if modelPath == "" {
		logrus.Debugf("btune: %s is not set, inference disabled", modelEnvVar(mode))
		return nil, nil
	}

	md, err := LoadMetadata(metaPath)
	if err != nil {
		logrus.Debugf("btune: %v, inference disabled", err)
		return nil, nil
	}
	predictor, err := newPredictor(modelPath)
	if err != nil {
		logrus.Debugf("btune: loading model %q: %v, inference disabled", modelPath, err)
		return nil, nil
	}
	return &Model{metadata: md, predictor: predictor}, nil
}

func modelEnvVar(mode btune.CompMode) string {
	switch mode {
	case btune.CompHCR:
		return "BTUNE_MODEL_HCR"
	case btune.CompHSP:
		return "BTUNE_MODEL_HSP"
	default:
		return "BTUNE_MODEL_BALANCED"
	}
}

// Infer implements btune.Inferencer: it probes chunk in never-split mode
// to obtain one (cratio, cspeed) sample per block, normalizes each, runs
// the predictor per block, and returns the category with the most votes.
func (m *Model) Infer(chunk []byte, typeSize int32) (codec btune.Codec, filter btune.Filter, ok bool) {
	if m == nil {
		return 0, 0, false
	}
	blocks := probeBlocks(chunk)
	if len(blocks) == 0 {
		return 0, 0, false
	}

	votes := make([]int, len(m.metadata.Categories))
	counted := 0
	for _, b := range blocks {
		cratio := m.metadata.Cratio.Normalize(b.cratio)
		cspeed := m.metadata.Speed.Normalize(b.cspeed)
		category, err := m.predictor.Predict(cratio, cspeed)
		if err != nil || category < 0 || category >= len(votes) {
			continue
		}
		votes[category]++
		counted++
	}
	if counted == 0 {
		return 0, 0, false
	}

	best, bestVotes := -1, 0
	for i, v := range votes {
		if v > bestVotes {
			bestVotes, best = v, i
		}
	}
	if best < 0 {
		return 0, 0, false
	}
	winner := m.metadata.Categories[best]
	return winner.Codec, winner.Filter, true
}

