// Copyright 2024 The Blosc Developers. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package btune

import "github.com/sirupsen/logrus"

// logStart emits the BTUNE_LOG header line once, at Init.
func (t *Tuner) logStart() {
	logrus.WithFields(logrus.Fields{
		"perf_mode":   t.config.PerfMode,
		"comp_mode":   t.config.CompMode,
		"bandwidth":   bandwidthString(t.config.Bandwidth),
		"waits":       t.config.Behaviour.NWaitsBeforeReadapt,
		"softs":       t.config.Behaviour.NSoftsBeforeHard,
		"hards":       t.config.Behaviour.NHardsBeforeStop,
		"repeat_mode": t.config.Behaviour.RepeatMode,
	}).Info("btune: starting")
}

// logCandidate emits one status line per evaluated candidate, matching the
// BTUNE_LOG column set.
func (t *Tuner) logCandidate(score, cratio float64, winner rune) {
	split := 0
	if t.aux.SplitMode == AlwaysSplit {
		split = 1
	}
	logrus.WithFields(logrus.Fields{
		"codec":           t.aux.Codec,
		"filter":          t.aux.Filter,
		"split":           split,
		"clevel":          t.aux.Clevel,
		"blocksize_kb":    t.aux.BlockSize / 1024,
		"shufflesize":     t.aux.ShuffleSize,
		"nthreads_comp":   t.aux.NThreadsComp,
		"nthreads_decomp": t.aux.NThreadsDecomp,
		"score":           score,
		"cratio":          cratio,
		"state":           t.state,
		"readapt_from":    t.readaptFrom,
		"winner":          string(winner),
	}).Info("btune: candidate")
}
