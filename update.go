// Copyright 2024 The Blosc Developers. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package btune

// Update consumes the measured compression time and the compressed size
// read back from cctx, scores the candidate tried this chunk, possibly
// promotes it to best, and advances the state machine.
func (t *Tuner) Update(cctx Context, ctime float64) {
	if t.state == Stop {
		return
	}
	t.stepsCount++

	cbytes := cctx.DestSize()
	// Decompression timing is measured by re-running the decompressor
	// against the just-compressed chunk; doing so here would require
	// owning a second context this package has no business allocating, so
	// dtime stays 0, carried from the original's own disabled measurement
	// path.
	dtime := 0.0

	score := t.scoreFunction(ctime, cbytes, dtime)
	cratio := float64(cctx.SourceSize()) / float64(cbytes)

	t.aux.Score = score
	t.aux.Ratio = cratio
	t.aux.Ctime = ctime
	t.aux.Dtime = dtime

	// Single-sample mean: the reference's current_scores/current_cratios
	// circular buffers only ever hold one element, so rep_index always
	// reaches 1 on the very first write.
	t.currentScore = score
	t.currentCratio = cratio
	t.repIndex++
	if t.repIndex != 1 {
		return
	}

	meanScore := t.currentScore
	meanCratio := t.currentCratio
	cratioCoef := meanCratio / t.best.Ratio
	scoreCoef := t.best.Score / meanScore

	var improved bool
	if t.state == Threads {
		// The THREADS axis is judged on raw time, not the composite
		// score: more threads should win on wall-clock even if the
		// bandwidth term makes the composite score look flat.
		if t.threadsForComp {
			improved = ctime < t.best.Ctime
		} else {
			improved = dtime < t.best.Dtime
		}
	} else {
		improved = hasImproved(t.config.CompMode, scoreCoef, cratioCoef)
	}

	winner := '-'
	if cbytes <= overhead+cctx.TypeSize() {
		// The chunk collapsed to a special-values token; it can never be
		// a meaningful comparison point.
		improved = false
		winner = 'S'
	}
	if improved {
		winner = 'W'
	}

	if !t.isRepeating && t.logEnabled {
		t.logCandidate(meanScore, meanCratio, winner)
	}

	if improved {
		t.best = t.aux
	}
	t.repIndex = 0
	t.updateAux(improved, cctx.SourceSize())
}
