// Copyright 2024 The Blosc Developers. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package btune

// hasEndedClevel reports whether the CLEVEL axis has reached the bound in
// its current direction.
func (t *Tuner) hasEndedClevel() bool {
	return (t.best.IncreasingClevel && t.best.Clevel >= MaxClevel-t.stepSize) ||
		(!t.best.IncreasingClevel && t.best.Clevel <= 1+t.stepSize)
}

func (t *Tuner) hasEndedShuffle() bool {
	minShuffle := int32(MinBitshuffle)
	if t.best.Filter == Shuffle {
		minShuffle = MinShuffle
	}
	return (t.best.IncreasingShuffle && t.best.ShuffleSize == MaxShuffle) ||
		(!t.best.IncreasingShuffle && t.best.ShuffleSize == minShuffle)
}

func (t *Tuner) hasEndedThreads() bool {
	nthreads := t.best.NThreadsComp
	if !t.threadsForComp {
		nthreads = t.best.NThreadsDecomp
	}
	return (t.best.IncreasingNThreads && nthreads == t.maxThreads) ||
		(!t.best.IncreasingNThreads && nthreads == MinThreads)
}

func (t *Tuner) hasEndedBlocksize(sourceSize int32) bool {
	return (t.best.IncreasingBlock &&
		((t.best.BlockSize > (MaxBlock >> t.stepSize)) ||
			(t.best.BlockSize > (sourceSize >> t.stepSize)))) ||
		(!t.best.IncreasingBlock && (t.best.BlockSize < (MinBlock << t.stepSize)))
}

// initSoft starts a soft readapt: only CLEVEL is revisited.
func (t *Tuner) initSoft() {
	if t.hasEndedClevel() {
		t.best.IncreasingClevel = !t.best.IncreasingClevel
	}
	t.state = Clevel
	t.stepSize = SoftStepSize
	t.readaptFrom = ReadaptSoft
}

// initHard starts a hard readapt: the full CODEC_FILTER search resumes.
func (t *Tuner) initHard() {
	t.state = CodecFilter
	t.stepSize = HardStepSize
	t.readaptFrom = ReadaptHard
	t.threadsForComp = t.config.PerfMode != PerfDecomp
	if t.hasEndedShuffle() {
		t.best.IncreasingShuffle = !t.best.IncreasingShuffle
	}
}

// initWithoutHards decides the opening state when nhards_before_stop == 0,
// mirroring init_without_hards's fallthrough switch on repeat_mode.
func (t *Tuner) initWithoutHards() {
	b := t.config.Behaviour
	var minimumHards uint32
	if !t.config.CParamsHint {
		minimumHards = 1
	}

	done := false
	if b.RepeatMode == RepeatAll {
		if b.NHardsBeforeStop > minimumHards {
			t.initHard()
			done = true
		}
	}
	if !done && (b.RepeatMode == RepeatAll || b.RepeatMode == RepeatSoft) {
		if b.NSoftsBeforeHard > 0 {
			t.initSoft()
			done = true
		}
	}
	if !done {
		if minimumHards == 0 && b.NSoftsBeforeHard > 0 {
			t.initSoft()
		} else {
			t.state = Stop
			t.readaptFrom = ReadaptWait
		}
	}
	t.isRepeating = true
}

// processWaitingState decides the next readapt cycle once WAITING is
// entered, based on readaptFrom, the behaviour counters, and repeat_mode.
func (t *Tuner) processWaitingState() {
	b := t.config.Behaviour
	var minimumHards uint32
	if !t.config.CParamsHint {
		minimumHards = 1
	}

	switch t.readaptFrom {
	case ReadaptHard:
		t.nHards++
		if b.NHardsBeforeStop == minimumHards || uint32(t.nHards)%b.NHardsBeforeStop == 0 {
			t.isRepeating = true
			switch {
			case b.NSoftsBeforeHard > 0 && b.RepeatMode != RepeatStop:
				t.initSoft()
			case b.RepeatMode != RepeatAll:
				t.state = Stop
			case b.NWaitsBeforeReadapt > 0:
				t.state = Waiting
				t.readaptFrom = ReadaptWait
			case b.NHardsBeforeStop > minimumHards:
				t.initHard()
			default:
				t.state = Stop
			}
		} else if b.NSoftsBeforeHard > 0 {
			t.initSoft()
		} else if b.NWaitsBeforeReadapt > 0 {
			t.state = Waiting
			t.readaptFrom = ReadaptWait
		} else {
			t.initHard()
		}

	case ReadaptSoft:
		t.nSofts++
		t.readaptFrom = ReadaptWait
		if b.NWaitsBeforeReadapt == 0 {
			lastSoft := b.NSoftsBeforeHard == 0 || uint32(t.nSofts)%b.NSoftsBeforeHard == 0
			switch {
			case lastSoft && !(t.isRepeating && b.RepeatMode != RepeatAll) && b.NHardsBeforeStop > minimumHards:
				t.initHard()
			case minimumHards == 0 && b.NHardsBeforeStop == 0 && lastSoft && b.RepeatMode == RepeatStop:
				t.isRepeating = true
				t.state = Stop
			default:
				t.initSoft()
			}
		}

	case ReadaptWait:
		lastWait := b.NWaitsBeforeReadapt == 0 ||
			(t.nWaitings != 0 && uint32(t.nWaitings)%b.NWaitsBeforeReadapt == 0)
		if lastWait {
			lastSoft := b.NSoftsBeforeHard == 0 ||
				(t.nSofts != 0 && uint32(t.nSofts)%b.NSoftsBeforeHard == 0)
			switch {
			case lastSoft && !(t.isRepeating && b.RepeatMode != RepeatAll) && b.NHardsBeforeStop > minimumHards:
				t.initHard()
			case b.NSoftsBeforeHard > 0 && !(t.isRepeating && b.RepeatMode == RepeatStop):
				t.initSoft()
			}
		}
	}

	// Tighten the search as the budget converges: the final hard readapt
	// always steps by one instead of two.
	if t.readaptFrom == ReadaptHard && uint32(t.nHards) == b.NHardsBeforeStop-1 {
		t.stepSize = SoftStepSize
	}
}

// updateAux advances state.state once a candidate has been scored. It is
// the sole place state transitions and direction flips happen.
func (t *Tuner) updateAux(improved bool, sourceSize int32) {
	firstTime := t.auxIndex == 1

	switch t.state {
	case CodecFilter:
		if t.auxIndex/t.filterSplitLimit == len(t.codecs) {
			t.auxIndex = 0
			isPow2 := t.best.ShuffleSize&(t.best.ShuffleSize-1) == 0
			if t.best.Filter != NoFilter && isPow2 {
				t.state = ShuffleSize
			} else {
				t.state = Threads
			}
			if t.state == Threads && t.maxThreads == 1 {
				t.state = Clevel
				if t.hasEndedClevel() {
					t.best.IncreasingClevel = !t.best.IncreasingClevel
				}
			}
			switch t.state {
			case ShuffleSize:
				if t.hasEndedShuffle() {
					t.best.IncreasingShuffle = !t.best.IncreasingShuffle
				}
			case Threads:
				// Preserves the original's has_ended_shuffle check here,
				// not has_ended_threads — a deliberately preserved quirk,
				// not silently "fixed".
				if t.hasEndedShuffle() {
					t.best.IncreasingNThreads = !t.best.IncreasingNThreads
				}
			}
		}

	case ShuffleSize:
		if !improved && firstTime {
			t.best.IncreasingShuffle = !t.best.IncreasingShuffle
		}
		if t.hasEndedShuffle() || (!improved && !firstTime) {
			t.auxIndex = 0
			t.state = Threads
			if t.maxThreads == 1 {
				t.state = Clevel
				if t.hasEndedClevel() {
					t.best.IncreasingClevel = !t.best.IncreasingClevel
				}
			} else if t.hasEndedThreads() {
				t.best.IncreasingNThreads = !t.best.IncreasingNThreads
			}
		}

	case Threads:
		threadsFirstTime := t.auxIndex%MaxStateThreads == 1
		if !improved && threadsFirstTime {
			t.best.IncreasingNThreads = !t.best.IncreasingNThreads
		}
		if t.hasEndedThreads() || (!improved && !threadsFirstTime) {
			if t.config.PerfMode == PerfBalanced {
				if t.auxIndex < MaxStateThreads {
					t.threadsForComp = !t.threadsForComp
					t.auxIndex = MaxStateThreads
					if t.hasEndedThreads() {
						t.best.IncreasingNThreads = !t.best.IncreasingNThreads
					}
				}
			} else {
				t.auxIndex = MaxStateThreads + 1
			}
			if t.auxIndex > MaxStateThreads {
				t.auxIndex = 0
				t.state = Clevel
				if t.hasEndedClevel() {
					t.best.IncreasingClevel = !t.best.IncreasingClevel
				}
			}
		}

	case Clevel:
		if !improved && firstTime {
			t.best.IncreasingClevel = !t.best.IncreasingClevel
		}
		if t.hasEndedClevel() || (!improved && !firstTime) {
			t.auxIndex = 0
			t.state = BlockSize
			if t.hasEndedBlocksize(sourceSize) {
				t.best.IncreasingBlock = !t.best.IncreasingBlock
			}
		}

	case BlockSize:
		if !improved && firstTime {
			t.best.IncreasingBlock = !t.best.IncreasingBlock
		}
		if t.hasEndedBlocksize(sourceSize) || (!improved && !firstTime) {
			t.auxIndex = 0
			if t.config.CompMode == CompHSP {
				t.state = Memcpy
			} else {
				t.state = Waiting
			}
		}

	case Memcpy:
		t.auxIndex = 0
		t.state = Waiting
	}

	if t.state == Waiting {
		t.processWaitingState()
	}
}
