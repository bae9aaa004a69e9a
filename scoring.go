// Copyright 2024 The Blosc Developers. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package btune

// scoreFunction computes the bandwidth-aware objective (smaller is better),
// biased towards whichever timing perf_mode cares about.
func (t *Tuner) scoreFunction(ctime float64, cbytes int32, dtime float64) float64 {
	reduced := float64(cbytes) / 1024
	switch t.config.PerfMode {
	case PerfComp:
		return ctime + reduced/float64(t.config.Bandwidth)
	case PerfDecomp:
		return reduced/float64(t.config.Bandwidth) + dtime
	case PerfBalanced:
		return ctime + reduced/float64(t.config.Bandwidth) + dtime
	default:
		return -1
	}
}

// hasImproved is the comp-mode-specific improvement predicate: r is the
// ratio coefficient (>1 means the candidate compresses better), s is the
// score coefficient (>1 means the candidate scores better, since score is
// smaller-is-better).
func hasImproved(mode CompMode, scoreCoef, cratioCoef float64) bool {
	r, s := cratioCoef, scoreCoef
	switch mode {
	case CompHSP:
		return (r > 1 && s > 1) ||
			(r > 0.5 && s > 2) ||
			(r > 0.67 && s > 1.3) ||
			(r > 2 && s > 0.7)
	case CompBalanced:
		return (r > 1 && s > 1) ||
			(r > 1.1 && s > 0.8) ||
			(r > 1.3 && s > 0.5)
	case CompHCR:
		return r > 1
	default:
		return false
	}
}
