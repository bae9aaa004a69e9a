// Copyright 2024 The Blosc Developers. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

// Package entropyprobe implements a fast LZ-style compressed-size
// estimator used to characterize blocks for the first-chunk codec
// inferencer. It never actually encodes a buffer; it only counts how
// many output bytes a real LZ77-style codec would need to describe it,
// and returns the ratio of input to estimated output bytes.
package entropyprobe

const (
	hashLog2      = 12
	hashLen       = 1 << hashLog2
	maxCopy       = 32
	maxDistance   = 8191
	maxFarDistance = 65535 + maxDistance - 1
	fibonacci     = 2654435761
)

// GetCratio estimates the compression ratio of buf using a single LZ-style
// scan, without producing any compressed bytes. minlen and ipshift tune
// the match-length threshold; 3 and 3 are the reference defaults. It scans
// at most min(len(buf), 1<<HASH_LOG2) bytes.
func GetCratio(buf []byte, minlen, ipshift int) float64 {
	if len(buf) == 0 {
		return 0
	}

	limit := len(buf)
	if limit > hashLen {
		limit = hashLen
	}
	ipBound := limit - 1
	ipLimit := limit - 12

	var htab [hashLen]int32
	oc := 0
	ip := 0
	copyRun := 4
	oc += 5

	emitLiteral := func() {
		oc++
		ip++
		copyRun++
		if copyRun == maxCopy {
			copyRun = 0
			oc++
		}
	}

	for ip < ipLimit {
		anchor := ip
		seq := readU32(buf, ip)
		hval := fibHash(seq)
		ref := int(htab[hval])
		htab[hval] = int32(anchor)

		distance := anchor - ref
		if distance == 0 || distance >= maxFarDistance {
			emitLiteral()
			continue
		}
		if readU32(buf, ref) != readU32(buf, ip) {
			emitLiteral()
			continue
		}

		refPos := ref + 4
		ip = anchor + 4
		distance--

		run := distance == 0
		ip = getRunOrMatch(buf, ip, ipBound, refPos, run)

		ip -= ipshift
		length := ip - anchor
		if length < minlen {
			ip = anchor
			emitLiteral()
			continue
		}

		if copyRun == 0 {
			oc--
		}
		copyRun = 0

		if distance < maxDistance {
			if length >= 7 {
				oc += (length-7)/255 + 1
			}
			oc += 2
		} else {
			if length >= 7 {
				oc += (length-7)/255 + 1
			}
			oc += 4
		}

		if ip+4 <= len(buf) {
			seq = readU32(buf, ip)
			hval = fibHash(seq)
			htab[hval] = int32(ip)
		}
		ip++
		ip++
		oc++
	}

	ic := float64(ip)
	if ic <= 0 {
		ic = float64(limit)
	}
	if oc <= 0 {
		oc = 1
	}
	return ic / float64(oc)
}

// EstimatedCBytes converts a cratio from GetCratio into an estimated
// compressed size for a buffer of inputLen bytes, capping at inputLen
// itself (a codec never "expands" in this estimator's accounting).
func EstimatedCBytes(inputLen int, cratio float64) int {
	if cratio <= 0 {
		return inputLen
	}
	cbytes := int(float64(inputLen) / cratio)
	if cbytes > inputLen {
		cbytes = inputLen
	}
	return cbytes
}

func fibHash(seq uint32) uint32 {
	return (seq * fibonacci) >> (32 - hashLog2)
}

func readU32(buf []byte, off int) uint32 {
	if off+4 > len(buf) {
		var b [4]byte
		copy(b[:], buf[off:])
		return uint32(b[0]) | uint32(b[1])<<8 | uint32(b[2])<<16 | uint32(b[3])<<24
	}
	return uint32(buf[off]) | uint32(buf[off+1])<<8 | uint32(buf[off+2])<<16 | uint32(buf[off+3])<<24
}

// getRunOrMatch extends a match (or, when run is true, a repeated-byte
// run) as far as it goes, bounded by ipBound, mirroring get_run/get_match.
func getRunOrMatch(buf []byte, ip, ipBound, ref int, run bool) int {
	if run {
		x := buf[ip-1]
		for ip < ipBound && ref < len(buf) && buf[ref] == x {
			ip++
			ref++
		}
		return ip
	}
	for ip < ipBound && ref < len(buf) && ip < len(buf) && buf[ref] == buf[ip] {
		ip++
		ref++
	}
	return ip
}
