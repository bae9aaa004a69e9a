// Copyright 2021 Cosmos Nicolaou. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

// Package internal holds synthetic chunk generators shared by the
// internal/entropyprobe and cmd/btune-tune test suites.
package internal

import (
	"fmt"
	"math/rand"
	"time"
)

// Seed for the pseudorandom generator, must be shared across test binaries.
const fixdRandSeed = 0x1234

var randSource rand.Source

func init() {
	randSeed := time.Now().UnixNano()
	fmt.Printf("rand seed for GenReproducibleRandomData: %v\n", randSeed)
	randSource = rand.NewSource(randSeed)
}

// GenPredictableRandomData generates random data starting with a fixed
// known seed.
func GenPredictableRandomData(size int) []byte {
	gen := rand.New(rand.NewSource(fixdRandSeed))
	out := make([]byte, size)
	for i := range out {
		out[i] = byte(gen.Intn(256))
	}
	return out
}

// GenReproducibleRandomData uses the random # seed printed out by this
// file's init function.
func GenReproducibleRandomData(size int) []byte {
	gen := rand.New(randSource)
	out := make([]byte, size)
	for i := range out {
		out[i] = byte(gen.Intn(256))
	}
	return out
}

// GenZeroChunk returns a chunk of size bytes, all zero. Useful for exercising
// the "chunk collapsed to a special-values token" path.
func GenZeroChunk(size int) []byte {
	return make([]byte, size)
}

// GenRepeatingChunk returns a chunk of size bytes where byte i is i%period,
// a cheap stand-in for mildly-compressible structured data.
func GenRepeatingChunk(size, period int) []byte {
	out := make([]byte, size)
	for i := range out {
		out[i] = byte(i % period)
	}
	return out
}

// FirstN returns at most the first n bytes of b.
func FirstN(n int, b []byte) []byte {
	if len(b) > n {
		return b[:n]
	}
	return b
}
