// Copyright 2024 The Blosc Developers. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package btune

// NextCparams produces the candidate Params to try on the upcoming chunk
// and publishes it onto cctx. chunk is the raw bytes of the
// upcoming chunk, passed through only so the first-chunk inferencer (if
// any) can examine it.
func (t *Tuner) NextCparams(chunk []byte, cctx Context) Params {
	if t.nChunks == 0 && t.inferencer != nil {
		if codec, _, ok := t.inferencer.Infer(chunk, cctx.TypeSize()); ok {
			// The model's filter prediction is advisory only: the
			// original narrows codecs[] but still searches filters
			// independently within the collapsed codec.
			t.codecs = []Codec{codec}
			t.trace("inference collapsed codec search to %s", codec)
		}
	}
	t.nChunks++

	t.aux = t.best

	switch t.state {
	case CodecFilter:
		t.nextCodecFilter()
	case ShuffleSize:
		t.nextShuffleSize()
	case Threads:
		t.nextThreads()
	case Clevel:
		t.nextClevel()
	case BlockSize:
		t.nextBlockSizeDelta(cctx)
	case Memcpy:
		t.auxIndex++
		t.aux.Clevel = 0
	case Waiting:
		t.nWaitings++
	case Stop:
		return t.aux
	}

	t.setCparams(cctx)
	return t.aux
}

func (t *Tuner) nextCodecFilter() {
	filterSplit := t.filterSplitLimit
	codecIndex := t.auxIndex / filterSplit
	codec := t.codecs[codecIndex]
	filter := Filter((t.auxIndex % filterSplit) / 2)
	splitMode := SplitMode(t.auxIndex % NumSplits)
	if codec == BloscLZ {
		// BLOSCLZ is not designed to compress well in non-split mode, so
		// disable that axis for it entirely.
		splitMode = AlwaysSplit
	}

	if (t.config.PerfMode == PerfComp || t.config.PerfMode == PerfBalanced) &&
		(codec == ZSTD || codec == ZLIB) && t.nHards == 0 {
		// ZSTD/ZLIB are too slow at high levels to survive a first
		// comparison; start their very first hard readapt at clevel 3.
		t.aux.Clevel = 3
	}

	t.aux.Codec = codec
	t.aux.Filter = filter
	t.aux.SplitMode = splitMode
	t.auxIndex++
}

func (t *Tuner) nextShuffleSize() {
	t.auxIndex++
	if t.aux.IncreasingShuffle {
		if t.aux.ShuffleSize < MaxShuffle {
			t.aux.ShuffleSize <<= 1
		}
	} else {
		minShuffle := int32(MinBitshuffle)
		if t.aux.Filter == Shuffle {
			minShuffle = MinShuffle
		}
		if t.aux.ShuffleSize > minShuffle {
			t.aux.ShuffleSize >>= 1
		}
	}
}

func (t *Tuner) nextThreads() {
	t.auxIndex++
	nthreads := &t.aux.NThreadsComp
	if !t.threadsForComp {
		nthreads = &t.aux.NThreadsDecomp
	}
	if t.aux.IncreasingNThreads {
		if *nthreads < t.maxThreads {
			*nthreads++
		}
	} else {
		if *nthreads > MinThreads {
			*nthreads--
		}
	}
}

func (t *Tuner) nextClevel() {
	if t.readaptFrom == ReadaptHard {
		// Force the blocksize to be recomputed from the heuristic.
		t.aux.BlockSize = 0
	}
	t.auxIndex++
	if t.aux.IncreasingClevel {
		if t.aux.Clevel <= MaxClevel-t.stepSize {
			t.aux.Clevel += t.stepSize
			if t.aux.Clevel == 9 && t.aux.Codec == ZSTD {
				// ZSTD level 9 is extremely slow; avoid it always.
				t.aux.Clevel = 8
			}
		}
	} else {
		if t.aux.Clevel > t.stepSize {
			t.aux.Clevel -= t.stepSize
		}
	}
}

func (t *Tuner) nextBlockSizeDelta(cctx Context) {
	t.auxIndex++
	stepFactor := t.stepSize - 1
	if t.aux.IncreasingBlock {
		newBlock := t.aux.BlockSize << t.stepSize
		if t.aux.BlockSize <= (MaxBlock>>stepFactor) && newBlock <= cctx.SourceSize() {
			t.aux.BlockSize = newBlock
		}
	} else {
		if t.aux.BlockSize >= (MinBlock << stepFactor) {
			t.aux.BlockSize >>= t.stepSize
		}
	}
}

// setCparams publishes aux onto the context, enforcing the clevel caps and
// resolving an auto (zero) blocksize.
func (t *Tuner) setCparams(cctx Context) {
	if t.config.CompMode == CompBalanced &&
		(t.aux.Codec == ZSTD || t.aux.Codec == ZLIB) && t.aux.Clevel >= 3 {
		t.aux.Clevel = 3
	}
	if t.config.CompMode == CompHCR && t.aux.Clevel >= 6 {
		t.aux.Clevel = 6
	}

	if t.aux.BlockSize == 0 {
		t.aux.BlockSize = computeBlockSize(t.aux.Codec, t.aux.Filter, t.aux.Clevel,
			cctx.TypeSize(), cctx.SourceSize(), cctx.BlockSize())
	}

	if t.dctx != nil {
		t.dctx.SetNThreadsDecomp(t.aux.NThreadsDecomp)
	} else {
		t.nthreadsDecomp = t.aux.NThreadsDecomp
	}

	cctx.SetCParams(t.aux)
}
