// Copyright 2024 The Blosc Developers. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package btune

// isHCR reports whether codec/filter belongs to the "high compression
// ratio" class the blocksize heuristic favours with larger blocks. LZ4
// only counts when paired with bitshuffle; plain BloscLZ+bitshuffle is
// deliberately excluded, carried from the original classification
// without the usual justification for the exclusion.
func isHCR(codec Codec, filter Filter) bool {
	switch codec {
	case BloscLZ:
		return false
	case LZ4:
		return filter == BitShuffle
	case LZ4HC, ZLIB, ZSTD:
		return true
	default:
		return false
	}
}

// computeBlockSize is the non-adaptive default-blocksize rule.
// userBlockSize is whatever blocksize is currently published on the
// context; a non-zero value is treated as a caller-forced hint rather than
// something to search over.
func computeBlockSize(codec Codec, filter Filter, clevel int, typesize, sourceSize, userBlockSize int32) int32 {
	if sourceSize < typesize {
		return 1
	}

	blocksize := sourceSize
	switch {
	case userBlockSize != 0:
		blocksize = userBlockSize
		if blocksize < minBufferSize {
			blocksize = minBufferSize
		}
	case sourceSize >= L1:
		blocksize = L1
		if isHCR(codec, filter) {
			blocksize *= 2
		}
		switch clevel {
		case 0:
			blocksize /= 4
		case 1:
			blocksize /= 2
		case 2:
			blocksize *= 1
		case 3:
			blocksize *= 2
		case 4, 5:
			blocksize *= 4
		case 6, 7, 8:
			blocksize *= 8
		case 9:
			blocksize *= 8
			if isHCR(codec, filter) {
				blocksize *= 2
			}
		}
	}

	if clevel > 0 {
		if blocksize > 1<<16 {
			blocksize = 1 << 16
		}
		blocksize *= typesize
		if blocksize < 1<<16 {
			blocksize = 1 << 16
		}
	}

	if blocksize > sourceSize {
		blocksize = sourceSize
	}
	if blocksize > typesize {
		blocksize = blocksize / typesize * typesize
	}
	return blocksize
}

// NextBlockSize is the public next_blocksize(ctx) lifecycle hook: it
// overwrites ctx's blocksize from the best parameters currently in effect,
// ahead of next_cparams choosing this chunk's candidate.
func (t *Tuner) NextBlockSize(cctx Context) {
	bs := computeBlockSize(t.best.Codec, t.best.Filter, t.best.Clevel,
		cctx.TypeSize(), cctx.SourceSize(), cctx.BlockSize())
	cctx.SetBlockSize(bs)
}
