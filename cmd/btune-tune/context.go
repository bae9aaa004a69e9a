// Copyright 2024 The Blosc Developers. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package main

import "github.com/Blosc/BTune"

// memContext is a minimal btune.Context/btune.DecompContext backed by
// plain fields, standing in for a real compressing context (blosc2_context
// in the original). cmd/btune-tune is the one place in this repository
// that needs a concrete Context, since the root btune package only ever
// depends on the interface.
type memContext struct {
	typeSize       int32
	sourceSize     int32
	nThreadsComp   int
	nThreadsDecomp int

	cparams   btune.Params
	blockSize int32
	destSize  int32
}

func newMemContext(typeSize int32, nthreads int) *memContext {
	return &memContext{
		typeSize:       typeSize,
		nThreadsComp:   nthreads,
		nThreadsDecomp: nthreads,
	}
}

func (c *memContext) TypeSize() int32       { return c.typeSize }
func (c *memContext) SourceSize() int32     { return c.sourceSize }
func (c *memContext) NThreadsComp() int     { return c.nThreadsComp }
func (c *memContext) NThreadsDecomp() int   { return c.nThreadsDecomp }
func (c *memContext) SetNThreadsDecomp(n int) { c.nThreadsDecomp = n }

func (c *memContext) SetCParams(p btune.Params) {
	c.cparams = p
	c.blockSize = p.BlockSize
	c.nThreadsComp = p.NThreadsComp
}

func (c *memContext) SetBlockSize(blocksize int32) { c.blockSize = blocksize }
func (c *memContext) BlockSize() int32             { return c.blockSize }

func (c *memContext) DestSize() int32 { return c.destSize }
