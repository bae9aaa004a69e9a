// Copyright 2024 The Blosc Developers. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

// Command btune-tune drives the btune.Tuner end-to-end over a file,
// using internal/codec and internal/shuffle as the concrete compression
// backend. It is a command-line driver that merely feeds chunks and
// prints statistics, kept separate from the core tuning package because
// a complete repository in this style always ships one.
package main

func main() {
	Execute()
}
