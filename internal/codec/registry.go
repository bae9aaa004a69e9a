// Copyright 2024 The Blosc Developers. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package codec

import (
	"sync"

	"github.com/Blosc/BTune/internal/entropyprobe"
)

// EntropyProbeID is the codec id the entropy probe registers itself
// under, matching ENTROPY_PROBE_ID / codec id 244 in
// blosc2_entropy_prober.c.
const EntropyProbeID = 244

var registerOnce sync.Once

// RegisterEntropyProbe registers the entropy-probe pseudo-codec with the
// process-wide registry exactly once, no matter how many times it is
// called — modeling btune_model.cpp's b2ep_register_codec() call as an
// explicit idempotent operation rather than relying on package
// initializer ordering.
func RegisterEntropyProbe() {
	registerOnce.Do(func() {
		globalRegistry.register(EntropyProbeID, "entropy_probe", probeEncode)
	})
}

type encodeFunc func(src []byte) (cbytes int, err error)

type registry struct {
	mu    sync.Mutex
	byID  map[int]string
	codec map[int]encodeFunc
}

var globalRegistry = &registry{
	byID:  make(map[int]string),
	codec: make(map[int]encodeFunc),
}

func (r *registry) register(id int, name string, enc encodeFunc) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byID[id] = name
	r.codec[id] = enc
}

func probeEncode(src []byte) (int, error) {
	cratio := entropyprobe.GetCratio(src, 3, 3)
	return entropyprobe.EstimatedCBytes(len(src), cratio), nil
}

// ProbeEstimate runs the registered entropy-probe codec (registering it
// on first use) and reports the estimated compressed size of src, without
// producing a decodable byte stream — it has no decoder, matching
// blosc2_codec{.decoder = NULL} in the original; it is intended to be
// invoked in instrumented mode only.
func ProbeEstimate(src []byte) (int, error) {
	RegisterEntropyProbe()
	globalRegistry.mu.Lock()
	enc := globalRegistry.codec[EntropyProbeID]
	globalRegistry.mu.Unlock()
	return enc(src)
}
