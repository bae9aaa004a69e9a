// Copyright 2024 The Blosc Developers. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package inference

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
)

// centroidPredictor is a minimal concrete Predictor: nearest-centroid
// classification over the normalized (cratio, cspeed) plane. The real
// tensor-model interpreter btune_model.cpp invokes (TensorFlow Lite) is a
// declared external collaborator this module does not implement; this
// predictor exists so cmd/btune-tune has something concrete to drive
// end-to-end, not as a stand-in for model accuracy.
type centroidPredictor struct {
	centroids []point
}

type point struct {
	Cratio float64 `json:"cratio"`
	Cspeed float64 `json:"cspeed"`
}

// NewCentroidPredictor loads a JSON array of per-category centroids
// (same ordering as Metadata.Categories) from path:
//
//	[{"cratio":0.1,"cspeed":-0.4}, {"cratio":1.2,"cspeed":0.3}, ...]
func NewCentroidPredictor(path string) (Predictor, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("inference: reading model %q: %w", path, err)
	}
	var centroids []point
	if err := json.Unmarshal(raw, &centroids); err != nil {
		return nil, fmt.Errorf("inference: parsing model %q: %w", path, err)
	}
	if len(centroids) == 0 {
		return nil, fmt.Errorf("inference: model %q has no centroids", path)
	}
	return &centroidPredictor{centroids: centroids}, nil
}

func (p *centroidPredictor) Predict(cratio, cspeed float64) (int, error) {
	best, bestDist := -1, math.Inf(1)
	for i, c := range p.centroids {
		dr, ds := cratio-c.Cratio, cspeed-c.Cspeed
		dist := dr*dr + ds*ds
		if dist < bestDist {
			bestDist, best = dist, i
		}
	}
	if best < 0 {
		return 0, fmt.Errorf("inference: no centroids to compare against")
	}
	return best, nil
}
