// Copyright 2024 The Blosc Developers. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

// Package inference loads the first-chunk model-driven codec/filter
// classifier: feature normalization metadata, an external model predictor
// (treated as a pure function), and the per-block majority vote that
// turns per-block predictions into one (codec, filter) pair for the
// whole chunk.
package inference

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/Blosc/BTune"
)

// Norm holds the (mean, std, min, max) normalization parameters for one
// feature, matching the "cratio"/"speed" objects in the BTUNE_METADATA
// JSON document.
type Norm struct {
	Mean float64 `json:"mean"`
	Std  float64 `json:"std"`
	Min  float64 `json:"min"`
	Max  float64 `json:"max"`
}

// Normalize applies ((x-mean)/std - min)/max, the exact transform
// btune_model.cpp's normalize() performs.
func (n Norm) Normalize(x float64) float64 {
	x -= n.Mean
	x /= n.Std
	x -= n.Min
	x /= n.Max
	return x
}

// Category is one (codec, filter) output class the model can predict,
// indexed by the model's output tensor position.
type Category struct {
	Codec  btune.Codec
	Filter btune.Filter
}

// Metadata is the parsed contents of the BTUNE_METADATA JSON file: per-
// feature normalization plus the ordered list of output categories.
type Metadata struct {
	Cratio     Norm
	Speed      Norm
	Categories []Category
}

type metadataJSON struct {
	Cratio     Norm       `json:"cratio"`
	Speed      Norm       `json:"speed"`
	Categories [][2]string `json:"categories"`
}

// LoadMetadata reads and parses the JSON document at path. The document
// has the shape:
//
//	{
//	  "cratio": {"mean":..,"std":..,"min":..,"max":..},
//	  "speed":  {"mean":..,"std":..,"min":..,"max":..},
//	  "categories": [["lz4","nofilter"], ["zstd","shuffle"], ...]
//	}
func LoadMetadata(path string) (*Metadata, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("inference: reading metadata: %w", err)
	}
	var doc metadataJSON
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("inference: parsing metadata: %w", err)
	}
	md := &Metadata{Cratio: doc.Cratio, Speed: doc.Speed}
	for _, pair := range doc.Categories {
		codec, err := parseCodec(pair[0])
		if err != nil {
			return nil, err
		}
		filter, err := parseFilter(pair[1])
		if err != nil {
			return nil, err
		}
		md.Categories = append(md.Categories, Category{Codec: codec, Filter: filter})
	}
	if len(md.Categories) == 0 {
		return nil, fmt.Errorf("inference: metadata has no categories")
	}
	return md, nil
}

func parseCodec(name string) (btune.Codec, error) {
	switch name {
	case "blosclz":
		return btune.BloscLZ, nil
	case "lz4":
		return btune.LZ4, nil
	case "lz4hc":
		return btune.LZ4HC, nil
	case "zlib":
		return btune.ZLIB, nil
	case "zstd":
		return btune.ZSTD, nil
	default:
		return 0, fmt.Errorf("inference: unknown codec %q in metadata", name)
	}
}

func parseFilter(name string) (btune.Filter, error) {
	switch name {
	case "nofilter":
		return btune.NoFilter, nil
	case "shuffle":
		return btune.Shuffle, nil
	case "bitshuffle":
		return btune.BitShuffle, nil
	default:
		return 0, fmt.Errorf("inference: unknown filter %q in metadata", name)
	}
}
