// Copyright 2024 The Blosc Developers. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package inference

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func writeCentroids(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "model.json")
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))
	return path
}

func TestCentroidPredictorPicksNearest(t *testing.T) {
	path := writeCentroids(t, `[{"cratio":0,"cspeed":0}, {"cratio":10,"cspeed":10}]`)
	p, err := NewCentroidPredictor(path)
	require.NoError(t, err)

	cat, err := p.Predict(0.5, 0.5)
	require.NoError(t, err)
	require.Equal(t, 0, cat)

	cat, err = p.Predict(9, 11)
	require.NoError(t, err)
	require.Equal(t, 1, cat)
}

func TestNewCentroidPredictorRejectsEmpty(t *testing.T) {
	path := writeCentroids(t, `[]`)
	_, err := NewCentroidPredictor(path)
	require.Error(t, err)
}

func TestNewCentroidPredictorMissingFile(t *testing.T) {
	_, err := NewCentroidPredictor(filepath.Join(t.TempDir(), "missing.json"))
	require.Error(t, err)
}
