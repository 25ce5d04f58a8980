// Package artifact persists trained model snapshots as a single JSON file,
// so estimator state is either fully present or fully absent on disk.
package artifact

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/abhijithns29/propchain/internal/domain"
)

// Load reads a model snapshot from path. A missing file is the untrained
// state and returns (nil, nil); a corrupt or inconsistent file is an error.
func Load(path string) (*domain.ModelSnapshot, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read model artifact: %w", err)
	}

	var snap domain.ModelSnapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("parse model artifact: %w", err)
	}
	if err := validate(&snap); err != nil {
		return nil, fmt.Errorf("invalid model artifact %s: %w", path, err)
	}
	return &snap, nil
}

// Save writes the snapshot to path via a temp-file rename, so a concurrent
// Load never observes a partially written artifact.
func Save(path string, snap *domain.ModelSnapshot) error {
	if err := validate(snap); err != nil {
		return fmt.Errorf("refusing to save invalid artifact: %w", err)
	}

	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return fmt.Errorf("encode model artifact: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), ".model-*.json")
	if err != nil {
		return fmt.Errorf("create temp artifact: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write model artifact: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close model artifact: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("replace model artifact: %w", err)
	}
	return nil
}

// validate checks that feature order, scaler, and weights agree in width.
func validate(snap *domain.ModelSnapshot) error {
	if snap == nil {
		return errors.New("nil snapshot")
	}
	n := len(snap.FeatureNames)
	if n == 0 {
		return errors.New("no feature names")
	}
	if len(snap.Scaler.Mean) != n || len(snap.Scaler.Scale) != n {
		return fmt.Errorf("scaler width %d/%d does not match %d features",
			len(snap.Scaler.Mean), len(snap.Scaler.Scale), n)
	}
	if len(snap.Model.Weights) != n {
		return fmt.Errorf("model has %d weights for %d features", len(snap.Model.Weights), n)
	}
	return nil
}
