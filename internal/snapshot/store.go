// Package snapshot persists runs to disk. A run directory holds
// metadata.json (human-inspectable summary), state.gob (the exact engine
// state, bit-preserving for resume) and history.csv (per-step mu/E/t).
package snapshot

import (
	"encoding/csv"
	"encoding/gob"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/Scheiermann/supersolids-notes/internal/driver"
	"github.com/Scheiermann/supersolids-notes/internal/engine"
)

type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

type RunMetadata struct {
	ID        string             `json:"id"`
	Timestamp time.Time          `json:"timestamp"`
	Dim       int                `json:"dim"`
	Mode      string             `json:"mode"`
	Dt        float64            `json:"dt"`
	G         float64            `json:"g"`
	GDipole   float64            `json:"g_dipole"`
	Steps     int                `json:"steps"`
	Time      float64            `json:"time"`
	Mu        float64            `json:"mu"`
	Energy    float64            `json:"energy"`
	Seed      int64              `json:"seed"`
	Converged bool               `json:"converged"`
	Diverged  bool               `json:"diverged"`
	Metrics   map[string]float64 `json:"metrics"`
}

// Save writes a finished (or interrupted) run under a fresh run directory
// and returns its ID. The engine state goes through gob so every float
// round-trips exactly; resumed runs must continue bit-identically.
func (s *Store) Save(eng *engine.Engine, seed int64, result *driver.Result) (string, error) {
	snap := eng.Snapshot()
	params := eng.Params()

	runID := fmt.Sprintf("gpe%dd_%d", eng.Grid().Dim(), time.Now().Unix())
	runDir := filepath.Join(s.baseDir, runID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	meta := RunMetadata{
		ID:        runID,
		Timestamp: time.Now(),
		Dim:       eng.Grid().Dim(),
		Mode:      params.Mode.String(),
		Dt:        params.Dt,
		G:         params.G,
		GDipole:   params.GDipole,
		Steps:     snap.Steps,
		Time:      snap.Time,
		Mu:        snap.Mu,
		Energy:    snap.Energy,
		Seed:      seed,
	}
	if result != nil {
		meta.Converged = result.Converged
		meta.Diverged = result.Diverged
		meta.Metrics = result.Metrics
	}

	if err := writeMetadata(filepath.Join(runDir, "metadata.json"), meta); err != nil {
		return "", err
	}

	if err := writeState(filepath.Join(runDir, "state.gob"), snap); err != nil {
		return "", err
	}

	if result != nil {
		if err := writeHistory(filepath.Join(runDir, "history.csv"), result); err != nil {
			return "", err
		}
	}

	return runID, nil
}

func writeMetadata(path string, meta RunMetadata) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	enc := json.NewEncoder(file)
	enc.SetIndent("", "  ")
	return enc.Encode(meta)
}

func writeState(path string, snap engine.Snapshot) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	return gob.NewEncoder(file).Encode(snap)
}

func writeHistory(path string, result *driver.Result) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	w := csv.NewWriter(file)
	defer w.Flush()

	if err := w.Write([]string{"time", "mu", "energy"}); err != nil {
		return err
	}
	for i := range result.Times {
		row := []string{
			strconv.FormatFloat(result.Times[i], 'g', -1, 64),
			strconv.FormatFloat(result.Mu[i], 'g', -1, 64),
			strconv.FormatFloat(result.Energy[i], 'g', -1, 64),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	return w.Error()
}

func (s *Store) List() ([]RunMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []RunMetadata{}, nil
		}
		return nil, err
	}

	runs := make([]RunMetadata, 0)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}

		metaPath := filepath.Join(s.baseDir, entry.Name(), "metadata.json")
		data, err := os.ReadFile(metaPath)
		if err != nil {
			continue
		}

		var meta RunMetadata
		if err := json.Unmarshal(data, &meta); err != nil {
			continue
		}

		runs = append(runs, meta)
	}

	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	metaPath := filepath.Join(s.baseDir, runID, "metadata.json")
	data, err := os.ReadFile(metaPath)
	if err != nil {
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}

	return &meta, nil
}

// LoadSnapshot reads back the exact engine state of a saved run.
func (s *Store) LoadSnapshot(runID string) (engine.Snapshot, error) {
	var snap engine.Snapshot

	file, err := os.Open(filepath.Join(s.baseDir, runID, "state.gob"))
	if err != nil {
		return snap, err
	}
	defer file.Close()

	err = gob.NewDecoder(file).Decode(&snap)
	return snap, err
}

func historyPath(baseDir, runID string) string {
	return filepath.Join(baseDir, runID, "history.csv")
}

// LoadHistory reads the per-step mu/E/t columns of a saved run.
func (s *Store) LoadHistory(runID string) (times, mu, energy []float64, err error) {
	file, err := os.Open(historyPath(s.baseDir, runID))
	if err != nil {
		return nil, nil, nil, err
	}
	defer file.Close()

	r := csv.NewReader(file)
	records, err := r.ReadAll()
	if err != nil {
		return nil, nil, nil, err
	}

	for i := 1; i < len(records); i++ {
		record := records[i]
		if len(record) < 3 {
			continue
		}

		t, err := strconv.ParseFloat(record[0], 64)
		if err != nil {
			continue
		}
		m, err := strconv.ParseFloat(record[1], 64)
		if err != nil {
			continue
		}
		e, err := strconv.ParseFloat(record[2], 64)
		if err != nil {
			continue
		}

		times = append(times, t)
		mu = append(mu, m)
		energy = append(energy, e)
	}

	return times, mu, energy, nil
}
