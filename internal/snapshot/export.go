package snapshot

import (
	"encoding/json"
	"io"
	"os"
)

type ExportData struct {
	ID      string             `json:"id"`
	Mode    string             `json:"mode"`
	Dt      float64            `json:"dt"`
	G       float64            `json:"g"`
	GDipole float64            `json:"g_dipole"`
	Steps   int                `json:"steps"`
	Times   []float64          `json:"times"`
	Mu      []float64          `json:"mu"`
	Energy  []float64          `json:"energy"`
	Metrics map[string]float64 `json:"metrics"`
}

// ExportJSON writes a saved run's history as indented JSON.
func (s *Store) ExportJSON(w io.Writer, runID string) error {
	meta, err := s.Load(runID)
	if err != nil {
		return err
	}

	times, mu, energy, err := s.LoadHistory(runID)
	if err != nil {
		return err
	}

	data := ExportData{
		ID:      meta.ID,
		Mode:    meta.Mode,
		Dt:      meta.Dt,
		G:       meta.G,
		GDipole: meta.GDipole,
		Steps:   meta.Steps,
		Times:   times,
		Mu:      mu,
		Energy:  energy,
		Metrics: meta.Metrics,
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(data)
}

// ExportCSV copies a saved run's history.csv to the writer.
func (s *Store) ExportCSV(w io.Writer, runID string) error {
	file, err := os.Open(historyPath(s.baseDir, runID))
	if err != nil {
		return err
	}
	defer file.Close()

	_, err = io.Copy(w, file)
	return err
}
