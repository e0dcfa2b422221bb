// Package storage persists model runs: a checkpoint document plus a CSV
// export of every series in the collection, one directory per run.
package storage

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/lewisjared/two-layer-model/internal/model"
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
	ID        string    `json:"id"`
	Scenario  string    `json:"scenario"`
	Timestamp time.Time `json:"timestamp"`
	TimeIndex int       `json:"time_index"`
	Steps     int       `json:"steps"`
	Variables []string  `json:"variables"`
}

// Save writes a run directory containing metadata, the model checkpoint
// and a CSV export of the collection.
func (s *Store) Save(scenario string, m *model.Model) (string, error) {
	runID := fmt.Sprintf("%s_%d", scenario, time.Now().Unix())
	runDir := filepath.Join(s.baseDir, runID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	meta := RunMetadata{
		ID:        runID,
		Scenario:  scenario,
		Timestamp: time.Now(),
		TimeIndex: m.TimeIndex(),
		Steps:     m.TimeAxis().Len(),
		Variables: m.Collection().Names(),
	}

	metaFile, err := os.Create(filepath.Join(runDir, "metadata.json"))
	if err != nil {
		return "", err
	}
	defer metaFile.Close()

	enc := json.NewEncoder(metaFile)
	enc.SetIndent("", "  ")
	if err := enc.Encode(meta); err != nil {
		return "", err
	}

	checkpoint, err := m.ToJSON()
	if err != nil {
		return "", err
	}
	if err := os.WriteFile(filepath.Join(runDir, "checkpoint.json"), checkpoint, 0644); err != nil {
		return "", err
	}

	csvFile, err := os.Create(filepath.Join(runDir, "series.csv"))
	if err != nil {
		return "", err
	}
	defer csvFile.Close()

	if err := WriteCSV(csvFile, m); err != nil {
		return "", err
	}
	return runID, nil
}

// WriteCSV exports the collection as one column per variable with a
// leading time column. Undefined samples are left empty.
func WriteCSV(out io.Writer, m *model.Model) error {
	w := csv.NewWriter(out)
	defer w.Flush()

	items := m.Collection().Items()
	header := []string{"time"}
	for _, item := range items {
		header = append(header, item.Name)
	}
	if err := w.Write(header); err != nil {
		return err
	}

	times := m.TimeAxis().Values()
	columns := make([][]float64, len(items))
	for i, item := range items {
		columns[i] = item.Series.Values()
	}

	for row, t := range times {
		record := []string{strconv.FormatFloat(t, 'f', -1, 64)}
		for _, col := range columns {
			if math.IsNaN(col[row]) {
				record = append(record, "")
				continue
			}
			record = append(record, strconv.FormatFloat(col[row], 'g', -1, 64))
		}
		if err := w.Write(record); err != nil {
			return err
		}
	}
	w.Flush()
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
		data, err := os.ReadFile(filepath.Join(s.baseDir, entry.Name(), "metadata.json"))
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

// LoadCheckpoint restores a saved model, rebuilding components through
// the registry.
func (s *Store) LoadCheckpoint(runID string, registry model.ComponentRegistry) (*model.Model, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, "checkpoint.json"))
	if err != nil {
		return nil, err
	}
	return model.FromJSON(data, registry)
}
