// Package store persists runs as a directory of metadata plus one CSV per
// recorded field.
package store

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/san-kum/neurodyn/internal/monitor"
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
	Model     string             `json:"model"`
	Synapse   string             `json:"synapse"`
	Timestamp time.Time          `json:"timestamp"`
	Seed      int64              `json:"seed"`
	Dt        float64            `json:"dt"`
	Duration  float64            `json:"duration"`
	Neurons   int                `json:"neurons"`
	Fields    []string           `json:"fields"`
	Metrics   map[string]float64 `json:"metrics"`
}

// seriesFile maps a "group.field" monitor key to its CSV filename.
func seriesFile(key string) string {
	return strings.ReplaceAll(key, ".", "_") + ".csv"
}

// Save writes one run directory: metadata.json plus a CSV per recorded
// field with a time column followed by one column per neuron.
func (s *Store) Save(meta RunMetadata, mon *monitor.Monitor) (string, error) {
	runID := fmt.Sprintf("%s_%d", meta.Model, time.Now().Unix())
	runDir := filepath.Join(s.baseDir, runID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	meta.ID = runID
	meta.Timestamp = time.Now()
	meta.Fields = mon.Fields()

	metaPath := filepath.Join(runDir, "metadata.json")
	metaFile, err := os.Create(metaPath)
	if err != nil {
		return "", err
	}
	defer metaFile.Close()

	enc := json.NewEncoder(metaFile)
	enc.SetIndent("", "  ")
	if err := enc.Encode(meta); err != nil {
		return "", err
	}

	for _, key := range meta.Fields {
		parts := strings.SplitN(key, ".", 2)
		samples, ok := mon.History(parts[0], parts[1])
		if !ok {
			continue
		}
		if err := writeSeries(filepath.Join(runDir, seriesFile(key)), samples); err != nil {
			return "", err
		}
	}

	return runID, nil
}

func writeSeries(path string, samples []monitor.Sample) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	if len(samples) == 0 {
		return nil
	}

	header := []string{"time"}
	for i := range samples[0].Values {
		header = append(header, fmt.Sprintf("n%d", i))
	}
	if err := w.Write(header); err != nil {
		return err
	}

	for _, sample := range samples {
		row := []string{strconv.FormatFloat(sample.Time, 'f', 6, 64)}
		for _, val := range sample.Values {
			row = append(row, strconv.FormatFloat(val, 'f', 6, 64))
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	return nil
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

// LoadSeries reads one recorded field back as per-step value rows plus the
// matching time axis.
func (s *Store) LoadSeries(runID, key string) ([][]float64, []float64, error) {
	path := filepath.Join(s.baseDir, runID, seriesFile(key))
	file, err := os.Open(path)
	if err != nil {
		return nil, nil, err
	}
	defer file.Close()

	r := csv.NewReader(file)
	r.FieldsPerRecord = -1

	records, err := r.ReadAll()
	if err != nil {
		return nil, nil, err
	}

	if len(records) < 2 {
		return [][]float64{}, []float64{}, nil
	}

	times := make([]float64, 0, len(records)-1)
	values := make([][]float64, 0, len(records)-1)

	for i := 1; i < len(records); i++ {
		record := records[i]
		if len(record) == 0 {
			continue
		}

		t, err := strconv.ParseFloat(record[0], 64)
		if err != nil {
			continue
		}
		times = append(times, t)

		row := make([]float64, 0, len(record)-1)
		for j := 1; j < len(record); j++ {
			val, err := strconv.ParseFloat(record[j], 64)
			if err != nil {
				continue
			}
			row = append(row, val)
		}
		values = append(values, row)
	}

	return values, times, nil
}
