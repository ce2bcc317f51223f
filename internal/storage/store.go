// Package storage persists finished simulation runs: one directory per run
// holding metadata.json and telemetry.csv.
package storage

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/san-kum/magspin/internal/rotor"
	"github.com/san-kum/magspin/internal/session"
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
	ID        string       `json:"id"`
	Timestamp time.Time    `json:"timestamp"`
	TargetRPM float64      `json:"target_rpm"`
	Duration  float64      `json:"duration"`
	Tick      float64      `json:"tick"`
	Dt        float64      `json:"dt"`
	FinalMode string       `json:"final_mode"`
	FinalRPM  float64      `json:"final_rpm"`
	Params    rotor.Params `json:"params"`
}

// Save writes one finished session to a new run directory and returns the
// run id.
func (s *Store) Save(sess *session.Session, targetRPM, tick float64) (string, error) {
	runID := fmt.Sprintf("run_%d", time.Now().Unix())
	runDir := filepath.Join(s.baseDir, runID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	meta := RunMetadata{
		ID:        runID,
		Timestamp: time.Now(),
		TargetRPM: targetRPM,
		Duration:  sess.State().T,
		Tick:      tick,
		Dt:        sess.Dt,
		FinalMode: sess.Mode().String(),
		FinalRPM:  rotor.RPM(sess.State().Omega),
		Params:    sess.Params(),
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

	csvFile, err := os.Create(filepath.Join(runDir, "telemetry.csv"))
	if err != nil {
		return "", err
	}
	defer csvFile.Close()

	if err := WriteSamples(csvFile, sess.History()); err != nil {
		return "", err
	}
	return runID, nil
}

// WriteSamples streams telemetry samples as CSV.
func WriteSamples(out io.Writer, samples []session.Sample) error {
	w := csv.NewWriter(out)
	defer w.Flush()

	if err := w.Write([]string{"time", "rpm", "tcoil", "ploss", "mode"}); err != nil {
		return err
	}
	for _, smp := range samples {
		row := []string{
			strconv.FormatFloat(smp.T, 'f', 6, 64),
			strconv.FormatFloat(smp.RPM, 'f', 6, 64),
			strconv.FormatFloat(smp.Tcoil, 'f', 6, 64),
			strconv.FormatFloat(smp.PLoss, 'f', 6, 64),
			smp.Mode.String(),
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

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, "metadata.json"))
	if err != nil {
		return nil, err
	}
	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}
	return &meta, nil
}

// LoadSamples reads a run's telemetry back, tolerating truncated rows.
func (s *Store) LoadSamples(runID string) ([]session.Sample, error) {
	file, err := os.Open(filepath.Join(s.baseDir, runID, "telemetry.csv"))
	if err != nil {
		return nil, err
	}
	defer file.Close()

	r := csv.NewReader(file)
	r.FieldsPerRecord = -1

	records, err := r.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) < 2 {
		return []session.Sample{}, nil
	}

	samples := make([]session.Sample, 0, len(records)-1)
	for _, record := range records[1:] {
		if len(record) < 5 {
			continue
		}
		t, err := strconv.ParseFloat(record[0], 64)
		if err != nil {
			continue
		}
		rpm, _ := strconv.ParseFloat(record[1], 64)
		tcoil, _ := strconv.ParseFloat(record[2], 64)
		ploss, _ := strconv.ParseFloat(record[3], 64)
		samples = append(samples, session.Sample{
			T:     t,
			RPM:   rpm,
			Tcoil: tcoil,
			PLoss: ploss,
			Mode:  parseMode(record[4]),
		})
	}
	return samples, nil
}

func parseMode(s string) rotor.Mode {
	for _, m := range []rotor.Mode{rotor.Idle, rotor.Spinup, rotor.Hold, rotor.Brake, rotor.Fault} {
		if m.String() == s {
			return m
		}
	}
	return rotor.Idle
}
