package storage

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/san-kum/boxdim/internal/analysis"
	"github.com/san-kum/boxdim/internal/boxcount"
	"github.com/san-kum/boxdim/internal/dynamo"
)

const (
	metadataFile   = "metadata.json"
	trajectoryFile = "trajectory.csv"
)

// ErrRunNotFound is returned when a run directory has no metadata.
var ErrRunNotFound = errors.New("storage: run not found")

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
	ID        string                      `json:"id"`
	System    string                      `json:"system"`
	Timestamp time.Time                   `json:"timestamp"`
	Params    dynamo.Params               `json:"params"`
	InitState dynamo.State                `json:"init_state"`
	T0        float64                     `json:"t0"`
	MaxTime   float64                     `json:"max_time"`
	Steps     int                         `json:"steps"`
	StepSize  float64                     `json:"step_size"`
	Region    boxcount.Region             `json:"region"`
	Scales    []analysis.ScalePoint       `json:"scales"`
	Dimension *analysis.DimensionEstimate `json:"dimension,omitempty"`
}

// Save writes metadata.json and trajectory.csv into a fresh run directory
// and returns the run ID.
// A failed save leaves no run directory behind.
func (s *Store) Save(meta RunMetadata, traj *dynamo.Trajectory) (_ string, err error) {
	runID := fmt.Sprintf("%s_%d_%s", meta.System, time.Now().Unix(), uuid.NewString()[:8])
	runDir := filepath.Join(s.baseDir, runID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}
	defer func() {
		if err != nil {
			os.RemoveAll(runDir)
		}
	}()

	meta.ID = runID
	if meta.Timestamp.IsZero() {
		meta.Timestamp = time.Now()
	}
	if traj != nil {
		meta.Steps = traj.Len()
		meta.StepSize = traj.Step
		meta.T0 = traj.T0
	}

	if err := writeJSON(filepath.Join(runDir, metadataFile), meta); err != nil {
		return "", fmt.Errorf("write metadata: %w", err)
	}
	if err := writeTrajectory(filepath.Join(runDir, trajectoryFile), traj); err != nil {
		return "", fmt.Errorf("write trajectory: %w", err)
	}

	return runID, nil
}

func writeJSON(path string, v any) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func writeTrajectory(path string, traj *dynamo.Trajectory) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write([]string{"t", "x", "y", "z", "dx", "dy", "dz"}); err != nil {
		return err
	}

	if traj != nil {
		times := traj.Times()
		row := make([]string, 7)
		for i, st := range traj.States {
			row[0] = formatFloat(times[i])
			for j := 0; j < 3; j++ {
				row[1+j] = formatFloat(st[j])
				row[4+j] = formatFloat(traj.Derivatives[i][j])
			}
			if err := w.Write(row); err != nil {
				return err
			}
		}
	}

	w.Flush()
	return w.Error()
}

// formatFloat keeps full precision so reloaded trajectories count the same
// cubes as the original.
func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

// List returns every readable run, oldest first.
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

		meta, err := s.Load(entry.Name())
		if err != nil {
			continue
		}
		runs = append(runs, *meta)
	}

	sort.Slice(runs, func(i, j int) bool {
		return runs[i].Timestamp.Before(runs[j].Timestamp)
	})
	return runs, nil
}

func (s *Store) runDir(runID string) (string, error) {
	if runID == "" || runID == "." || runID == ".." || strings.ContainsAny(runID, `/\`) {
		return "", fmt.Errorf("invalid run id %q: %w", runID, ErrRunNotFound)
	}
	return filepath.Join(s.baseDir, runID), nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	dir, err := s.runDir(runID)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(filepath.Join(dir, metadataFile))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%s: %w", runID, ErrRunNotFound)
		}
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, fmt.Errorf("decode metadata for %s: %w", runID, err)
	}

	return &meta, nil
}

// LoadTrajectory reads the states and derivatives of a saved run.
func (s *Store) LoadTrajectory(runID string) (*dynamo.Trajectory, error) {
	meta, err := s.Load(runID)
	if err != nil {
		return nil, err
	}

	file, err := os.Open(filepath.Join(s.baseDir, runID, trajectoryFile))
	if err != nil {
		return nil, err
	}
	defer file.Close()

	r := csv.NewReader(file)
	r.FieldsPerRecord = 7

	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read trajectory for %s: %w", runID, err)
	}

	traj := &dynamo.Trajectory{T0: meta.T0, Step: meta.StepSize}
	if len(records) < 2 {
		return traj, nil
	}

	traj.States = make([]dynamo.State, 0, len(records)-1)
	traj.Derivatives = make([]dynamo.State, 0, len(records)-1)
	for line, record := range records[1:] {
		var vals [6]float64
		for j := range vals {
			v, err := strconv.ParseFloat(record[j+1], 64)
			if err != nil {
				return nil, fmt.Errorf("%s line %d: %w", trajectoryFile, line+2, err)
			}
			vals[j] = v
		}
		traj.States = append(traj.States, dynamo.State{vals[0], vals[1], vals[2]})
		traj.Derivatives = append(traj.Derivatives, dynamo.State{vals[3], vals[4], vals[5]})
	}

	return traj, nil
}
