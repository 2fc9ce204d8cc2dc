package storage

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/san-kum/robosim/internal/sim"
)

const (
	metadataFile = "metadata.json"
	jointsFile   = "joints.csv"
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
	ID          string             `json:"id"`
	Model       string             `json:"model"`
	Description string             `json:"description,omitempty"`
	Timestamp   time.Time          `json:"timestamp"`
	Engine      string             `json:"engine"`
	Mode        string             `json:"mode"`
	Dt          float64            `json:"dt"`
	Duration    float64            `json:"duration"`
	Steps       int                `json:"steps"`
	Joints      []string           `json:"joints"`
	Faults      int                `json:"faults"`
	Metrics     map[string]float64 `json:"metrics"`
}

// NewRunID returns <model>_<first 8 hex digits of a random uuid>.
func NewRunID(model string) string {
	id := strings.ReplaceAll(uuid.NewString(), "-", "")
	return fmt.Sprintf("%s_%s", model, id[:8])
}

// Save writes metadata.json and joints.csv for one run. ID, Timestamp,
// Steps, Joints and Metrics are filled from the run when empty.
func (s *Store) Save(meta RunMetadata, result *sim.Result) (string, error) {
	if meta.ID == "" {
		meta.ID = NewRunID(meta.Model)
	}
	if meta.Timestamp.IsZero() {
		meta.Timestamp = time.Now()
	}
	meta.Steps = result.StepsTaken
	if meta.Metrics == nil {
		meta.Metrics = result.Metrics
	}
	if meta.Joints == nil {
		meta.Joints = jointNames(result)
	}

	runDir := filepath.Join(s.baseDir, meta.ID)
	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	metaFile, err := os.Create(filepath.Join(runDir, metadataFile))
	if err != nil {
		return "", err
	}
	defer metaFile.Close()

	enc := json.NewEncoder(metaFile)
	enc.SetIndent("", "  ")
	if err := enc.Encode(meta); err != nil {
		return "", err
	}

	csvFile, err := os.Create(filepath.Join(runDir, jointsFile))
	if err != nil {
		return "", err
	}
	defer csvFile.Close()

	w := csv.NewWriter(csvFile)
	defer w.Flush()

	header := []string{"step", "time"}
	for _, name := range meta.Joints {
		header = append(header, name+"_cmd", name+"_vel", name+"_enc")
	}
	if err := w.Write(header); err != nil {
		return "", err
	}

	for _, sample := range result.Samples {
		row := []string{
			strconv.Itoa(sample.Step),
			strconv.FormatFloat(sample.Time, 'f', 6, 64),
		}
		for _, name := range meta.Joints {
			j, _ := sample.Joint(name)
			row = append(row,
				strconv.FormatFloat(j.Commanded.Position, 'f', 6, 64),
				strconv.FormatFloat(j.Commanded.Velocity, 'f', 6, 64),
				strconv.FormatFloat(j.Sensed, 'f', 6, 64),
			)
		}
		if err := w.Write(row); err != nil {
			return "", err
		}
	}

	return meta.ID, w.Error()
}

func jointNames(result *sim.Result) []string {
	if len(result.Samples) == 0 {
		return []string{}
	}
	names := make([]string, 0, len(result.Samples[0].Joints))
	for _, j := range result.Samples[0].Joints {
		names = append(names, j.Name)
	}
	return names
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

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, metadataFile))
	if err != nil {
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}

	return &meta, nil
}

type JointSeries struct {
	Commanded []float64
	Velocity  []float64
	Sensed    []float64
}

type Series struct {
	Times  []float64
	Joints map[string]*JointSeries
	Order  []string
}

// LoadSeries reads joints.csv back into per-joint columns.
func (s *Store) LoadSeries(runID string) (*Series, error) {
	file, err := os.Open(filepath.Join(s.baseDir, runID, jointsFile))
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

	series := &Series{Joints: make(map[string]*JointSeries)}
	if len(records) == 0 {
		return series, nil
	}

	header := records[0]
	for i := 2; i+2 < len(header); i += 3 {
		name := strings.TrimSuffix(header[i], "_cmd")
		series.Order = append(series.Order, name)
		series.Joints[name] = &JointSeries{}
	}

	for _, record := range records[1:] {
		if len(record) < 2 {
			continue
		}
		t, err := strconv.ParseFloat(record[1], 64)
		if err != nil {
			continue
		}
		series.Times = append(series.Times, t)

		for k, name := range series.Order {
			js := series.Joints[name]
			col := 2 + 3*k
			js.Commanded = append(js.Commanded, parseField(record, col))
			js.Velocity = append(js.Velocity, parseField(record, col+1))
			js.Sensed = append(js.Sensed, parseField(record, col+2))
		}
	}

	return series, nil
}

func parseField(record []string, i int) float64 {
	if i >= len(record) {
		return 0
	}
	v, err := strconv.ParseFloat(record[i], 64)
	if err != nil {
		return 0
	}
	return v
}
