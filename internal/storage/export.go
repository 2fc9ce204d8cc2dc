package storage

import (
	"encoding/json"
	"io"
	"os"

	"github.com/san-kum/robosim/internal/sim"
)

type ExportData struct {
	RunMetadata
	Times   []float64              `json:"times"`
	Samples map[string]ExportJoint `json:"samples"`
}

type ExportJoint struct {
	Commanded []float64 `json:"commanded"`
	Velocity  []float64 `json:"velocity"`
	Sensed    []float64 `json:"sensed"`
}

func newExportData(meta RunMetadata, result *sim.Result) ExportData {
	data := ExportData{
		RunMetadata: meta,
		Times:       result.Times(),
		Samples:     make(map[string]ExportJoint),
	}
	if data.Metrics == nil {
		data.Metrics = result.Metrics
	}
	data.Steps = result.StepsTaken

	for _, s := range result.Samples {
		for _, j := range s.Joints {
			ej := data.Samples[j.Name]
			ej.Commanded = append(ej.Commanded, j.Commanded.Position)
			ej.Velocity = append(ej.Velocity, j.Commanded.Velocity)
			ej.Sensed = append(ej.Sensed, j.Sensed)
			data.Samples[j.Name] = ej
		}
	}
	return data
}

func ExportJSON(path string, meta RunMetadata, result *sim.Result) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	return WriteJSON(file, meta, result)
}

func WriteJSON(w io.Writer, meta RunMetadata, result *sim.Result) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(newExportData(meta, result))
}
