// Package export renders runs for consumption outside the CLI: JSON
// documents and SVG trajectory plots.
package export

import (
	"encoding/json"
	"io"
	"os"

	"github.com/elowan/kinetix/internal/odes"
)

type Document struct {
	System         string             `json:"system"`
	Species        []string           `json:"species"`
	Integrator     string             `json:"integrator"`
	Dt             float64            `json:"dt"`
	Duration       float64            `json:"duration"`
	Steps          int                `json:"steps"`
	Times          []float64          `json:"times"`
	Concentrations [][]float64        `json:"concentrations"`
	Metrics        map[string]float64 `json:"metrics,omitempty"`
	TotalDrift     float64            `json:"total_drift"`
}

func NewDocument(system string, species []string, integrator string, dt, duration float64, result *odes.Result) Document {
	doc := Document{
		System:         system,
		Species:        species,
		Integrator:     integrator,
		Dt:             dt,
		Duration:       duration,
		Steps:          len(result.Times),
		Times:          result.Times,
		Concentrations: make([][]float64, len(result.States)),
		Metrics:        result.Metrics,
		TotalDrift:     result.TotalDrift,
	}
	for i, s := range result.States {
		doc.Concentrations[i] = s
	}
	return doc
}

func WriteJSON(w io.Writer, doc Document) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(doc)
}

func ExportJSON(path string, doc Document) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()
	return WriteJSON(file, doc)
}
