package server

import (
	"net/http"

	"Composite/internal/calc/composite"
)

type Dataset struct {
	FiberTypes             int `json:"fiber_types"`
	MatrixTypes            int `json:"matrix_types"`
	TotalCombinations      int `json:"total_combinations"`
	LayupConfigs           int `json:"layup_configs"`
	ManufacturingProcesses int `json:"manufacturing_processes"`
}

type Info struct {
	Name        string            `json:"name"`
	Version     string            `json:"version"`
	Status      string            `json:"status"`
	Method      string            `json:"method"`
	Description string            `json:"description"`
	Dataset     Dataset           `json:"dataset"`
	Endpoints   map[string]string `json:"endpoints"`
	Usage       map[string]any    `json:"usage"`
}

var endpoints = map[string]string{
	"GET /":                    "Web interface",
	"GET /health":              "Health check",
	"GET /api":                 "API information",
	"POST /api/predict":        "Single material prediction",
	"POST /api/predict/batch":  "Batch predictions",
	"POST /api/predict/import": "Batch predictions from an XLSX upload (?format=xlsx for a workbook reply)",
	"POST /api/predict/report": "Single prediction as a PDF report",
	"GET /api/materials":       "Material database",
	"GET /api/options":         "Available options",
	"GET /metrics":             "Prometheus metrics",
}

func APIInfo(w http.ResponseWriter, r *http.Request) {
	composite.WriteJSON(w, http.StatusOK, Info{
		Name:        Name,
		Version:     Version,
		Status:      "active",
		Method:      "Empirical formulas with rule of mixtures",
		Description: "Predicts mechanical properties of fiber-reinforced composites",
		Dataset: Dataset{
			FiberTypes:             len(composite.AllFibers),
			MatrixTypes:            len(composite.AllMatrices),
			TotalCombinations:      len(composite.AllFibers) * len(composite.AllMatrices),
			LayupConfigs:           len(composite.AllLayups),
			ManufacturingProcesses: len(composite.AllProcesses),
		},
		Endpoints: endpoints,
		Usage: map[string]any{
			"example_request": composite.Request{
				FiberType:           string(composite.Carbon),
				MatrixType:          string(composite.Epoxy),
				FiberVolumeFraction: composite.ReferenceFraction,
				Layup:               string(composite.UD0),
				Manufacturing:       string(composite.Autoclave),
			},
		},
	})
}
