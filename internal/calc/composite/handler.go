package composite

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"Composite/internal/metrics"
)

const Method = "empirical_formulas"

const MsgFractionRange = "Fiber volume fraction must be between 0.3 and 0.7"

var Units = map[string]string{
	"strength":      "MPa",
	"modulus":       "GPa",
	"ILSS":          "MPa",
	"impact_energy": "J",
}

var RecordUnits = map[string]string{
	"ts":   "MPa (Tensile Strength)",
	"tm":   "GPa (Tensile Modulus)",
	"cs":   "MPa (Compressive Strength)",
	"fs":   "MPa (Flexural Strength)",
	"fm":   "GPa (Flexural Modulus)",
	"ilss": "MPa (Interlaminar Shear Strength)",
	"ie":   "J (Impact Energy)",
}

type PredictResponse struct {
	Success     bool              `json:"success"`
	Method      string            `json:"method"`
	Input       Echo              `json:"input"`
	Predictions Properties        `json:"predictions"`
	Units       map[string]string `json:"units"`
}

// Echo is the request as the client sent it. Categorical fields keep the raw
// decoded value, so a number sent as fiber_type comes back as that number.
type Echo struct {
	FiberType           any     `json:"fiber_type"`
	MatrixType          any     `json:"matrix_type"`
	FiberVolumeFraction float64 `json:"fiber_volume_fraction"`
	Layup               any     `json:"layup"`
	Manufacturing       any     `json:"manufacturing"`
}

func EchoInput(sample map[string]any, req Request) Echo {
	raw := func(key, parsed string) any {
		if v, ok := sample[key]; ok {
			return v
		}
		return parsed
	}
	return Echo{
		FiberType:           raw("fiber_type", req.FiberType),
		MatrixType:          raw("matrix_type", req.MatrixType),
		FiberVolumeFraction: req.FiberVolumeFraction,
		Layup:               raw("layup", req.Layup),
		Manufacturing:       raw("manufacturing", req.Manufacturing),
	}
}

type ErrorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

type MaterialsResponse struct {
	Success  bool              `json:"success"`
	Database Catalog           `json:"database"`
	Note     string            `json:"note"`
	Units    map[string]string `json:"units"`
}

type FractionRange struct {
	Min         float64 `json:"min"`
	Max         float64 `json:"max"`
	Recommended float64 `json:"recommended"`
}

type Options struct {
	FiberTypes          []Fiber       `json:"fiber_types"`
	MatrixTypes         []Matrix      `json:"matrix_types"`
	Layups              []Layup       `json:"layups"`
	Manufacturing       []Process     `json:"manufacturing"`
	FiberVolumeFraction FractionRange `json:"fiber_volume_fraction"`
}

type Factors struct {
	Layup         LayupFactors   `json:"layup"`
	Manufacturing ProcessFactors `json:"manufacturing"`
}

type OptionsResponse struct {
	Success bool    `json:"success"`
	Options Options `json:"options"`
	Factors Factors `json:"factors"`
}

type Handler struct {
	Predictor *Predictor
}

func NewHandler(p *Predictor) *Handler {
	return &Handler{Predictor: p}
}

// PredictSample parses and predicts one decoded sample without the range
// check. Batch and spreadsheet items go through here.
func (h *Handler) PredictSample(sample map[string]any) (Request, Properties, error) {
	req, err := ParseRequest(sample)
	if err != nil {
		return Request{}, Properties{}, err
	}
	return req, h.PredictRequest(req), nil
}

func (h *Handler) PredictRequest(req Request) Properties {
	fiber := h.Predictor.ResolveFiber(req.FiberType)
	metrics.RecordPrediction(string(fiber), string(h.Predictor.ResolveMatrix(fiber, req.MatrixType)))
	return h.Predictor.Predict(req)
}

// ErrorMessage renders a sample error the way clients expect to read it.
func ErrorMessage(err error) string {
	switch {
	case errors.Is(err, ErrFractionOutOfRange):
		return MsgFractionRange
	case errors.Is(err, ErrInvalidFraction):
		return "Invalid input: " + err.Error()
	default:
		return err.Error()
	}
}

func (h *Handler) Predict(w http.ResponseWriter, r *http.Request) {
	var sample map[string]any
	if err := json.NewDecoder(r.Body).Decode(&sample); err != nil || sample == nil {
		slog.Error("decode predict request", "error", err)
		WriteError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	req, err := ParseRequest(sample)
	if err == nil {
		err = req.Validate()
	}
	if err != nil {
		WriteError(w, http.StatusBadRequest, ErrorMessage(err))
		return
	}
	WriteJSON(w, http.StatusOK, PredictResponse{
		Success:     true,
		Method:      Method,
		Input:       EchoInput(sample, req),
		Predictions: h.PredictRequest(req),
		Units:       Units,
	})
}

func (h *Handler) Materials(w http.ResponseWriter, r *http.Request) {
	WriteJSON(w, http.StatusOK, MaterialsResponse{
		Success:  true,
		Database: h.Predictor.Catalog(),
		Note:     "Base values at fiber volume fraction = 0.6",
		Units:    RecordUnits,
	})
}

func (h *Handler) Options(w http.ResponseWriter, r *http.Request) {
	WriteJSON(w, http.StatusOK, BuildOptions(h.Predictor))
}

// BuildOptions lists the accepted inputs in catalog order plus both factor
// tables.
func BuildOptions(p *Predictor) OptionsResponse {
	return OptionsResponse{
		Success: true,
		Options: Options{
			FiberTypes:    AllFibers,
			MatrixTypes:   AllMatrices,
			Layups:        AllLayups,
			Manufacturing: AllProcesses,
			FiberVolumeFraction: FractionRange{
				Min:         MinFraction,
				Max:         MaxFraction,
				Recommended: ReferenceFraction,
			},
		},
		Factors: Factors{
			Layup:         p.LayupFactors(),
			Manufacturing: p.ProcessFactors(),
		},
	}
}

func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("encode response", "error", err)
	}
}

func WriteError(w http.ResponseWriter, status int, msg string) {
	WriteJSON(w, status, ErrorResponse{Success: false, Error: msg})
}
