package batch

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"Composite/internal/calc/composite"
	"Composite/internal/metrics"
)

type Handler struct {
	Predictor SamplePredictor
}

func (h *Handler) Predict(w http.ResponseWriter, r *http.Request) {
	var input Input
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		slog.Error("decode batch request", "error", err)
		composite.WriteError(w, http.StatusInternalServerError, err.Error())
		return
	}
	res, err := Calculate(h.Predictor, input.Samples)
	if errors.Is(err, ErrNoSamples) {
		composite.WriteError(w, http.StatusBadRequest, "No samples provided")
		return
	}
	if err != nil {
		composite.WriteError(w, http.StatusInternalServerError, err.Error())
		return
	}
	metrics.RecordBatch("json", res.Count, res.Failed())
	composite.WriteJSON(w, http.StatusOK, res)
}
