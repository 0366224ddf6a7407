package importer

import (
	"errors"
	"log/slog"
	"net/http"

	"Composite/internal/calc/composite"
	"Composite/internal/calc/premium/batch"
	"Composite/internal/metrics"
)

const MaxUploadSize = 10 << 20 // 10MB

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type Handler struct {
	Predictor batch.SamplePredictor
}

func (h *Handler) Import(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, MaxUploadSize)
	file, _, err := r.FormFile("file")
	if err != nil {
		composite.WriteError(w, http.StatusBadRequest, "File required")
		return
	}
	defer file.Close()

	samples, err := ReadSamples(file)
	if errors.Is(err, ErrEmptySheet) {
		composite.WriteError(w, http.StatusBadRequest, "Empty sheet")
		return
	}
	if err != nil {
		composite.WriteError(w, http.StatusBadRequest, "Invalid file")
		return
	}

	res, err := Calculate(h.Predictor, samples)
	if err != nil {
		composite.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}
	metrics.RecordBatch("xlsx", res.Count, res.Failed())

	if r.URL.Query().Get("format") != "xlsx" {
		composite.WriteJSON(w, http.StatusOK, res)
		return
	}
	w.Header().Set("Content-Type", xlsxContentType)
	w.Header().Set("Content-Disposition", "attachment; filename=\"predictions.xlsx\"")
	if err := WriteResults(w, res); err != nil {
		slog.Error("write predictions workbook", "error", err)
	}
}
