package report

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"Composite/internal/calc/composite"
	"github.com/phpdave11/gofpdf"
)

type Meta struct {
	Project string `json:"project"`
	Author  string `json:"author"`
	Title   string `json:"title"`
	Notes   string `json:"notes"`
}

type Report struct {
	Meta
	Input         composite.Request
	Baseline      composite.Record
	VfFactor      float64
	LayupFactor   float64
	ProcessFactor float64
	TotalFactor   float64
	Predictions   composite.Properties
	Date          time.Time
}

// Build assembles a report for an already validated request.
func Build(p *composite.Predictor, req composite.Request, meta Meta) Report {
	if meta.Title == "" {
		meta.Title = "Composite Property Report"
	}
	return Report{
		Meta:          meta,
		Input:         req,
		Baseline:      p.Baseline(req),
		VfFactor:      req.FiberVolumeFraction / composite.ReferenceFraction,
		LayupFactor:   p.LayupFactor(req.Layup),
		ProcessFactor: p.ProcessFactor(req.Manufacturing),
		TotalFactor:   p.Factor(req),
		Predictions:   p.Predict(req),
		Date:          time.Now(),
	}
}

func Render(w io.Writer, rep Report) error {
	pdf := gofpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(0, 10, tr(rep.Title))
	pdf.Ln(12)
	pdf.SetFont("Helvetica", "", 11)
	pdf.Cell(0, 6, tr(fmt.Sprintf("Project: %s", rep.Project)))
	pdf.Ln(6)
	pdf.Cell(0, 6, tr(fmt.Sprintf("Author: %s", rep.Author)))
	pdf.Ln(6)
	pdf.Cell(0, 6, fmt.Sprintf("Date: %s", rep.Date.Format("2006-01-02")))
	pdf.Ln(10)

	section(pdf, "Input")
	rows := [][2]string{
		{"Fiber type", rep.Input.FiberType},
		{"Matrix type", rep.Input.MatrixType},
		{"Fiber volume fraction", fmt.Sprintf("%.2f", rep.Input.FiberVolumeFraction)},
		{"Layup", rep.Input.Layup},
		{"Manufacturing", rep.Input.Manufacturing},
	}
	table(pdf, tr, rows)

	section(pdf, "Applied factors")
	table(pdf, tr, [][2]string{
		{"Volume fraction (Vf / 0.6)", fmt.Sprintf("%.3f", rep.VfFactor)},
		{"Layup", fmt.Sprintf("%.2f", rep.LayupFactor)},
		{"Manufacturing", fmt.Sprintf("%.2f", rep.ProcessFactor)},
		{"Total", fmt.Sprintf("%.3f", rep.TotalFactor)},
	})

	section(pdf, "Predicted properties")
	p := rep.Predictions
	table(pdf, tr, [][2]string{
		{"Tensile strength", fmt.Sprintf("%.1f MPa", p.TensileStrengthMPa)},
		{"Tensile modulus", fmt.Sprintf("%.1f GPa", p.TensileModulusGPa)},
		{"Compressive strength", fmt.Sprintf("%.1f MPa", p.CompressiveStrengthMPa)},
		{"Flexural strength", fmt.Sprintf("%.1f MPa", p.FlexuralStrengthMPa)},
		{"Flexural modulus", fmt.Sprintf("%.1f GPa", p.FlexuralModulusGPa)},
		{"Interlaminar shear strength", fmt.Sprintf("%.1f MPa", p.ILSSMPa)},
		{"Impact energy", fmt.Sprintf("%.1f J", p.ImpactEnergyJ)},
	})

	if rep.Notes != "" {
		section(pdf, "Notes")
		pdf.MultiCell(0, 6, tr(rep.Notes), "", "L", false)
	}
	pdf.Ln(4)
	pdf.SetFont("Helvetica", "I", 9)
	pdf.MultiCell(0, 5, "Empirical estimate scaled from literature baselines at Vf = 0.6. Not a substitute for coupon testing.", "", "L", false)

	return pdf.Output(w)
}

func section(pdf *gofpdf.Fpdf, title string) {
	pdf.SetFont("Helvetica", "B", 12)
	pdf.Cell(0, 8, title)
	pdf.Ln(8)
	pdf.SetFont("Helvetica", "", 11)
}

func table(pdf *gofpdf.Fpdf, tr func(string) string, rows [][2]string) {
	for _, row := range rows {
		pdf.CellFormat(80, 6, tr(row[0]), "1", 0, "L", false, 0, "")
		pdf.CellFormat(80, 6, tr(row[1]), "1", 1, "L", false, 0, "")
	}
	pdf.Ln(4)
}

type Handler struct {
	Predictor *composite.Predictor
}

func (h *Handler) Generate(w http.ResponseWriter, r *http.Request) {
	var body map[string]any
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		composite.WriteError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	req, err := composite.ParseRequest(body)
	if err == nil {
		err = req.Validate()
	}
	if err != nil {
		composite.WriteError(w, http.StatusBadRequest, composite.ErrorMessage(err))
		return
	}

	rep := Build(h.Predictor, req, Meta{
		Project: str(body, "project"),
		Author:  str(body, "author"),
		Title:   str(body, "title"),
		Notes:   str(body, "notes"),
	})

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", "attachment; filename=\"composite-report.pdf\"")
	if err := Render(w, rep); err != nil {
		slog.Error("render report", "error", err)
		http.Error(w, "Report generation error", http.StatusInternalServerError)
		return
	}
}

func str(m map[string]any, key string) string {
	s, _ := m[key].(string)
	return s
}
