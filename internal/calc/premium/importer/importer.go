package importer

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"Composite/internal/calc/premium/batch"
	"github.com/xuri/excelize/v2"
)

var ErrEmptySheet = errors.New("empty sheet")

// Columns of an import sheet, in order. The first row is a header.
var Columns = []string{"fiber_type", "matrix_type", "fiber_volume_fraction", "layup", "manufacturing"}

var propertyHeaders = []string{
	"tensile_strength_MPa",
	"tensile_modulus_GPa",
	"compressive_strength_MPa",
	"flexural_strength_MPa",
	"flexural_modulus_GPa",
	"ILSS_MPa",
	"impact_energy_J",
}

type Sample struct {
	Row    int
	Values map[string]any
}

// ReadSamples loads the first sheet of an XLSX workbook. Blank cells are left
// out of the sample so the request defaults apply.
func ReadSamples(r io.Reader) ([]Sample, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	sheet := f.GetSheetName(0)
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheet, err)
	}
	if len(rows) < 2 {
		return nil, ErrEmptySheet
	}

	var samples []Sample
	for i := 1; i < len(rows); i++ {
		values := parseRow(rows[i])
		if len(values) == 0 {
			continue
		}
		samples = append(samples, Sample{Row: i + 1, Values: values})
	}
	if len(samples) == 0 {
		return nil, ErrEmptySheet
	}
	return samples, nil
}

func parseRow(row []string) map[string]any {
	values := make(map[string]any, len(Columns))
	for i, key := range Columns {
		if i >= len(row) {
			break
		}
		cell := strings.TrimSpace(row[i])
		if cell == "" {
			continue
		}
		values[key] = cell
	}
	return values
}

// Calculate runs the samples through batch semantics and tags each item
// with its sheet row.
func Calculate(p batch.SamplePredictor, samples []Sample) (batch.Result, error) {
	in := make([]any, len(samples))
	for i, s := range samples {
		in[i] = s.Values
	}
	res, err := batch.Calculate(p, in)
	if err != nil {
		return batch.Result{}, err
	}
	for i := range res.Results {
		res.Results[i].Row = samples[i].Row
	}
	return res, nil
}

// WriteResults renders batch items as a workbook: the input columns, the
// seven predicted properties, then status and error.
func WriteResults(w io.Writer, res batch.Result) error {
	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Predictions"
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return err
	}

	header := make([]any, 0, len(Columns)+len(propertyHeaders)+2)
	for _, c := range Columns {
		header = append(header, c)
	}
	for _, c := range propertyHeaders {
		header = append(header, c)
	}
	header = append(header, "status", "error")
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return err
	}

	for i, item := range res.Results {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		row := resultRow(item)
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return err
		}
	}
	return f.Write(w)
}

func resultRow(item batch.Item) []any {
	in, _ := item.Input.(map[string]any)
	row := make([]any, 0, len(Columns)+len(propertyHeaders)+2)
	for _, c := range Columns {
		row = append(row, in[c])
	}
	if p := item.Predictions; p != nil {
		row = append(row,
			p.TensileStrengthMPa,
			p.TensileModulusGPa,
			p.CompressiveStrengthMPa,
			p.FlexuralStrengthMPa,
			p.FlexuralModulusGPa,
			p.ILSSMPa,
			p.ImpactEnergyJ,
		)
	} else {
		for range propertyHeaders {
			row = append(row, nil)
		}
	}
	status := "ok"
	if !item.Success {
		status = "failed"
	}
	return append(row, status, item.Error)
}
