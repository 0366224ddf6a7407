package batch

import (
	"errors"
	"fmt"

	"Composite/internal/calc/composite"
)

var ErrNoSamples = errors.New("no samples provided")

var errNotObject = errors.New("sample must be a JSON object")

type SamplePredictor interface {
	PredictSample(sample map[string]any) (composite.Request, composite.Properties, error)
}

type Input struct {
	Samples []any `json:"samples"`
}

type Item struct {
	Index       int                   `json:"index"`
	Row         int                   `json:"row,omitempty"`
	Input       any                   `json:"input"`
	Predictions *composite.Properties `json:"predictions,omitempty"`
	Success     bool                  `json:"success"`
	Error       string                `json:"error,omitempty"`
}

type Result struct {
	Success bool   `json:"success"`
	Method  string `json:"method"`
	Count   int    `json:"count"`
	Results []Item `json:"results"`
}

// Failed counts items that did not produce predictions.
func (r Result) Failed() int {
	n := 0
	for _, it := range r.Results {
		if !it.Success {
			n++
		}
	}
	return n
}

// Calculate predicts every sample independently. A failing sample is
// reported in its own Item and never aborts its siblings.
func Calculate(p SamplePredictor, samples []any) (Result, error) {
	if len(samples) == 0 {
		return Result{}, ErrNoSamples
	}
	out := Result{
		Success: true,
		Method:  composite.Method,
		Results: make([]Item, 0, len(samples)),
	}
	for i, s := range samples {
		out.Results = append(out.Results, predictOne(p, i, s))
	}
	out.Count = len(out.Results)
	return out, nil
}

func predictOne(p SamplePredictor, idx int, s any) Item {
	item := Item{Index: idx, Input: s}
	sample, ok := s.(map[string]any)
	if !ok {
		item.Error = fmt.Sprintf("%v: got %T", errNotObject, s)
		return item
	}
	_, props, err := p.PredictSample(sample)
	if err != nil {
		item.Error = composite.ErrorMessage(err)
		return item
	}
	item.Predictions = &props
	item.Success = true
	return item
}
