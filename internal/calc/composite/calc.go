package composite

import (
	"maps"
	"math"
	"sync"
)

type Request struct {
	FiberType           string  `json:"fiber_type"`
	MatrixType          string  `json:"matrix_type"`
	FiberVolumeFraction float64 `json:"fiber_volume_fraction"`
	Layup               string  `json:"layup"`
	Manufacturing       string  `json:"manufacturing"`
}

type Properties struct {
	TensileStrengthMPa     float64 `json:"tensile_strength_MPa"`
	TensileModulusGPa      float64 `json:"tensile_modulus_GPa"`
	CompressiveStrengthMPa float64 `json:"compressive_strength_MPa"`
	FlexuralStrengthMPa    float64 `json:"flexural_strength_MPa"`
	FlexuralModulusGPa     float64 `json:"flexural_modulus_GPa"`
	ILSSMPa                float64 `json:"ILSS_MPa"`
	ImpactEnergyJ          float64 `json:"impact_energy_J"`
}

// Predictor scales catalog baselines by volume fraction, layup and process.
// Its tables are never written after construction, so one Predictor can
// serve any number of goroutines.
type Predictor struct {
	catalog   Catalog
	layups    LayupFactors
	processes ProcessFactors
}

func NewPredictor(catalog Catalog, layups LayupFactors, processes ProcessFactors) *Predictor {
	return &Predictor{
		catalog:   catalog.clone(),
		layups:    maps.Clone(layups),
		processes: maps.Clone(processes),
	}
}

var defaultPredictor = sync.OnceValue(func() *Predictor {
	return NewPredictor(BuiltinCatalog(), BuiltinLayupFactors(), BuiltinProcessFactors())
})

// Default returns the shared predictor over the built-in tables.
func Default() *Predictor {
	return defaultPredictor()
}

func (p *Predictor) ResolveFiber(s string) Fiber {
	if _, ok := p.catalog[Fiber(s)]; ok {
		return Fiber(s)
	}
	return DefaultFiber
}

// ResolveMatrix checks membership in the row of an already resolved fiber.
func (p *Predictor) ResolveMatrix(f Fiber, s string) Matrix {
	if _, ok := p.catalog[f][Matrix(s)]; ok {
		return Matrix(s)
	}
	return DefaultMatrix
}

func (p *Predictor) LayupFactor(s string) float64 {
	if v, ok := p.layups[Layup(s)]; ok {
		return v
	}
	return DefaultLayupFactor
}

func (p *Predictor) ProcessFactor(s string) float64 {
	if v, ok := p.processes[Process(s)]; ok {
		return v
	}
	return DefaultProcessFactor
}

// Baseline returns the unscaled record the request resolves to.
func (p *Predictor) Baseline(req Request) Record {
	fiber := p.ResolveFiber(req.FiberType)
	matrix := p.ResolveMatrix(fiber, req.MatrixType)
	if rec, ok := p.catalog[fiber][matrix]; ok {
		return rec
	}
	return p.catalog[Carbon][Epoxy]
}

// Factor is the combined multiplier applied to every baseline field.
func (p *Predictor) Factor(req Request) float64 {
	vf := req.FiberVolumeFraction / ReferenceFraction
	return vf * p.LayupFactor(req.Layup) * p.ProcessFactor(req.Manufacturing)
}

// Predict never fails: unknown categorical inputs fall back to defaults and
// the fraction is used as given.
func (p *Predictor) Predict(req Request) Properties {
	return p.Baseline(req).Scale(p.Factor(req))
}

func (r Record) Scale(f float64) Properties {
	return Properties{
		TensileStrengthMPa:     round1(r.TensileStrength * f),
		TensileModulusGPa:      round1(r.TensileModulus * f),
		CompressiveStrengthMPa: round1(r.CompressiveStrength * f),
		FlexuralStrengthMPa:    round1(r.FlexuralStrength * f),
		FlexuralModulusGPa:     round1(r.FlexuralModulus * f),
		ILSSMPa:                round1(r.ILSS * f),
		ImpactEnergyJ:          round1(r.ImpactEnergy * f),
	}
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

func (p *Predictor) Catalog() Catalog {
	return p.catalog.clone()
}

func (p *Predictor) LayupFactors() LayupFactors {
	return maps.Clone(p.layups)
}

func (p *Predictor) ProcessFactors() ProcessFactors {
	return maps.Clone(p.processes)
}

// FiberCount is the number of fiber families in the catalog.
func (p *Predictor) FiberCount() int {
	return len(p.catalog)
}
