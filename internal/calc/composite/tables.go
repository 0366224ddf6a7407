package composite

import "maps"

type Fiber string

const (
	Carbon  Fiber = "Carbon"
	Glass   Fiber = "Glass"
	Aramid  Fiber = "Aramid"
	Basalt  Fiber = "Basalt"
	Natural Fiber = "Natural"
)

// AllFibers lists fiber types in catalog order.
var AllFibers = []Fiber{Carbon, Glass, Aramid, Basalt, Natural}

type Matrix string

const (
	Epoxy      Matrix = "Epoxy"
	Polyester  Matrix = "Polyester"
	VinylEster Matrix = "Vinyl_ester"
	PEEK       Matrix = "PEEK"
	PA6        Matrix = "PA6"
)

var AllMatrices = []Matrix{Epoxy, Polyester, VinylEster, PEEK, PA6}

type Layup string

const (
	UD0            Layup = "UD 0°"
	UD90           Layup = "UD 90°"
	Woven          Layup = "Woven"
	CrossPly       Layup = "[0/90]2s"
	QuasiPly       Layup = "[0/45/90/-45]s"
	AnglePly       Layup = "[±45]2s"
	QuasiIsotropic Layup = "Quasi-isotropic"
)

var AllLayups = []Layup{UD0, UD90, Woven, CrossPly, QuasiPly, AnglePly, QuasiIsotropic}

type Process string

const (
	Autoclave          Process = "Autoclave"
	VARTM              Process = "VARTM"
	HandLayup          Process = "Hand_layup"
	Pultrusion         Process = "Pultrusion"
	RTM                Process = "RTM"
	CompressionMolding Process = "Compression_molding"
	FilamentWinding    Process = "Filament_winding"
)

var AllProcesses = []Process{Autoclave, VARTM, HandLayup, Pultrusion, RTM, CompressionMolding, FilamentWinding}

// Record holds baseline properties at Vf = 0.6, autoclave cured.
type Record struct {
	TensileStrength     float64 `json:"ts"`   // MPa
	TensileModulus      float64 `json:"tm"`   // GPa
	CompressiveStrength float64 `json:"cs"`   // MPa
	FlexuralStrength    float64 `json:"fs"`   // MPa
	FlexuralModulus     float64 `json:"fm"`   // GPa
	ILSS                float64 `json:"ilss"` // MPa
	ImpactEnergy        float64 `json:"ie"`   // J
}

type Catalog map[Fiber]map[Matrix]Record

type LayupFactors map[Layup]float64

type ProcessFactors map[Process]float64

const (
	ReferenceFraction = 0.6
	MinFraction       = 0.3
	MaxFraction       = 0.7

	DefaultFiber         = Carbon
	DefaultMatrix        = Epoxy
	DefaultLayupFactor   = 0.85
	DefaultProcessFactor = 0.95
)

// BuiltinCatalog returns a fresh copy of the literature baseline table.
func BuiltinCatalog() Catalog {
	return Catalog{
		Carbon: {
			Epoxy:      {1500, 130, 1200, 1400, 125, 75, 18},
			Polyester:  {1200, 110, 950, 1150, 105, 62, 15},
			VinylEster: {1350, 120, 1050, 1250, 115, 68, 16},
			PEEK:       {1800, 145, 1400, 1650, 138, 88, 25},
			PA6:        {1400, 125, 1100, 1300, 120, 70, 20},
		},
		Glass: {
			Epoxy:      {420, 26, 280, 550, 24, 40, 27},
			Polyester:  {350, 22, 230, 450, 20, 32, 22},
			VinylEster: {385, 24, 255, 500, 22, 36, 24},
			PEEK:       {480, 30, 320, 620, 28, 46, 32},
			PA6:        {400, 25, 270, 520, 23, 38, 26},
		},
		Aramid: {
			Epoxy:      {560, 32, 180, 480, 28, 35, 42},
			Polyester:  {480, 28, 150, 410, 24, 28, 35},
			VinylEster: {520, 30, 165, 445, 26, 31, 38},
			PEEK:       {620, 36, 200, 530, 32, 40, 48},
			PA6:        {540, 31, 175, 460, 27, 33, 40},
		},
		Basalt: {
			Epoxy:      {380, 24, 250, 490, 22, 38, 24},
			Polyester:  {320, 20, 210, 410, 18, 30, 20},
			VinylEster: {350, 22, 230, 450, 20, 34, 22},
			PEEK:       {430, 27, 280, 550, 25, 43, 28},
			PA6:        {365, 23, 240, 470, 21, 36, 23},
		},
		Natural: {
			Epoxy:      {55, 2.5, 45, 85, 3.5, 12, 10},
			Polyester:  {45, 2.0, 38, 70, 2.8, 9, 8},
			VinylEster: {50, 2.2, 41, 77, 3.1, 10, 9},
			PEEK:       {65, 3.0, 52, 95, 4.0, 14, 12},
			PA6:        {52, 2.4, 43, 80, 3.3, 11, 9},
		},
	}
}

func BuiltinLayupFactors() LayupFactors {
	return LayupFactors{
		UD0:            1.0,
		UD90:           0.4,
		Woven:          0.8,
		CrossPly:       0.85,
		QuasiPly:       0.75,
		AnglePly:       0.65,
		QuasiIsotropic: 0.7,
	}
}

func BuiltinProcessFactors() ProcessFactors {
	return ProcessFactors{
		Autoclave:          1.0,
		VARTM:              0.95,
		HandLayup:          0.85,
		Pultrusion:         0.98,
		RTM:                0.97,
		CompressionMolding: 0.93,
		FilamentWinding:    0.96,
	}
}

// Count returns the number of fiber/matrix records.
func (c Catalog) Count() int {
	n := 0
	for _, m := range c {
		n += len(m)
	}
	return n
}

func (c Catalog) clone() Catalog {
	out := make(Catalog, len(c))
	for f, row := range c {
		out[f] = maps.Clone(row)
	}
	return out
}
