package composite

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func req(fiber, matrix string, vf float64, layup, manufacturing string) Request {
	return Request{
		FiberType:           fiber,
		MatrixType:          matrix,
		FiberVolumeFraction: vf,
		Layup:               layup,
		Manufacturing:       manufacturing,
	}
}

func TestPredict_ReferencePoint(t *testing.T) {
	got := Default().Predict(req("Carbon", "Epoxy", 0.6, "UD 0°", "Autoclave"))

	assert.Equal(t, Properties{
		TensileStrengthMPa:     1500.0,
		TensileModulusGPa:      130.0,
		CompressiveStrengthMPa: 1200.0,
		FlexuralStrengthMPa:    1400.0,
		FlexuralModulusGPa:     125.0,
		ILSSMPa:                75.0,
		ImpactEnergyJ:          18.0,
	}, got)
}

func TestPredict_UnscaledBaselineForEveryPair(t *testing.T) {
	p := Default()
	catalog := BuiltinCatalog()
	for _, f := range AllFibers {
		for _, m := range AllMatrices {
			t.Run(string(f)+"/"+string(m), func(t *testing.T) {
				got := p.Predict(req(string(f), string(m), 0.6, string(UD0), string(Autoclave)))
				assert.Equal(t, catalog[f][m].Scale(1), got)
			})
		}
	}
}

func TestPredict_Fallbacks(t *testing.T) {
	p := Default()
	carbonEpoxy := p.Predict(req("Carbon", "Epoxy", 0.6, "UD 0°", "Autoclave"))

	t.Run("unknown fiber is carbon", func(t *testing.T) {
		assert.Equal(t, carbonEpoxy, p.Predict(req("Unknown", "Epoxy", 0.6, "UD 0°", "Autoclave")))
	})

	t.Run("fiber names are case sensitive", func(t *testing.T) {
		assert.Equal(t, carbonEpoxy, p.Predict(req("glass", "Epoxy", 0.6, "UD 0°", "Autoclave")))
	})

	t.Run("unknown matrix is epoxy of the same fiber", func(t *testing.T) {
		got := p.Predict(req("Glass", "Unknown", 0.6, "UD 0°", "Autoclave"))
		assert.Equal(t, 420.0, got.TensileStrengthMPa)
	})

	t.Run("matrix resolved against fallback fiber", func(t *testing.T) {
		got := p.Predict(req("Unknown", "PEEK", 0.6, "UD 0°", "Autoclave"))
		assert.Equal(t, 1800.0, got.TensileStrengthMPa)
	})

	t.Run("unknown layup and process use default multipliers", func(t *testing.T) {
		named := p.Predict(req("Basalt", "PA6", 0.5, "[0/90]2s", "VARTM"))
		unknown := p.Predict(req("Basalt", "PA6", 0.5, "spiral", "3D printing"))
		assert.Equal(t, named, unknown)
	})

	t.Run("empty strings", func(t *testing.T) {
		got := p.Predict(req("", "", 0.6, "", ""))
		assert.Equal(t, p.Predict(req("Carbon", "Epoxy", 0.6, "[0/90]2s", "VARTM")), got)
	})
}

func TestResolve(t *testing.T) {
	p := Default()

	assert.Equal(t, Aramid, p.ResolveFiber("Aramid"))
	assert.Equal(t, Carbon, p.ResolveFiber("Kevlar"))
	assert.Equal(t, VinylEster, p.ResolveMatrix(Natural, "Vinyl_ester"))
	assert.Equal(t, Epoxy, p.ResolveMatrix(Natural, "vinyl ester"))
	assert.Equal(t, 0.65, p.LayupFactor("[±45]2s"))
	assert.Equal(t, DefaultLayupFactor, p.LayupFactor("unknown"))
	assert.Equal(t, 0.98, p.ProcessFactor("Pultrusion"))
	assert.Equal(t, DefaultProcessFactor, p.ProcessFactor(""))
}

func TestPredict_TotalOverCategoricals(t *testing.T) {
	p := Default()
	inputs := []string{"", "Carbon", "Epoxy", "UD 0°", "Autoclave", "???", "PEEK", "Hand_layup", "\x00", "日本語"}
	for _, f := range inputs {
		for _, m := range inputs {
			got := p.Predict(req(f, m, 0.45, f, m))
			assert.Positive(t, got.TensileStrengthMPa)
			assert.Positive(t, got.TensileModulusGPa)
			assert.Positive(t, got.CompressiveStrengthMPa)
			assert.Positive(t, got.FlexuralStrengthMPa)
			assert.Positive(t, got.FlexuralModulusGPa)
			assert.Positive(t, got.ILSSMPa)
			assert.Positive(t, got.ImpactEnergyJ)
		}
	}
}

func TestPredict_Deterministic(t *testing.T) {
	p := Default()
	r := req("Aramid", "Vinyl_ester", 0.55, "Quasi-isotropic", "Filament_winding")
	first := p.Predict(r)
	for i := 0; i < 100; i++ {
		require.Equal(t, first, p.Predict(r))
	}
}

func TestPredict_MonotonicInFraction(t *testing.T) {
	p := Default()
	fractions := []float64{0.3, 0.4, 0.5, 0.6, 0.7}

	var prev Properties
	for i, vf := range fractions {
		got := p.Predict(req("Carbon", "PEEK", vf, "Woven", "RTM"))
		if i > 0 {
			assert.Greater(t, got.TensileStrengthMPa, prev.TensileStrengthMPa)
			assert.Greater(t, got.TensileModulusGPa, prev.TensileModulusGPa)
			assert.Greater(t, got.CompressiveStrengthMPa, prev.CompressiveStrengthMPa)
			assert.Greater(t, got.FlexuralStrengthMPa, prev.FlexuralStrengthMPa)
			assert.Greater(t, got.FlexuralModulusGPa, prev.FlexuralModulusGPa)
			assert.Greater(t, got.ILSSMPa, prev.ILSSMPa)
			assert.Greater(t, got.ImpactEnergyJ, prev.ImpactEnergyJ)
		}
		prev = got
	}
}

func TestPredict_LinearInFraction(t *testing.T) {
	p := Default()
	half := p.Predict(req("Carbon", "Epoxy", 0.3, "UD 0°", "Autoclave"))
	full := p.Predict(req("Carbon", "Epoxy", 0.6, "UD 0°", "Autoclave"))

	assert.Equal(t, 750.0, half.TensileStrengthMPa)
	assert.Equal(t, 65.0, half.TensileModulusGPa)
	assert.Equal(t, 9.0, half.ImpactEnergyJ)
	assert.InDelta(t, full.FlexuralStrengthMPa, 2*half.FlexuralStrengthMPa, 1e-9)
}

func TestPredict_ScaledAndRounded(t *testing.T) {
	got := Default().Predict(req("Glass", "Epoxy", 0.6, "Woven", "Hand_layup"))

	// 0.8 * 0.85 = 0.68
	assert.InDelta(t, 285.6, got.TensileStrengthMPa, 1e-9)
	assert.InDelta(t, 17.7, got.TensileModulusGPa, 1e-9)
	assert.InDelta(t, 190.4, got.CompressiveStrengthMPa, 1e-9)
	assert.InDelta(t, 374.0, got.FlexuralStrengthMPa, 1e-9)
	assert.InDelta(t, 16.3, got.FlexuralModulusGPa, 1e-9)
	assert.InDelta(t, 27.2, got.ILSSMPa, 1e-9)
	assert.InDelta(t, 18.4, got.ImpactEnergyJ, 1e-9)
}

func TestCatalog_Complete(t *testing.T) {
	catalog := Default().Catalog()

	require.Len(t, catalog, len(AllFibers))
	assert.Equal(t, 25, catalog.Count())
	for _, f := range AllFibers {
		row, ok := catalog[f]
		require.True(t, ok, "missing fiber %s", f)
		require.Len(t, row, len(AllMatrices))
		for _, m := range AllMatrices {
			rec, ok := row[m]
			require.True(t, ok, "missing %s/%s", f, m)
			assert.Positive(t, rec.TensileStrength)
			assert.Positive(t, rec.TensileModulus)
			assert.Positive(t, rec.CompressiveStrength)
			assert.Positive(t, rec.FlexuralStrength)
			assert.Positive(t, rec.FlexuralModulus)
			assert.Positive(t, rec.ILSS)
			assert.Positive(t, rec.ImpactEnergy)
		}
	}
}

func TestFactorTables(t *testing.T) {
	p := Default()
	layups := p.LayupFactors()
	processes := p.ProcessFactors()

	assert.Len(t, layups, len(AllLayups))
	assert.Len(t, processes, len(AllProcesses))
	for _, l := range AllLayups {
		assert.Greater(t, layups[l], 0.0)
		assert.LessOrEqual(t, layups[l], 1.0)
	}
	for _, m := range AllProcesses {
		assert.Greater(t, processes[m], 0.0)
		assert.LessOrEqual(t, processes[m], 1.0)
	}
}

func TestPredictor_TablesAreNotShared(t *testing.T) {
	catalog := BuiltinCatalog()
	layups := BuiltinLayupFactors()
	p := NewPredictor(catalog, layups, BuiltinProcessFactors())

	catalog[Carbon][Epoxy] = Record{}
	layups[UD0] = 0.1
	assert.Equal(t, 1500.0, p.Predict(req("Carbon", "Epoxy", 0.6, "UD 0°", "Autoclave")).TensileStrengthMPa)

	exported := p.Catalog()
	exported[Carbon][Epoxy] = Record{}
	p.LayupFactors()[UD0] = 0.1
	assert.Equal(t, 1500.0, p.Predict(req("Carbon", "Epoxy", 0.6, "UD 0°", "Autoclave")).TensileStrengthMPa)
}

func TestPredictor_SparseCatalogFallsBackToCarbonEpoxy(t *testing.T) {
	catalog := Catalog{
		Carbon: {Epoxy: {100, 10, 100, 100, 10, 10, 1}},
		Glass:  {PEEK: {50, 5, 50, 50, 5, 5, 1}},
	}
	p := NewPredictor(catalog, BuiltinLayupFactors(), BuiltinProcessFactors())

	got := p.Predict(req("Glass", "Polyester", 0.6, "UD 0°", "Autoclave"))
	assert.Equal(t, 100.0, got.TensileStrengthMPa)

	got = p.Predict(req("Glass", "PEEK", 0.6, "UD 0°", "Autoclave"))
	assert.Equal(t, 50.0, got.TensileStrengthMPa)
}

func TestDefault_ConcurrentUse(t *testing.T) {
	want := Default().Predict(req("Basalt", "Vinyl_ester", 0.65, "UD 90°", "Compression_molding"))

	var wg sync.WaitGroup
	results := make([]Properties, 32)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = Default().Predict(req("Basalt", "Vinyl_ester", 0.65, "UD 90°", "Compression_molding"))
		}(i)
	}
	wg.Wait()

	for _, got := range results {
		assert.Equal(t, want, got)
	}
	assert.Same(t, Default(), Default())
}
