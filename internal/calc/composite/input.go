package composite

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var (
	ErrInvalidFraction    = errors.New("could not convert fiber_volume_fraction to float")
	ErrFractionOutOfRange = errors.New("fiber volume fraction must be between 0.3 and 0.7")
)

// Request defaults for keys missing from a decoded sample.
const (
	DefaultRequestLayup         = string(UD0)
	DefaultRequestManufacturing = string(Autoclave)
)

// ParseRequest reads one loosely typed JSON object. The fraction may be a
// number or a numeric string; categorical values of any other type are kept
// empty and left to the predictor's fallbacks.
func ParseRequest(sample map[string]any) (Request, error) {
	req := Request{
		FiberType:     stringField(sample, "fiber_type", string(DefaultFiber)),
		MatrixType:    stringField(sample, "matrix_type", string(DefaultMatrix)),
		Layup:         stringField(sample, "layup", DefaultRequestLayup),
		Manufacturing: stringField(sample, "manufacturing", DefaultRequestManufacturing),
	}
	raw, ok := sample["fiber_volume_fraction"]
	if !ok {
		req.FiberVolumeFraction = ReferenceFraction
		return req, nil
	}
	vf, err := ParseFraction(raw)
	if err != nil {
		return Request{}, err
	}
	req.FiberVolumeFraction = vf
	return req, nil
}

// ParseFraction coerces a decoded JSON value to a fraction. Booleans count as
// 1 and 0; strings must be decimal, so hex literals are rejected.
func ParseFraction(v any) (float64, error) {
	switch t := v.(type) {
	case bool:
		if t {
			return 1, nil
		}
		return 0, nil
	case float64:
		return t, nil
	case float32:
		return float64(t), nil
	case int:
		return float64(t), nil
	case int64:
		return float64(t), nil
	case string:
		s := strings.TrimSpace(t)
		if isHex(s) {
			return 0, fmt.Errorf("%w: %q", ErrInvalidFraction, t)
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, fmt.Errorf("%w: %q", ErrInvalidFraction, t)
		}
		return f, nil
	default:
		return 0, fmt.Errorf("%w: %v", ErrInvalidFraction, v)
	}
}

func isHex(s string) bool {
	s = strings.TrimLeft(s, "+-")
	return strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X")
}

func stringField(sample map[string]any, key, def string) string {
	v, ok := sample[key]
	if !ok {
		return def
	}
	s, _ := v.(string)
	return s
}

// Validate checks the fraction against the supported manufacturing range.
func (r Request) Validate() error {
	if !(r.FiberVolumeFraction >= MinFraction && r.FiberVolumeFraction <= MaxFraction) {
		return ErrFractionOutOfRange
	}
	return nil
}
