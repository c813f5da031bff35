package img2ascii

import (
	"fmt"
	"strings"
)

// QuantizePolicy selects how a brightness value in [0, 255] maps to a
// palette index.
type QuantizePolicy int

const (
	// PolicyLinear spreads the full brightness range across the whole
	// ramp: index = v * (N-1) / 255, rounded down. 0 maps to index 0
	// and 255 maps to index N-1.
	PolicyLinear QuantizePolicy = iota

	// PolicyBucket uses fixed-width brightness buckets of BucketWidth
	// levels: index = min(v / BucketWidth, N-1). Ramps longer than
	// 256/BucketWidth+1 glyphs never reach their tail.
	PolicyBucket
)

// BucketWidth is the bucket size used by PolicyBucket.
const BucketWidth = 25

// DefaultReference is the glyph measured to size stamps for the
// built-in ramps.
const DefaultReference = '@'

func (p QuantizePolicy) String() string {
	switch p {
	case PolicyLinear:
		return "linear"
	case PolicyBucket:
		return "bucket"
	}
	return fmt.Sprintf("QuantizePolicy(%d)", int(p))
}

// ParsePolicy parses "linear" or "bucket".
func ParsePolicy(s string) (QuantizePolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "linear":
		return PolicyLinear, nil
	case "bucket":
		return PolicyBucket, nil
	}
	return 0, fmt.Errorf("unknown quantization policy %q (want linear or bucket)", s)
}

// DensityRamp is an ordered set of glyphs used as brightness levels,
// paired with the quantization policy that indexes it and the reference
// glyph whose bounding box sizes every stamp. Index 0 is selected by
// brightness 0.
type DensityRamp struct {
	glyphs    []rune
	policy    QuantizePolicy
	reference rune
}

// NewDensityRamp builds a ramp from glyphs. A zero reference selects the
// glyph at the dense end of the ramp: the last glyph for PolicyLinear
// (white ink on black, so bright cells carry the most ink) and the first
// for PolicyBucket (dark cells carry the most ink).
func NewDensityRamp(glyphs string, policy QuantizePolicy, reference rune) (DensityRamp, error) {
	runes := []rune(glyphs)
	if len(runes) < 2 {
		return DensityRamp{}, fmt.Errorf("%w: need at least 2 glyphs, got %d",
			ErrInvalidRamp, len(runes))
	}
	if policy != PolicyLinear && policy != PolicyBucket {
		return DensityRamp{}, fmt.Errorf("%w: %v", ErrInvalidRamp, policy)
	}
	if reference == 0 {
		if policy == PolicyLinear {
			reference = runes[len(runes)-1]
		} else {
			reference = runes[0]
		}
	}
	return DensityRamp{glyphs: runes, policy: policy, reference: reference}, nil
}

// LightRamp returns the sparse-to-dense ramp " .,-~+=@#%$" with linear
// quantization. Rendered white on black, the brightest cells get the
// densest glyph.
func LightRamp() DensityRamp {
	return DensityRamp{
		glyphs:    []rune(" .,-~+=@#%$"),
		policy:    PolicyLinear,
		reference: DefaultReference,
	}
}

// DenseRamp returns the dense-to-sparse ramp "@#S%?*+;:,." with 25-level
// buckets, so the darkest cells get the densest glyph.
func DenseRamp() DensityRamp {
	return DensityRamp{
		glyphs:    []rune("@#S%?*+;:,."),
		policy:    PolicyBucket,
		reference: DefaultReference,
	}
}

// RampByName returns a built-in ramp: "light" or "dense".
func RampByName(name string) (DensityRamp, bool) {
	switch strings.ToLower(name) {
	case "light":
		return LightRamp(), true
	case "dense":
		return DenseRamp(), true
	}
	return DensityRamp{}, false
}

// Len returns the number of glyphs N.
func (r DensityRamp) Len() int { return len(r.glyphs) }

// Glyph returns the glyph at palette index i.
func (r DensityRamp) Glyph(i int) rune { return r.glyphs[i] }

// Policy returns the quantization policy paired with the ramp.
func (r DensityRamp) Policy() QuantizePolicy { return r.policy }

// Reference returns the glyph measured to size stamps.
func (r DensityRamp) Reference() rune { return r.reference }

func (r DensityRamp) String() string { return string(r.glyphs) }

// Quantize maps a brightness value to a palette index in [0, N-1]. The
// mapping is monotone non-decreasing in v for both policies.
func (r DensityRamp) Quantize(v uint8) int {
	n := len(r.glyphs)
	var idx int
	switch r.policy {
	case PolicyBucket:
		idx = int(v) / BucketWidth
	default:
		idx = int(v) * (n - 1) / 255
	}
	if idx > n-1 {
		idx = n - 1
	}
	return idx
}

// QuantizeTable returns Quantize evaluated for every brightness level.
func (r DensityRamp) QuantizeTable() [256]int {
	var lut [256]int
	for v := range lut {
		lut[v] = r.Quantize(uint8(v))
	}
	return lut
}
