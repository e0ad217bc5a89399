package affect

import (
	colorful "github.com/lucasb-eyer/go-colorful"
)

// Anchor colors for the valence scale.
const (
	NegativeAnchor = "#ff0000"
	PositiveAnchor = "#00ff00"
)

// NeutralColor is the brush color shown while either rating is still unset.
// It is presentation fallback only and never derived from ratings.
const NeutralColor = "#cccccc"

// Palette derives a brush color from the two affect ratings through two
// chained interpolation scales:
//
//  1. Valence picks the base hue between the negative and positive anchors.
//  2. Intensity picks the final color between a whitened variant of the base
//     and the base itself, so low intensity reads as pale and high intensity
//     as fully saturated.
//
// The whitened variant is lifted off pure white by the position of the lowest
// rating on the scale, computed once at construction. Colors are always
// recomputed from the current ratings and never cached.
type Palette struct {
	negative  colorful.Color
	positive  colorful.Color
	intensity Scale
	valence   Scale

	// lift is the interpolation position of the lowest rating, keeping the
	// first intensity step visibly tinted instead of pure white.
	lift float64
}

// NewPalette creates a palette with the given anchors and scales.
// Anchor strings must be #rrggbb hex; invalid anchors fall back to the
// defaults.
func NewPalette(negative, positive string, intensity, valence Scale) *Palette {
	neg, err := colorful.Hex(negative)
	if err != nil {
		neg, _ = colorful.Hex(NegativeAnchor)
	}
	pos, err := colorful.Hex(positive)
	if err != nil {
		pos, _ = colorful.Hex(PositiveAnchor)
	}
	return &Palette{
		negative:  neg,
		positive:  pos,
		intensity: intensity,
		valence:   valence,
		lift:      intensity.Position(intensity.Min),
	}
}

// DefaultPalette returns the red/green palette on the default 1..11 scales.
func DefaultPalette() *Palette {
	return NewPalette(NegativeAnchor, PositiveAnchor, DefaultScale, DefaultScale)
}

// IntensityScale returns the intensity rating scale.
func (p *Palette) IntensityScale() Scale { return p.intensity }

// ValenceScale returns the valence rating scale.
func (p *Palette) ValenceScale() Scale { return p.valence }

// ColorFor returns the brush color for the given ratings as #rrggbb hex.
// If either rating is unset no color is defined and ok is false; callers
// degrade to NeutralColor or their own fallback.
func (p *Palette) ColorFor(intensity, valence Rating) (hex string, ok bool) {
	iv, iok := intensity.Value()
	vv, vok := valence.Value()
	if !iok || !vok {
		return "", false
	}
	return p.colorAt(iv, vv).Hex(), true
}

// colorAt runs the two-step interpolation for set rating values.
// Blending is linear in RGB space.
func (p *Palette) colorAt(intensity, valence int) colorful.Color {
	base := p.negative.BlendRgb(p.positive, p.valence.Position(valence))

	white := colorful.Color{R: 1, G: 1, B: 1}
	pale := white.BlendRgb(base, p.lift)

	return pale.BlendRgb(base, p.intensity.Position(intensity))
}
