// Package drawing holds the session's drawing state: the append-only stroke
// history, the serializable Drawing output keyed by persona surface, and the
// composer that rebuilds and budget-guards the encoded output after every
// mutation.
package drawing

import (
	"strings"

	"github.com/interomap/interomap/pkg/errors"
)

// Persona is the body silhouette type chosen for the session. It is selected
// exactly once; there is no path to change it afterwards.
type Persona string

// The closed persona enumeration.
const (
	PersonaFemale Persona = "Female"
	PersonaMale   Persona = "Male"
	PersonaChild  Persona = "Child"
)

// Personas lists all selectable personas in display order.
var Personas = []Persona{PersonaFemale, PersonaMale, PersonaChild}

// ParsePersona resolves a launch-parameter hint to a persona,
// case-insensitively. Unrecognized or empty hints report ok=false and the
// caller falls back to interactive choice.
func ParsePersona(hint string) (Persona, bool) {
	for _, p := range Personas {
		if strings.EqualFold(hint, string(p)) {
			return p, true
		}
	}
	return "", false
}

// Side is one drawable side of a persona.
type Side string

// The two sides every persona has.
const (
	SideFront Side = "Front"
	SideBack  Side = "Back"
)

// Sides lists both sides in output order.
var Sides = []Side{SideFront, SideBack}

// ParseSide resolves a side name case-insensitively.
func ParseSide(name string) (Side, bool) {
	for _, s := range Sides {
		if strings.EqualFold(name, string(s)) {
			return s, true
		}
	}
	return "", false
}

// ValidateSide returns an error for unknown side names.
func ValidateSide(name string) (Side, error) {
	s, ok := ParseSide(name)
	if !ok {
		return "", errors.New(errors.ErrCodeInvalidSide, "unknown side: %s", name)
	}
	return s, nil
}

// SurfaceID identifies one of the session's two surfaces: persona plus side.
type SurfaceID struct {
	Persona Persona
	Side    Side
}

// Key returns the serialization key, e.g. "ChildFront".
func (id SurfaceID) Key() string {
	return string(id.Persona) + string(id.Side)
}

// Surface returns the identity of this persona's given side.
func (p Persona) Surface(side Side) SurfaceID {
	return SurfaceID{Persona: p, Side: side}
}
