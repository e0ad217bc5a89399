// Package affect models the two affect dimensions a participant rates before
// drawing: intensity and valence. Ratings live on a fixed discrete scale and
// start unset; the color a brush paints with is derived from both ratings
// through two chained interpolation scales (see color.go).
package affect

import (
	"encoding/json"
	"fmt"

	"github.com/interomap/interomap/pkg/errors"
)

// Scale is a closed integer rating range [Min, Max].
// Positions along the scale are normalized against the range size, so with the
// default 1..11 scale a rating of 6 sits at 6/11 of the way along.
type Scale struct {
	Min int
	Max int
}

// DefaultScale is the rating scale used by the widget for both dimensions.
var DefaultScale = Scale{Min: 1, Max: 11}

// Size returns the number of discrete steps in the scale.
func (s Scale) Size() int {
	return s.Max - s.Min + 1
}

// Contains reports whether v is a valid rating on this scale.
func (s Scale) Contains(v int) bool {
	return v >= s.Min && v <= s.Max
}

// Position returns the normalized interpolation position of v: v / size.
// The lowest rating maps to a small positive position, never zero.
func (s Scale) Position(v int) float64 {
	return float64(v) / float64(s.Size())
}

// Centered converts v to the signed display range shown to participants.
// The default 1..11 scale displays as -5..+5.
func (s Scale) Centered(v int) int {
	return v - (s.Min+s.Max)/2
}

// Validate returns an error if v is outside the scale.
func (s Scale) Validate(dimension string, v int) error {
	if !s.Contains(v) {
		return errors.New(errors.ErrCodeInvalidRating, "%s rating %d outside scale [%d, %d]", dimension, v, s.Min, s.Max)
	}
	return nil
}

// Rating is an optional rating value: either unset or a rated integer.
// The zero value is unset. Unset is a first-class state, not a sentinel value;
// drawing is permitted before ratings are set and callers must handle both
// cases explicitly.
type Rating struct {
	value int
	set   bool
}

// Rated returns a set rating with the given value.
func Rated(v int) Rating {
	return Rating{value: v, set: true}
}

// Unset returns the unset rating.
func Unset() Rating {
	return Rating{}
}

// Value returns the rating value and whether it has been set.
func (r Rating) Value() (int, bool) {
	return r.value, r.set
}

// IsSet reports whether the rating has been given.
func (r Rating) IsSet() bool {
	return r.set
}

// String returns the value or "unset".
func (r Rating) String() string {
	if !r.set {
		return "unset"
	}
	return fmt.Sprintf("%d", r.value)
}

// MarshalJSON encodes a set rating as its integer value and an unset rating
// as null, matching the wire format consumed by the hosting platform.
func (r Rating) MarshalJSON() ([]byte, error) {
	if !r.set {
		return []byte("null"), nil
	}
	return json.Marshal(r.value)
}

// UnmarshalJSON decodes an integer or null.
func (r *Rating) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*r = Rating{}
		return nil
	}
	var v int
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*r = Rated(v)
	return nil
}
