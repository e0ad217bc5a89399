package affect

import (
	"encoding/json"
	"testing"
)

func TestScaleSize(t *testing.T) {
	if got := DefaultScale.Size(); got != 11 {
		t.Errorf("Size() = %d, want 11", got)
	}
}

func TestScaleContains(t *testing.T) {
	tests := []struct {
		v    int
		want bool
	}{
		{1, true},
		{11, true},
		{6, true},
		{0, false},
		{12, false},
		{-5, false},
	}

	for _, tt := range tests {
		if got := DefaultScale.Contains(tt.v); got != tt.want {
			t.Errorf("Contains(%d) = %v, want %v", tt.v, got, tt.want)
		}
	}
}

func TestScalePosition(t *testing.T) {
	// 6/11 of the way along the default scale.
	got := DefaultScale.Position(6)
	want := 6.0 / 11.0
	if got != want {
		t.Errorf("Position(6) = %v, want %v", got, want)
	}

	// The lowest rating never maps to position zero.
	if DefaultScale.Position(DefaultScale.Min) == 0 {
		t.Error("Position(Min) = 0, want > 0")
	}
}

func TestScaleCentered(t *testing.T) {
	tests := []struct {
		v    int
		want int
	}{
		{1, -5},
		{6, 0},
		{11, 5},
	}

	for _, tt := range tests {
		if got := DefaultScale.Centered(tt.v); got != tt.want {
			t.Errorf("Centered(%d) = %d, want %d", tt.v, got, tt.want)
		}
	}
}

func TestScaleValidate(t *testing.T) {
	if err := DefaultScale.Validate("intensity", 6); err != nil {
		t.Errorf("Validate(6) = %v, want nil", err)
	}
	if err := DefaultScale.Validate("intensity", 0); err == nil {
		t.Error("Validate(0) = nil, want error")
	}
}

func TestRatingZeroValueIsUnset(t *testing.T) {
	var r Rating
	if r.IsSet() {
		t.Error("zero value Rating should be unset")
	}
	if _, ok := r.Value(); ok {
		t.Error("Value() on unset rating should report ok=false")
	}
}

func TestRatingRated(t *testing.T) {
	r := Rated(7)
	v, ok := r.Value()
	if !ok || v != 7 {
		t.Errorf("Value() = (%d, %v), want (7, true)", v, ok)
	}
	if r.String() != "7" {
		t.Errorf("String() = %q, want %q", r.String(), "7")
	}
	if Unset().String() != "unset" {
		t.Errorf("Unset().String() = %q", Unset().String())
	}
}

func TestRatingJSON(t *testing.T) {
	tests := []struct {
		name string
		r    Rating
		want string
	}{
		{"set", Rated(6), "6"},
		{"unset", Unset(), "null"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := json.Marshal(tt.r)
			if err != nil {
				t.Fatalf("Marshal: %v", err)
			}
			if string(data) != tt.want {
				t.Errorf("Marshal = %s, want %s", data, tt.want)
			}

			var back Rating
			if err := json.Unmarshal(data, &back); err != nil {
				t.Fatalf("Unmarshal: %v", err)
			}
			if back != tt.r {
				t.Errorf("round-trip = %v, want %v", back, tt.r)
			}
		})
	}
}
