package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
)

// Score is a 0–100 value that may be absent. An invalid Score means
// "insufficient data" and must never be read as zero.
type Score struct {
	Value float64
	Valid bool
}

// Insufficient is the sentinel for "no basis to score".
var Insufficient = Score{}

// Known builds a valid score clamped to [0,100].
func Known(v float64) Score {
	return Score{Value: Clamp(v), Valid: true}
}

// Clamp bounds v to the [0,100] scoring range.
func Clamp(v float64) float64 {
	switch {
	case math.IsNaN(v):
		return 0
	case v < 0:
		return 0
	case v > 100:
		return 100
	default:
		return v
	}
}

// Display truncates to one decimal so a rendered score never reaches a
// verdict threshold the raw value did not.
func (s Score) Display() float64 {
	return math.Floor(s.Value*10) / 10
}

func (s Score) String() string {
	if !s.Valid {
		return "insufficient data"
	}
	return fmt.Sprintf("%.1f", s.Display())
}

// MarshalJSON renders the sentinel as null and values truncated to one decimal.
func (s Score) MarshalJSON() ([]byte, error) {
	if !s.Valid {
		return []byte("null"), nil
	}
	return []byte(strconv.FormatFloat(s.Display(), 'f', -1, 64)), nil
}

// UnmarshalJSON accepts a number or null.
func (s *Score) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		*s = Insufficient
		return nil
	}
	var v float64
	if err := json.Unmarshal(data, &v); err != nil {
		return fmt.Errorf("decode score: %w", err)
	}
	*s = Known(v)
	return nil
}
