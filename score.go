package movielog

import (
	"bytes"
	"math"
	"strconv"
	"strings"
)

// Score is a numeric rating normalized at build time. Front matter may carry
// the score as a number or a string; non-numeric strings become NaN.
type Score float64

// ParseScore converts a raw front-matter value to a Score.
// Blank values parse as zero.
func ParseScore(raw string) Score {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsInf(f, 0) {
		return Score(math.NaN())
	}
	return Score(f)
}

// IsNaN reports whether the score failed to parse as a number.
func (s Score) IsNaN() bool {
	return math.IsNaN(float64(s))
}

// String formats the score without trailing zeros, or "NaN".
func (s Score) String() string {
	if s.IsNaN() {
		return "NaN"
	}
	return strconv.FormatFloat(float64(s), 'f', -1, 64)
}

// MarshalJSON encodes NaN as null since JSON has no NaN literal.
func (s Score) MarshalJSON() ([]byte, error) {
	if s.IsNaN() || math.IsInf(float64(s), 0) {
		return []byte("null"), nil
	}
	return strconv.AppendFloat(nil, float64(s), 'f', -1, 64), nil
}

// UnmarshalJSON decodes null back to NaN.
func (s *Score) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*s = Score(math.NaN())
		return nil
	}
	f, err := strconv.ParseFloat(string(data), 64)
	if err != nil {
		return Errorf(EINVALID, "invalid score %s", data)
	}
	*s = Score(f)
	return nil
}
