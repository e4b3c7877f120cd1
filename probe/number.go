package probe

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// Number is a JSON value the tools emit either as a number or as a string
// such as "1 920 pixels". Unparsable input decodes to zero.
type Number struct {
	value float64
}

func (n *Number) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || string(b) == "null" {
		return nil
	}

	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err == nil {
			n.value = parseLenient(s)
		}
		return nil
	}

	if f, err := strconv.ParseFloat(string(b), 64); err == nil {
		n.value = f
	}
	return nil
}

func (n Number) Float() float64 {
	return n.value
}

// Int rounds to the nearest integer.
func (n Number) Int() int64 {
	if math.IsNaN(n.value) || math.IsInf(n.value, 0) {
		return 0
	}
	return int64(math.Round(n.value))
}

// parseLenient keeps digits and sign and decimal characters when the
// string is not a plain number.
func parseLenient(s string) float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return f
	}

	filtered := strings.Map(func(r rune) rune {
		if (r >= '0' && r <= '9') || r == '.' || r == '-' || r == '+' {
			return r
		}
		return -1
	}, s)

	f, err := strconv.ParseFloat(filtered, 64)
	if err != nil {
		return 0
	}
	return f
}

// Text is a JSON string that may also arrive as a bare number.
type Text string

func (t *Text) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || string(b) == "null" {
		return nil
	}

	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err == nil {
			*t = Text(strings.TrimSpace(s))
		}
		return nil
	}

	if b[0] == '-' || (b[0] >= '0' && b[0] <= '9') {
		*t = Text(b)
	}
	return nil
}

func (t Text) String() string {
	return string(t)
}

// Int parses the text leniently and rounds it.
func (t Text) Int() int64 {
	return int64(math.Round(parseLenient(string(t))))
}

// ParseRatio parses "num/den" frame rates. Zero denominators yield zero.
func ParseRatio(raw string) float64 {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0
	}

	num, den, ok := strings.Cut(raw, "/")
	if !ok {
		f, _ := strconv.ParseFloat(raw, 64)
		return f
	}

	n, err := strconv.ParseFloat(strings.TrimSpace(num), 64)
	if err != nil {
		n = 0
	}
	d, err := strconv.ParseFloat(strings.TrimSpace(den), 64)
	if err != nil {
		d = 1
	}
	if math.Abs(d) < 1e-12 {
		return 0
	}
	return n / d
}
