package utils

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// FlexFloat accepts a JSON number or a numeric string ("50", "12.5").
type FlexFloat float64

func (f *FlexFloat) UnmarshalJSON(data []byte) error {
	v, err := parseFlexNumber(data)
	if err != nil {
		return err
	}
	*f = FlexFloat(v)
	return nil
}

func (f FlexFloat) Float64() float64 { return float64(f) }

// FlexInt accepts a JSON number or a numeric string. Fractions are truncated.
type FlexInt int

func (i *FlexInt) UnmarshalJSON(data []byte) error {
	v, err := parseFlexNumber(data)
	if err != nil {
		return err
	}
	*i = FlexInt(math.Trunc(v))
	return nil
}

func (i FlexInt) Int() int { return int(i) }

// OptionalID tells apart an absent field, an explicit clear (null, "", 0) and a value.
type OptionalID struct {
	Set   bool
	Valid bool
	Value uint
}

func (o *OptionalID) UnmarshalJSON(data []byte) error {
	o.Set = true
	o.Valid = false
	o.Value = 0

	trimmed := bytes.TrimSpace(data)
	if bytes.Equal(trimmed, []byte("null")) || bytes.Equal(trimmed, []byte(`""`)) {
		return nil
	}
	v, err := parseFlexNumber(trimmed)
	if err != nil {
		return err
	}
	if v < 0 {
		return fmt.Errorf("invalid id %v", v)
	}
	if v == 0 {
		return nil
	}
	o.Valid = true
	o.Value = uint(v)
	return nil
}

// Ptr returns nil for an explicit clear.
func (o OptionalID) Ptr() *uint {
	if !o.Valid {
		return nil
	}
	v := o.Value
	return &v
}

func parseFlexNumber(data []byte) (float64, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '"' {
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			return 0, err
		}
		v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
		if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
			return 0, fmt.Errorf("invalid number %q", s)
		}
		return v, nil
	}

	var v float64
	if err := json.Unmarshal(trimmed, &v); err != nil {
		return 0, fmt.Errorf("invalid number %s", string(trimmed))
	}
	return v, nil
}

// NullIfEmpty maps "" to nil so optional columns are stored as NULL.
func NullIfEmpty(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}
