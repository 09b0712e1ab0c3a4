/***********************************************************************************************************************
 *
 *   MIT License
 *
 *   Copyright (c) 2022 Nicolas JUHEL
 *
 *   Permission is hereby granted, free of charge, to any person obtaining a copy
 *   of this software and associated documentation files (the "Software"), to deal
 *   in the Software without restriction, including without limitation the rights
 *   to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 *   copies of the Software, and to permit persons to whom the Software is
 *   furnished to do so, subject to the following conditions:
 *
 *   The above copyright notice and this permission notice shall be included in all
 *   copies or substantial portions of the Software.
 *
 *   THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 *   IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 *   FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 *   AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 *   LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 *   OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 *   SOFTWARE.
 *
 *
 **********************************************************************************************************************/

// Package size is a byte-count value type with binary (1024-based) units,
// used to render relayed-traffic totals as human-readable strings in logs
// and on the admin surface instead of raw byte counts.
package size

import (
	"fmt"
	"strconv"
	"strings"
)

// Size counts bytes.
type Size int64

const (
	SizeNul  Size = 0
	SizeUnit Size = 1
	SizeKilo Size = SizeUnit << 10
	SizeMega Size = SizeKilo << 10
	SizeGiga Size = SizeMega << 10
	SizeTera Size = SizeGiga << 10
	SizePeta Size = SizeTera << 10
	SizeExa  Size = SizePeta << 10
)

var units = []struct {
	size   Size
	suffix string
}{
	{SizeExa, "EB"},
	{SizePeta, "PB"},
	{SizeTera, "TB"},
	{SizeGiga, "GB"},
	{SizeMega, "MB"},
	{SizeKilo, "KB"},
}

// String renders s using the largest unit that keeps the mantissa >= 1,
// e.g. "1.50KB", falling back to a plain byte count below 1KB.
func (s Size) String() string {
	if s < 0 {
		return "-" + (-s).String()
	}

	for _, u := range units {
		if s >= u.size {
			v := float64(s) / float64(u.size)
			return strconv.FormatFloat(v, 'f', 2, 64) + u.suffix
		}
	}

	return fmt.Sprintf("%dB", int64(s))
}

// Parse reads a size string such as "5MB", "5M", "1.5KB", or a bare byte
// count, and returns the equivalent Size.
func Parse(s string) (Size, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("size: empty value")
	}

	mantissa := s
	mult := SizeUnit
	suffix := ""

	for _, u := range units {
		up := strings.ToUpper(s)
		if strings.HasSuffix(up, u.suffix) {
			suffix = u.suffix
			mult = u.size
			mantissa = s[:len(s)-len(u.suffix)]
			break
		}
	}

	if suffix == "" {
		up := strings.ToUpper(s)
		switch {
		case strings.HasSuffix(up, "B"):
			mantissa = s[:len(s)-1]
		case strings.HasSuffix(up, "K"):
			mult = SizeKilo
			mantissa = s[:len(s)-1]
		case strings.HasSuffix(up, "M"):
			mult = SizeMega
			mantissa = s[:len(s)-1]
		case strings.HasSuffix(up, "G"):
			mult = SizeGiga
			mantissa = s[:len(s)-1]
		case strings.HasSuffix(up, "T"):
			mult = SizeTera
			mantissa = s[:len(s)-1]
		case strings.HasSuffix(up, "P"):
			mult = SizePeta
			mantissa = s[:len(s)-1]
		}
	}

	mantissa = strings.TrimSpace(mantissa)

	v, err := strconv.ParseFloat(mantissa, 64)
	if err != nil {
		return 0, fmt.Errorf("size: invalid value %q: %w", s, err)
	}

	return Size(v * float64(mult)), nil
}

// UnmarshalText lets Size bind directly from viper/mapstructure-sourced
// config values expressed as strings (e.g. "64KB").
func (s *Size) UnmarshalText(text []byte) error {
	v, err := Parse(string(text))
	if err != nil {
		return err
	}
	*s = v
	return nil
}

func (s Size) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}
