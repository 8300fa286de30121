package spatial

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
)

// dmsPattern matches the degree-minute strings used by the iceberg feeds, e.g. 75 45'S.
var dmsPattern = regexp.MustCompile(`^(\d+)\s(\d+)'([NSEW])$`)

// ParseDMS converts a "<deg> <min>'<hemisphere>" string to decimal degrees.
// South and west are negative.
func ParseDMS(s string) (float64, error) {
	m := dmsPattern.FindStringSubmatch(strings.ToUpper(strings.TrimSpace(s)))
	if m == nil {
		return 0, fmt.Errorf("invalid DMS coordinate %q", s)
	}

	deg, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, fmt.Errorf("invalid DMS degrees %q: %w", m[1], err)
	}
	minutes, err := strconv.Atoi(m[2])
	if err != nil {
		return 0, fmt.Errorf("invalid DMS minutes %q: %w", m[2], err)
	}
	if minutes >= 60 {
		return 0, fmt.Errorf("invalid DMS minutes %d in %q", minutes, s)
	}

	v := float64(deg) + float64(minutes)/60
	switch m[3] {
	case "S", "W":
		v = -v
	}

	limit := 180.0
	if m[3] == "N" || m[3] == "S" {
		limit = 90
	}
	if math.Abs(v) > limit {
		return 0, fmt.Errorf("DMS coordinate %q out of range", s)
	}
	return v, nil
}

// FormatDMS renders decimal degrees as "<deg> <min>'<hemisphere>", rounded to
// the nearest minute.
func FormatDMS(v float64, isLatitude bool) string {
	abs := math.Abs(v)
	deg := int(abs)
	minutes := int(math.Round((abs - float64(deg)) * 60))
	if minutes == 60 {
		deg++
		minutes = 0
	}

	var dir string
	switch {
	case isLatitude && v >= 0:
		dir = "N"
	case isLatitude:
		dir = "S"
	case v >= 0:
		dir = "E"
	default:
		dir = "W"
	}
	return fmt.Sprintf("%d %d'%s", deg, minutes, dir)
}
