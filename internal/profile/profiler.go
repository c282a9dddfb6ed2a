// Package profile computes per-column statistics over the consolidated table
// for display alongside the results.
package profile

import (
	"strconv"
	"strings"

	"github.com/montanaflynn/stats"

	"consolidador/domain/table"
)

// numericThreshold is the share of non-empty values that must parse as
// numbers before a column is profiled numerically.
const numericThreshold = 0.9

// ColumnProfile summarizes one consolidated column.
type ColumnProfile struct {
	Name        string  `json:"name"`
	NonEmpty    int     `json:"non_empty"`
	MissingRate float64 `json:"missing_rate"`
	UniqueCount int     `json:"unique_count"`
	IsNumeric   bool    `json:"is_numeric"`
	Mean        float64 `json:"mean,omitempty"`
	Min         float64 `json:"min,omitempty"`
	Max         float64 `json:"max,omitempty"`
	StdDev      float64 `json:"std_dev,omitempty"`
}

// Profile computes a ColumnProfile for every consolidated column, in column
// order.
func Profile(c *table.Consolidated) []ColumnProfile {
	if c == nil || len(c.Columns) == 0 {
		return nil
	}

	profiles := make([]ColumnProfile, 0, len(c.Columns))
	for i, name := range c.Columns {
		profiles = append(profiles, profileColumn(c, i, name))
	}
	return profiles
}

func profileColumn(c *table.Consolidated, idx int, name string) ColumnProfile {
	p := ColumnProfile{Name: name}

	unique := make(map[string]struct{})
	var numericValues []float64
	for _, row := range c.Rows {
		if idx >= len(row) {
			continue
		}
		value := strings.TrimSpace(row[idx])
		if value == "" {
			continue
		}
		p.NonEmpty++
		unique[value] = struct{}{}
		if f, err := strconv.ParseFloat(strings.ReplaceAll(value, ",", "."), 64); err == nil {
			numericValues = append(numericValues, f)
		}
	}

	p.UniqueCount = len(unique)
	if total := len(c.Rows); total > 0 {
		p.MissingRate = float64(total-p.NonEmpty) / float64(total)
	}

	if p.NonEmpty > 0 && float64(len(numericValues)) >= numericThreshold*float64(p.NonEmpty) {
		p.IsNumeric = true
		data := stats.Float64Data(numericValues)
		if mean, err := stats.Mean(data); err == nil {
			p.Mean = mean
		}
		if min, err := stats.Min(data); err == nil {
			p.Min = min
		}
		if max, err := stats.Max(data); err == nil {
			p.Max = max
		}
		if sd, err := stats.StandardDeviation(data); err == nil {
			p.StdDev = sd
		}
	}

	return p
}
