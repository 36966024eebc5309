// Package dataset reads the historical congestion CSV and writes the
// training report. Rows whose timestamp or congestion level fail coercion
// are dropped; a missing required column aborts ingestion entirely.
package dataset

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/sekka-transit/sekka/internal/domain/types"
)

// Required and optional column names of the input schema.
const (
	colTimestamp   = "timestamp"
	colRouteID     = "route_id"
	colLevel       = "congestion_level"
	colHoliday     = "is_public_holiday"
	colSummerPeak  = "is_summer_peak"
	colSchoolPhase = "school_term_phase"
)

// Congestion level bounds enforced during cleaning.
const (
	levelMin = 0.0
	levelMax = 10.0
)

// timestampLayouts are tried in order when parsing the timestamp column.
var timestampLayouts = []string{ //nolint:gochecknoglobals // parse table
	"2006-01-02 15:04:05",
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
}

func parseTimestamp(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	for _, layout := range timestampLayouts {
		if ts, err := time.Parse(layout, s); err == nil {
			return ts, true
		}
	}
	return time.Time{}, false
}

func parseIndicator(s string) (int, bool) {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, false
	}
	if v != 0 {
		return 1, true
	}
	return 0, true
}

// Load reads the CSV at path and returns cleaned observations grouped by
// route id. Optional columns override calendar derivation downstream.
func Load(ctx context.Context, path string) (map[string][]types.Observation, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open dataset: %w", err)
	}
	defer f.Close()
	return Read(ctx, f)
}

// Read parses the dataset from r. See Load.
func Read(ctx context.Context, r io.Reader) (map[string][]types.Observation, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	idx := make(map[string]int, len(header))
	for i, name := range header {
		idx[strings.TrimSpace(name)] = i
	}
	for _, required := range []string{colTimestamp, colRouteID, colLevel} {
		if _, ok := idx[required]; !ok {
			return nil, fmt.Errorf("%w: %s", ErrMissingColumn, required)
		}
	}

	byRoute := make(map[string][]types.Observation)
	for {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("read canceled: %w", err)
		}
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read row: %w", err)
		}

		ts, ok := parseTimestamp(record[idx[colTimestamp]])
		if !ok {
			continue
		}
		level, err := strconv.ParseFloat(strings.TrimSpace(record[idx[colLevel]]), 64)
		if err != nil {
			continue
		}
		if level < levelMin {
			level = levelMin
		}
		if level > levelMax {
			level = levelMax
		}
		routeID := strings.TrimSpace(record[idx[colRouteID]])
		if routeID == "" {
			continue
		}

		obs := types.Observation{TS: ts, Level: level}
		if i, ok := idx[colHoliday]; ok && i < len(record) {
			if v, parsed := parseIndicator(record[i]); parsed {
				obs.Holiday, obs.HasHoliday = v, true
			}
		}
		if i, ok := idx[colSummerPeak]; ok && i < len(record) {
			if v, parsed := parseIndicator(record[i]); parsed {
				obs.SummerPeak, obs.HasSummerPeak = v, true
			}
		}
		if i, ok := idx[colSchoolPhase]; ok && i < len(record) {
			obs.SchoolPhase = strings.TrimSpace(record[i])
		}
		byRoute[routeID] = append(byRoute[routeID], obs)
	}

	if len(byRoute) == 0 {
		return nil, ErrEmptyDataset
	}
	return byRoute, nil
}

// RouteIDs returns the dataset's route ids in stable sorted order.
func RouteIDs(byRoute map[string][]types.Observation) []string {
	ids := make([]string, 0, len(byRoute))
	for id := range byRoute {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
