package dataset

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/HugoHeilmann/Data-visualisation/src/applog"
)

// ErrNoRows is returned when the table has a header but no data.
var ErrNoRows = errors.New("dataset has no rows")

// canonicalHeader collapses inner whitespace and lowercases a header cell.
func canonicalHeader(h string) string {
	return strings.ToLower(strings.Join(strings.Fields(strings.TrimPrefix(h, "\ufeff")), " "))
}

// Parse reads a CSV match table. Rows with bad dates or numbers are kept; the bad
// fields become zero time / NaN so range filters drop them later.
func Parse(r io.Reader) ([]MatchRecord, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true
	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, ErrNoRows
		}
		return nil, fmt.Errorf("read header: %w", err)
	}
	idx := make(map[string]int, len(header))
	for i, h := range header {
		idx[canonicalHeader(h)] = i
	}
	for _, required := range []string{ColTeam1, ColTeam2} {
		if _, ok := idx[required]; !ok {
			return nil, fmt.Errorf("missing column %q", required)
		}
	}
	cell := func(rec []string, col string) string {
		i, ok := idx[col]
		if !ok || i >= len(rec) {
			return ""
		}
		return rec[i]
	}
	var out []MatchRecord
	line := 1
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		line++
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		m := MatchRecord{
			ID:       len(out),
			Team1:    NormalizeTeam(cell(rec, ColTeam1)),
			Team2:    NormalizeTeam(cell(rec, ColTeam2)),
			Date:     ParseDate(cell(rec, ColDate)),
			Category: strings.TrimSpace(cell(rec, ColCategory)),
			Goals1:   ParseNumber(cell(rec, ColGoals1)),
			Goals2:   ParseNumber(cell(rec, ColGoals2)),
			Stats:    make(map[string]float64, len(idx)),
		}
		for name, i := range idx {
			switch name {
			case ColTeam1, ColTeam2, ColDate, ColCategory:
				continue
			}
			if i < len(rec) {
				m.Stats[name] = ParseNumber(rec[i])
			}
		}
		if !m.HasDate() {
			applog.Debugf("[dataset] line %d: unparseable date %q", line, cell(rec, ColDate))
		}
		out = append(out, m)
	}
	if len(out) == 0 {
		return nil, ErrNoRows
	}
	return out, nil
}

// LoadCSV opens and parses the table at path.
func LoadCSV(path string) ([]MatchRecord, error) {
	defer applog.TimeTrack(time.Now(), "load "+path)
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open dataset: %w", err)
	}
	defer f.Close()
	rows, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return rows, nil
}

// Cache loads the table once per session; every caller shares the result (or the error).
type Cache struct {
	path string
	once sync.Once
	rows []MatchRecord
	err  error
}

func NewCache(path string) *Cache { return &Cache{path: path} }

// Path returns the file backing the cache.
func (c *Cache) Path() string { return c.path }

// Load returns the rows, reading the file on the first call only. A caller whose ctx is
// already done gets its ctx error without consuming the read.
func (c *Cache) Load(ctx context.Context) ([]MatchRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	c.once.Do(func() {
		c.rows, c.err = LoadCSV(c.path)
		if c.err == nil {
			applog.Infof("[dataset] loaded %d matches from %s", len(c.rows), c.path)
		}
	})
	return c.rows, c.err
}

// DateExtent returns the earliest and latest parseable dates; ok is false when none parse.
func DateExtent(rows []MatchRecord) (min, max time.Time, ok bool) {
	for _, r := range rows {
		if !r.HasDate() {
			continue
		}
		if !ok || r.Date.Before(min) {
			min = r.Date
		}
		if !ok || r.Date.After(max) {
			max = r.Date
		}
		ok = true
	}
	return min, max, ok
}

// GoalsExtent returns floor(min) and ceil(max) of the finite total-goals values.
func GoalsExtent(rows []MatchRecord) (min, max int, ok bool) {
	lo, hi := math.Inf(1), math.Inf(-1)
	for _, r := range rows {
		v := r.TotalGoals()
		if math.IsNaN(v) {
			continue
		}
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	if math.IsInf(lo, 1) {
		return 0, 0, false
	}
	return int(math.Floor(lo)), int(math.Ceil(hi)), true
}
