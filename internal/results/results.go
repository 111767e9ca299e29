// Package results consumes the merged tabular search output: parsing,
// threshold filtering, operator summaries and the accession→GO join.
package results

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Hit is one row of 12-column tabular output (BLAST outfmt 6).
type Hit struct {
	QueryID    string
	SubjectID  string
	PercentID  float64
	Length     int
	Mismatches int
	GapOpens   int
	QStart     int
	QEnd       int
	SStart     int
	SEnd       int
	EValue     float64
	BitScore   float64
}

// ReadHits parses line-oriented tabular hits. Blank lines are skipped;
// anything else that is not a 12-column row is an error naming the
// offending line.
func ReadHits(r io.Reader) ([]Hit, error) {
	var hits []Hit
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	for line := 1; scanner.Scan(); line++ {
		text := strings.TrimSpace(scanner.Text())
		if text == "" {
			continue
		}
		fields := strings.Fields(text)
		if len(fields) != 12 {
			return nil, fmt.Errorf("line %d: expected 12 tab-separated columns, got %d", line, len(fields))
		}

		hit := Hit{QueryID: fields[0], SubjectID: fields[1]}
		var err error
		if hit.PercentID, err = strconv.ParseFloat(fields[2], 64); err != nil {
			return nil, fmt.Errorf("line %d: percent identity: %w", line, err)
		}
		ints := []*int{&hit.Length, &hit.Mismatches, &hit.GapOpens, &hit.QStart, &hit.QEnd, &hit.SStart, &hit.SEnd}
		for i, dst := range ints {
			if *dst, err = strconv.Atoi(fields[3+i]); err != nil {
				return nil, fmt.Errorf("line %d: column %d: %w", line, 4+i, err)
			}
		}
		if hit.EValue, err = strconv.ParseFloat(fields[10], 64); err != nil {
			return nil, fmt.Errorf("line %d: e-value: %w", line, err)
		}
		if hit.BitScore, err = strconv.ParseFloat(fields[11], 64); err != nil {
			return nil, fmt.Errorf("line %d: bit score: %w", line, err)
		}
		hits = append(hits, hit)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return hits, nil
}

// FilterByIdentity drops hits below the minimum percent identity. The
// coverage and e-value cutoffs were already applied by the search
// command itself.
func FilterByIdentity(hits []Hit, minPercentID float64) []Hit {
	kept := hits[:0:0]
	for _, h := range hits {
		if h.PercentID >= minPercentID {
			kept = append(kept, h)
		}
	}
	return kept
}
