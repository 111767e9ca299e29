package results

import (
	"io"

	"github.com/dustin/go-humanize"
	"github.com/jedib0t/go-pretty/v6/table"
)

// querySummary aggregates the hits of one query sequence.
type querySummary struct {
	query string
	hits  int64
	best  Hit
}

// WriteSummary renders a per-query table of hit counts and best hits,
// in first-seen query order.
func WriteSummary(w io.Writer, hits []Hit) {
	byQuery := map[string]*querySummary{}
	var order []string

	for _, h := range hits {
		s, ok := byQuery[h.QueryID]
		if !ok {
			s = &querySummary{query: h.QueryID, best: h}
			byQuery[h.QueryID] = s
			order = append(order, h.QueryID)
		}
		s.hits++
		if h.BitScore > s.best.BitScore {
			s.best = h
		}
	}

	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.AppendHeader(table.Row{"Query", "Hits", "Best Subject", "%ID", "E-value", "Bit Score"})
	for _, q := range order {
		s := byQuery[q]
		t.AppendRow(table.Row{
			s.query,
			humanize.Comma(s.hits),
			s.best.SubjectID,
			s.best.PercentID,
			s.best.EValue,
			s.best.BitScore,
		})
	}
	t.Render()
}
