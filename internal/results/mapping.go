package results

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// AnnotationsName is the accession→GO join written next to the merged
// result when a mapping file is supplied.
const AnnotationsName = "go_annotations"

// ReadMapping parses a TSV of subject accession to comma-separated GO
// terms. Blank lines and '#' comments are skipped.
func ReadMapping(r io.Reader) (map[string][]string, error) {
	mapping := map[string][]string{}
	scanner := bufio.NewScanner(r)

	for line := 1; scanner.Scan(); line++ {
		text := strings.TrimSpace(scanner.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}
		accession, terms, ok := strings.Cut(text, "\t")
		if !ok {
			return nil, fmt.Errorf("line %d: expected <accession>\\t<terms>", line)
		}
		for _, term := range strings.Split(terms, ",") {
			if term = strings.TrimSpace(term); term != "" {
				mapping[accession] = append(mapping[accession], term)
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return mapping, nil
}

// WriteAnnotations joins hits against the mapping and writes one
// tab-separated line per annotated hit: query, subject, terms. Subjects
// missing from the mapping are retried without their version suffix,
// then skipped. It returns the number of annotated hits.
func WriteAnnotations(w io.Writer, hits []Hit, mapping map[string][]string) (int, error) {
	annotated := 0
	for _, h := range hits {
		terms, ok := mapping[h.SubjectID]
		if !ok {
			if i := strings.LastIndex(h.SubjectID, "."); i > 0 {
				terms, ok = mapping[h.SubjectID[:i]]
			}
		}
		if !ok {
			continue
		}
		if _, err := fmt.Fprintf(w, "%s\t%s\t%s\n", h.QueryID, h.SubjectID, strings.Join(terms, ",")); err != nil {
			return annotated, err
		}
		annotated++
	}
	return annotated, nil
}
