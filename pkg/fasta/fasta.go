// Package fasta loads the isoform sidecar FASTA release file into an
// accession -> sequence map used for isoform override sequences.
package fasta

import (
	"bufio"
	"io"
	"strings"
)

// Parse reads FASTA records from r. Header keys follow the UniProt
// pipe convention when present (">sp|P04637-2|TP53_HUMAN" keys as
// "P04637-2"); otherwise the first whitespace-delimited token is used.
func Parse(r io.Reader) (map[string]string, error) {
	seqs := make(map[string]string)

	var key string
	var seq strings.Builder

	flush := func() {
		if key != "" {
			seqs[key] = seq.String()
		}
		seq.Reset()
	}

	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	for sc.Scan() {
		line := sc.Text()
		if strings.HasPrefix(line, ">") {
			flush()
			key = headerKey(strings.TrimSpace(line[1:]))
			continue
		}
		seq.WriteString(strings.TrimSpace(line))
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	flush()

	return seqs, nil
}

// headerKey extracts the accession from a FASTA header.
func headerKey(header string) string {
	token := header
	if i := strings.IndexAny(token, " \t"); i >= 0 {
		token = token[:i]
	}

	parts := strings.Split(token, "|")
	if len(parts) >= 3 && parts[1] != "" {
		return parts[1]
	}
	return token
}
