package vcf

import (
	"fmt"
	"strconv"
	"strings"
)

// Record is a single decoded variant record.
type Record struct {
	Chrom   string
	Pos     int64    // 1-based
	ID      string   // "." when unset
	Ref     string
	Alt     []string // nil when the ALT column is "."
	Qual    string   // raw QUAL text, "." when unset
	Filter  string   // raw FILTER text
	Info    string   // raw INFO column
	Format  []string // FORMAT field identifiers, nil when absent
	Samples []string // raw per-sample columns
	Line    string   // the full record line, without trailing newline
}

// AlleleCount returns the total number of alleles (reference included).
func (r *Record) AlleleCount() int {
	return 1 + len(r.Alt)
}

// InfoGet returns the value of an INFO key on this record. Flag-type keys
// return an empty value with ok=true.
func (r *Record) InfoGet(key string) (string, bool) {
	if r.Info == "" || r.Info == "." {
		return "", false
	}
	for _, kv := range strings.Split(r.Info, ";") {
		eq := strings.IndexByte(kv, '=')
		if eq < 0 {
			if kv == key {
				return "", true
			}
			continue
		}
		if kv[:eq] == key {
			return kv[eq+1:], true
		}
	}
	return "", false
}

// parseLine parses one VCF data line.
func parseLine(line string, lineNumber int) (*Record, error) {
	fields := strings.Split(line, "\t")
	if len(fields) < 8 {
		return nil, &ParseError{
			Line:    lineNumber,
			Message: fmt.Sprintf("expected at least 8 columns, found %d", len(fields)),
		}
	}

	pos, err := strconv.ParseInt(fields[1], 10, 64)
	if err != nil {
		return nil, &ParseError{
			Line:    lineNumber,
			Message: fmt.Sprintf("invalid position: %s", fields[1]),
		}
	}

	rec := &Record{
		Chrom:  fields[0],
		Pos:    pos,
		ID:     fields[2],
		Ref:    fields[3],
		Qual:   fields[5],
		Filter: fields[6],
		Info:   fields[7],
		Line:   line,
	}

	if fields[4] != "." {
		rec.Alt = strings.Split(fields[4], ",")
	}

	if len(fields) > 8 {
		rec.Format = strings.Split(fields[8], ":")
	}
	if len(fields) > 9 {
		rec.Samples = fields[9:]
	}

	return rec, nil
}

// ParseError is an error during VCF parsing with line context.
type ParseError struct {
	Line    int
	Message string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("vcf parse error at line %d: %s", e.Line, e.Message)
}
