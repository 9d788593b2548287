package vcf

import "strings"

// InfoField is one ##INFO declaration from the header.
type InfoField struct {
	ID          string
	Number      string
	Type        string
	Description string
}

// Header holds the parsed VCF header.
type Header struct {
	Lines      []string // all header lines, including the #CHROM line
	ColumnLine string   // the #CHROM line
	Samples    []string // sample names from the #CHROM line
	Infos      map[string]InfoField
}

// String returns the header as VCF text, one line per entry, newline-terminated.
func (h *Header) String() string {
	return strings.Join(h.Lines, "\n") + "\n"
}

// AnnFields returns the pipe-delimited sub-field names declared for a
// multi-value annotation INFO field (CSQ, BCSQ), taken from the
// 'Format: a|b|c' tail of its Description. Returns nil when the field is
// not declared or carries no Format description.
func (h *Header) AnnFields(id string) []string {
	info, ok := h.Infos[id]
	if !ok {
		return nil
	}
	i := strings.Index(info.Description, "Format: ")
	if i < 0 {
		return nil
	}
	spec := strings.TrimSpace(info.Description[i+len("Format: "):])
	spec = strings.TrimSuffix(spec, "\"")
	if spec == "" {
		return nil
	}
	fields := strings.Split(spec, "|")
	for i := range fields {
		fields[i] = strings.TrimSpace(fields[i])
	}
	return fields
}

// parseInfoLine parses a ##INFO=<ID=...,Number=...,Type=...,Description="...">
// header line. Returns false for lines that do not declare an INFO field.
func parseInfoLine(line string) (InfoField, bool) {
	const prefix = "##INFO=<"
	if !strings.HasPrefix(line, prefix) || !strings.HasSuffix(line, ">") {
		return InfoField{}, false
	}
	body := line[len(prefix) : len(line)-1]

	var info InfoField
	for _, kv := range splitQuoted(body, ',') {
		eq := strings.IndexByte(kv, '=')
		if eq < 0 {
			continue
		}
		key, val := kv[:eq], kv[eq+1:]
		val = strings.Trim(val, "\"")
		switch key {
		case "ID":
			info.ID = val
		case "Number":
			info.Number = val
		case "Type":
			info.Type = val
		case "Description":
			info.Description = val
		}
	}
	if info.ID == "" {
		return InfoField{}, false
	}
	return info, true
}

// splitQuoted splits s on sep, ignoring separators inside double quotes.
func splitQuoted(s string, sep byte) []string {
	var parts []string
	var quoted bool
	start := 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '"':
			quoted = !quoted
		case sep:
			if !quoted {
				parts = append(parts, s[start:i])
				start = i + 1
			}
		}
	}
	return append(parts, s[start:])
}
