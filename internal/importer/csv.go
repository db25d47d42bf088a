package importer

import (
	"encoding/csv"
	"fmt"
	"os"
	"regexp"
	"strings"
)

// Row is one CSV record keyed by header name. Missing cells read as "".
type Row map[string]string

// Get returns the first non-empty value among the named columns.
func (r Row) Get(columns ...string) string {
	for _, column := range columns {
		if value, ok := r[column]; ok && value != "" {
			return value
		}
	}
	return ""
}

// ReadCSVFile loads a recipe CSV into header-keyed rows. A UTF-8 BOM is
// stripped, ragged rows are tolerated and fully blank rows are dropped.
func ReadCSVFile(path string) ([]Row, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV file: %w", err)
	}
	text := strings.TrimPrefix(string(content), "\ufeff")

	reader := csv.NewReader(strings.NewReader(text))
	reader.FieldsPerRecord = -1
	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to parse CSV: %w", err)
	}
	if len(records) == 0 {
		return nil, nil
	}

	headers := make([]string, len(records[0]))
	for i, header := range records[0] {
		headers[i] = strings.TrimSpace(header)
	}

	var rows []Row
	for _, record := range records[1:] {
		blank := true
		for _, cell := range record {
			if strings.TrimSpace(cell) != "" {
				blank = false
				break
			}
		}
		if blank {
			continue
		}

		row := make(Row, len(headers))
		for i, header := range headers {
			if i < len(record) {
				row[header] = record[i]
			} else {
				row[header] = ""
			}
		}
		rows = append(rows, row)
	}
	return rows, nil
}

var whitespaceRun = regexp.MustCompile(`\s+`)

// ParseListColumn parses the dataset's bracketed, single-quoted pseudo-array
// format: ['olive oil', 'sea salt']. Quotes escaped with a backslash are
// unescaped; whitespace inside entries is collapsed. Anything outside the
// quoted strings is ignored.
func ParseListColumn(value string) []string {
	content := strings.TrimSpace(value)
	if content == "" {
		return nil
	}
	if strings.HasPrefix(content, "[") && strings.HasSuffix(content, "]") {
		content = content[1 : len(content)-1]
	}

	var items []string
	var buffer strings.Builder
	inString := false

	runes := []rune(content)
	for i, char := range runes {
		if char == '\'' && (i == 0 || runes[i-1] != '\\') {
			inString = !inString
			if !inString {
				entry := strings.TrimSpace(buffer.String())
				if entry != "" {
					items = append(items, entry)
				}
				buffer.Reset()
			}
			continue
		}
		if inString {
			buffer.WriteRune(char)
		}
	}

	for i, entry := range items {
		entry = strings.ReplaceAll(entry, `\'`, `'`)
		items[i] = strings.TrimSpace(whitespaceRun.ReplaceAllString(entry, " "))
	}
	return items
}

// ParseInstructions splits free-text instructions into trimmed, non-empty
// lines.
func ParseInstructions(value string) []string {
	var lines []string
	for _, line := range strings.Split(value, "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			lines = append(lines, line)
		}
	}
	return lines
}
