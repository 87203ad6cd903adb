package sheet

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	enc "github.com/vivaahaverse/vivaah/internal/encoding"
	"github.com/vivaahaverse/vivaah/internal/expense"
)

var dateLayouts = []string{time.DateOnly, "02-01-2006", "02/01/2006", "02.01.2006"}

// Parser reads expense sheets exported as CSV and produces expense params.
// The delimiter (";" or ",") and the column layout are auto-detected.
type Parser struct{}

func NewParser() *Parser {
	return &Parser{}
}

func (p *Parser) Parse(r io.Reader) ([]expense.CreateParams, error) {
	utf8r, err := enc.NewUTF8Reader(r)
	if err != nil {
		return nil, fmt.Errorf("detect encoding: %w", err)
	}

	content, err := io.ReadAll(utf8r)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}

	reader := csv.NewReader(bytes.NewReader(content))
	reader.Comma = detectDelimiter(content)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read csv: %w", err)
	}

	profile, colMap, headerIdx := detectProfile(rows)
	if profile == nil {
		return nil, fmt.Errorf("no matching expense sheet format found: expected date, title, category and amount columns")
	}

	return parseRows(profile, colMap, rows[headerIdx+1:], headerIdx)
}

// detectDelimiter picks ';' when the first line holding any separator has
// more semicolons than commas.
func detectDelimiter(content []byte) rune {
	sc := bufio.NewScanner(bytes.NewReader(content))

	for sc.Scan() {
		line := sc.Text()

		semis, commas := strings.Count(line, ";"), strings.Count(line, ",")
		if semis == 0 && commas == 0 {
			continue
		}

		if semis > commas {
			return ';'
		}

		return ','
	}

	return ','
}

// colIndex maps lowercased column names to their index in the row.
type colIndex map[string]int

func (c colIndex) lookup(name string) int {
	if name == "" {
		return -1
	}

	if i, ok := c[name]; ok {
		return i
	}

	return -1
}

func detectProfile(rows [][]string) (*Profile, colIndex, int) {
	for rowIdx, row := range rows {
		cols := make(colIndex)

		for i, cell := range row {
			name := strings.ToLower(strings.TrimSpace(cell))
			if name != "" {
				cols[name] = i
			}
		}

		for i := range profiles {
			if matchesProfile(&profiles[i], cols) {
				return &profiles[i], cols, rowIdx
			}
		}
	}

	return nil, nil, 0
}

func matchesProfile(p *Profile, cols colIndex) bool {
	for _, name := range p.requiredCols() {
		if _, ok := cols[name]; !ok {
			return false
		}
	}

	return true
}

// parseRows extracts expenses from data rows using the matched profile.
// headerRowNum is the 0-based index of the header in the original file (for error messages).
func parseRows(p *Profile, cols colIndex, rows [][]string, headerRowNum int) ([]expense.CreateParams, error) {
	dateIdx := cols.lookup(p.DateCol)
	titleIdx := cols.lookup(p.TitleCol)
	categoryIdx := cols.lookup(p.CategoryCol)
	descIdx := cols.lookup(p.DescCol)

	var out []expense.CreateParams

	for i, row := range rows {
		rowNum := headerRowNum + i + 2 // 1-based, skipping header

		date, ok := parseDate(row, dateIdx)
		if !ok {
			continue
		}

		title := cellValue(row, titleIdx)
		if title == "" {
			return nil, fmt.Errorf("row %d: missing title", rowNum)
		}

		amount, ok, err := rowAmount(p, cols, row)
		if err != nil {
			return nil, fmt.Errorf("row %d: invalid amount: %w", rowNum, err)
		}

		if !ok {
			continue
		}

		out = append(out, expense.CreateParams{
			Title:       title,
			Category:    cellValue(row, categoryIdx),
			Amount:      amount,
			Description: cellValue(row, descIdx),
			Date:        date,
		})
	}

	return out, nil
}

// parseDate returns false for empty cells or unparseable values (footer rows, etc).
func parseDate(row []string, idx int) (time.Time, bool) {
	s := cellValue(row, idx)
	if s == "" {
		return time.Time{}, false
	}

	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}

	return time.Time{}, false
}

// rowAmount returns ok=false for rows that carry no expense, like a credit line.
func rowAmount(p *Profile, cols colIndex, row []string) (int64, bool, error) {
	switch p.AmountMode {
	case amountSingle:
		cents, err := parseAmount(cellValue(row, cols.lookup(p.AmountCol)))
		if errors.Is(err, errEmptyAmount) {
			return 0, false, nil
		}

		if err != nil {
			return 0, false, err
		}

		return abs(cents), true, nil
	case amountSplit:
		s := cellValue(row, cols.lookup(p.DebitCol))
		if s == "" {
			return 0, false, nil
		}

		cents, err := parseAmount(s)
		if err != nil {
			return 0, false, err
		}

		return abs(cents), cents != 0, nil
	}

	return 0, false, nil
}

// cellValue safely gets a trimmed cell value from a row.
func cellValue(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}

	return strings.TrimSpace(row[idx])
}

func abs(n int64) int64 {
	if n < 0 {
		return -n
	}

	return n
}
