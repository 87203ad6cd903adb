package sheet_test

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/charmap"

	"github.com/vivaahaverse/vivaah/internal/importer/sheet"
)

func date(y, m, d int) time.Time {
	return time.Date(y, time.Month(m), d, 0, 0, 0, 0, time.UTC)
}

func TestParser_PlannerComma(t *testing.T) {
	csv := `Date,Title,Category,Amount,Description
2024-11-02,Mandap decoration,Decor,85000.00,Marigold and jasmine
2024-11-03,Welcome drinks,Food,"12,500.50",
`

	exps, err := sheet.NewParser().Parse(strings.NewReader(csv))
	require.NoError(t, err)
	require.Len(t, exps, 2)

	assert.Equal(t, date(2024, 11, 2), exps[0].Date)
	assert.Equal(t, "Mandap decoration", exps[0].Title)
	assert.Equal(t, "Decor", exps[0].Category)
	assert.Equal(t, int64(8500000), exps[0].Amount)
	assert.Equal(t, "Marigold and jasmine", exps[0].Description)

	assert.Equal(t, int64(1250050), exps[1].Amount)
	assert.Empty(t, exps[1].Description)
}

func TestParser_PlannerSemicolonEuropean(t *testing.T) {
	csv := `Wedding budget export
date;category;title;amount
02-11-2024;Decor;Mandap;1.234,50
03-11-2024;Music;DJ;-300,00
`

	exps, err := sheet.NewParser().Parse(strings.NewReader(csv))
	require.NoError(t, err)
	require.Len(t, exps, 2)

	assert.Equal(t, date(2024, 11, 2), exps[0].Date)
	assert.Equal(t, int64(123450), exps[0].Amount)
	assert.Equal(t, int64(30000), exps[1].Amount)
}

func TestParser_StatementSkipsCredits(t *testing.T) {
	csv := `Date;Description;Debit;Credit
01/12/2024;JEWELLER PAYMENT;2.500,00;
02/12/2024;REFUND CATERER;;500,00
 ; ; ;Page 1/1
`

	exps, err := sheet.NewParser().Parse(strings.NewReader(csv))
	require.NoError(t, err)
	require.Len(t, exps, 1)

	assert.Equal(t, "JEWELLER PAYMENT", exps[0].Title)
	assert.Equal(t, int64(250000), exps[0].Amount)
	assert.Empty(t, exps[0].Category)
}

func TestParser_Latin1Encoding(t *testing.T) {
	utf8CSV := "date;title;category;amount\n02-11-2024;Café Mandap;Décor;10,00\n"

	latin1Bytes, err := charmap.Windows1252.NewEncoder().Bytes([]byte(utf8CSV))
	require.NoError(t, err)

	exps, err := sheet.NewParser().Parse(bytes.NewReader(latin1Bytes))
	require.NoError(t, err)
	require.Len(t, exps, 1)

	assert.Equal(t, "Café Mandap", exps[0].Title)
	assert.Equal(t, "Décor", exps[0].Category)
}

func TestParser_Errors(t *testing.T) {
	tests := []struct {
		name    string
		csv     string
		wantErr string
	}{
		{name: "EmptyFile", csv: "", wantErr: "no matching expense sheet format"},
		{name: "UnknownHeader", csv: "when,what\n2024-01-01,x\n", wantErr: "no matching expense sheet format"},
		{name: "MissingTitle", csv: "date,title,category,amount\n2024-01-01,,Food,10\n", wantErr: "row 2: missing title"},
		{name: "BadAmount", csv: "date,title,category,amount\n2024-01-01,Cake,Food,ten\n", wantErr: "row 2: invalid amount"},
		{name: "MissingTitleAfterPreamble", csv: "Wedding budget 2024\ndate,title,category,amount\n2024-01-01,Venue,Venue,10\n2024-01-02,,Food,10\n", wantErr: "row 4: missing title"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := sheet.NewParser().Parse(strings.NewReader(tt.csv))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestParser_HeaderOnly(t *testing.T) {
	exps, err := sheet.NewParser().Parse(strings.NewReader("date,title,category,amount"))
	require.NoError(t, err)
	assert.Empty(t, exps)
}

func TestParser_SkipsFooterRows(t *testing.T) {
	csv := `date;title;category;amount
02-11-2024;Cake;Food;10,00
Total;;;10,00
`

	exps, err := sheet.NewParser().Parse(strings.NewReader(csv))
	require.NoError(t, err)
	assert.Len(t, exps, 1)
}
