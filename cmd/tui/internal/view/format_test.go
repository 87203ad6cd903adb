package view

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatAmount(t *testing.T) {
	assert.Equal(t, "₹1,234,567.89", FormatAmount(123456789))
	assert.Equal(t, "₹0.05", FormatAmount(5))
	assert.Equal(t, "-₹12.50", FormatAmount(-1250))
}

func TestFormatRange(t *testing.T) {
	assert.Equal(t, "2024-06-01", FormatRange(day(2024, 6, 1), day(2024, 6, 1)))
	assert.Equal(t, "2024-06-01 → 2024-06-05", FormatRange(day(2024, 6, 1), day(2024, 6, 5)))
}

func TestParseRupees(t *testing.T) {
	tests := []struct {
		in      string
		want    int64
		wantErr bool
	}{
		{in: "", want: 0},
		{in: "1500", want: 150000},
		{in: "1,500.5", want: 150050},
		{in: "99.99", want: 9999},
		{in: "1.234", wantErr: true},
		{in: "-5", wantErr: true},
		{in: "abc", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := parseRupees(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
