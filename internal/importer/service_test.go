package importer_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vivaahaverse/vivaah/internal/importer"
)

func TestService_Import(t *testing.T) {
	svc := importer.NewService()

	exps, err := svc.Import("", strings.NewReader("date,title,category,amount\n2024-11-02,Cake,Food,1500\n"))
	require.NoError(t, err)
	require.Len(t, exps, 1)
	assert.Equal(t, int64(150000), exps[0].Amount)

	_, err = svc.Import("pdf", strings.NewReader(""))
	assert.ErrorContains(t, err, "unknown import format")
}
