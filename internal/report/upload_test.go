package report

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/a3tai/omc-kpi-extractor/internal/schema"
)

func TestSplitPaths(t *testing.T) {
	assert.Equal(t, []string{"a.pdf", "b c.pdf"}, SplitPaths(" a.pdf, ,b c.pdf ,"))
	assert.Empty(t, SplitPaths(""))
}

func TestParseUpload(t *testing.T) {
	registry := schema.Default()

	u, err := ParseUpload(registry, "ril=q1.pdf,q2.pdf")
	require.NoError(t, err)
	assert.Equal(t, Upload{Issuer: schema.RIL, Paths: []string{"q1.pdf", "q2.pdf"}}, u)

	_, err = ParseUpload(registry, "q1.pdf")
	assert.Error(t, err)

	_, err = ParseUpload(registry, "ONGC=q1.pdf")
	assert.ErrorIs(t, err, schema.ErrUnknownIssuer)
}

func TestMergeUploads(t *testing.T) {
	merged := MergeUploads([]Upload{
		{Issuer: schema.BPCL, Paths: []string{"b1.pdf"}},
		{Issuer: schema.HPCL, Paths: []string{"h1.pdf"}},
		{Issuer: schema.BPCL, Paths: []string{"b2.pdf"}},
	})
	assert.Equal(t, []Upload{
		{Issuer: schema.BPCL, Paths: []string{"b1.pdf", "b2.pdf"}},
		{Issuer: schema.HPCL, Paths: []string{"h1.pdf"}},
	}, merged)
}
