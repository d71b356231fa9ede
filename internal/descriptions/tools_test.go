package descriptions

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestToolDescriptions(t *testing.T) {
	assert.Equal(t, []string{ToolExtractKPIs, ToolListSchemas}, GetAllToolNames())
	assert.Contains(t, GetToolDescription(ToolExtractKPIs), "one sheet per issuer")
	assert.Equal(t, "Tool description not available", GetToolDescription("pdf_read_file"))
}
