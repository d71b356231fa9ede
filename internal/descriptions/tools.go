package descriptions

import "sort"

// Tool names
const (
	ToolExtractKPIs = "omc_extract_kpis"
	ToolListSchemas = "omc_list_schemas"
)

const (
	ExtractKPIsDescription = `Extract quarterly KPIs from oil-marketing company reports into one Excel workbook.

**When to use:** You have quarterly PDF reports for HPCL, BPCL, IOCL or RIL and need their refinery, marketing and financial figures side by side.

**What it does:** Reads every PDF, evaluates the issuer's field rules against the report text and tables, and writes one sheet per issuer with Sl.No, Company and one column per KPI. Values found in a table take precedence over values found in running text.

**Examples:**
• Single issuer: hpcl="reports/hpcl_q1.pdf,reports/hpcl_q2.pdf"
• Several issuers: hpcl="hpcl_q1.pdf" ril="ril_q1.pdf" output="kpis.xlsx"
• Issuers added by a schema file: issuers="MRPL=mrpl_q1.pdf,mrpl_q2.pdf"

**Result:** A per-issuer summary and the workbook path. Documents that could not be opened keep their row (filled red) and are listed on the Errors sheet. KPIs that were not found are left blank.

**Best practices:** Paths are relative to the configured directory. Upload order decides Sl.No, so list each issuer's reports chronologically.`

	ListSchemasDescription = `List the issuers the extractor knows and the KPI columns it produces for each.

**When to use:** Before an extraction, to check which columns a sheet will have, or to see which rules (text pattern, table label) feed a column.

**Examples:**
• All issuers: no arguments
• One issuer: issuer="BPCL"

**Best practices:** Use it to confirm that issuers added by a schema file were loaded.`
)

// ToolDescriptions maps tool names to their descriptions
var ToolDescriptions = map[string]string{
	ToolExtractKPIs: ExtractKPIsDescription,
	ToolListSchemas: ListSchemasDescription,
}

// GetToolDescription returns the description for a tool
func GetToolDescription(toolName string) string {
	if desc, exists := ToolDescriptions[toolName]; exists {
		return desc
	}
	return "Tool description not available"
}

// GetAllToolNames returns the tool names in sorted order
func GetAllToolNames() []string {
	names := make([]string, 0, len(ToolDescriptions))
	for name := range ToolDescriptions {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
