package schema

// Shared capture groups
const (
	decimal = `([\d\.]+)`
	counted = `([\d,]+)`
	rupees  = `₹\s*([\d,]+)`
)

func txt(name, pattern string) Field {
	return Field{Name: name, Text: &TextRule{Pattern: pattern}}
}

func (f Field) withLegacy(header string) Field {
	f.Legacy = header
	return f
}

func (f Field) withTable(column int, labels ...string) Field {
	f.Table = &TableRule{Labels: labels, Column: column}
	return f
}

// reportHeader is the cover-page block every issuer report starts with
func reportHeader() []Field {
	return []Field{
		txt("Fiscal Year", `Fiscal Year\s*:\s*(\d{4}-\d{4})`),
		txt("Quarter", `Quarter\s*:\s*(Q[1-4])`),
		txt("Duration", `Duration\s*:\s*(.*?)\n`),
		txt("Date", `Date\s*:\s*([\d-]+)`),
	}
}

// Builtin returns fresh, uncompiled copies of the built-in issuer schemas
func Builtin() []*Schema {
	return []*Schema{hpcl(), bpcl(), iocl(), ril()}
}

func hpcl() *Schema {
	fields := append(reportHeader(),
		txt("Crude Throughput (MMT)", `Crude Throughput.*?`+decimal).
			withTable(2, "Crude Throughput", "Refinery Throughput", "Crude Thruput"),
		txt("Utilisation (%)", `Utilisation.*?`+decimal).
			withTable(2, "Capacity Utilisation", "Utilisation"),
		txt("Domestic Sales (MMT)", `Domestic Sales.*?`+decimal).
			withTable(2, "Domestic Sales", "Total Domestic Sales"),
		txt("Exports (MMT)", `Exports.*?`+decimal).
			withTable(2, "Exports"),
		txt("Pipeline Throughput (MMT)", `Pipeline Throughput.*?`+decimal).
			withTable(2, "Pipeline Throughput"),
		txt("Gross Margins ($/bbl)", `Gross Margins.*?`+decimal).
			withTable(2, "Gross Refining Margin", "GRM", "Gross Margins"),
		txt("Sale of Products (₹ crore)", `Sale of products.*?`+rupees).
			withLegacy(`Sale of products.*?₹\s*([\d,]+)`),
		txt("Cost of Materials Consumed (₹ crore)", `Cost of material.*?`+rupees).
			withLegacy(`Cost of material consumed.*?₹\s*([\d,]+)`),
		txt("Purchases of Stock-in-Trade (₹ crore)", `Purchases of stock.*?`+rupees).
			withLegacy(`Purchases of stock-in-trade.*?₹\s*([\d,]+)`),
		txt("Change in Inventories (₹ crore)", `Change in inventories.*?`+rupees).
			withLegacy(`Change in inventories.*?₹\s*([\d,]+)`),
		txt("PBT (₹ crore)", `PBT.*?`+rupees).
			withLegacy(`PBT.*?₹\s*([\d,]+)`),
		txt("Domestic Market Share of POL (%)", `Domestic market share.*?`+decimal).
			withLegacy("Domestic market share of POL"),
		txt("Retail Outlets", `Retail Outlets.*?`+counted).
			withTable(1, "Retail Outlets"),
		txt("LPG Distributorships", `LPG Distributorship.*?`+counted).
			withLegacy("LPG Distributionship").
			withTable(1, "LPG Distributorship"),
		txt("SKO/LDO Dealerships", `SKO.*?`+counted).
			withLegacy("SKO/LDO Dealership"),
		txt("Lube Distributors", `Lube Distributors.*?`+counted).
			withLegacy("Lube Distributors.*?"),
		txt("Mobile Dispensers", `Mobile Dispensers.*?`+counted),
		txt("CNG Facilities at ROs", `CNG.*?`+counted).
			withLegacy("CNG facilities at ROs"),
		txt("EV Charging Facilities at ROs", `EV Charging.*?`+counted).
			withLegacy("EV Charging facilities at Ros"),
		txt("LPG Consumers (million)", `LPG Consumers.*?`+decimal).
			withLegacy("LPG Consumers.*?million"),
	)
	return &Schema{Issuer: HPCL, Fields: fields}
}

func bpcl() *Schema {
	fields := append(reportHeader(),
		txt("Crude Throughput (MMT)", `Crude Throughput.*?`+decimal).
			withTable(2, "Crude Throughput", "Total Crude Throughput"),
		txt("MR Throughput (MMT)", `MR Throughput.*?`+decimal).
			withTable(1, "MR MMT", "- MR MMT", "MR Throughput"),
		txt("KR Throughput (MMT)", `KR Throughput.*?`+decimal).
			withTable(1, "KR MMT", "- KR MMT", "KR Throughput"),
		txt("BR Throughput (MMT)", `BR Throughput.*?`+decimal).
			withTable(1, "BR MMT", "- BR MMT", "BR Throughput"),
		txt("Distillate Yield (%)", `Distillate Yield.*?`+decimal).
			withTable(2, "Distillate Yield"),
		txt("HS Crude (%)", `HS crude.*?`+decimal).
			withLegacy("HS crude (%)"),
		txt("Utilisation (%)", `Utilisation.*?`+decimal).
			withTable(2, "Capacity Utilisation", "Utilisation"),
		txt("Domestic Sales (MMT)", `Domestic Sales.*?`+decimal).
			withTable(2, "Domestic Sales"),
		txt("LPG Sales (MMT)", `LPG Sales.*?`+decimal).
			withTable(1, "LPG MMT", "- LPG MMT", "LPG Sales"),
		txt("MS Sales (MMT)", `MS Sales.*?`+decimal).
			withTable(1, "MS MMT", "- MS MMT", "MS Sales"),
		txt("HSD Sales (MMT)", `HSD Sales.*?`+decimal).
			withTable(1, "HSD MMT", "- HSD MMT", "HSD Sales"),
		txt("SKO (MMT)", `SKO.*?`+decimal).
			withTable(1, "SKO MMT", "- SKO MMT"),
		txt("ATF (MMT)", `ATF.*?`+decimal).
			withTable(1, "ATF MMT", "- ATF MMT"),
		txt("Others (MMT)", `Others.*?`+decimal).
			withTable(1, "Others MMT", "- Others MMT"),
		txt("Exports (MMT)", `Exports.*?`+decimal).
			withTable(2, "Exports"),
		txt("Pipeline Throughput (MMT)", `Pipeline.*?`+decimal).
			withTable(2, "Pipeline Throughput"),
		txt("Gross Margins ($/bbl)", `Gross Margins.*?`+decimal).
			withTable(2, "Gross Refining Margin", "GRM"),
		txt("Gross Margins - MR ($/bbl)", `Gross Margins - MR.*?`+decimal).
			withTable(1, "MR $/bbl", "- MR $/bbl"),
		txt("Gross Margins - KR ($/bbl)", `Gross Margins - KR.*?`+decimal).
			withTable(1, "KR $/bbl", "- KR $/bbl"),
		txt("Gross Margins - BR ($/bbl)", `Gross Margins - BR.*?`+decimal).
			withTable(1, "BR $/bbl", "- BR $/bbl"),
		txt("Revenue from Operations (₹ crore)", `Revenue from operations.*?`+rupees).
			withLegacy(`Revenue from operations.*?₹\s*([\d,]+)`),
		txt("Cost of Materials Consumed (₹ crore)", `Cost of materials.*?`+rupees).
			withLegacy(`Cost of materials.*?₹\s*([\d,]+)`),
		txt("Purchases of Stock-in-Trade (₹ crore)", `Purchase of stock.*?`+rupees).
			withLegacy(`Purchase of stock.*?₹\s*([\d,]+)`),
		txt("Change in Inventories (₹ crore)", `Change in inventories.*?`+rupees).
			withLegacy(`Change in inventories.*?₹\s*([\d,]+)`),
		txt("PBT (₹ crore)", `PBT.*?`+rupees).
			withLegacy(`PBT.*?₹\s*([\d,]+)`),
		txt("Domestic Market Share of POL (%)", `Domestic market share.*?`+decimal).
			withLegacy("Domestic market share of POL"),
		txt("Retail Outlets", `Retail Outlets.*?`+counted).
			withTable(1, "Retail Outlets"),
		txt("LPG Distributorships", `LPG Distributorship.*?`+counted).
			withLegacy("LPG Distributionship").
			withTable(1, "LPG Distributorship"),
		txt("CNG Facilities at ROs", `CNG facilities.*?`+counted).
			withLegacy("CNG facilities at ROs"),
		txt("Aviation Service Stations", `Aviation Service.*?`+counted).
			withLegacy("Aviation Service stations"),
		txt("LPG Consumers (million)", `LPG Consumers.*?`+decimal).
			withLegacy("LPG Consumers.*?million"),
	)
	return &Schema{Issuer: BPCL, Fields: fields}
}

func iocl() *Schema {
	fields := append(reportHeader(),
		txt("Crude Throughput (MMT)", `Crude Throughput.*?`+decimal).
			withTable(2, "Crude Throughput", "Refineries Throughput"),
		txt("Utilisation (%)", `Utilisation.*?`+decimal).
			withTable(2, "Capacity Utilisation", "Utilisation"),
		txt("Distillate Yield (%)", `Distillate yield.*?`+decimal).
			withLegacy("Distillate yield (%)").
			withTable(2, "Distillate Yield"),
		txt("F&L (%)", `F&L.*?`+decimal).
			withTable(2, "F&L", "Fuel & Loss"),
		txt("Domestic Sales (MMT)", `Domestic Sales.*?`+decimal).
			withTable(2, "Domestic Sales"),
		txt("Exports (MMT)", `Exports.*?`+decimal).
			withTable(2, "Exports"),
		txt("Pipeline Throughput (MMT)", `Pipeline.*?`+decimal).
			withTable(2, "Pipeline Throughput"),
		txt("Gross Margins ($/bbl)", `Gross Margins.*?`+decimal).
			withTable(2, "Gross Refining Margin", "GRM"),
		txt("Revenue from Operations (₹ crore)", `Revenue from operations.*?`+rupees).
			withLegacy(`Revenue from operations.*?₹\s*([\d,]+)`),
		txt("Cost of Materials Consumed (₹ crore)", `Cost of material.*?`+rupees).
			withLegacy(`Cost of material.*?₹\s*([\d,]+)`),
		txt("Purchases of Stock-in-Trade (₹ crore)", `Purchases of stock.*?`+rupees).
			withLegacy(`Purchases of stock.*?₹\s*([\d,]+)`),
		txt("Change in Inventories (₹ crore)", `Change in inventories.*?`+rupees).
			withLegacy(`Change in inventories.*?₹\s*([\d,]+)`),
		txt("PBT (₹ crore)", `PBT.*?`+rupees).
			withLegacy(`PBT.*?₹\s*([\d,]+)`),
		txt("Domestic Market Share of POL (%)", `Domestic market share.*?`+decimal).
			withLegacy("Domestic market share of POL"),
		txt("Retail Outlets", `Retail Outlets.*?`+counted).
			withTable(1, "Retail Outlets"),
		txt("LPG Distributorships", `LPG Distributorship.*?`+counted).
			withLegacy("LPG Distributionship").
			withTable(1, "LPG Distributorship"),
		txt("SKO/LDO Dealerships", `SKO/LDO.*?`+counted).
			withLegacy("SKO/LDO Dealership").
			withTable(1, "SKO/LDO Dealership"),
		txt("Lube Distributors", `Lube Distributors.*?`+counted).
			withLegacy("Lube Distributors.*?"),
		txt("Mobile Dispensers", `Mobile Dispensers.*?`+counted),
		txt("CNG Facilities at ROs", `CNG facilities.*?`+counted).
			withLegacy("CNG facilities at ROs"),
		txt("Aviation Fuel Stations", `Aviation Fuel.*?`+counted).
			withLegacy("Aviation Fuel stations"),
		txt("LPG Consumers (million)", `LPG Consumers.*?`+decimal).
			withLegacy("LPG Consumers.*?million"),
		txt("Russian Crude (%)", `Russian crude.*?`+decimal).
			withLegacy("Russian crude %"),
	)
	return &Schema{Issuer: IOCL, Fields: fields}
}

func ril() *Schema {
	fields := append(reportHeader(),
		txt("Crude Throughput (MMT)", `Crude Throughput.*?`+decimal).
			withTable(2, "Refinery Crude Throughput", "Crude Throughput"),
		txt("Utilisation (%)", `Utilisation.*?`+decimal).
			withTable(2, "Capacity Utilisation", "Utilisation"),
		txt("Total Sales (MMT)", `Total Sales.*?`+decimal).
			withTable(2, "Total Sales"),
		txt("Gross Margins ($/bbl)", `Gross Margins.*?`+decimal).
			withTable(2, "Gross Refining Margin", "GRM"),
		txt("Revenue from Operations (₹ crore)", `Revenue from operations.*?`+rupees).
			withLegacy(`Revenue from operations.*?₹\s*([\d,]+)`),
		txt("Exports (₹ crore)", `Exports.*?`+rupees).
			withLegacy(`Exports.*?₹\s*([\d,]+)`),
		txt("EBITDA (₹ crore)", `EBI(?:DT|TD)A.*?`+rupees).
			withLegacy(`EBIDTA.*?₹\s*([\d,]+)`),
		txt("EBITDA Margin (%)", `EBI(?:DT|TD)A %.*?`+decimal).
			withLegacy("EBIDTA %"),
		txt("Retail Outlets", `Retail outlets.*?`+counted).
			withLegacy("Retail outlets").
			withTable(1, "Retail outlets", "Fuel retail outlets"),
		txt("HSD Sales Y-o-Y (%)", `HSD Sales.*?`+decimal),
		txt("MS Sales Y-o-Y (%)", `MS Sales.*?`+decimal),
		txt("ATF Sales Y-o-Y (%)", `ATF sales.*?`+decimal).
			withLegacy(`ATF sales.*?([\d\.]+)`),
		txt("Charging Points", `Charging points.*?`+counted).
			withLegacy("Charging points"),
		txt("Unique Sites", `Unique sites.*?`+counted).
			withLegacy("Unique sites"),
		txt("CBG Network", `CBG Network.*?`+counted),
	)
	return &Schema{Issuer: RIL, Fields: fields}
}
