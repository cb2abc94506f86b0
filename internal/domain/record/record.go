// Package record defines the submission schema and its validation rules.
package record

// CSV column names of a submission file. The first line of every upload is
// expected to be a header naming these columns.
const (
	FieldSleepHours       = "sleep_hours"
	FieldRestViolations   = "rest_violations"
	FieldShipType         = "ship_type"
	FieldRegion           = "region"
	FieldCalledDuringRest = "called_during_rest"
	FieldPortIntensity    = "port_intensity"
)

// Numeric domains.
const (
	MinSleepHours     = 0.0
	MaxSleepHours     = 24.0
	MinRestViolations = 0.0
	MaxRestViolations = 50.0
)

// Enum member sets, in canonical order. Matching is case-sensitive.
var (
	ShipTypes        = []string{"Tanker", "Bulk", "Container", "Gas", "Other"}
	Regions          = []string{"Global", "Europe", "MiddleEast", "Asia", "Africa", "Americas"}
	CalledDuringRest = []string{"Yes", "No"}
	PortIntensities  = []string{"Low", "Medium", "High"}
)

// Row is one raw CSV data row, untyped. Columns absent from the header stay
// empty; extra columns are ignored.
type Row struct {
	SleepHours       string `csv:"sleep_hours"`
	RestViolations   string `csv:"rest_violations"`
	ShipType         string `csv:"ship_type"`
	Region           string `csv:"region"`
	CalledDuringRest string `csv:"called_during_rest"`
	PortIntensity    string `csv:"port_intensity"`
}

// Record is a fully validated submission. A Record exists only as the output
// of Validate; the ingestion path never stores a partially valid one.
type Record struct {
	SleepHours       float64
	RestViolations   float64
	ShipType         string
	Region           string
	CalledDuringRest string
	PortIntensity    string
}
