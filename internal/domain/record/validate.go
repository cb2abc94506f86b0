package record

import (
	"fmt"
	"strconv"
	"strings"
)

// ValidationError reports the first field that failed validation. The message
// names the field and its accepted range or member set so it can be returned
// to the submitter verbatim.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// Validate checks every field of row against the schema and returns the typed
// record, or a *ValidationError naming the first violation. There is no
// coercion or defaulting: a record is fully valid or rejected.
func Validate(row Row) (Record, error) {
	sleep, err := parseRange(FieldSleepHours, row.SleepHours, MinSleepHours, MaxSleepHours)
	if err != nil {
		return Record{}, err
	}
	violations, err := parseRange(FieldRestViolations, row.RestViolations, MinRestViolations, MaxRestViolations)
	if err != nil {
		return Record{}, err
	}
	if err := checkEnum(FieldShipType, row.ShipType, ShipTypes); err != nil {
		return Record{}, err
	}
	if err := checkEnum(FieldRegion, row.Region, Regions); err != nil {
		return Record{}, err
	}
	if err := checkEnum(FieldCalledDuringRest, row.CalledDuringRest, CalledDuringRest); err != nil {
		return Record{}, err
	}
	if err := checkEnum(FieldPortIntensity, row.PortIntensity, PortIntensities); err != nil {
		return Record{}, err
	}
	return Record{
		SleepHours:       sleep,
		RestViolations:   violations,
		ShipType:         row.ShipType,
		Region:           row.Region,
		CalledDuringRest: row.CalledDuringRest,
		PortIntensity:    row.PortIntensity,
	}, nil
}

func parseRange(field, value string, min, max float64) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
	if err != nil || v < min || v > max {
		return 0, &ValidationError{
			Field:  field,
			Reason: fmt.Sprintf("must be a number between %g and %g", min, max),
		}
	}
	return v, nil
}

func checkEnum(field, value string, members []string) error {
	for _, m := range members {
		if value == m {
			return nil
		}
	}
	return &ValidationError{
		Field:  field,
		Reason: fmt.Sprintf("must be one of %s", strings.Join(members, ", ")),
	}
}
