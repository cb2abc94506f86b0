package record

import (
	"bytes"
	"encoding/csv"
	"errors"
	"io"

	"github.com/jszwec/csvutil"
)

// Sentinel kinds for decode errors.
var (
	// ErrMalformed means the bytes are not a CSV with a header row and at
	// least one data row.
	ErrMalformed = errors.New("malformed csv")
)

func newDecoder(content []byte) (*csvutil.Decoder, error) {
	r := csv.NewReader(bytes.NewReader(content))
	// Ragged rows are handled per row, not by the reader.
	r.FieldsPerRecord = -1
	return csvutil.NewDecoder(r)
}

// DecodeFirst parses content as CSV and returns the first data row. It is the
// strict ingestion-time decode: a missing header or an empty body is
// ErrMalformed. Later rows are deliberately not inspected here; uploads are
// stored byte-for-byte and the aggregator scans every row of every file.
func DecodeFirst(content []byte) (Row, error) {
	dec, err := newDecoder(content)
	if err != nil {
		return Row{}, ErrMalformed
	}
	var row Row
	if err := dec.Decode(&row); err != nil {
		return Row{}, ErrMalformed
	}
	return row, nil
}

// DecodeAll parses content as CSV and returns every data row it can read.
// Rows whose cell count does not match the header still count: present cells
// map by header position and missing ones stay empty, so short legacy rows
// surface with zero numeric contribution instead of vanishing from the
// aggregate. Only a missing or unreadable header makes the whole file
// undecodable.
func DecodeAll(content []byte) ([]Row, error) {
	dec, err := newDecoder(content)
	if err != nil {
		return nil, ErrMalformed
	}
	header := dec.Header()
	var rows []Row
	for {
		var row Row
		err := dec.Decode(&row)
		if errors.Is(err, io.EOF) {
			break
		}
		if errors.Is(err, csvutil.ErrFieldCount) {
			rows = append(rows, raggedRow(header, dec.Record()))
			continue
		}
		if err != nil {
			continue
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// raggedRow maps a record whose length disagrees with the header: cells map
// by header position, missing trailing cells stay empty, extra cells are
// dropped.
func raggedRow(header, record []string) Row {
	var row Row
	for i, name := range header {
		if i >= len(record) {
			break
		}
		switch name {
		case FieldSleepHours:
			row.SleepHours = record[i]
		case FieldRestViolations:
			row.RestViolations = record[i]
		case FieldShipType:
			row.ShipType = record[i]
		case FieldRegion:
			row.Region = record[i]
		case FieldCalledDuringRest:
			row.CalledDuringRest = record[i]
		case FieldPortIntensity:
			row.PortIntensity = record[i]
		}
	}
	return row
}
