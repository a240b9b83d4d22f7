package fs

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
)

// ReadPoints parses a CSV point dataset from r. The first record is treated
// as a header of attribute names when any of its fields is non-numeric;
// otherwise it is data and the attribute names are empty. Rows must be
// rectangular and all values finite.
func ReadPoints(r io.Reader) (rows [][]float32, names []string, err error) {
	cr := csv.NewReader(r)
	cr.ReuseRecord = true

	record, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, nil, ErrEmptyFile
	}
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %w", ErrIO, err)
	}

	first, perr := parseRow(record, 0)
	if perr != nil {
		// Non-numeric first record: header of attribute names.
		names = make([]string, len(record))
		copy(names, record)
	} else {
		rows = append(rows, first)
	}

	for row := 1; ; row++ {
		record, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			var pe *csv.ParseError
			if errors.As(err, &pe) && errors.Is(pe.Err, csv.ErrFieldCount) {
				return nil, nil, fmt.Errorf("%w: row %d", ErrRaggedRow, row)
			}
			return nil, nil, fmt.Errorf("%w: %w", ErrIO, err)
		}

		parsed, err := parseRow(record, row)
		if err != nil {
			return nil, nil, err
		}
		rows = append(rows, parsed)
	}

	if len(rows) == 0 {
		return nil, nil, ErrEmptyFile
	}

	return rows, names, nil
}

// ReadPointsFile reads a CSV (optionally gzipped) point dataset from path.
func ReadPointsFile(path string) (rows [][]float32, names []string, err error) {
	r, err := openReader(path)
	if err != nil {
		return nil, nil, err
	}
	defer r.Close()

	return ReadPoints(r)
}

func parseRow(record []string, row int) ([]float32, error) {
	out := make([]float32, len(record))
	for col, field := range record {
		v, err := strconv.ParseFloat(field, 32)
		if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, &ErrMalformedNumber{Row: row, Col: col, Value: field}
		}
		out[col] = float32(v)
	}
	return out, nil
}
