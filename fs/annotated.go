package fs

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/gijs-s/pointctl/explain"
	"github.com/gijs-s/pointctl/pointset"
)

// noneCategory is the textual form of an absent category.
const noneCategory = "none"

// WriteAnnotated writes an annotated point set as CSV: the reduced
// coordinates followed by category and confidence. Floats are formatted
// with the shortest round-tripping representation, so reading the output
// back reproduces identical tuples.
func WriteAnnotated(w io.Writer, aps *explain.AnnotatedPointSet) error {
	cw := csv.NewWriter(w)

	dim := aps.Points.Dim()
	header := make([]string, 0, dim+2)
	if dim == 2 {
		header = append(header, "x", "y")
	} else {
		header = append(header, "x", "y", "z")
	}
	header = append(header, "category", "confidence")
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("%w: %w", ErrIO, err)
	}

	record := make([]string, dim+2)
	for i := 0; i < aps.Points.Len(); i++ {
		coords := aps.Points.At(uint32(i))
		for d, v := range coords {
			record[d] = formatFloat(v)
		}

		ann := aps.Annotations[i]
		if ann.None() {
			record[dim] = noneCategory
		} else {
			record[dim] = strconv.Itoa(int(ann.Category))
		}
		record[dim+1] = formatFloat(ann.Confidence)

		if err := cw.Write(record); err != nil {
			return fmt.Errorf("%w: %w", ErrIO, err)
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("%w: %w", ErrIO, err)
	}
	return nil
}

// WriteAnnotatedFile writes the annotated set to path, gzipped when the
// path ends in .gz.
func WriteAnnotatedFile(path string, aps *explain.AnnotatedPointSet) error {
	w, err := openWriter(path)
	if err != nil {
		return err
	}

	if err := WriteAnnotated(w, aps); err != nil {
		w.Close()
		return err
	}
	return w.Close()
}

// ReadAnnotated reads back a CSV produced by WriteAnnotated.
func ReadAnnotated(r io.Reader) (*explain.AnnotatedPointSet, error) {
	cr := csv.NewReader(r)

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, ErrEmptyFile
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrIO, err)
	}
	dim := len(header) - 2
	if dim != 2 && dim != 3 {
		return nil, fmt.Errorf("%w: header %q", ErrRaggedRow, header)
	}

	var (
		rows        [][]float32
		annotations []explain.Annotation
	)
	for row := 1; ; row++ {
		record, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			var pe *csv.ParseError
			if errors.As(err, &pe) && errors.Is(pe.Err, csv.ErrFieldCount) {
				return nil, fmt.Errorf("%w: row %d", ErrRaggedRow, row)
			}
			return nil, fmt.Errorf("%w: %w", ErrIO, err)
		}

		coords, err := parseRow(record[:dim], row)
		if err != nil {
			return nil, err
		}
		rows = append(rows, coords)

		ann := explain.Annotation{Category: explain.CategoryNone}
		if record[dim] != noneCategory {
			cat, err := strconv.ParseInt(record[dim], 10, 32)
			if err != nil {
				return nil, &ErrMalformedNumber{Row: row, Col: dim, Value: record[dim]}
			}
			ann.Category = int32(cat)
		}
		conf, err := strconv.ParseFloat(record[dim+1], 32)
		if err != nil {
			return nil, &ErrMalformedNumber{Row: row, Col: dim + 1, Value: record[dim+1]}
		}
		ann.Confidence = float32(conf)
		annotations = append(annotations, ann)
	}

	if len(rows) == 0 {
		return nil, ErrEmptyFile
	}

	ps, err := pointset.New(rows)
	if err != nil {
		return nil, err
	}

	return &explain.AnnotatedPointSet{Points: ps, Annotations: annotations}, nil
}

// ReadAnnotatedFile reads an annotated set from path, ungzipping .gz files.
func ReadAnnotatedFile(path string) (*explain.AnnotatedPointSet, error) {
	r, err := openReader(path)
	if err != nil {
		return nil, err
	}
	defer r.Close()

	return ReadAnnotated(r)
}

func formatFloat(v float32) string {
	return strconv.FormatFloat(float64(v), 'g', -1, 32)
}
