package sample

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
)

// LoadVectorTable reads a feature-vector table (spec §6.2 collaborator,
// generalized from the original's pendigits-style tables): each row is
// a comma-separated record of float features followed by one trailing
// integer class label.
func LoadVectorTable(r io.Reader) (x [][]float64, labels []int, err error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true
	records, err := cr.ReadAll()
	if err != nil {
		return nil, nil, fmt.Errorf("sample: read CSV: %w", err)
	}
	x = make([][]float64, 0, len(records))
	labels = make([]int, 0, len(records))
	for i, rec := range records {
		if len(rec) < 2 {
			return nil, nil, fmt.Errorf("sample: row %d has %d fields, want at least 2", i, len(rec))
		}
		row := make([]float64, len(rec)-1)
		for j, field := range rec[:len(rec)-1] {
			v, err := strconv.ParseFloat(field, 64)
			if err != nil {
				return nil, nil, fmt.Errorf("sample: row %d field %d: %w", i, j, err)
			}
			row[j] = v
		}
		lbl, err := strconv.Atoi(rec[len(rec)-1])
		if err != nil {
			lblF, ferr := strconv.ParseFloat(rec[len(rec)-1], 64)
			if ferr != nil {
				return nil, nil, fmt.Errorf("sample: row %d label: %w", i, err)
			}
			lbl = int(lblF)
		}
		x = append(x, row)
		labels = append(labels, lbl)
	}
	return x, labels, nil
}
