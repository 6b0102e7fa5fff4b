package dataset

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/YuminosukeSato/logiteval/pkg/errors"
)

// ReadCSVFile opens path and reads it with ReadCSV.
func ReadCSVFile(path string) (*Frame, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "open %s", path)
	}
	defer file.Close()

	f, err := ReadCSV(file)
	if err != nil {
		return nil, errors.Wrapf(err, "read %s", path)
	}
	return f, nil
}

// ReadCSV reads a header row followed by data rows. A column whose every
// cell parses as a float becomes Numeric, one whose every cell is
// true/false (any case) becomes Boolean, anything else Text. Empty cells
// are rejected; missing values are not supported.
func ReadCSV(r io.Reader) (*Frame, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err == io.EOF {
		return nil, errors.NewModelError("ReadCSV", "empty data", errors.ErrEmptyData)
	}
	if err != nil {
		return nil, errors.Wrap(err, "read header")
	}

	cells := make([][]string, len(header))
	line := 1
	for {
		rec, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.Wrapf(err, "read line %d", line+1)
		}
		line++
		for j, cell := range rec {
			cell = strings.TrimSpace(cell)
			if cell == "" {
				return nil, errors.NewValueError("ReadCSV", fmt.Sprintf("line %d: empty value in column %q", line, header[j]))
			}
			cells[j] = append(cells[j], cell)
		}
	}
	if line == 1 {
		return nil, errors.NewModelError("ReadCSV", "no data rows", errors.ErrEmptyData)
	}

	cols := make([]Column, len(header))
	for j, name := range header {
		cols[j] = inferColumn(strings.TrimSpace(name), cells[j])
	}
	return NewFrame(cols...)
}

func inferColumn(name string, cells []string) Column {
	if nums, ok := parseFloats(cells); ok {
		return NewNumeric(name, nums)
	}
	if bools, ok := parseBools(cells); ok {
		return NewBoolean(name, bools)
	}
	return NewText(name, cells)
}

func parseFloats(cells []string) ([]float64, bool) {
	out := make([]float64, len(cells))
	for i, c := range cells {
		v, err := strconv.ParseFloat(c, 64)
		if err != nil {
			return nil, false
		}
		out[i] = v
	}
	return out, true
}

func parseBools(cells []string) ([]bool, bool) {
	out := make([]bool, len(cells))
	for i, c := range cells {
		switch strings.ToLower(c) {
		case "true":
			out[i] = true
		case "false":
			out[i] = false
		default:
			return nil, false
		}
	}
	return out, true
}
