package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/Rosa-Hornero/Footstep-Counter/internal/fsutil"
)

// Header names accepted for each axis, compared case-insensitively.
var axisHeaders = [3][]string{
	{"x", "acc_x", "accel_x", "ax"},
	{"y", "acc_y", "accel_y", "ay"},
	{"z", "acc_z", "accel_z", "az"},
}

// LoadCSV reads a CSV recording sampled at fs Hz. The first row is a header;
// the x, y and z columns are located by name and any other columns (such as
// timestamps or gyroscope channels) are ignored.
func LoadCSV(fsys fsutil.FileSystem, path string, fs float64) (*Recording, error) {
	f, err := fsys.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	rec, err := ReadCSV(f, fs)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	rec.Source = path
	return rec, nil
}

// ReadCSV parses a CSV recording from r. See LoadCSV.
func ReadCSV(r io.Reader, fs float64) (*Recording, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true
	cr.ReuseRecord = true

	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: empty file", ErrMalformed)
		}
		return nil, fmt.Errorf("%w: header: %v", ErrMalformed, err)
	}
	header = append([]string(nil), header...)
	cols, err := axisColumns(header)
	if err != nil {
		return nil, err
	}

	rec := &Recording{SampleRate: fs}
	line := 1
	for {
		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		line++
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: %v", ErrMalformed, line, err)
		}
		var v [3]float64
		for a, c := range cols {
			v[a], err = strconv.ParseFloat(strings.TrimSpace(row[c]), 64)
			if err != nil {
				return nil, fmt.Errorf("%w: line %d column %q: %v", ErrMalformed, line, header[c], err)
			}
		}
		rec.X = append(rec.X, v[0])
		rec.Y = append(rec.Y, v[1])
		rec.Z = append(rec.Z, v[2])
	}
	return rec, nil
}

func axisColumns(header []string) ([3]int, error) {
	cols := [3]int{-1, -1, -1}
	for i, h := range header {
		h = strings.ToLower(strings.TrimSpace(h))
		for a, names := range axisHeaders {
			if cols[a] >= 0 {
				continue
			}
			for _, name := range names {
				if h == name {
					cols[a] = i
				}
			}
		}
	}
	var missing []string
	for a, c := range cols {
		if c < 0 {
			missing = append(missing, axisHeaders[a][0])
		}
	}
	if len(missing) > 0 {
		return cols, fmt.Errorf("%w: %s", ErrMissingColumns, strings.Join(missing, ", "))
	}
	return cols, nil
}
