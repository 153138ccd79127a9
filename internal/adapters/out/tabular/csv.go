// Package tabular reads job import sheets. The import pipeline accepts CSV
// exports from several office tools, so header matching is lenient: names
// are case-insensitive and a handful of common aliases are recognized.
package tabular

import (
	"encoding/csv"
	"errors"
	"io"
	"strconv"
	"strings"

	"fieldwork/internal/core/application/usecases/commands"
)

// ErrEmptySheet is returned when the sheet has no header row.
var ErrEmptySheet = errors.New("sheet has no header row")

// headerAliases maps normalized header names to canonical column keys.
var headerAliases = map[string]string{
	"street":        "street",
	"address":       "street",
	"streetaddress": "street",
	"city":          "city",
	"town":          "city",
	"state":         "state",
	"province":      "state",
	"zip":           "zipcode",
	"zipcode":       "zipcode",
	"postalcode":    "zipcode",
	"country":       "country",
	"type":          "jobtype",
	"jobtype":       "jobtype",
	"metertype":     "jobtype",
	"priority":      "priority",
	"notes":         "notes",
	"comment":       "notes",
	"comments":      "notes",
	"lat":           "latitude",
	"latitude":      "latitude",
	"lon":           "longitude",
	"lng":           "longitude",
	"longitude":     "longitude",
}

// ParseJobsCSV reads a job sheet into import rows. The first record is the
// header; unrecognized columns are ignored. Cells that fail to parse as
// coordinates are dropped rather than failing the sheet, so one bad cell
// cannot sink a bulk import.
func ParseJobsCSV(r io.Reader) ([]commands.ImportRow, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, ErrEmptySheet
	}
	if err != nil {
		return nil, err
	}

	columns := make(map[string]int, len(header))
	for i, name := range header {
		if key, ok := headerAliases[normalizeHeader(name)]; ok {
			columns[key] = i
		}
	}

	rows := make([]commands.ImportRow, 0)
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}

		rows = append(rows, commands.ImportRow{
			Street:    cell(record, columns, "street"),
			City:      cell(record, columns, "city"),
			State:     cell(record, columns, "state"),
			ZipCode:   cell(record, columns, "zipcode"),
			Country:   cell(record, columns, "country"),
			JobType:   cell(record, columns, "jobtype"),
			Priority:  cell(record, columns, "priority"),
			Notes:     cell(record, columns, "notes"),
			Latitude:  floatCell(record, columns, "latitude"),
			Longitude: floatCell(record, columns, "longitude"),
		})
	}

	return rows, nil
}

func normalizeHeader(name string) string {
	name = strings.ToLower(strings.TrimSpace(name))
	name = strings.TrimPrefix(name, "\ufeff")
	replacer := strings.NewReplacer(" ", "", "_", "", "-", "")
	return replacer.Replace(name)
}

func cell(record []string, columns map[string]int, key string) string {
	i, ok := columns[key]
	if !ok || i >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[i])
}

func floatCell(record []string, columns map[string]int, key string) *float64 {
	raw := cell(record, columns, key)
	if raw == "" {
		return nil
	}

	value, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil
	}
	return &value
}
