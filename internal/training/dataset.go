package training

import (
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"

	"github.com/abhijithns29/propchain/internal/domain"
)

// Dataset is a cleaned design matrix plus targets, rows aligned.
type Dataset struct {
	FeatureNames []string
	X            [][]float64
	Y            []float64
	Skipped      int
}

// LoadCSV reads a historical listing file. The header must contain a "price"
// column (raw scraped strings like "₹1.99 Cr" are accepted) and one column
// per canonical feature name; extra columns are ignored. Rows that fail
// cleaning are skipped and counted, matching how the scraped data is actually
// shaped: partially garbage.
func LoadCSV(path string, logger *slog.Logger) (*Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open dataset: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1

	header, err := r.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}

	colIndex := make(map[string]int, len(header))
	for i, name := range header {
		colIndex[name] = i
	}

	priceCol, ok := colIndex["price"]
	if !ok {
		return nil, fmt.Errorf("dataset has no price column")
	}
	featureCols := make([]int, len(domain.FeatureNames))
	for i, name := range domain.FeatureNames {
		col, ok := colIndex[name]
		if !ok {
			return nil, fmt.Errorf("dataset missing feature column %s", name)
		}
		featureCols[i] = col
	}

	ds := &Dataset{FeatureNames: domain.FeatureNames}

	for line := 2; ; line++ {
		record, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read row: %w", err)
		}

		row, price, rowErr := cleanRow(record, featureCols, priceCol)
		if rowErr != nil {
			logger.Debug("skipping row", "line", line, "error", rowErr)
			ds.Skipped++
			continue
		}
		ds.X = append(ds.X, row)
		ds.Y = append(ds.Y, price)
	}

	if len(ds.X) == 0 {
		return nil, fmt.Errorf("no usable rows in %s (%d skipped)", path, ds.Skipped)
	}
	return ds, nil
}

func cleanRow(record []string, featureCols []int, priceCol int) ([]float64, float64, error) {
	if priceCol >= len(record) {
		return nil, 0, fmt.Errorf("short row")
	}
	price, err := CleanPrice(record[priceCol])
	if err != nil {
		return nil, 0, err
	}
	if price <= 0 {
		return nil, 0, fmt.Errorf("non-positive price")
	}

	row := make([]float64, len(featureCols))
	for i, col := range featureCols {
		if col >= len(record) {
			return nil, 0, fmt.Errorf("short row")
		}
		v, err := strconv.ParseFloat(record[col], 64)
		if err != nil {
			return nil, 0, fmt.Errorf("bad feature value %q: %w", record[col], err)
		}
		row[i] = v
	}
	return row, price, nil
}
