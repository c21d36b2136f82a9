package catalog

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"centremart/models"

	"github.com/xuri/excelize/v2"
)

// rowProduct converts the columns name, price, description, category and
// optional image URL. Rows with fewer than four columns are skipped.
func rowProduct(cols []string) (models.Product, bool) {
	if len(cols) < 4 {
		return models.Product{}, false
	}
	for i := range cols {
		cols[i] = strings.TrimSpace(cols[i])
	}
	if cols[0] == "" {
		return models.Product{}, false
	}

	price, err := strconv.ParseFloat(cols[1], 64)
	if err != nil {
		price = 0
	}
	category := cols[3]
	if !models.IsCategory(category) {
		category = models.FallbackCategory
	}
	imageURL := models.PlaceholderImageURL
	if len(cols) > 4 && cols[4] != "" {
		imageURL = cols[4]
	}
	return models.Product{
		Name:        cols[0],
		Price:       price,
		Description: cols[2],
		Category:    category,
		ImageURL:    imageURL,
	}, true
}

// ParseBulkText reads one product per line in the form
// "name | price | description | category | imageUrl"
func ParseBulkText(text string) []models.Product {
	var out []models.Product
	for _, line := range strings.Split(strings.TrimSpace(text), "\n") {
		if p, ok := rowProduct(strings.Split(line, "|")); ok {
			out = append(out, p)
		}
	}
	return out
}

// ParseBulkSheet reads the same columns from the first sheet of an xlsx
// workbook. A first row whose price cell is not a number is treated as a header.
func ParseBulkSheet(r io.Reader) ([]models.Product, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("workbook has no sheets")
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("read rows: %w", err)
	}

	if len(rows) > 0 && len(rows[0]) > 1 {
		if _, err := strconv.ParseFloat(strings.TrimSpace(rows[0][1]), 64); err != nil {
			rows = rows[1:]
		}
	}

	var out []models.Product
	for _, row := range rows {
		if p, ok := rowProduct(row); ok {
			out = append(out, p)
		}
	}
	return out, nil
}
