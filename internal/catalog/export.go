package catalog

import (
	"io"
	"strconv"
	"strings"

	"github.com/360EntSecGroup-Skylar/excelize"
	"github.com/gocarina/gocsv"
	"github.com/parquet-go/parquet-go"
	"github.com/pkg/errors"
	"github.com/talkincode/arcatalog/internal/domain"
)

// Export formats
const (
	FormatCSV     = "csv"
	FormatXLSX    = "xlsx"
	FormatParquet = "parquet"
)

const exportSheet = "Sheet1"

var exportHeader = []string{
	"id", "name", "description", "imageUrl", "modelUrl",
	"scale", "width", "height", "depth", "category", "price",
}

// ExportContentType returns the MIME type of an export format.
func ExportContentType(format string) string {
	switch format {
	case FormatCSV:
		return "text/csv; charset=utf-8"
	case FormatXLSX:
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	case FormatParquet:
		return "application/vnd.apache.parquet"
	default:
		return "application/octet-stream"
	}
}

// ParseExportFormat normalizes a format name; empty means csv.
func ParseExportFormat(format string) (string, error) {
	format = strings.ToLower(strings.TrimSpace(format))
	switch format {
	case "":
		return FormatCSV, nil
	case FormatCSV, FormatXLSX, FormatParquet:
		return format, nil
	default:
		return "", errors.Errorf("unsupported export format %q", format)
	}
}

// Export writes products to w in the given format.
func Export(w io.Writer, format string, products []domain.Product) error {
	switch format {
	case FormatCSV:
		return exportCSV(w, products)
	case FormatXLSX:
		return exportXLSX(w, products)
	case FormatParquet:
		return exportParquet(w, products)
	default:
		return errors.Errorf("unsupported export format %q", format)
	}
}

func exportCSV(w io.Writer, products []domain.Product) error {
	rows := make([]*csvRecord, 0, len(products))
	for _, p := range products {
		rows = append(rows, newCSVRecord(p))
	}
	return errors.Wrap(gocsv.Marshal(rows, w), "write csv")
}

func exportXLSX(w io.Writer, products []domain.Product) error {
	xlsx := excelize.NewFile()
	for col, name := range exportHeader {
		xlsx.SetCellValue(exportSheet, cellName(col, 1), name)
	}
	for i, p := range products {
		rec := newCSVRecord(p)
		row := i + 2
		values := []interface{}{
			rec.ID, rec.Name, rec.Description, rec.ImageURL, rec.ModelURL,
			p.Scale, p.Dimensions.Width, p.Dimensions.Height, p.Dimensions.Depth,
			rec.Category, rec.Price,
		}
		for col, v := range values {
			xlsx.SetCellValue(exportSheet, cellName(col, row), v)
		}
	}
	return errors.Wrap(xlsx.Write(w), "write xlsx")
}

func exportParquet(w io.Writer, products []domain.Product) error {
	rows := make([]parquetRecord, 0, len(products))
	for _, p := range products {
		rows = append(rows, newParquetRecord(p))
	}
	return errors.Wrap(parquet.Write(w, rows), "write parquet")
}

// cellName converts a zero-based column and a one-based row to an A1
// style cell reference.
func cellName(col, row int) string {
	return excelize.ToAlphaString(col) + strconv.Itoa(row)
}
