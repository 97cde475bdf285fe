package admin

import (
	"io"
	"strings"

	"threadstory-be/internal/product"

	"github.com/tealeg/xlsx"
)

const (
	ExportSheetName   = "Products"
	ExportFileName    = "products.xlsx"
	ExportContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

var exportHeaders = []string{
	"ID", "Name", "Category", "Price", "Stock", "Sizes",
	"Colors", "Featured", "Rating", "Reviews", "CreatedAt",
}

// WriteProductsXLSX writes one header row plus one row per product.
func WriteProductsXLSX(w io.Writer, products []*product.Product) error {
	file := xlsx.NewFile()
	sheet, err := file.AddSheet(ExportSheetName)
	if err != nil {
		return err
	}

	headerRow := sheet.AddRow()
	for _, h := range exportHeaders {
		headerRow.AddCell().SetValue(h)
	}

	for _, p := range products {
		row := sheet.AddRow()

		row.AddCell().SetValue(p.ID)
		row.AddCell().SetValue(p.Name)
		row.AddCell().SetValue(string(p.Category))
		row.AddCell().SetFloat(p.Price)
		row.AddCell().SetInt(p.Stock)
		row.AddCell().SetValue(strings.Join(p.Sizes, ","))
		row.AddCell().SetValue(strings.Join(p.Colors, ","))
		row.AddCell().SetBool(p.Featured)
		row.AddCell().SetFloat(p.Rating)
		row.AddCell().SetInt(p.NumReviews)
		row.AddCell().SetValue(p.CreatedAt.Format("2006-01-02 15:04:05"))
	}

	return file.Write(w)
}
