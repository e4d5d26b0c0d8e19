// Package export renders an owner's materials and product history as xlsx
// workbooks.
package export

import (
	"bytes"
	"fmt"

	"go-artisan-pricing/internal/model"
	"go-artisan-pricing/internal/pricing"

	"github.com/xuri/excelize/v2"
)

const (
	MaterialsSheet = "Materials"
	ProductsSheet  = "Products"
	LinesSheet     = "Lines"

	ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

var materialHeader = []interface{}{
	"id", "name", "measurement_kind", "purchase_price",
	"purchased_units", "purchased_length_cm", "purchased_width_cm", "purchased_height_cm",
	"unit_cost", "supplier", "purchase_date", "notes",
}

var productHeader = []interface{}{
	"id", "name", "created_at", "production_minutes", "hourly_rate",
	"materials_cost", "labor_cost", "total_cost", "profit_margin_percent", "profit", "final_price",
}

var lineHeader = []interface{}{
	"product_id", "product_name", "position", "material_id", "material_name", "measurement_kind",
	"unit_cost", "units_used", "length_used_cm", "width_used_cm", "height_used_cm", "line_cost",
}

// Materials writes one row per material. Money is rounded to cents and unit
// costs to 4 places, as the API shows them.
func Materials(materials []model.Material) (*bytes.Buffer, error) {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName(f.GetSheetName(f.GetActiveSheetIndex()), MaterialsSheet); err != nil {
		return nil, fmt.Errorf("rename sheet: %w", err)
	}
	if err := writeHeader(f, MaterialsSheet, materialHeader); err != nil {
		return nil, err
	}

	for i, m := range materials {
		purchaseDate := ""
		if m.PurchaseDate != nil {
			purchaseDate = m.PurchaseDate.Format("2006-01-02")
		}
		row := []interface{}{
			m.ID.String(),
			m.Name,
			string(m.MeasurementKind),
			pricing.RoundMoney(m.PurchasePrice),
			m.PurchasedUnits,
			m.PurchasedLength,
			m.PurchasedWidth,
			m.PurchasedHeight,
			pricing.RoundUnitCost(m.UnitCost),
			m.Supplier,
			purchaseDate,
			m.Notes,
		}
		if err := writeRow(f, MaterialsSheet, i+2, row); err != nil {
			return nil, err
		}
	}

	return finish(f)
}

// Products writes the history on one sheet and every material line on a
// second one, keyed by product id.
func Products(products []model.Product) (*bytes.Buffer, error) {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName(f.GetSheetName(f.GetActiveSheetIndex()), ProductsSheet); err != nil {
		return nil, fmt.Errorf("rename sheet: %w", err)
	}
	if _, err := f.NewSheet(LinesSheet); err != nil {
		return nil, fmt.Errorf("create sheet: %w", err)
	}
	if err := writeHeader(f, ProductsSheet, productHeader); err != nil {
		return nil, err
	}
	if err := writeHeader(f, LinesSheet, lineHeader); err != nil {
		return nil, err
	}

	lineRow := 2
	for i, p := range products {
		b := p.Breakdown().Rounded()
		row := []interface{}{
			p.ID.String(),
			p.Name,
			p.CreatedAt.UTC().Format("2006-01-02 15:04:05"),
			p.ProductionMinutes,
			pricing.RoundMoney(p.HourlyRate),
			b.MaterialsCost,
			b.LaborCost,
			b.TotalCost,
			p.ProfitMarginPercent,
			b.Profit,
			b.FinalPrice,
		}
		if err := writeRow(f, ProductsSheet, i+2, row); err != nil {
			return nil, err
		}

		for _, u := range p.Materials {
			line := []interface{}{
				p.ID.String(),
				p.Name,
				u.Position + 1,
				u.MaterialID.String(),
				u.Name,
				string(u.MeasurementKind),
				pricing.RoundUnitCost(u.UnitCost),
				u.UnitsUsed,
				u.LengthUsed,
				u.WidthUsed,
				u.HeightUsed,
				pricing.RoundMoney(u.LineCost),
			}
			if err := writeRow(f, LinesSheet, lineRow, line); err != nil {
				return nil, err
			}
			lineRow++
		}
	}

	return finish(f)
}

func writeHeader(f *excelize.File, sheet string, header []interface{}) error {
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return fmt.Errorf("write %s header: %w", sheet, err)
	}
	style, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("header style: %w", err)
	}
	last, err := excelize.CoordinatesToCellName(len(header), 1)
	if err != nil {
		return err
	}
	if err := f.SetCellStyle(sheet, "A1", last, style); err != nil {
		return fmt.Errorf("style %s header: %w", sheet, err)
	}
	return f.SetPanes(sheet, &excelize.Panes{Freeze: true, YSplit: 1, TopLeftCell: "A2", ActivePane: "bottomLeft"})
}

func writeRow(f *excelize.File, sheet string, row int, values []interface{}) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	if err := f.SetSheetRow(sheet, cell, &values); err != nil {
		return fmt.Errorf("write %s row %d: %w", sheet, row, err)
	}
	return nil
}

func finish(f *excelize.File) (*bytes.Buffer, error) {
	buf := &bytes.Buffer{}
	if err := f.Write(buf); err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	return buf, nil
}
