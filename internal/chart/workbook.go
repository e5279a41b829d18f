package chart

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	apperrors "cryptoboard/internal/errors"

	"github.com/xuri/excelize/v2"
)

const defaultSheet = "Sheet1"

// Sheet is one named data sheet with its line chart.
type Sheet struct {
	Name  string
	Frame Frame
}

// BuildWorkbook writes each sheet's samples as Time/Price rows and adds a
// native line chart bounded to the frame's y range. The caller closes the file.
func BuildWorkbook(sheets ...Sheet) (*excelize.File, error) {
	f := excelize.NewFile()
	for i, sheet := range sheets {
		if i == 0 {
			if err := f.SetSheetName(defaultSheet, sheet.Name); err != nil {
				_ = f.Close()
				return nil, err
			}
		} else if _, err := f.NewSheet(sheet.Name); err != nil {
			_ = f.Close()
			return nil, err
		}
		if err := writeSheet(f, sheet); err != nil {
			_ = f.Close()
			return nil, fmt.Errorf("sheet %q: %w", sheet.Name, err)
		}
	}
	return f, nil
}

func writeSheet(f *excelize.File, sheet Sheet) error {
	if err := f.SetSheetRow(sheet.Name, "A1", &[]any{"Time", "Price"}); err != nil {
		return err
	}
	for i, s := range sheet.Frame.Samples {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		row := []any{s.Time.Format(TimeLayout), s.Price.InexactFloat64()}
		if err := f.SetSheetRow(sheet.Name, cell, &row); err != nil {
			return err
		}
	}
	if err := f.SetColWidth(sheet.Name, "A", "A", 20); err != nil {
		return err
	}
	if sheet.Frame.Empty() {
		return nil
	}

	last := len(sheet.Frame.Samples) + 1
	ref := func(col string) string {
		return fmt.Sprintf("'%s'!$%s$2:$%s$%d", sheet.Name, col, col, last)
	}
	yMin := sheet.Frame.YMin.InexactFloat64()
	yMax := sheet.Frame.YMax.InexactFloat64()

	return f.AddChart(sheet.Name, "D2", &excelize.Chart{
		Type: excelize.Line,
		Series: []excelize.ChartSeries{{
			Name:       fmt.Sprintf("'%s'!$B$1", sheet.Name),
			Categories: ref("A"),
			Values:     ref("B"),
		}},
		Title:     []excelize.RichTextRun{{Text: sheet.Frame.Title}},
		Legend:    excelize.ChartLegend{Position: "none"},
		Dimension: excelize.ChartDimension{Width: 960, Height: 480},
		YAxis: excelize.ChartAxis{
			MajorGridLines: true,
			Minimum:        &yMin,
			Maximum:        &yMax,
		},
	})
}

// Workbook redraws the chart into an .xlsx file on every frame. The file
// is replaced atomically so readers never see a half-written workbook.
type Workbook struct {
	path  string
	sheet string
}

func NewWorkbook(path string) *Workbook {
	return &Workbook{path: path, sheet: "Prices"}
}

func (w *Workbook) Render(_ context.Context, frame Frame) error {
	f, err := BuildWorkbook(Sheet{Name: w.sheet, Frame: frame})
	if err != nil {
		return apperrors.Fatal(apperrors.RenderError, "failed to build workbook", err)
	}
	defer f.Close()

	tmp, err := os.CreateTemp(filepath.Dir(w.path), ".live-plot-*.xlsx")
	if err != nil {
		return apperrors.Fatal(apperrors.RenderError, "failed to create workbook", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := f.WriteTo(tmp); err != nil {
		_ = tmp.Close()
		return apperrors.Fatal(apperrors.RenderError, "failed to write workbook", err)
	}
	if err := tmp.Close(); err != nil {
		return apperrors.Fatal(apperrors.RenderError, "failed to write workbook", err)
	}
	if err := os.Rename(tmp.Name(), w.path); err != nil {
		return apperrors.Fatal(apperrors.RenderError, "failed to replace workbook", err)
	}
	return nil
}
