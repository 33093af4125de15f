package report

import (
	"fmt"

	"normsim/app"

	"github.com/xuri/excelize/v2"
)

// WriteSweepWorkbook writes one row per experiment cell to an xlsx workbook.
// This stays outside the engine core; reporting collaborators own the file.
func WriteSweepWorkbook(path string, result *app.SweepResult) error {
	f := excelize.NewFile()
	defer f.Close()

	sheet := "Sweep"
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return fmt.Errorf("failed to name sweep sheet: %w", err)
	}

	headers := []string{"distribution", "n", "procedure", "coverage_rate", "mean_width", "type1_error_rate", "fingerprint", "runtime_ms"}
	for col, header := range headers {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheet, cell, header); err != nil {
			return err
		}
	}

	for i, cellResult := range result.Cells {
		values := []interface{}{
			string(cellResult.Cell.Spec.Kind),
			cellResult.Cell.SampleSize,
			string(cellResult.Cell.Procedure),
			cellResult.Result.CoverageRate,
			cellResult.Result.MeanWidth,
			nil,
			cellResult.Fingerprint.String(),
			cellResult.RuntimeMs,
		}
		if cellResult.Result.Type1ErrorRate != nil {
			values[5] = *cellResult.Result.Type1ErrorRate
		}

		for col, value := range values {
			if value == nil {
				continue
			}
			cell, err := excelize.CoordinatesToCellName(col+1, i+2)
			if err != nil {
				return err
			}
			if err := f.SetCellValue(sheet, cell, value); err != nil {
				return err
			}
		}
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save sweep workbook: %w", err)
	}
	return nil
}
