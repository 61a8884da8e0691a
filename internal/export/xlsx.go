package export

import (
	"fmt"
	"io"
	"time"

	"github.com/coolBuddy03/sitemapmonitoring/internal/model"
	"github.com/xuri/excelize/v2"
)

// WriteWorkbook writes results as a single-sheet workbook.
func WriteWorkbook(w io.Writer, results []model.CheckResult) error {
	return writeSheet(w, Rows(results))
}

// WriteReport writes the full report: summary block, then every result.
func WriteReport(w io.Writer, job *model.JobResponse, generatedAt time.Time) error {
	return writeSheet(w, ReportRows(job, generatedAt))
}

func writeSheet(w io.Writer, rows [][]any) (err error) {
	f := excelize.NewFile()
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()

	if err := f.SetSheetName(f.GetSheetName(0), SheetName); err != nil {
		return fmt.Errorf("export: rename sheet: %w", err)
	}

	sw, err := f.NewStreamWriter(SheetName)
	if err != nil {
		return fmt.Errorf("export: stream writer: %w", err)
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := sw.SetRow(cell, row); err != nil {
			return fmt.Errorf("export: row %d: %w", i+1, err)
		}
	}
	if err := sw.Flush(); err != nil {
		return fmt.Errorf("export: flush: %w", err)
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("export: write workbook: %w", err)
	}
	return nil
}
