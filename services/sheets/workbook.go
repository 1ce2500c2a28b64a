package sheets

import (
	"context"
	"errors"
	"fmt"
	"lead_funnel_go/models"
	"log"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/xuri/excelize/v2"
)

// Workbook appends leads to a local xlsx file. Used in development and for
// offline demos; the layout matches the Google sheet so a file can be pasted in.
type Workbook struct {
	path  string
	sheet string
	mu    sync.Mutex
}

// NewWorkbook creates a workbook store. The file is created on first append.
func NewWorkbook(path, sheet string) *Workbook {
	return &Workbook{path: path, sheet: sheet}
}

func (w *Workbook) Name() string { return "workbook" }

// open loads the workbook, creating it (with a header row) when missing
func (w *Workbook) open() (*excelize.File, error) {
	f, err := excelize.OpenFile(w.path)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("failed to open workbook: %w", err)
		}
		f = excelize.NewFile()
		if err := f.SetSheetName("Sheet1", w.sheet); err != nil {
			f.Close()
			return nil, fmt.Errorf("failed to name sheet: %w", err)
		}
		if err := w.writeHeader(f); err != nil {
			f.Close()
			return nil, err
		}
		return f, nil
	}

	idx, err := f.GetSheetIndex(w.sheet)
	if err != nil || idx < 0 {
		if _, err := f.NewSheet(w.sheet); err != nil {
			f.Close()
			return nil, fmt.Errorf("failed to create sheet %s: %w", w.sheet, err)
		}
		if err := w.writeHeader(f); err != nil {
			f.Close()
			return nil, err
		}
	}
	return f, nil
}

func (w *Workbook) writeHeader(f *excelize.File) error {
	header := append([]string{}, models.SheetColumns...)
	if err := f.SetSheetRow(w.sheet, "A1", &header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	style, _ := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	f.SetCellStyle(w.sheet, "A1", "G1", style)
	f.SetColWidth(w.sheet, "A", "A", 28)
	f.SetColWidth(w.sheet, "B", "E", 18)
	return nil
}

// AppendLead writes the lead below the last used row
func (w *Workbook) AppendLead(ctx context.Context, lead *models.Lead) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(w.path), 0755); err != nil {
		return fmt.Errorf("failed to create workbook directory: %w", err)
	}

	f, err := w.open()
	if err != nil {
		return err
	}
	defer f.Close()

	rows, err := f.GetRows(w.sheet)
	if err != nil {
		return fmt.Errorf("failed to read rows: %w", err)
	}

	next := len(rows) + 1
	cell, err := excelize.CoordinatesToCellName(1, next)
	if err != nil {
		return err
	}

	row := lead.Row()
	if err := f.SetSheetRow(w.sheet, cell, &row); err != nil {
		return fmt.Errorf("failed to write row: %w", err)
	}

	if err := f.SaveAs(w.path); err != nil {
		return fmt.Errorf("failed to save workbook: %w", err)
	}

	log.Printf("[sheets] Appended row %d to %s", next, w.path)
	return nil
}

// dataRows returns rows below the header; a missing file has no rows
func (w *Workbook) dataRows() ([][]string, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	f, err := excelize.OpenFile(w.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	rows, err := f.GetRows(w.sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to read rows: %w", err)
	}
	if len(rows) <= 1 {
		return nil, nil
	}
	return rows[1:], nil
}

func (w *Workbook) CountLeads(ctx context.Context) (int, error) {
	rows, err := w.dataRows()
	if err != nil {
		return 0, err
	}
	return countFilled(rows), nil
}

func (w *Workbook) Stats(ctx context.Context, now time.Time) (*models.LeadStats, error) {
	rows, err := w.dataRows()
	if err != nil {
		return nil, err
	}
	return summarize(rows, now), nil
}
