package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/omarshaarawi/skinsbot/internal/models"
)

const reportName = "skins_game_season_report"

type Exporter struct {
	dir string
	now func() time.Time
}

func NewExporter(dir string) *Exporter {
	return &Exporter{dir: dir, now: time.Now}
}

func (e *Exporter) CSVPath() string  { return filepath.Join(e.dir, reportName+".csv") }
func (e *Exporter) XLSXPath() string { return filepath.Join(e.dir, reportName+".xlsx") }

// ExportAll writes both report formats and returns their paths.
func (e *Exporter) ExportAll(records []models.Record) ([]string, error) {
	weeks := Weeks(records)
	if len(weeks) == 0 {
		return nil, ErrNothingToExport
	}
	if err := os.MkdirAll(e.dir, 0o755); err != nil {
		return nil, fmt.Errorf("error creating export directory: %w", err)
	}
	if err := e.WriteCSV(weeks); err != nil {
		return nil, err
	}
	if err := e.WriteXLSX(weeks); err != nil {
		return []string{e.CSVPath()}, err
	}
	return []string{e.CSVPath(), e.XLSXPath()}, nil
}

// WriteCSV writes the weekly breakdown and season scores as two titled
// sections of one file.
func (e *Exporter) WriteCSV(weeks []models.WeekResult) error {
	f, err := os.Create(e.CSVPath())
	if err != nil {
		return fmt.Errorf("error creating csv export: %w", err)
	}
	defer f.Close()

	if err := writeCSV(f, WeeklyBreakdown(weeks), SeasonScores(weeks)); err != nil {
		return fmt.Errorf("error writing csv export: %w", err)
	}
	return f.Close()
}

func writeCSV(w io.Writer, weekly, season Table) error {
	if _, err := io.WriteString(w, "=== WEEKLY BREAKDOWN ===\n"); err != nil {
		return err
	}
	if err := writeTable(w, weekly); err != nil {
		return err
	}
	if _, err := io.WriteString(w, "\n\n=== SEASON SCORES ===\n"); err != nil {
		return err
	}
	return writeTable(w, season)
}

func writeTable(w io.Writer, t Table) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(t.Header); err != nil {
		return err
	}
	for _, row := range t.Rows {
		record := make([]string, len(row))
		for i, cell := range row {
			record[i] = cellString(cell)
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func cellString(v any) string {
	switch c := v.(type) {
	case string:
		return c
	case int:
		return strconv.Itoa(c)
	case float64:
		return strconv.FormatFloat(c, 'f', -1, 64)
	}
	return fmt.Sprint(v)
}

// WriteXLSX writes one sheet per table.
func (e *Exporter) WriteXLSX(weeks []models.WeekResult) error {
	f := excelize.NewFile()
	defer f.Close()

	tables := []Table{
		WeeklyBreakdown(weeks),
		SeasonScores(weeks),
		UserPicks(weeks),
		Summary(weeks, e.now()),
	}
	for i, t := range tables {
		if i == 0 {
			if err := f.SetSheetName("Sheet1", t.Name); err != nil {
				return fmt.Errorf("error naming sheet %s: %w", t.Name, err)
			}
		} else if _, err := f.NewSheet(t.Name); err != nil {
			return fmt.Errorf("error adding sheet %s: %w", t.Name, err)
		}
		if err := writeSheet(f, t); err != nil {
			return err
		}
	}

	if err := f.SaveAs(e.XLSXPath()); err != nil {
		return fmt.Errorf("error saving xlsx export: %w", err)
	}
	return nil
}

func writeSheet(f *excelize.File, t Table) error {
	header := make([]any, len(t.Header))
	for i, h := range t.Header {
		header[i] = h
	}
	rows := append([][]any{header}, t.Rows...)
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(t.Name, cell, &row); err != nil {
			return fmt.Errorf("error writing %s row %d: %w", t.Name, i+1, err)
		}
	}
	return nil
}
