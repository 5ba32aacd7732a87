// Package tracker reads and writes the job-application tracker workbook.
//
// The workbook is opened once per run and held with an exclusive lock until
// Close. Every persisted row is written back through that handle and synced.
package tracker

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/jonathan/referral-scout/internal/types"
	"github.com/xuri/excelize/v2"
)

// SheetName is the worksheet created for a new tracker.
const SheetName = "Job Tracker"

// Column headers A..J. "Referal" matches existing user workbooks.
var Headers = []string{
	"Job posting link",
	"JD Text",
	"Match %",
	"3 areas of improvement",
	"Referal profile 1",
	"Contextual intro",
	"Referal profile 2",
	"Contextual intro2",
	"Referal profile 3",
	"Contextual intro3",
}

var columnWidths = []float64{40, 60, 10, 50, 40, 50, 40, 50, 40, 50}

const (
	colLink = iota + 1
	colJDText
	colMatch
	colImprovements
	colFirstReferral
)

const (
	jdTextHeader      = "JD Text"
	noProfileCellText = "No profile found"
	noMessageCellText = "N/A"
)

var bandFills = map[types.MatchBand]string{
	types.MatchBandHigh:   "C6EFCE",
	types.MatchBandMedium: "FFEB9C",
	types.MatchBandLow:    "FFC7CE",
}

// Options configures Open.
type Options struct {
	Verbose bool
}

// Tracker is an open, exclusively locked tracker workbook.
type Tracker struct {
	path     string
	file     *os.File
	book     *excelize.File
	sheet    string
	styles   styles
	created  bool
	migrated bool
	verbose  bool
}

type styles struct {
	header int
	wrap   int
	bands  map[types.MatchBand]int
}

// Open opens the tracker at path for exclusive read-write use, creating it
// with headers when missing and inserting the JD Text column into older
// layouts. Any failure wraps ErrStoreUnavailable.
func Open(path string, opts Options) (*Tracker, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, unavailable(path, err)
		}
	}

	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE, 0o644)
	if err != nil {
		return nil, unavailable(path, err)
	}
	if err := lockFile(f); err != nil {
		_ = f.Close()
		return nil, unavailable(path, err)
	}

	t := &Tracker{path: path, file: f, verbose: opts.Verbose}
	if err := t.load(); err != nil {
		_ = t.Close()
		return nil, unavailable(path, err)
	}
	return t, nil
}

func (t *Tracker) load() error {
	info, err := t.file.Stat()
	if err != nil {
		return err
	}

	if info.Size() == 0 {
		t.book = excelize.NewFile()
		if err := t.book.SetSheetName(t.book.GetSheetName(0), SheetName); err != nil {
			return err
		}
		t.sheet = SheetName
		t.created = true
	} else {
		book, err := excelize.OpenReader(t.file)
		if err != nil {
			return fmt.Errorf("failed to read workbook: %w", err)
		}
		t.book = book
		t.sheet = book.GetSheetName(book.GetActiveSheetIndex())
	}

	if err := t.initStyles(); err != nil {
		return err
	}

	if t.created {
		if err := t.writeHeaders(); err != nil {
			return err
		}
		if err := t.setWidths(); err != nil {
			return err
		}
		if t.verbose {
			log.Printf("[TRACKER] Created new tracker file: %s", t.path)
		}
		return t.save()
	}

	migrated, err := t.migrate()
	if err != nil {
		return fmt.Errorf("failed to migrate columns: %w", err)
	}
	if migrated {
		t.migrated = true
		return t.save()
	}
	return nil
}

func (t *Tracker) initStyles() error {
	var err error
	t.styles.header, err = t.book.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true},
		Alignment: &excelize.Alignment{WrapText: true},
	})
	if err != nil {
		return err
	}
	t.styles.wrap, err = t.book.NewStyle(&excelize.Style{
		Alignment: &excelize.Alignment{WrapText: true, Vertical: "top"},
	})
	if err != nil {
		return err
	}
	t.styles.bands = make(map[types.MatchBand]int, len(bandFills))
	for band, color := range bandFills {
		id, err := t.book.NewStyle(&excelize.Style{
			Fill:      excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{color}},
			Alignment: &excelize.Alignment{WrapText: true, Vertical: "top"},
		})
		if err != nil {
			return err
		}
		t.styles.bands[band] = id
	}
	return nil
}

func (t *Tracker) writeHeaders() error {
	for i, header := range Headers {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return err
		}
		if err := t.book.SetCellValue(t.sheet, cell, header); err != nil {
			return err
		}
	}
	last, _ := excelize.ColumnNumberToName(len(Headers))
	return t.book.SetCellStyle(t.sheet, "A1", last+"1", t.styles.header)
}

func (t *Tracker) setWidths() error {
	for i, width := range columnWidths {
		col, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return err
		}
		if err := t.book.SetColWidth(t.sheet, col, col, width); err != nil {
			return err
		}
	}
	return nil
}

// migrate inserts the JD Text column at B when the header row predates it.
func (t *Tracker) migrate() (bool, error) {
	header, err := t.book.GetCellValue(t.sheet, "B1")
	if err != nil {
		return false, err
	}
	if strings.EqualFold(strings.TrimSpace(header), jdTextHeader) {
		return false, nil
	}

	fmt.Println("  Migrating tracker: inserting 'JD Text' column at B and shifting data right...")
	if err := t.book.InsertCols(t.sheet, "B", 1); err != nil {
		return false, err
	}
	if err := t.book.SetCellValue(t.sheet, "B1", jdTextHeader); err != nil {
		return false, err
	}
	if err := t.setWidths(); err != nil {
		return false, err
	}

	rows, err := t.book.GetRows(t.sheet)
	if err != nil {
		return false, err
	}
	last, _ := excelize.ColumnNumberToName(len(Headers))
	if len(rows) > 1 {
		if err := t.book.SetCellStyle(t.sheet, "A2", fmt.Sprintf("%s%d", last, len(rows)), t.styles.wrap); err != nil {
			return false, err
		}
	}
	if err := t.book.SetCellStyle(t.sheet, "A1", last+"1", t.styles.header); err != nil {
		return false, err
	}
	fmt.Println("  Paste job description text into the new 'JD Text' column (B).")
	return true, nil
}

// Path returns the workbook location.
func (t *Tracker) Path() string { return t.path }

// Created reports whether Open created a new workbook.
func (t *Tracker) Created() bool { return t.created }

// Migrated reports whether Open inserted the JD Text column.
func (t *Tracker) Migrated() bool { return t.migrated }

// ListUnprocessedRows returns rows with a job link and JD text but no match
// percentage, in sheet order. Rows with a link but no JD text are skipped.
func (t *Tracker) ListUnprocessedRows() ([]types.TrackerRow, error) {
	if t.book == nil {
		return nil, ErrClosed
	}
	rows, err := t.book.GetRows(t.sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to read rows: %w", err)
	}

	var pending []types.TrackerRow
	for i := 1; i < len(rows); i++ {
		rowID := i + 1
		link := cellAt(rows[i], colLink)
		if link == "" {
			continue
		}
		jdText := cellAt(rows[i], colJDText)
		if jdText == "" {
			fmt.Printf("  Row %d: JD text is empty, skipping. Paste the job description in column B.\n", rowID)
			continue
		}
		if cellAt(rows[i], colMatch) != "" {
			continue
		}
		pending = append(pending, types.TrackerRow{RowID: rowID, JobLink: link, JobDescText: jdText})
	}

	if t.verbose {
		log.Printf("[TRACKER] %d unprocessed rows in %s", len(pending), t.path)
	}
	return pending, nil
}

func cellAt(row []string, col int) string {
	if col-1 >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[col-1])
}

// PersistRowResult writes a row's score, improvements, referrals and messages
// and flushes the workbook to disk before returning.
func (t *Tracker) PersistRowResult(rowID int, result *types.RowResult) error {
	if t.book == nil {
		return ErrClosed
	}
	if err := t.writeRow(rowID, result); err != nil {
		return &PersistError{RowID: rowID, Cause: err}
	}
	if err := t.save(); err != nil {
		return &PersistError{RowID: rowID, Cause: err}
	}
	if t.verbose {
		log.Printf("[TRACKER] Saved row %d", rowID)
	}
	return nil
}

func (t *Tracker) writeRow(rowID int, result *types.RowResult) error {
	set := func(col int, value string) error {
		cell, err := excelize.CoordinatesToCellName(col, rowID)
		if err != nil {
			return err
		}
		return t.book.SetCellValue(t.sheet, cell, value)
	}

	pct := result.Match.MatchPercentage
	if err := set(colMatch, fmt.Sprintf("%d%%", pct)); err != nil {
		return err
	}
	if err := set(colImprovements, strings.Join(result.Match.Improvements, "\n")); err != nil {
		return err
	}

	for i := 0; i < types.ReferralSlots; i++ {
		profileText := noProfileCellText
		if i < len(result.Referrals) {
			profileText = FormatReferral(result.Referrals[i])
		}
		message := noMessageCellText
		if i < len(result.Messages) {
			message = result.Messages[i]
		}
		if err := set(colFirstReferral+2*i, profileText); err != nil {
			return err
		}
		if err := set(colFirstReferral+2*i+1, message); err != nil {
			return err
		}
	}

	first, _ := excelize.CoordinatesToCellName(colLink, rowID)
	last, _ := excelize.CoordinatesToCellName(len(Headers), rowID)
	if err := t.book.SetCellStyle(t.sheet, first, last, t.styles.wrap); err != nil {
		return err
	}
	matchCell, _ := excelize.CoordinatesToCellName(colMatch, rowID)
	return t.book.SetCellStyle(t.sheet, matchCell, matchCell, t.styles.bands[types.BandFor(pct)])
}

// FormatReferral renders a candidate as "name | title" over its profile URL.
func FormatReferral(c types.ReferralCandidate) string {
	return fmt.Sprintf("%s | %s\n%s", c.Name, c.Title, c.URL)
}

// save rewrites the held file in place and syncs it.
func (t *Tracker) save() error {
	if _, err := t.file.Seek(0, io.SeekStart); err != nil {
		return err
	}
	if err := t.file.Truncate(0); err != nil {
		return err
	}
	if err := t.book.Write(t.file); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return t.file.Sync()
}

// Close releases the lock and the file handle. It is safe to call twice.
func (t *Tracker) Close() error {
	if t.file == nil {
		return nil
	}
	var errs []error
	if t.book != nil {
		errs = append(errs, t.book.Close())
		t.book = nil
	}
	errs = append(errs, unlockFile(t.file), t.file.Close())
	t.file = nil
	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}
