package extract

import (
	"encoding/csv"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/extrame/xls"
	"github.com/xuri/excelize/v2"

	"FreightRecon/internal/sheet"
	"FreightRecon/internal/vendor"
)

// ErrUnsupportedFormat marks a file whose extension the reader does not
// handle. File-level, non-fatal.
var ErrUnsupportedFormat = errors.New("unsupported invoice file format")

var supportedExts = map[string]bool{".xlsx": true, ".xls": true, ".csv": true}

// DiscoverFiles lists the invoice files for one analysis period directory,
// sorted by name for a deterministic processing order.
func DiscoverFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read invoice dir %s: %w", dir, err)
	}
	var files []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if supportedExts[strings.ToLower(filepath.Ext(e.Name()))] {
			files = append(files, filepath.Join(dir, e.Name()))
		}
	}
	sort.Strings(files)
	return files, nil
}

// ReadFile parses one invoice file into a raw cell grid. The vendor comes
// from the file name; callers exclude Unknown files before reaching here.
func ReadFile(path string) (*sheet.RawSheet, error) {
	name := filepath.Base(path)
	v := vendor.Detect(name)
	var (
		rows [][]string
		err  error
	)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx":
		rows, err = readXLSX(path)
	case ".xls":
		rows, err = readXLS(path)
	case ".csv":
		rows, err = readCSV(path)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, name)
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", name, err)
	}
	return &sheet.RawSheet{SourceFile: name, Vendor: v, Rows: rows}, nil
}

func readXLSX(path string) ([][]string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	sheetName := f.GetSheetName(0)
	if sheetName == "" {
		return nil, errors.New("workbook has no sheets")
	}
	return f.GetRows(sheetName)
}

func readXLS(path string) ([][]string, error) {
	wb, err := xls.Open(path, "utf-8")
	if err != nil {
		return nil, err
	}
	ws := wb.GetSheet(0)
	if ws == nil {
		return nil, errors.New("workbook has no sheets")
	}
	rows := make([][]string, 0, int(ws.MaxRow)+1)
	for i := 0; i <= int(ws.MaxRow); i++ {
		row := ws.Row(i)
		if row == nil {
			rows = append(rows, nil)
			continue
		}
		cells := make([]string, 0, row.LastCol())
		for j := row.FirstCol(); j < row.LastCol(); j++ {
			cells = append(cells, row.Col(j))
		}
		rows = append(rows, cells)
	}
	return rows, nil
}

func readCSV(path string) ([][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	return r.ReadAll()
}
