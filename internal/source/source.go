package source

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

var ErrUnsupportedSource = errors.New("unsupported source format")

// Format формат файла с расписанием
type Format string

const (
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
	FormatHTML Format = "html"
)

// Table таблица источника: заголовок и строки данных одинаковой ширины
type Table struct {
	Header  []string
	Records [][]string
	Lines   []int // номера строк источника для Records
}

// Options настройки чтения
type Options struct {
	Sheet string // лист XLSX, по умолчанию первый
}

// DetectFormat определяет формат по расширению файла
func DetectFormat(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return FormatCSV, nil
	case ".xlsx", ".xlsm":
		return FormatXLSX, nil
	case ".html", ".htm":
		return FormatHTML, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedSource, filepath.Ext(path))
	}
}

// Open читает файл расписания, формат выбирается по расширению
func Open(path string, opts Options) (*Table, error) {
	format, err := DetectFormat(path)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open source: %w", err)
	}
	defer f.Close()

	return Read(f, format, opts)
}

// Read читает таблицу заданного формата
func Read(r io.Reader, format Format, opts Options) (*Table, error) {
	switch format {
	case FormatCSV:
		return ReadCSV(r)
	case FormatXLSX:
		return ReadXLSX(r, opts.Sheet)
	case FormatHTML:
		return ReadHTML(r)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedSource, format)
	}
}

// newTable собирает Table из сырых строк: первая непустая строка заголовок,
// повторяющиеся имена колонок получают суффиксы ".1", ".2" ...
// lines[i] номер строки источника для rows[i]; nil означает i+1.
func newTable(rows [][]string, lines []int) (*Table, error) {
	line := func(i int) int {
		if i < len(lines) {
			return lines[i]
		}
		return i + 1
	}

	first := 0
	for first < len(rows) && isEmpty(rows[first]) {
		first++
	}
	if first == len(rows) {
		return nil, errors.New("source has no header row")
	}

	header := dedupeHeader(rows[first])
	t := &Table{Header: header}
	for i := first + 1; i < len(rows); i++ {
		if isEmpty(rows[i]) {
			continue
		}
		t.Records = append(t.Records, fit(rows[i], len(header)))
		t.Lines = append(t.Lines, line(i))
	}
	return t, nil
}

// dedupeHeader переименовывает дубликаты так же, как это делает pandas:
// Time, Venue, Time, Venue -> Time, Venue, Time.1, Venue.1
func dedupeHeader(header []string) []string {
	out := make([]string, len(header))
	used := make(map[string]struct{}, len(header))
	counts := make(map[string]int, len(header))

	for i, name := range header {
		name = strings.TrimSpace(name)
		candidate := name
		if _, dup := used[candidate]; dup {
			n := counts[name]
			for {
				n++
				candidate = name + "." + strconv.Itoa(n)
				if _, taken := used[candidate]; !taken {
					break
				}
			}
			counts[name] = n
		}
		used[candidate] = struct{}{}
		out[i] = candidate
	}
	return out
}

func fit(rec []string, width int) []string {
	out := make([]string, width)
	copy(out, rec)
	return out
}

func isEmpty(rec []string) bool {
	for _, v := range rec {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}
