package source

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// ReadHTML читает первую таблицу HTML-страницы (например, сохранённой страницы расписания).
// Заголовок берётся из первой строки таблицы.
func ReadHTML(r io.Reader) (*Table, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}

	table := doc.Find("table").First()
	if table.Length() == 0 {
		return nil, errors.New("html has no table")
	}

	var rows [][]string
	table.Find("tr").Each(func(_ int, tr *goquery.Selection) {
		var row []string
		tr.ChildrenFiltered("th, td").Each(func(_ int, cell *goquery.Selection) {
			row = append(row, cellText(cell))
		})
		rows = append(rows, row)
	})

	return newTable(rows, nil)
}

// cellText текст ячейки, <br> превращается в пробел, пробелы схлопываются
func cellText(cell *goquery.Selection) string {
	cell.Find("br").ReplaceWithHtml(" ")
	return strings.Join(strings.Fields(cell.Text()), " ")
}
