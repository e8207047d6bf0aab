package statmuse

import (
	"fmt"
	"io"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"

	"github.com/kozaktomas/roster-sync/internal/roster"
)

// Cell positions in a StatMuse roster row.
const (
	cellJersey    = 0
	cellName      = 2
	cellPosition  = 3
	cellHeight    = 4
	cellWeight    = 5
	cellBirthDate = 6
	cellOrigin    = 8 // birthplace, or college for NBA

	minCells = 8
)

// ParseRoster extracts the rows of the first table on a roster page.
// Rows with fewer than eight cells are skipped; a page without a table yields no rows.
func ParseRoster(r io.Reader) ([]roster.Raw, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("parse roster page: %w", err)
	}

	table := doc.Find("table").First()
	if table.Length() == 0 {
		return nil, nil
	}

	var rows *goquery.Selection
	if table.Find("tbody").Length() > 0 {
		rows = table.Find("tbody tr")
	} else {
		// No tbody: the first row is the header
		rows = table.Find("tr").Slice(1, goquery.ToEnd)
	}

	var out []roster.Raw
	rows.Each(func(_ int, row *goquery.Selection) {
		cells := row.Find("td")
		if cells.Length() < minCells {
			return
		}
		text := func(i int) string {
			if i >= cells.Length() {
				return ""
			}
			return strippedText(cells.Eq(i))
		}
		out = append(out, roster.Raw{
			Jersey:    text(cellJersey),
			Name:      text(cellName),
			Position:  text(cellPosition),
			Height:    text(cellHeight),
			Weight:    text(cellWeight),
			BirthDate: text(cellBirthDate),
			Origin:    text(cellOrigin),
		})
	})
	return out, nil
}

// strippedText joins the cell's text nodes after trimming each one, so
// "<a>Ryan Burr</a> <span>R. Burr</span>" reads as "Ryan BurrR. Burr" like the rendered page.
func strippedText(sel *goquery.Selection) string {
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			b.WriteString(strings.TrimSpace(n.Data))
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	for _, n := range sel.Nodes {
		walk(n)
	}
	return b.String()
}
