package extract

import (
	"fmt"
	"io"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"

	"github.com/nao1215/rpvsharvest/internal/textnorm"
)

// CSS selectors for the registry page layout.
const (
	selectorGroup      = "div.form-group"
	selectorLabel      = "label"
	selectorValue      = "p.form-control-static"
	selectorLink       = "a[href]"
	selectorOwnerTable = "table.table"
	selectorTableBody  = "tbody"
	selectorRow        = "tr"
	selectorCell       = "td"
)

// Document is the capability the Extractor needs from a parsed page.
type Document interface {
	// FieldText returns the value text of the first labeled group whose
	// label contains label and that has a value element.
	FieldText(label string) (string, bool)

	// FieldHref returns the href of the first link inside the first labeled
	// group whose label contains label and that has a link.
	FieldHref(label string) (string, bool)

	// OwnerRows returns the body rows of the beneficial owner table.
	// It returns nil when the page has no such table.
	OwnerRows() []Row
}

// Row is one table row.
type Row []Cell

// Cell is the text content of one table cell.
type Cell struct {
	// Text is the trimmed text fragments of the cell joined without separator.
	Text string

	// Spaced is the trimmed text fragments of the cell joined with a space.
	// Cells that stack several lines (label, name, birth date) read
	// naturally only in this form.
	Spaced string
}

// NewCell builds a Cell from plain text.
// Both forms carry the trimmed text; it is meant for documents that are
// not backed by HTML.
func NewCell(text string) Cell {
	text = strings.TrimSpace(text)
	return Cell{Text: text, Spaced: text}
}

// HTMLDocument is a Document backed by a goquery document.
type HTMLDocument struct {
	doc *goquery.Document
}

// ParseDocument parses an HTML page.
// The reader must yield UTF-8; see fetch.Page for decoding.
func ParseDocument(r io.Reader) (*HTMLDocument, error) {
	root, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}
	return NewHTMLDocument(goquery.NewDocumentFromNode(root)), nil
}

// NewHTMLDocument wraps an existing goquery document.
func NewHTMLDocument(doc *goquery.Document) *HTMLDocument {
	return &HTMLDocument{doc: doc}
}

// FieldText implements Document.
func (d *HTMLDocument) FieldText(label string) (string, bool) {
	var (
		value string
		found bool
	)
	d.eachGroup(label, func(group *goquery.Selection) bool {
		p := group.Find(selectorValue).First()
		if p.Length() == 0 {
			return true
		}
		value = joinText(p, "")
		found = true
		return false
	})
	return value, found
}

// FieldHref implements Document.
func (d *HTMLDocument) FieldHref(label string) (string, bool) {
	var (
		href  string
		found bool
	)
	d.eachGroup(label, func(group *goquery.Selection) bool {
		a := group.Find(selectorLink).First()
		if a.Length() == 0 {
			return true
		}
		href, found = a.Attr("href")
		return !found
	})
	return href, found
}

// OwnerRows implements Document.
// Only the first table with the owner table class is considered.
func (d *HTMLDocument) OwnerRows() []Row {
	table := d.doc.Find(selectorOwnerTable).First()
	if table.Length() == 0 {
		return nil
	}

	body := table.Find(selectorTableBody).First()
	if body.Length() == 0 {
		return nil
	}

	var rows []Row
	body.Find(selectorRow).Each(func(_ int, tr *goquery.Selection) {
		cells := tr.Find(selectorCell)
		row := make(Row, 0, cells.Length())
		cells.Each(func(_ int, td *goquery.Selection) {
			row = append(row, Cell{
				Text:   joinText(td, ""),
				Spaced: joinText(td, " "),
			})
		})
		rows = append(rows, row)
	})
	return rows
}

// eachGroup calls fn for every form group whose label contains label,
// in document order, until fn returns false.
func (d *HTMLDocument) eachGroup(label string, fn func(*goquery.Selection) bool) {
	want := textnorm.Normalize(label)
	d.doc.Find(selectorGroup).EachWithBreak(func(_ int, group *goquery.Selection) bool {
		l := group.Find(selectorLabel).First()
		if l.Length() == 0 {
			return true
		}
		if !strings.Contains(textnorm.Normalize(joinText(l, "")), want) {
			return true
		}
		return fn(group)
	})
}

// joinText collects the text nodes below sel, trims each one, drops the
// empty ones and joins the rest with sep.
func joinText(sel *goquery.Selection, sep string) string {
	var parts []string
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			if t := strings.TrimSpace(n.Data); t != "" {
				parts = append(parts, t)
			}
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	for _, n := range sel.Nodes {
		walk(n)
	}
	return strings.Join(parts, sep)
}
