package fetch

import (
	"bytes"
	"io"
)

// Page is a downloaded detail page.
type Page struct {
	// ID is the partner ID the page belongs to.
	ID int

	// URL is the canonical detail URL. It is the cache key for the ID.
	URL string

	// StatusCode is the HTTP status code of the response.
	StatusCode int

	// ContentType is the Content-Type header as received.
	ContentType string

	// Body is the response body decoded to UTF-8.
	Body []byte
}

// Reader returns a reader over the decoded body.
func (p *Page) Reader() io.Reader {
	return bytes.NewReader(p.Body)
}
