package address

import (
	"regexp"
	"strings"

	"github.com/nao1215/rpvsharvest/internal/model"
)

// postalCodeRegex matches a postal code at the start of the tail.
// Group 1 is the code itself, group 2 the rest of the tail.
var postalCodeRegex = regexp.MustCompile(`^(\d{3}\s?\d{2})\s*(.*)`)

// Parser splits free-text addresses using a country gazetteer.
type Parser struct {
	// countries is the gazetteer in priority order.
	countries []string

}

// Option configures a Parser.
type Option func(*Parser)

// WithCountries replaces the gazetteer.
// The slice order is the match priority.
func WithCountries(countries []string) Option {
	return func(p *Parser) {
		p.countries = countries
	}
}

// NewParser creates a Parser that uses the default gazetteer unless
// WithCountries is given.
func NewParser(opts ...Option) *Parser {
	p := &Parser{countries: Countries}

	for _, opt := range opts {
		opt(p)
	}
	return p
}

// defaultParser backs the package-level Parse function.
var defaultParser = NewParser()

// Parse splits s with the default gazetteer.
func Parse(s *string) model.Address {
	return defaultParser.Parse(s)
}

// Parse splits a free-text address into its parts.
// A nil or blank input yields an Address with every field nil.
func (p *Parser) Parse(s *string) model.Address {
	if s == nil {
		return model.Address{}
	}
	raw := strings.TrimSpace(*s)
	if raw == "" {
		return model.Address{}
	}

	parts := strings.Split(raw, ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	if len(parts) < 2 {
		return lineOnly(raw)
	}

	street := parts[0]
	tail := strings.Join(parts[1:], ", ")

	m := postalCodeRegex.FindStringSubmatch(tail)
	if m == nil {
		return lineOnly(raw)
	}

	postalCode := strings.TrimSpace(m[1])
	rest := strings.TrimSpace(m[2])

	country, rest := p.detectCountry(rest)

	addr := model.Address{
		AddressLine: model.StringPtr(street),
		PostalCode:  model.StringPtr(postalCode),
	}
	if rest != "" {
		addr.City = model.StringPtr(rest)
	}
	if country != "" {
		addr.Country = model.StringPtr(country)
	}
	return addr
}

// detectCountry finds the first gazetteer entry contained in text.
// It returns the entry and text with the matched span removed and
// surrounding commas and spaces trimmed. When nothing matches it returns
// an empty country and text unchanged.
func (p *Parser) detectCountry(text string) (string, string) {
	for _, c := range p.countries {
		idx := indexFold(text, c)
		if idx < 0 {
			continue
		}
		remainder := text[:idx] + text[idx+len(c):]
		return c, strings.Trim(remainder, ", ")
	}
	return "", text
}

// indexFold is a case-insensitive strings.Index for ASCII needles.
func indexFold(s, sub string) int {
	if sub == "" {
		return 0
	}
	for i := 0; i+len(sub) <= len(s); i++ {
		if strings.EqualFold(s[i:i+len(sub)], sub) {
			return i
		}
	}
	return -1
}

// lineOnly is the fallback result: the raw text as the street line.
func lineOnly(raw string) model.Address {
	return model.Address{AddressLine: model.StringPtr(raw)}
}
