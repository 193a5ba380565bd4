package extract

import (
	"strings"

	"github.com/nao1215/rpvsharvest/internal/address"
	"github.com/nao1215/rpvsharvest/internal/model"
	"github.com/nao1215/rpvsharvest/internal/textnorm"
)

// Label texts on registry detail pages, in their diacritic-free form.
const (
	LabelBusinessName       = "Obchodne meno"
	LabelRegistrationNumber = "ICO"
	LabelBusinessAddress    = "Adresa sidla"
	LabelVerificationDate   = "Datum overenia"
	LabelVerificationPDF    = "Verifikacny dokument (pdf)"

	// OwnerNamePrefix is the label that precedes the owner name in the
	// first column of the owner table.
	OwnerNamePrefix = "Meno a priezvisko"

	// BirthDateMarker starts the birth date part of the first column.
	BirthDateMarker = "Datum narodenia"
)

// DefaultDocumentBaseURL is the origin prefixed to relative document links.
const DefaultDocumentBaseURL = "https://rpvs.gov.sk"

// minOwnerColumns is the number of cells an owner row needs to be read.
const minOwnerColumns = 4

// Extractor builds records from registry detail pages.
type Extractor struct {
	// documentBaseURL is prefixed to relative verification document links.
	documentBaseURL string

	// addresses splits business and owner addresses.
	addresses *address.Parser
}

// Option configures an Extractor.
type Option func(*Extractor)

// WithDocumentBaseURL sets the origin used to build absolute document URLs.
func WithDocumentBaseURL(base string) Option {
	return func(e *Extractor) {
		e.documentBaseURL = strings.TrimRight(base, "/")
	}
}

// WithAddressParser sets the parser used for every address field.
func WithAddressParser(p *address.Parser) Option {
	return func(e *Extractor) {
		e.addresses = p
	}
}

// NewExtractor creates an Extractor with the registry defaults.
func NewExtractor(opts ...Option) *Extractor {
	e := &Extractor{
		documentBaseURL: DefaultDocumentBaseURL,
		addresses:       address.NewParser(),
	}

	for _, opt := range opts {
		opt(e)
	}

	return e
}

// Extract builds a Record from doc.
//
// It returns (nil, nil) when the page lists no beneficial owners. Such a page
// is not a partner record: this is a business rule, not a parse failure, and
// callers should skip the page without treating it as an error.
func (e *Extractor) Extract(doc Document, sourceURL string) (*model.Record, error) {
	if doc == nil {
		return nil, ErrNilDocument
	}
	if sourceURL == "" {
		return nil, ErrNoSourceURL
	}

	owners := e.parseOwners(doc.OwnerRows())
	if len(owners) == 0 {
		return nil, nil
	}

	return &model.Record{
		BusinessName:            field(doc, LabelBusinessName),
		RegistrationNumber:      field(doc, LabelRegistrationNumber),
		Address:                 e.addresses.Parse(field(doc, LabelBusinessAddress)),
		VerificationDate:        field(doc, LabelVerificationDate),
		VerificationDocumentURL: e.documentURL(doc),
		BeneficialOwners:        owners,
		SourceURL:               sourceURL,
	}, nil
}

// parseOwners reads the owner table.
// Rows with fewer than four cells are malformed and skipped.
func (e *Extractor) parseOwners(rows []Row) []model.BeneficialOwner {
	owners := make([]model.BeneficialOwner, 0, len(rows))
	for _, row := range rows {
		if len(row) < minOwnerColumns {
			continue
		}
		owners = append(owners, model.BeneficialOwner{
			NameAndSurname: textnorm.Ptr(model.StringPtr(OwnerName(row[0].Spaced))),
			DateOfBirth:    textnorm.Ptr(model.StringPtr(row[1].Text)),
			Nationality:    textnorm.Ptr(model.StringPtr(row[2].Text)),
			Address:        e.addresses.Parse(textnorm.Ptr(model.StringPtr(row[3].Text))),
		})
	}
	return owners
}

// documentURL builds the absolute verification document URL.
func (e *Extractor) documentURL(doc Document) *string {
	href, ok := doc.FieldHref(LabelVerificationPDF)
	if !ok {
		return nil
	}
	if !strings.HasPrefix(href, "http://") && !strings.HasPrefix(href, "https://") {
		href = e.documentBaseURL + href
	}
	return textnorm.Ptr(&href)
}

// OwnerName isolates the owner name from the combined first column.
// The column reads "<label> <name> <birth date marker> <date>"; the label is
// removed when the text starts with it, and everything from the first birth
// date marker on is cut off.
func OwnerName(column string) string {
	column = textnorm.Normalize(column)
	if strings.HasPrefix(column, OwnerNamePrefix) {
		column = strings.TrimSpace(strings.ReplaceAll(column, OwnerNamePrefix, ""))
	}
	name, _, _ := strings.Cut(column, BirthDateMarker)
	return strings.TrimSpace(name)
}

// field reads a labeled scalar and normalizes it.
func field(doc Document, label string) *string {
	v, ok := doc.FieldText(label)
	if !ok {
		return nil
	}
	return textnorm.Ptr(&v)
}
