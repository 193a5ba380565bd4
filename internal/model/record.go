package model

// Address is a postal address parsed from free text.
// Every field is optional. When the parser cannot recognize a postal code,
// only AddressLine is set and the remaining fields stay nil.
type Address struct {
	// AddressLine is the street part, or the whole raw text when parsing fell back.
	AddressLine *string `json:"Address"`

	// PostalCode is the postal code in "ddd dd" or "ddddd" form, as written in the source.
	PostalCode *string `json:"PostalCode"`

	// City is what remains of the tail after the postal code and country are removed.
	City *string `json:"City"`

	// Country is the matched gazetteer entry, spelled as in the gazetteer.
	Country *string `json:"Country"`
}

// IsEmpty reports whether no field of the address is set.
func (a Address) IsEmpty() bool {
	return a.AddressLine == nil && a.PostalCode == nil && a.City == nil && a.Country == nil
}

// BeneficialOwner is a natural person holding economic benefit or control
// over a registered partner.
type BeneficialOwner struct {
	// NameAndSurname is the owner's name with the table's label text removed.
	NameAndSurname *string `json:"Name and surname of the BO"`

	// DateOfBirth is copied verbatim from the owner table.
	DateOfBirth *string `json:"Date of Birth"`

	// Nationality is copied verbatim from the owner table.
	Nationality *string `json:"Nationality"`

	// Address is the owner's parsed address.
	Address Address `json:"Address of the BO"`
}

// Record is one registry entry harvested from a partner detail page.
//
// Design decision: A Record only exists when at least one beneficial owner
// was parsed. Pages without owners produce no Record at all rather than a
// Record with an empty owner list, so every element of the output file is
// a complete partner entry.
type Record struct {
	// BusinessName is the registered trade name.
	BusinessName *string `json:"Business Name"`

	// RegistrationNumber is the company identification number (ICO).
	RegistrationNumber *string `json:"ICO"`

	// Address is the registered seat of the partner.
	Address Address `json:"Address"`

	// VerificationDate is the date of the last owner verification.
	VerificationDate *string `json:"Verification Date"`

	// VerificationDocumentURL is an absolute link to the verification PDF.
	VerificationDocumentURL *string `json:"Verification document URL"`

	// BeneficialOwners lists owners in the order of the source table.
	BeneficialOwners []BeneficialOwner `json:"Beneficial Owners"`

	// SourceURL is the detail page URL and the unique key of the record.
	SourceURL string `json:"Source URL"`
}

// StringPtr returns a pointer to s.
// It is a convenience for building optional fields in literals and tests.
func StringPtr(s string) *string {
	return &s
}

// Deref returns the value behind p, or the empty string when p is nil.
func Deref(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}
