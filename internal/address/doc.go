// Package address splits free-text postal addresses into their parts.
//
// Addresses on registry pages are single strings such as
// "Hlavna 1, 811 01 Bratislava, Slovenska republika". The Parser recovers
// the street line, the postal code, the city and the country using positional
// and pattern heuristics:
//
//  1. The text is split on commas. The first segment is the street line.
//  2. The remaining segments form the tail, which must start with a postal
//     code of three digits, an optional space and two digits.
//  3. A fixed gazetteer of country names is scanned in order. The first
//     entry contained in the rest of the tail is the country.
//  4. Whatever is left is the city.
//
// Design decision: Parsing never fails. When the text does not fit the
// pattern, the whole text is kept as the street line and every other field
// is nil. Guessed values would be worse than missing values for consumers of
// the output file.
package address
