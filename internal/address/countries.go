package address

// Countries is the default gazetteer.
//
// The order is significant: the first entry found in an address wins, even
// when a later entry would also match. Keep new entries at the end so that
// results stay reproducible across releases.
var Countries = []string{
	"Slovenska republika",
	"Turecka republika",
	"Hongkong",
	"Holandske kralovstvo",
	"Polska republika",
	"Kajmanie ostrovy",
	"Rakuska republika",
	"Talianska republika",
	"Nemecka spolkova republika",
	"Spojene staty americke",
	"Spojene arabske emiraty",
	"Ruska federacia",
	"Kanada",
	"Bosna a Hercegovina",
	"Indicka republika",
	"Ceska republika",
}
