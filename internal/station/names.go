// Package station normalizes upstream station naming.
//
// The upstream API is inconsistent about multi-word station names: route
// strings concatenate them without spaces ("TANAHABANG") while the station
// listing spells them out ("TANAH ABANG"). Schedule rows are joined to
// stations by name, so both spellings must resolve to the same key.
package station

import "strings"

// canonicalNames maps known concatenated upstream variants to the spaced
// form used by the station listing. Lookup is case-sensitive exact match;
// callers uppercase before lookup.
var canonicalNames = map[string]string{
	"JAKARTAKOTA":          "JAKARTA KOTA",
	"TANAHABANG":           "TANAH ABANG",
	"KAMPUNGBANDAN":        "KAMPUNG BANDAN",
	"TANJUNGPRIOK":         "TANJUNG PRIOK",
	"TANJUNGBARAT":         "TANJUNG BARAT",
	"PARUNGPANJANG":        "PARUNG PANJANG",
	"BANDARASOEKARNOHATTA": "BANDARA SOEKARNO HATTA",
	"TAMANKOTA":            "TAMAN KOTA",
	"PONDOKRANJI":          "PONDOK RANJI",
	"PONDOKCINA":           "PONDOK CINA",
	"PONDOKJATI":           "PONDOK JATI",
	"PASARMINGGU":          "PASAR MINGGU",
	"PASARMINGGUBARU":      "PASAR MINGGU BARU",
	"PASARSENEN":           "PASAR SENEN",
	"LENTENGAGUNG":         "LENTENG AGUNG",
	"UNIVERSITASPANCASILA": "UNIVERSITAS PANCASILA",
	"UNIVERSITASINDONESIA": "UNIVERSITAS INDONESIA",
	"RAWABUNTU":            "RAWA BUNTU",
	"MANGGABESAR":          "MANGGA BESAR",
	"SAWAHBESAR":           "SAWAH BESAR",
	"JURANGMANGU":          "JURANG MANGU",
	"KEBAYORANLAMA":        "KEBAYORAN",
}

// Normalize maps a known upstream spelling variant to its canonical name.
// Unknown names are returned unchanged.
func Normalize(name string) string {
	if canonical, ok := canonicalNames[name]; ok {
		return canonical
	}
	return name
}

// ParseRoute splits an "ORIGIN-DESTINATION" route string and normalizes
// each side. Destination names with their own internal hyphen are not
// supported; the first '-' is the only significant separator.
func ParseRoute(route string) (origin, destination string) {
	origin = route
	if i := strings.Index(route, "-"); i >= 0 {
		origin = route[:i]
		destination = route[i+1:]
	}
	origin = Normalize(strings.TrimSpace(origin))
	destination = Normalize(strings.TrimSpace(destination))
	return origin, destination
}
