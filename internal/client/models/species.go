package models

// SpeciesInfo describes one entry of the approved species catalog. Zones are
// advisory labels shown to the collector; the authoritative geo check is
// performed remotely.
type SpeciesInfo struct {
	Name           string
	ScientificName string
	Zones          []string
}

// speciesCatalog is the fixed set of species a collection event may carry.
var speciesCatalog = []SpeciesInfo{
	{
		Name:           "Ashwagandha",
		ScientificName: "Withania somnifera",
		Zones:          []string{"Madhya Pradesh", "Rajasthan", "Gujarat", "Maharashtra"},
	},
	{
		Name:           "Tulsi",
		ScientificName: "Ocimum sanctum",
		Zones:          []string{"Uttar Pradesh", "Madhya Pradesh", "Bihar", "Karnataka"},
	},
	{
		Name:           "Brahmi",
		ScientificName: "Bacopa monnieri",
		Zones:          []string{"Kerala", "Tamil Nadu", "West Bengal", "Assam"},
	},
	{
		Name:           "Guduchi",
		ScientificName: "Tinospora cordifolia",
		Zones:          []string{"Karnataka", "Maharashtra", "Tamil Nadu", "Andhra Pradesh"},
	},
	{
		Name:           "Shatavari",
		ScientificName: "Asparagus racemosus",
		Zones:          []string{"Rajasthan", "Madhya Pradesh", "Uttar Pradesh", "Himachal Pradesh"},
	},
}

// SpeciesCatalog returns the approved species in display order.
func SpeciesCatalog() []SpeciesInfo {
	out := make([]SpeciesInfo, len(speciesCatalog))
	copy(out, speciesCatalog)
	return out
}

// SpeciesByName looks up a catalog entry by its common name.
func SpeciesByName(name string) (SpeciesInfo, bool) {
	for _, s := range speciesCatalog {
		if s.Name == name {
			return s, true
		}
	}
	return SpeciesInfo{}, false
}
