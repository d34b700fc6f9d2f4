package gamemaster

import "qrisk/game"

// DefaultDefinition is the built-in world: the Swiss cantons grouped by
// greater region, the larger cantons holding two troops.
func DefaultDefinition() game.Definition {
	def := game.Definition{
		Continents: map[string]string{
			"Lemanic":    "X",
			"Mittelland": "Y",
			"Northwest":  "Z",
			"Zurich":     "XY",
			"East":       "YZ",
			"Central":    "CX",
			"Ticino":     "XZ",
		},
	}
	for _, abbrev := range cantonAbbreviations {
		c := cantons[abbrev]
		troops := 1
		if largeCantons[abbrev] {
			troops = 2
		}
		def.Territories = append(def.Territories, game.TerritoryDef{
			Name:      abbrev,
			Troops:    troops,
			Continent: c.region,
			X:         c.x,
			Y:         c.y,
		})
	}
	seen := make(map[[2]string]bool)
	for _, abbrev := range cantonAbbreviations {
		for _, neighbor := range adjacencyData[abbrev] {
			key := [2]string{abbrev, neighbor}
			if neighbor < abbrev {
				key = [2]string{neighbor, abbrev}
			}
			if seen[key] {
				continue
			}
			seen[key] = true
			def.Edges = append(def.Edges, []string{key[0], key[1]})
		}
	}
	return def
}

// List of canton abbreviations, in qubit order
var cantonAbbreviations = []string{
	"AG", "AI", "AR", "BE", "BL", "BS", "FR", "GE", "GL", "GR",
	"JU", "LU", "NE", "NW", "OW", "SG", "SH", "SO", "SZ", "TG",
	"TI", "UR", "VD", "VS", "ZG", "ZH",
}

var largeCantons = map[string]bool{"BE": true, "ZH": true, "VD": true, "GR": true, "AG": true}

type canton struct {
	region string
	x, y   float64
}

var cantons = map[string]canton{
	"AG": {"Northwest", 0.50, 0.20}, "AI": {"East", 0.86, 0.26}, "AR": {"East", 0.84, 0.22},
	"BE": {"Mittelland", 0.36, 0.46}, "BL": {"Northwest", 0.38, 0.14}, "BS": {"Northwest", 0.35, 0.08},
	"FR": {"Mittelland", 0.26, 0.50}, "GE": {"Lemanic", 0.04, 0.80}, "GL": {"East", 0.74, 0.40},
	"GR": {"East", 0.86, 0.56}, "JU": {"Mittelland", 0.26, 0.18}, "LU": {"Central", 0.50, 0.36},
	"NE": {"Mittelland", 0.18, 0.36}, "NW": {"Central", 0.54, 0.44}, "OW": {"Central", 0.50, 0.48},
	"SG": {"East", 0.80, 0.30}, "SH": {"East", 0.62, 0.04}, "SO": {"Mittelland", 0.38, 0.24},
	"SZ": {"Central", 0.64, 0.38}, "TG": {"East", 0.74, 0.12}, "TI": {"Ticino", 0.68, 0.78},
	"UR": {"Central", 0.62, 0.52}, "VD": {"Lemanic", 0.14, 0.62}, "VS": {"Lemanic", 0.40, 0.74},
	"ZG": {"Central", 0.58, 0.32}, "ZH": {"Zurich", 0.62, 0.18},
}

// Adjacency data: mapping of canton abbreviations to their neighboring cantons
var adjacencyData = map[string][]string{
	"AG": {"BL", "LU", "ZG", "ZH", "SO"},
	"AI": {"AR", "SG"},
	"AR": {"AI", "SG"},
	"BE": {"FR", "JU", "NE", "SO", "VD", "VS", "LU"},
	"BL": {"AG", "BS", "SO", "JU"},
	"BS": {"BL"},
	"FR": {"BE", "VD", "NE"},
	"GE": {"VD"},
	"GL": {"SG", "SZ", "GR"},
	"GR": {"SG", "TI", "GL", "UR"},
	"JU": {"BE", "SO", "BL"},
	"LU": {"AG", "BE", "NW", "OW", "ZG"},
	"NE": {"BE", "FR", "VD"},
	"NW": {"OW", "LU", "UR"},
	"OW": {"NW", "UR", "LU"},
	"SG": {"AI", "AR", "GL", "TG", "ZH", "GR"},
	"SH": {"ZH", "TG"},
	"SO": {"BE", "BL", "JU", "AG"},
	"SZ": {"ZG", "UR", "GL"},
	"TG": {"SH", "SG", "ZH"},
	"TI": {"GR", "VS", "UR"},
	"UR": {"SZ", "OW", "GR", "TI", "NW"},
	"VD": {"GE", "FR", "VS", "NE", "BE"},
	"VS": {"VD", "BE", "TI", "UR"},
	"ZG": {"AG", "SZ", "LU", "ZH"},
	"ZH": {"AG", "SG", "TG", "SH", "ZG"},
}
