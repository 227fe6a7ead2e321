package itinerary

// FallbackFlag is shown for destinations missing from the lookup table.
const FallbackFlag = "🌍"

var flags = map[string]string{
	"grecia":                 "🇬🇷",
	"greece":                 "🇬🇷",
	"dubái":                  "🇦🇪",
	"dubai":                  "🇦🇪",
	"emiratos árabes unidos": "🇦🇪",
	"united arab emirates":   "🇦🇪",
	"maldivas":               "🇲🇻",
	"maldives":               "🇲🇻",
	"china":                  "🇨🇳",
	"corea del sur":          "🇰🇷",
	"south korea":            "🇰🇷",
	"japón":                  "🇯🇵",
	"japon":                  "🇯🇵",
	"japan":                  "🇯🇵",
	"chile":                  "🇨🇱",
	"españa":                 "🇪🇸",
	"spain":                  "🇪🇸",
	"italia":                 "🇮🇹",
	"italy":                  "🇮🇹",
	"francia":                "🇫🇷",
	"france":                 "🇫🇷",
	"tailandia":              "🇹🇭",
	"thailand":               "🇹🇭",
	"indonesia":              "🇮🇩",
	"turquía":                "🇹🇷",
	"turkey":                 "🇹🇷",
	"estados unidos":         "🇺🇸",
	"united states":          "🇺🇸",
}

// FlagFor resolves a destination name to its flag glyph.
func FlagFor(country string) string {
	if flag, ok := flags[foldName(country)]; ok {
		return flag
	}
	return FallbackFlag
}
