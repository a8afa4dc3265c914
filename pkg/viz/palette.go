package viz

// NeutralColor is used for nodes with no community assignment. It is
// the stock vis-network node blue, so uncolored previews still look
// familiar.
const NeutralColor = "#97c2fc"

// Palette is the categorical color cycle for communities. Community
// IDs past the end wrap around.
var Palette = []string{
	"#e6194b", "#3cb44b", "#ffe119", "#4363d8", "#f58231",
	"#911eb4", "#46f0f0", "#f032e6", "#bcf60c", "#fabebe",
	"#008080", "#e6beff", "#9a6324", "#fffac8", "#800000",
}

// ColorFor returns the palette color for a community ID. Negative IDs
// mean "no community" and map to the neutral color.
func ColorFor(community int) string {
	if community < 0 {
		return NeutralColor
	}
	return Palette[community%len(Palette)]
}
