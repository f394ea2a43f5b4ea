package layout

import (
	"hash/fnv"

	"github.com/dmorval/linkscope/pkg/community"
)

// Palette for ordinary communities. Colors are hex so any canvas backend
// can map them; terminal backends round to the nearest ANSI color.
var communityPalette = []string{
	"#e6194b", "#3cb44b", "#ffe119", "#4363d8", "#f58231",
	"#911eb4", "#46f0f0", "#f032e6", "#bcf60c", "#fabebe",
	"#008080", "#e6beff", "#9a6324", "#800000", "#aaffc3",
}

const (
	// IsolateColor is the fixed neutral gray for the isolate sentinel
	IsolateColor = "#9e9e9e"
	// EdgeColor is the default edge stroke
	EdgeColor = "#555555"
	// HighlightColor marks the selected edge and selection outlines
	HighlightColor = "#ffffff"
	// LabelColor is node label text
	LabelColor = "#dddddd"
)

// CommunityColor maps a community id to a deterministic palette color.
// The isolate sentinel always maps to the fixed gray.
func CommunityColor(communityID string) string {
	if communityID == community.Isolate || communityID == "" {
		return IsolateColor
	}
	h := fnv.New32a()
	h.Write([]byte(communityID))
	return communityPalette[h.Sum32()%uint32(len(communityPalette))]
}
