package charts

import (
	"image/color"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Method families share fixed colors across every chart: the first two
// columns are benchmarks, the rest alternate between the single-GT and
// mean-GT families.
var (
	benchmarkColor = mustHex("#989e9a")
	singleGTColor  = mustHex("#ff6767")
	meanGTColor    = mustHex("#8edba3")
)

func mustHex(value string) colorful.Color {
	parsed, err := colorful.Hex(value)
	if err != nil {
		panic(err)
	}
	return parsed
}

// MethodColor returns the fill color for the method at the given position.
func MethodColor(index int) color.Color {
	if index < 2 {
		return benchmarkColor
	}
	if index%2 == 0 {
		return singleGTColor
	}
	return meanGTColor
}

var labelCaser = cases.Title(language.Und)

// PrettyLabel turns a column identifier into a display label.
func PrettyLabel(name string) string {
	return labelCaser.String(strings.ReplaceAll(name, "_", " "))
}
