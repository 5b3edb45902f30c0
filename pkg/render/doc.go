// Package render draws networks.
//
// Layout is delegated to Graphviz; see the [nodelink] subpackage, which
// converts a network to DOT and renders it in-process.
//
// [nodelink]: github.com/matzehuels/netergm/pkg/render/nodelink
package render

// Format is an output format of a rendered plot.
type Format string

const (
	FormatSVG Format = "svg"
	FormatPNG Format = "png"
	FormatDOT Format = "dot"
)

// ValidFormats lists the supported formats.
var ValidFormats = map[Format]bool{FormatSVG: true, FormatPNG: true, FormatDOT: true}

// Extension returns the file extension for f, including the dot.
func (f Format) Extension() string { return "." + string(f) }
