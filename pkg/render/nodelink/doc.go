// Package nodelink renders a network as a node-link diagram with Graphviz.
//
// [ToDOT] writes DOT source: an undirected "graph" or a "digraph", one node
// per network node (isolates included) and one edge per tie. Node
// attributes can be mapped to the visual channels:
//
//   - Label: the attribute value replaces the node ID
//   - Size: a numeric attribute scales node width linearly
//   - Color: categorical levels get palette colors, numeric values a gradient
//
// [Render] lays the DOT out with the chosen Graphviz engine (neato by
// default) and returns SVG or PNG bytes:
//
//	dot, err := nodelink.ToDOT(g, nodelink.Options{Color: "ideology", Size: "size"})
//	svg, err := nodelink.Render(ctx, dot, render.FormatSVG)
//
// This package uses [github.com/goccy/go-graphviz], which embeds Graphviz,
// so no system installation is required.
package nodelink
