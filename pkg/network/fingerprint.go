package network

import (
	"bytes"
	"strconv"
)

// Fingerprint returns a canonical encoding of the network: direction, node
// IDs, non-zero weights and every attribute value. Two networks with equal
// fingerprints give identical term statistics.
func (g *Network) Fingerprint() []byte {
	var b bytes.Buffer
	b.WriteString(strconv.FormatBool(g.directed))
	for _, id := range g.ids {
		b.WriteByte(0)
		b.WriteString(id)
	}
	b.WriteByte('\n')

	for i := range g.ids {
		for j := range g.ids {
			if w := g.weights.At(i, j); w != 0 {
				b.WriteString(strconv.Itoa(i))
				b.WriteByte(' ')
				b.WriteString(strconv.Itoa(j))
				b.WriteByte(' ')
				b.WriteString(strconv.FormatFloat(w, 'g', -1, 64))
				b.WriteByte('\n')
			}
		}
	}

	for _, a := range g.attrs {
		b.WriteString(a.Name)
		b.WriteByte(':')
		b.WriteString(string(a.Kind))
		for i := range g.ids {
			b.WriteByte(0)
			b.WriteString(a.Level(i))
		}
		b.WriteByte('\n')
	}
	return b.Bytes()
}
