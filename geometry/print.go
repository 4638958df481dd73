// Copyright 2022 Gustavo C. Viegas. All rights reserved.

package geometry

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// PrintArrays writes the vertex data of g to w in a human
// readable form, one section per attribute. Texture
// coordinates are written three per line.
// The output is meant for debugging and is not stable.
func (g *Geometry) PrintArrays(w io.Writer) error {
	bw := bufio.NewWriter(w)
	sections := [...]struct {
		title string
		at    func(i int) fmt.Stringer
	}{
		{"points", func(i int) fmt.Stringer { return g.verts[i].Position }},
		{"colors", func(i int) fmt.Stringer { return g.verts[i].Color }},
		{"normals", func(i int) fmt.Stringer { return g.verts[i].Normal }},
	}
	for _, s := range sections {
		fmt.Fprintf(bw, "%s:\n", s.title)
		for i := range g.verts {
			fmt.Fprintf(bw, "%d:  %v\n", i, s.at(i))
		}
	}
	bw.WriteString("texture coords:\n")
	for i := range g.verts {
		fmt.Fprintf(bw, "%d:  %v", i, g.verts[i].TexCoord)
		if i%3 == 2 || i == len(g.verts)-1 {
			bw.WriteByte('\n')
		} else {
			bw.WriteByte('\t')
		}
	}
	return bw.Flush()
}

// String implements fmt.Stringer.
// It summarizes g without listing its vertices.
func (g *Geometry) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Geometry{%v, %d/%d vertices, %v", g.State(), len(g.verts), g.cap, g.mode)
	if g.res != nil {
		fmt.Fprintf(&sb, ", %d bytes", g.res.layout.Size)
	}
	sb.WriteByte('}')
	return sb.String()
}
