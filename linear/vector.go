// Copyright 2022 Gustavo C. Viegas. All rights reserved.

// Package linear implements vector math for 3D graphics.
package linear

import (
	"strconv"
	"strings"

	"github.com/chewxy/math32"
)

// V2 is a 2-component vector of float32.
type V2 [2]float32

// V3 is a 3-component vector of float32.
type V3 [3]float32

// V4 is a 4-component vector of float32.
type V4 [4]float32

// Add sets v to contain l + r.
func (v *V3) Add(l, r *V3) {
	for i := range v {
		v[i] = l[i] + r[i]
	}
}

// Sub sets v to contain l - r.
func (v *V3) Sub(l, r *V3) {
	for i := range v {
		v[i] = l[i] - r[i]
	}
}

// Scale sets v to contain s ⋅ w.
func (v *V3) Scale(s float32, w *V3) {
	for i := range v {
		v[i] = s * w[i]
	}
}

// Dot returns v ⋅ w.
func (v *V3) Dot(w *V3) (d float32) {
	for i := range v {
		d += v[i] * w[i]
	}
	return
}

// Len returns the length of v.
func (v *V3) Len() float32 { return math32.Sqrt(v.Dot(v)) }

// Norm sets v to contain w normalized.
func (v *V3) Norm(w *V3) { v.Scale(1/w.Len(), w) }

// Cross sets v to contain l × r.
func (v *V3) Cross(l, r *V3) {
	x := l[1]*r[2] - l[2]*r[1]
	y := l[2]*r[0] - l[0]*r[2]
	z := l[0]*r[1] - l[1]*r[0]
	v[0], v[1], v[2] = x, y, z
}

// Point returns v as a homogeneous point (w = 1).
func (v *V3) Point() V4 { return V4{v[0], v[1], v[2], 1} }

// Dir returns v as a homogeneous direction (w = 0).
func (v *V3) Dir() V4 { return V4{v[0], v[1], v[2], 0} }

// Add sets v to contain l + r.
func (v *V4) Add(l, r *V4) {
	for i := range v {
		v[i] = l[i] + r[i]
	}
}

// Sub sets v to contain l - r.
func (v *V4) Sub(l, r *V4) {
	for i := range v {
		v[i] = l[i] - r[i]
	}
}

// Scale sets v to contain s ⋅ w.
func (v *V4) Scale(s float32, w *V4) {
	for i := range v {
		v[i] = s * w[i]
	}
}

// Dot returns v ⋅ w.
func (v *V4) Dot(w *V4) (d float32) {
	for i := range v {
		d += v[i] * w[i]
	}
	return
}

// Len returns the length of v.
func (v *V4) Len() float32 { return math32.Sqrt(v.Dot(v)) }

// Norm sets v to contain w normalized.
func (v *V4) Norm(w *V4) { v.Scale(1/w.Len(), w) }

// XYZ returns the first three components of v.
func (v *V4) XYZ() V3 { return V3{v[0], v[1], v[2]} }

// String implements fmt.Stringer.
// The format is "( x, y, z, w )".
func (v V4) String() string { return format(v[:]) }

// String implements fmt.Stringer.
func (v V3) String() string { return format(v[:]) }

// String implements fmt.Stringer.
func (v V2) String() string { return format(v[:]) }

func format(v []float32) string {
	var sb strings.Builder
	sb.WriteString("( ")
	for i, x := range v {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(strconv.FormatFloat(float64(x), 'g', -1, 32))
	}
	sb.WriteString(" )")
	return sb.String()
}
