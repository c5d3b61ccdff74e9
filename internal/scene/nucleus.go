package scene

import (
	"github.com/chewxy/math32"
)

// icosahedron vertices (unnormalised) and faces.
var (
	icoPhi = (1 + math32.Sqrt(5)) / 2

	icoVertices = [12][3]float32{
		{-1, icoPhi, 0}, {1, icoPhi, 0}, {-1, -icoPhi, 0}, {1, -icoPhi, 0},
		{0, -1, icoPhi}, {0, 1, icoPhi}, {0, -1, -icoPhi}, {0, 1, -icoPhi},
		{icoPhi, 0, -1}, {icoPhi, 0, 1}, {-icoPhi, 0, -1}, {-icoPhi, 0, 1},
	}

	icoFaces = [20][3]int{
		{0, 11, 5}, {0, 5, 1}, {0, 1, 7}, {0, 7, 10}, {0, 10, 11},
		{1, 5, 9}, {5, 11, 4}, {11, 10, 2}, {10, 7, 6}, {7, 1, 8},
		{3, 9, 4}, {3, 4, 2}, {3, 2, 6}, {3, 6, 8}, {3, 8, 9},
		{4, 9, 5}, {2, 4, 11}, {6, 2, 10}, {8, 6, 7}, {9, 8, 1},
	}
)

// Nucleus is the displaced central sphere. Live and Normals are xyz
// triples, three vertices per triangle. Rest is a copy of the undisplaced
// positions taken at construction and never written again.
type Nucleus struct {
	Radius float32
	Detail int

	Rest    []float32
	Live    []float32
	Normals []float32
}

// VertexCount returns the number of vertices in the mesh.
func (n *Nucleus) VertexCount() int {
	return len(n.Live) / 3
}

// NewIcosahedron builds a subdivided icosphere. Each of the 20 faces is
// split into (detail+1)² triangles whose vertices are pushed out to radius.
// Vertices are not shared between triangles, so the mesh has flat shading
// and 60·(detail+1)² vertices.
func NewIcosahedron(radius float32, detail int) *Nucleus {
	if detail < 0 {
		detail = 0
	}
	cols := detail + 1
	live := make([]float32, 0, 20*3*cols*cols*3)

	for _, f := range icoFaces {
		live = subdivideFace(live, icoVertices[f[0]], icoVertices[f[1]], icoVertices[f[2]], cols)
	}

	for i := 0; i < len(live); i += 3 {
		l := math32.Sqrt(live[i]*live[i] + live[i+1]*live[i+1] + live[i+2]*live[i+2])
		s := radius / l
		live[i] *= s
		live[i+1] *= s
		live[i+2] *= s
	}

	n := &Nucleus{
		Radius:  radius,
		Detail:  detail,
		Rest:    append([]float32(nil), live...),
		Live:    live,
		Normals: make([]float32, len(live)),
	}
	n.ComputeNormals()
	return n
}

func lerp3(a, b [3]float32, t float32) [3]float32 {
	return [3]float32{
		a[0] + (b[0]-a[0])*t,
		a[1] + (b[1]-a[1])*t,
		a[2] + (b[2]-a[2])*t,
	}
}

// subdivideFace appends the cols² triangles of face abc to out, keeping
// the winding of the source face.
func subdivideFace(out []float32, a, b, c [3]float32, cols int) []float32 {
	grid := make([][][3]float32, cols+1)
	for i := 0; i <= cols; i++ {
		t := float32(i) / float32(cols)
		aj := lerp3(a, c, t)
		bj := lerp3(b, c, t)
		rows := cols - i
		grid[i] = make([][3]float32, rows+1)
		for j := 0; j <= rows; j++ {
			if j == 0 && i == cols {
				grid[i][j] = aj
				continue
			}
			grid[i][j] = lerp3(aj, bj, float32(j)/float32(rows))
		}
	}

	push := func(v ...[3]float32) {
		for _, p := range v {
			out = append(out, p[0], p[1], p[2])
		}
	}
	for i := 0; i < cols; i++ {
		for j := 0; j < 2*(cols-i)-1; j++ {
			k := j / 2
			if j%2 == 0 {
				push(grid[i][k+1], grid[i+1][k], grid[i][k])
			} else {
				push(grid[i][k+1], grid[i+1][k+1], grid[i+1][k])
			}
		}
	}
	return out
}

// ComputeNormals recomputes the flat per-triangle normals from Live.
func (n *Nucleus) ComputeNormals() {
	p := n.Live
	for i := 0; i+8 < len(p); i += 9 {
		// (c - b) × (a - b)
		cbx, cby, cbz := p[i+6]-p[i+3], p[i+7]-p[i+4], p[i+8]-p[i+5]
		abx, aby, abz := p[i]-p[i+3], p[i+1]-p[i+4], p[i+2]-p[i+5]

		nx := cby*abz - cbz*aby
		ny := cbz*abx - cbx*abz
		nz := cbx*aby - cby*abx

		if l := math32.Sqrt(nx*nx + ny*ny + nz*nz); l > 0 {
			nx, ny, nz = nx/l, ny/l, nz/l
		}
		for k := 0; k < 3; k++ {
			n.Normals[i+3*k] = nx
			n.Normals[i+3*k+1] = ny
			n.Normals[i+3*k+2] = nz
		}
	}
}
