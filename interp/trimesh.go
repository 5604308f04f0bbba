package interp

import (
	"errors"
	"math"

	"github.com/fogleman/delaunay"
)

// ErrDegenerate means the sample sites admit no triangulation (fewer than
// three distinct sites, or all sites collinear). Callers are expected to
// degrade to sentinel-valued output rather than abort.
var ErrDegenerate = errors.New("interp: point cloud cannot be triangulated")

// barycentric tolerance: a point this far outside an edge still counts as
// inside, absorbing floating error at shared edges.
const baryEps = 1e-10

// TriMesh is a Delaunay triangulation over scattered sample sites, used for
// piecewise-linear interpolation of any value channel sampled at those sites.
// Sites with identical coordinates are collapsed; their channel values are
// averaged at evaluation time.
type TriMesh struct {
	n      int // original sample count
	sites  []delaunay.Point
	groups [][]int // original sample indices per site
	tris   [][3]int
	boxes  []box
}

type box struct {
	minX, minY, maxX, maxY float64
}

// Tri identifies the enclosing triangle and barycentric weights of a query
// point, as returned by Locate.
type Tri struct {
	Sites   [3]int
	Weights [3]float64
}

// NewTriMesh triangulates the (xs, ys) sample sites.
func NewTriMesh(xs, ys []float64) (*TriMesh, error) {
	if len(xs) != len(ys) {
		return nil, errors.New("interp: xs and ys length mismatch")
	}

	m := &TriMesh{n: len(xs)}
	seen := make(map[[2]float64]int)
	for i := range xs {
		key := [2]float64{xs[i], ys[i]}
		if s, ok := seen[key]; ok {
			m.groups[s] = append(m.groups[s], i)
			continue
		}
		seen[key] = len(m.sites)
		m.sites = append(m.sites, delaunay.Point{X: xs[i], Y: ys[i]})
		m.groups = append(m.groups, []int{i})
	}
	if len(m.sites) < 3 {
		return nil, ErrDegenerate
	}

	t, err := delaunay.Triangulate(m.sites)
	if err != nil || len(t.Triangles) < 3 {
		return nil, ErrDegenerate
	}

	for k := 0; k+2 < len(t.Triangles); k += 3 {
		tri := [3]int{t.Triangles[k], t.Triangles[k+1], t.Triangles[k+2]}
		a, b, c := m.sites[tri[0]], m.sites[tri[1]], m.sites[tri[2]]
		m.tris = append(m.tris, tri)
		m.boxes = append(m.boxes, box{
			minX: math.Min(a.X, math.Min(b.X, c.X)),
			minY: math.Min(a.Y, math.Min(b.Y, c.Y)),
			maxX: math.Max(a.X, math.Max(b.X, c.X)),
			maxY: math.Max(a.Y, math.Max(b.Y, c.Y)),
		})
	}
	return m, nil
}

// Locate finds the triangle containing (x, y). ok is false outside the
// convex hull of the sites.
func (m *TriMesh) Locate(x, y float64) (Tri, bool) {
	for k, tri := range m.tris {
		bb := m.boxes[k]
		if x < bb.minX || x > bb.maxX || y < bb.minY || y > bb.maxY {
			continue
		}
		a, b, c := m.sites[tri[0]], m.sites[tri[1]], m.sites[tri[2]]
		den := (b.Y-c.Y)*(a.X-c.X) + (c.X-b.X)*(a.Y-c.Y)
		if den == 0 {
			continue
		}
		w0 := ((b.Y-c.Y)*(x-c.X) + (c.X-b.X)*(y-c.Y)) / den
		w1 := ((c.Y-a.Y)*(x-c.X) + (a.X-c.X)*(y-c.Y)) / den
		w2 := 1 - w0 - w1
		if w0 < -baryEps || w1 < -baryEps || w2 < -baryEps {
			continue
		}
		return Tri{Sites: tri, Weights: [3]float64{clamp0(w0), clamp0(w1), clamp0(w2)}}, true
	}
	return Tri{}, false
}

// Combine evaluates one value channel at a located point. values holds one
// entry per original sample passed to NewTriMesh.
func (m *TriMesh) Combine(values []float64, at Tri) float64 {
	var v float64
	for k := 0; k < 3; k++ {
		v += at.Weights[k] * m.siteValue(values, at.Sites[k])
	}
	return v
}

// Interpolate evaluates one value channel at (x, y), NaN outside the hull.
func (m *TriMesh) Interpolate(values []float64, x, y float64) float64 {
	at, ok := m.Locate(x, y)
	if !ok {
		return math.NaN()
	}
	return m.Combine(values, at)
}

// siteValue averages the channel over all original samples collapsed into
// one site.
func (m *TriMesh) siteValue(values []float64, site int) float64 {
	g := m.groups[site]
	if len(g) == 1 {
		return values[g[0]]
	}
	var s float64
	for _, i := range g {
		s += values[i]
	}
	return s / float64(len(g))
}

func clamp0(w float64) float64 {
	if w < 0 {
		return 0
	}
	return w
}
