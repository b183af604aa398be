package export

import (
	"bufio"
	"context"
	"encoding/binary"
	"fmt"
	"math"
	"os"
	"path/filepath"

	"github.com/Jinkieyz/lajfi/genetics"
	"github.com/Jinkieyz/lajfi/superformula"
)

var byteorder = binary.LittleEndian

// Body layout: the three forms are the torso and two lobes placed along x.
var (
	partScales  = [genetics.NumForms]float64{1.0, 0.6, 0.4}
	partOffsets = [genetics.NumForms]float64{0, 0.6, -0.6}
)

const (
	// outgrowthOverlap pushes a child out from its anchor by this fraction of its scale.
	outgrowthOverlap = 0.3
	stlHeaderSize    = 80
)

// Vec3 is a point or direction in model space.
type Vec3 [3]float64

func (a Vec3) add(b Vec3) Vec3 { return Vec3{a[0] + b[0], a[1] + b[1], a[2] + b[2]} }
func (a Vec3) sub(b Vec3) Vec3 { return Vec3{a[0] - b[0], a[1] - b[1], a[2] - b[2]} }
func (a Vec3) scale(s float64) Vec3 { return Vec3{a[0] * s, a[1] * s, a[2] * s} }
func (a Vec3) length() float64 { return math.Sqrt(a[0]*a[0] + a[1]*a[1] + a[2]*a[2]) }

func (a Vec3) cross(b Vec3) Vec3 {
	return Vec3{
		a[1]*b[2] - a[2]*b[1],
		a[2]*b[0] - a[0]*b[2],
		a[0]*b[1] - a[1]*b[0],
	}
}

// Triangle is one facet with an outward unit normal.
type Triangle struct {
	Normal  Vec3
	A, B, C Vec3
}

// stlFacet is the 50-byte on-disk facet record.
type stlFacet struct {
	Normal  [3]float32
	A, B, C [3]float32
	Attr    uint16
}

// STLRenderer tessellates descriptors into binary STL files.
type STLRenderer struct {
	MinRadius float64
	MaxRadius float64
}

// NewSTLRenderer returns a renderer with print-safe radius limits.
func NewSTLRenderer() *STLRenderer {
	return &STLRenderer{MinRadius: 0.1, MaxRadius: 5}
}

// Render writes desc to path. The file appears atomically.
func (r *STLRenderer) Render(ctx context.Context, desc superformula.ShapeDescriptor, path string) error {
	if err := desc.Validate(); err != nil {
		return fmt.Errorf("invalid descriptor: %w", err)
	}
	tris, err := r.Mesh(ctx, desc)
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), ".lajfi-*.stl")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if err := writeSTL(tmp, fmt.Sprintf("lajfi %s gen%d", desc.Name, desc.Generation), tris); err != nil {
		tmp.Close()
		return fmt.Errorf("writing stl: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing stl: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("publishing stl: %w", err)
	}
	return nil
}

// Mesh builds the body shells and fractal outgrowths of desc.
func (r *STLRenderer) Mesh(ctx context.Context, desc superformula.ShapeDescriptor) ([]Triangle, error) {
	desc = r.fitted(desc)
	var tris []Triangle

	// Body parts
	for i, grid := range desc.Forms {
		center := Vec3{partOffsets[i], 0, 0}
		verts := r.shell(grid, partScales[i], center, 1)
		tris = appendShell(tris, verts, grid.ThetaSteps, grid.PhiSteps)
	}

	// Fractal outgrowths grow from the torso, then from each previous level.
	type parent struct {
		form   int
		scale  float64
		center Vec3
	}
	for _, anchor := range desc.Fractal.Anchors {
		if anchor < 0 || anchor >= len(desc.Forms[0].Samples) {
			return nil, fmt.Errorf("anchor %d outside grid of %d samples", anchor, len(desc.Forms[0].Samples))
		}
	}
	level := []parent{{form: 0, scale: partScales[0]}}
	childScale := 1.0
	for depth := 1; depth <= desc.Fractal.Levels; depth++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		childScale *= desc.Fractal.Scale
		stride := depth + 1 // coarser deeper down
		var next []parent
		for _, p := range level {
			grid := desc.Forms[p.form]
			for k, anchor := range desc.Fractal.Anchors {
				s := grid.Samples[anchor]
				pos := r.point(s, p.scale).add(p.center)
				dir := pos.sub(p.center)
				if l := dir.length(); l > 0 {
					dir = dir.scale(1 / l)
				}
				c := parent{
					form:   k % genetics.NumForms,
					scale:  childScale,
					center: pos.add(dir.scale(outgrowthOverlap * childScale)),
				}
				cg := desc.Forms[c.form]
				verts := r.shell(cg, c.scale, c.center, stride)
				cols, rows := strided(cg.ThetaSteps, stride), stridedRows(cg.PhiSteps, stride)
				tris = appendShell(tris, verts, len(cols), len(rows))
				next = append(next, c)
			}
		}
		level = next
	}
	return tris, nil
}

// fitted shrinks every radius of desc by the same factor so the largest is
// MaxRadius, keeping the body's proportions. A descriptor that already fits
// is returned as is.
func (r *STLRenderer) fitted(desc superformula.ShapeDescriptor) superformula.ShapeDescriptor {
	m := desc.MaxRadius()
	if m <= r.MaxRadius {
		return desc
	}
	k := r.MaxRadius / m
	out := desc.Clone()
	for i := range out.Forms {
		for j := range out.Forms[i].Samples {
			out.Forms[i].Samples[j].R *= k
		}
	}
	return out
}

func (r *STLRenderer) radius(v float64) float64 {
	return math.Min(math.Max(v, r.MinRadius), r.MaxRadius)
}

func (r *STLRenderer) point(s superformula.Sample, scale float64) Vec3 {
	rad := r.radius(s.R) * scale
	sinPhi := math.Sin(s.Phi)
	return Vec3{
		rad * sinPhi * math.Cos(s.Theta),
		rad * sinPhi * math.Sin(s.Theta),
		rad * math.Cos(s.Phi),
	}
}

// shell returns grid vertices in row-major order, keeping every stride-th
// column and row (the last row always kept so the shell stays closed).
func (r *STLRenderer) shell(grid superformula.FormGrid, scale float64, center Vec3, stride int) []Vec3 {
	cols := strided(grid.ThetaSteps, stride)
	rows := stridedRows(grid.PhiSteps, stride)
	verts := make([]Vec3, 0, len(cols)*len(rows))
	for _, row := range rows {
		for _, col := range cols {
			verts = append(verts, r.point(grid.At(row, col), scale).add(center))
		}
	}
	return verts
}

func strided(n, stride int) []int {
	if stride < 1 || n/stride < 3 {
		stride = 1
	}
	out := make([]int, 0, n/stride+1)
	for i := 0; i < n; i += stride {
		out = append(out, i)
	}
	return out
}

func stridedRows(n, stride int) []int {
	out := strided(n, stride)
	if out[len(out)-1] != n-1 {
		out = append(out, n-1)
	}
	return out
}

// appendShell connects a cols x rows vertex grid into outward triangles.
// Columns wrap around; rows run pole to pole. Degenerate facets at the poles
// are dropped.
func appendShell(tris []Triangle, verts []Vec3, cols, rows int) []Triangle {
	for j := 0; j < rows-1; j++ {
		for i := 0; i < cols; i++ {
			next := (i + 1) % cols
			v1 := verts[j*cols+i]
			v2 := verts[j*cols+next]
			v3 := verts[(j+1)*cols+next]
			v4 := verts[(j+1)*cols+i]
			tris = appendFacet(tris, v1, v3, v2)
			tris = appendFacet(tris, v1, v4, v3)
		}
	}
	return tris
}

func appendFacet(tris []Triangle, a, b, c Vec3) []Triangle {
	n := b.sub(a).cross(c.sub(a))
	l := n.length()
	if l < 1e-12 {
		return tris
	}
	return append(tris, Triangle{Normal: n.scale(1 / l), A: a, B: b, C: c})
}

func writeSTL(f *os.File, title string, tris []Triangle) error {
	w := bufio.NewWriter(f)

	var header [stlHeaderSize]byte
	copy(header[:], title)
	if _, err := w.Write(header[:]); err != nil {
		return err
	}
	if err := binary.Write(w, byteorder, uint32(len(tris))); err != nil {
		return err
	}
	for _, t := range tris {
		facet := stlFacet{
			Normal: to32(t.Normal),
			A:      to32(t.A),
			B:      to32(t.B),
			C:      to32(t.C),
		}
		if err := binary.Write(w, byteorder, &facet); err != nil {
			return err
		}
	}
	return w.Flush()
}

func to32(v Vec3) [3]float32 {
	return [3]float32{float32(v[0]), float32(v[1]), float32(v[2])}
}
