// Package trace is the host-side implementation of the trace pass. It follows the
// WGSL shader in rt/shaders step for step so the CPU backend and the tests see the
// same images and the same ray-work counts as the GPU.
package trace

import (
	"github.com/chewxy/math32"
	"github.com/gekko3d/spheretrace/rt/core"
	"github.com/go-gl/mathgl/mgl32"
)

const (
	Epsilon   float32 = 1e-3
	MinWeight float32 = 0.01
	Ambient   float32 = 0.1

	stackSize = 2*core.MaxIterations + 2
)

type Ray struct {
	Origin mgl32.Vec3
	Dir    mgl32.Vec3
}

func (r Ray) At(t float32) mgl32.Vec3 {
	return r.Origin.Add(r.Dir.Mul(t))
}

type Hit struct {
	T        float32
	Point    mgl32.Vec3
	Normal   mgl32.Vec3 // outward
	Material core.Material
	Plane    bool
}

// Sample is the result of tracing one pixel.
type Sample struct {
	Color     mgl32.Vec3
	Tests     int // intersection tests, the ray-work counter
	Rays      int
	Secondary int // reflected + refracted rays traced
}

type pending struct {
	ray    Ray
	weight float32
	depth  int
}

type Tracer struct {
	Params core.FrameParameters
	Scene  *core.Scene
}

func NewTracer(params core.FrameParameters, scene *core.Scene) *Tracer {
	return &Tracer{Params: params, Scene: scene}
}

// CameraRay builds the primary ray through pixel (px, py), with row 0 at the top.
func (tr *Tracer) CameraRay(px, py int) Ray {
	p := tr.Params
	ndcX := 2*(float32(px)+0.5)/p.Resolution.X() - 1
	ndcY := 1 - 2*(float32(py)+0.5)/p.Resolution.Y()

	far := p.InvProj.Mul4x1(mgl32.Vec4{ndcX, ndcY, 1, 1})
	viewDir := far.Vec3().Mul(1 / far.W()).Normalize()
	viewDir = p.CursorRotation.Mul3x1(viewDir)

	dir := p.InvView.Mul4x1(viewDir.Vec4(0)).Vec3().Normalize()
	return Ray{Origin: p.ViewPos, Dir: dir}
}

// Pixel traces one pixel.
func (tr *Tracer) Pixel(px, py int) Sample {
	return tr.Trace(tr.CameraRay(px, py))
}

// Trace follows a primary ray and its reflected/refracted children with an explicit
// stack, at most core.MaxRays(iterations) rays in total.
func (tr *Tracer) Trace(primary Ray) Sample {
	var s Sample
	var stack [stackSize]pending
	n := 0
	stack[n] = pending{ray: primary, weight: 1, depth: 0}
	n++

	budget := core.MaxRays(tr.Params.Iterations)
	for n > 0 && s.Rays < budget {
		n--
		e := stack[n]
		s.Rays++
		if e.depth > 0 {
			s.Secondary++
		}

		hit, ok := tr.Closest(e.ray, &s.Tests)
		if !ok {
			s.Color = s.Color.Add(Background(e.ray.Dir).Mul(e.weight))
			continue
		}

		m := hit.Material
		canRecurse := e.depth < tr.Params.Iterations

		kr := float32(0)
		kt := float32(0)
		if canRecurse {
			kr = m.Reflectivity
			if tr.Params.CanRefract {
				kt = m.Transparency
			}
		}

		local := tr.Local(hit, e.ray, &s.Tests)
		s.Color = s.Color.Add(local.Mul(e.weight * (1 - kr - kt)))

		if !canRecurse {
			continue
		}

		inside := e.ray.Dir.Dot(hit.Normal) > 0
		n1 := hit.Normal
		if inside {
			n1 = n1.Mul(-1)
		}

		if kt > 0 {
			eta := 1 / m.IOR
			if inside {
				eta = m.IOR
			}
			if dir, ok := Refract(e.ray.Dir, n1, eta); ok {
				w := e.weight * kt
				if w >= MinWeight && n < stackSize {
					stack[n] = pending{
						ray:    Ray{Origin: hit.Point.Sub(n1.Mul(Epsilon)), Dir: dir},
						weight: w,
						depth:  e.depth + 1,
					}
					n++
				}
			} else {
				// total internal reflection
				kr += kt
			}
		}

		if kr > 0 {
			w := e.weight * kr
			if w >= MinWeight && n < stackSize {
				stack[n] = pending{
					ray:    Ray{Origin: hit.Point.Add(n1.Mul(Epsilon)), Dir: Reflect(e.ray.Dir, n1)},
					weight: w,
					depth:  e.depth + 1,
				}
				n++
			}
		}
	}

	s.Color = clamp01(s.Color)
	return s
}

// Closest returns the nearest hit in front of the ray origin. Every sphere and plane
// test increments tests.
func (tr *Tracer) Closest(r Ray, tests *int) (Hit, bool) {
	best := Hit{T: math32.MaxFloat32}
	found := false

	for i := range tr.Scene.Spheres {
		sp := &tr.Scene.Spheres[i]
		*tests++
		if t, ok := IntersectSphere(r, sp.Center, sp.Radius); ok && t < best.T {
			best.T = t
			best.Material = sp.Material
			best.Point = r.At(t)
			best.Normal = best.Point.Sub(sp.Center).Mul(1 / sp.Radius)
			best.Plane = false
			found = true
		}
	}

	if tr.Scene.WithPlane {
		*tests++
		if t, ok := IntersectPlane(r, core.PlaneHeight); ok && t < best.T {
			best.T = t
			best.Point = r.At(t)
			best.Normal = mgl32.Vec3{0, 1, 0}
			best.Material = tr.Scene.PlaneMaterial
			best.Material.Color = best.Material.Color.Mul(Checker(best.Point))
			best.Plane = true
			found = true
		}
	}
	return best, found
}

// Occluded reports whether any sphere blocks the ray from p towards the light.
// The plane never occludes: everything sits on or above it.
func (tr *Tracer) Occluded(p, l mgl32.Vec3, tests *int) bool {
	r := Ray{Origin: p, Dir: l}
	for i := range tr.Scene.Spheres {
		sp := &tr.Scene.Spheres[i]
		*tests++
		if _, ok := IntersectSphere(r, sp.Center, sp.Radius); ok {
			return true
		}
	}
	return false
}

// Local is the Phong term: ambient + diffuse + specular, with a hard shadow.
func (tr *Tracer) Local(h Hit, r Ray, tests *int) mgl32.Vec3 {
	m := h.Material
	n := h.Normal
	if r.Dir.Dot(n) > 0 {
		n = n.Mul(-1)
	}
	l := tr.Params.LightDirection

	color := m.Color.Mul(Ambient)

	ndotl := n.Dot(l)
	if ndotl <= 0 {
		return color
	}
	if tr.Occluded(h.Point.Add(n.Mul(Epsilon)), l, tests) {
		return color
	}

	color = color.Add(m.Color.Mul(m.Diffuse * ndotl))

	refl := Reflect(l.Mul(-1), n)
	view := r.Dir.Mul(-1)
	spec := math32.Pow(math32.Max(refl.Dot(view), 0), m.Shininess)
	color = color.Add(mgl32.Vec3{1, 1, 1}.Mul(m.Specular * spec))
	return color
}

// IntersectSphere returns the nearest t > Epsilon of a ray against a sphere.
func IntersectSphere(r Ray, center mgl32.Vec3, radius float32) (float32, bool) {
	oc := r.Origin.Sub(center)
	a := r.Dir.Dot(r.Dir)
	halfB := oc.Dot(r.Dir)
	c := oc.Dot(oc) - radius*radius

	disc := halfB*halfB - a*c
	if disc < 0 {
		return 0, false
	}
	sq := math32.Sqrt(disc)

	t := (-halfB - sq) / a
	if t > Epsilon {
		return t, true
	}
	t = (-halfB + sq) / a
	if t > Epsilon {
		return t, true
	}
	return 0, false
}

// IntersectPlane intersects the horizontal plane y = height.
func IntersectPlane(r Ray, height float32) (float32, bool) {
	if math32.Abs(r.Dir.Y()) < 1e-6 {
		return 0, false
	}
	t := (height - r.Origin.Y()) / r.Dir.Y()
	if t > Epsilon {
		return t, true
	}
	return 0, false
}

func Reflect(i, n mgl32.Vec3) mgl32.Vec3 {
	return i.Sub(n.Mul(2 * n.Dot(i)))
}

// Refract bends i through a surface with normal n (facing i) and ratio eta = n1/n2.
// It returns false on total internal reflection.
func Refract(i, n mgl32.Vec3, eta float32) (mgl32.Vec3, bool) {
	cosi := n.Dot(i)
	k := 1 - eta*eta*(1-cosi*cosi)
	if k < 0 {
		return mgl32.Vec3{}, false
	}
	return i.Mul(eta).Sub(n.Mul(eta*cosi + math32.Sqrt(k))).Normalize(), true
}

// Checker returns the brightness of the plane's checkerboard at p.
func Checker(p mgl32.Vec3) float32 {
	c := int(math32.Floor(p.X())) + int(math32.Floor(p.Z()))
	if c&1 == 0 {
		return 1.0
	}
	return 0.4
}

func Background(dir mgl32.Vec3) mgl32.Vec3 {
	t := 0.5 * (dir.Y() + 1)
	white := mgl32.Vec3{1, 1, 1}
	sky := mgl32.Vec3{0.5, 0.7, 1.0}
	return white.Mul(1 - t).Add(sky.Mul(t)).Mul(0.8)
}

func clamp01(c mgl32.Vec3) mgl32.Vec3 {
	return mgl32.Vec3{
		mgl32.Clamp(c.X(), 0, 1),
		mgl32.Clamp(c.Y(), 0, 1),
		mgl32.Clamp(c.Z(), 0, 1),
	}
}
