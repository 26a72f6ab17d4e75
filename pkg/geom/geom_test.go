package geom

import (
	"math"
	"testing"
)

const tol = 1e-9

func TestVec3Ops(t *testing.T) {
	a := V3(1, 2, 3)
	b := V3(4, -5, 6)

	if got := a.Add(b); got != V3(5, -3, 9) {
		t.Errorf("Add = %v, want (5,-3,9)", got)
	}
	if got := a.Sub(b); got != V3(-3, 7, -3) {
		t.Errorf("Sub = %v, want (-3,7,-3)", got)
	}
	if got := a.Dot(b); got != 12 {
		t.Errorf("Dot = %v, want 12", got)
	}
	if got := UnitX.Cross(UnitY); got != UnitZ {
		t.Errorf("X×Y = %v, want Z", got)
	}
	if got := V3(3, 4, 0).Length(); got != 5 {
		t.Errorf("Length = %v, want 5", got)
	}
	if got := Zero.Normalize(); got != Zero {
		t.Errorf("Normalize(zero) = %v, want zero", got)
	}
	if got := V3(0, 0, 0).Lerp(V3(10, 20, 30), 0.5); got != V3(5, 10, 15) {
		t.Errorf("Lerp = %v, want (5,10,15)", got)
	}
}

func TestSpherical(t *testing.T) {
	tests := []struct {
		name       string
		phi, theta float64
		want       Vec3
	}{
		{"north pole", 0, 0, V3(0, 800, 0)},
		{"south pole", math.Pi, 0, V3(0, -800, 0)},
		{"equator +Z", math.Pi / 2, 0, V3(0, 0, 800)},
		{"equator +X", math.Pi / 2, math.Pi / 2, V3(800, 0, 0)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Spherical(800, tt.phi, tt.theta)
			if !got.ApproxEqual(tt.want, 1e-6) {
				t.Errorf("Spherical = %v, want %v", got, tt.want)
			}
			if l := got.Length(); math.Abs(l-800) > 1e-6 {
				t.Errorf("Length = %v, want 800", l)
			}
		})
	}
}

func TestCylindrical(t *testing.T) {
	got := Cylindrical(750, math.Pi/2, 100)
	if !got.ApproxEqual(V3(750, 100, 0), 1e-6) {
		t.Errorf("Cylindrical = %v, want (750,100,0)", got)
	}
	opp := Cylindrical(750, math.Pi/2+math.Pi, 100)
	if !opp.ApproxEqual(V3(-750, 100, 0), 1e-6) {
		t.Errorf("Cylindrical opposite = %v, want (-750,100,0)", opp)
	}
}

func TestLookAtForwardAxis(t *testing.T) {
	tests := []struct {
		name        string
		eye, target Vec3
	}{
		{"along +Z", Zero, V3(0, 0, 10)},
		{"along -Z", Zero, V3(0, 0, -10)},
		{"diagonal", V3(100, 200, 300), V3(-50, 20, 3000)},
		{"outward", V3(800, 0, 0), V3(1600, 0, 0)},
		{"straight up", Zero, V3(0, 10, 0)},
		{"straight down", V3(0, 5, 0), V3(0, -5, 0)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := LookAt(tt.eye, tt.target, UnitY)
			if l := q.Length(); math.Abs(l-1) > 1e-9 {
				t.Fatalf("quaternion not unit: %v", l)
			}
			want := tt.target.Sub(tt.eye).Normalize()
			got := q.Rotate(UnitZ)
			if !got.ApproxEqual(want, 1e-3) {
				t.Errorf("forward = %v, want %v", got, want)
			}
		})
	}
}

func TestLookAtDegenerate(t *testing.T) {
	if q := LookAt(V3(1, 2, 3), V3(1, 2, 3), UnitY); q != Identity {
		t.Errorf("LookAt(eye==target) = %v, want identity", q)
	}
	if q := LookAt(Zero, V3(0, 0, 5), UnitY); !q.ApproxEqual(Identity, tol) {
		t.Errorf("LookAt(+Z) = %v, want identity", q)
	}
}

func TestQuatRotateAndConjugate(t *testing.T) {
	q := FromAxisAngle(UnitY, math.Pi/2)
	got := q.Rotate(UnitZ)
	if !got.ApproxEqual(UnitX, 1e-9) {
		t.Errorf("rotate Z by 90° about Y = %v, want X", got)
	}
	back := q.Conjugate().Rotate(got)
	if !back.ApproxEqual(UnitZ, 1e-9) {
		t.Errorf("conjugate rotate = %v, want Z", back)
	}
	if r := q.Mul(q.Conjugate()); !r.ApproxEqual(Identity, 1e-9) {
		t.Errorf("q*q' = %v, want identity", r)
	}
}
