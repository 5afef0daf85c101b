package smd

import (
	"math"
	"testing"
)

// testCentral returns an Earth-like central body in this package's km
// convention (μ in km³/s², radius in km), matching what Accelerate
// documents for its inputs.
func testCentral() *CelestialObject {
	return &CelestialObject{Name: "test-earth", μ: 3.98600433e5, Radius: 6378.1363, J2: 1082.6269e-6}
}

func TestAccelerateCentralTermOnly(t *testing.T) {
	central := testCentral()
	ac := &AccelerationComposer{Central: central}
	r := Vec3{7000, 0, 0}
	a := ac.Accelerate(r, Vec3{0, 7.5, 0}, 2451545.0)

	want := -central.μ / (r.Norm() * r.Norm())
	if math.Abs(a.X-want) > 1e-12 || a.Y != 0 || a.Z != 0 {
		t.Fatalf("central-only acceleration = %+v, want (%g, 0, 0)", a, want)
	}
}

func TestAccelerateInsideCentralBodyReturnsZero(t *testing.T) {
	ac := &AccelerationComposer{Central: testCentral()}
	a := ac.Accelerate(Vec3{0, 0, 0}, Vec3{1, 2, 3}, 2451545.0)
	if a != (Vec3{}) {
		t.Fatalf("degenerate |r|~0 should return zero acceleration, got %+v", a)
	}
}

func TestJ2PerturbationIsSmallRelativeToCentralTerm(t *testing.T) {
	central := testCentral()
	acCentral := &AccelerationComposer{Central: central}
	acJ2 := &AccelerationComposer{Central: central, Config: PerturbationConfig{J2: true}}

	r := Vec3{7000, 1000, 500}
	v := Vec3{-0.1, 7.0, 0.2}
	aCentral := acCentral.Accelerate(r, v, 2451545.0)
	aWithJ2 := acJ2.Accelerate(r, v, 2451545.0)

	delta := aWithJ2.Sub(aCentral).Norm()
	ratio := delta / aCentral.Norm()
	if ratio <= 0 {
		t.Fatal("J2 term contributed no acceleration at all")
	}
	if ratio > 1e-2 {
		t.Fatalf("J2 perturbation is %g of the central term at LEO, want a small correction (<1%%)", ratio)
	}
}

func TestSRPIsZeroInsideShadow(t *testing.T) {
	central := testCentral()
	ac := &AccelerationComposer{
		Central: central,
		Config:  PerturbationConfig{SRP: true, Cr: 1.3, AreaOverMassSRP: 0.02},
		SunPosition: func(jd float64) Vec3 {
			return Vec3{auKm, 0, 0}
		},
	}
	// Directly behind Earth from the Sun's perspective: deep in the
	// cylindrical shadow.
	rShadow := Vec3{-central.Radius * 0.5, 0, 0}
	aShadow := ac.srpTerm(rShadow, ac.SunPosition(2451545.0))
	if aShadow != (Vec3{}) {
		t.Fatalf("SRP term in shadow = %+v, want zero", aShadow)
	}

	// Facing the Sun: SRP must be nonzero.
	rLit := Vec3{central.Radius * 2, 0, 0}
	aLit := ac.srpTerm(rLit, ac.SunPosition(2451545.0))
	if aLit == (Vec3{}) {
		t.Fatal("SRP term in direct sunlight should not be zero")
	}
}

func TestDragVanishesAboveCutoffAltitude(t *testing.T) {
	central := testCentral()
	ac := &AccelerationComposer{
		Central: central,
		Config:  PerturbationConfig{Drag: true, Cd: 2.2, AreaOverMassDrag: 0.01},
	}
	r := Vec3{central.Radius + 201, 0, 0} // 201 km altitude, above the 200 km cutoff
	v := Vec3{0, 7.7, 0}
	a := ac.dragTerm(r, v, r.Norm())
	if a != (Vec3{}) {
		t.Fatalf("drag above 200km cutoff = %+v, want zero", a)
	}
}

func TestDragOpposesRelativeVelocity(t *testing.T) {
	central := testCentral()
	ac := &AccelerationComposer{
		Central: central,
		Config:  PerturbationConfig{Drag: true, Cd: 2.2, AreaOverMassDrag: 0.01},
	}
	r := Vec3{central.Radius + 150, 0, 0} // 150 km altitude, within cutoff
	v := Vec3{0, 7.8, 0}
	a := ac.dragTerm(r, v, r.Norm())
	if a == (Vec3{}) {
		t.Fatal("drag within 200km cutoff should be nonzero")
	}
	omega := Vec3{0, 0, earthRotationRate}
	vRel := v.Sub(omega.Cross(r))
	if d := a.Unit().Dot(vRel.Unit()); d > -0.99 {
		t.Fatalf("drag should point opposite the co-rotating relative velocity, cos(angle)=%g", d)
	}
}

func TestThirdBodyTermVanishesWhenCoincidentWithIndirectTerm(t *testing.T) {
	// At the central body's own location (r=0 is degenerate elsewhere, but
	// thirdBodyTerm itself is pure), the direct and indirect terms cancel.
	rBody := Vec3{400000, 0, 0}
	got := thirdBodyTerm(Vec3{}, rBody, moonGM)
	if d := got.Norm(); d > 1e-12 {
		t.Fatalf("third-body term at r=0 should cancel to zero, got %+v (norm %g)", got, d)
	}
}
