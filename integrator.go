package smd

// Integrable is the state vector a fixed-step RK4 integrates, mirroring
// the shape of the pre-`ode`-migration interface at
// src/integrator/integrable.go/rk4.go (GetState/SetState/Stop/Func), kept
// here as an in-repo RK4 component rather than reaching for the later
// external `ode` package.
type Integrable interface {
	// GetState returns the current state as a flat []float64.
	GetState() []float64
	// SetState updates the state after a completed step, with the
	// number of completed steps (1 after the first step) provided for
	// callers that log progress.
	SetState(step uint64, state []float64)
	// Stop reports whether propagation should end after step i.
	Stop(step uint64) bool
	// Func evaluates the state derivative f(t, s) used by each RK4 stage.
	Func(t float64, state []float64) []float64
}

// RK4 performs classical fixed-step Runge-Kutta-4 integration of an
// Integrable: k1=f(s), k2=f(s+dt/2 k1),
// k3=f(s+dt/2 k2), k4=f(s+dt k3), s += dt/6 (k1+2k2+2k3+k4), t += dt.
type RK4 struct {
	T0         float64
	StepSize   float64
	Integrable Integrable
}

// NewRK4 constructs an RK4 driver. Panics on a non-positive step size or a
// nil Integrable: both are programmer errors, matching the `NewRK4`
// panics in src/integrator/rk4.go.
func NewRK4(t0, stepSize float64, inte Integrable) *RK4 {
	if stepSize <= 0 {
		panic("RK4 step size must be strictly positive")
	}
	if inte == nil {
		panic("RK4 requires a non-nil Integrable")
	}
	return &RK4{T0: t0, StepSize: stepSize, Integrable: inte}
}

// Solve runs the fixed-step loop until Stop reports true, returning the
// number of completed steps and the final time.
func (r *RK4) Solve() (uint64, float64) {
	t := r.T0
	var step uint64
	for {
		state := r.Integrable.GetState()
		n := len(state)

		k1 := r.Integrable.Func(t, state)

		s2 := make([]float64, n)
		for i := range state {
			s2[i] = state[i] + r.StepSize/2*k1[i]
		}
		k2 := r.Integrable.Func(t+r.StepSize/2, s2)

		s3 := make([]float64, n)
		for i := range state {
			s3[i] = state[i] + r.StepSize/2*k2[i]
		}
		k3 := r.Integrable.Func(t+r.StepSize/2, s3)

		s4 := make([]float64, n)
		for i := range state {
			s4[i] = state[i] + r.StepSize*k3[i]
		}
		k4 := r.Integrable.Func(t+r.StepSize, s4)

		next := make([]float64, n)
		for i := range state {
			next[i] = state[i] + r.StepSize/6*(k1[i]+2*k2[i]+2*k3[i]+k4[i])
		}

		t += r.StepSize
		step++
		r.Integrable.SetState(step, next)

		if r.Integrable.Stop(step) {
			break
		}
	}
	return step, t
}

// StateVectorDerivative adapts an AccelerationComposer into the
// f(t, s) = {position_deriv: velocity, velocity_deriv: a_total} contract
// for the RK4 state derivative, over the flat
// 6-element []float64 layout [rx,ry,rz,vx,vy,vz] that Integrable.Func uses.
func (ac *AccelerationComposer) StateVectorDerivative(jd float64) func(t float64, s []float64) []float64 {
	return func(t float64, s []float64) []float64 {
		r := Vec3{s[0], s[1], s[2]}
		v := Vec3{s[3], s[4], s[5]}
		a := ac.Accelerate(r, v, jd+t/86400)
		return []float64{v.X, v.Y, v.Z, a.X, a.Y, a.Z}
	}
}
