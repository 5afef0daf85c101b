package smd

import (
	"github.com/ChristopherRabotin/gokalman"
	"github.com/gonum/matrix/mat64"
)

// RelativeNavFilter fuses noisy onboard range measurements into a
// filtered RIC relative state, for the rendezvous kernel's
// relative-navigation demo. Relative motion under Clohessy-Wiltshire
// dynamics is linear and closed-form (hill.go's CWBlocks), so the filter
// hands that STM directly to gokalman as the process model — a HybridKF
// run in CKF mode (Prepare/Update each step, no EKF relinearization),
// the one orbit-determination setup where the linearization is exact
// instead of approximate.
type RelativeNavFilter struct {
	kf *gokalman.HybridKF
	n  float64 // target orbit mean motion, rad/s
}

// NewRelativeNavFilter initializes the filter at relative state (r0, v0)
// with diagonal position/velocity variances (posVar in km^2, velVar in
// (km/s)^2) and a scalar range measurement variance rangeVar (km^2).
func NewRelativeNavFilter(r0, v0 Vec3, posVar, velVar, rangeVar, n float64) (*RelativeNavFilter, error) {
	x0 := mat64.NewVector(6, []float64{r0.X, r0.Y, r0.Z, v0.X, v0.Y, v0.Z})
	p0 := mat64.NewSymDense(6, nil)
	for i := 0; i < 3; i++ {
		p0.SetSym(i, i, posVar)
		p0.SetSym(i+3, i+3, velVar)
	}
	noiseQ := mat64.NewSymDense(3, nil)
	noiseR := mat64.NewSymDense(1, []float64{rangeVar})
	noise := gokalman.NewNoiseless(noiseQ, noiseR)
	kf, _, err := gokalman.NewHybridKF(x0, p0, noise, 1)
	if err != nil {
		return nil, err
	}
	return &RelativeNavFilter{kf: kf, n: n}, nil
}

// Step advances the filter by dt seconds along the CW STM from the prior
// relative state (priorR, priorV), fuses a single noisy range observation
// measuredRange, and returns the filtered relative position/velocity.
func (f *RelativeNavFilter) Step(dt float64, priorR, priorV Vec3, measuredRange float64) (r, v Vec3, err error) {
	blocks := NewCWBlocks(f.n, dt)
	phi := cwSTM(blocks)
	predR, _ := blocks.Propagate(priorR, priorV)

	htilde := rangeHtilde(predR)
	f.kf.Prepare(phi, htilde)

	measVec := mat64.NewVector(1, []float64{measuredRange})
	obsVec := mat64.NewVector(1, []float64{predR.Norm()})
	estI, uerr := f.kf.Update(measVec, obsVec)
	if uerr != nil {
		return Vec3{}, Vec3{}, uerr
	}
	est := estI.(*gokalman.HybridKFEstimate)
	state := est.State()
	return Vec3{X: state.At(0, 0), Y: state.At(1, 0), Z: state.At(2, 0)},
		Vec3{X: state.At(3, 0), Y: state.At(4, 0), Z: state.At(5, 0)},
		nil
}

// cwSTM assembles the four CWBlocks 3x3 blocks into the full 6x6
// relative-motion state transition matrix gokalman's Prepare expects.
func cwSTM(b CWBlocks) *mat64.Dense {
	phi := mat64.NewDense(6, 6, nil)
	blockInto(phi, 0, 0, b.Phirr)
	blockInto(phi, 0, 3, b.Phirv)
	blockInto(phi, 3, 0, b.Phivr)
	blockInto(phi, 3, 3, b.Phivv)
	return phi
}

func blockInto(dst *mat64.Dense, rowOff, colOff int, block *mat64.Dense) {
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			dst.Set(rowOff+i, colOff+j, block.At(i, j))
		}
	}
}

// rangeHtilde is the 1x6 sensitivity of range (ρ = |r|) to the relative
// state: ∂ρ/∂r = r̂, ∂ρ/∂v = 0.
func rangeHtilde(r Vec3) *mat64.Dense {
	unit := r.Unit()
	return mat64.NewDense(1, 6, []float64{unit.X, unit.Y, unit.Z, 0, 0, 0})
}
