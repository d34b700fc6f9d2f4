package quantum

import (
	"math"
	"testing"

	"golang.org/x/exp/rand"

	. "github.com/smartystreets/goconvey/convey"
)

func TestMeasureInBasis(t *testing.T) {
	Convey("Given a fresh qubit", t, func() {
		r := NewRegister(1, WithSeed(5))

		Convey("When measured in Z", func() {
			value, err := r.MeasureInBasis(0, BasisZ)

			Convey("Then |0⟩ reads +1", func() {
				So(err, ShouldBeNil)
				So(value, ShouldEqual, 1)
			})
		})

		for _, basis := range Bases {
			Convey("When measured twice in "+basis.String(), func() {
				first, err := r.MeasureInBasis(0, basis)
				So(err, ShouldBeNil)
				second, err := r.MeasureInBasis(0, basis)
				So(err, ShouldBeNil)

				Convey("Then the second reading repeats the first", func() {
					So(first, ShouldBeIn, -1, 1)
					So(second, ShouldEqual, first)
				})
			})
		}
	})

	Convey("Given the Y eigenstate |+i⟩", t, func() {
		r := NewRegister(1, WithSeed(6))
		So(r.ApplySingleGate(H, 0), ShouldBeNil)
		r.groups[0].apply(0, sGate)

		Convey("When measured in Y", func() {
			value, err := r.MeasureInBasis(0, BasisY)

			Convey("Then it reads +1 and stays on the +Y axis", func() {
				So(err, ShouldBeNil)
				So(value, ShouldEqual, 1)
				_, y, _, _ := r.BlochVector(0)
				So(y, ShouldAlmostEqual, 1, 1e-9)
			})
		})
	})
}

func TestBornRule(t *testing.T) {
	Convey("Given many fresh qubits rotated by X", t, func() {
		const shots = 4000
		rng := rand.New(rand.NewSource(42))
		plus := 0
		for i := 0; i < shots; i++ {
			r := NewRegister(1, WithRand(rng))
			So(r.ApplySingleGate(X, 0), ShouldBeNil)
			value, err := r.MeasureInBasis(0, BasisZ)
			So(err, ShouldBeNil)
			if value == 1 {
				plus++
			}
		}

		Convey("Then the +1 frequency approaches cos²(π/16)", func() {
			expected := math.Pow(math.Cos(math.Pi/16), 2)
			So(float64(plus)/shots, ShouldAlmostEqual, expected, 0.02)
		})

		Convey("Then the predicted probability matches exactly", func() {
			r := NewRegister(1)
			So(r.ApplySingleGate(X, 0), ShouldBeNil)
			p, err := r.ProbabilityPlus(0)
			So(err, ShouldBeNil)
			So(p, ShouldAlmostEqual, math.Pow(math.Cos(math.Pi/16), 2), 1e-12)
		})
	})
}
