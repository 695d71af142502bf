package award_test

import (
	"testing"

	"github.com/okian/podium/internal/domain/award"
	. "github.com/smartystreets/goconvey/convey"
)

func TestRandomSource_Draw(t *testing.T) {
	Convey("Given a random source with default bounds", t, func() {
		src := award.NewRandomSource(award.WithSeed(42))

		Convey("When drawing many times", func() {
			Convey("Then every draw should be within [1,100]", func() {
				for i := 0; i < 10_000; i++ {
					v := src.Draw()
					So(v, ShouldBeGreaterThanOrEqualTo, 1)
					So(v, ShouldBeLessThanOrEqualTo, 100)
				}
			})
		})
	})

	Convey("Given a random source with custom bounds", t, func() {
		src := award.NewRandomSource(award.WithSeed(7), award.WithBounds(5, 5))

		Convey("When the bounds collapse to a single value", func() {
			Convey("Then every draw should return that value", func() {
				for i := 0; i < 100; i++ {
					So(src.Draw(), ShouldEqual, 5)
				}
			})
		})
	})

	Convey("Given invalid bounds", t, func() {
		src := award.NewRandomSource(award.WithSeed(7), award.WithBounds(10, 2))

		Convey("Then the defaults should be kept", func() {
			for i := 0; i < 1000; i++ {
				v := src.Draw()
				So(v, ShouldBeGreaterThanOrEqualTo, 1)
				So(v, ShouldBeLessThanOrEqualTo, 100)
			}
		})
	})
}

func TestFixed_Draw(t *testing.T) {
	Convey("Given a fixed source with a sequence", t, func() {
		src := award.NewFixed(10, 20, 30)

		Convey("When drawing more times than the sequence length", func() {
			got := []int{src.Draw(), src.Draw(), src.Draw(), src.Draw()}

			Convey("Then values should cycle in order", func() {
				So(got, ShouldResemble, []int{10, 20, 30, 10})
			})
		})
	})

	Convey("Given an empty sequence", t, func() {
		Convey("Then construction should panic", func() {
			So(func() { award.NewFixed() }, ShouldPanic)
		})
	})
}
