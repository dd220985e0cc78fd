package boxcount_test

import (
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/boxdim/internal/boxcount"
	"github.com/san-kum/boxdim/internal/dynamo"
	"github.com/san-kum/boxdim/internal/integrators"
	"github.com/san-kum/boxdim/internal/physics"
)

var _ = Describe("Grid", func() {
	Describe("Build", func() {
		It("tiles an evenly divisible region with (2L/s)^3 cubes", func() {
			g, err := boxcount.Build(boxcount.Cuboid(50), 10)
			Expect(err).NotTo(HaveOccurred())
			Expect(g.Len()).To(Equal(1000))
			Expect(g.Dims()).To(Equal([3]int{10, 10, 10}))
		})

		It("reproduces the source's 15x15x15 grid over [-75, 75)", func() {
			g, err := boxcount.Build(boxcount.Cuboid(75), 10)
			Expect(err).NotTo(HaveOccurred())
			Expect(g.Len()).To(Equal(3375))
		})

		It("enumerates cubes lexicographically with x outermost", func() {
			g, err := boxcount.Build(boxcount.Cuboid(2), 2)
			Expect(err).NotTo(HaveOccurred())
			cubes := g.Cubes()
			Expect(cubes[0].Min()).To(Equal(dynamo.State{-2, -2, -2}))
			Expect(cubes[1].Min()).To(Equal(dynamo.State{-2, -2, 0}))
			Expect(cubes[2].Min()).To(Equal(dynamo.State{-2, 0, -2}))
			Expect(cubes[4].Min()).To(Equal(dynamo.State{0, -2, -2}))
			Expect(g.Index(1, 0, 0)).To(Equal(4))
		})

		It("lets the last layer overhang when the side does not divide the span", func() {
			g, err := boxcount.Build(boxcount.Cuboid(5), 3)
			Expect(err).NotTo(HaveOccurred())
			Expect(g.Dims()).To(Equal([3]int{4, 4, 4}))

			last := g.Cube(g.Len() - 1)
			Expect(last.Min()).To(Equal(dynamo.State{4, 4, 4}))
			Expect(last.Max()).To(Equal(dynamo.State{7, 7, 7}))

			for i := 0; i < 3; i++ {
				a := g.Cube(g.Index(i, 0, 0))
				b := g.Cube(g.Index(i+1, 0, 0))
				Expect(a.Max()[0]).To(Equal(b.Min()[0]), "tiles %d and %d must share a face", i, i+1)
			}
		})

		It("reaches the upper bound when the span is just above a multiple of the side", func() {
			region := boxcount.Region{Lo: dynamo.State{0, 0, 0}, Hi: dynamo.State{10.000000001, 1, 1}}
			g, err := boxcount.Build(region, 1)
			Expect(err).NotTo(HaveOccurred())
			Expect(g.Dims()).To(Equal([3]int{11, 1, 1}))

			p := dynamo.State{10.0000000005, 0.5, 0.5}
			idx, ok := g.Locate(p)
			Expect(ok).To(BeTrue())
			Expect(idx).To(Equal(10))
			Expect(g.CountOccupied([]dynamo.State{p}).Count).To(Equal(1))
			Expect(g.CountOccupied([]dynamo.State{region.Hi}).Count).To(Equal(1))
		})

		DescribeTable("rejects invalid arguments",
			func(region boxcount.Region, side float64) {
				_, err := boxcount.Build(region, side)
				Expect(err).To(MatchError(dynamo.ErrInvalidArgument))
			},
			Entry("zero side", boxcount.Cuboid(1), 0.0),
			Entry("negative side", boxcount.Cuboid(1), -2.0),
			Entry("NaN side", boxcount.Cuboid(1), math.NaN()),
			Entry("empty region", boxcount.Cuboid(0), 1.0),
			Entry("inverted axis", boxcount.Region{Lo: dynamo.State{0, 0, 1}, Hi: dynamo.State{1, 1, 0}}, 1.0),
			Entry("infinite bound", boxcount.Region{Lo: dynamo.State{0, 0, 0}, Hi: dynamo.State{1, 1, math.Inf(1)}}, 1.0),
			Entry("too many cubes", boxcount.Cuboid(1000), 0.01),
			Entry("above the memory cap", boxcount.Cuboid(130), 1.0),
		)
	})

	Describe("tiling", func() {
		It("places every lattice point in exactly one cube", func() {
			g, err := boxcount.Build(boxcount.Cuboid(6), 2)
			Expect(err).NotTo(HaveOccurred())
			Expect(g.Len()).To(Equal(216))

			cubes := g.Cubes()
			for x := -6.0; x <= 6; x += 0.5 {
				for y := -6.0; y <= 6; y += 1.5 {
					for z := -6.0; z <= 6; z += 2 {
						p := dynamo.State{x, y, z}
						owners := 0
						owner := -1
						for i, c := range cubes {
							if c.Contains(p) {
								owners++
								owner = i
							}
						}
						Expect(owners).To(Equal(1), "point %v", p)

						idx, ok := g.Locate(p)
						Expect(ok).To(BeTrue())
						Expect(idx).To(Equal(owner))
					}
				}
			}
		})

		It("locates nothing outside the grid", func() {
			g, err := boxcount.Build(boxcount.Cuboid(6), 2)
			Expect(err).NotTo(HaveOccurred())
			for _, p := range []dynamo.State{
				{-6.001, 0, 0},
				{0, 6.001, 0},
				{0, 0, math.NaN()},
				{math.Inf(1), 0, 0},
			} {
				_, ok := g.Locate(p)
				Expect(ok).To(BeFalse(), "point %v", p)
			}
		})
	})

	Describe("CountOccupied", func() {
		It("returns zero for an empty trajectory", func() {
			g, err := boxcount.Build(boxcount.Cuboid(50), 10)
			Expect(err).NotTo(HaveOccurred())
			occ := g.CountOccupied(nil)
			Expect(occ.Count).To(Equal(0))
			Expect(occ.Total).To(Equal(1000))
			Expect(occ.Occupied).To(BeEmpty())
		})

		DescribeTable("a trajectory resting at the origin occupies exactly one cube",
			func(side float64) {
				traj, err := integrators.RK4(physics.Lorenz, dynamo.State{}, 0, 1e-12, 1, physics.LorenzClassic())
				Expect(err).NotTo(HaveOccurred())

				g, err := boxcount.Build(boxcount.Cuboid(5), side)
				Expect(err).NotTo(HaveOccurred())
				occ := g.CountOccupied(traj.States)
				Expect(occ.Count).To(Equal(1))
				Expect(occ.Occupied[0].Contains(dynamo.State{})).To(BeTrue())
			},
			Entry("side 10", 10.0),
			Entry("side 5 (origin on a vertex)", 5.0),
			Entry("side 2.5", 2.5),
			Entry("side 3", 3.0),
			Entry("side 0.7", 0.7),
			Entry("side 0.25", 0.25),
		)

		It("counts the classic Lorenz run over [-50, 50)^3 at side 10", func() {
			traj, err := integrators.RK4(physics.Lorenz, dynamo.State{0, 1, 1.05}, 0, 1.0, 1000, physics.LorenzClassic())
			Expect(err).NotTo(HaveOccurred())

			g, err := boxcount.Build(boxcount.Cuboid(50), 10)
			Expect(err).NotTo(HaveOccurred())
			occ := g.CountOccupied(traj.States)
			Expect(occ.Count).To(BeNumerically(">", 0))
			Expect(occ.Count).To(BeNumerically("<=", occ.Total))
			Expect(occ.Fraction()).To(BeNumerically("<=", 1))

			again := g.CountOccupied(traj.States)
			Expect(again).To(Equal(occ))
		})

		It("gives the same answer for any worker count", func() {
			traj, err := integrators.RK4(physics.Lorenz, dynamo.State{1, 1, 1}, 0, 20, 8000, physics.LorenzClassic())
			Expect(err).NotTo(HaveOccurred())

			serial, err := boxcount.Build(boxcount.Cuboid(50), 5, boxcount.WithWorkers(1))
			Expect(err).NotTo(HaveOccurred())
			parallel, err := boxcount.Build(boxcount.Cuboid(50), 5, boxcount.WithWorkers(8))
			Expect(err).NotTo(HaveOccurred())

			want := serial.CountOccupied(traj.States)
			Expect(want.Count).To(BeNumerically(">", 1))
			Expect(parallel.CountOccupied(traj.States)).To(Equal(want))
		})

		It("agrees with Locate for points off the tile boundaries", func() {
			traj, err := integrators.RK4(physics.Lorenz, dynamo.State{1, 1, 1}, 0, 10, 4000, physics.LorenzClassic())
			Expect(err).NotTo(HaveOccurred())
			g, err := boxcount.Build(boxcount.Cuboid(60), 7)
			Expect(err).NotTo(HaveOccurred())

			seen := map[int]bool{}
			for _, s := range traj.States {
				idx, ok := g.Locate(s)
				Expect(ok).To(BeTrue())
				seen[idx] = true
			}
			Expect(g.CountOccupied(traj.States).Count).To(Equal(len(seen)))
		})
	})
})
