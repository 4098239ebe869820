package scenario_test

import (
	"context"
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"flightdyn/internal/scenario"
	"flightdyn/internal/telemetry"
)

var _ = Describe("built-in scenarios", func() {
	run := func(s scenario.Scenario) *scenario.Result {
		GinkgoHelper()
		res, err := scenario.Run(context.Background(), s, telemetry.DefaultMetrics())
		Expect(err).NotTo(HaveOccurred())
		return res
	}

	Describe("climb", func() {
		It("gains more than 5 m of altitude during the pitch hold", func() {
			res := run(scenario.Climb())

			holdStart := res.StateAt(7).PositionEnuM.Z
			Expect(res.Final().PositionEnuM.Z - holdStart).To(BeNumerically(">", 5))
		})

		It("settles near the commanded pitch", func() {
			res := run(scenario.Climb())

			Expect(res.Final().PitchRad).To(BeNumerically("~", 20*math.Pi/180, 0.05))
		})
	})

	Describe("stall", func() {
		It("climbs under power, then sinks more than 5 m after the throttle cut", func() {
			res := run(scenario.Stall())

			start := res.StateAt(0).PositionEnuM.Z
			atCut := res.StateAt(3).PositionEnuM.Z
			final := res.Final().PositionEnuM.Z

			Expect(atCut).To(BeNumerically(">", start))
			Expect(atCut - final).To(BeNumerically(">", 5))
		})

		It("bleeds airspeed after the throttle cut", func() {
			res := run(scenario.Stall())

			atCut := res.StateAt(3).VelocityEnuMps.Norm()
			final := res.Final().VelocityEnuMps.Norm()
			Expect(final).To(BeNumerically("<", atCut))
		})
	})

	Describe("coordinated turn", func() {
		It("changes heading by more than 1 degree", func() {
			res := run(scenario.CoordinatedTurn())

			Expect(math.Abs(res.Metrics["heading_change_deg"])).To(BeNumerically(">", 1))
		})

		It("holds altitude within 150 m", func() {
			res := run(scenario.CoordinatedTurn())

			Expect(math.Abs(res.Metrics["altitude_gain_m"])).To(BeNumerically("<", 150))
		})
	})

	Describe("numeric hygiene", func() {
		It("keeps the attitude quaternion unit length across every run", func() {
			for _, name := range scenario.Names() {
				s, err := scenario.Get(name)
				Expect(err).NotTo(HaveOccurred())

				res := run(s)
				Expect(res.Metrics["quat_norm_drift"]).To(BeNumerically("<", 1e-6))
			}
		})

		It("never exceeds the speed cap", func() {
			for _, name := range scenario.Names() {
				s, err := scenario.Get(name)
				Expect(err).NotTo(HaveOccurred())

				res := run(s)
				Expect(res.Metrics["peak_speed_mps"]).To(BeNumerically("<=", 250))
			}
		})
	})

	Describe("registry", func() {
		It("lists the built-ins in sorted order", func() {
			Expect(scenario.Names()).To(Equal([]string{"climb", "stall", "turn"}))
		})

		It("rejects unknown names", func() {
			_, err := scenario.Get("loop")
			Expect(err).To(HaveOccurred())
		})
	})
})
