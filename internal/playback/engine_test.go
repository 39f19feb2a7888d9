package playback

import (
	"math"
	"slices"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/sortviz/internal/sorter"
	"github.com/san-kum/sortviz/internal/step"
)

func logOf(n int, steps ...step.Step) *step.Log {
	l := step.NewLog(n)
	for _, s := range steps {
		l.Append(s)
	}
	return l
}

func runToEnd(e *Engine, dt float64) int {
	frames := 0
	for e.Phase() != Finished && frames < 1_000_000 {
		e.Tick(dt)
		frames++
	}
	return frames
}

type recordingObserver struct {
	seen []step.Step
}

func (r *recordingObserver) OnStep(s step.Step, _ *Engine) { r.seen = append(r.seen, s) }

var _ = Describe("Engine", func() {
	var e *Engine

	BeforeEach(func() {
		e = NewEngine()
	})

	It("starts idle and ignores ticks", func() {
		e.Tick(1)
		Expect(e.Phase()).To(Equal(Idle))
		Expect(e.Count()).To(BeZero())
	})

	It("rejects mismatched arrays", func() {
		Expect(e.Arm([]int{1, 2}, []int{1}, logOf(2))).NotTo(Succeed())
		Expect(e.Arm([]int{1, 2}, []int{1, 2}, logOf(3))).NotTo(Succeed())
		Expect(e.Arm([]int{1, 2}, []int{1, 2}, nil)).NotTo(Succeed())
	})

	Context("playing the demo array with insertion sort", func() {
		var initial, sorted []int
		var log *step.Log

		BeforeEach(func() {
			initial = []int{8, 7, 9, 2, 3, 1, 10, 5, 4, 6}
			sorted = slices.Clone(initial)
			log = step.NewLog(len(sorted))
			sorter.NewInsertion().Sort(sorted, log)
			Expect(e.Arm(initial, sorted, log)).To(Succeed())
		})

		It("places slots at their home positions", func() {
			for i := range initial {
				v, ok := e.VisualOf(i)
				Expect(ok).To(BeTrue())
				Expect(v.X).To(Equal(float64(i)))
				Expect(v.Value).To(Equal(initial[i]))
			}
			_, ok := e.VisualOf(len(initial))
			Expect(ok).To(BeFalse())
		})

		It("ends sorted after the completion sweep", func() {
			seenSweep := false
			for frames := 0; e.Phase() != Finished && frames < 100_000; frames++ {
				e.Tick(1.0 / 60)
				if e.Phase() == CompletionSweeping {
					seenSweep = true
				}
			}
			Expect(e.Phase()).To(Equal(Finished))
			Expect(e.Err()).NotTo(HaveOccurred())
			Expect(seenSweep).To(BeTrue())
			Expect(e.Values()).To(Equal([]int{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}))
			Expect(e.Cursor()).To(Equal(log.Len()))
			Expect(e.Progress()).To(Equal(1.0))

			for _, v := range e.Visuals() {
				Expect(v.Role).To(Equal(RoleSorted))
				Expect(v.X).To(Equal(math.Round(v.X)))
			}
		})

		It("notifies observers once per consumed step", func() {
			obs := &recordingObserver{}
			e.AddObserver(obs)
			runToEnd(e, 1.0/60)
			Expect(obs.seen).To(Equal(log.Steps()))
		})

		It("finishes faster at a higher speed", func() {
			slow := runToEnd(e, 1.0/60)

			Expect(e.Arm(initial, sorted, log)).To(Succeed())
			e.SetSpeed(4)
			fast := runToEnd(e, 1.0/60)

			Expect(fast).To(BeNumerically("<", slow))
		})
	})

	Context("with a single swap", func() {
		BeforeEach(func() {
			Expect(e.Arm([]int{1, 2}, []int{2, 1}, logOf(2, step.Swap(0, 1)))).To(Succeed())
			e.Tick(e.Timing().StepInterval)
			Expect(e.Phase()).To(Equal(SwapAnimating))
		})

		It("keeps swap progress across a speed change", func() {
			e.Tick(0.08)
			p, ok := e.SwapProgress()
			Expect(ok).To(BeTrue())
			Expect(p).To(BeNumerically("~", 0.4, 1e-9))

			e.SetSpeed(2)
			p, _ = e.SwapProgress()
			Expect(p).To(BeNumerically("~", 0.4, 1e-9))

			e.Tick(0.03)
			p, _ = e.SwapProgress()
			Expect(p).To(BeNumerically("~", 0.7, 1e-9))
		})

		It("conserves time over pause and resume cycles", func() {
			for i := 0; i < 10; i++ {
				e.Tick(0.01)
				e.TogglePause()
				Expect(e.Paused()).To(BeTrue())
				e.Tick(5)
				e.TogglePause()
			}
			p, _ := e.SwapProgress()
			Expect(p).To(BeNumerically("~", 0.5, 1e-9))
		})

		It("interpolates positions symmetrically with easing", func() {
			e.Tick(0.05)
			a, _ := e.VisualOf(0)
			b, _ := e.VisualOf(1)
			k := EaseInOutCubic(0.25)
			Expect(a.X).To(BeNumerically("~", k, 1e-9))
			Expect(b.X).To(BeNumerically("~", 1-k, 1e-9))
			Expect(a.Swapping).To(BeTrue())
			Expect(a.Outline).To(Equal(e.Palette().Swapping))
		})

		It("swaps slot identities when the animation completes", func() {
			e.Tick(0.25)
			Expect(e.Phase()).To(Equal(Draining))
			Expect(e.Values()).To(Equal([]int{2, 1}))
			a, _ := e.VisualOf(0)
			Expect(a.X).To(Equal(0.0))
			Expect(a.Swapping).To(BeFalse())
		})
	})

	It("colors compared slots and lets the highlights decay", func() {
		e = NewEngine(WithTiming(Timing{StepInterval: 1, SwapDuration: 0.2, HighlightDuration: 0.25, SweepInterval: 0.02}))
		Expect(e.Arm([]int{3, 1, 2}, []int{1, 2, 3}, logOf(3, step.Compare(0, 1), step.Highlight(2)))).To(Succeed())

		e.Tick(1)
		a, _ := e.VisualOf(0)
		b, _ := e.VisualOf(1)
		Expect(a.Role).To(Equal(RoleCompareA))
		Expect(b.Role).To(Equal(RoleCompareB))
		Expect(a.OutlineThickness).To(Equal(2.0))
		Expect(e.Highlights()).To(Equal(2))

		e.Tick(0.3)
		a, _ = e.VisualOf(0)
		Expect(a.Role).To(Equal(RoleDefault))
		Expect(e.Highlights()).To(BeZero())
	})

	It("skips the sentinel side of a compare", func() {
		Expect(e.Arm([]int{3, 1}, []int{1, 3}, logOf(2, step.Compare(step.None, 1)))).To(Succeed())
		e.Tick(e.Timing().StepInterval)
		Expect(e.Err()).NotTo(HaveOccurred())
		a, _ := e.VisualOf(0)
		b, _ := e.VisualOf(1)
		Expect(a.Role).To(Equal(RoleDefault))
		Expect(b.Role).To(Equal(RoleCompareB))
		Expect(e.Highlights()).To(Equal(1))
	})

	It("applies overwrites immediately", func() {
		Expect(e.Arm([]int{5, 5}, []int{5, 9}, logOf(2, step.Overwrite(1, 9)))).To(Succeed())
		e.Tick(e.Timing().StepInterval)
		Expect(e.Values()).To(Equal([]int{5, 9}))
	})

	It("finishes an empty run without a sweep", func() {
		Expect(e.Arm(nil, nil, logOf(0))).To(Succeed())
		e.Tick(0.01)
		Expect(e.Phase()).To(Equal(Finished))
		Expect(e.Count()).To(BeZero())
		Expect(e.Progress()).To(Equal(1.0))
	})

	It("snaps an uninstrumented run to the sorted result", func() {
		input := []int{8, 7, 9, 2, 3, 1, 10, 5, 4, 6}
		sorted := slices.Clone(input)
		log := step.NewLog(len(sorted))
		sorter.NewHeap(false).Sort(sorted, log)

		Expect(e.Arm(input, sorted, log)).To(Succeed())
		e.Tick(0.01)

		Expect(e.Phase()).To(Equal(Finished))
		Expect(e.Values()).To(Equal(sorted))
		for _, v := range e.Visuals() {
			Expect(v.Role).To(Equal(RoleSorted))
		}
	})

	It("halts on an out-of-range step without touching slots", func() {
		Expect(e.Arm([]int{1, 2, 3}, []int{1, 2, 3}, logOf(3, step.Swap(0, 5), step.Highlight(0)))).To(Succeed())
		e.Tick(e.Timing().StepInterval)

		Expect(e.Phase()).To(Equal(Finished))
		Expect(e.Err()).To(MatchError(step.ErrIndexOutOfBounds))
		Expect(e.Values()).To(Equal([]int{1, 2, 3}))
		Expect(e.Cursor()).To(BeZero())

		e.Tick(1)
		Expect(e.Cursor()).To(BeZero())
	})

	Context("rescaling timers other than the swap", func() {
		It("keeps step timer progress across a speed change", func() {
			Expect(e.Arm([]int{1, 2, 3}, []int{1, 2, 3}, logOf(3, step.Highlight(0), step.Highlight(1)))).To(Succeed())
			e.Tick(0.02)
			Expect(e.stepTimer.Progress()).To(BeNumerically("~", 0.4, 1e-9))

			e.SetSpeed(2)
			Expect(e.stepTimer.Progress()).To(BeNumerically("~", 0.4, 1e-9))
			Expect(e.stepTimer.Duration()).To(BeNumerically("~", 0.025, 1e-12))

			e.Tick(0.014)
			Expect(e.Cursor()).To(BeZero())
			e.Tick(0.002)
			Expect(e.Cursor()).To(Equal(1))
		})

		It("expires highlights at the rescaled time", func() {
			e = NewEngine(WithTiming(Timing{StepInterval: 1, SwapDuration: 0.2, HighlightDuration: 0.25, SweepInterval: 0.02}))
			Expect(e.Arm([]int{3, 1, 2}, []int{1, 2, 3}, logOf(3, step.Compare(0, 1), step.Highlight(2)))).To(Succeed())
			e.Tick(1)
			e.Tick(0.1)
			Expect(e.Highlights()).To(Equal(2))

			e.SetSpeed(2)
			e.Tick(0.07)
			Expect(e.Highlights()).To(Equal(2))
			e.Tick(0.01)
			Expect(e.Highlights()).To(BeZero())
			a, _ := e.VisualOf(0)
			Expect(a.Role).To(Equal(RoleDefault))
		})

		Context("during the completion sweep", func() {
			BeforeEach(func() {
				Expect(e.Arm([]int{1, 2, 3, 4}, []int{1, 2, 3, 4}, logOf(4, step.Highlight(0)))).To(Succeed())
				e.Tick(e.Timing().StepInterval)
				e.Tick(0)
				Expect(e.Phase()).To(Equal(CompletionSweeping))
				e.Tick(0.01)
				Expect(e.sweep.timer.Progress()).To(BeNumerically("~", 0.5, 1e-9))
			})

			It("keeps sweep progress across a speed change", func() {
				e.SetSpeed(0.5)
				Expect(e.sweep.timer.Progress()).To(BeNumerically("~", 0.5, 1e-9))

				e.Tick(0.019)
				Expect(e.sweep.index).To(BeZero())
				e.Tick(0.002)
				Expect(e.sweep.index).To(Equal(1))
				a, _ := e.VisualOf(0)
				Expect(a.Role).To(Equal(RoleSorted))
			})

			It("does not drift over pause and resume", func() {
				for i := 0; i < 5; i++ {
					e.TogglePause()
					e.Tick(3)
					e.TogglePause()
				}
				Expect(e.Phase()).To(Equal(CompletionSweeping))
				Expect(e.sweep.index).To(BeZero())
				Expect(e.sweep.timer.Progress()).To(BeNumerically("~", 0.5, 1e-9))

				e.Tick(0.011)
				Expect(e.sweep.index).To(Equal(1))
			})
		})
	})

	It("moves compare highlights with the slots of a completed swap", func() {
		e = NewEngine(WithTiming(Timing{StepInterval: 0.5, SwapDuration: 0.2, HighlightDuration: 1, SweepInterval: 0.02}))
		Expect(e.Arm([]int{1, 2, 3}, []int{2, 1, 3}, logOf(3, step.Compare(1, 2), step.Swap(0, 1), step.Highlight(2)))).To(Succeed())

		e.Tick(0.5)
		e.Tick(0.5)
		Expect(e.Phase()).To(Equal(SwapAnimating))
		e.Tick(0.2)
		Expect(e.Phase()).To(Equal(Draining))

		a, _ := e.VisualOf(0)
		b, _ := e.VisualOf(1)
		Expect(a.Role).To(Equal(RoleCompareA))
		Expect(b.Role).To(Equal(RoleDefault))

		e.Tick(0.35)
		Expect(e.Cursor()).To(Equal(2))
		Expect(e.Highlights()).To(BeZero())
		for _, v := range e.Visuals() {
			Expect(v.Role).To(Equal(RoleDefault))
		}
	})

	It("returns to idle on abort", func() {
		Expect(e.Arm([]int{2, 1}, []int{1, 2}, logOf(2, step.Swap(0, 1)))).To(Succeed())
		e.Tick(e.Timing().StepInterval)
		e.TogglePause()

		e.Abort()
		Expect(e.Phase()).To(Equal(Idle))
		Expect(e.Count()).To(BeZero())
		Expect(e.Paused()).To(BeFalse())
		_, ok := e.SwapProgress()
		Expect(ok).To(BeFalse())
	})

	It("keeps the speed across runs", func() {
		e.SetSpeed(8)
		Expect(e.Arm([]int{1}, []int{1}, logOf(1))).To(Succeed())
		Expect(e.Speed()).To(Equal(8.0))
	})

	DescribeTable("clamping speed",
		func(in, want float64) {
			e.SetSpeed(in)
			Expect(e.Speed()).To(Equal(want))
		},
		Entry("in range", 2.5, 2.5),
		Entry("below minimum", 0.01, MinSpeed),
		Entry("zero", 0.0, MinSpeed),
		Entry("negative", -3.0, MinSpeed),
		Entry("NaN", math.NaN(), MinSpeed),
		Entry("above maximum", 100.0, MaxSpeed),
		Entry("infinity", math.Inf(1), MaxSpeed),
	)
})
