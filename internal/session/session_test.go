package session

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/sortviz/internal/playback"
	"github.com/san-kum/sortviz/internal/sorter"
	"github.com/san-kum/sortviz/internal/step"
)

var demo = []int{8, 7, 9, 2, 3, 1, 10, 5, 4, 6}

func playOut(s *Session) {
	for frames := 0; s.Engine().Phase() != playback.Finished && frames < 100_000; frames++ {
		s.Tick(1.0 / 60)
	}
}

var _ = Describe("Session", func() {
	var s *Session

	BeforeEach(func() {
		s = New(DefaultConfig())
	})

	It("plays the demo array to the sorted result", func() {
		run, err := s.StartRun(sorter.Insertion, demo)
		Expect(err).NotTo(HaveOccurred())
		Expect(run.Animated).To(BeTrue())
		Expect(run.Counts.Swaps).To(Equal(25))
		Expect(run.Sorted).To(Equal([]int{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}))

		replayed, err := step.Replay(run.Initial, s.Log())
		Expect(err).NotTo(HaveOccurred())
		Expect(replayed).To(Equal(run.Sorted))

		playOut(s)
		Expect(s.Engine().Values()).To(Equal(run.Sorted))
		Expect(s.Engine().Err()).NotTo(HaveOccurred())
	})

	It("does not modify the caller's slice", func() {
		input := []int{3, 1, 2}
		_, err := s.StartRun(sorter.Quick, input)
		Expect(err).NotTo(HaveOccurred())
		Expect(input).To(Equal([]int{3, 1, 2}))
	})

	It("accepts exactly MaxLength values", func() {
		input := make([]int, MaxLength)
		for i := range input {
			input[i] = MaxLength - i
		}
		_, err := s.StartRun(sorter.Merge, input)
		Expect(err).NotTo(HaveOccurred())
		Expect(s.Count()).To(Equal(MaxLength))
	})

	It("rejects inputs over MaxLength", func() {
		_, err := s.StartRun(sorter.Insertion, make([]int, MaxLength+1))
		Expect(err).To(MatchError(ErrInputTooLarge))
		Expect(s.Current()).To(BeNil())
	})

	It("rejects negative values", func() {
		_, err := s.StartRun(sorter.Insertion, []int{1, -2, 3})
		Expect(err).To(MatchError(ErrNegativeValue))
	})

	It("reports unknown algorithms", func() {
		_, err := s.StartRun(sorter.Algorithm(42), []int{1})
		Expect(err).To(MatchError(sorter.ErrUnknownAlgorithm))
	})

	It("finishes an empty input on the first tick", func() {
		run, err := s.StartRun(sorter.Selection, nil)
		Expect(err).NotTo(HaveOccurred())
		Expect(run.Counts.Total()).To(BeZero())

		s.Tick(0.016)
		Expect(s.Engine().Phase()).To(Equal(playback.Finished))
		Expect(s.Count()).To(BeZero())
	})

	It("shows uninstrumented heap runs at once", func() {
		run, err := s.StartRun(sorter.Heap, demo)
		Expect(err).NotTo(HaveOccurred())
		Expect(run.Animated).To(BeFalse())
		Expect(s.Log().Len()).To(BeZero())

		s.Tick(0.016)
		Expect(s.Engine().Phase()).To(Equal(playback.Finished))
		Expect(s.Engine().Values()).To(Equal(run.Sorted))
	})

	It("animates heap sort when instrumented", func() {
		cfg := DefaultConfig()
		cfg.Sorter.InstrumentHeap = true
		s = New(cfg)

		run, err := s.StartRun(sorter.Heap, demo)
		Expect(err).NotTo(HaveOccurred())
		Expect(run.Animated).To(BeTrue())
		Expect(s.Log().Len()).To(BeNumerically(">", 0))

		playOut(s)
		Expect(s.Engine().Values()).To(Equal(run.Sorted))
	})

	It("aborts a run in progress when a new one starts", func() {
		_, err := s.StartRun(sorter.Insertion, demo)
		Expect(err).NotTo(HaveOccurred())
		for i := 0; i < 30; i++ {
			s.Tick(0.05)
		}
		Expect(s.Engine().Cursor()).To(BeNumerically(">", 0))

		run, err := s.StartRun(sorter.Selection, []int{2, 1})
		Expect(err).NotTo(HaveOccurred())
		Expect(s.Engine().Cursor()).To(BeZero())
		Expect(s.Engine().Phase()).To(Equal(playback.Draining))
		Expect(s.Count()).To(Equal(2))
		Expect(s.Current()).To(Equal(run))
	})

	It("restarts the current run from its initial array", func() {
		_, err := s.StartRun(sorter.Merge, demo)
		Expect(err).NotTo(HaveOccurred())
		playOut(s)

		run, err := s.Restart()
		Expect(err).NotTo(HaveOccurred())
		Expect(run.Algorithm).To(Equal(sorter.Merge))
		Expect(s.Engine().Values()).To(Equal(demo))
	})

	It("returns to idle on abort", func() {
		_, err := s.StartRun(sorter.Quick, demo)
		Expect(err).NotTo(HaveOccurred())
		s.Tick(0.1)
		Expect(s.Log().Len()).To(BeNumerically(">", 0))
		s.Abort()
		Expect(s.Engine().Phase()).To(Equal(playback.Idle))
		Expect(s.Log().Len()).To(BeZero())
		Expect(s.Current()).NotTo(BeNil())

		run, err := s.Restart()
		Expect(err).NotTo(HaveOccurred())
		Expect(run.Initial).To(Equal(demo))
		Expect(s.Log().Len()).To(Equal(run.Counts.Total()))
	})

	It("passes speed and pause through to the engine", func() {
		_, err := s.StartRun(sorter.Quick, demo)
		Expect(err).NotTo(HaveOccurred())
		s.SetSpeed(50)
		Expect(s.Engine().Speed()).To(Equal(playback.MaxSpeed))
		s.TogglePause()
		s.Tick(10)
		Expect(s.Engine().Cursor()).To(BeZero())
	})
})
