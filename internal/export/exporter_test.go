package export

import (
	"context"
	"errors"
	"image"
	"sync"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/morphcontours/internal/params"
)

type memSink struct {
	mu          sync.Mutex
	frames      int
	bounds      image.Rectangle
	failAt      int
	finalizeErr error
	finalized   bool
	aborted     bool
	gate        chan struct{}
}

func newMemSink() *memSink {
	return &memSink{failAt: -1}
}

func (s *memSink) SubmitFrame(img *image.RGBA) error {
	if s.gate != nil {
		<-s.gate
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failAt >= 0 && s.frames == s.failAt {
		return errors.New("device lost")
	}
	s.frames++
	s.bounds = img.Bounds()
	return nil
}

func (s *memSink) Finalize() ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.finalized = true
	if s.finalizeErr != nil {
		return nil, s.finalizeErr
	}
	return []byte("video"), nil
}

func (s *memSink) Abort() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.aborted = true
}

func (s *memSink) Frames() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.frames
}

func (s *memSink) Aborted() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.aborted
}

type memSaver struct {
	mu    sync.Mutex
	files map[string][]byte
	err   error
}

func (m *memSaver) Save(name string, data []byte) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return "", m.err
	}
	if m.files == nil {
		m.files = make(map[string][]byte)
	}
	m.files[name] = data
	return "/videos/" + name, nil
}

func (m *memSaver) Count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.files)
}

type capsFunc func(Format) bool

func (f capsFunc) Supports(format Format) bool { return f(format) }

func only(names ...string) capsFunc {
	return func(f Format) bool {
		for _, n := range names {
			if f.Name == n {
				return true
			}
		}
		return false
	}
}

type statusLog struct {
	mu  sync.Mutex
	all []Status
}

func (l *statusLog) record(s Status) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.all = append(l.all, s)
}

func (l *statusLog) States() []State {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]State, 0, len(l.all))
	for _, s := range l.all {
		if len(out) == 0 || out[len(out)-1] != s.State {
			out = append(out, s.State)
		}
	}
	return out
}

func (l *statusLog) Progress() []int {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]int, 0, len(l.all))
	for _, s := range l.all {
		if s.State != Idle {
			out = append(out, s.Progress)
		}
	}
	return out
}

// quickParams loops in 21 frames with little geometry.
func quickParams() params.Parameters {
	p := params.Defaults()
	p.ShapeCount = 1
	p.DetailLevel = 0.1
	p.AnimationSpeed = 3
	p.TimeIncrement = 0.1
	return p
}

// teardownTimeout bounds waits that include painting a frame, which is
// slow under the race detector.
const teardownTimeout = 10 * time.Second

func testOptions() Options {
	opts := DefaultOptions()
	opts.ErrorResetDelay = 20 * time.Millisecond
	opts.FailureResetDelay = 30 * time.Millisecond
	opts.SuccessResetDelay = 20 * time.Millisecond
	opts.RevokeDelay = 20 * time.Millisecond
	opts.ProgressInterval = 0
	return opts
}

var _ = Describe("Plan", func() {
	It("captures the whole natural loop when it fits", func() {
		plan := NewPlan(quickParams(), Standard, DefaultMaxFrames, DefaultFPS)
		Expect(plan.NaturalFrames).To(Equal(21))
		Expect(plan.Frames).To(Equal(21))
		Expect(plan.Step).To(BeNumerically("~", quickParams().TimeStep(), 1e-15))
	})

	It("uses the tier's resolution and bitrate", func() {
		p := params.Defaults()
		plan := NewPlan(p, Standard, DefaultMaxFrames, DefaultFPS)

		Expect(plan.NaturalFrames).To(Equal(2095))
		Expect(plan.Frames).To(Equal(1800))
		Expect(plan.Resolution).To(Equal(1440))
		Expect(plan.Bitrate).To(Equal(15_000_000))
		Expect(plan.Scale).To(BeNumerically("~", 3.6, 1e-12))
	})

	It("caps a 3000 frame loop at 1800 frames that still span one period", func() {
		p := params.Defaults()
		p.TimeIncrement = 0.003
		p.AnimationSpeed = 2 * 3.141592653589793 / (0.003 * 2999.5)
		Expect(p.Validate()).To(Succeed())

		plan := NewPlan(p, Constrained, 1800, 60)
		Expect(plan.NaturalFrames).To(Equal(3000))
		Expect(plan.Frames).To(Equal(1800))
		Expect(plan.Step).To(BeNumerically("~", p.TimeStep()*3000/1800, 1e-15))
		Expect(plan.Step * float64(plan.Frames)).To(BeNumerically("~", 2*3.141592653589793, 0.01))
		Expect(plan.Time(0)).To(BeZero())
		Expect(plan.Duration).To(Equal(30 * time.Second))
		Expect(plan.Seconds()).To(Equal(30))
		Expect(plan.Resolution).To(Equal(1080))
		Expect(plan.Bitrate).To(Equal(8_000_000))
	})

	It("names artifacts after resolution and time", func() {
		plan := NewPlan(params.Defaults(), Constrained, 0, 0)
		name := plan.FileName(WebMVP9, time.UnixMilli(1700000000123))
		Expect(name).To(Equal("morphing-contours-1080p-1700000000123.webm"))
	})
})

var _ = Describe("Exporter", func() {
	var (
		sink     *memSink
		saver    *memSaver
		statuses *statusLog
		opened   int
		exp      *Exporter
	)

	newExporter := func(caps Capabilities, opts Options) *Exporter {
		e := New(opts, caps, func(Format, Plan) (FrameSink, error) {
			opened++
			return sink, nil
		}, saver)
		e.OnStatus = statuses.record
		e.Now = func() time.Time { return time.UnixMilli(1700000000000) }
		return e
	}

	BeforeEach(func() {
		sink = newMemSink()
		saver = &memSaver{}
		statuses = &statusLog{}
		opened = 0
		exp = newExporter(only("webm-vp8", "gif"), testOptions())
	})

	It("records one loop and returns to idle", func() {
		res, err := exp.Run(context.Background(), quickParams(), Constrained)
		Expect(err).NotTo(HaveOccurred())

		Expect(res.Format).To(Equal(WebMVP8))
		Expect(res.Plan.Frames).To(Equal(21))
		Expect(sink.Frames()).To(Equal(21))
		Expect(sink.bounds).To(Equal(image.Rect(0, 0, 1080, 1080)))
		Expect(sink.finalized).To(BeTrue())
		Expect(res.Path).To(Equal("/videos/morphing-contours-1080p-1700000000000.webm"))
		Expect(saver.files).To(HaveKeyWithValue("morphing-contours-1080p-1700000000000.webm", []byte("video")))

		st := exp.Status()
		Expect(st.State).To(Equal(Finalizing))
		Expect(st.Progress).To(Equal(100))
		Expect(st.Message).To(Equal("1080p WEBM video exported! (0s)"))
		Expect(exp.Busy()).To(BeTrue())

		Eventually(exp.Status).Should(HaveField("State", Idle))
		Expect(statuses.States()).To(Equal([]State{Preparing, Recording, Finalizing, Idle}))
	})

	It("keeps a saved file when cancel arrives during the success hold", func() {
		opts := testOptions()
		opts.SuccessResetDelay = time.Minute
		exp = newExporter(only("webm-vp8"), opts)

		_, err := exp.Run(context.Background(), quickParams(), Constrained)
		Expect(err).NotTo(HaveOccurred())
		Expect(exp.Status().Progress).To(Equal(100))

		Expect(exp.Cancel()).To(BeFalse())
		st := exp.Status()
		Expect(st.State).To(Equal(Finalizing))
		Expect(st.Err).NotTo(HaveOccurred())
		Expect(saver.Count()).To(Equal(1))
		Expect(sink.Aborted()).To(BeFalse())
	})

	It("reports monotonic progress through every stage", func() {
		_, err := exp.Run(context.Background(), quickParams(), Standard)
		Expect(err).NotTo(HaveOccurred())

		progress := statuses.Progress()
		for i := 1; i < len(progress); i++ {
			Expect(progress[i]).To(BeNumerically(">=", progress[i-1]))
		}
		Expect(progress).To(ContainElements(0, 5, 10, 80, 90, 100))
		Expect(progress[len(progress)-1]).To(Equal(100))
	})

	It("honours the frame cap", func() {
		opts := testOptions()
		opts.MaxFrames = 5
		exp = newExporter(only("gif"), opts)

		res, err := exp.Run(context.Background(), quickParams(), Constrained)
		Expect(err).NotTo(HaveOccurred())
		Expect(res.Plan.Frames).To(Equal(5))
		Expect(sink.Frames()).To(Equal(5))
		Expect(res.Format).To(Equal(GIF))
	})

	It("keeps the artifact only until it is revoked", func() {
		_, err := exp.Run(context.Background(), quickParams(), Constrained)
		Expect(err).NotTo(HaveOccurred())
		Expect(exp.Artifact()).To(Equal([]byte("video")))
		Eventually(exp.Artifact).Should(BeNil())
	})

	It("fails in preparing when no format is supported", func() {
		exp = newExporter(only(), testOptions())

		_, err := exp.Run(context.Background(), quickParams(), Standard)
		Expect(err).To(MatchError(ErrUnsupportedEncoder))

		var unsupported *UnsupportedEncoderError
		Expect(errors.As(err, &unsupported)).To(BeTrue())
		Expect(unsupported.Tried).To(Equal([]string{"webm-vp9", "webm-vp8", "mp4-h264", "gif"}))

		st := exp.Status()
		Expect(st.State).To(Equal(Error))
		Expect(st.Message).To(HavePrefix("Video export failed: "))
		Expect(opened).To(BeZero())

		Eventually(exp.Status).Should(HaveField("State", Idle))
		Expect(statuses.States()).To(Equal([]State{Preparing, Error, Idle}))
	})

	It("rejects invalid parameters before recording", func() {
		p := quickParams()
		p.ShapeCount = 0

		_, err := exp.Run(context.Background(), p, Standard)
		Expect(err).To(MatchError(params.ErrInvalidParameter))
		Expect(opened).To(BeZero())
		Eventually(exp.Status).Should(HaveField("State", Idle))
	})

	It("aborts on a mid-stream encoder error", func() {
		sink.failAt = 3

		_, err := exp.Run(context.Background(), quickParams(), Standard)
		Expect(err).To(MatchError(ErrEncoderRuntime))

		var runtimeErr *EncoderRuntimeError
		Expect(errors.As(err, &runtimeErr)).To(BeTrue())
		Expect(runtimeErr.Frame).To(Equal(3))

		Expect(sink.Aborted()).To(BeTrue())
		Expect(saver.Count()).To(BeZero())
		Expect(exp.Status().Message).To(Equal("Recording failed. Please try again."))
		Eventually(exp.Status).Should(HaveField("State", Idle))
	})

	It("reports finalize failures as encoder errors", func() {
		sink.finalizeErr = errors.New("muxer error")

		_, err := exp.Run(context.Background(), quickParams(), Standard)
		var runtimeErr *EncoderRuntimeError
		Expect(errors.As(err, &runtimeErr)).To(BeTrue())
		Expect(runtimeErr.Frame).To(Equal(-1))
		Expect(saver.Count()).To(BeZero())
	})

	It("surfaces save failures", func() {
		saver.err = errors.New("disk full")

		_, err := exp.Run(context.Background(), quickParams(), Standard)
		Expect(err).To(MatchError("disk full"))
		Expect(exp.Status().State).To(Equal(Error))
		Eventually(exp.Status).Should(HaveField("State", Idle))
	})

	Context("with a job in flight", func() {
		BeforeEach(func() {
			sink.gate = make(chan struct{})
		})

		AfterEach(func() {
			select {
			case <-sink.gate:
			default:
				close(sink.gate)
			}
		})

		It("refuses a second export", func() {
			id, err := exp.Start(context.Background(), quickParams(), Constrained)
			Expect(err).NotTo(HaveOccurred())
			Expect(id).NotTo(BeEmpty())
			Eventually(exp.Status).Should(HaveField("State", Recording))

			_, err = exp.Start(context.Background(), quickParams(), Constrained)
			Expect(err).To(MatchError(ErrBusy))
			_, err = exp.Run(context.Background(), quickParams(), Constrained)
			Expect(err).To(MatchError(ErrBusy))

			Expect(exp.Cancel()).To(BeTrue())
		})

		It("cancels straight to idle and discards the output", func() {
			id, err := exp.Start(context.Background(), quickParams(), Constrained)
			Expect(err).NotTo(HaveOccurred())
			Eventually(exp.Status).Should(HaveField("State", Recording))

			Expect(exp.Cancel()).To(BeTrue())
			st := exp.Status()
			Expect(st.State).To(Equal(Idle))
			Expect(st.JobID).To(Equal(id))
			Expect(st.Err).To(MatchError(ErrCanceled))

			close(sink.gate)
			Eventually(sink.Aborted).WithTimeout(teardownTimeout).Should(BeTrue())
			Consistently(saver.Count, 50*time.Millisecond).Should(BeZero())
			Expect(exp.Status().State).To(Equal(Idle))
			Eventually(exp.Busy).WithTimeout(teardownTimeout).Should(BeFalse())
		})

		It("waits for a canceled job to release its sink before starting another", func() {
			_, err := exp.Start(context.Background(), quickParams(), Constrained)
			Expect(err).NotTo(HaveOccurred())
			Eventually(exp.Status).Should(HaveField("State", Recording))

			Expect(exp.Cancel()).To(BeTrue())
			Expect(exp.Busy()).To(BeTrue())
			_, err = exp.Start(context.Background(), quickParams(), Constrained)
			Expect(err).To(MatchError(ErrBusy))
			Expect(opened).To(Equal(1))

			close(sink.gate)
			Eventually(func() error {
				_, err := exp.Start(context.Background(), quickParams(), Constrained)
				return err
			}).WithTimeout(teardownTimeout).Should(Succeed())
			Expect(sink.Aborted()).To(BeTrue())
			Eventually(saver.Count).WithTimeout(teardownTimeout).Should(Equal(1))
		})

		It("stops when the caller's context is canceled", func() {
			ctx, cancel := context.WithCancel(context.Background())
			done := make(chan error, 1)
			go func() {
				_, err := exp.Run(ctx, quickParams(), Constrained)
				done <- err
			}()
			Eventually(exp.Status).Should(HaveField("State", Recording))

			cancel()
			close(sink.gate)
			Eventually(done).WithTimeout(teardownTimeout).Should(Receive(MatchError(ErrCanceled)))
			Expect(exp.Status().State).To(Equal(Idle))
			Expect(saver.Count()).To(BeZero())
		})
	})

	It("has nothing to cancel when idle", func() {
		Expect(exp.Cancel()).To(BeFalse())
	})
})
