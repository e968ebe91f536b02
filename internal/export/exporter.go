// Package export records one seamless animation loop into a video file.
//
// An Exporter runs at most one job at a time through the states Preparing,
// Recording and Finalizing. Every job ends back in Idle: successes and
// failures after a short delay so the last message stays readable, and
// cancellations immediately. Status updates go to OnStatus.
package export

import (
	"context"
	"fmt"
	"image"
	"math"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/san-kum/morphcontours/internal/contour"
	"github.com/san-kum/morphcontours/internal/log"
	"github.com/san-kum/morphcontours/internal/params"
	"github.com/san-kum/morphcontours/internal/render"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"
)

type State int

const (
	Idle State = iota
	Preparing
	Recording
	Finalizing
	Error
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Preparing:
		return "preparing"
	case Recording:
		return "recording"
	case Finalizing:
		return "finalizing"
	case Error:
		return "error"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// Status is a user-facing snapshot of the exporter. Progress is a
// percentage that never decreases within a job.
type Status struct {
	State    State
	Progress int
	Message  string
	JobID    string
	File     string
	Err      error
}

const (
	msgPreparing     = "Preparing video export..."
	msgStarting      = "Starting video recording..."
	msgRecording     = "Recording animation loop..."
	msgProcessing    = "Processing video..."
	msgFinalizing    = "Finalizing video..."
	msgRecordFailed  = "Recording failed. Please try again."
	msgExportFailed  = "Video export failed: "
	msgCanceled      = "Export canceled."
	progressStart    = 5
	progressRecord   = 10
	progressRecorded = 80
	progressFinalize = 90
	progressDone     = 100
)

type Options struct {
	Formats   []Format
	MaxFrames int
	FPS       int

	// ErrorResetDelay applies to sink failures during recording,
	// FailureResetDelay to jobs that could not start or save.
	ErrorResetDelay   time.Duration
	FailureResetDelay time.Duration
	SuccessResetDelay time.Duration
	// RevokeDelay is how long the finished artifact stays available from
	// Artifact after it was saved.
	RevokeDelay time.Duration
	// ProgressInterval is the minimum gap between recording progress
	// updates.
	ProgressInterval time.Duration
}

func DefaultOptions() Options {
	return Options{
		Formats:           DefaultFormats(),
		MaxFrames:         DefaultMaxFrames,
		FPS:               DefaultFPS,
		ErrorResetDelay:   3 * time.Second,
		FailureResetDelay: 5 * time.Second,
		SuccessResetDelay: 3 * time.Second,
		RevokeDelay:       time.Second,
		ProgressInterval:  50 * time.Millisecond,
	}
}

// Result describes a finished job.
type Result struct {
	JobID  string
	Path   string
	Format Format
	Plan   Plan
	Bytes  int
}

type job struct {
	id       string
	seq      uint64
	cancel   context.CancelFunc
	progress int
	// done closes once run has returned and the sink is released.
	done  chan struct{}
	saved bool
}

type Exporter struct {
	opts  Options
	caps  Capabilities
	sinks SinkFactory
	saver Saver

	// OnStatus receives every status change. It is called synchronously
	// and must not call Start, Run or Cancel.
	OnStatus func(Status)
	// Now stamps artifact names.
	Now func() time.Time

	notify sync.Mutex

	mu          sync.Mutex
	status      Status
	seq         uint64
	job         *job
	last        *job
	reset       *time.Timer
	artifact    []byte
	artifactSeq uint64
}

func New(opts Options, caps Capabilities, sinks SinkFactory, saver Saver) *Exporter {
	if len(opts.Formats) == 0 {
		opts.Formats = DefaultFormats()
	}
	return &Exporter{
		opts:  opts,
		caps:  caps,
		sinks: sinks,
		saver: saver,
		Now:   time.Now,
	}
}

func (e *Exporter) Status() Status {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.status
}

// Busy reports whether a job is in flight, including the pause before a
// finished or failed job returns to Idle and the teardown of a canceled
// job.
func (e *Exporter) Busy() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.busyLocked()
}

func (e *Exporter) busyLocked() bool {
	if e.status.State != Idle {
		return true
	}
	if e.last == nil {
		return false
	}
	select {
	case <-e.last.done:
		return false
	default:
		return true
	}
}

// Artifact returns the bytes of the last saved export until RevokeDelay
// has passed.
func (e *Exporter) Artifact() []byte {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.artifact
}

// Run exports one loop of p and blocks until the job ends.
func (e *Exporter) Run(ctx context.Context, p params.Parameters, tier Tier) (Result, error) {
	j, ctx, err := e.begin(ctx)
	if err != nil {
		return Result{}, err
	}
	defer close(j.done)
	defer j.cancel()
	return e.run(ctx, j, p, tier)
}

// Start runs the export in the background and returns its job id, or
// ErrBusy when another job has not returned to Idle yet.
func (e *Exporter) Start(ctx context.Context, p params.Parameters, tier Tier) (string, error) {
	j, ctx, err := e.begin(ctx)
	if err != nil {
		return "", err
	}
	go func() {
		defer close(j.done)
		defer j.cancel()
		e.run(ctx, j, p, tier)
	}()
	return j.id, nil
}

// Cancel stops the current job, discards its output and returns to Idle
// at once. It reports whether there was anything to cancel; a job whose
// file is already saved cannot be canceled. A new job can start only
// after the canceled one has released its sink.
func (e *Exporter) Cancel() bool {
	e.mu.Lock()
	j := e.job
	if j == nil || j.saved || e.status.State == Idle {
		e.mu.Unlock()
		return false
	}
	e.seq++
	seq := e.seq
	e.job = nil
	if e.reset != nil {
		e.reset.Stop()
	}
	e.mu.Unlock()

	j.cancel()
	log.Printf("export %s: canceled", j.id)
	e.publish(seq, Status{State: Idle, Message: msgCanceled, JobID: j.id, Err: ErrCanceled})
	return true
}

func (e *Exporter) begin(ctx context.Context) (*job, context.Context, error) {
	e.mu.Lock()
	if e.busyLocked() {
		e.mu.Unlock()
		return nil, nil, ErrBusy
	}
	e.seq++
	ctx, cancel := context.WithCancel(ctx)
	j := &job{id: uuid.NewString(), seq: e.seq, cancel: cancel, done: make(chan struct{})}
	e.job = j
	e.last = j
	e.mu.Unlock()

	e.update(j, Preparing, 0, msgPreparing)
	return j, ctx, nil
}

func (e *Exporter) run(ctx context.Context, j *job, p params.Parameters, tier Tier) (Result, error) {
	if err := p.Validate(); err != nil {
		return e.fail(j, err, msgExportFailed+err.Error(), e.opts.FailureResetDelay)
	}

	plan := NewPlan(p, tier, e.opts.MaxFrames, e.opts.FPS)
	log.Printf("export %s: %dp, %d of %d frames, step %.6f", j.id, plan.Resolution, plan.Frames, plan.NaturalFrames, plan.Step)
	e.update(j, Preparing, progressStart, msgStarting)

	format, err := SelectFormat(e.opts.Formats, e.caps)
	if err != nil {
		return e.fail(j, err, msgExportFailed+err.Error(), e.opts.FailureResetDelay)
	}
	log.Printf("export %s: format %s (%s)", j.id, format.Name, format.MIME)

	sink, err := e.sinks(format, plan)
	if err != nil {
		return e.fail(j, err, msgExportFailed+err.Error(), e.opts.FailureResetDelay)
	}

	e.update(j, Recording, progressRecord, msgRecording)
	if err := e.record(ctx, j, p, plan, sink); err != nil {
		sink.Abort()
		if ctx.Err() != nil {
			return e.abandon(j)
		}
		return e.fail(j, err, msgRecordFailed, e.opts.ErrorResetDelay)
	}

	e.update(j, Finalizing, progressRecorded, msgProcessing)
	data, err := sink.Finalize()
	if err != nil {
		sink.Abort()
		return e.fail(j, &EncoderRuntimeError{Frame: -1, Err: err}, msgRecordFailed, e.opts.ErrorResetDelay)
	}
	if ctx.Err() != nil {
		return e.abandon(j)
	}

	e.update(j, Finalizing, progressFinalize, msgFinalizing)
	name := plan.FileName(format, e.Now())
	path, err := e.saver.Save(name, data)
	if err != nil {
		return e.fail(j, err, msgExportFailed+err.Error(), e.opts.FailureResetDelay)
	}
	e.mu.Lock()
	j.saved = true
	e.mu.Unlock()
	e.hold(data)

	msg := fmt.Sprintf("%dp %s video exported! (%ds)", plan.Resolution, strings.ToUpper(format.Ext), plan.Seconds())
	e.publish(j.seq, Status{State: Finalizing, Progress: progressDone, Message: msg, JobID: j.id, File: path})
	log.Printf("export %s: wrote %s (%d bytes)", j.id, path, len(data))
	e.scheduleReset(j.seq, e.opts.SuccessResetDelay)

	return Result{JobID: j.id, Path: path, Format: format, Plan: plan, Bytes: len(data)}, nil
}

// record renders frames on one goroutine and feeds the sink on another, so
// painting frame i+1 overlaps encoding frame i.
func (e *Exporter) record(ctx context.Context, j *job, p params.Parameters, plan Plan, sink FrameSink) error {
	pool := newFramePool(plan.Resolution)
	frames := make(chan *render.Image, 2)

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		defer close(frames)
		for i := 0; i < plan.Frames; i++ {
			if err := ctx.Err(); err != nil {
				return err
			}
			img := pool.Get()
			render.Paint(img, contour.GenerateFrame(plan.Time(i), p, plan.Scale))
			select {
			case frames <- img:
			case <-ctx.Done():
				pool.Put(img)
				return ctx.Err()
			}
		}
		return nil
	})

	g.Go(func() error {
		limiter := rate.NewLimiter(rate.Every(e.opts.ProgressInterval), 1)
		i := 0
		for img := range frames {
			if err := ctx.Err(); err != nil {
				return err
			}
			err := sink.SubmitFrame(img.RGBA())
			pool.Put(img)
			if err != nil {
				return &EncoderRuntimeError{Frame: i, Err: err}
			}
			if limiter.Allow() {
				progress := progressRecord + int(math.Round(float64(i)/float64(plan.Frames)*70))
				e.update(j, Recording, progress, msgRecording)
			}
			i++
		}
		return nil
	})

	return g.Wait()
}

// update publishes a progress step, never letting progress go backwards.
func (e *Exporter) update(j *job, state State, progress int, msg string) {
	if progress < j.progress {
		progress = j.progress
	}
	j.progress = progress
	e.publish(j.seq, Status{State: state, Progress: progress, Message: msg, JobID: j.id})
}

func (e *Exporter) fail(j *job, err error, msg string, delay time.Duration) (Result, error) {
	log.Printf("export %s: failed: %v", j.id, err)
	e.publish(j.seq, Status{State: Error, Progress: j.progress, Message: msg, JobID: j.id, Err: err})
	e.scheduleReset(j.seq, delay)
	return Result{}, err
}

// abandon ends a job whose context was canceled.
func (e *Exporter) abandon(j *job) (Result, error) {
	e.mu.Lock()
	current := e.seq == j.seq
	if current {
		e.job = nil
	}
	e.mu.Unlock()

	if current {
		log.Printf("export %s: canceled", j.id)
		e.publish(j.seq, Status{State: Idle, Message: msgCanceled, JobID: j.id, Err: ErrCanceled})
	}
	return Result{}, ErrCanceled
}

// publish stores s and notifies OnStatus unless the job identified by seq
// has been superseded.
func (e *Exporter) publish(seq uint64, s Status) {
	e.notify.Lock()
	defer e.notify.Unlock()

	e.mu.Lock()
	if seq != e.seq {
		e.mu.Unlock()
		return
	}
	e.status = s
	e.mu.Unlock()

	log.Debugf("export %s: %s %d%% %s", s.JobID, s.State, s.Progress, s.Message)
	if e.OnStatus != nil {
		e.OnStatus(s)
	}
}

func (e *Exporter) scheduleReset(seq uint64, delay time.Duration) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if seq != e.seq {
		return
	}
	if e.reset != nil {
		e.reset.Stop()
	}
	e.reset = time.AfterFunc(delay, func() {
		e.mu.Lock()
		if seq == e.seq {
			e.job = nil
		}
		e.mu.Unlock()
		e.publish(seq, Status{State: Idle})
	})
}

func (e *Exporter) hold(data []byte) {
	e.mu.Lock()
	e.artifact = data
	e.artifactSeq++
	seq := e.artifactSeq
	e.mu.Unlock()

	time.AfterFunc(e.opts.RevokeDelay, func() {
		e.mu.Lock()
		if e.artifactSeq == seq {
			e.artifact = nil
		}
		e.mu.Unlock()
	})
}

// Snapshot paints a single frame at time t into a new image.
func Snapshot(p params.Parameters, t float64, resolution int) *image.RGBA {
	f := contour.GenerateFrame(t, p, float64(resolution)/contour.LogicalSize)
	img := render.NewImage(resolution, resolution)
	render.Paint(img, f)
	return img.RGBA()
}
