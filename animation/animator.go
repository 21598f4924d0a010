package animation

import (
	"time"

	"github.com/benbjohnson/clock"
	"github.com/edaniels/golog"
	"github.com/golang/geo/r3"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/stewart-rig/stewart/spatialmath"
)

// DefaultPreviewSteps is the number of segments a path preview is sampled with.
const DefaultPreviewSteps = 100

// Animator plays one motion at a time and chains to the next when it completes.
// It is not safe for concurrent use.
type Animator struct {
	library *Library
	clock   clock.Clock
	logger  golog.Logger

	cur         *Descriptor
	next        string
	start       time.Time
	pose        Pose
	pathVisible bool
}

// NewAnimator returns an animator at the neutral pose with nothing playing.
func NewAnimator(library *Library, clk clock.Clock, logger golog.Logger) *Animator {
	if clk == nil {
		clk = clock.New()
	}
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &Animator{
		library:     library,
		clock:       clk,
		logger:      logger,
		pose:        NeutralPose(),
		pathVisible: true,
	}
}

// Library returns the motions the animator can start.
func (a *Animator) Library() *Library {
	return a.library
}

// Start looks up a motion by name or alias and plays it from the beginning.
func (a *Animator) Start(id string) error {
	d, err := a.library.Lookup(id)
	if err != nil {
		return err
	}
	a.Play(d, d.Next)
	return nil
}

// Play starts d now and continues with next once it completes.
func (a *Animator) Play(d *Descriptor, next string) {
	a.playAt(d, next, a.clock.Now())
}

func (a *Animator) playAt(d *Descriptor, next string, now time.Time) {
	if d.ResetOnStart {
		a.pose = NeutralPose()
	}
	a.logger.Debugw("starting motion", "name", d.Name, "kind", d.Kind, "duration", d.Duration, "next", next)
	a.cur = d
	a.next = next
	a.start = now
}

// MoveTo travels from the current pose to target over d and then starts next, if any. A move
// that continues with next needs a positive duration.
func (a *Animator) MoveTo(target spatialmath.Pose, d time.Duration, next string) error {
	if next != "" {
		if d <= 0 {
			return errors.Wrapf(ErrNoDuration, "cannot continue with %q", next)
		}
		if _, err := a.library.Lookup(next); err != nil {
			return err
		}
	}
	from := a.pose
	tw := spatialmath.Interpolate(from.Pose, target)
	a.Play(&Descriptor{
		Name:     "move",
		Kind:     KindPeriodic,
		Duration: d,
		periodic: func(p float64) Pose { return Pose{Pose: tw(p)} },
	}, next)
	return nil
}

// Current returns the playing motion, or nil.
func (a *Animator) Current() *Descriptor {
	return a.cur
}

// Pose returns the pose from the last update.
func (a *Animator) Pose() Pose {
	return a.pose
}

// Progress returns how far through the current motion now is, clamped to [0, 1]. Motions
// without a duration are always complete.
func (a *Animator) Progress(now time.Time) float64 {
	if a.cur == nil || a.cur.Duration <= 0 {
		return 1
	}
	p := float64(now.Sub(a.start)) / float64(a.cur.Duration)
	switch {
	case p < 0:
		return 0
	case p > 1:
		return 1
	default:
		return p
	}
}

// Update evaluates the current motion at now and returns the pose. When a timed motion
// completes its successor starts from now.
func (a *Animator) Update(now time.Time, in *LiveInput) Pose {
	if a.cur == nil {
		return a.pose
	}
	p := a.Progress(now)
	a.pose = a.cur.Evaluate(p, in, a.pose)

	if p == 1 && a.cur.Duration > 0 && a.next != "" {
		d, err := a.library.Lookup(a.next)
		if err != nil {
			a.logger.Errorw("cannot continue motion", "name", a.cur.Name, "error", err)
			a.next = ""
			return a.pose
		}
		a.playAt(d, d.Next, now)
	}
	return a.pose
}

// PathVisible reports whether previews are enabled.
func (a *Animator) PathVisible() bool {
	return a.pathVisible
}

// ToggleVisiblePath switches path previews on or off.
func (a *Animator) ToggleVisiblePath() {
	a.pathVisible = !a.pathVisible
}

// PathPreview samples the positions the current motion passes through, or nil when previews
// are off or the motion has no path to show.
func (a *Animator) PathPreview(steps int) []r3.Vector {
	if !a.pathVisible || a.cur == nil || !a.cur.PathVisible || a.cur.Kind == KindLiveInput {
		return nil
	}
	if steps < 1 {
		steps = DefaultPreviewSteps
	}
	pts := make([]r3.Vector, 0, steps+1)
	for i := 0; i <= steps; i++ {
		pts = append(pts, a.cur.Evaluate(float64(i)/float64(steps), nil, a.pose).Translation)
	}
	return pts
}
