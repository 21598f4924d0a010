// Package session owns the live state of one platform: its geometry, solver, current motion
// and wall. Calls are serialized so a multi-threaded host may share a Session.
package session

import (
	"context"
	"sync"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/edaniels/golog"
	"github.com/golang/geo/r3"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/stewart-rig/stewart/animation"
	"github.com/stewart-rig/stewart/config"
	"github.com/stewart-rig/stewart/kinematics"
	"github.com/stewart-rig/stewart/path"
	"github.com/stewart-rig/stewart/platform"
	"github.com/stewart-rig/stewart/projection"
	"github.com/stewart-rig/stewart/servo"
	"github.com/stewart-rig/stewart/spatialmath"
	"github.com/stewart-rig/stewart/trajectory"
)

// ErrNotConfigured is returned when ticking a session that has no platform geometry.
var ErrNotConfigured = errors.New("platform not configured")

// DefaultInitial is the motion a session from config starts with when none is named.
const DefaultInitial = animation.Wobble

// Result is what one tick produced. It is a copy and stays valid across ticks.
type Result struct {
	At       time.Time
	Pose     animation.Pose
	Angles   kinematics.ServoAngles
	Snapshot kinematics.Snapshot
}

// A Session drives one platform through its motions.
type Session struct {
	mu     sync.Mutex
	id     uuid.UUID
	logger golog.Logger
	clock  clock.Clock

	solver       *kinematics.Solver
	animator     *animation.Animator
	wall         *projection.Wall
	calibrations *servo.Calibrations
}

// New makes a new session with no platform configured.
func New(logger golog.Logger, clk clock.Clock) *Session {
	return NewWithID(uuid.New(), logger, clk)
}

// NewWithID makes a new session with an ID.
func NewWithID(id uuid.UUID, logger golog.Logger, clk clock.Clock) *Session {
	if clk == nil {
		clk = clock.New()
	}
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &Session{
		id:       id,
		logger:   logger,
		clock:    clk,
		animator: animation.NewAnimator(animation.NewLibrary(), clk, logger),
	}
}

// NewFromConfig makes a session set up as cfg describes and starts its initial motion.
func NewFromConfig(cfg *config.Config, logger golog.Logger, clk clock.Clock) (*Session, error) {
	s := New(logger, clk)
	params, err := cfg.Platform.Params()
	if err != nil {
		return nil, err
	}
	if _, err := s.Configure(params); err != nil {
		return nil, err
	}
	if err := s.SetProjection(cfg.Projection.Wall()); err != nil {
		return nil, err
	}
	if s.calibrations, err = cfg.Calibrations(); err != nil {
		return nil, err
	}
	drawings := make([]*animation.Descriptor, 0, len(cfg.Trajectories))
	for i := range cfg.Trajectories {
		tr := &cfg.Trajectories[i]
		segments, err := tr.Segments()
		if err != nil {
			return nil, errors.Wrapf(err, "trajectory %q", tr.Name)
		}
		opts, err := tr.Options(segments)
		if err != nil {
			return nil, errors.Wrapf(err, "trajectory %q", tr.Name)
		}
		d, err := s.buildPath(tr.Name, segments, opts, tr.Next)
		if err != nil {
			return nil, err
		}
		drawings = append(drawings, d)
	}
	// drawings may continue with ones defined after them, so they are registered together
	if err := s.animator.Library().Register(drawings...); err != nil {
		return nil, err
	}
	for i := range cfg.Trajectories {
		tr := &cfg.Trajectories[i]
		if tr.Key != "" {
			if err := s.animator.Library().Alias(tr.Key, tr.Name); err != nil {
				return nil, err
			}
		}
	}
	initial := cfg.Initial
	if initial == "" {
		initial = DefaultInitial
	}
	if _, err := s.SetTrajectory(initial); err != nil {
		return nil, err
	}
	return s, nil
}

// ID returns the id of this session.
func (s *Session) ID() uuid.UUID {
	return s.id
}

// Configure builds the platform geometry. The previous geometry stays in use if it fails.
func (s *Session) Configure(params platform.Params) (*platform.Geometry, error) {
	g, err := platform.Build(params)
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.solver = kinematics.NewSolver(g)
	s.logger.Infow("platform configured", "session", s.id, "shape", g.Shape, "T0", g.T0.Z, "rod", g.RodLength, "horn", g.HornLength)
	return g, nil
}

// Geometry returns the configured geometry, or nil.
func (s *Session) Geometry() *platform.Geometry {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.solver == nil {
		return nil
	}
	return s.solver.Geometry()
}

// Calibrations returns the servo calibrations from config, or nil.
func (s *Session) Calibrations() *servo.Calibrations {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calibrations
}

// SetProjection switches drawings added afterwards to wall mode, or back to direct mode when
// cfg is nil.
func (s *Session) SetProjection(cfg *projection.Config) error {
	var wall *projection.Wall
	if cfg != nil {
		var err error
		if wall, err = projection.NewWall(*cfg); err != nil {
			return err
		}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.wall = wall
	return nil
}

// Names returns the motions that can be started.
func (s *Session) Names() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.animator.Library().Names()
}

// Lookup resolves a motion name or key.
func (s *Session) Lookup(id string) (*animation.Descriptor, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.animator.Library().Lookup(id)
}

// Aliases returns the keys bound to the named motion.
func (s *Session) Aliases(name string) []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.animator.Library().Aliases(name)
}

// SetTrajectory starts the named motion from its beginning.
func (s *Session) SetTrajectory(id string) (*animation.Descriptor, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.animator.Start(id); err != nil {
		return nil, err
	}
	return s.animator.Current(), nil
}

// Toggle handles a key press: it starts the motion bound to key, restarting it if it is
// already playing.
func (s *Session) Toggle(key string) error {
	d, err := s.SetTrajectory(key)
	if err != nil {
		return err
	}
	s.logger.Debugw("toggled motion", "key", key, "name", d.Name)
	return nil
}

// AddPath builds a drawing and registers it under name without playing it. In wall mode the
// drawing is laid out on the wall plane and traced by aiming.
func (s *Session) AddPath(name string, segments []path.Segment, opts trajectory.Options, next string) (*animation.Descriptor, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.addPath(name, segments, opts, next)
}

func (s *Session) addPath(name string, segments []path.Segment, opts trajectory.Options, next string) (*animation.Descriptor, error) {
	d, err := s.buildPath(name, segments, opts, next)
	if err != nil {
		return nil, err
	}
	if err := s.animator.Library().Register(d); err != nil {
		return nil, err
	}
	return d, nil
}

func (s *Session) buildPath(name string, segments []path.Segment, opts trajectory.Options, next string) (*animation.Descriptor, error) {
	if s.wall != nil {
		opts.Plane = trajectory.PlaneYZ
		opts.DrawDepth = 0
	}
	traj, err := trajectory.Build(segments, opts)
	if err != nil {
		return nil, errors.Wrapf(err, "trajectory %q", name)
	}
	d := animation.NewWaypointTable(name, animation.NewTable(traj, s.wall), next)
	s.logger.Debugw("drawing built", "name", name, "waypoints", len(traj.Waypoints), "duration", traj.Duration, "wall", s.wall != nil)
	return d, nil
}

// SetPath builds a drawing, registers it under name and plays it.
func (s *Session) SetPath(name string, segments []path.Segment, opts trajectory.Options, next string) (*animation.Descriptor, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	d, err := s.addPath(name, segments, opts, next)
	if err != nil {
		return nil, err
	}
	s.animator.Play(d, d.Next)
	return d, nil
}

// SetPathData is SetPath for SVG path data.
func (s *Session) SetPathData(name, data string, opts trajectory.Options, next string) (*animation.Descriptor, error) {
	segments, err := path.Parse(data)
	if err != nil {
		return nil, err
	}
	return s.SetPath(name, segments, opts, next)
}

// MoveTo travels to target over d and then starts next, which may be empty.
func (s *Session) MoveTo(target spatialmath.Pose, d time.Duration, next string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.animator.MoveTo(target, d, next)
}

// Tick advances the current motion to now, solves the legs for the resulting pose and returns
// a copy of everything computed.
func (s *Session) Tick(now time.Time, in *animation.LiveInput) (Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.solver == nil {
		return Result{}, ErrNotConfigured
	}
	pose := s.animator.Update(now, in)
	angles := s.solver.Solve(pose.Pose)
	if invalid := angles.Invalid(); len(invalid) > 0 {
		s.logger.Debugw("infeasible legs", "legs", invalid, "translation", pose.Translation,
			"orientation", pose.Orientation.EulerAngles())
	}
	return Result{At: now, Pose: pose, Angles: angles, Snapshot: s.solver.Snapshot()}, nil
}

// Drive sends a tick result to the servos using the configured calibrations. Nothing is sent
// when any leg of the result is infeasible.
func (s *Session) Drive(ctx context.Context, servos []servo.Servo, res Result) error {
	if err := servo.Drive(ctx, servos, s.Calibrations(), res.Angles); err != nil {
		s.logger.Debugw("servos not driven", "at", res.At, "error", err)
		return err
	}
	return nil
}

// Update ticks at the current clock time.
func (s *Session) Update(in *animation.LiveInput) (Result, error) {
	return s.Tick(s.clock.Now(), in)
}

// Current returns the playing motion, or nil.
func (s *Session) Current() *animation.Descriptor {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.animator.Current()
}

// PathPreview samples the current motion's path in base coordinates, or nil when it has
// none to show.
func (s *Session) PathPreview(steps int) []r3.Vector {
	s.mu.Lock()
	defer s.mu.Unlock()
	pts := s.animator.PathPreview(steps)
	if s.solver == nil {
		return pts
	}
	t0 := s.solver.Geometry().T0
	for i := range pts {
		pts[i] = pts[i].Add(t0)
	}
	return pts
}

// ToggleVisiblePath switches path previews on or off.
func (s *Session) ToggleVisiblePath() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.animator.ToggleVisiblePath()
}
