package cli

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/edaniels/golog"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"
	"go.uber.org/zap"

	"github.com/stewart-rig/stewart/animation"
	"github.com/stewart-rig/stewart/config"
	"github.com/stewart-rig/stewart/kinematics"
	"github.com/stewart-rig/stewart/servo"
	"github.com/stewart-rig/stewart/session"
	"github.com/stewart-rig/stewart/spatialmath"
	"github.com/stewart-rig/stewart/utils"
)

// adHocName is the name a drawing given with --path is registered under.
const adHocName = "cli"

func newLogger(c *cli.Context) golog.Logger {
	if c.Bool(flagDebug) {
		return golog.NewDebugLogger("stewart")
	}
	return zap.NewNop().Sugar()
}

func loadConfig(c *cli.Context) (*config.Config, error) {
	path := c.String(flagConfig)
	if path == "" {
		return &config.Config{}, nil
	}
	return config.Read(path)
}

func newSession(c *cli.Context, clk clock.Clock) (*session.Session, error) {
	logger := newLogger(c)
	cfg, err := loadConfig(c)
	if err != nil {
		logger.Errorw("cannot load config", "path", c.String(flagConfig), "error", err)
		return nil, err
	}
	return session.NewFromConfig(cfg, logger, clk)
}

// startTrajectory plays what the flags ask for, or leaves the configured initial motion playing.
func startTrajectory(c *cli.Context, s *session.Session) (*animation.Descriptor, error) {
	id, data := c.String(flagTrajectory), c.String(flagPath)
	switch {
	case id != "" && data != "":
		return nil, errors.Errorf("--%s and --%s cannot be used together", flagTrajectory, flagPath)
	case data != "":
		tr := config.Trajectory{Name: adHocName, Path: data}
		segments, err := tr.Segments()
		if err != nil {
			return nil, err
		}
		opts, err := tr.Options(segments)
		if err != nil {
			return nil, err
		}
		return s.SetPath(tr.Name, segments, opts, "")
	case id != "":
		return s.SetTrajectory(id)
	default:
		return s.Current(), nil
	}
}

// CheckAction validates the configuration, prints the geometry and the servo angles at the
// neutral pose.
func CheckAction(c *cli.Context) error {
	clk := clock.NewMock()
	s, err := newSession(c, clk)
	if err != nil {
		return err
	}
	fmt.Fprintln(c.App.Writer, s.Geometry().String())

	if err := s.MoveTo(spatialmath.NewZeroPose(), 0, ""); err != nil {
		return err
	}
	res, err := s.Tick(clk.Now(), nil)
	if err != nil {
		return err
	}
	rec := servo.NewRecorder(s.Calibrations())
	rec.Record(0, res.Angles)
	fmt.Fprintln(c.App.Writer, rec.Render())
	if invalid := res.Angles.Invalid(); len(invalid) > 0 {
		return errors.Errorf("neutral pose is infeasible for legs %v", invalid)
	}
	return nil
}

// TrajectoriesAction lists every motion with its keys.
func TrajectoriesAction(c *cli.Context) error {
	s, err := newSession(c, clock.NewMock())
	if err != nil {
		return err
	}
	t := table.NewWriter()
	t.AppendHeader(table.Row{"Name", "Keys", "Kind", "Duration", "Next"})
	for _, name := range s.Names() {
		d, err := s.Lookup(name)
		if err != nil {
			return err
		}
		duration := "-"
		if d.Kind != animation.KindLiveInput {
			duration = d.Duration.String()
		}
		t.AppendRow(table.Row{d.Name, strings.Join(s.Aliases(name), " "), d.Kind, duration, d.Next})
	}
	fmt.Fprintln(c.App.Writer, t.Render())
	return nil
}

// AnglesAction runs a trajectory on a simulated clock and prints what the servos would be sent.
func AnglesAction(c *cli.Context) error {
	clk := clock.NewMock()
	s, err := newSession(c, clk)
	if err != nil {
		return err
	}
	d, err := startTrajectory(c, s)
	if err != nil {
		return err
	}
	duration := c.Duration(flagDuration)
	if duration == 0 {
		duration = d.Duration
	}
	if duration <= 0 {
		return errors.Errorf("trajectory %q has no duration, set --%s", d.Name, flagDuration)
	}
	steps := c.Int(flagSteps)
	if steps < 1 {
		return errors.Errorf("--%s must be at least 1", flagSteps)
	}

	rec := servo.NewRecorder(s.Calibrations())
	jump := kinematics.NewMaxJumpMetric()
	largest := 0.
	var prev kinematics.ServoAngles
	var last session.Result
	start := clk.Now()
	for i := 0; i <= steps; i++ {
		at := time.Duration(int64(duration) * int64(i) / int64(steps))
		res, err := s.Tick(start.Add(at), nil)
		if err != nil {
			return err
		}
		rec.Record(at, res.Angles)
		if i > 0 {
			largest = math.Max(largest, jump.Distance(prev, res.Angles))
		}
		prev = res.Angles
		last = res
	}
	if c.Bool(flagCSV) {
		fmt.Fprintln(c.App.Writer, rec.RenderCSV())
		return nil
	}
	fmt.Fprintln(c.App.Writer, rec.Render())
	fmt.Fprintf(c.App.Writer, "largest step between samples: %.2f°\n", utils.RadToDeg(largest))
	ea := last.Pose.Orientation.EulerAngles()
	fmt.Fprintf(c.App.Writer, "final pose: x %.2f y %.2f z %.2f mm, roll %.2f° pitch %.2f° yaw %.2f°\n",
		last.Pose.Translation.X, last.Pose.Translation.Y, last.Pose.Translation.Z,
		utils.RadToDeg(ea.Roll), utils.RadToDeg(ea.Pitch), utils.RadToDeg(ea.Yaw))
	return nil
}

// PlotAction draws the path a trajectory traces over the base joints.
func PlotAction(c *cli.Context) error {
	s, err := newSession(c, clock.NewMock())
	if err != nil {
		return err
	}
	d, err := startTrajectory(c, s)
	if err != nil {
		return err
	}
	pts := s.PathPreview(c.Int(flagSteps))
	if pts == nil {
		return errors.Errorf("trajectory %q has no path to plot", d.Name)
	}
	out := c.String(flagOut)
	if err := savePlot(out, d.Name, s.Geometry(), pts); err != nil {
		return errors.Wrapf(err, "cannot plot %q", d.Name)
	}
	fmt.Fprintf(c.App.Writer, "wrote %s\n", out)
	return nil
}
