package animation

import (
	"math"
	"sort"
	"time"

	"github.com/golang/geo/r3"
	"github.com/pkg/errors"

	"github.com/stewart-rig/stewart/spatialmath"
	"github.com/stewart-rig/stewart/trajectory"
)

// Built-in motion names.
const (
	Rotate    = "rotate"
	Tilt      = "tilt"
	Square    = "square"
	Wobble    = "wobble"
	Breathe   = "breathe"
	Eight     = "eight"
	Lissajous = "lissajous"
	Helical   = "helical"
	Mouse     = "mouse"
	Gamepad   = "gamepad"
)

// DefaultAliases are the single key shortcuts for the built-in motions.
var DefaultAliases = map[string]string{
	"q": Square,
	"w": Wobble,
	"e": Eight,
	"r": Rotate,
	"t": Tilt,
	"y": Lissajous,
	"m": Mouse,
	"g": Gamepad,
	"b": Breathe,
	"h": Helical,
}

// pointerScale converts pointer offsets to millimeters.
const pointerScale = 10

func translated(x, y, z float64) Pose {
	return Pose{Pose: spatialmath.NewPose(r3.Vector{X: x, Y: y, Z: z}, spatialmath.NewZeroOrientation())}
}

func rotated(axis r3.Vector, angle float64) Pose {
	return Pose{Pose: spatialmath.NewPose(r3.Vector{}, spatialmath.FromAxisAngle(axis, angle))}
}

// swing is a sharpened sine through four periods' phase offset, peaking at amplitude.
func swing(p, amplitude float64) float64 {
	return math.Pow(math.Sin(p*2*math.Pi-8*math.Pi), 5) * amplitude
}

// wobbleOrientation leans the plate toward the direction b.
func wobbleOrientation(b float64) spatialmath.Quaternion {
	return spatialmath.NewQuaternion(-13, -math.Cos(b), math.Sin(b), 0)
}

func rotateAt(p float64) Pose {
	return rotated(spatialmath.ZAxis, swing(p, 0.5))
}

// tiltAt sweeps about three horizontal axes 60 degrees apart and then about z, a quarter each.
func tiltAt(p float64) Pose {
	phase := math.Min(math.Floor(p*4), 3)
	local := (p - phase/4) * 4
	axis := spatialmath.ZAxis
	if phase < 3 {
		a := phase * math.Pi / 3
		axis = r3.Vector{X: math.Sin(a), Y: -math.Cos(a)}
	}
	return rotated(axis, swing(local, 1.0/3))
}

func wobbleAt(p float64) Pose {
	b := p * 2 * math.Pi
	return Pose{Pose: spatialmath.NewPose(
		r3.Vector{X: math.Cos(-b) * 13, Y: math.Sin(-b) * 13},
		wobbleOrientation(b),
	)}
}

func breatheAt(p float64) Pose {
	y := math.Exp(math.Sin(2*math.Pi*p)-1) / (math.E*math.E - 1)
	return translated(0, 0, y*50)
}

func eightAt(p float64) Pose {
	t := (-0.5 + 2*p) * math.Pi
	return translated(math.Cos(t)*30, math.Sin(t)*math.Cos(t)*30, 0)
}

func lissajousAt(p float64) Pose {
	return translated(math.Sin(3*p*2*math.Pi)*30, math.Sin(2*p*2*math.Pi)*30, 0)
}

// helicalAt spirals down onto the neutral pose.
func helicalAt(p float64) Pose {
	p = 1 - p
	return translated(math.Cos(p*8*math.Pi)*20, math.Sin(p*8*math.Pi)*20, p*20)
}

func mouseAt(in LiveInput) Pose {
	return translated(in.Pointer.X/pointerScale, in.Pointer.Y/pointerScale, 0)
}

func gamepadAt(in LiveInput) Pose {
	if in.Rotate {
		return rotated(spatialmath.ZAxis, -in.Axes[3]*math.Pi/6)
	}
	b := math.Atan2(-in.Axes[3], -in.Axes[2])
	return Pose{Pose: spatialmath.NewPose(
		r3.Vector{X: in.Axes[1] * 30, Y: in.Axes[0] * 30},
		wobbleOrientation(b),
	)}
}

func squareTable() *Table {
	return NewTable(trajectory.New([]trajectory.Waypoint{
		{X: -30, Y: -30, Z: 10},
		{X: -30, Y: 30, Z: 0, T: time.Second},
		{X: 30, Y: 30, Z: 10, T: time.Second},
		{X: 30, Y: -30, Z: 0, T: time.Second},
		{X: -30, Y: -30, Z: 10, T: time.Second},
	}), nil)
}

// Builtins returns fresh descriptors for every built-in motion.
func Builtins() []*Descriptor {
	withPath := func(d *Descriptor) *Descriptor {
		d.PathVisible = true
		return d
	}
	gamepad := NewLiveInput(Gamepad, gamepadAt)
	gamepad.ResetOnStart = true
	return []*Descriptor{
		NewPeriodic(Rotate, 4*time.Second, Rotate, rotateAt),
		NewPeriodic(Tilt, 7*time.Second, Tilt, tiltAt),
		NewWaypointTable(Square, squareTable(), Square),
		NewPeriodic(Wobble, 3*time.Second, Wobble, wobbleAt),
		NewPeriodic(Breathe, 5*time.Second, Breathe, breatheAt),
		withPath(NewPeriodic(Eight, 3500*time.Millisecond, Eight, eightAt)),
		withPath(NewPeriodic(Lissajous, 10*time.Second, Lissajous, lissajousAt)),
		withPath(NewPeriodic(Helical, 5*time.Second, "", helicalAt)),
		NewLiveInput(Mouse, mouseAt),
		gamepad,
	}
}

// Library holds the motions that can be started by name or alias.
type Library struct {
	descriptors map[string]*Descriptor
	aliases     map[string]string
}

// NewLibrary returns a library holding the built-in motions and their aliases.
func NewLibrary() *Library {
	l := &Library{descriptors: map[string]*Descriptor{}, aliases: map[string]string{}}
	for _, d := range Builtins() {
		l.descriptors[d.Name] = d
	}
	for key, name := range DefaultAliases {
		l.aliases[key] = name
	}
	return l
}

// Register adds or replaces motions. Each Next must be empty, one of ds, or already
// registered, so motions given together may chain to each other in any order. Nothing is
// added if any of them is rejected.
func (l *Library) Register(ds ...*Descriptor) error {
	names := make(map[string]bool, len(ds))
	for _, d := range ds {
		if d.Name == "" {
			return errors.New("trajectory name is required")
		}
		names[d.Name] = true
	}
	for _, d := range ds {
		if d.Next == "" || names[d.Next] {
			continue
		}
		if _, ok := l.descriptors[d.Next]; !ok {
			return errors.Wrapf(ErrUnknownTrajectory, "%q continues with %q", d.Name, d.Next)
		}
	}
	for _, d := range ds {
		l.descriptors[d.Name] = d
	}
	return nil
}

// Alias makes key start the named motion.
func (l *Library) Alias(key, name string) error {
	if _, ok := l.descriptors[name]; !ok {
		return errors.Wrapf(ErrUnknownTrajectory, "alias %q for %q", key, name)
	}
	l.aliases[key] = name
	return nil
}

// Lookup resolves a name or alias.
func (l *Library) Lookup(id string) (*Descriptor, error) {
	if name, ok := l.aliases[id]; ok {
		id = name
	}
	d, ok := l.descriptors[id]
	if !ok {
		return nil, errors.Wrapf(ErrUnknownTrajectory, "%q", id)
	}
	return d, nil
}

// Names returns the registered motion names in order.
func (l *Library) Names() []string {
	names := make([]string, 0, len(l.descriptors))
	for name := range l.descriptors {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Aliases returns the aliases that start the named motion, in order.
func (l *Library) Aliases(name string) []string {
	var keys []string
	for key, target := range l.aliases {
		if target == name {
			keys = append(keys, key)
		}
	}
	sort.Strings(keys)
	return keys
}
