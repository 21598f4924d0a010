package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pkg/errors"
	"go.viam.com/test"

	"github.com/stewart-rig/stewart/animation"
	"github.com/stewart-rig/stewart/path"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	err := NewApp(&out, &errOut).Run(append([]string{"stewart"}, args...))
	return out.String(), err
}

func writeConfig(t *testing.T, name, contents string) string {
	t.Helper()
	file := filepath.Join(t.TempDir(), name)
	test.That(t, os.WriteFile(file, []byte(contents), 0o600), test.ShouldBeNil)
	return file
}

func TestCheck(t *testing.T) {
	out, err := run(t, "check")
	test.That(t, err, test.ShouldBeNil)
	test.That(t, out, test.ShouldContainSubstring, "hexagonal platform")
	test.That(t, out, test.ShouldContainSubstring, "16.20")

	file := writeConfig(t, "circle.json", `{"platform": {"shape": "circular"}}`)
	out, err = run(t, "--config", file, "check")
	test.That(t, err, test.ShouldBeNil)
	test.That(t, out, test.ShouldContainSubstring, "circular platform")

	file = writeConfig(t, "short.yaml", "platform:\n  attributes:\n    rod_length: 10\n    horn_length: 10\n")
	_, err = run(t, "-c", file, "check")
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, err.Error(), test.ShouldContainSubstring, "infeasible platform geometry")

	_, err = run(t, "-c", filepath.Join(t.TempDir(), "missing.json"), "check")
	test.That(t, err, test.ShouldNotBeNil)
}

func TestTrajectories(t *testing.T) {
	file := writeConfig(t, "drawings.yaml", `
trajectories:
  - name: zigzag
    key: z
    path: M0 0 L10 10 L20 0
`)
	out, err := run(t, "-c", file, "trajectories")
	test.That(t, err, test.ShouldBeNil)
	for _, name := range []string{animation.Breathe, animation.Wobble, animation.Mouse, "zigzag"} {
		test.That(t, out, test.ShouldContainSubstring, name)
	}
	test.That(t, out, test.ShouldContainSubstring, "live input")
	test.That(t, out, test.ShouldContainSubstring, "waypoint table")
}

func TestAngles(t *testing.T) {
	out, err := run(t, "angles", "--trajectory", "b", "--steps", "4", "--csv")
	test.That(t, err, test.ShouldBeNil)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	test.That(t, lines, test.ShouldHaveLength, 6)
	test.That(t, lines[0], test.ShouldStartWith, "t (ms),servo 0")
	test.That(t, lines[2], test.ShouldStartWith, "1250,")
	test.That(t, lines[5], test.ShouldStartWith, "5000,")

	out, err = run(t, "angles", "--path", "M0 0 L80 40", "--steps", "2")
	test.That(t, err, test.ShouldBeNil)
	test.That(t, strings.ToUpper(out), test.ShouldContainSubstring, "SERVO 5")
	test.That(t, out, test.ShouldContainSubstring, "largest step between samples")
	test.That(t, out, test.ShouldContainSubstring, "final pose: x ")
	test.That(t, out, test.ShouldContainSubstring, "roll 0.00° pitch 0.00° yaw 0.00°")

	_, err = run(t, "angles", "--trajectory", "m")
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, err.Error(), test.ShouldContainSubstring, "no duration")

	out, err = run(t, "angles", "--trajectory", "m", "--duration", "1s", "--steps", "1", "--csv")
	test.That(t, err, test.ShouldBeNil)
	test.That(t, strings.Split(strings.TrimSpace(out), "\n"), test.ShouldHaveLength, 3)

	_, err = run(t, "angles", "--trajectory", "perlin")
	test.That(t, errors.Is(err, animation.ErrUnknownTrajectory), test.ShouldBeTrue)

	_, err = run(t, "angles", "--path", "M0 0 X1", "--steps", "2")
	test.That(t, errors.Is(err, path.ErrUnknownCommand), test.ShouldBeTrue)

	_, err = run(t, "angles", "--path", "M0 0 L1 1", "--trajectory", "b")
	test.That(t, err, test.ShouldNotBeNil)

	_, err = run(t, "angles", "--trajectory", "b", "--steps", "0")
	test.That(t, err, test.ShouldNotBeNil)
}

func TestPlot(t *testing.T) {
	file := filepath.Join(t.TempDir(), "eight.png")
	out, err := run(t, "plot", "--trajectory", "e", "--out", file)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, out, test.ShouldContainSubstring, file)
	info, err := os.Stat(file)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, info.Size(), test.ShouldBeGreaterThan, 0)

	file = filepath.Join(t.TempDir(), "line.svg")
	_, err = run(t, "plot", "--path", "M0 0 L80 40", "-o", file)
	test.That(t, err, test.ShouldBeNil)

	_, err = run(t, "plot", "--trajectory", "w", "-o", file)
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, err.Error(), test.ShouldContainSubstring, "no path to plot")
}
