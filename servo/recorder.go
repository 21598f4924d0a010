package servo

import (
	"fmt"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/stewart-rig/stewart/kinematics"
	"github.com/stewart-rig/stewart/utils"
)

type record struct {
	at     time.Duration
	angles kinematics.ServoAngles
}

// Recorder collects solutions over time for export. With calibrations it records servo
// commands, otherwise horn angles in degrees. Infeasible legs are written as their status.
type Recorder struct {
	cal     *Calibrations
	records []record
}

// NewRecorder returns an empty recorder. cal may be nil.
func NewRecorder(cal *Calibrations) *Recorder {
	return &Recorder{cal: cal}
}

// Record adds the solution reached at elapsed time at.
func (r *Recorder) Record(at time.Duration, angles kinematics.ServoAngles) {
	r.records = append(r.records, record{at: at, angles: angles})
}

// Len returns the number of recorded solutions.
func (r *Recorder) Len() int {
	return len(r.records)
}

// Reset drops all recorded solutions.
func (r *Recorder) Reset() {
	r.records = nil
}

func (r *Recorder) cell(leg int, angle kinematics.ServoAngle) string {
	if !angle.Valid() {
		return angle.Status.String()
	}
	if r.cal == nil {
		return fmt.Sprintf("%.2f", utils.RadToDeg(angle.Angle))
	}
	cmd, err := r.cal[leg].Command(angle.Angle)
	if err != nil {
		return "out of range"
	}
	return fmt.Sprint(cmd)
}

func (r *Recorder) table() table.Writer {
	t := table.NewWriter()
	header := table.Row{"t (ms)"}
	var legs kinematics.ServoAngles
	for i := range legs {
		header = append(header, fmt.Sprintf("servo %d", i))
	}
	t.AppendHeader(header)
	for _, rec := range r.records {
		row := table.Row{rec.at.Milliseconds()}
		for i, angle := range rec.angles {
			row = append(row, r.cell(i, angle))
		}
		t.AppendRow(row)
	}
	return t
}

// Render returns the recording as a text table.
func (r *Recorder) Render() string {
	return r.table().Render()
}

// RenderCSV returns the recording as CSV.
func (r *Recorder) RenderCSV() string {
	return r.table().RenderCSV()
}
