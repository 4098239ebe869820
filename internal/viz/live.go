package viz

import (
	"fmt"
	"math"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"flightdyn/internal/fdm"
	"flightdyn/internal/mathx"
	"flightdyn/internal/telemetry"
)

const (
	canvasWidth     = 56
	canvasHeight    = 18
	historyCapacity = 600
	frameDt         = 1.0 / 30.0
)

var (
	canvasStyle = lipgloss.NewStyle().Padding(1, 2)
	statsStyle  = lipgloss.NewStyle().
			Border(lipgloss.NormalBorder(), false, false, false, true).
			BorderForeground(lipgloss.Color("240")).
			Padding(1, 2).Width(44)
	headerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("86")).Bold(true).MarginBottom(1)
	labelStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Width(12)
	valueStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	graphStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("49")).Padding(1, 0)
	helpStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("240")).MarginTop(2)
)

type TickMsg time.Time

// Flight is the live interactive view: it steps the model in real time
// and renders an attitude indicator with a stats panel.
type Flight struct {
	model    *fdm.Model
	params   fdm.Parameters
	handling fdm.Config
	initial  fdm.State
	wind     mathx.Vec3

	controls fdm.Controls
	t        float64
	lastTick time.Time
	running  bool
	showHelp bool

	canvas  *Canvas
	history *telemetry.Recorder
}

func NewFlight(params fdm.Parameters, handling fdm.Config, initial fdm.State, wind mathx.Vec3) Flight {
	m := fdm.New(params, initial, handling)
	m.SetWindEnuMps(wind)
	return Flight{
		model:    m,
		params:   params,
		handling: handling,
		initial:  initial,
		wind:     wind,
		running:  true,
		canvas:   NewCanvas(canvasWidth, canvasHeight),
		history:  telemetry.NewRecorder(historyCapacity),
	}
}

func (f Flight) Init() tea.Cmd {
	return tea.Tick(time.Second/30, func(t time.Time) tea.Msg { return TickMsg(t) })
}

func (f Flight) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return f, tea.Quit
		case " ":
			f.running = !f.running
		case "r":
			f.reset()
		case "s":
			f.controls.Elevator = mathx.Clamp(f.controls.Elevator-0.1, -1, 1)
		case "w":
			f.controls.Elevator = mathx.Clamp(f.controls.Elevator+0.1, -1, 1)
		case "a":
			f.controls.Ailerons = mathx.Clamp(f.controls.Ailerons+0.1, -1, 1)
		case "d":
			f.controls.Ailerons = mathx.Clamp(f.controls.Ailerons-0.1, -1, 1)
		case "z":
			f.controls.Rudder = mathx.Clamp(f.controls.Rudder+0.1, -1, 1)
		case "x":
			f.controls.Rudder = mathx.Clamp(f.controls.Rudder-0.1, -1, 1)
		case "+", "=":
			f.controls.Throttle = mathx.Clamp(f.controls.Throttle+0.05, 0, 1)
		case "-", "_":
			f.controls.Throttle = mathx.Clamp(f.controls.Throttle-0.05, 0, 1)
		case "0":
			f.controls.Elevator, f.controls.Ailerons, f.controls.Rudder = 0, 0, 0
		case "?":
			f.showHelp = !f.showHelp
		}
	case TickMsg:
		// Step by measured wall time so a hitching terminal does not
		// drift sim time; the model caps and substeps large gaps.
		now := time.Time(msg)
		dt := frameDt
		if !f.lastTick.IsZero() {
			dt = now.Sub(f.lastTick).Seconds()
		}
		f.lastTick = now
		if f.running {
			f.model.Update(dt, f.controls)
			f.t += math.Min(dt, 0.25)
			f.history.OnStep(f.model.State(), f.controls, f.t)
		}
		return f, tea.Tick(time.Second/30, func(t time.Time) tea.Msg { return TickMsg(t) })
	}
	return f, nil
}

func (f *Flight) reset() {
	m := fdm.New(f.params, f.initial, f.handling)
	m.SetWindEnuMps(f.wind)
	f.model = m
	f.t = 0
	f.controls = fdm.Controls{}
	f.history.Reset()
}

func (f Flight) View() string {
	f.drawAttitude()
	canvasView := canvasStyle.Render(f.canvas.String())

	st := f.model.State()
	var s strings.Builder
	s.WriteString(headerStyle.Render("FLIGHT") + "\n")
	if f.running {
		s.WriteString("RUNNING\n\n")
	} else {
		s.WriteString("PAUSED\n\n")
	}

	if alt := f.history.Channel(telemetry.AltitudeM); len(alt) > 1 {
		chart := asciigraph.Plot(alt, asciigraph.Height(4), asciigraph.Width(30), asciigraph.Caption("Altitude (m)"))
		s.WriteString(graphStyle.Render(chart) + "\n\n")
	}

	s.WriteString(labelStyle.Render("Time") + valueStyle.Render(fmt.Sprintf("%.1fs", f.t)) + "\n")
	s.WriteString(labelStyle.Render("Altitude") + valueStyle.Render(fmt.Sprintf("%.1f m", st.PositionEnuM.Z)) + "\n")
	s.WriteString(labelStyle.Render("Speed") + valueStyle.Render(fmt.Sprintf("%.1f m/s", st.VelocityEnuMps.Norm())) + "\n")
	s.WriteString(labelStyle.Render("Heading") + valueStyle.Render(fmt.Sprintf("%.0f°", mathx.RadToDeg(st.YawRad))) + "\n")
	s.WriteString(labelStyle.Render("Pitch") + valueStyle.Render(fmt.Sprintf("%.1f°", mathx.RadToDeg(st.PitchRad))) + "\n")
	s.WriteString(labelStyle.Render("Roll") + valueStyle.Render(fmt.Sprintf("%.1f°", mathx.RadToDeg(st.RollRad))) + "\n")

	s.WriteString("\nCONTROLS\n")
	s.WriteString(controlBar("elevator", f.controls.Elevator) + "\n")
	s.WriteString(controlBar("ailerons", f.controls.Ailerons) + "\n")
	s.WriteString(controlBar("rudder", f.controls.Rudder) + "\n")
	s.WriteString(controlBar("throttle", f.controls.Throttle*2-1) + "\n")

	s.WriteString(helpStyle.Render("\n─────────────────────\nW/S:Pitch A/D:Roll Z/X:Yaw +/-:Throttle\n0:Center SP:Pause R:Reset Q:Quit ?:Help"))

	statsView := statsStyle.Render(s.String())
	mainView := lipgloss.JoinHorizontal(lipgloss.Top, canvasView, statsView)

	if f.showHelp {
		return helpOverlay + "\n\n" + mainView
	}
	return mainView
}

const helpOverlay = `
╔══════════════════════════════════════╗
║          KEYBOARD SHORTCUTS          ║
╠══════════════════════════════════════╣
║  W / S    - Elevator (nose dn / up)  ║
║  A / D    - Ailerons (bank l / r)    ║
║  Z / X    - Rudder (yaw l / r)       ║
║  + / -    - Throttle                 ║
║  0        - Center all surfaces      ║
║  Space    - Pause/Resume             ║
║  R        - Reset flight             ║
║  Q        - Quit                     ║
║  ?        - Toggle this help         ║
╚══════════════════════════════════════╝`

func controlBar(name string, v float64) string {
	const width = 11
	pos := int((mathx.Clamp(v, -1, 1) + 1) / 2 * float64(width-1))
	bar := []byte(strings.Repeat("-", width))
	bar[width/2] = '|'
	bar[pos] = '#'
	return fmt.Sprintf("%-10s [%s]", name, string(bar))
}

// drawAttitude renders an artificial horizon: the horizon line shifts down
// as the nose rises and tilts against the bank, with a fixed aircraft
// symbol in the center.
func (f *Flight) drawAttitude() {
	f.canvas.Clear()

	st := f.model.State()
	cw, ch := canvasWidth*2, canvasHeight*4
	cx, cy := cw/2, ch/2
	pixPerRad := float64(ch) / (100 * math.Pi / 180)

	slope := math.Tan(st.RollRad)
	slope = mathx.Clamp(slope, -5, 5)
	offset := st.PitchRad * pixPerRad

	horizonY := func(x int) int {
		return cy + int(offset-float64(x-cx)*slope)
	}
	f.canvas.DrawLine(0, horizonY(0), cw-1, horizonY(cw-1))

	// pitch ladder every 10 degrees
	for deg := -30; deg <= 30; deg += 10 {
		if deg == 0 {
			continue
		}
		dy := int(offset - float64(deg)*math.Pi/180*pixPerRad)
		for _, side := range []int{-1, 1} {
			x0 := cx + side*8
			x1 := cx + side*16
			f.canvas.DrawLine(x0, cy+dy-int(float64(x0-cx)*slope), x1, cy+dy-int(float64(x1-cx)*slope))
		}
	}

	// aircraft symbol
	f.canvas.DrawLine(cx-14, cy, cx-5, cy)
	f.canvas.DrawLine(cx+5, cy, cx+14, cy)
	f.canvas.DrawLine(cx-5, cy, cx-2, cy+3)
	f.canvas.DrawLine(cx+5, cy, cx+2, cy+3)
	f.canvas.DrawMarker(cx, cy, 1)
}
