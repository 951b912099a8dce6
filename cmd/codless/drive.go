package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/NimbleMarkets/ntcharts/canvas/runes"
	"github.com/NimbleMarkets/ntcharts/linechart/streamlinechart"

	"github.com/Rani367/CodLess-sub002/pkg/hub"
	"github.com/Rani367/CodLess-sub002/pkg/robot"
	"github.com/Rani367/CodLess-sub002/pkg/session"
	"github.com/Rani367/CodLess-sub002/pkg/teleop"
	"github.com/Rani367/CodLess-sub002/pkg/telemetry"
)

type DriveCommand struct {
	Dev       bool   `long:"dev" description:"Developer mode: drive the simulator, no hub needed"`
	Telemetry string `long:"telemetry" description:"Serve telemetry on this address (e.g. :8080)"`
	RunsDir   string `long:"runs" default:"saved_runs" description:"Directory for saved runs"`
}

const (
	headerHeight = 2 // title + blank line
	legendHeight = 2 // legend row + blank
	footerHeight = 7 // log box height
	maxLogs      = 5 // number of log messages to show
	borderSize   = 2 // chart border
)

var axisColors = map[string]string{
	"speed": "46",  // green
	"turn":  "208", // orange
}

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	chartStyle  = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("240"))
	statusStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	recStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("196"))
)

type driveModel struct {
	ctrl     *teleop.Controller
	hubCtl   *hub.Controller
	telem    *telemetry.Server
	chart    *streamlinechart.Model
	keymap   teleop.Keymap
	held     map[string]bool
	width    int
	height   int
	logs     []string
	quitting bool
}

func (m *driveModel) addLog(msg string) {
	m.logs = append(m.logs, msg)
	if len(m.logs) > maxLogs {
		m.logs = m.logs[len(m.logs)-maxLogs:]
	}
}

// Messages from the controllers
type stateMsg teleop.State
type logMsg string
type hubEventMsg hub.Event

func waitForState(ctrl *teleop.Controller) tea.Cmd {
	return func() tea.Msg {
		return stateMsg(<-ctrl.States())
	}
}

func waitForLog(ctrl *teleop.Controller) tea.Cmd {
	return func() tea.Msg {
		return logMsg(<-ctrl.Logs())
	}
}

func waitForHubEvent(hubCtl *hub.Controller) tea.Cmd {
	return func() tea.Msg {
		return hubEventMsg(<-hubCtl.Events())
	}
}

func waitForHubLog(hubCtl *hub.Controller) tea.Cmd {
	return func() tea.Msg {
		return logMsg(<-hubCtl.Logs())
	}
}

func (m *driveModel) chartSize() (width, height int) {
	if m.width == 0 || m.height == 0 {
		return 80, 20 // default size before we know terminal size
	}
	width = m.width - borderSize - 2
	if width < 40 {
		width = 40
	}
	height = m.height - headerHeight - legendHeight - footerHeight - borderSize
	if height < 10 {
		height = 10
	}
	return width, height
}

func (m *driveModel) resizeChart() {
	w, h := m.chartSize()
	m.chart.Resize(w, h)
}

func initialDriveModel(ctrl *teleop.Controller, hubCtl *hub.Controller, telem *telemetry.Server) driveModel {
	chart := streamlinechart.New(80, 20,
		streamlinechart.WithYRange(-300, 300),
	)
	for name, color := range axisColors {
		style := lipgloss.NewStyle().Foreground(lipgloss.Color(color))
		chart.SetDataSetStyles(name, runes.ThinLineStyle, style)
	}

	return driveModel{
		ctrl:   ctrl,
		hubCtl: hubCtl,
		telem:  telem,
		chart:  &chart,
		held:   make(map[string]bool),
	}
}

func (m driveModel) Init() tea.Cmd {
	cmds := []tea.Cmd{
		waitForState(m.ctrl),
		waitForLog(m.ctrl),
	}
	if m.hubCtl != nil {
		cmds = append(cmds, waitForHubEvent(m.hubCtl), waitForHubLog(m.hubCtl))
	}
	return tea.Batch(cmds...)
}

func (m driveModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resizeChart()
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case stateMsg:
		state := teleop.State(msg)
		m.chart.PushDataSet("speed", state.Snapshot.Speed.Actual)
		m.chart.PushDataSet("turn", state.Snapshot.Turn.Actual)
		m.chart.DrawAll()
		if m.telem != nil {
			m.telem.Publish(state.Snapshot)
		}
		return m, waitForState(m.ctrl)

	case logMsg:
		m.addLog(string(msg))
		return m, waitForLog(m.ctrl)

	case hubEventMsg:
		e := hub.Event(msg)
		switch e.Kind {
		case hub.EventHubFound:
			if err := m.hubCtl.ConnectToHub(); err != nil {
				m.addLog(fmt.Sprintf("Connect: %v", err))
			}
		case hub.EventStateChanged:
			if e.State == hub.Connected {
				if err := m.ctrl.PushConfig(); err != nil {
					m.addLog(fmt.Sprintf("Config push: %v", err))
				}
			}
		}
		return m, waitForHubEvent(m.hubCtl)
	}

	return m, nil
}

// handleKey routes movement keys through the chord map. Terminals
// deliver no key-release events, so pressing a held movement key again
// releases it.
func (m driveModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()
	switch key {
	case "ctrl+c", "esc":
		m.quitting = true
		return m, tea.Quit

	case "f9":
		if m.ctrl.Recording() {
			m.ctrl.StopRecording()
		} else {
			m.ctrl.StartRecording("unsaved")
		}
		return m, nil

	case "ctrl+z":
		if m.ctrl.Recorder().Undo() {
			m.addLog("Undid last recorded command")
		}
		return m, nil

	case "ctrl+y":
		if m.ctrl.Recorder().Redo() {
			m.addLog("Redid recorded command")
		}
		return m, nil

	case "f5":
		m.ctrl.ResetSimulation()
		return m, nil
	}

	pressed := !m.held[key]
	cmd, ok := m.keymap.Handle(key, pressed)
	if !ok {
		return m, nil
	}
	m.held[key] = pressed
	if key == " " { // all stop releases the drive chord
		delete(m.held, "w")
		delete(m.held, "s")
		delete(m.held, "a")
		delete(m.held, "d")
	}
	if err := m.ctrl.Execute(cmd); err != nil {
		m.addLog(fmt.Sprintf("Command: %v", err))
	}
	return m, nil
}

func (m driveModel) View() string {
	if m.quitting {
		return "Drive session ended.\n"
	}

	var sb strings.Builder

	sb.WriteString(titleStyle.Render("CodLess Drive"))
	if m.hubCtl != nil {
		sb.WriteString(statusStyle.Render(fmt.Sprintf("  hub: %s", m.hubCtl.State())))
	} else {
		sb.WriteString(statusStyle.Render("  simulator"))
	}
	if m.ctrl.Recording() {
		sb.WriteString("  " + recStyle.Render("● REC"))
	}
	sb.WriteString("\n\n")

	sb.WriteString(chartStyle.Render(m.chart.View()))
	sb.WriteString("\n")

	sb.WriteString(renderLegend())
	sb.WriteString("\n")

	logStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("240")).
		Width(m.width - 4)

	var logLines string
	if len(m.logs) == 0 {
		logLines = statusStyle.Render("WASD drive · Q/E arm 1 · R/F arm 2 · space stop · F9 record · esc quit")
	} else {
		logLines = strings.Join(m.logs, "\n")
	}
	sb.WriteString(logStyle.Render(logLines))
	sb.WriteString("\n")

	return sb.String()
}

func renderLegend() string {
	var items []string
	for _, name := range []string{"speed", "turn"} {
		colorStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(axisColors[name])).Bold(true)
		items = append(items, colorStyle.Render("━━")+" "+name)
	}
	return strings.Join(items, "  ")
}

func (c *DriveCommand) Execute(args []string) error {
	cfg := loadOrDefaultConfig()

	var hubCtl *hub.Controller
	if !c.Dev {
		var err error
		hubCtl, err = hub.New()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Bluetooth unavailable (%v); falling back to developer mode.\n", err)
			c.Dev = true
		}
	}

	ctrl, err := teleop.NewController(*cfg, hubCtl)
	if err != nil {
		log.Fatalf("Failed to create controller: %v", err)
	}
	ctrl.SetDeveloperMode(c.Dev)

	var telem *telemetry.Server
	if c.Telemetry != "" {
		telem = telemetry.NewServer()
		go func() {
			if err := http.ListenAndServe(c.Telemetry, telem.Handler()); err != nil {
				log.Printf("Telemetry server error: %v", err)
			}
		}()
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		if err := ctrl.Start(ctx); err != nil && err != context.Canceled {
			log.Printf("Controller error: %v", err)
		}
	}()

	if hubCtl != nil {
		hubCtl.ScanForHub()
	}

	p := tea.NewProgram(initialDriveModel(ctrl, hubCtl, telem), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		log.Fatalf("Error running program: %v", err)
	}

	if hubCtl != nil {
		hubCtl.DisconnectFromHub()
	}

	ctrl.StopRecording()
	promptSaveRecording(ctrl, session.NewStore(c.RunsDir))
	return nil
}

// promptSaveRecording offers to persist a non-empty recording once the
// TUI has exited.
func promptSaveRecording(ctrl *teleop.Controller, store *session.Store) {
	n := ctrl.Recorder().Len()
	if n == 0 {
		return
	}

	var save bool
	var name string
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(fmt.Sprintf("Save recording? (%d commands)", n)).
				Value(&save),
			huh.NewInput().
				Title("Run name").
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return fmt.Errorf("name must not be empty")
					}
					return nil
				}).
				Value(&name),
		),
	)
	if err := form.Run(); err != nil || !save {
		return
	}

	run := ctrl.Run()
	run.Name = name
	if err := store.Save(run); err != nil {
		fmt.Fprintf(os.Stderr, "Error saving run: %v\n", err)
		return
	}
	fmt.Printf("Saved run %q (%d commands)\n", name, n)
}

func loadOrDefaultConfig() *robot.Config {
	if !robot.ConfigExists() {
		fmt.Printf("No %s found, using defaults. Run 'codless config' to adjust.\n", robot.DefaultConfigFile)
		cfg := robot.DefaultConfig()
		return &cfg
	}
	cfg, err := robot.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}
	return cfg
}
