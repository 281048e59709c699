package viz

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/lssforecast/internal/forecast"
)

var (
	titleStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("86")).Bold(true)
	labelStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("242")).Width(14)
	valueStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("255"))
	graphStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("82"))
	errStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	helpStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("238"))
	warnStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("220"))
)

// Steps per keypress for the tunable parameters.
const (
	amplitudeStep = 0.001
	phaseStep     = 0.1
	pivotFactor   = 1.1
)

// Explorer is an interactive view of the modulation imprint: adjust the
// amplitude, phase and pivot and watch the modulation factor, σ(A_φ) and SNR
// respond.
type Explorer struct {
	forecaster *forecast.Forecaster
	survey     forecast.SurveySpec
	opts       forecast.Options

	result *forecast.Result
	err    error
	width  int
}

func NewExplorer(f *forecast.Forecaster, survey forecast.SurveySpec, opts forecast.Options) *Explorer {
	e := &Explorer{forecaster: f, survey: survey, opts: opts, width: 80}
	e.recompute()
	return e
}

func (e *Explorer) recompute() {
	e.result, e.err = e.forecaster.Forecast(e.survey, e.opts)
}

func (e *Explorer) Init() tea.Cmd { return nil }

func (e *Explorer) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		e.width = msg.Width
		return e, nil
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "escape":
			return e, tea.Quit
		case "l", "right":
			e.opts.Amplitude += amplitudeStep
		case "h", "left":
			e.opts.Amplitude -= amplitudeStep
			if e.opts.Amplitude < 0 {
				e.opts.Amplitude = 0
			}
		case "k", "up":
			e.opts.Phase += phaseStep
		case "j", "down":
			e.opts.Phase -= phaseStep
		case "]":
			e.opts.KPivot *= pivotFactor
		case "[":
			e.opts.KPivot /= pivotFactor
		case "r":
			e.opts = forecast.DefaultOptions()
		default:
			return e, nil
		}
		e.recompute()
	}
	return e, nil
}

func (e *Explorer) View() string {
	var s strings.Builder

	s.WriteString("\n  " + titleStyle.Render(strings.ToUpper(e.survey.Name)) + "  ")
	s.WriteString(helpStyle.Render("modulation explorer") + "\n\n")

	if e.err != nil {
		s.WriteString("  " + errStyle.Render(e.err.Error()) + "\n")
		s.WriteString("\n  " + helpStyle.Render("h/l amplitude  j/k phase  [/] pivot  r reset  q quit") + "\n")
		return s.String()
	}

	res := e.result
	graphWidth := e.width - 12
	if graphWidth > 90 {
		graphWidth = 90
	}
	if graphWidth < 20 {
		graphWidth = 20
	}

	chart := asciigraph.Plot(res.Factor,
		asciigraph.Height(10),
		asciigraph.Width(graphWidth),
		asciigraph.Caption(fmt.Sprintf("modulation factor, k in [%.3g, %.3g] h/Mpc", e.survey.KMin, e.survey.KMax)),
	)
	s.WriteString(graphStyle.Render(chart) + "\n\n")

	s.WriteString("  " + labelStyle.Render("amplitude") + valueStyle.Render(fmt.Sprintf("%.4f", e.opts.Amplitude)) + "\n")
	s.WriteString("  " + labelStyle.Render("phase") + valueStyle.Render(fmt.Sprintf("%.2f rad", e.opts.Phase)) + "\n")
	s.WriteString("  " + labelStyle.Render("k_pivot") + valueStyle.Render(fmt.Sprintf("%.4f h/Mpc", e.opts.KPivot)) + "\n")
	s.WriteString("  " + labelStyle.Render("sigma(A)") + valueStyle.Render(fmt.Sprintf("%.3e", res.SigmaA)) + "\n")

	snr := valueStyle.Render(fmt.Sprintf("%.2f", res.SNR))
	if res.SNR >= 5 {
		snr = warnStyle.Render(fmt.Sprintf("%.2f  detectable", res.SNR))
	}
	s.WriteString("  " + labelStyle.Render("SNR") + snr + "\n")

	s.WriteString("\n  " + helpStyle.Render("h/l amplitude  j/k phase  [/] pivot  r reset  q quit") + "\n")
	return s.String()
}

// RunExplorer starts the interactive view and blocks until quit.
func RunExplorer(f *forecast.Forecaster, survey forecast.SurveySpec, opts forecast.Options) error {
	_, err := tea.NewProgram(NewExplorer(f, survey, opts), tea.WithAltScreen()).Run()
	return err
}
