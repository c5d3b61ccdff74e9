package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/lucasb-eyer/go-colorful"

	"github.com/litescript/ls-nucleus/internal/version"
)

// DiagnosticTitle heads the view shown when the scene cannot start.
const DiagnosticTitle = "Error Loading 3D Scene"

var (
	dimStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("60"))
	accentStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#7B2CBF"))
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#E84A27")).Bold(true)
	pausedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#F5A623")).Bold(true)
)

// Title gradient stops: blue -> purple -> magenta -> pink.
var titleStops = []colorful.Color{
	mustHex("#3B82F6"),
	mustHex("#8B5CF6"),
	mustHex("#D946EF"),
	mustHex("#EC4899"),
}

func mustHex(s string) colorful.Color {
	c, err := colorful.Hex(s)
	if err != nil {
		panic(err)
	}
	return c
}

// hudHeight is the number of text rows taken by the HUD.
const hudHeight = 2

func (m Model) chromeHeight() int {
	if m.showHUD && m.phase == phaseRunning {
		return hudHeight
	}
	return 0
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Initializing..."
	}

	switch m.phase {
	case phaseFailed:
		return m.renderDiagnostic()
	case phaseLoading:
		return m.renderLoading()
	}

	if w, h := m.surfaceSize(); w <= 0 || h <= 0 {
		return "Terminal too small"
	}

	if m.chromeHeight() == 0 {
		return m.eng.view
	}
	return m.eng.view + "\n" + m.renderHUD()
}

func (m Model) renderDiagnostic() string {
	var b strings.Builder
	b.WriteString(errorStyle.Render(DiagnosticTitle))
	b.WriteString("\n\n")
	if m.err != nil {
		b.WriteString(m.err.Error())
		b.WriteString("\n\n")
	}
	b.WriteString(dimStyle.Render("q: quit"))

	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("#E84A27")).
		Padding(1, 2).
		Width(min(72, max(20, m.width-4))).
		Render(b.String())

	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, box)
}

func (m Model) renderLoading() string {
	spinnerFrames := []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}
	spinner := spinnerFrames[m.animTick%len(spinnerFrames)]
	line := accentStyle.Render(spinner) + " " + m.renderShimmerText("Loading textures...")
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, line)
}

func (m Model) renderHUD() string {
	st := m.eng.scene.Stats()

	auto := "off"
	if m.eng.scene.Controls.AutoRotate {
		auto = "on"
	}
	stats := dimStyle.Render(fmt.Sprintf("%3.0f fps | tick %d | dist %.0f | auto-rotate %s | %dx%d px",
		m.eng.fps, m.eng.sched.Ticks(), st.CameraDistance, auto, st.Width, st.Height))

	line := "  " + renderTitle(strings.ToUpper(version.Name)) + " " +
		dimStyle.Render("v"+version.Version) + "  " + stats
	if !m.eng.sched.Running() {
		line += "  " + pausedStyle.Render("PAUSED")
	}

	help := dimStyle.Render("space: pause | arrows: orbit | +/-: zoom | a: auto-rotate | r: reset | h: hud | q: quit")
	if m.statusMsg != "" {
		help = dimStyle.Render(m.statusMsg) + "  " + dimStyle.Render("|") + "  " + help
	}
	return line + "\n  " + help
}

// renderTitle renders text with a horizontal truecolor gradient.
func renderTitle(text string) string {
	runes := []rune(text)
	var b strings.Builder
	for i, r := range runes {
		color := gradientColor(i, len(runes))
		style := lipgloss.NewStyle().Foreground(lipgloss.Color(color)).Bold(true)
		b.WriteString(style.Render(string(r)))
	}
	return b.String()
}

// gradientColor returns a hex color for position col of width along the
// title gradient.
func gradientColor(col, width int) string {
	if width <= 1 {
		return titleStops[0].Hex()
	}
	t := float64(col) / float64(width-1) * float64(len(titleStops)-1)
	i := int(t)
	if i >= len(titleStops)-1 {
		return titleStops[len(titleStops)-1].Hex()
	}
	if t == float64(i) {
		return titleStops[i].Hex()
	}
	return titleStops[i].BlendHcl(titleStops[i+1], t-float64(i)).Clamped().Hex()
}

// renderShimmerText renders text with a subtle moving shine effect.
func (m Model) renderShimmerText(text string) string {
	runes := []rune(text)
	textLen := len(runes)
	if textLen == 0 {
		return ""
	}

	// Shimmer sweeps smoothly across
	pos := m.animTick % (textLen + 8)

	base := mustHex("#504678")
	highlight := mustHex("#B4A0DC")

	var result strings.Builder
	for i, r := range runes {
		dist := i - pos + 4
		if dist < 0 {
			dist = -dist
		}
		t := 1 - float64(min(dist, 6))/6
		c := base.BlendRgb(highlight, t)
		style := lipgloss.NewStyle().Foreground(lipgloss.Color(c.Hex()))
		result.WriteString(style.Render(string(r)))
	}
	return result.String()
}
