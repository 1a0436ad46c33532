package adapters

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/charmbracelet/lipgloss"

	"turbo-ncu/internal/ports"
	"turbo-ncu/internal/types"
)

const noUpdatesMessage = "All dependencies match the latest package versions :)"

// ReportWriter renders resolution results to a terminal or pipe. Colours
// are dropped automatically when Out is not a terminal.
type ReportWriter struct {
	Out io.Writer

	renderer *lipgloss.Renderer
}

func NewReportWriter(out io.Writer) *ReportWriter {
	return &ReportWriter{
		Out:      out,
		renderer: lipgloss.NewRenderer(out),
	}
}

func (w *ReportWriter) style(color string) lipgloss.Style {
	return w.renderer.NewStyle().Foreground(lipgloss.Color(color))
}

func (w *ReportWriter) updateStyle(class types.UpdateClass) lipgloss.Style {
	switch class {
	case types.UpdateMajor:
		return w.style("1")
	case types.UpdateMinor:
		return w.style("6")
	case types.UpdatePatch:
		return w.style("2")
	default:
		return w.style("3")
	}
}

func (w *ReportWriter) WriteTable(updates []types.UpdateRecord) error {
	if len(updates) == 0 {
		return w.writeLine(w.style("2").Render(noUpdatesMessage))
	}
	nameWidth, currentWidth := 0, 0
	for _, update := range updates {
		nameWidth = max(nameWidth, lipgloss.Width(update.Name))
		currentWidth = max(currentWidth, lipgloss.Width(update.Current))
	}
	var b strings.Builder
	for _, update := range updates {
		fmt.Fprintf(&b, " %s  %s  →  %s\n",
			padRight(update.Name, nameWidth),
			padRight(update.Current, currentWidth),
			w.updateStyle(update.UpdateType).Render(update.NewRange))
	}
	return w.write(b.String())
}

// WriteJSON prints the name to new range map.
func (w *ReportWriter) WriteJSON(updates []types.UpdateRecord) error {
	ranges := make(map[string]string, len(updates))
	for _, update := range updates {
		ranges[update.Name] = update.NewRange
	}
	return w.writeJSON(ranges)
}

func (w *ReportWriter) WriteJSONAll(updates []types.UpdateRecord) error {
	if updates == nil {
		updates = []types.UpdateRecord{}
	}
	return w.writeJSON(updates)
}

func (w *ReportWriter) WriteSummary(checked int, updates int, elapsed time.Duration, hits uint, misses uint) error {
	dim := w.renderer.NewStyle().Faint(true)
	cacheInfo := fmt.Sprintf(" (%s, %s)",
		w.style("2").Render(fmt.Sprintf("%d fetched", misses)),
		w.style("6").Render(fmt.Sprintf("%d from cache", hits)))
	seconds := w.renderer.NewStyle().Bold(true).Render(fmt.Sprintf("%.2fs", elapsed.Seconds()))

	var lead string
	if updates == 0 {
		lead = fmt.Sprintf("Checked %d packages", checked)
	} else {
		suffix := "s"
		if updates == 1 {
			suffix = ""
		}
		lead = fmt.Sprintf("%d update%s found", updates, suffix)
	}
	return w.writeLine(dim.Render(lead) + cacheInfo + dim.Render(" in ") + seconds)
}

func (w *ReportWriter) WriteUpgraded(path string, packageManager string) error {
	install := w.renderer.NewStyle().Bold(true).Render(packageManager + " install")
	return w.write(fmt.Sprintf("\nUpdated %s\n%s\n", path,
		w.style("6").Render("Run "+install+" to install new versions")))
}

func (w *ReportWriter) WriteUpgradeHint() error {
	return w.write("\nRun turbo-ncu --upgrade to update your package.json\n")
}

func (w *ReportWriter) writeJSON(value any) error {
	data, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		return errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to encode report").
			WithCause(err)
	}
	return w.writeLine(string(data))
}

func (w *ReportWriter) writeLine(line string) error {
	return w.write(line + "\n")
}

func (w *ReportWriter) write(text string) error {
	if _, err := io.WriteString(w.Out, text); err != nil {
		return errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to write report").
			WithCause(err)
	}
	return nil
}

func padRight(value string, width int) string {
	gap := width - lipgloss.Width(value)
	if gap <= 0 {
		return value
	}
	return value + strings.Repeat(" ", gap)
}

var _ ports.ReportPort = (*ReportWriter)(nil)
