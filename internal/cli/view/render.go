// Package view renders workspace state and submissions for the terminal.
// Every status goes through status.Classify.
package view

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"ojspace/internal/cli/state"
	"ojspace/internal/judgeclient"
	"ojspace/internal/workspace/debug"
	"ojspace/internal/workspace/editor"
	"ojspace/internal/workspace/layout"
	"ojspace/internal/workspace/notice"
	"ojspace/internal/workspace/sample"
	"ojspace/internal/workspace/status"

	"github.com/fatih/color"
)

var palette = map[status.Color]color.Attribute{
	status.ColorSuccess:   color.FgGreen,
	status.ColorDanger:    color.FgRed,
	status.ColorWarning:   color.FgYellow,
	status.ColorInfo:      color.FgCyan,
	status.ColorPrimary:   color.FgBlue,
	status.ColorSecondary: color.FgMagenta,
}

var noticePalette = map[notice.Level]status.Color{
	notice.LevelInfo:    status.ColorInfo,
	notice.LevelSuccess: status.ColorSuccess,
	notice.LevelWarning: status.ColorWarning,
	notice.LevelError:   status.ColorDanger,
}

// Renderer writes views to out.
type Renderer struct {
	out   io.Writer
	color bool
}

func NewRenderer(out io.Writer, useColor bool) *Renderer {
	return &Renderer{out: out, color: useColor}
}

// Paint applies the ANSI color of a color class.
func (r *Renderer) Paint(c status.Color, text string) string {
	attr, ok := palette[c]
	if !ok {
		return text
	}
	painter := color.New(attr, color.Bold)
	if r.color {
		painter.EnableColor()
	} else {
		painter.DisableColor()
	}
	return painter.Sprint(text)
}

// Status renders a raw verdict string.
func (r *Renderer) Status(raw string) string {
	c := status.Classify(raw)
	return r.Paint(c.Color, c.Label)
}

func (r *Renderer) printf(format string, args ...interface{}) {
	_, _ = fmt.Fprintf(r.out, format, args...)
}

// Notice prints a toast.
func (r *Renderer) Notice(n notice.Notice) {
	r.printf("%s %s\n", r.Paint(noticePalette[n.Level], "["+string(n.Level)+"]"), n.Message)
}

// Samples lists the sample chips.
func (r *Renderer) Samples(samples []sample.Sample, selected int) {
	if len(samples) == 0 {
		r.printf("no sample cases\n")
		return
	}
	for i, s := range samples {
		marker := " "
		if i == selected {
			marker = "*"
		}
		r.printf("%s sample %d\n", marker, i)
		r.block("input", s.Input)
		r.block("output", s.Output)
		if s.Explanation != "" {
			r.block("explanation", s.Explanation)
		}
	}
}

// Debug renders the debug panel.
func (r *Renderer) Debug(v debug.View) {
	if v.Running {
		r.printf("%s\n", r.Paint(status.ColorPrimary, "running..."))
	}
	if v.Tab == debug.TabInput || !v.HasResult {
		r.printf("[input] selected sample: %s\n", selectedLabel(v.Selected))
		r.block("input", v.Input)
		r.block("expected output", v.Expected)
		if !v.HasResult {
			return
		}
		r.printf("(last result available: result output)\n")
		return
	}

	verdict := r.Paint(v.Status.Color, v.Status.Label)
	if v.IsCorrect {
		verdict += " (correct)"
	}
	r.printf("[output] %s\n", verdict)
	r.block(strings.ToLower(v.InputEcho.Title), v.InputEcho.Body)
	title := strings.ToLower(v.Output.Title)
	if v.OutputIsError {
		title = r.Paint(status.ColorDanger, title)
	}
	r.block(title, v.Output.Body)
	r.block(strings.ToLower(v.ExpectedEcho.Title), v.ExpectedEcho.Body)
	r.printf("%s\n", v.Summary)
}

// Editor prints the editor settings line and, when withCode is set, the buffer.
func (r *Renderer) Editor(st editor.State, withCode bool) {
	r.printf("language=%s theme=%s font=%d tab=%d\n", st.Language, st.Theme, st.FontSize, st.TabSize)
	if withCode {
		r.block("code", st.Code)
	}
}

// Layout prints the side panel state.
func (r *Renderer) Layout(st layout.State) {
	state := "closed"
	if st.Open {
		state = "open"
	}
	if st.Resizing {
		state += " (resizing)"
	}
	r.printf("panel %s width=%.0fpx ratio=%.3f viewport=%.0fpx\n", state, st.WidthPx, st.WidthRatio, st.Viewport)
}

// SubmissionList renders one page of submissions as a table.
func (r *Renderer) SubmissionList(page *judgeclient.SubmissionPage) {
	if page == nil || len(page.Items) == 0 {
		r.printf("no submissions\n")
		return
	}
	// The painted status is the trailing cell: tabwriter counts ANSI bytes
	// as width, and only tab-terminated cells are aligned.
	tw := tabwriter.NewWriter(r.out, 0, 4, 2, ' ', 0)
	_, _ = fmt.Fprintln(tw, "ID\tPROBLEM\tLANG\tTIME\tMEMORY\tCREATED\tSTATUS")
	for _, item := range page.Items {
		_, _ = fmt.Fprintf(tw, "%s\t%d\t%s\t%dms\t%.1fMB\t%s\t%s\n",
			item.SubmissionID, item.ProblemID, item.Language,
			item.TimeUsed, item.MemoryUsed, item.CreatedAt, r.Status(item.Status))
	}
	_ = tw.Flush()
	r.printf("page %d, %d of %d\n", page.Page, len(page.Items), page.Total)
}

// SubmissionDetail renders one submission.
func (r *Renderer) SubmissionDetail(d *judgeclient.SubmissionDetail) {
	r.printf("submission %s  problem %d  %s\n", d.SubmissionID, d.ProblemID, d.Language)
	r.printf("status: %s", r.Status(d.Status))
	if d.Score > 0 {
		r.printf("  score: %d", d.Score)
	}
	r.printf("\n%s\n", debug.Summary(d.TimeUsed, d.MemoryUsed))
	if d.ErrorMessage != "" {
		r.block(r.Paint(status.ColorDanger, "error"), d.ErrorMessage)
	}
	for _, c := range d.Cases {
		r.printf("  #%d %s %dms %.1fMB\n", c.Index, r.Status(c.Status), c.TimeUsed, c.MemoryUsed)
	}
}

// Recent lists the submissions remembered locally.
func (r *Renderer) Recent(items []state.Recent) {
	if len(items) == 0 {
		r.printf("no recent submissions\n")
		return
	}
	tw := tabwriter.NewWriter(r.out, 0, 4, 2, ' ', 0)
	_, _ = fmt.Fprintln(tw, "ID\tPROBLEM\tLANG\tSUBMITTED")
	for _, item := range items {
		_, _ = fmt.Fprintf(tw, "%s\t%d\t%s\t%s\n",
			item.ID, item.ProblemID, item.Language, item.SubmittedAt.Local().Format("2006-01-02 15:04:05"))
	}
	_ = tw.Flush()
}

func (r *Renderer) block(title, body string) {
	r.printf("--- %s ---\n", title)
	if body == "" {
		r.printf("(empty)\n")
		return
	}
	r.printf("%s", body)
	if !strings.HasSuffix(body, "\n") {
		r.printf("\n")
	}
}

func selectedLabel(i int) string {
	if i < 0 {
		return "none"
	}
	return fmt.Sprintf("%d", i)
}
