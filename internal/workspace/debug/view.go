package debug

import (
	"fmt"

	"ojspace/internal/workspace/status"
)

// Block is one titled payload of the result view.
type Block struct {
	Title string
	Body  string
}

// View is everything a host needs to draw the panel.
type View struct {
	Tab      Tab
	Running  bool
	Samples  int
	Selected int
	Input    string
	Expected string

	// Result fields; HasResult is false until the first successful run.
	HasResult     bool
	Status        status.Classification
	IsCorrect     bool
	InputEcho     Block
	Output        Block
	OutputIsError bool
	ExpectedEcho  Block
	Summary       string
}

// View renders the panel state. The error message, when present, replaces the
// program output whatever the status says.
func (p *Panel) View() View {
	p.mu.Lock()
	defer p.mu.Unlock()

	v := View{
		Tab:      p.tab,
		Running:  p.running,
		Samples:  len(p.samples),
		Selected: p.selected,
		Input:    p.input,
		Expected: p.expected,
	}
	if p.result == nil {
		return v
	}

	r := p.result
	v.HasResult = true
	v.Status = status.Classify(r.Status)
	v.IsCorrect = r.IsCorrect
	v.InputEcho = Block{Title: "Input", Body: p.ranInput}
	v.Output = Block{Title: "Output", Body: r.Output}
	if r.ErrorMessage != "" {
		v.Output = Block{Title: "Error", Body: r.ErrorMessage}
		v.OutputIsError = true
	}
	v.ExpectedEcho = Block{Title: "Expected Output", Body: r.ExpectedOutput}
	v.Summary = Summary(r.TimeUsed, r.MemoryUsed)
	return v
}

// Summary formats the timing/memory line.
func Summary(timeMs int64, memoryMb float64) string {
	return fmt.Sprintf("Time: %d ms  Memory: %.2f MB", timeMs, memoryMb)
}
