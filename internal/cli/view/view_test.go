package view

import (
	"bytes"
	"context"
	"regexp"
	"strings"
	"testing"
	"time"

	"ojspace/internal/judgeclient"
	"ojspace/internal/judgeclient/judgetest"
	"ojspace/internal/testutil"
	"ojspace/internal/workspace/debug"
	"ojspace/internal/workspace/status"
)

func TestPaint(t *testing.T) {
	var buf bytes.Buffer
	plain := NewRenderer(&buf, false)
	testutil.AssertEqual(t, plain.Status("wrong_answer"), "Wrong Answer")
	testutil.AssertEqual(t, plain.Status("Partially Correct"), "Partially Correct")

	colored := NewRenderer(&buf, true)
	got := colored.Status("AC")
	testutil.AssertTrue(t, strings.Contains(got, "\x1b[32"), "accepted renders green")
	testutil.AssertTrue(t, strings.Contains(got, "Accepted"), "label kept")
	testutil.AssertEqual(t, colored.Status("skipped"), "skipped")
}

func TestEveryColorClassHasAnANSIColor(t *testing.T) {
	for _, s := range status.All() {
		c := status.Classify(s.String()).Color
		if _, ok := palette[c]; !ok {
			t.Errorf("%s has no terminal color", c)
		}
	}
}

func TestDebug_OutputTab(t *testing.T) {
	var buf bytes.Buffer
	r := NewRenderer(&buf, false)
	r.Debug(debug.View{
		Tab:           debug.TabOutput,
		HasResult:     true,
		Status:        status.Classify("compile_error"),
		InputEcho:     debug.Block{Title: "Input", Body: "1 2"},
		Output:        debug.Block{Title: "Error", Body: "syntax error"},
		OutputIsError: true,
		ExpectedEcho:  debug.Block{Title: "Expected Output", Body: "3"},
		Summary:       debug.Summary(0, 0),
	})

	out := buf.String()
	for _, want := range []string{"[output] Compilation Error", "--- error ---\nsyntax error\n", "--- expected output ---\n3\n", "Time: 0 ms"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestDebug_InputTab(t *testing.T) {
	var buf bytes.Buffer
	NewRenderer(&buf, false).Debug(debug.View{Tab: debug.TabInput, Selected: 1, Input: "5\n"})
	out := buf.String()
	testutil.AssertTrue(t, strings.Contains(out, "selected sample: 1"), out)
	testutil.AssertTrue(t, strings.Contains(out, "--- input ---\n5\n"), out)
	testutil.AssertTrue(t, strings.Contains(out, "--- expected output ---\n(empty)"), out)
}

func TestSubmissionViewsUseClassifier(t *testing.T) {
	var buf bytes.Buffer
	r := NewRenderer(&buf, false)
	r.SubmissionList(&judgeclient.SubmissionPage{
		Items: []judgeclient.SubmissionRecord{{SubmissionID: "7", ProblemID: 1, Language: "cpp", Status: "TIME_LIMIT_EXCEEDED"}},
		Total: 1,
		Page:  1,
	})
	r.SubmissionDetail(&judgeclient.SubmissionDetail{
		SubmissionRecord: judgeclient.SubmissionRecord{SubmissionID: "7", Status: "time-limit-exceeded"},
	})

	testutil.AssertEqual(t, strings.Count(buf.String(), "Time Limit Exceeded"), 2)
}

var ansi = regexp.MustCompile(`\x1b\[[0-9;]*m`)

func TestSubmissionList_ColoredColumnsAlign(t *testing.T) {
	var buf bytes.Buffer
	NewRenderer(&buf, true).SubmissionList(&judgeclient.SubmissionPage{
		Items: []judgeclient.SubmissionRecord{
			{SubmissionID: "7", ProblemID: 1, Language: "cpp", Status: "accepted", TimeUsed: 5, CreatedAt: "2024-01-01"},
			{SubmissionID: "8", ProblemID: 1, Language: "cpp", Status: "time_limit_exceeded", TimeUsed: 1000, CreatedAt: "2024-01-02"},
		},
		Total: 2,
		Page:  1,
	})
	if !ansi.MatchString(buf.String()) {
		t.Fatalf("expected colored output: %q", buf.String())
	}

	lines := strings.Split(ansi.ReplaceAllString(buf.String(), ""), "\n")
	col := strings.Index(lines[0], "STATUS")
	testutil.AssertEqual(t, strings.Index(lines[1], "Accepted"), col)
	testutil.AssertEqual(t, strings.Index(lines[2], "Time Limit Exceeded"), col)
	testutil.AssertEqual(t, strings.Index(lines[1], "2024-01-01"), strings.Index(lines[0], "CREATED"))
}

func TestFollow_StopsAtTerminalStatus(t *testing.T) {
	srv := judgetest.NewServer()
	defer srv.Close()
	client := judgeclient.New(srv.URL)

	id, err := client.Submit(context.Background(), judgeclient.SubmitRequest{ProblemID: 1, Language: "c", Code: "x"})
	testutil.AssertNoError(t, err)
	srv.Script(id, "pending", "running", "running", "wrong_answer")

	var seen []string
	final, err := Follow(context.Background(), client, id, time.Millisecond, func(d *judgeclient.SubmissionDetail) {
		seen = append(seen, d.Status)
	})
	testutil.AssertNoError(t, err)
	testutil.AssertEqual(t, final.Status, "wrong_answer")
	testutil.AssertDeepEqual(t, seen, []string{"pending", "running", "wrong_answer"})
}

func TestFollow_UnknownStatusIsFinal(t *testing.T) {
	srv := judgetest.NewServer()
	defer srv.Close()
	client := judgeclient.New(srv.URL)

	id, _ := client.Submit(context.Background(), judgeclient.SubmitRequest{ProblemID: 1, Language: "c", Code: "x"})
	srv.Script(id, "partially_correct")

	final, err := Follow(context.Background(), client, id, time.Millisecond, nil)
	testutil.AssertNoError(t, err)
	testutil.AssertEqual(t, final.Status, "partially_correct")
}

func TestFollow_Cancelled(t *testing.T) {
	srv := judgetest.NewServer()
	defer srv.Close()
	client := judgeclient.New(srv.URL)

	id, _ := client.Submit(context.Background(), judgeclient.SubmitRequest{ProblemID: 1, Language: "c", Code: "x"})
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := Follow(ctx, client, id, 5*time.Millisecond, nil)
	if err == nil {
		t.Fatal("expected cancellation error")
	}
}
