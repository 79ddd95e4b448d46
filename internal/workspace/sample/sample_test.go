package sample_test

import (
	"context"
	"encoding/json"
	"testing"

	"ojspace/internal/testutil"
	"ojspace/internal/workspace/sample"
	"ojspace/pkg/utils/logger"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestParse_MalformedOrMissingYieldsEmpty(t *testing.T) {
	ctx := context.Background()
	inputs := []any{
		nil,
		"",
		"   ",
		"null",
		"not json",
		"{",
		`{"input":"1","output":"2"}`,
		`[{"input":1,"output":"2"}]`,
		`[1,2,3]`,
		`[{"input":"1","output":"2"},`,
		[]byte("garbage"),
		json.RawMessage(`"not an array"`),
		json.RawMessage(`"[broken"`),
		json.RawMessage(`42`),
		42,
		map[string]string{"input": "1"},
		[]sample.Sample(nil),
	}

	for _, raw := range inputs {
		got := sample.Parse(ctx, raw)
		if got == nil {
			t.Errorf("Parse(%#v) returned nil, want empty slice", raw)
			continue
		}
		if len(got) != 0 {
			t.Errorf("Parse(%#v) = %v, want empty", raw, got)
		}
	}
}

func TestParse_String(t *testing.T) {
	raw := `[{"input":"1 2\n","output":"3\n","explanation":"1+2"},{"input":"5 5\n","output":"10\n"}]`
	got := sample.Parse(context.Background(), raw)

	testutil.AssertDeepEqual(t, got, []sample.Sample{
		{Input: "1 2\n", Output: "3\n", Explanation: "1+2"},
		{Input: "5 5\n", Output: "10\n"},
	})
}

func TestParse_SliceReturnedAsIs(t *testing.T) {
	in := []sample.Sample{{Input: "", Output: ""}, {Input: "x"}}
	got := sample.Parse(context.Background(), in)
	testutil.AssertEqual(t, len(got), 2)
	testutil.AssertEqual(t, &got[0], &in[0])
}

func TestFromRaw_WireShapes(t *testing.T) {
	ctx := context.Background()
	want := []sample.Sample{{Input: "1", Output: "1"}}

	encodedString, _ := json.Marshal(`[{"input":"1","output":"1"}]`)
	testutil.AssertDeepEqual(t, sample.FromRaw(ctx, encodedString), want)
	testutil.AssertDeepEqual(t, sample.FromRaw(ctx, json.RawMessage(`[{"input":"1","output":"1"}]`)), want)
	testutil.AssertDeepEqual(t, sample.FromRaw(ctx, nil), []sample.Sample{})
	testutil.AssertDeepEqual(t, sample.FromRaw(ctx, json.RawMessage(`null`)), []sample.Sample{})
	testutil.AssertDeepEqual(t, sample.FromRaw(ctx, json.RawMessage(`""`)), []sample.Sample{})
}

func TestParse_FailureIsLogged(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	logger.SetGlobal(logger.FromZap(zap.New(core)))
	t.Cleanup(func() { logger.SetGlobal(nil) })

	sample.Parse(context.Background(), "[oops")
	testutil.AssertEqual(t, logs.Len(), 1)
}
