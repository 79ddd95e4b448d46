// Package sample turns a problem's published sample cases into one canonical list.
package sample

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"ojspace/pkg/utils/logger"

	"go.uber.org/zap"
)

// Sample is one published input/output pair.
type Sample struct {
	Input       string `json:"input"`
	Output      string `json:"output"`
	Explanation string `json:"explanation,omitempty"`
}

// Parse normalizes a sample payload. A []Sample is returned untouched, a
// non-empty string is decoded as a JSON array, and anything else yields an
// empty list. Decoding failures are logged and never partially applied.
func Parse(ctx context.Context, raw any) []Sample {
	switch v := raw.(type) {
	case nil:
		return []Sample{}
	case []Sample:
		if v == nil {
			return []Sample{}
		}
		return v
	case string:
		return parseDocument(ctx, []byte(v))
	case []byte:
		return parseDocument(ctx, v)
	case json.RawMessage:
		return FromRaw(ctx, v)
	default:
		logger.Warn(ctx, "unsupported sample payload type", zap.String("type", fmt.Sprintf("%T", raw)))
		return []Sample{}
	}
}

// FromRaw normalizes the wire form of sample_cases: a JSON string holding a
// Sample[] document, an inline array, null, or nothing.
func FromRaw(ctx context.Context, raw json.RawMessage) []Sample {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return []Sample{}
	}
	if trimmed[0] == '"' {
		var doc string
		if err := json.Unmarshal(trimmed, &doc); err != nil {
			logger.Warn(ctx, "sample cases string is not valid json", zap.Error(err))
			return []Sample{}
		}
		return parseDocument(ctx, []byte(doc))
	}
	return parseDocument(ctx, trimmed)
}

func parseDocument(ctx context.Context, doc []byte) []Sample {
	if strings.TrimSpace(string(doc)) == "" {
		return []Sample{}
	}
	var samples []Sample
	if err := json.Unmarshal(doc, &samples); err != nil {
		logger.Warn(ctx, "failed to parse sample cases", zap.Error(err), zap.Int("bytes", len(doc)))
		return []Sample{}
	}
	if samples == nil {
		return []Sample{}
	}
	return samples
}
