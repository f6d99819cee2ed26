package store

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/roach88/pagecheck/internal/ir"
)

// timeLayout keeps sub-second precision and sorts lexically in UTC.
const timeLayout = "2006-01-02T15:04:05.000000000Z"

// marshalArtifacts converts the artifact list to canonical JSON TEXT.
func marshalArtifacts(artifacts []string) (string, error) {
	if artifacts == nil {
		artifacts = []string{}
	}
	data, err := ir.MarshalCanonical(artifacts)
	if err != nil {
		return "", fmt.Errorf("marshal artifacts: %w", err)
	}
	return string(data), nil
}

// unmarshalArtifacts parses the stored artifact list.
// Returns an empty slice (not nil) for an empty list.
func unmarshalArtifacts(data string) ([]string, error) {
	out := []string{}
	if data == "" || data == "[]" {
		return out, nil
	}
	if err := json.Unmarshal([]byte(data), &out); err != nil {
		return nil, fmt.Errorf("unmarshal artifacts: %w", err)
	}
	return out, nil
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(timeLayout)
}

func parseTime(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse(timeLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse time %q: %w", s, err)
	}
	return t, nil
}
