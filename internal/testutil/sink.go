package testutil

import "fmt"

// MemorySink keeps screenshots and reports in memory.
type MemorySink struct {
	Prefix      string
	Screenshots map[string][]byte
	Order       []string
	Reports     []string

	ScreenshotErr error
	ReportErr     error
}

// NewMemorySink creates an empty sink naming files with prefix.
func NewMemorySink(prefix string) *MemorySink {
	return &MemorySink{Prefix: prefix, Screenshots: make(map[string][]byte)}
}

// ScreenshotName returns "<Prefix>-screenshot-<name>.png".
func (s *MemorySink) ScreenshotName(name string) string {
	return fmt.Sprintf("%s-screenshot-%s.png", s.Prefix, name)
}

// SaveScreenshot stores png under name.
func (s *MemorySink) SaveScreenshot(name string, png []byte) error {
	if s.ScreenshotErr != nil {
		return s.ScreenshotErr
	}
	s.Screenshots[name] = png
	s.Order = append(s.Order, name)
	return nil
}

// SaveReport appends report to Reports.
func (s *MemorySink) SaveReport(report string) error {
	if s.ReportErr != nil {
		return s.ReportErr
	}
	s.Reports = append(s.Reports, report)
	return nil
}

// LastReport returns the most recent report, or "".
func (s *MemorySink) LastReport() string {
	if len(s.Reports) == 0 {
		return ""
	}
	return s.Reports[len(s.Reports)-1]
}
