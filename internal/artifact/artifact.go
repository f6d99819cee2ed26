// Package artifact writes the screenshots and report of a run to disk.
package artifact

import (
	"fmt"
	"os"
	"path/filepath"
)

// Dir is a harness sink that writes into a directory.
//
// Files are named after the scenario prefix:
//
//	<Prefix>-screenshot-<name>.png
//	<Prefix>-TestReport.txt
type Dir struct {
	Path   string
	Prefix string
}

// NewDir returns a sink writing into path, creating it if needed.
func NewDir(path, prefix string) (*Dir, error) {
	if prefix == "" {
		return nil, fmt.Errorf("artifact: prefix is required")
	}
	if path == "" {
		path = "."
	}
	if err := os.MkdirAll(path, 0o755); err != nil {
		return nil, fmt.Errorf("create artifact dir: %w", err)
	}
	return &Dir{Path: path, Prefix: prefix}, nil
}

// ScreenshotName returns the file name a snapshot is stored under.
func (d *Dir) ScreenshotName(name string) string {
	return fmt.Sprintf("%s-screenshot-%s.png", d.Prefix, name)
}

// ReportName returns the file name of the report.
func (d *Dir) ReportName() string {
	return d.Prefix + "-TestReport.txt"
}

// MetricsName returns the file name of the metrics textfile.
func (d *Dir) MetricsName() string {
	return d.Prefix + "-metrics.prom"
}

// File returns the full path of name inside the directory.
func (d *Dir) File(name string) string {
	return filepath.Join(d.Path, name)
}

// SaveScreenshot writes png as the named snapshot.
func (d *Dir) SaveScreenshot(name string, png []byte) error {
	return d.write(d.ScreenshotName(name), png)
}

// SaveReport writes the rendered report.
func (d *Dir) SaveReport(report string) error {
	return d.write(d.ReportName(), []byte(report))
}

// write replaces name atomically through a temporary file.
func (d *Dir) write(name string, data []byte) error {
	tmp, err := os.CreateTemp(d.Path, "."+name+".*")
	if err != nil {
		return fmt.Errorf("write %s: %w", name, err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write %s: %w", name, err)
	}
	if err := tmp.Chmod(0o644); err != nil {
		tmp.Close()
		return fmt.Errorf("write %s: %w", name, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("write %s: %w", name, err)
	}
	if err := os.Rename(tmp.Name(), d.File(name)); err != nil {
		return fmt.Errorf("write %s: %w", name, err)
	}
	return nil
}
