package cli

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolvePlan(t *testing.T) {
	file := writeScenario(t, t.TempDir(), "login.yaml", validScenario)

	tests := []struct {
		name     string
		arg      string
		wantName string
	}{
		{"default", "", "practice"},
		{"builtin coded", "windowtab", "windowtab"},
		{"builtin yaml", "search", "search"},
		{"file", file, "login"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := ResolvePlan(tt.arg)
			require.NoError(t, err)
			assert.Equal(t, tt.wantName, p.Name)
			assert.NotEmpty(t, p.Steps)
		})
	}
}

func TestResolvePlanErrors(t *testing.T) {
	tests := []struct {
		name     string
		arg      string
		wantCode string
	}{
		{"unknown builtin", "checkout", ErrCodeUnknownScenario},
		{"missing file", filepath.Join(t.TempDir(), "missing.yaml"), ErrCodeNotFound},
		{"invalid file", writeScenario(t, t.TempDir(), "bad.yml", "name: x\n"), ErrCodeScenario},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ResolvePlan(tt.arg)
			var loadErr *LoadError
			require.True(t, errors.As(err, &loadErr), "got %v", err)
			assert.Equal(t, tt.wantCode, loadErr.Code)
		})
	}
}

func TestIsScenarioFile(t *testing.T) {
	assert.True(t, isScenarioFile("login.yaml"))
	assert.True(t, isScenarioFile("LOGIN.YML"))
	assert.True(t, isScenarioFile(filepath.Join("scenarios", "login")))
	assert.False(t, isScenarioFile("login"))
}

func TestFindScenarioFilesSingleFile(t *testing.T) {
	file := writeScenario(t, t.TempDir(), "x.txt", "ignored extension")

	files, err := FindScenarioFiles(file)
	require.NoError(t, err)
	assert.Equal(t, []string{file}, files)
}

func TestLoadErrorMessage(t *testing.T) {
	assert.Equal(t, "E005: path not found", (&LoadError{Code: ErrCodeNotFound, Message: "path not found"}).Error())
	assert.Equal(t, "a.yaml: E101: bad", (&LoadError{Code: ErrCodeScenario, Message: "bad", Path: "a.yaml"}).Error())
}
