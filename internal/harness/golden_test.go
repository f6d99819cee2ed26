package harness

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/pagecheck/internal/testutil"
)

const headingScript = "return {type: 'string', value: document.querySelector('h2').innerText}"

func loginFixture(t *testing.T, flash string) (Config, *testutil.FakeLauncher, *testutil.MemorySink) {
	t.Helper()

	sc, err := LoadScenario("testdata/scenarios/login.yaml")
	require.NoError(t, err)

	l := testutil.NewFakeLauncher()
	l.Session.AddElement("#username", "")
	l.Session.AddElement("#password", "")
	l.Session.AddElement("button[type=submit]", "Login")
	l.Session.AddElement("#flash", flash)
	l.Session.Results[headingScript] = map[string]any{"type": "string", "value": "Secure Area"}

	sink := testutil.NewMemorySink("Login")
	return Config{Plan: sc.Plan(), Launcher: l, Sink: sink}, l, sink
}

func TestGoldenLogin(t *testing.T) {
	cfg, l, sink := loginFixture(t, "You logged into a secure area!")

	res, err := RunWithGolden(t, "login", cfg)
	require.NoError(t, err)

	assert.Equal(t, 5, res.Summary.Passed)
	assert.Equal(t, []string{"initial", "final"}, sink.Order)
	assert.Equal(t, []string{"https://the-internet.herokuapp.com/login"}, l.Session.URLs)
	assert.Equal(t, 1, l.Session.CloseCalls())
}

func TestGoldenLoginBadCredentials(t *testing.T) {
	cfg, _, _ := loginFixture(t, "Your username is invalid!")

	res, err := RunWithGolden(t, "login_bad_credentials", cfg)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Summary.Failed)
}

func TestGoldenLoginUnreachable(t *testing.T) {
	cfg, l, sink := loginFixture(t, "")
	l.Session.NavigateErr["https://the-internet.herokuapp.com/login"] = errors.New("net::ERR_NAME_NOT_RESOLVED")

	res, err := RunWithGolden(t, "login_unreachable", cfg)
	require.NoError(t, err)
	assert.True(t, res.Aborted())
	assert.Empty(t, sink.Order)
	assert.Len(t, sink.Reports, 1)
}

func TestSnapshotOmitsTimestamps(t *testing.T) {
	cfg, _, _ := loginFixture(t, "You logged into a secure area!")

	res, err := RunWithGolden(t, "login", cfg)
	require.NoError(t, err)

	data, err := Snapshot(res)
	require.NoError(t, err)
	assert.NotContains(t, string(data), res.RunID)
	assert.NotContains(t, string(data), "2026")
}
