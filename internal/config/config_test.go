package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultValidates(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, 90, cfg.TickRate)
	assert.Equal(t, time.Second/90, cfg.TickPeriod())
	assert.Equal(t, 255, cfg.Paging.TableSize)
}

func TestLoadYAMLOverlay(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "avosc.yaml")
	body := `
source: babble
vrc_port: 9100
tick_rate: 60
babble:
  listen_port: 9500
autopilot:
  hold: 100ms
  brow_thresh: 0.8
paging:
  interval: 1s
`
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, SourceBabble, cfg.Source)
	assert.Equal(t, 9100, cfg.VRCPort)
	assert.Equal(t, 60, cfg.TickRate)
	assert.Equal(t, 9500, cfg.Babble.ListenPort)
	assert.Equal(t, 100*time.Millisecond, cfg.Autopilot.Hold.D())
	assert.Equal(t, 0.8, cfg.Autopilot.BrowThresh)
	assert.Equal(t, time.Second, cfg.Paging.Interval.D())

	// Untouched sections keep their defaults.
	assert.Equal(t, 9002, cfg.OSCPort)
	assert.Equal(t, 90, cfg.Calibration.Window)
}

func TestLoadRejectsBadSource(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "avosc.yaml")
	require.NoError(t, os.WriteFile(path, []byte("source: webcam\n"), 0o644))

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown source")
}

func TestLoadRejectsBadDuration(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "avosc.yaml")
	require.NoError(t, os.WriteFile(path, []byte("stale_after: soon\n"), 0o644))

	_, err := Load(path)
	require.Error(t, err)
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("AVOSC_SOURCE", "alvr")
	t.Setenv("AVOSC_VRC_PORT", "9010")
	t.Setenv("HEAD_YAW", "15.5")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, SourceALVR, cfg.Source)
	assert.Equal(t, 9010, cfg.VRCPort)
	assert.Equal(t, 15.5, cfg.HeadOffset.Yaw)
	assert.False(t, cfg.HeadOffset.IsZero())
}

func TestEnvRejectsGarbage(t *testing.T) {
	t.Setenv("AVOSC_VRC_PORT", "all-of-them")

	_, err := Load("")
	require.Error(t, err)
}
