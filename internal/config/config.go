// Package config holds the avosc runtime configuration: network endpoints,
// the tick rate, and every tuning constant the pipeline exposes.
//
// Values resolve in three layers: compiled defaults, then an optional YAML
// file, then environment variable overrides. Configuration problems are
// fatal at startup; nothing in here is re-read while the loop runs.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Source names accepted by Config.Source.
const (
	SourceALVR   = "alvr"
	SourceOpenXR = "openxr"
	SourceBabble = "babble"
	SourceDummy  = "dummy"
)

// Duration wraps time.Duration so YAML files can say "250ms" or "20s".
type Duration time.Duration

// D returns the wrapped time.Duration.
func (d Duration) D() time.Duration { return time.Duration(d) }

func (d Duration) String() string { return time.Duration(d).String() }

// UnmarshalYAML accepts either a duration string or a nanosecond integer.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err == nil {
		parsed, err := time.ParseDuration(s)
		if err != nil {
			return fmt.Errorf("bad duration %q: %w", s, err)
		}
		*d = Duration(parsed)
		return nil
	}
	var n int64
	if err := value.Decode(&n); err != nil {
		return fmt.Errorf("bad duration node: %w", err)
	}
	*d = Duration(n)
	return nil
}

// MarshalYAML renders the duration in string form.
func (d Duration) MarshalYAML() (interface{}, error) {
	return time.Duration(d).String(), nil
}

// Config is the complete avosc configuration.
type Config struct {
	Source     string `yaml:"source"`
	VRCHost    string `yaml:"vrc_host"`
	VRCPort    int    `yaml:"vrc_port"`
	OSCPort    int    `yaml:"osc_port"`
	AvatarFile string `yaml:"avatar_file"`
	Dashboard  string `yaml:"dashboard"` // listen address, empty disables
	LogLevel   string `yaml:"log_level"`

	TickRate   int      `yaml:"tick_rate"`   // pipeline Hz
	QueueSize  int      `yaml:"queue_size"`  // raw sample queue capacity
	StaleAfter Duration `yaml:"stale_after"` // source offline after this silence

	ALVR    ALVRConfig    `yaml:"alvr"`
	OpenXR  OpenXRConfig  `yaml:"openxr"`
	Babble  BabbleConfig  `yaml:"babble"`
	Backoff BackoffConfig `yaml:"backoff"`

	Calibration CalibrationConfig `yaml:"calibration"`
	Autopilot   AutopilotConfig   `yaml:"autopilot"`
	Loco        LocoConfig        `yaml:"loco"`
	Ascend      AscendConfig      `yaml:"ascend"`
	Paging      PagingConfig      `yaml:"paging"`

	HeadOffset HeadOffset `yaml:"-"` // env only, folded into calibration
}

// ALVRConfig configures the event-stream source.
type ALVRConfig struct {
	URL string `yaml:"url"`
}

// OpenXRConfig configures the device-query source.
type OpenXRConfig struct {
	URL            string   `yaml:"url"`
	PollInterval   Duration `yaml:"poll_interval"`
	RequestTimeout Duration `yaml:"request_timeout"`
}

// BabbleConfig configures the local-socket source. The queue is sized
// separately because this source delivers one message per blend shape,
// not one per frame.
type BabbleConfig struct {
	ListenPort int `yaml:"listen_port"`
	QueueSize  int `yaml:"queue_size"`
}

// BackoffConfig parameterizes adapter reconnects.
type BackoffConfig struct {
	Base      Duration `yaml:"base"`
	Cap       Duration `yaml:"cap"`
	JitterPct uint64   `yaml:"jitter_pct"`
}

// CalibrationConfig tunes the head reference capture.
type CalibrationConfig struct {
	Window       int      `yaml:"window"`        // consecutive samples required
	MaxPosDev    float64  `yaml:"max_pos_dev"`   // meters, sample-to-sample
	MaxAngDevDeg float64  `yaml:"max_ang_dev"`   // degrees, sample-to-sample
	Timeout      Duration `yaml:"timeout"`       // still-calibrating status after this
	TriggerParam string   `yaml:"trigger_param"` // feedback bool requesting recalibration
}

// AutopilotConfig tunes gaze/face gesture detection.
type AutopilotConfig struct {
	ArmParam     string   `yaml:"arm_param"`      // feedback bool gating the whole processor
	GazeEdgeDeg  float64  `yaml:"gaze_edge_deg"`  // |yaw| beyond this starts a turn
	GazeMargin   float64  `yaml:"gaze_margin"`    // degrees under the edge to re-arm
	LookGain     float64  `yaml:"look_gain"`      // turn strength per degree
	JumpPitchDeg float64  `yaml:"jump_pitch_deg"` // gaze up beyond this jumps
	PuffThresh   float64  `yaml:"puff_thresh"`    // cheek puff drives forward
	SuckThresh   float64  `yaml:"suck_thresh"`    // cheek suck drives backward
	MoveGain     float64  `yaml:"move_gain"`      // vertical input per unit weight
	BrowThresh   float64  `yaml:"brow_thresh"`    // brow raise toggles mute
	BrowRelease  float64  `yaml:"brow_release"`   // brow level that re-arms the toggle
	Margin       float64  `yaml:"margin"`         // weight hysteresis under a threshold
	Hold         Duration `yaml:"hold"`           // signal must persist this long
}

// LocoConfig tunes the locomotion/pose-save processor.
type LocoConfig struct {
	FullBodyType   int32 `yaml:"full_body_type"`   // TrackingType above this means full-body
	FlightEmoteMin int32 `yaml:"flight_emote_min"` // VRCEmote range granting flight
	FlightEmoteMax int32 `yaml:"flight_emote_max"`
}

// AscendConfig tunes the quick-ascend processor.
type AscendConfig struct {
	ReadyParam    string  `yaml:"ready_param"`    // feedback bool: consumer ready to ascend
	HeadClearance float64 `yaml:"head_clearance"` // meters controllers must clear the head by
}

// PagingConfig tunes external-storage paging.
type PagingConfig struct {
	Interval  Duration `yaml:"interval"`   // cursor advance cadence
	TableSize int      `yaml:"table_size"` // index space, slot 0 reserved
}

// HeadOffset is a fixed secondary-device transform folded into the
// calibration reference at startup. Read from HEAD_* environment variables.
type HeadOffset struct {
	X, Y, Z          float64 // meters
	Yaw, Pitch, Roll float64 // degrees
}

// IsZero reports whether no offset was configured.
func (h HeadOffset) IsZero() bool {
	return h.X == 0 && h.Y == 0 && h.Z == 0 && h.Yaw == 0 && h.Pitch == 0 && h.Roll == 0
}

// Default returns the compiled-in configuration.
func Default() Config {
	return Config{
		Source:     SourceDummy,
		VRCHost:    "127.0.0.1",
		VRCPort:    9000,
		OSCPort:    9002,
		Dashboard:  "",
		LogLevel:   "info",
		TickRate:   90,
		QueueSize:  8,
		StaleAfter: Duration(time.Second),
		ALVR: ALVRConfig{
			URL: "ws://127.0.0.1:8082/api/events",
		},
		OpenXR: OpenXRConfig{
			URL:            "http://127.0.0.1:8423/api/state",
			PollInterval:   Duration(15 * time.Millisecond),
			RequestTimeout: Duration(200 * time.Millisecond),
		},
		Babble: BabbleConfig{
			ListenPort: 9400,
			QueueSize:  128,
		},
		Backoff: BackoffConfig{
			Base:      Duration(500 * time.Millisecond),
			Cap:       Duration(20 * time.Second),
			JitterPct: 10,
		},
		Calibration: CalibrationConfig{
			Window:       90,
			MaxPosDev:    0.02,
			MaxAngDevDeg: 2.0,
			Timeout:      Duration(30 * time.Second),
			TriggerParam: "Recalibrate",
		},
		Autopilot: AutopilotConfig{
			ArmParam:     "AutoPilot",
			GazeEdgeDeg:  20,
			GazeMargin:   2,
			LookGain:     0.02,
			JumpPitchDeg: 15,
			PuffThresh:   0.5,
			SuckThresh:   0.5,
			MoveGain:     0.6,
			BrowThresh:   0.75,
			BrowRelease:  0.5,
			Margin:       0.05,
			Hold:         Duration(250 * time.Millisecond),
		},
		Loco: LocoConfig{
			FullBodyType:   5,
			FlightEmoteMin: 120,
			FlightEmoteMax: 125,
		},
		Ascend: AscendConfig{
			ReadyParam:    "AscendReady",
			HeadClearance: 0.05,
		},
		Paging: PagingConfig{
			Interval:  Duration(250 * time.Millisecond),
			TableSize: 255,
		},
	}
}

// Load builds the configuration from defaults, an optional YAML file and
// environment overrides. path may be empty.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return cfg, err
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Validate rejects configurations the pipeline cannot run with.
func (c *Config) Validate() error {
	switch c.Source {
	case SourceALVR, SourceOpenXR, SourceBabble, SourceDummy:
	default:
		return fmt.Errorf("unknown source %q (want %s, %s, %s or %s)",
			c.Source, SourceALVR, SourceOpenXR, SourceBabble, SourceDummy)
	}
	if c.VRCPort <= 0 || c.VRCPort > 65535 {
		return fmt.Errorf("vrc_port %d out of range", c.VRCPort)
	}
	if c.OSCPort <= 0 || c.OSCPort > 65535 {
		return fmt.Errorf("osc_port %d out of range", c.OSCPort)
	}
	if c.TickRate <= 0 {
		return fmt.Errorf("tick_rate must be positive, got %d", c.TickRate)
	}
	if c.QueueSize <= 0 {
		return fmt.Errorf("queue_size must be positive, got %d", c.QueueSize)
	}
	if c.Babble.QueueSize <= 0 {
		return fmt.Errorf("babble queue_size must be positive, got %d", c.Babble.QueueSize)
	}
	if c.Calibration.Window < 2 {
		return fmt.Errorf("calibration window must be at least 2, got %d", c.Calibration.Window)
	}
	if c.Paging.TableSize < 2 {
		return fmt.Errorf("paging table_size must be at least 2, got %d", c.Paging.TableSize)
	}
	if c.Backoff.Base.D() <= 0 || c.Backoff.Cap.D() < c.Backoff.Base.D() {
		return fmt.Errorf("backoff base/cap misconfigured: base=%v cap=%v", c.Backoff.Base, c.Backoff.Cap)
	}
	return nil
}

func (c *Config) applyEnv() error {
	if v := os.Getenv("AVOSC_SOURCE"); v != "" {
		c.Source = v
	}
	if v := os.Getenv("AVOSC_VRC_HOST"); v != "" {
		c.VRCHost = v
	}
	if err := envInt("AVOSC_VRC_PORT", &c.VRCPort); err != nil {
		return err
	}
	if err := envInt("AVOSC_OSC_PORT", &c.OSCPort); err != nil {
		return err
	}
	if v := os.Getenv("AVOSC_DASHBOARD"); v != "" {
		c.Dashboard = v
	}
	if v := os.Getenv("AVOSC_LOG_LEVEL"); v != "" {
		c.LogLevel = v
	}

	off := &c.HeadOffset
	for _, f := range []struct {
		env string
		dst *float64
	}{
		{"HEAD_X", &off.X},
		{"HEAD_Y", &off.Y},
		{"HEAD_Z", &off.Z},
		{"HEAD_YAW", &off.Yaw},
		{"HEAD_PITCH", &off.Pitch},
		{"HEAD_ROLL", &off.Roll},
	} {
		if err := envFloat(f.env, f.dst); err != nil {
			return err
		}
	}
	return nil
}

func envInt(name string, dst *int) error {
	v := os.Getenv(name)
	if v == "" {
		return nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fmt.Errorf("%s=%q is not an integer: %w", name, v, err)
	}
	*dst = n
	return nil
}

func envFloat(name string, dst *float64) error {
	v := os.Getenv(name)
	if v == "" {
		return nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return fmt.Errorf("%s=%q is not a number: %w", name, v, err)
	}
	*dst = f
	return nil
}

// TickPeriod returns the scheduler period for the configured rate.
func (c *Config) TickPeriod() time.Duration {
	return time.Second / time.Duration(c.TickRate)
}
