package commands

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/avosc/avosc/internal/config"
	"github.com/avosc/avosc/internal/log"
	"github.com/avosc/avosc/pkg/avatar"
	"github.com/avosc/avosc/pkg/bridge"
	"github.com/avosc/avosc/pkg/calibration"
	"github.com/avosc/avosc/pkg/gesture"
	"github.com/avosc/avosc/pkg/oscquery"
	"github.com/avosc/avosc/pkg/paging"
	"github.com/avosc/avosc/pkg/status"
	"github.com/avosc/avosc/pkg/tracking/source"
	"github.com/avosc/avosc/pkg/web"
)

var (
	flagConfig     string
	flagSource     string
	flagVRCPort    int
	flagOSCPort    int
	flagAvatar     string
	flagDashboard  string
	flagALVRURL    string
	flagOpenXRURL  string
	flagBabblePort int
	flagLogLevel   string
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the tracking bridge",
	Long: `Run starts the full pipeline: the configured tracking source, the
feedback listener, calibration, the gesture processors and the tick
loop streaming OSC to the consumer. Stops cleanly on SIGINT/SIGTERM.`,
	RunE: runRun,
}

func init() {
	f := runCmd.Flags()
	f.StringVarP(&flagConfig, "config", "c", "", "path to YAML config file")
	f.StringVarP(&flagSource, "source", "s", "", "tracking source: alvr, openxr, babble or dummy")
	f.IntVar(&flagVRCPort, "vrc-port", 0, "consumer OSC input port")
	f.IntVar(&flagOSCPort, "osc-port", 0, "local OSC feedback listen port")
	f.StringVar(&flagAvatar, "avatar", "", "avatar parameter file (skips discovery)")
	f.StringVar(&flagDashboard, "dashboard", "", "dashboard listen address, e.g. :8680")
	f.StringVar(&flagALVRURL, "alvr-url", "", "event stream websocket URL")
	f.StringVar(&flagOpenXRURL, "openxr-url", "", "device query endpoint URL")
	f.IntVar(&flagBabblePort, "babble-port", 0, "local OSC listen port for face/eye telemetry")
	f.StringVar(&flagLogLevel, "log-level", "", "debug, info, warn or error")
	rootCmd.AddCommand(runCmd)
}

// applyFlags folds explicitly set flags over the loaded config.
func applyFlags(cmd *cobra.Command, cfg *config.Config) {
	set := cmd.Flags().Changed
	if set("source") {
		cfg.Source = flagSource
	}
	if set("vrc-port") {
		cfg.VRCPort = flagVRCPort
	}
	if set("osc-port") {
		cfg.OSCPort = flagOSCPort
	}
	if set("avatar") {
		cfg.AvatarFile = flagAvatar
	}
	if set("dashboard") {
		cfg.Dashboard = flagDashboard
	}
	if set("alvr-url") {
		cfg.ALVR.URL = flagALVRURL
	}
	if set("openxr-url") {
		cfg.OpenXR.URL = flagOpenXRURL
	}
	if set("babble-port") {
		cfg.Babble.ListenPort = flagBabblePort
	}
	if set("log-level") {
		cfg.LogLevel = flagLogLevel
	}
}

func runRun(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return err
	}
	applyFlags(cmd, &cfg)
	if err := cfg.Validate(); err != nil {
		return err
	}
	log.Init(cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	src, err := source.New(cfg)
	if err != nil {
		return err
	}

	store := avatar.NewStore()
	feedback := avatar.NewFeedback()
	client := avatar.NewClient(cfg.VRCHost, cfg.VRCPort)
	server := avatar.NewServer(cfg.OSCPort, feedback)
	cal := calibration.New(cfg.Calibration, cfg.HeadOffset)
	table := paging.NewTable()

	var manifest bridge.ManifestFunc
	if cfg.AvatarFile != "" {
		path := cfg.AvatarFile
		manifest = func(context.Context) (*avatar.Manifest, error) {
			return avatar.LoadFile(path)
		}
	} else {
		manifest = oscquery.NewClient(5 * time.Second).Manifest
	}

	br := bridge.New(cfg, bridge.Deps{
		Source: src,
		Cal:    cal,
		Procs: []avatar.Processor{
			gesture.NewLoco(cfg.Loco),
			paging.New(cfg.Paging, table),
			gesture.NewAutopilot(cfg.Autopilot),
			gesture.NewAscend(cfg.Ascend, cfg.Loco),
		},
		Store:    store,
		Feedback: feedback,
		Sender:   client,
		Manifest: manifest,
	})

	line := status.NewLine(func() status.Snapshot {
		bs := br.Snapshot()
		return status.Snapshot{
			Source:      src.Name(),
			Online:      bs.Live,
			Calibration: bs.Calibration,
			Slow:        bs.Slow,
			Avatar:      bs.Avatar,
			Ticks:       bs.Ticks,
			Recv:        server.Received(),
			Sent:        client.Sent(),
			Drops:       src.Drops(),
		}
	})

	errc := make(chan error, 4)
	go func() { errc <- src.Run(ctx) }()
	go func() { errc <- server.Run(ctx) }()
	go func() { errc <- br.Run(ctx) }()
	go line.Run(ctx)

	if cfg.Dashboard != "" {
		dash := web.NewServer(cfg.Dashboard, web.Deps{
			Status: func() web.Status {
				bs := br.Snapshot()
				return web.Status{
					Source:      src.Name(),
					Online:      bs.Live,
					Avatar:      bs.Avatar,
					Calibration: bs.Calibration,
					Slow:        bs.Slow,
					Progress:    bs.Progress,
					Ticks:       bs.Ticks,
					Skipped:     bs.Skipped,
					Recv:        server.Received(),
					Sent:        client.Sent(),
					Drops:       src.Drops(),
					Bound:       bs.Bound,
				}
			},
			Store:       store,
			Feedback:    feedback,
			Recalibrate: br.Recalibrate,
		})
		go func() { errc <- dash.Run(ctx) }()
	}

	select {
	case <-ctx.Done():
		// Give the loops a moment to finish their final tick.
		time.Sleep(150 * time.Millisecond)
		return nil
	case err := <-errc:
		if err != nil && ctx.Err() == nil {
			return err
		}
		return nil
	}
}
