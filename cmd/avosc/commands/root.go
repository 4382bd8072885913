package commands

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var (
	version string
	commit  string
	date    string
)

// rootCmd represents the base command when called without subcommands
var rootCmd = &cobra.Command{
	Use:   "avosc",
	Short: "avosc - tracking-to-avatar OSC bridge",
	Long: `avosc turns live body, face and eye tracking into avatar control
messages. It ingests telemetry from one source (an ALVR-style event
stream, an OpenXR sidecar poll, or Babble/EyeTrackVR OSC), normalizes
it into a canonical frame, runs calibration and gesture processors,
and streams OSC parameter bundles to a VRChat-compatible consumer.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return cmd.Help()
	},
}

// Execute runs the root command. Called once from main.
func Execute() error {
	rootCmd.SilenceErrors = true
	rootCmd.SilenceUsage = true
	err := rootCmd.Execute()
	if err != nil {
		color.New(color.FgRed, color.Bold).Fprintf(os.Stderr, "Error: %v\n", err)
	}
	return err
}

// SetVersionInfo sets the version information for the CLI
func SetVersionInfo(v, c, d string) {
	version = v
	commit = c
	date = d
	rootCmd.Version = fmt.Sprintf("%s (commit: %s, built: %s)", v, c, d)
}
