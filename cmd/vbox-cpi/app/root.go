// Package app holds the cobra command tree for the vbox-cpi CLI.
package app

import (
	"github.com/spf13/cobra"
	"github.com/virtforge/vbox-cpi/internal/config"
	"github.com/virtforge/vbox-cpi/internal/cpi"
	"github.com/virtforge/vbox-cpi/internal/vbox"
)

var (
	configPath string
	binary     string
)

var rootCmd = &cobra.Command{
	Use:   "vbox-cpi",
	Short: "VirtualBox provider actions from the command line",
	Long: `vbox-cpi drives VirtualBox through the VBoxManage tool and exposes the
provider's action contract locally: list the available actions, inspect an
action's parameter schema, and dispatch an action with key=value parameters.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to a vbox-cpi YAML config file")
	rootCmd.PersistentFlags().StringVar(&binary, "binary", "", "VBoxManage binary to invoke (default: platform name)")
}

// Run executes the root command; this is the entry point called by main.
func Run() error {
	return rootCmd.Execute()
}

// newProvider builds a provider from the configured (or default) settings.
// The --binary flag wins over both the config file and the environment.
func newProvider() (*cpi.Provider, error) {
	cfg := config.DefaultConfig()
	if configPath != "" {
		loaded, err := config.LoadConfig(configPath)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}
	config.ApplyEnvOverrides(cfg)
	if binary != "" {
		cfg.VBox.Binary = binary
	}

	return cpi.New(vbox.NewCLIRunner(cfg.VBox.Binary), cfg.Defaults), nil
}
