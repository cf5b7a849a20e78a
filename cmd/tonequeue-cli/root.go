// Package main implements the tonequeue-cli binary: a Cobra root command
// with a serve subcommand (headless generator + HTTP introspection) and
// a keyer subcommand (interactive Bubble Tea TUI).
package main

import (
	"fmt"
	"log"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/kd9qzo/cwtonequeue/internal/conf"
)

func main() {
	if err := rootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func rootCommand() *cobra.Command {
	settings := &conf.Settings{}

	cmd := &cobra.Command{
		Use:   "tonequeue-cli",
		Short: "Run or exercise a cwtonequeue tone queue",
	}

	if err := setupFlags(cmd, settings); err != nil {
		log.Printf("error setting up flags: %v\n", err)
	}

	cmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		loaded, err := conf.Load()
		if err != nil {
			return fmt.Errorf("error loading config: %w", err)
		}
		*settings = *loaded
		return nil
	}

	cmd.AddCommand(serveCommand(settings), keyerCommand(settings))
	return cmd
}

func setupFlags(cmd *cobra.Command, settings *conf.Settings) error {
	cmd.PersistentFlags().BoolVarP(&settings.Debug, "debug", "d", viper.GetBool("debug"), "Enable debug output")

	if err := viper.BindPFlags(cmd.PersistentFlags()); err != nil {
		return fmt.Errorf("error binding flags: %w", err)
	}
	return nil
}
