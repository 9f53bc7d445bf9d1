package main

import (
	"context"
	"os"

	"github.com/rfaisal/noteminder/internal/shared"
	"github.com/urfave/cli/v3"
)

// Setup creates the config file from the embedded template when missing and
// opens the store once so the data directory and an empty document exist.
func (r *Runner) Setup(ctx context.Context, cmd *cli.Command) error {
	configPath := cmd.String("config")

	if _, err := os.Stat(configPath); err == nil {
		r.logger.Info("config file already exists", "path", configPath)
		if config, err := shared.LoadConfig(configPath); err == nil {
			r.config = config
		}
	} else {
		if err := shared.CreateConfigFile(configPath); err != nil {
			return err
		}
		r.logger.Info("config file created", "path", configPath)
		config, err := shared.LoadConfig(configPath)
		if err != nil {
			return err
		}
		r.config = config
	}

	if _, err := r.openStore(); err != nil {
		return err
	}
	r.logger.Info("store initialized", "dir", r.config.Storage.Dir)
	return r.writePlain("setup complete\n")
}
