// Command kinesim runs kinematic character controllers through a small demo
// level and logs what they do.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/akmonengine/kinematic/internal/config"
	"github.com/akmonengine/kinematic/internal/logger"
	"github.com/urfave/cli"
	"gopkg.in/yaml.v3"
)

func main() {
	app := makeapp()
	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func makeapp() *cli.App {
	app := cli.NewApp()
	app.Name = "kinesim"
	app.Usage = "Kinematic character controller sandbox"

	configFlag := cli.StringFlag{Name: "config, c", Value: "", Usage: "YAML configuration file"}

	app.Commands = []cli.Command{
		{
			Name:    "run",
			Aliases: []string{"r"},
			Usage:   "Simulate agents in the demo level",
			Flags: []cli.Flag{
				configFlag,
				cli.IntFlag{Name: "ticks", Usage: "Number of ticks to simulate"},
				cli.IntFlag{Name: "agents", Usage: "Number of agents"},
				cli.IntFlag{Name: "workers", Usage: "Goroutines stepping the agents"},
				cli.StringFlag{Name: "broad-phase", Usage: "Broad phase: rtree or grid"},
				cli.StringFlag{Name: "level", Usage: "Level: course or planet"},
				cli.BoolFlag{Name: "debug", Usage: "Log every tick"},
			},
			Action: func(c *cli.Context) error {
				cfg, err := loadConfig(c)
				if err != nil {
					return err
				}
				return runAction(cfg)
			},
		},
		{
			Name:  "config",
			Usage: "Print the effective configuration",
			Flags: []cli.Flag{configFlag},
			Action: func(c *cli.Context) error {
				cfg, err := loadConfig(c)
				if err != nil {
					return err
				}

				encoder := yaml.NewEncoder(os.Stdout)
				defer encoder.Close()
				return encoder.Encode(cfg)
			},
		},
	}

	return app
}

// loadConfig reads the configuration file and environment, then applies the
// command line flags that were given.
func loadConfig(c *cli.Context) (*config.Config, error) {
	cfg, err := config.Load(c.String("config"))
	if err != nil {
		return nil, err
	}

	if c.IsSet("ticks") {
		cfg.Simulation.Ticks = c.Int("ticks")
	}
	if c.IsSet("agents") {
		cfg.Simulation.Agents = c.Int("agents")
	}
	if c.IsSet("workers") {
		cfg.Simulation.Workers = c.Int("workers")
	}
	if c.IsSet("broad-phase") {
		cfg.Simulation.BroadPhase = c.String("broad-phase")
	}
	if c.IsSet("level") {
		cfg.Simulation.Level = c.String("level")
	}
	if c.Bool("debug") {
		cfg.Logging.Level = "debug"
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func runAction(cfg *config.Config) error {
	logger.Init(logger.Config{Level: cfg.Logging.Level, Format: cfg.Logging.Format})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if _, err := simulate(ctx, cfg, logger.L()); err != nil {
		return fmt.Errorf("simulate: %w", err)
	}
	return nil
}
