package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kong"
	"go.uber.org/zap"

	"github.com/fzft/go-chainset/cmd"
	"github.com/fzft/go-chainset/config"
	"github.com/fzft/go-chainset/log"
	"github.com/fzft/go-chainset/metrics"
)

type CLI struct {
	Config     string           `short:"c" help:"Configuration file path" default:"chainset.yaml" type:"path"`
	Verbose    bool             `short:"v" help:"Enable debug logging"`
	Capacity   int              `help:"Initial number of buckets (overrides config)"`
	LoadFactor float64          `name:"load-factor" help:"Maximum load factor (overrides config)"`
	KeyType    string           `name:"key-type" help:"Key type: string or int (overrides config)"`
	Hasher     string           `help:"Hash function for string keys: murmur3, xxhash or fnv (overrides config)"`
	Metrics    string           `help:"Address to expose Prometheus metrics on (overrides config)"`
	Exec       string           `short:"e" help:"Run ';'-separated commands and exit"`
	Version    kong.VersionFlag `help:"Show version and exit"`
}

// apply merges flags over the loaded configuration.
func (c *CLI) apply(cfg *config.Config) error {
	if c.Capacity != 0 {
		cfg.Set.Capacity = c.Capacity
	}
	if c.LoadFactor != 0 {
		cfg.Set.MaxLoadFactor = c.LoadFactor
	}
	if c.KeyType != "" {
		cfg.Set.KeyType = c.KeyType
	}
	if c.Hasher != "" {
		cfg.Set.Hasher = c.Hasher
	}
	if c.Metrics != "" {
		cfg.Metrics.Listen = c.Metrics
	}
	if c.Verbose {
		cfg.Log.Level = "debug"
	}
	return cfg.Validate()
}

func run(cli *CLI) error {
	cfg, err := config.Load(cli.Config)
	if err != nil {
		return err
	}
	if err := cli.apply(cfg); err != nil {
		return err
	}
	if err := log.InitLogger(log.Config{
		Level:       cfg.Log.Level,
		Development: cfg.Log.Development,
		TimeZone:    cfg.Log.TimeZone,
	}); err != nil {
		return err
	}
	defer log.Logger.Sync()

	sh, err := cmd.NewShell(cfg, os.Stdout)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if cfg.Metrics.Listen != "" {
		reg, err := metrics.Register(nil, "shell", sh, sh.Locker())
		if err != nil {
			return err
		}
		go func() {
			if err := metrics.Serve(ctx, cfg.Metrics.Listen, reg); err != nil {
				log.Logger.Error("metrics server", zap.Error(err))
			}
		}()
	}

	if cli.Exec != "" {
		return scriptResult(sh.RunScript(cli.Exec))
	}
	err = sh.Run(ctx, os.Stdin)
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

// scriptResult condenses the failures of a -e script, which the shell has
// already printed one by one, into a count for the exit message.
func scriptResult(err error) error {
	var multi cmd.MultiError
	if errors.As(err, &multi) {
		return fmt.Errorf("%d of the script's commands failed", len(multi))
	}
	return err
}

func main() {
	var cli CLI
	kong.Parse(&cli,
		kong.Name("chainset"),
		kong.Description("Interactive shell over a chained hash set."),
		kong.Vars{"version": versionString()},
	)
	if err := run(&cli); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
