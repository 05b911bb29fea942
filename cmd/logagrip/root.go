package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"logagrip/internal/app"
	"logagrip/internal/config"
	"logagrip/internal/cwlogs"
	"logagrip/internal/domain"
	"logagrip/internal/eventbus"
	"logagrip/internal/logging"
	"logagrip/internal/preset"
	"logagrip/internal/profile"
	"logagrip/internal/ui"
)

// fetchTimeout bounds one DescribeLogGroups page including client setup
const fetchTimeout = 30 * time.Second

type rootOptions struct {
	configPath    string
	region        string
	awsConfigFile string
	debug         bool
	logFile       string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:   "logagrip",
		Short: "Browse CloudWatch Logs groups across AWS profiles",
		Long: `logagrip lists the profiles of your AWS shared config and the CloudWatch
Logs groups they can see, filtered by name-prefix presets, in a terminal UI.`,
		Version:      version,
		SilenceUsage: true,
		Args:         cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return runBrowser(ctx, cmd, opts)
		},
	}
	cmd.SetVersionTemplate(`{{printf "logagrip version %s\n" .Version}}`)

	flags := cmd.PersistentFlags()
	flags.StringVar(&opts.configPath, "config", "", "config file (default ~/.config/logagrip/config.toml)")
	flags.StringVar(&opts.region, "region", "", "AWS region, overriding each profile's region")
	flags.StringVar(&opts.awsConfigFile, "aws-config", "", "AWS shared config file (default ~/.aws/config)")
	flags.BoolVar(&opts.debug, "debug", false, "show the debug pane")
	flags.StringVar(&opts.logFile, "log-file", "", "log file (default ~/.local/state/logagrip/logagrip.log)")

	cmd.AddCommand(newConfigCmd(opts))
	cmd.AddCommand(newVersionCmd())
	return cmd
}

// loadConfig loads the config file and applies the flags the user set. An
// explicit --config must exist.
func loadConfig(cmd *cobra.Command, opts *rootOptions) (*config.Config, config.ConfigService, error) {
	var (
		cs  config.ConfigService
		cfg *config.Config
		err error
	)
	if opts.configPath != "" {
		cs = config.NewConfigServiceAt(opts.configPath)
		cfg, err = cs.LoadFromPath(opts.configPath)
	} else {
		cs, err = config.NewConfigService()
		if err == nil {
			cfg, err = cs.Load()
		}
	}
	if err != nil {
		return nil, nil, err
	}

	flags := cmd.Flags()
	if flags.Changed("region") {
		cfg.Region = opts.region
	}
	if flags.Changed("aws-config") {
		cfg.AWSConfigFile = opts.awsConfigFile
	}
	if flags.Changed("debug") {
		cfg.Debug = opts.debug
	}
	if flags.Changed("log-file") {
		cfg.LogFile = opts.logFile
	}
	if cfg.LogFile == "" {
		cfg.LogFile = config.DefaultLogFile()
	}
	return cfg, cs, nil
}

func runBrowser(ctx context.Context, cmd *cobra.Command, opts *rootOptions) error {
	cfg, cs, err := loadConfig(cmd, opts)
	if err != nil {
		return err
	}

	logFile, err := logging.OpenFile(cfg.LogFile)
	if err != nil {
		return err
	}
	defer logFile.Close()
	level, _ := logging.ParseLevel(cfg.LogLevel)
	logging.Init(logFile, level)
	logging.Info("main", "starting", "version", version, "config", cs.Path())

	if _, err := os.Stat(cs.Path()); errors.Is(err, os.ErrNotExist) {
		if err := cs.Save(cfg); err != nil {
			logging.Warn("main", "could not write default config", "error", err)
		}
	}

	awsConfigFile := cfg.AWSConfigFile
	if awsConfigFile == "" {
		if awsConfigFile, err = profile.DefaultConfigPath(); err != nil {
			return err
		}
	}
	profiles, err := profile.LoadFile(awsConfigFile)
	if err != nil {
		logging.Error("main", err, "failed to load profiles")
		return err
	}

	quitKey, err := cfg.Quit()
	if err != nil {
		return err
	}

	run := eventbus.NewRunState()
	bus := eventbus.New(run)
	factory := cwlogs.NewAWSClientFactory(cfg.Region, awsConfigFile, cfg.ClientTTL)
	browser := app.New(
		app.NewData(preset.NewStore(cfg.DomainPresets()...), profiles, cfg.Debug),
		quitKey,
		run,
		bus,
		cwlogs.NewGroupService(factory, fetchTimeout),
	)

	keys := make(chan domain.Key, eventbus.Capacity)
	program := ui.NewProgram(ui.NewModel(keys, run, quitKey))

	ticker := time.NewTicker(cfg.TickRate)
	defer ticker.Stop()
	runner := app.NewRunner(browser, bus, program, ticker.C, keys)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return runner.Run(gctx)
	})
	g.Go(func() error {
		defer run.Stop()
		if err := program.Run(); err != nil {
			return fmt.Errorf("failed to run terminal UI: %w", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		logging.Error("main", err, "exited with error")
		return err
	}
	logging.Info("main", "exited normally")
	return nil
}
