package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/dwm-statusbar/pkg/config"
	"github.com/dwm-statusbar/pkg/logger"
	"github.com/dwm-statusbar/pkg/metrics"
	"github.com/dwm-statusbar/pkg/signal"
	"github.com/dwm-statusbar/pkg/sink"
	"github.com/dwm-statusbar/pkg/statusbar"
)

var defaultCfg = config.NewDefaultConfig()

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "statusbar",
		Short:         "Status line for dwm: samples system state and sets the root window name",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadConfigWithCli(cmd)
			if err != nil {
				return err
			}
			return runBar(cmd.Context(), cfg)
		},
	}

	root.PersistentFlags().StringP("config", "c", "", "-> Config file path | 配置文件路径 (default: $XDG_CONFIG_HOME/statusbar/config.toml)")
	// 注册分组 flag
	initGeneralFlags(root.PersistentFlags())
	initLogFlags(root.PersistentFlags())
	initMetricsFlags(root.PersistentFlags())

	root.AddCommand(newVersionCmd(), newConfigCmd())
	return root
}

// Execute 配置错误与 sink 失败都以非零状态退出，由会话脚本决定是否重启
func Execute() {
	if err := newRootCmd().ExecuteContext(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func runBar(ctx context.Context, cfg *config.Config) error {
	if _, err := logger.InitLogger(&cfg.Log); err != nil {
		return fmt.Errorf("日志初始化失败: %w", err)
	}
	defer logger.Sync()

	logger.Info("configuration loaded",
		zap.String("file", cfg.File),
		zap.Int("sources", len(cfg.Sources)),
		zap.String("sink", cfg.General.Sink),
		zap.String("log-path", cfg.Log.Path))

	snk, err := sink.New(cfg.General.Sink, os.Stdout)
	if err != nil {
		return err
	}

	var opts []statusbar.Option
	if cfg.Metrics.Textfile != "" {
		reg := metrics.NewPromRegistry(prometheus.NewRegistry())
		factory := metrics.NewMetricFactory(reg)
		factory.RegisterProcessCollector()
		opts = append(opts,
			statusbar.WithMetrics(metrics.NewStatusbarMetrics(factory)),
			statusbar.WithTextfile(metrics.NewTextfileWriter(reg, cfg.Metrics.Textfile, cfg.Metrics.WriteInterval(), nil)))
		logger.Info("metrics textfile enabled", zap.String("path", cfg.Metrics.Textfile))
	}

	bar, err := statusbar.FromConfig(cfg, snk, opts...)
	if err != nil {
		return err
	}
	for _, g := range bar.Groups() {
		logger.Debug("interval group", zap.Duration("interval", g.Interval), zap.Int("sources", len(g.Entries)))
	}

	ctx, stop := signal.WithShutdown(ctx)
	defer stop()
	if err := bar.Run(ctx); err != nil {
		return fmt.Errorf("status bar stopped: %w", err)
	}
	logger.Info("status bar exited")
	return nil
}
