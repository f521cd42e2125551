package main

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/liao/chat-miner/internal/config"
)

type app struct {
	configPath string
	logLevel   string
	cfg        *config.Config
}

func newRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:   "chatminer",
		Short: "Parse exported chat logs into uniform records",
		Long: `chatminer reads chat exports from WhatsApp, Signal, Telegram, Facebook
Messenger, Instagram and WeChat and normalizes them into
(timestamp, author, message) records.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.init()
		},
	}

	root.PersistentFlags().StringVarP(&a.configPath, "config", "c", "", "config file (yaml)")
	root.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "override log.level: debug, info, warn, error")

	root.AddCommand(newParseCmd(a), newIndexCmd(a), newSearchCmd(a), newEncryptCmd())
	return root
}

func (a *app) init() error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}
	if a.logLevel != "" {
		cfg.Log.Level = a.logLevel
	}
	a.cfg = cfg

	opts := &slog.HandlerOptions{Level: cfg.Log.SlogLevel()}
	var handler slog.Handler = slog.NewTextHandler(os.Stderr, opts)
	if cfg.Log.Format == "json" {
		handler = slog.NewJSONHandler(os.Stderr, opts)
	}
	slog.SetDefault(slog.New(handler))
	return nil
}
