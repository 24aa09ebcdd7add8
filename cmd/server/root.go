package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"welcome/internal/platform/config"
	"welcome/pkg/domain"
)

// exitBadEventKey matches the status the desk has always used for an event
// key without a number.
const exitBadEventKey = 2

type rootOptions struct {
	addr           string
	backend        string
	staticDir      string
	bootstrapDir   string
	printerCommand string
	printerURL     string
	hooks          []string
	logLevel       string
}

func newRootCommand() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:   "welcome [cards-file] [event-key]",
		Short: "Event check-in desk",
		Long: `Serve the check-in desk for one event.

Attendee cards are merged into the profile store, every check-in queues a
badge print, and the first check-in of each attendee is announced to the
registered webhook recipients.

Configuration comes from the environment (see EVENT_KEY, CARDS_FILE,
PROFILE_BACKEND, PRINTER_COMMAND, HOOK_RECIPIENTS, ...); positional
arguments and flags override it.

Example:
  welcome cards.json shdh_42
  welcome --backend postgres --printer-command "lpr -P badges" shdh_42`,
		Args:          cobra.MaximumNArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.FromEnv()
			opts.apply(cmd, args, &cfg)

			if _, err := domain.ParseEventKey(cfg.EventKey); err != nil {
				return &exitError{code: exitBadEventKey, err: err}
			}
			if err := cfg.Validate(); err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return run(ctx, cfg)
		},
	}

	f := cmd.Flags()
	f.StringVar(&opts.addr, "addr", "", "listen address (WELCOME_ADDR)")
	f.StringVar(&opts.backend, "backend", "", "profile store: file, postgres or redis (PROFILE_BACKEND)")
	f.StringVar(&opts.staticDir, "static", "", "directory served under /static/ (STATIC_DIR)")
	f.StringVar(&opts.bootstrapDir, "bootstrap", "", "directory served over plain HTTP on BOOTSTRAP_ADDR, empty disables (BOOTSTRAP_DIR)")
	f.StringVar(&opts.printerCommand, "printer-command", "", "command receiving each card as JSON on stdin (PRINTER_COMMAND)")
	f.StringVar(&opts.printerURL, "printer-url", "", "print spooler endpoint (PRINTER_URL)")
	f.StringSliceVar(&opts.hooks, "hook", nil, "webhook recipient url, repeatable (HOOK_RECIPIENTS)")
	f.StringVar(&opts.logLevel, "log-level", "", "debug, info, warn or error (LOG_LEVEL)")

	cmd.SetContext(context.Background())
	cmd.AddCommand(newHashTokenCommand())
	return cmd
}

// apply overlays positional arguments and explicitly set flags on cfg. With
// one argument it is the event key; with two they are the cards file and
// the event key.
func (o *rootOptions) apply(cmd *cobra.Command, args []string, cfg *config.Config) {
	switch len(args) {
	case 1:
		cfg.EventKey = args[0]
	case 2:
		cfg.Store.CardsFile = args[0]
		cfg.EventKey = args[1]
	}

	f := cmd.Flags()
	if f.Changed("addr") {
		cfg.Server.Addr = o.addr
	}
	if f.Changed("backend") {
		cfg.Store.Backend = o.backend
	}
	if f.Changed("static") {
		cfg.Server.StaticDir = o.staticDir
	}
	if f.Changed("bootstrap") {
		cfg.Server.BootstrapDir = o.bootstrapDir
	}
	if f.Changed("printer-command") {
		cfg.Printing.Command = o.printerCommand
	}
	if f.Changed("printer-url") {
		cfg.Printing.URL = o.printerURL
	}
	if f.Changed("hook") {
		cfg.Hooks.Recipients = append(cfg.Hooks.Recipients, o.hooks...)
	}
	if f.Changed("log-level") {
		cfg.Server.LogLevel = o.logLevel
	}
}
