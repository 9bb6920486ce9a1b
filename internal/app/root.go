package app

import (
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/klokku/weekview/internal/config"
	"github.com/klokku/weekview/internal/utils"
	"github.com/klokku/weekview/pkg/week"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

type globalOptions struct {
	Config string
}

func Execute() int {
	cmd := NewRootCommand()
	if err := cmd.Execute(); err != nil {
		log.Error(err)
		return 1
	}
	return 0
}

func NewRootCommand() *cobra.Command {
	opts := &globalOptions{}

	root := &cobra.Command{
		Use:           "weekview",
		Short:         "Lay out calendar events in a scrollable week view",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&opts.Config, "config", config.DefaultPath, "Config file path")

	root.AddCommand(newServeCmd(opts))
	root.AddCommand(newLayoutCmd(opts))
	return root
}

func newServeCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the week view HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			application, err := NewApplication(opts.Config)
			if err != nil {
				return fmt.Errorf("failed to initialize application: %w", err)
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return application.Run(ctx)
		},
	}
}

func newLayoutCmd(opts *globalOptions) *cobra.Command {
	var from string
	var days int

	cmd := &cobra.Command{
		Use:   "layout",
		Short: "Print the layout of the configured calendar as JSON",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(opts.Config)
			if err != nil {
				return err
			}
			clock := utils.SystemClock{}
			deps, err := BuildDependencies(cfg, clock)
			if err != nil {
				return err
			}
			defer deps.NowIndicator.Stop()

			view := deps.WeekService.Config()
			start, err := week.ParseDay(from, clock.Now(), view.Zone())
			if err != nil {
				return fmt.Errorf("invalid --from: %w", err)
			}
			if days < 0 {
				return fmt.Errorf("invalid --days: must not be negative, got %d", days)
			}

			result, err := deps.WeekService.Week(cmd.Context(), start, days)
			if err != nil {
				return err
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(week.ResultToDTO(result))
		},
	}
	cmd.Flags().StringVar(&from, "from", "today", "First day: today, tomorrow, +Nd, YYYY-Www, YYYY-MM-DD")
	cmd.Flags().IntVar(&days, "days", 0, "Number of days, the configured daysinfuture when 0")
	return cmd
}
