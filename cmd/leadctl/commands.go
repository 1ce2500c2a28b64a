package main

import (
	"context"
	"errors"
	"fmt"
	"lead_funnel_go/config"
	"lead_funnel_go/models"
	"lead_funnel_go/services"
	"lead_funnel_go/services/i18n"
	"lead_funnel_go/services/leadflow"
	"lead_funnel_go/services/sheets"
	"time"

	"github.com/spf13/cobra"
)

type rootOptions struct {
	server  string
	timeout time.Duration
	local   bool
	lang    string
}

func newRootCmd(cfg *config.Config) *cobra.Command {
	opts := &rootOptions{}

	rootCmd := &cobra.Command{
		Use:          "leadctl",
		Short:        "Operate the franchise lead funnel",
		SilenceUsage: true,
	}
	rootCmd.PersistentFlags().StringVar(&opts.server, "server", cfg.AppURL, "Base URL of the lead funnel server")
	rootCmd.PersistentFlags().DurationVar(&opts.timeout, "timeout", cfg.OutboundTimeout, "Timeout for each request")
	rootCmd.PersistentFlags().BoolVar(&opts.local, "local", false, "Read the configured sheet directly instead of the server")
	rootCmd.PersistentFlags().StringVar(&opts.lang, "lang", i18n.DefaultLang, "Language for flow messages")

	rootCmd.AddCommand(
		newCountCmd(cfg, opts),
		newStatsCmd(cfg, opts),
		newSubmitCmd(opts),
		newTestEmailCmd(cfg),
	)
	return rootCmd
}

// statsSource is what count and stats read from
type statsSource interface {
	Count(ctx context.Context) (int, error)
	Stats(ctx context.Context) (*models.LeadStats, error)
}

func newStatsSource(cfg *config.Config, opts *rootOptions) (statsSource, error) {
	if !opts.local {
		return leadflow.NewHTTPSubmitter(opts.server, opts.timeout), nil
	}
	store, err := sheets.NewStore(cfg, sheets.NewCredentialLoader(cfg))
	if err != nil {
		return nil, err
	}
	return services.NewStatsCache(store, 0, nil), nil
}

func newCountCmd(cfg *config.Config, opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "count",
		Short: "Print the number of leads in the sheet",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			src, err := newStatsSource(cfg, opts)
			if err != nil {
				return err
			}
			ctx, cancel := context.WithTimeout(cmd.Context(), opts.timeout)
			defer cancel()

			count, err := src.Count(ctx)
			if err != nil {
				return fmt.Errorf("count failed: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), count)
			return nil
		},
	}
}

func newStatsCmd(cfg *config.Config, opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Print total and last-30-days lead counts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			src, err := newStatsSource(cfg, opts)
			if err != nil {
				return err
			}
			ctx, cancel := context.WithTimeout(cmd.Context(), opts.timeout)
			defer cancel()

			stats, err := src.Stats(ctx)
			if err != nil {
				return fmt.Errorf("stats failed: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "total: %d\nlast 30 days: %d\n", stats.TotalCount, stats.Last30DaysCount)
			return nil
		},
	}
}

type submitOptions struct {
	name   string
	phone  string
	region string
	memo   string
	agree  bool
}

func newSubmitCmd(opts *rootOptions) *cobra.Command {
	in := &submitOptions{}

	cmd := &cobra.Command{
		Use:   "submit",
		Short: "Send one lead through the multi-step form flow",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), opts.timeout)
			defer cancel()

			provider := leadflow.NewProvider()
			flow := leadflow.New(leadflow.NewHTTPSubmitter(opts.server, opts.timeout), provider, opts.lang)
			if err := runFlow(ctx, flow, in); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s (stats refresh #%d)\n", i18n.Translate(opts.lang, "flow.complete"), provider.StatsVersion())
			return nil
		},
	}

	cmd.Flags().StringVar(&in.name, "name", "", "Applicant name")
	cmd.Flags().StringVar(&in.phone, "phone", "", "Phone number, digits or 010-0000-0000")
	cmd.Flags().StringVar(&in.region, "region", "", "Preferred region")
	cmd.Flags().StringVar(&in.memo, "memo", "", "Free-text message")
	cmd.Flags().BoolVar(&in.agree, "agree", false, "Check all consent boxes")
	return cmd
}

// runFlow drives the flow the way a visitor would: step 1, step 2, consent, confirm
func runFlow(ctx context.Context, flow *leadflow.Flow, in *submitOptions) error {
	flow.Open()
	flow.SetField(leadflow.FieldRegion, in.region)
	flow.SetField(leadflow.FieldMemo, in.memo)
	flow.SetField(leadflow.FieldPhone, in.phone)
	if err := flow.Next(); err != nil {
		return err
	}

	flow.SetField(leadflow.FieldName, in.name)
	if err := flow.RequestConsent(); err != nil {
		return err
	}

	if in.agree {
		flow.ToggleAllConsent()
	}
	if err := flow.Confirm(ctx); err != nil {
		var verr *leadflow.ValidationError
		if errors.As(err, &verr) {
			return verr
		}
		return errors.New(flow.Message())
	}
	return nil
}

func newTestEmailCmd(cfg *config.Config) *cobra.Command {
	var to string

	cmd := &cobra.Command{
		Use:   "test-email",
		Short: "Send a test email through the configured transport",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			mailer, err := services.NewMailer(cfg)
			if err != nil {
				return err
			}
			if to == "" {
				to = cfg.NotificationEmail
			}
			if to == "" {
				return services.ErrNoRecipient
			}

			email, err := services.BuildTestEmail(cfg, mailer.Name(), to)
			if err != nil {
				return err
			}
			if err := mailer.Send(cmd.Context(), email); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "sent via %s to %s\n", mailer.Name(), to)
			return nil
		},
	}
	cmd.Flags().StringVar(&to, "to", "", "Recipient (default: NOTIFICATION_EMAIL)")
	return cmd
}
