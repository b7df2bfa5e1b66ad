package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/prohmpiriya/webtail-stripe/internal/domain"
	"github.com/prohmpiriya/webtail-stripe/internal/service"
	"github.com/prohmpiriya/webtail-stripe/internal/validator"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

// opener builds the plugin and returns a cleanup for the resources behind it
type opener func(ctx context.Context) (service.PaymentPlugin, func(), error)

func newRootCmd(open opener) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "stripectl",
		Short:         "Operate the Stripe payment plugin of a store",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(installCmd(open))
	rootCmd.AddCommand(uninstallCmd(open))
	rootCmd.AddCommand(verifyCmd(open))
	rootCmd.AddCommand(settingsCmd(open))
	rootCmd.AddCommand(configureCmd(open))

	return rootCmd
}

// withPlugin runs fn against a freshly opened plugin
func withPlugin(cmd *cobra.Command, open opener, fn func(ctx context.Context, plugin service.PaymentPlugin) error) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	plugin, cleanup, err := open(ctx)
	if err != nil {
		return err
	}
	defer cleanup()

	return fn(ctx, plugin)
}

func installCmd(open opener) *cobra.Command {
	return &cobra.Command{
		Use:   "install",
		Short: "Persist default settings and locale resources",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withPlugin(cmd, open, func(ctx context.Context, plugin service.PaymentPlugin) error {
				if err := plugin.Install(ctx); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "Plugin installed (sandbox mode, authorize only)")
				return nil
			})
		},
	}
}

func uninstallCmd(open opener) *cobra.Command {
	return &cobra.Command{
		Use:   "uninstall",
		Short: "Delete settings and locale resources",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withPlugin(cmd, open, func(ctx context.Context, plugin service.PaymentPlugin) error {
				if err := plugin.Uninstall(ctx); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "Plugin uninstalled")
				return nil
			})
		},
	}
}

func verifyCmd(open opener) *cobra.Command {
	return &cobra.Command{
		Use:   "verify",
		Short: "Check the stored API key against Stripe",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withPlugin(cmd, open, func(ctx context.Context, plugin service.PaymentPlugin) error {
				if err := plugin.VerifyConnection(ctx); err != nil {
					return fmt.Errorf("connection check failed: %w", err)
				}
				fmt.Fprintln(cmd.OutOrStdout(), "Connection OK")
				return nil
			})
		},
	}
}

func settingsCmd(open opener) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "settings",
		Short: "Show the stored settings with keys masked",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withPlugin(cmd, open, func(ctx context.Context, plugin service.PaymentPlugin) error {
				cfg, err := plugin.GetConfiguration(ctx)
				if err != nil {
					return err
				}
				masked := maskSettings(cfg.Settings)
				if asJSON {
					enc := json.NewEncoder(cmd.OutOrStdout())
					enc.SetIndent("", "  ")
					return enc.Encode(masked)
				}
				printSettings(cmd.OutOrStdout(), masked)
				return nil
			})
		},
	}

	cmd.Flags().BoolVarP(&asJSON, "json", "j", false, "Output as JSON")

	return cmd
}

func configureCmd(open opener) *cobra.Command {
	var (
		liveSecret, livePublishable string
		testSecret, testPublishable string
		sandbox, percentage         bool
		fee, mode                   string
	)

	cmd := &cobra.Command{
		Use:   "configure",
		Short: "Update settings; unset flags keep their stored value",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withPlugin(cmd, open, func(ctx context.Context, plugin service.PaymentPlugin) error {
				current, err := plugin.GetConfiguration(ctx)
				if err != nil {
					return err
				}
				s := current.Settings

				model := &validator.ConfigurationModel{
					LiveSecretKey:           s.LiveSecretKey,
					LivePublishableKey:      s.LivePublishableKey,
					TestSecretKey:           s.TestSecretKey,
					TestPublishableKey:      s.TestPublishableKey,
					UseSandbox:              s.UseSandbox,
					AdditionalFee:           s.AdditionalFee,
					AdditionalFeePercentage: s.AdditionalFeePercentage,
					TransactionModeID:       int(s.TransactionMode),
				}

				flags := cmd.Flags()
				if flags.Changed("live-secret-key") {
					model.LiveSecretKey = liveSecret
				}
				if flags.Changed("live-publishable-key") {
					model.LivePublishableKey = livePublishable
				}
				if flags.Changed("test-secret-key") {
					model.TestSecretKey = testSecret
				}
				if flags.Changed("test-publishable-key") {
					model.TestPublishableKey = testPublishable
				}
				if flags.Changed("sandbox") {
					model.UseSandbox = sandbox
				}
				if flags.Changed("fee-percentage") {
					model.AdditionalFeePercentage = percentage
				}
				if flags.Changed("fee") {
					d, err := decimal.NewFromString(fee)
					if err != nil {
						return fmt.Errorf("invalid fee %q: %w", fee, domain.ErrInvalidConfiguration)
					}
					model.AdditionalFee = d
				}
				if flags.Changed("mode") {
					m, err := domain.ParseTransactionMode(mode)
					if err != nil {
						return err
					}
					model.TransactionModeID = int(m)
				}

				updated, err := plugin.Configure(ctx, model)
				if err != nil {
					var verr *service.ValidationError
					if errors.As(err, &verr) {
						return fmt.Errorf("%s", strings.Join(verr.Messages, "; "))
					}
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), updated.Message)
				return nil
			})
		},
	}

	f := cmd.Flags()
	f.StringVar(&liveSecret, "live-secret-key", "", "Live secret key (sk_live_...)")
	f.StringVar(&livePublishable, "live-publishable-key", "", "Live publishable key (pk_live_...)")
	f.StringVar(&testSecret, "test-secret-key", "", "Test secret key (sk_test_...)")
	f.StringVar(&testPublishable, "test-publishable-key", "", "Test publishable key (pk_test_...)")
	f.BoolVar(&sandbox, "sandbox", true, "Use the test keys")
	f.BoolVar(&percentage, "fee-percentage", false, "Treat the additional fee as a percentage of the cart subtotal")
	f.StringVar(&fee, "fee", "0", "Additional fee")
	f.StringVar(&mode, "mode", "authorize", "Transaction mode (authorize, charge, 1, 2)")

	return cmd
}

// maskSettings hides everything but the key prefix and the last four characters
func maskSettings(s *domain.Settings) *domain.Settings {
	masked := *s
	masked.LiveSecretKey = maskKey(s.LiveSecretKey)
	masked.TestSecretKey = maskKey(s.TestSecretKey)
	return &masked
}

func maskKey(key string) string {
	if key == "" {
		return ""
	}
	if len(key) <= 12 {
		return strings.Repeat("*", len(key))
	}
	prefix := key[:strings.LastIndex(key[:8], "_")+1]
	return prefix + strings.Repeat("*", len(key)-len(prefix)-4) + key[len(key)-4:]
}

func printSettings(w io.Writer, s *domain.Settings) {
	fmt.Fprintln(w, "Stripe Settings")
	fmt.Fprintln(w, strings.Repeat("=", 40))
	fmt.Fprintf(w, "  %-22s %t\n", "Sandbox:", s.UseSandbox)
	fmt.Fprintf(w, "  %-22s %s\n", "Transaction mode:", s.TransactionMode)
	fmt.Fprintf(w, "  %-22s %s\n", "Additional fee:", s.AdditionalFee.String())
	fmt.Fprintf(w, "  %-22s %t\n", "Fee is percentage:", s.AdditionalFeePercentage)
	fmt.Fprintf(w, "  %-22s %s\n", "Live secret key:", valueOrUnset(s.LiveSecretKey))
	fmt.Fprintf(w, "  %-22s %s\n", "Live publishable key:", valueOrUnset(s.LivePublishableKey))
	fmt.Fprintf(w, "  %-22s %s\n", "Test secret key:", valueOrUnset(s.TestSecretKey))
	fmt.Fprintf(w, "  %-22s %s\n", "Test publishable key:", valueOrUnset(s.TestPublishableKey))
}

func valueOrUnset(v string) string {
	if v == "" {
		return "not set"
	}
	return v
}
