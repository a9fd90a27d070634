package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/chris/retailer-services/pkg/bootstrap"
	"github.com/chris/retailer-services/pkg/catalog"
	"github.com/chris/retailer-services/pkg/config"
	"github.com/chris/retailer-services/pkg/logging"
	"github.com/chris/retailer-services/pkg/models"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

// cliActor is recorded as the acting administrator of CLI changes.
const cliActor = "adminctl"

var (
	mobile   string
	name     string
	email    string
	password string
	userID   string
	amount   int64
	note     string
)

func newCreateAdminCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "create-admin",
		Short: "Create an admin account",
		Long:  `Create an admin account. The password is prompted for when --password is not given.`,
		RunE:  runCreateAdmin,
	}

	cmd.Flags().StringVarP(&mobile, "mobile", "m", "", "Mobile number (10 digits)")
	cmd.Flags().StringVarP(&name, "name", "n", "", "Display name")
	cmd.Flags().StringVar(&email, "email", "", "Email address")
	cmd.Flags().StringVarP(&password, "password", "p", "", "Password")
	_ = cmd.MarkFlagRequired("mobile")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("email")

	return cmd
}

func newSeedCatalogCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "seed-catalog <file.yaml>",
		Short: "Load service options from a YAML file",
		Long:  `Validate a catalog file and write every option to the store, replacing options with the same ID.`,
		Args:  cobra.ExactArgs(1),
		RunE:  runSeedCatalog,
	}
}

func newCreditCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "credit",
		Short: "Credit a retailer wallet",
		Long:  `Post a manual credit to a wallet. Amount is in minor currency units.`,
		RunE:  runCredit,
	}

	cmd.Flags().StringVarP(&userID, "user", "u", "", "User ID owning the wallet")
	cmd.Flags().Int64VarP(&amount, "amount", "a", 0, "Amount in minor units")
	cmd.Flags().StringVar(&note, "note", "", "Note stored with the transaction")
	_ = cmd.MarkFlagRequired("user")
	_ = cmd.MarkFlagRequired("amount")

	return cmd
}

func newVerifyRetailerCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "verify-retailer",
		Short: "Approve a retailer for sign-in",
		RunE:  runVerifyRetailer,
	}

	cmd.Flags().StringVarP(&userID, "user", "u", "", "User ID of the retailer")
	_ = cmd.MarkFlagRequired("user")

	return cmd
}

func newSweepOtpsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "sweep-otps",
		Short: "Delete expired OTP challenges",
		RunE:  runSweepOtps,
	}
}

func newUnblockCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "unblock <client-ip>",
		Short: "Clear the auth rate limit budget of a client",
		Args:  cobra.ExactArgs(1),
		RunE:  runUnblock,
	}
}

func initApp(ctx context.Context) (*bootstrap.App, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	logger := logging.Setup(cfg.Log.Level, cfg.Log.Format)
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return bootstrap.New(ctx, cfg, logger)
}

func runCreateAdmin(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if password == "" {
		p, err := readPassword()
		if err != nil {
			return err
		}
		password = p
	}

	app, err := initApp(ctx)
	if err != nil {
		return err
	}
	user, err := app.Accounts.CreateAdmin(ctx, mobile, name, email, password)
	if err != nil {
		return fmt.Errorf("failed to create admin: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "created admin %s (%s)\n", user.UserId, user.Mobile)
	return nil
}

func readPassword() (string, error) {
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		return "", errors.New("--password is required when stdin is not a terminal")
	}

	fmt.Fprint(os.Stderr, "Password: ")
	first, err := term.ReadPassword(fd)
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", fmt.Errorf("failed to read password: %w", err)
	}
	fmt.Fprint(os.Stderr, "Confirm password: ")
	second, err := term.ReadPassword(fd)
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", fmt.Errorf("failed to read password: %w", err)
	}
	if string(first) != string(second) {
		return "", errors.New("passwords do not match")
	}
	return strings.TrimSpace(string(first)), nil
}

func runSeedCatalog(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	f, err := os.Open(args[0])
	if err != nil {
		return err
	}
	defer f.Close()

	options, err := catalog.Parse(f)
	if err != nil {
		return fmt.Errorf("invalid catalog %s: %w", args[0], err)
	}

	app, err := initApp(ctx)
	if err != nil {
		return err
	}
	if err := catalog.Seed(ctx, app.Store, options); err != nil {
		return err
	}

	app.Logger.Info("catalog seeded", "file", args[0], "options", len(options))
	fmt.Fprintf(cmd.OutOrStdout(), "seeded %d options\n", len(options))
	return nil
}

func runCredit(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if amount <= 0 {
		return errors.New("--amount must be positive")
	}

	app, err := initApp(ctx)
	if err != nil {
		return err
	}
	meta := map[string]string{
		models.MetaReason: "manual credit",
		models.MetaActor:  cliActor,
	}
	if note != "" {
		meta[models.MetaNote] = note
	}
	txn, err := app.Ledger.Credit(ctx, userID, amount, meta)
	if err != nil {
		return fmt.Errorf("failed to credit wallet %s: %w", userID, err)
	}

	wallet, err := app.Ledger.Wallet(ctx, userID)
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "credited %d to %s, balance %d (transaction %s)\n", amount, userID, wallet.Balance, txn.Id)
	return nil
}

func runVerifyRetailer(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	app, err := initApp(ctx)
	if err != nil {
		return err
	}
	user, err := app.Accounts.VerifyRetailer(ctx, cliActor, userID, true)
	if err != nil {
		return fmt.Errorf("failed to verify retailer %s: %w", userID, err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "verified retailer %s (%s)\n", user.UserId, user.Mobile)
	return nil
}

func runUnblock(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	limiter, rdb := bootstrap.NewAuthLimiter(cfg)
	if rdb == nil {
		return errors.New("REDIS_ADDR is not set")
	}
	defer rdb.Close()

	if err := limiter.Reset(cmd.Context(), args[0]); err != nil {
		return fmt.Errorf("failed to reset %s: %w", args[0], err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "unblocked %s\n", args[0])
	return nil
}

func runSweepOtps(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	app, err := initApp(ctx)
	if err != nil {
		return err
	}
	n, err := app.OTP.Sweep(ctx)
	if err != nil {
		return fmt.Errorf("failed to sweep challenges: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "deleted %d expired challenges\n", n)
	return nil
}
