package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "adminctl",
		Short: "Retailer services administration",
		Long:  `Operator tasks for the retailer services backend: admin accounts, retailer verification, catalog seeding, manual wallet credits, OTP cleanup and rate limit resets.`,
	}

	rootCmd.AddCommand(
		newCreateAdminCommand(),
		newSeedCatalogCommand(),
		newCreditCommand(),
		newVerifyRetailerCommand(),
		newSweepOtpsCommand(),
		newUnblockCommand(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
