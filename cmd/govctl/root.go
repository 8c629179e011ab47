package main

import (
	"os"

	"github.com/spf13/cobra"
)

var (
	serverURL string
	outputFmt string
	company   string
	user      string
	role      string
)

var rootCmd = &cobra.Command{
	Use:   "govctl",
	Short: "CLI for the portfolio baseline governance server",
	Long: `govctl manages portfolio governance baselines: draft creation, module
editing, validation, and the submit/publish/reject lifecycle.

Identity is passed as trusted headers (--user / --role); multi-tenant
deployments scope every call with --company.`,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&serverURL, "server", "http://localhost:8080", "Governance server URL")
	rootCmd.PersistentFlags().StringVarP(&outputFmt, "output", "o", "table", "Output format: table, json, yaml")
	rootCmd.PersistentFlags().StringVar(&company, "company", "", "Company for multi-tenant operations (default: from GOVERNANCE_COMPANY env)")
	rootCmd.PersistentFlags().StringVar(&user, "user", "", "Acting user principal (default: from GOVERNANCE_USER env)")
	rootCmd.PersistentFlags().StringVar(&role, "role", "", "Acting user role, e.g. OWNER or ORG_ADMIN (default: from GOVERNANCE_ROLE env)")

	rootCmd.AddCommand(portfoliosCmd)
	rootCmd.AddCommand(baselinesCmd)
	rootCmd.AddCommand(healthCmd)
}

// resolvedCompany returns the effective company.
// Priority: --company flag > GOVERNANCE_COMPANY env var > "".
func resolvedCompany() string {
	if company != "" {
		return company
	}
	return os.Getenv("GOVERNANCE_COMPANY")
}

func resolvedUser() string {
	if user != "" {
		return user
	}
	return os.Getenv("GOVERNANCE_USER")
}

func resolvedRole() string {
	if role != "" {
		return role
	}
	return os.Getenv("GOVERNANCE_ROLE")
}
