package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var portfoliosCmd = &cobra.Command{
	Use:   "portfolios",
	Short: "Manage portfolios",
}

var portfoliosListCmd = &cobra.Command{
	Use:   "list",
	Short: "List portfolios",
	RunE:  runPortfoliosList,
}

var portfoliosGetCmd = &cobra.Command{
	Use:   "get <portfolio-id>",
	Short: "Get one portfolio",
	Args:  cobra.ExactArgs(1),
	RunE:  runPortfoliosGet,
}

var portfoliosCreateCmd = &cobra.Command{
	Use:   "create <name>",
	Short: "Create a portfolio",
	Args:  cobra.ExactArgs(1),
	RunE:  runPortfoliosCreate,
}

var portfoliosGateCmd = &cobra.Command{
	Use:   "gate <portfolio-id>",
	Short: "Run the case-origination gate for a portfolio",
	Args:  cobra.ExactArgs(1),
	RunE:  runPortfoliosGate,
}

var portfoliosAuditCmd = &cobra.Command{
	Use:   "audit <portfolio-id>",
	Short: "Show the governance audit trail for a portfolio",
	Args:  cobra.ExactArgs(1),
	RunE:  runPortfoliosAudit,
}

var portfolioKind string

func init() {
	portfoliosCreateCmd.Flags().StringVar(&portfolioKind, "kind", "FUND", "Portfolio kind (FUND, DESK, PROGRAM)")

	portfoliosCmd.AddCommand(portfoliosListCmd)
	portfoliosCmd.AddCommand(portfoliosGetCmd)
	portfoliosCmd.AddCommand(portfoliosCreateCmd)
	portfoliosCmd.AddCommand(portfoliosGateCmd)
	portfoliosCmd.AddCommand(portfoliosAuditCmd)
}

func runPortfoliosList(cmd *cobra.Command, args []string) error {
	client := newClient()

	var list portfolioList
	if err := client.getJSON(apiPrefix+"/portfolios", &list); err != nil {
		return err
	}

	if outputFmt != "table" {
		return printOutput(list)
	}

	rows := make([][]string, len(list.Portfolios))
	for i, p := range list.Portfolios {
		active := p.ActiveBaselineVersionID
		if active == "" {
			active = "-"
		}
		rows[i] = []string{p.ID, truncate(p.Name, 40), p.Kind, active}
	}
	printTable([]string{"ID", "Name", "Kind", "Active Baseline"}, rows)
	fmt.Printf("\n%d portfolio(s)\n", list.TotalSize)
	return nil
}

func runPortfoliosGet(cmd *cobra.Command, args []string) error {
	client := newClient()

	var p portfolio
	if err := client.getJSON(apiPrefix+"/portfolios/"+args[0], &p); err != nil {
		return err
	}

	if outputFmt != "table" {
		return printOutput(p)
	}
	printTable([]string{"Field", "Value"}, [][]string{
		{"ID", p.ID},
		{"Name", p.Name},
		{"Company", p.CompanyID},
		{"Kind", p.Kind},
		{"Active Baseline", p.ActiveBaselineVersionID},
		{"Created", p.CreatedAt},
	})
	return nil
}

func runPortfoliosCreate(cmd *cobra.Command, args []string) error {
	client := newClient()

	var p portfolio
	body := map[string]string{"name": args[0], "kind": portfolioKind}
	if err := client.postJSON(apiPrefix+"/portfolios", body, &p); err != nil {
		return err
	}

	if outputFmt != "table" {
		return printOutput(p)
	}
	fmt.Printf("Created portfolio %s (%s)\n", p.ID, p.Name)
	return nil
}

func runPortfoliosGate(cmd *cobra.Command, args []string) error {
	client := newClient()

	var decision originationDecision
	err := client.getJSON(apiPrefix+"/portfolios/"+args[0]+"/origination-check", &decision)
	if err != nil {
		return err
	}

	if outputFmt != "table" {
		return printOutput(decision)
	}
	if decision.Allowed {
		fmt.Printf("ALLOWED: baseline %s (v%d)\n", decision.BaselineVersionID, decision.VersionNumber)
	} else {
		fmt.Printf("DENIED (%s): %s\n", decision.Code, decision.Reason)
	}
	return nil
}

func runPortfoliosAudit(cmd *cobra.Command, args []string) error {
	client := newClient()

	var list auditList
	if err := client.getJSON(apiPrefix+"/portfolios/"+args[0]+"/audit", &list); err != nil {
		return err
	}

	if outputFmt != "table" {
		return printOutput(list)
	}
	rows := make([][]string, len(list.Events))
	for i, e := range list.Events {
		rows[i] = []string{e.CreatedAt, e.EventType, e.Actor, e.Outcome, truncate(e.Reason, 50)}
	}
	printTable([]string{"Time", "Event", "Actor", "Outcome", "Reason"}, rows)
	fmt.Printf("\n%d event(s)\n", list.TotalSize)
	return nil
}
