package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
)

var baselinesCmd = &cobra.Command{
	Use:   "baselines",
	Short: "Manage baseline versions and their modules",
}

var baselinesListCmd = &cobra.Command{
	Use:   "list <portfolio-id>",
	Short: "List baseline versions of a portfolio",
	Args:  cobra.ExactArgs(1),
	RunE:  runBaselinesList,
}

var baselinesGetCmd = &cobra.Command{
	Use:   "get <version-id>",
	Short: "Get one baseline version with its modules",
	Args:  cobra.ExactArgs(1),
	RunE:  runBaselinesGet,
}

var baselinesDraftCmd = &cobra.Command{
	Use:   "draft <portfolio-id>",
	Short: "Create a new draft baseline version",
	Args:  cobra.ExactArgs(1),
	RunE:  runBaselinesDraft,
}

var baselinesSetModuleCmd = &cobra.Command{
	Use:   "set-module <version-id> <module-type> <payload-file>",
	Short: "Replace a draft module's payload from a JSON file",
	Args:  cobra.ExactArgs(3),
	RunE:  runBaselinesSetModule,
}

var baselinesValidateCmd = &cobra.Command{
	Use:   "validate <version-id> <module-type> <payload-file>",
	Short: "Validate a module payload without saving it",
	Args:  cobra.ExactArgs(3),
	RunE:  runBaselinesValidate,
}

var baselinesCheckCmd = &cobra.Command{
	Use:   "check <version-id>",
	Short: "Check whether a version is ready to publish",
	Args:  cobra.ExactArgs(1),
	RunE:  runBaselinesCheck,
}

var baselinesActionCmd = &cobra.Command{
	Use:   "action <version-id> <submit|publish|reject|delete>",
	Short: "Run a lifecycle action on a baseline version",
	Args:  cobra.ExactArgs(2),
	RunE:  runBaselinesAction,
}

var (
	changeSummary string
	rejectReason  string
)

func init() {
	baselinesDraftCmd.Flags().StringVar(&changeSummary, "summary", "", "Change summary for the new draft")
	baselinesActionCmd.Flags().StringVar(&rejectReason, "reason", "", "Rationale (required for reject)")

	baselinesCmd.AddCommand(baselinesListCmd)
	baselinesCmd.AddCommand(baselinesGetCmd)
	baselinesCmd.AddCommand(baselinesDraftCmd)
	baselinesCmd.AddCommand(baselinesSetModuleCmd)
	baselinesCmd.AddCommand(baselinesValidateCmd)
	baselinesCmd.AddCommand(baselinesCheckCmd)
	baselinesCmd.AddCommand(baselinesActionCmd)
}

func runBaselinesList(cmd *cobra.Command, args []string) error {
	client := newClient()

	var list versionList
	if err := client.getJSON(apiPrefix+"/portfolios/"+args[0]+"/baselines", &list); err != nil {
		return err
	}

	if outputFmt != "table" {
		return printOutput(list)
	}
	rows := make([][]string, len(list.Versions))
	for i, v := range list.Versions {
		rows[i] = []string{
			v.ID,
			strconv.Itoa(v.VersionNumber),
			v.Status,
			v.CreatedBy,
			truncate(v.ChangeSummary, 40),
		}
	}
	printTable([]string{"ID", "Version", "Status", "Created By", "Summary"}, rows)
	fmt.Printf("\n%d version(s)\n", list.TotalSize)
	return nil
}

func runBaselinesGet(cmd *cobra.Command, args []string) error {
	client := newClient()

	var v baselineVersion
	if err := client.getJSON(apiPrefix+"/baselines/"+args[0], &v); err != nil {
		return err
	}

	if outputFmt != "table" {
		return printOutput(v)
	}
	fmt.Printf("Version %d (%s) of portfolio %s, status %s\n\n", v.VersionNumber, v.ID, v.PortfolioID, v.Status)

	rows := make([][]string, len(v.Modules))
	for i, m := range v.Modules {
		rows[i] = []string{
			m.ModuleType,
			strconv.FormatBool(m.IsValid),
			strconv.FormatBool(m.IsComplete),
			strconv.Itoa(len(m.ValidationErrors)),
		}
	}
	printTable([]string{"Module", "Valid", "Complete", "Errors"}, rows)
	return nil
}

func runBaselinesDraft(cmd *cobra.Command, args []string) error {
	client := newClient()

	body := map[string]string{}
	if changeSummary != "" {
		body["changeSummary"] = changeSummary
	}

	var v baselineVersion
	if err := client.postJSON(apiPrefix+"/portfolios/"+args[0]+"/baselines", body, &v); err != nil {
		return err
	}

	if outputFmt != "table" {
		return printOutput(v)
	}
	fmt.Printf("Created draft version %d (%s)\n", v.VersionNumber, v.ID)
	return nil
}

func runBaselinesSetModule(cmd *cobra.Command, args []string) error {
	payload, err := os.ReadFile(args[2])
	if err != nil {
		return fmt.Errorf("read payload file: %w", err)
	}

	client := newClient()
	path := fmt.Sprintf("%s/baselines/%s/modules/%s", apiPrefix, args[0], strings.ToUpper(args[1]))

	var result moduleValidationResult
	if err := client.putRaw(path, payload, &result); err != nil {
		return err
	}
	return printValidationResult(result)
}

func runBaselinesValidate(cmd *cobra.Command, args []string) error {
	payload, err := os.ReadFile(args[2])
	if err != nil {
		return fmt.Errorf("read payload file: %w", err)
	}

	client := newClient()
	path := fmt.Sprintf("%s/baselines/%s/modules/%s:validate", apiPrefix, args[0], strings.ToUpper(args[1]))

	var result moduleValidationResult
	if err := client.postRaw(path, payload, &result); err != nil {
		return err
	}
	return printValidationResult(result)
}

func printValidationResult(result moduleValidationResult) error {
	if outputFmt != "table" {
		return printOutput(result)
	}
	fmt.Printf("%s: valid=%t complete=%t\n", result.ModuleType, result.IsValid, result.IsComplete)
	for _, d := range result.Errors {
		fmt.Printf("  ERROR %s %s: %s\n", d.Code, d.Field, d.Message)
	}
	for _, d := range result.Warnings {
		fmt.Printf("  WARN  %s %s: %s\n", d.Code, d.Field, d.Message)
	}
	return nil
}

func runBaselinesCheck(cmd *cobra.Command, args []string) error {
	client := newClient()

	var decision publishDecision
	if err := client.getJSON(apiPrefix+"/baselines/"+args[0]+"/publish-check", &decision); err != nil {
		return err
	}

	if outputFmt != "table" {
		return printOutput(decision)
	}
	if decision.Allowed {
		fmt.Println("READY: version can be published")
		return nil
	}
	fmt.Printf("BLOCKED (%s): %s\n", decision.Code, decision.Reason)
	for _, b := range decision.Blockers {
		fmt.Printf("  - %s\n", b)
	}
	return nil
}

func runBaselinesAction(cmd *cobra.Command, args []string) error {
	versionID, action := args[0], args[1]

	body := map[string]string{}
	if action == "reject" {
		if rejectReason == "" {
			return fmt.Errorf("--reason is required to reject a version")
		}
		body["reason"] = rejectReason
	}

	client := newClient()
	path := fmt.Sprintf("%s/baselines/%s/actions/%s", apiPrefix, versionID, action)

	var result map[string]any
	if err := client.postJSON(path, body, &result); err != nil {
		return err
	}

	if outputFmt != "table" {
		return printOutput(result)
	}
	if status, ok := result["status"].(string); ok {
		fmt.Printf("%s: %s\n", action, status)
	} else {
		fmt.Printf("%s: ok\n", action)
	}
	return nil
}
