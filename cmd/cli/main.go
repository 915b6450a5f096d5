package main

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"
)

var (
	baseURL string
	timeout time.Duration
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "leadforge-cli",
		Short: "LeadForge CLI tool",
		Long:  `A command line interface for interacting with the LeadForge API.`,
	}

	rootCmd.PersistentFlags().StringVar(&baseURL, "url", "http://localhost:8080", "Base URL of the LeadForge API")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 10*time.Second, "Request timeout")

	// Credits commands
	creditsCmd := &cobra.Command{
		Use:   "credits",
		Short: "Credit ledger operations",
	}

	balanceCmd := &cobra.Command{
		Use:   "balance [user-id]",
		Short: "Show an account's credit balance",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			getJSON("/api/v1/accounts/" + args[0] + "/balance")
		},
	}

	var creditAmount int64
	var creditReason string
	var creditActor string

	addCmd := &cobra.Command{
		Use:   "add [user-id]",
		Short: "Add credits to an account",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			postJSON("/api/v1/credits/add", map[string]any{
				"user_id":  args[0],
				"amount":   creditAmount,
				"reason":   creditReason,
				"actor_id": creditActor,
			})
		},
	}
	addCmd.Flags().Int64Var(&creditAmount, "amount", 0, "Amount of credits")
	addCmd.Flags().StringVar(&creditReason, "reason", "manual top-up", "Transaction reason")
	addCmd.Flags().StringVar(&creditActor, "actor", "", "Acting admin ID")

	deductCmd := &cobra.Command{
		Use:   "deduct [user-id]",
		Short: "Deduct credits from an account",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			postJSON("/api/v1/credits/deduct", map[string]any{
				"user_id":  args[0],
				"amount":   creditAmount,
				"reason":   creditReason,
				"actor_id": creditActor,
			})
		},
	}
	deductCmd.Flags().Int64Var(&creditAmount, "amount", 0, "Amount of credits")
	deductCmd.Flags().StringVar(&creditReason, "reason", "manual deduction", "Transaction reason")
	deductCmd.Flags().StringVar(&creditActor, "actor", "", "Acting admin ID")

	historyCmd := &cobra.Command{
		Use:   "history [user-id]",
		Short: "List an account's transactions",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			getJSON("/api/v1/accounts/" + args[0] + "/transactions")
		},
	}

	verifyCmd := &cobra.Command{
		Use:   "verify [user-id]",
		Short: "Replay an account's transaction log against its balance",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			checkConsistency(args[0])
		},
	}

	creditsCmd.AddCommand(balanceCmd, addCmd, deductCmd, historyCmd, verifyCmd)
	rootCmd.AddCommand(creditsCmd)

	// Import commands
	importCmd := &cobra.Command{
		Use:   "import",
		Short: "Bulk lead import operations",
	}

	var importUser string

	runCmd := &cobra.Command{
		Use:   "run [file.csv]",
		Short: "Import leads from a CSV file",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			runImport(importUser, args[0])
		},
	}
	runCmd.Flags().StringVar(&importUser, "user", "", "Importing user ID")
	runCmd.MarkFlagRequired("user")

	jobsCmd := &cobra.Command{
		Use:   "jobs [user-id]",
		Short: "List a user's import jobs",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			getJSON("/api/v1/imports?user_id=" + args[0])
		},
	}

	importCmd.AddCommand(runCmd, jobsCmd)
	rootCmd.AddCommand(importCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func checkConsistency(userID string) {
	client := &http.Client{Timeout: timeout}
	resp, err := client.Get(baseURL + "/api/v1/accounts/" + userID + "/verify")
	if err != nil {
		fmt.Printf("Error making request: %v\n", err)
		os.Exit(1)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)

	if resp.StatusCode != http.StatusOK {
		fmt.Printf("Consistency check FAILED (Status: %d)\nResponse: %s\n", resp.StatusCode, string(body))
		os.Exit(1)
	}

	var result map[string]any
	if err := json.Unmarshal(body, &result); err != nil {
		fmt.Printf("Failed to parse response: %v\n", err)
		os.Exit(1)
	}

	if consistent, ok := result["consistent"].(bool); ok && consistent {
		fmt.Println("Consistency check PASSED")
		return
	}

	fmt.Println("Consistency check FAILED")
	if detail, ok := result["detail"].(string); ok {
		fmt.Printf("Detail: %s\n", detail)
	}
	os.Exit(1)
}

// runImport reads a CSV with a header row and submits its rows as lead
// records.
func runImport(userID, path string) {
	f, err := os.Open(path)
	if err != nil {
		fmt.Printf("Error opening file: %v\n", err)
		os.Exit(1)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1

	rows, err := reader.ReadAll()
	if err != nil {
		fmt.Printf("Error parsing CSV: %v\n", err)
		os.Exit(1)
	}
	if len(rows) < 2 {
		fmt.Println("CSV must have a header row and at least one data row")
		os.Exit(1)
	}

	header := rows[0]
	records := make([]map[string]string, 0, len(rows)-1)

	for _, row := range rows[1:] {
		record := make(map[string]string, len(header))
		for i, key := range header {
			if i < len(row) {
				record[key] = row[i]
			}
		}
		records = append(records, record)
	}

	postJSON("/api/v1/imports", map[string]any{
		"user_id":   userID,
		"file_name": path,
		"records":   records,
	})
}

func getJSON(path string) {
	client := &http.Client{Timeout: timeout}
	resp, err := client.Get(baseURL + path)
	if err != nil {
		fmt.Printf("Error making request: %v\n", err)
		os.Exit(1)
	}
	defer resp.Body.Close()

	printResponse(resp)
}

func postJSON(path string, payload map[string]any) {
	body, err := json.Marshal(payload)
	if err != nil {
		fmt.Printf("Error encoding request: %v\n", err)
		os.Exit(1)
	}

	client := &http.Client{Timeout: timeout}
	resp, err := client.Post(baseURL+path, "application/json", bytes.NewReader(body))
	if err != nil {
		fmt.Printf("Error making request: %v\n", err)
		os.Exit(1)
	}
	defer resp.Body.Close()

	printResponse(resp)
}

func printResponse(resp *http.Response) {
	body, _ := io.ReadAll(resp.Body)

	var pretty bytes.Buffer
	if err := json.Indent(&pretty, body, "", "  "); err != nil {
		fmt.Println(string(body))
	} else {
		fmt.Println(pretty.String())
	}

	if resp.StatusCode >= 400 {
		os.Exit(1)
	}
}
