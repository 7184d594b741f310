package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var historyLimit int

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List past analyze runs from the run-history repository",
	RunE:  runHistory,
}

func init() {
	rootCmd.AddCommand(historyCmd)
	historyCmd.Flags().IntVar(&historyLimit, "limit", 20, "Number of runs to list")
}

func runHistory(cmd *cobra.Command, args []string) error {
	c := GetConfig()

	repos, err := openRepositories(c)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to open run-history repository: %v\n", err)
		os.Exit(exitIOError)
	}
	if repos == nil {
		fmt.Println("no run-history repository configured")
		return nil
	}
	defer repos.Close()

	runs, err := repos.Runs.ListRecent(cmd.Context(), historyLimit)
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Println("no runs recorded")
		return nil
	}

	fmt.Printf("%-5s %-10s %-8s %-10s %-40s\n", "ID", "STATUS", "OBJECTS", "WASTED", "INPUT")
	for _, r := range runs {
		fmt.Printf("%-5d %-10s %-8d %-10d %-40s\n", r.ID, r.Status, r.TotalObjects, r.TotalWasted, r.InputPath)
	}

	return nil
}
