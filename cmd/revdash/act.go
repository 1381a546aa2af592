package main

import (
	"context"
	"fmt"
	"os"

	"github.com/charmbracelet/huh"
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/revdash/revdash/internal/dashboard"
)

var actCmd = &cobra.Command{
	Use:   "act",
	Short: "Submit a review action on a PR",
	Long: `Act submits an approve, request-changes, or comment review on a
pull request. Use --draft to preview the action without executing it,
or --yes to skip the confirmation prompt.

  revdash act --pr 42 --action approve --draft
  revdash act --pr 42 --action request-changes --body "Fix the timeout"
  revdash act --pr 42 --action approve --yes`,
	Run: runAct,
}

func init() {
	actCmd.Flags().String("pr", "", "PR number or URL (required)")
	actCmd.Flags().String("action", "", "approve, request-changes, or comment (required)")
	actCmd.Flags().String("body", "", "review comment body")
	actCmd.Flags().String("repo", "", "owner/repo (default: from git remote)")
	actCmd.Flags().Bool("draft", false, "preview the action without executing")
	actCmd.Flags().BoolP("yes", "y", false, "skip the confirmation prompt")
	actCmd.MarkFlagRequired("pr")
	actCmd.MarkFlagRequired("action")
}

func runAct(cmd *cobra.Command, args []string) {
	cfg, err := loadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}
	if err := setupLogger(cfg); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	prFlag, _ := cmd.Flags().GetString("pr")
	actionFlag, _ := cmd.Flags().GetString("action")
	body, _ := cmd.Flags().GetString("body")
	repoFlag, _ := cmd.Flags().GetString("repo")
	draft, _ := cmd.Flags().GetBool("draft")
	skipConfirm, _ := cmd.Flags().GetBool("yes")

	action, err := dashboard.ParseAction(actionFlag)
	if err != nil {
		color.New(color.FgRed).Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	ctx := context.Background()

	client, err := newGitHubClient(cfg)
	if err != nil {
		color.New(color.FgRed).Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	owner, repo, number, err := resolvePR(ctx, client, prFlag, repoFlag)
	if err != nil {
		color.New(color.FgRed).Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if draft {
		fmt.Print(dashboard.FormatDraft(owner, repo, number, action, body))
		return
	}

	if !skipConfirm {
		confirmed, err := confirmAction(owner, repo, number, action)
		if err != nil {
			color.New(color.FgRed).Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		if !confirmed {
			fmt.Println("Aborted.")
			return
		}
	}

	if err := dashboard.NewActor(client.REST().PullRequests).Act(ctx, owner, repo, number, action, body); err != nil {
		color.New(color.FgRed).Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	color.New(color.FgGreen).Println(dashboard.SuccessMessage(owner, repo, number, action))
}

// confirmAction asks the user to confirm before submitting
func confirmAction(owner, repo string, number int, action dashboard.Action) (bool, error) {
	var confirm bool
	err := huh.NewConfirm().
		Title(fmt.Sprintf("Submit %s on %s/%s#%d?", action, owner, repo, number)).
		Affirmative("Yes").
		Negative("No").
		Value(&confirm).
		Run()
	if err != nil {
		return false, err
	}
	return confirm, nil
}
