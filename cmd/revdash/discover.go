package main

import (
	"context"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/revdash/revdash/internal/dashboard"
)

var discoverCmd = &cobra.Command{
	Use:   "discover",
	Short: "Find open PRs you have reviewed or been asked to review",
	Long: `Discover scans a repository for open pull requests where you
reviewed, commented, or have a review requested. Your own PRs are
excluded.

  revdash discover
  revdash discover --repo owner/repo --json`,
	Run: runDiscover,
}

func init() {
	discoverCmd.Flags().String("repo", "", "owner/repo (default: from git remote)")
	discoverCmd.Flags().Bool("json", false, "output JSON instead of a markdown table")
}

func runDiscover(cmd *cobra.Command, args []string) {
	cfg, err := loadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}
	if err := setupLogger(cfg); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	repoFlag, _ := cmd.Flags().GetString("repo")
	jsonOutput, _ := cmd.Flags().GetBool("json")

	ctx := context.Background()

	client, err := newGitHubClient(cfg)
	if err != nil {
		color.New(color.FgRed).Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	owner, repo, err := resolveRepo(ctx, repoFlag)
	if err != nil {
		color.New(color.FgRed).Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	username, err := client.CurrentUser(ctx)
	if err != nil {
		color.New(color.FgRed).Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	fmt.Fprintf(os.Stderr, "Scanning %s/%s for @%s's reviews...\n", owner, repo, username)

	prs, err := dashboard.NewDiscoverer(client.REST().Search).Discover(ctx, owner, repo, username)
	if err != nil {
		color.New(color.FgRed).Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if len(prs) > 0 {
		fmt.Fprintf(os.Stderr, "Found %d open PRs.\n", len(prs))
	}

	if jsonOutput {
		out, err := dashboard.FormatJSON(prs)
		if err != nil {
			color.New(color.FgRed).Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		fmt.Println(out)
		return
	}

	fmt.Print(dashboard.FormatTable(prs, owner, repo, username))
}
