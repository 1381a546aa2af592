package main

import (
	"context"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/revdash/revdash/internal/audit"
	"github.com/revdash/revdash/internal/git/workspace"
	"github.com/revdash/revdash/pkg/idgen"
	"github.com/revdash/revdash/pkg/logger"
)

var auditCmd = &cobra.Command{
	Use:   "audit",
	Short: "Audit PR review threads for unaddressed feedback",
	Long: `Audit fetches the review threads of a pull request and classifies
each one: Resolved, Outdated, Addressed (the commented lines changed in
the local diff), or Unresolved.

Without --pr the PR is detected from the current branch:
  revdash audit
  revdash audit --pr 42
  revdash audit --pr https://github.com/owner/repo/pull/42 --json
  revdash audit --auto-resolve`,
	Run: runAudit,
}

func init() {
	auditCmd.Flags().String("pr", "", "PR number or URL (default: current branch)")
	auditCmd.Flags().String("repo", "", "owner/repo (default: from git remote)")
	auditCmd.Flags().Bool("json", false, "output JSON instead of markdown")
	auditCmd.Flags().Bool("exclude-resolved", false, "only show unresolved/outdated threads")
	auditCmd.Flags().Bool("auto-resolve", false, "resolve threads confirmed addressed")
}

func runAudit(cmd *cobra.Command, args []string) {
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
	repoFlag, _ := cmd.Flags().GetString("repo")
	jsonOutput, _ := cmd.Flags().GetBool("json")
	excludeResolved, _ := cmd.Flags().GetBool("exclude-resolved")
	autoResolve, _ := cmd.Flags().GetBool("auto-resolve")

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

	runID := idgen.NewAuditRunID()
	logger.Info("Starting feedback audit",
		zap.String("run_id", runID),
		zap.String("repo", owner+"/"+repo),
		zap.Int("pr", number),
	)
	fmt.Fprintf(os.Stderr, "Auditing %s/%s#%d...\n", owner, repo, number)

	threads, err := client.ListReviewThreads(ctx, owner, repo, number)
	if err != nil {
		color.New(color.FgRed).Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	classified := audit.New(workspace.New("")).Classify(ctx, threads)

	if autoResolve {
		classified = audit.AutoResolve(ctx, client, classified)
	}

	if jsonOutput {
		out, err := audit.FormatJSON(classified)
		if err != nil {
			color.New(color.FgRed).Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		fmt.Println(out)
		return
	}

	fmt.Print(audit.FormatMarkdown(classified, excludeResolved))
}
