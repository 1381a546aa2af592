// Package main is the entry point for the revdash CLI.
// RevDash turns structured pull request summaries into standalone HTML
// review reports and keeps track of review feedback across PRs.
package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	gh "github.com/google/go-github/v57/github"
	"github.com/spf13/cobra"

	"github.com/revdash/revdash/consts"
	"github.com/revdash/revdash/internal/config"
	"github.com/revdash/revdash/internal/git/github"
	"github.com/revdash/revdash/internal/git/prurl"
	"github.com/revdash/revdash/internal/git/workspace"
	"github.com/revdash/revdash/pkg/errors"
	"github.com/revdash/revdash/pkg/logger"
)

// Build information - set via ldflags during build
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func init() {
	consts.Version = Version
	consts.BuildTime = BuildTime
	consts.GitCommit = GitCommit
}

// configPath holds the --config flag value
var configPath string

var rootCmd = &cobra.Command{
	Use:   "revdash",
	Short: "RevDash - Pull request review reports and feedback tracking",
	Long: `RevDash renders structured pull request summaries into standalone
HTML review documents and audits GitHub review threads to verify that
feedback was addressed.`,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("RevDash %s\n", Version)
		fmt.Printf("  Build Time: %s\n", BuildTime)
		fmt.Printf("  Git Commit: %s\n", GitCommit)
	},
}

func init() {
	rootCmd.CompletionOptions.DisableDefaultCmd = true
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file path (default: config/revdash.yaml)")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(renderCmd)
	rootCmd.AddCommand(auditCmd)
	rootCmd.AddCommand(discoverCmd)
	rootCmd.AddCommand(actCmd)
	rootCmd.AddCommand(serveCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// loadConfig loads configuration without side effects so commands can
// apply flag overrides before the logger comes up
func loadConfig() (*config.Config, error) {
	return config.LoadOrDefault(configPath)
}

// setupLogger initializes the global logger from configuration
func setupLogger(cfg *config.Config) error {
	if err := logger.Init(cfg.Logging); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	return nil
}

// newGitHubClient builds an API client from configuration
func newGitHubClient(cfg *config.Config) (*github.Client, error) {
	return github.NewClient(&github.ClientOptions{
		Token:              cfg.GitHub.Token,
		BaseURL:            cfg.GitHub.BaseURL,
		InsecureSkipVerify: cfg.GitHub.InsecureSkipVerify,
	})
}

// resolveRepo determines owner and repo from the --repo flag or, when
// absent, from the origin remote of the current directory.
func resolveRepo(ctx context.Context, repoFlag string) (owner, repo string, err error) {
	if repoFlag != "" {
		parts := strings.SplitN(repoFlag, "/", 2)
		if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
			return "", "", errors.New(errors.ErrCodeValidation,
				fmt.Sprintf("invalid --repo value %q: expected owner/repo", repoFlag))
		}
		return parts[0], parts[1], nil
	}

	remote, err := workspace.New("").RemoteURL(ctx)
	if err != nil {
		return "", "", err
	}
	_, owner, repo, err = prurl.ParseRemote(remote)
	return owner, repo, err
}

// resolvePR determines the target pull request. The --pr flag accepts
// a number or URL; without it the PR is looked up from the current
// branch.
func resolvePR(ctx context.Context, client *github.Client, prFlag, repoFlag string) (owner, repo string, number int, err error) {
	owner, repo, err = resolveRepo(ctx, repoFlag)
	if err != nil && prFlag == "" {
		return "", "", 0, err
	}

	if prFlag != "" {
		ref, parseErr := prurl.Parse(prFlag)
		if parseErr != nil {
			return "", "", 0, parseErr
		}
		if ref.Owner != "" {
			// A full URL names the repository itself.
			return ref.Owner, ref.Repo, ref.Number, nil
		}
		if err != nil {
			return "", "", 0, err
		}
		return owner, repo, ref.Number, nil
	}

	number, err = detectBranchPR(ctx, client, owner, repo)
	return owner, repo, number, err
}

// detectBranchPR finds the open PR whose head is the current branch
func detectBranchPR(ctx context.Context, client *github.Client, owner, repo string) (int, error) {
	branch, err := workspace.New("").CurrentBranch(ctx)
	if err != nil {
		return 0, err
	}

	prs, _, err := client.REST().PullRequests.List(ctx, owner, repo, &gh.PullRequestListOptions{
		Head:  owner + ":" + branch,
		State: "open",
	})
	if err != nil {
		return 0, errors.Wrap(errors.ErrCodeGitHubAPI, "failed to look up PR for current branch", err)
	}
	if len(prs) == 0 {
		return 0, errors.New(errors.ErrCodePRNotFound,
			fmt.Sprintf("no open PR found for branch %s in %s/%s", branch, owner, repo))
	}
	return prs[0].GetNumber(), nil
}
