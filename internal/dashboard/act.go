package dashboard

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/go-github/v57/github"
	"go.uber.org/zap"

	"github.com/revdash/revdash/pkg/errors"
	"github.com/revdash/revdash/pkg/logger"
)

// Action is a review verdict to submit
type Action string

const (
	ActionApprove        Action = "approve"
	ActionRequestChanges Action = "request-changes"
	ActionComment        Action = "comment"
)

// event maps an Action to the GitHub review event name
func (a Action) event() string {
	switch a {
	case ActionApprove:
		return "APPROVE"
	case ActionRequestChanges:
		return "REQUEST_CHANGES"
	case ActionComment:
		return "COMMENT"
	}
	return ""
}

// past returns the action in past tense for success messages
func (a Action) past() string {
	switch a {
	case ActionApprove:
		return "approved"
	case ActionRequestChanges:
		return "requested changes on"
	case ActionComment:
		return "commented on"
	}
	return string(a)
}

// ParseAction validates a user-supplied action name
func ParseAction(s string) (Action, error) {
	action := Action(strings.ToLower(strings.TrimSpace(s)))
	switch action {
	case ActionApprove, ActionRequestChanges, ActionComment:
		return action, nil
	}
	return "", errors.New(errors.ErrCodeValidation,
		fmt.Sprintf("unknown action %q: must be approve, request-changes, or comment", s))
}

// ReviewCreator is the slice of the GitHub pull request API used to
// submit reviews
type ReviewCreator interface {
	CreateReview(ctx context.Context, owner, repo string, number int, review *github.PullRequestReviewRequest) (*github.PullRequestReview, *github.Response, error)
}

// Actor submits review actions
type Actor struct {
	reviews ReviewCreator
}

// NewActor creates an Actor backed by the given review service
func NewActor(reviews ReviewCreator) *Actor {
	return &Actor{reviews: reviews}
}

// Act submits the review. An empty body is allowed for approve and
// comment; GitHub itself rejects request-changes without one.
func (a *Actor) Act(ctx context.Context, owner, repo string, number int, action Action, body string) error {
	event := action.event()
	review := &github.PullRequestReviewRequest{
		Event: &event,
	}
	if body != "" {
		review.Body = &body
	}

	_, _, err := a.reviews.CreateReview(ctx, owner, repo, number, review)
	if err != nil {
		logger.Error("Failed to submit review",
			zap.String("repo", owner+"/"+repo),
			zap.Int("pr", number),
			zap.String("action", string(action)),
			zap.Error(err),
		)
		return errors.Wrap(errors.ErrCodeGitHubAPI,
			fmt.Sprintf("failed to %s %s/%s#%d", action, owner, repo, number), err)
	}

	logger.Info("Submitted review",
		zap.String("repo", owner+"/"+repo),
		zap.Int("pr", number),
		zap.String("action", string(action)),
	)
	return nil
}

// SuccessMessage describes a completed action for the user
func SuccessMessage(owner, repo string, number int, action Action) string {
	return fmt.Sprintf("Successfully %s %s/%s#%d", action.past(), owner, repo, number)
}

// FormatDraft renders a preview of the action without executing it
func FormatDraft(owner, repo string, number int, action Action, body string) string {
	var sb strings.Builder
	sb.WriteString("# Action Draft\n\n")
	fmt.Fprintf(&sb, "**Repository:** %s/%s\n", owner, repo)
	fmt.Fprintf(&sb, "**PR:** #%d\n", number)
	fmt.Fprintf(&sb, "**Action:** %s\n", action.event())
	if body != "" {
		fmt.Fprintf(&sb, "\n**Body:**\n> %s\n", body)
	} else {
		sb.WriteString("\n**Body:** _(empty - will submit without comment)_\n")
	}
	sb.WriteString("\n---\nTo execute, run the same command without `--draft`.\n")
	return sb.String()
}
