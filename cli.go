package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mathfra-rgb/cancelme-mvp/domain"
	"github.com/mathfra-rgb/cancelme-mvp/engage"
	"github.com/mathfra-rgb/cancelme-mvp/feedstate"
	"github.com/mathfra-rgb/cancelme-mvp/infra/media"
)

type envRunner func(run func(cmd *cobra.Command, args []string, e *env) error) func(*cobra.Command, []string) error

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			v, c, d := resolvedRuntimeVersionInfo(version, commit, date)
			fmt.Fprintf(cmd.OutOrStdout(), "cancelme %s\ncommit: %s\nbuilt: %s\n", v, c, d)
		},
	}
}

func newFeedCmd(withEnv envRunner) *cobra.Command {
	var (
		sortFlag string
		tag      string
		page     int
		format   string
	)
	cmd := &cobra.Command{
		Use:   "feed",
		Short: "Print one page of the feed",
		Args:  cobra.NoArgs,
		RunE: withEnv(func(cmd *cobra.Command, _ []string, e *env) error {
			mode, err := domain.ParseSortMode(sortFlag)
			if err != nil {
				return err
			}
			if page < 1 {
				return fmt.Errorf("invalid --page %d: must be at least 1", page)
			}
			out, err := parseFormat(format)
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			res, err := e.composer.FetchPage(ctx, (page-1)*e.composer.PageSize(), 0, mode, tag)
			if err != nil {
				return err
			}
			ids := make([]string, 0, len(res.Items))
			for _, p := range res.Items {
				ids = append(ids, p.ID)
			}
			s := feedstate.New(feedstate.Filter{Sort: mode, Tag: tag})
			s = feedstate.Reduce(s, feedstate.PageLoaded{Request: s.Request(false), Posts: res.Items, HasMore: res.HasMore})
			s = e.engine.ApplyFollowUp(s, e.engine.FetchFollowUp(ctx, ids))

			return printFeed(cmd.OutOrStdout(), out, s, e.cfg.SiteURL, e.now())
		}),
	}
	cmd.Flags().StringVarP(&sortFlag, "sort", "s", string(domain.SortRecent), "recent, top_day, top_week, top_month or top_all")
	cmd.Flags().StringVarP(&tag, "tag", "t", "", "only posts carrying this tag")
	cmd.Flags().IntVarP(&page, "page", "p", 1, "page number")
	cmd.Flags().StringVarP(&format, "output", "o", string(formatText), "text or json")
	return cmd
}

func newCommentsCmd(withEnv envRunner) *cobra.Command {
	var (
		page   int
		format string
	)
	cmd := &cobra.Command{
		Use:   "comments <post-id>",
		Short: "Print a post's comments, newest first",
		Args:  cobra.ExactArgs(1),
		RunE: withEnv(func(cmd *cobra.Command, args []string, e *env) error {
			if page < 1 {
				return fmt.Errorf("invalid --page %d: must be at least 1", page)
			}
			out, err := parseFormat(format)
			if err != nil {
				return err
			}
			act := e.engine.FetchComments(cmd.Context(), args[0], (page-1)*engage.CommentsPageSize)
			switch a := act.(type) {
			case feedstate.CommentsFailed:
				return a.Err
			case feedstate.CommentsLoaded:
				return printComments(cmd.OutOrStdout(), out, a.Page.Comments, a.HasMore, e.now())
			}
			return nil
		}),
	}
	cmd.Flags().IntVarP(&page, "page", "p", 1, "page number")
	cmd.Flags().StringVarP(&format, "output", "o", string(formatText), "text or json")
	return cmd
}

func newPostCmd(withEnv envRunner) *cobra.Command {
	var d engage.Draft
	var file string
	cmd := &cobra.Command{
		Use:   "post",
		Short: "Publish a post",
		Long:  "Publish a post. Hashtags are taken from --tags and from the caption.",
		Args:  cobra.NoArgs,
		RunE: withEnv(func(cmd *cobra.Command, _ []string, e *env) error {
			if file != "" {
				u, err := media.LoadFile(file)
				if err != nil {
					return err
				}
				d.File = &u
			}
			p, err := e.publisher.Publish(cmd.Context(), d)
			if err != nil {
				return err
			}
			printSuccess(cmd.OutOrStdout(), "Posted %s", p.Permalink(e.cfg.SiteURL))
			return nil
		}),
	}
	cmd.Flags().StringVarP(&d.Caption, "caption", "c", "", "post text")
	cmd.Flags().StringVarP(&d.Hashtags, "tags", "t", "", "space or comma separated hashtags")
	cmd.Flags().StringVarP(&d.MediaURL, "media", "m", "", "image or YouTube link")
	cmd.Flags().StringVarP(&file, "file", "f", "", "image or video to upload")
	return cmd
}

func newReactCmd(withEnv envRunner) *cobra.Command {
	kinds := make([]string, len(domain.ReactionKinds))
	for i, k := range domain.ReactionKinds {
		kinds[i] = string(k)
	}
	return &cobra.Command{
		Use:       "react <post-id> <" + strings.Join(kinds, "|") + ">",
		Short:     "React to a post",
		Args:      cobra.ExactArgs(2),
		ValidArgs: kinds,
		RunE: withEnv(func(cmd *cobra.Command, args []string, e *env) error {
			kind, ok := domain.ParseReactionKind(args[1])
			if !ok {
				return fmt.Errorf("unknown reaction %q: want one of %s", args[1], strings.Join(kinds, ", "))
			}
			s, pending, err := e.engine.PrepareReaction(feedstate.New(feedstate.Filter{}), args[0], kind)
			if err != nil {
				return err
			}
			if _, err := settle(cmd.Context(), e.engine, s, pending); err != nil {
				return err
			}
			printSuccess(cmd.OutOrStdout(), "Reacted %s %s", reactionIcon(kind), args[0])
			return nil
		}),
	}
}

func newCommentCmd(withEnv envRunner) *cobra.Command {
	return &cobra.Command{
		Use:   "comment <post-id> <text>...",
		Short: "Comment on a post",
		Args:  cobra.MinimumNArgs(2),
		RunE: withEnv(func(cmd *cobra.Command, args []string, e *env) error {
			s, pending, err := e.engine.PrepareComment(feedstate.New(feedstate.Filter{}), args[0], strings.Join(args[1:], " "))
			if err != nil {
				return err
			}
			if _, err := settle(cmd.Context(), e.engine, s, pending); err != nil {
				return err
			}
			printSuccess(cmd.OutOrStdout(), "Comment sent.")
			return nil
		}),
	}
}

func newReportCmd(withEnv envRunner) *cobra.Command {
	return &cobra.Command{
		Use:   "report <post-id> [reason]...",
		Short: "Report a post to the community",
		Args:  cobra.MinimumNArgs(1),
		RunE: withEnv(func(cmd *cobra.Command, args []string, e *env) error {
			ctx := cmd.Context()
			id := args[0]
			s := feedstate.New(feedstate.Filter{})
			s = feedstate.Reduce(s, feedstate.ReportCountsMerged{
				PostIDs: []string{id},
				Counts:  e.engine.Evaluator().Counts(ctx, []string{id}),
			})
			s, pending, err := e.engine.PrepareReport(s, id, strings.Join(args[1:], " "))
			if err != nil {
				return err
			}
			s, err = settle(ctx, e.engine, s, pending)
			if err != nil {
				return err
			}
			if s.Hidden[id] {
				printWarning(cmd.OutOrStdout(), "Reported. The community hid this post (%d recent reports).", s.ReportCounts[id])
				return nil
			}
			printSuccess(cmd.OutOrStdout(), "Reported. Thanks for keeping it clean.")
			return nil
		}),
	}
}

func newWhoamiCmd(withEnv envRunner) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show this device's identity",
		Args:  cobra.NoArgs,
		RunE: withEnv(func(cmd *cobra.Command, _ []string, e *env) error {
			id := e.engine.Identity()
			fp, err := id.Fingerprint()
			if err != nil {
				return err
			}
			name := id.DisplayName()
			if name == "" {
				name = "(anonymous)"
			}
			w := cmd.OutOrStdout()
			printField(w, "name", name)
			printField(w, "fingerprint", fp)
			mode := "hosted " + e.cfg.APIBaseURL
			if e.cfg.Demo() {
				mode = "demo"
			}
			printField(w, "store", mode)
			return nil
		}),
	}
}

func newNameCmd(withEnv envRunner) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "name",
		Short: "Manage the display name attached to posts and comments",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "set <name>",
			Short: "Set the display name",
			Args:  cobra.MinimumNArgs(1),
			RunE: withEnv(func(cmd *cobra.Command, args []string, e *env) error {
				name := strings.Join(args, " ")
				if err := e.engine.Identity().SetDisplayName(name); err != nil {
					return err
				}
				printSuccess(cmd.OutOrStdout(), "You are now %s.", e.engine.Identity().DisplayName())
				return nil
			}),
		},
		&cobra.Command{
			Use:   "clear",
			Short: "Go back to anonymous",
			Args:  cobra.NoArgs,
			RunE: withEnv(func(cmd *cobra.Command, _ []string, e *env) error {
				if err := e.engine.Identity().SetDisplayName(""); err != nil {
					return err
				}
				printSuccess(cmd.OutOrStdout(), "You are anonymous now.")
				return nil
			}),
		},
	)
	return cmd
}

// settle runs the remote half of a prepared mutation and folds the outcome.
func settle(ctx context.Context, e *engage.Engine, s feedstate.State, p *engage.Pending) (feedstate.State, error) {
	if p == nil {
		return s, nil
	}
	return e.Settle(s, p.Run(ctx))
}
