package main

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/fatih/color"
	jsoniter "github.com/json-iterator/go"

	"github.com/mathfra-rgb/cancelme-mvp/domain"
	"github.com/mathfra-rgb/cancelme-mvp/feedstate"
	"github.com/mathfra-rgb/cancelme-mvp/tui/common"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

type outputFormat string

const (
	formatText outputFormat = "text"
	formatJSON outputFormat = "json"
)

func parseFormat(s string) (outputFormat, error) {
	switch outputFormat(strings.ToLower(strings.TrimSpace(s))) {
	case formatText, "":
		return formatText, nil
	case formatJSON:
		return formatJSON, nil
	}
	return "", fmt.Errorf("invalid --output %q: want text or json", s)
}

var (
	authorColor  = color.New(color.FgCyan, color.Bold)
	mutedColor   = color.New(color.Faint)
	tagColor     = color.New(color.FgGreen)
	warnColor    = color.New(color.FgYellow)
	errorColor   = color.New(color.FgRed)
	successColor = color.New(color.FgGreen)
)

// feedPost is the JSON shape of one feed entry. Hidden posts carry no
// caption or media.
type feedPost struct {
	domain.Post
	Comments  int    `json:"comments"`
	Reports   int    `json:"recent_reports"`
	Hidden    bool   `json:"hidden"`
	Permalink string `json:"permalink"`
}

func printFeed(w io.Writer, f outputFormat, s feedstate.State, site string, now time.Time) error {
	if f == formatJSON {
		out := struct {
			Sort    domain.SortMode `json:"sort"`
			Tag     string          `json:"tag,omitempty"`
			Posts   []feedPost      `json:"posts"`
			HasMore bool            `json:"has_more"`
		}{Sort: s.Filter.Sort, Tag: s.Filter.Tag, Posts: make([]feedPost, 0, len(s.Posts)), HasMore: s.HasMore}
		for _, p := range s.Posts {
			fp := feedPost{
				Post:      p,
				Comments:  s.CommentCounts[p.ID],
				Reports:   s.ReportCounts[p.ID],
				Hidden:    s.Hidden[p.ID],
				Permalink: p.Permalink(site),
			}
			if fp.Hidden {
				fp.Caption, fp.MediaURL = "", ""
			}
			out.Posts = append(out.Posts, fp)
		}
		return writeJSON(w, out)
	}

	if len(s.Posts) == 0 {
		if s.Filter.Tag != "" {
			fmt.Fprintf(w, "Nothing tagged #%s here yet.\n", s.Filter.Tag)
		} else {
			fmt.Fprintln(w, "No posts yet. Be the first to get cancelled!")
		}
		return nil
	}
	for _, p := range s.Posts {
		if s.Hidden[p.ID] {
			warnColor.Fprintf(w, "⚠ %s hidden by the community (%d reports)\n\n", p.ID, s.ReportCounts[p.ID])
			continue
		}
		authorColor.Fprint(w, p.Author())
		mutedColor.Fprintf(w, "  %s  %s\n", common.TimeAgo(p.CreatedAt, now), p.ID)
		if c := strings.TrimSpace(p.Caption); c != "" {
			fmt.Fprintln(w, c)
		}
		if p.HasMedia() {
			mutedColor.Fprintf(w, "%s %s\n", p.MediaKind, p.MediaURL)
		}
		if len(p.Tags) > 0 {
			tagColor.Fprintln(w, "#"+strings.Join(p.Tags, " #"))
		}
		mutedColor.Fprintf(w, "%s   ▲ %d  👁 %d  💬 %d\n\n",
			reactionSummary(p.Reactions), p.Score, p.Views, s.CommentCounts[p.ID])
	}
	if s.HasMore {
		mutedColor.Fprintln(w, "More posts on the next --page.")
	}
	return nil
}

func printComments(w io.Writer, f outputFormat, comments []domain.Comment, hasMore bool, now time.Time) error {
	if f == formatJSON {
		if comments == nil {
			comments = []domain.Comment{}
		}
		return writeJSON(w, struct {
			Comments []domain.Comment `json:"comments"`
			HasMore  bool             `json:"has_more"`
		}{comments, hasMore})
	}
	if len(comments) == 0 {
		fmt.Fprintln(w, "No comments yet.")
		return nil
	}
	for _, c := range comments {
		authorColor.Fprint(w, c.Author())
		mutedColor.Fprintf(w, "  %s\n", common.TimeAgo(c.CreatedAt, now))
		fmt.Fprintln(w, c.Content)
		fmt.Fprintln(w)
	}
	if hasMore {
		mutedColor.Fprintln(w, "More comments on the next --page.")
	}
	return nil
}

func reactionSummary(r domain.Reactions) string {
	parts := make([]string, 0, len(domain.ReactionKinds))
	for _, k := range domain.ReactionKinds {
		parts = append(parts, fmt.Sprintf("%s %d", reactionIcon(k), r.Count(k)))
	}
	return strings.Join(parts, "  ")
}

func reactionIcon(k domain.ReactionKind) string {
	switch k {
	case domain.ReactionLOL:
		return "😂"
	case domain.ReactionCringe:
		return "😬"
	case domain.ReactionWTF:
		return "🤯"
	case domain.ReactionGenius:
		return "🧠"
	}
	return string(k)
}

func writeJSON(w io.Writer, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding output: %w", err)
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}

func printField(w io.Writer, name, value string) {
	mutedColor.Fprintf(w, "%-12s", name)
	fmt.Fprintln(w, value)
}

func printSuccess(w io.Writer, format string, args ...any) {
	successColor.Fprintf(w, format+"\n", args...)
}

func printWarning(w io.Writer, format string, args ...any) {
	warnColor.Fprintf(w, format+"\n", args...)
}

// printError shows the user-facing message, plus the cause when the message
// hides it.
func printError(w io.Writer, err error) {
	msg := domain.UserMessage(err)
	var ve *domain.ValidationError
	if msg == err.Error() || errors.As(err, &ve) {
		errorColor.Fprintf(w, "Error: %s\n", msg)
		return
	}
	errorColor.Fprintf(w, "Error: %s (%v)\n", msg, err)
}
