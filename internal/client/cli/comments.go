package cli

import (
	"errors"

	"github.com/spf13/cobra"
)

var errNotAuthor = errors.New("you can only change your own comments")

func (a *App) printComments() error {
	top, err := a.commentService.TopLevel()
	if err != nil {
		return err
	}
	if len(top) == 0 {
		a.println(faint("No comments yet."))
		return nil
	}
	for _, c := range top {
		writeComment(a.out, c, 0, a.commentService.CanModify(c))
		replies, _ := a.commentService.Replies(c.ID)
		for _, r := range replies {
			writeComment(a.out, r, 1, a.commentService.CanModify(r))
		}
	}
	return nil
}

func (a *App) commentsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "comments",
		Short: "List the comments of the open set",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.printComments()
		},
	}
}

func (a *App) commentCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "comment [text]",
		Short: "Comment on the open set (prompts for several lines when text is omitted)",
		RunE: func(cmd *cobra.Command, args []string) error {
			text := joinArgs(args)
			if text == "" {
				t, err := GetMultiline(a.reader, "Comment", a.out)
				if err != nil {
					return err
				}
				text = t
			}
			c, err := a.commentService.Add(cmd.Context(), text, nil)
			if err != nil {
				return err
			}
			writeComment(a.out, c, 0, true)
			return nil
		},
	}
}

func (a *App) replyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "reply <comment id> <text>",
		Short: "Reply to a top-level comment",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			c, err := a.commentService.Add(cmd.Context(), joinArgs(args[1:]), &id)
			if err != nil {
				return err
			}
			writeComment(a.out, c, 1, true)
			return nil
		},
	}
}

// ownComment looks up id and refuses comments written by someone else.
func (a *App) ownComment(id int64) error {
	c, ok := a.commentService.Get(id)
	if ok && !a.commentService.CanModify(c) {
		return errNotAuthor
	}
	return nil
}

func (a *App) editCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "edit <comment id> <text>",
		Short: "Change the text of one of your comments",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			if err := a.ownComment(id); err != nil {
				return err
			}
			_, err = a.commentService.Edit(cmd.Context(), id, joinArgs(args[1:]))
			return err
		},
	}
}

func (a *App) uncommentCmd() *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "uncomment <comment id>",
		Short: "Delete one of your comments together with its replies",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			if err := a.ownComment(id); err != nil {
				return err
			}
			if !yes && !Confirm(a.reader, "Delete this comment?", a.out) {
				a.println("Cancelled.")
				return nil
			}
			removed, err := a.commentService.Delete(cmd.Context(), id)
			if err != nil {
				return err
			}
			a.println(success("Deleted " + plural(len(removed), "comment") + "."))
			return nil
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "do not ask for confirmation")
	return cmd
}

func (a *App) cvoteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "cvote <comment id> <up|down>",
		Short: "Vote on a comment",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			v, err := parseVote(args[1])
			if err != nil {
				return err
			}
			c, err := a.commentService.Vote(cmd.Context(), id, v)
			if err != nil {
				return err
			}
			a.println(voteLine(c.Upvotes, c.Downvotes, c.UserVote))
			return nil
		},
	}
}
