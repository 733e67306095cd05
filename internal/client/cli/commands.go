package cli

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/dmitrijs2005/studyhub/internal/client/models"
	"github.com/spf13/cobra"
)

const (
	groupSession  = "session"
	groupTree     = "tree"
	groupSet      = "set"
	groupComments = "comments"
	groupSharing  = "sharing"
)

// exec parses one input line with a fresh command tree and runs it.
func (a *App) exec(ctx context.Context, args []string) error {
	root := a.commandTree()
	root.SetArgs(args)
	root.SetOut(a.out)
	root.SetErr(a.out)
	root.SetIn(a.reader)
	return root.ExecuteContext(ctx)
}

func (a *App) commandTree() *cobra.Command {
	root := &cobra.Command{
		Use:               "studyhub",
		Short:             "Organize, share and discuss flashcard sets",
		SilenceUsage:      true,
		SilenceErrors:     true,
		CompletionOptions: cobra.CompletionOptions{DisableDefaultCmd: true},
	}
	root.AddGroup(
		&cobra.Group{ID: groupSession, Title: "Session:"},
		&cobra.Group{ID: groupTree, Title: "Materials:"},
		&cobra.Group{ID: groupSet, Title: "Open set:"},
		&cobra.Group{ID: groupComments, Title: "Comments:"},
		&cobra.Group{ID: groupSharing, Title: "Sharing:"},
	)

	add := func(group string, cmds ...*cobra.Command) {
		for _, c := range cmds {
			c.GroupID = group
			root.AddCommand(c)
		}
	}
	add(groupSession, a.loginCmd(), a.logoutCmd(), a.statsCmd())
	add(groupTree, a.lsCmd(), a.cdCmd(), a.pwdCmd(), a.mkdirCmd(), a.mksetCmd(),
		a.renameCmd(), a.mvCmd(), a.dragCmd(), a.rmCmd())
	add(groupSet, a.openCmd(), a.closeCmd(), a.showCmd(), a.voteCmd(), a.addCardCmd(), a.copyCmd())
	add(groupComments, a.commentsCmd(), a.commentCmd(), a.replyCmd(), a.editCmd(), a.uncommentCmd(), a.cvoteCmd())
	add(groupSharing, a.shareCmd(), a.unshareCmd(), a.permCmd(), a.permsCmd(), a.savePermsCmd(),
		a.discardCmd(), a.inboxCmd(), a.acceptCmd(), a.rejectCmd())
	return root
}

func (a *App) printf(format string, args ...any) {
	fmt.Fprintf(a.out, format, args...)
}

func (a *App) println(args ...any) {
	fmt.Fprintln(a.out, args...)
}

func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid id %q", s)
	}
	return id, nil
}

// parseTarget resolves a folder reference: "/" is the root, "." the current
// folder, ".." its parent, anything else a folder id.
func (a *App) parseTarget(s string) (*int64, error) {
	switch s {
	case "/", "~":
		return nil, nil
	case ".":
		return a.currentFolder(), nil
	case "..":
		cwd := a.currentFolder()
		if cwd == nil {
			return nil, nil
		}
		m, ok := a.materialService.Get(*cwd)
		if !ok {
			return nil, nil
		}
		return models.CloneID(m.ParentID), nil
	}
	id, err := parseID(s)
	if err != nil {
		return nil, err
	}
	return &id, nil
}

func parseVote(s string) (models.VoteType, error) {
	switch strings.ToLower(s) {
	case "up", "upvote", "+":
		return models.VoteUp, nil
	case "down", "downvote", "-":
		return models.VoteDown, nil
	default:
		return "", fmt.Errorf("vote must be up or down, got %q", s)
	}
}

func parsePermission(s string) (models.Permission, error) {
	p := models.Permission(strings.ToLower(s))
	if !p.Valid() {
		return "", fmt.Errorf("permission must be viewer or editor, got %q", s)
	}
	return p, nil
}

func joinArgs(args []string) string {
	return strings.Join(args, " ")
}
