package cli

import (
	"fmt"

	"github.com/dmitrijs2005/studyhub/internal/client/models"
	"github.com/spf13/cobra"
)

func (a *App) shareCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "share <email> [viewer|editor]",
		Short: "Share the open set with a user (default: viewer)",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			var perm models.Permission
			if len(args) == 2 {
				p, err := parsePermission(args[1])
				if err != nil {
					return err
				}
				perm = p
			}
			u, err := a.shareService.AddShare(cmd.Context(), args[0], perm)
			if err != nil {
				return err
			}
			a.println(success(fmt.Sprintf("Shared with %s as %s", u.Email, u.Permission)))
			return nil
		},
	}
}

func (a *App) unshareCmd() *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "unshare <user id>",
		Short: "Revoke a user's access to the open set",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			if !yes && !Confirm(a.reader, "Remove this user's access?", a.out) {
				a.println("Cancelled.")
				return nil
			}
			return a.shareService.RemoveShare(cmd.Context(), id)
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "do not ask for confirmation")
	return cmd
}

func (a *App) permCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "perm <user id> <viewer|editor>",
		Short: "Stage a permission change (send with saveperms)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			p, err := parsePermission(args[1])
			if err != nil {
				return err
			}
			return a.shareService.Stage(id, p)
		},
	}
}

func (a *App) permsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "perms",
		Short: "List who the open set is shared with, including staged changes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			saved, err := a.shareService.Shared()
			if err != nil {
				return err
			}
			staged, err := a.shareService.Staged()
			if err != nil {
				return err
			}
			if len(staged) == 0 {
				a.println(faint("Not shared with anyone."))
				return nil
			}

			was := make(map[int64]models.Permission, len(saved))
			for _, u := range saved {
				was[u.UserID] = u.Permission
			}
			for _, u := range staged {
				line := fmt.Sprintf("%6d  %-30s %s", u.UserID, u.Email, u.Permission)
				if prev, ok := was[u.UserID]; ok && prev != u.Permission {
					line += " " + notice(fmt.Sprintf("(was %s, unsaved)", prev))
				}
				a.println(line)
			}
			return nil
		},
	}
}

func (a *App) savePermsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "saveperms",
		Short: "Send staged permission changes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !a.shareService.HasPendingChanges() {
				a.println(faint("Nothing to save."))
				return nil
			}
			if err := a.shareService.SavePermissions(cmd.Context()); err != nil {
				return err
			}
			a.println(success("Permissions saved."))
			return nil
		},
	}
}

func (a *App) discardCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "discard",
		Short: "Drop staged permission changes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.shareService.OpenPanel()
		},
	}
}

func (a *App) inboxCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "inbox",
		Short: "List items others have shared with you",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			list, err := a.shareService.Pending(cmd.Context())
			if err != nil {
				return err
			}
			if len(list) == 0 {
				a.println(faint("Inbox is empty."))
				return nil
			}
			for _, p := range list {
				a.printf("%6d  %s %s\n", p.ShareID, title(p.MaterialName), faint("from "+p.SharerEmail))
			}
			return nil
		},
	}
}

func (a *App) acceptCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "accept <share id>",
		Short: "Accept a shared item; it appears at the root of your materials",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			m, err := a.shareService.Accept(cmd.Context(), id)
			if err != nil {
				return err
			}
			a.println(success(fmt.Sprintf("Added %q (id %d)", m.Name, m.ID)))
			return nil
		},
	}
}

func (a *App) rejectCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "reject <share id>",
		Short: "Decline a shared item",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			return a.shareService.Reject(cmd.Context(), id)
		},
	}
}
