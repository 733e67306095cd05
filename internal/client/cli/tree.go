package cli

import (
	"fmt"
	"strings"

	"github.com/dmitrijs2005/studyhub/internal/client/drag"
	"github.com/dmitrijs2005/studyhub/internal/client/models"
	"github.com/spf13/cobra"
)

func (a *App) lsCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "ls [folder]",
		Aliases: []string{"l", "list"},
		Short:   "List the current folder, or the given one",
		Args:    cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			folder := a.currentFolder()
			if len(args) == 1 {
				f, err := a.parseTarget(args[0])
				if err != nil {
					return err
				}
				folder = f
			}

			items := a.materialService.ListChildren(folder)
			for _, p := range a.materialService.PendingCreates() {
				if models.SameID(p.ParentID, folder) {
					a.printf("%6s  %-6s %s %s\n", "-", p.Kind, p.Name, faint("(creating)"))
				}
			}
			if len(items) == 0 {
				a.println(faint("(empty)"))
				return nil
			}
			for _, m := range items {
				a.println(materialLine(m, a.materialService.ItemState(m.ID)))
			}
			return nil
		},
	}
}

func (a *App) cdCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "cd <folder|..|/>",
		Short: "Change the current folder",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			target, err := a.parseTarget(args[0])
			if err != nil {
				return err
			}
			if target != nil {
				m, ok := a.materialService.Get(*target)
				if !ok {
					return fmt.Errorf("no such item: %d", *target)
				}
				if !m.IsFolder() {
					return fmt.Errorf("%q is not a folder", m.Name)
				}
			}
			a.setCurrentFolder(target)
			return nil
		},
	}
}

func (a *App) pwdCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "pwd",
		Short: "Show the path to the current folder",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			crumbs := a.materialService.Breadcrumb(a.currentFolder())
			parts := make([]string, 0, len(crumbs))
			for _, c := range crumbs {
				if c.ID == nil {
					parts = append(parts, c.Name)
					continue
				}
				parts = append(parts, fmt.Sprintf("%s(%d)", c.Name, *c.ID))
			}
			a.println(strings.Join(parts, " / "))
			return nil
		},
	}
}

func (a *App) createCmd(use, short string, kind models.ItemType) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := a.materialService.Create(cmd.Context(), kind, joinArgs(args), a.currentFolder())
			if err != nil {
				return err
			}
			a.println(success(fmt.Sprintf("Created %s %q (id %d)", m.ItemType, m.Name, m.ID)))
			return nil
		},
	}
}

func (a *App) mkdirCmd() *cobra.Command {
	return a.createCmd("mkdir <name>", "Create a folder in the current folder", models.ItemTypeFolder)
}

func (a *App) mksetCmd() *cobra.Command {
	return a.createCmd("mkset <name>", "Create an empty flashcard set in the current folder", models.ItemTypeSet)
}

func (a *App) renameCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rename <id> <new name>",
		Short: "Rename a folder or set",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			return a.materialService.Rename(cmd.Context(), id, joinArgs(args[1:]))
		},
	}
}

func (a *App) mvCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "mv <id> <folder|..|/>",
		Short: "Move an item into another folder",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			target, err := a.parseTarget(args[1])
			if err != nil {
				return err
			}
			return a.materialService.Move(cmd.Context(), id, target)
		},
	}
}

// dragCmd runs a whole drag gesture: pick up the item, hover the target,
// drop it.
func (a *App) dragCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "drag <id> <folder|..|/>",
		Short: "Drag an item onto a folder or breadcrumb",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			target, err := a.parseTarget(args[1])
			if err != nil {
				return err
			}

			if _, err := a.drag.Start(id); err != nil {
				return err
			}
			if !a.drag.CanDrop(target) {
				a.println(notice("Cannot drop here."))
			} else if a.drag.ReturnsToOrigin(target) {
				a.println(faint("Dropping back where it was."))
			}

			out, err := a.drag.Drop(cmd.Context(), target)
			if err != nil {
				return err
			}
			if out == drag.Moved {
				a.println(success("Moved."))
			}
			return nil
		},
	}
}

func (a *App) rmCmd() *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "rm <id>",
		Short: "Delete an item; folders are deleted with everything inside",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			m, ok := a.materialService.Get(id)
			if ok && !yes && !Confirm(a.reader, fmt.Sprintf("Delete %s %q?", m.ItemType, m.Name), a.out) {
				a.println("Cancelled.")
				return nil
			}

			ids, err := a.materialService.Delete(cmd.Context(), id)
			if err != nil {
				return err
			}
			a.println(success("Deleted " + plural(len(ids), "item") + "."))
			return nil
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "do not ask for confirmation")
	return cmd
}
