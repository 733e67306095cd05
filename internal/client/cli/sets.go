package cli

import (
	"errors"
	"fmt"

	"github.com/dmitrijs2005/studyhub/internal/client/models"
	"github.com/dmitrijs2005/studyhub/internal/client/services"
	"github.com/dmitrijs2005/studyhub/internal/common"
	"github.com/spf13/cobra"
)

func (a *App) openCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "open <set id>",
		Short: "Open a flashcard set (links open the shared set)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			if m, ok := a.materialService.Get(id); ok {
				switch {
				case m.IsFolder():
					return fmt.Errorf("%q is a folder, use cd", m.Name)
				case m.ItemType == models.ItemTypeLink && m.LinkedMaterialID != nil:
					id = *m.LinkedMaterialID
				}
			}

			view, err := a.setService.Open(cmd.Context(), id)
			if errors.Is(err, common.ErrStale) {
				return nil
			}
			if err != nil {
				return err
			}
			a.printSet(view)
			return nil
		},
	}
}

func (a *App) closeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "close",
		Short: "Close the open set",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a.setService.Close()
			return nil
		},
	}
}

func (a *App) showCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show the open set with its cards and comments",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			view, ok := a.setService.Current()
			if !ok {
				return common.ErrNoSession
			}
			a.printSet(view)
			a.println()
			return a.printComments()
		},
	}
}

func (a *App) printSet(v services.SetView) {
	a.println(title(v.Name))
	if v.Description != "" {
		a.println(v.Description)
	}
	visibility := "private"
	if v.IsPublic {
		visibility = "public"
	}
	a.printf("by %s, %s, %s\n", v.Creator, visibility, plural(len(v.Flashcards), "card"))
	a.println(voteLine(v.Upvotes, v.Downvotes, v.UserVote))
	for i, c := range v.Flashcards {
		a.printf("%3d. %s\n     %s\n", i+1, c.FrontContent, faint(c.BackContent))
	}
}

func (a *App) voteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "vote <up|down>",
		Short: "Vote on the open set; voting the same way again removes the vote",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			v, err := parseVote(args[0])
			if err != nil {
				return err
			}
			res, err := a.setService.Vote(cmd.Context(), v)
			if err != nil {
				return err
			}
			a.println(voteLine(res.Upvotes, res.Downvotes, res.UserVote))
			return nil
		},
	}
}

func (a *App) addCardCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "addcard",
		Short: "Append a flashcard to the open set and save it",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			view, ok := a.setService.Current()
			if !ok {
				return common.ErrNoSession
			}
			front, err := GetSimpleText(a.reader, "Front", a.out)
			if err != nil {
				return err
			}
			back, err := GetSimpleText(a.reader, "Back", a.out)
			if err != nil {
				return err
			}

			draft := models.SetDraft{
				Name:        view.Name,
				Description: view.Description,
				IsPublic:    view.IsPublic,
				Flashcards:  append(view.Flashcards, models.Flashcard{FrontContent: front, BackContent: back}),
			}
			if _, err := a.setService.Save(cmd.Context(), &view.ID, draft); err != nil {
				return err
			}
			a.println(success("Saved."))
			return nil
		},
	}
}

func (a *App) copyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "copy <set id> [folder|..|/]",
		Short: "Copy a set into a folder of yours (default: current folder)",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			target := a.currentFolder()
			if len(args) == 2 {
				if target, err = a.parseTarget(args[1]); err != nil {
					return err
				}
			}
			m, err := a.setService.Copy(cmd.Context(), id, target)
			if err != nil {
				return err
			}
			a.println(success(fmt.Sprintf("Copied to %q (id %d)", m.Name, m.ID)))
			return nil
		},
	}
}
