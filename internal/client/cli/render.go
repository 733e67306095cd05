package cli

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/dmitrijs2005/studyhub/internal/client/models"
	"github.com/dmitrijs2005/studyhub/internal/client/services"
	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
)

var (
	title   = color.New(color.FgHiCyan, color.Bold).SprintFunc()
	notice  = color.New(color.FgYellow).SprintFunc()
	success = color.New(color.FgGreen).SprintFunc()
	failure = color.New(color.FgRed).SprintFunc()
	faint   = color.New(color.Faint).SprintFunc()

	folderStyle = color.New(color.FgBlue, color.Bold).SprintFunc()
	setStyle    = color.New(color.FgGreen).SprintFunc()
	linkStyle   = color.New(color.FgMagenta).SprintFunc()
)

func plural(n int, word string) string {
	if n == 1 {
		return fmt.Sprintf("%s %s", humanize.Comma(int64(n)), word)
	}
	return fmt.Sprintf("%s %ss", humanize.Comma(int64(n)), word)
}

// errorText turns a command failure into the line shown to the user.
func errorText(err error, loggedIn bool) string {
	if services.RequiresLogin(err) {
		if loggedIn {
			return failure("Your session has expired. Use 'login' to sign in again.")
		}
		return failure("You need to log in first. Use 'login'.")
	}
	var opErr *services.OperationError
	if errors.As(err, &opErr) {
		return failure("Error: " + opErr.Message)
	}
	return failure("Error: " + err.Error())
}

func materialLine(m models.Material, state services.ItemState) string {
	var name string
	switch m.ItemType {
	case models.ItemTypeFolder:
		name = folderStyle(m.Name + "/")
	case models.ItemTypeLink:
		name = linkStyle(m.Name + " ->")
	default:
		name = setStyle(m.Name)
	}

	line := fmt.Sprintf("%6d  %-6s %s", m.ID, m.ItemType, name)
	if state != services.StatePresent && state != services.StateAbsent {
		line += " " + faint("("+string(state)+")")
	}
	return line
}

func voteLine(up, down int, mine models.VoteType) string {
	s := fmt.Sprintf("+%s / -%s", humanize.Comma(int64(up)), humanize.Comma(int64(down)))
	switch mine {
	case models.VoteUp:
		s += " " + success("(you upvoted)")
	case models.VoteDown:
		s += " " + notice("(you downvoted)")
	}
	return s
}

// writeComment prints c indented by depth. Comments the user wrote are
// marked so they know which ones they may edit.
func writeComment(w io.Writer, c models.Comment, depth int, mine bool) {
	pad := strings.Repeat("    ", depth)
	when := ""
	if !c.CreatedAt.IsZero() {
		when = " " + faint(humanize.Time(c.CreatedAt.Time))
	}
	author := c.AuthorEmail
	if mine {
		author += " " + success("(you)")
	}
	fmt.Fprintf(w, "%s#%d %s%s  %s\n", pad, c.ID, author, when, voteLine(c.Upvotes, c.Downvotes, c.UserVote))
	for _, line := range strings.Split(c.Text, "\n") {
		fmt.Fprintf(w, "%s  %s\n", pad, line)
	}
}
