package cli

import (
	"context"
	"fmt"
	"strings"
)

// getStatus renders the prompt status: who is logged in, where they are in
// the tree and which set is open.
func (a *App) getStatus() string {
	var parts []string
	if email := a.authService.Email(); email != "" {
		parts = append(parts, email)
	}
	if a.materialService != nil {
		crumbs := a.materialService.Breadcrumb(a.currentFolder())
		names := make([]string, 0, len(crumbs))
		for _, c := range crumbs {
			names = append(names, c.Name)
		}
		parts = append(parts, strings.Join(names, "/"))
	}
	if view, ok := a.setService.Current(); ok {
		parts = append(parts, fmt.Sprintf("[%s]", view.Name))
	}
	if len(parts) == 0 {
		return ""
	}
	return fmt.Sprintf("(%s)", strings.Join(parts, " "))
}

// Root runs the interactive session until the user exits. A token from the
// configuration logs in right away.
func (a *App) Root(ctx context.Context) {
	fmt.Fprintln(a.out, title("Welcome to StudyHub CLI (type 'help' for commands)"))

	if a.config.Token != "" {
		if err := a.loginWith(ctx, a.config.Token); err != nil {
			fmt.Fprintln(a.out, errorText(err, false))
		}
	}

	runREPL(ctx, a, a.getStatus, a.reader)
}
