package cli

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/dealerdash/internal/client/session"
)

type route struct {
	name  string
	usage string
	// public routes skip the guard.
	public bool
	cap    session.Capability
	run    func(a *App, ctx context.Context, args []string) error
}

func routes() []route {
	return []route{
		{name: "signin", usage: "signin", public: true, run: (*App).signIn},
		{name: "exit", usage: "exit | quit", public: true, run: (*App).exit},
		{name: "quit", public: true, run: (*App).exit},

		{name: "profile", usage: "profile", cap: session.RequireAuthenticated, run: (*App).profile},
		{name: "signout", usage: "signout", cap: session.RequireAuthenticated, run: (*App).signOut},
		{name: "delete-account", usage: "delete-account", cap: session.RequireAuthenticated, run: (*App).deleteAccount},

		{name: "stats", usage: "stats", cap: session.RequireAdmin, run: (*App).stats},
		{name: "resources", usage: "resources", cap: session.RequireAdmin, run: (*App).resources},
		{name: "list", usage: "list <resource>", cap: session.RequireAdmin, run: (*App).list},
		{name: "more", usage: "more", cap: session.RequireAdmin, run: (*App).loadMore},
		{name: "show", usage: "show <resource> <id>", cap: session.RequireAdmin, run: (*App).show},
		{name: "create", usage: "create <resource>", cap: session.RequireAdmin, run: (*App).create},
		{name: "edit", usage: "edit <resource> <id>", cap: session.RequireAdmin, run: (*App).edit},
		{name: "delete", usage: "delete <resource> <id>", cap: session.RequireAdmin, run: (*App).delete},
		{name: "bookings", usage: "bookings", cap: session.RequireAdmin, run: (*App).bookings},
		{name: "dealers", usage: "dealers", cap: session.RequireAdmin, run: (*App).dealers},
		{name: "export", usage: "export bookings|dealers <file.xlsx>", cap: session.RequireAdmin, run: (*App).export},
	}
}

func findRoute(name string) (route, bool) {
	for _, r := range routes() {
		if r.name == name {
			return r, true
		}
	}
	return route{}, false
}

// Dispatch runs the command after checking its route against the current
// session. A denied command never reaches its handler; the user is sent to
// sign-in instead.
func (a *App) Dispatch(ctx context.Context, cmd string, args []string) error {
	r, ok := findRoute(cmd)
	if !ok {
		return fmt.Errorf("unknown command: %s", cmd)
	}
	if !r.public {
		if d := a.guard.Check(r.cap); !d.Allowed {
			a.log.Info(ctx, "navigation denied", "route", r.name, "requires", r.cap.String())
			fmt.Fprintf(a.out, "%s requires an %s session.\n", r.name, r.cap)
			return a.redirect(ctx, d.Redirect)
		}
	}
	return r.run(a, ctx, args)
}

// Help lists the commands the current session may run.
func (a *App) Help() []string {
	lines := []string{"Available commands:", "  help"}
	for _, r := range routes() {
		if r.usage == "" {
			continue
		}
		if r.public || a.guard.Check(r.cap).Allowed {
			lines = append(lines, "  "+r.usage)
		}
	}
	return lines
}

func (a *App) navigate(page string) {
	if a.page != page {
		a.log.Debug(context.Background(), "navigate", "from", a.page, "to", page)
	}
	a.page = page
	a.more = nil
}

func (a *App) redirect(ctx context.Context, to string) error {
	a.navigate(to)
	if to == session.RouteSignIn {
		return a.signIn(ctx, nil)
	}
	return nil
}

func (a *App) exit(context.Context, []string) error {
	return errQuit
}

func usage(cmd string) error {
	if r, ok := findRoute(cmd); ok && r.usage != "" {
		return fmt.Errorf("usage: %s", r.usage)
	}
	return fmt.Errorf("usage: %s", cmd)
}
