package cli

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/dealerdash/internal/client/session"
)

// getSimpleText and getPassword are indirections used to facilitate testing.
// They point to interactive input helpers and can be swapped in tests.
var getSimpleText = GetSimpleText
var getPassword = GetPassword

// signIn prompts for credentials and starts a session. Admins land on the
// dashboard stats; other accounts can only reach their profile.
func (a *App) signIn(ctx context.Context, _ []string) error {
	a.navigate(session.RouteSignIn)

	email, err := getSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}
	password, err := getPassword(a.out)
	if err != nil {
		return err
	}
	defer clear(password)

	sess, err := a.auth.SignIn(ctx, email, string(password))
	if err != nil {
		return fmt.Errorf("sign in: %w", err)
	}

	fmt.Fprintf(a.out, "Signed in as %s\n", displayName(sess))
	if !sess.User.IsAdmin {
		a.navigate("profile")
		fmt.Fprintln(a.out, "This account has no admin rights; only the profile is available.")
		return nil
	}
	a.navigate("stats")
	return a.stats(ctx, nil)
}

// signOut ends the session. The store notification moves the app to the
// sign-in page even if the remote call failed.
func (a *App) signOut(ctx context.Context, _ []string) error {
	return a.auth.SignOut(ctx)
}

func (a *App) deleteAccount(ctx context.Context, _ []string) error {
	ok, err := confirm(a.reader, "Delete your account? This cannot be undone.", a.out)
	if err != nil || !ok {
		return err
	}
	if err := a.auth.DeleteAccount(ctx); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Account deleted.")
	return nil
}

func displayName(s *session.Session) string {
	if s == nil {
		return ""
	}
	if s.User.Username != "" {
		return s.User.Username
	}
	return s.User.Email
}
