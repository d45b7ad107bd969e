package cli

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/cartsync/internal/client/models"
	"github.com/dmitrijs2005/cartsync/internal/common"
)

// getSimpleText and getPassword are indirections used to facilitate testing.
// They point to interactive input helpers and can be swapped in tests.
var getSimpleText = GetSimpleText
var getPassword = GetPassword

// Register prompts for username, email and password and creates an account.
// It does not log in; the user is pointed at the login command instead.
// The password byte slice is wiped before returning.
func (a *App) Register(ctx context.Context) error {
	username, err := getSimpleText(a.reader, "Enter username", a.out)
	if err != nil {
		return err
	}
	email, err := getSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}
	password, err := getPassword(a.reader, a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	res, err := a.coord.Signup(ctx, models.Registration{
		Username: username,
		Email:    email,
		Password: string(password),
	})
	if err != nil {
		return err
	}

	msg := res.Message
	if msg == "" {
		msg = "Registration successful"
	}
	fmt.Fprintf(a.out, "%s. Type 'login' to sign in.\n", msg)
	return nil
}

// Login prompts for credentials and switches the session. On failure the
// previous session stays active and the error is returned for display.
// The password byte slice is wiped before returning.
func (a *App) Login(ctx context.Context) error {
	email, err := getSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}
	password, err := getPassword(a.reader, a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	u, err := a.coord.Login(ctx, models.Credentials{Email: email, Password: string(password)})
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "Logged in as %s\n", u.Username)
	renderCart(a.out, a.coord.Snapshot())
	return nil
}

// Logout drops the local session and cart. It never fails.
func (a *App) Logout(ctx context.Context) error {
	a.coord.Logout(ctx)
	fmt.Fprintln(a.out, "Logged out")
	return nil
}
