package cli

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/authgate/internal/common"
)

// getSimpleText and getPassword are indirections used to facilitate testing.
var getSimpleText = GetSimpleText
var getPassword = GetPassword

// SignUp prompts for email, display name and password, then creates the
// account. The server signs the new user in.
func (a *App) SignUp(ctx context.Context) error {
	email, err := getSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}
	name, err := getSimpleText(a.reader, "Enter display name", a.out)
	if err != nil {
		return err
	}
	password, err := getPassword(a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	user, err := a.api.SignUp(ctx, email, name, password)
	if err != nil {
		return err
	}
	a.user = user
	fmt.Fprintf(a.out, "Welcome, %s!\n", user.Name)
	return nil
}

func (a *App) SignIn(ctx context.Context) error {
	email, err := getSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}
	password, err := getPassword(a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	user, err := a.api.SignIn(ctx, email, password)
	if err != nil {
		return err
	}
	a.user = user
	fmt.Fprintf(a.out, "Signed in as %s\n", user.Email)
	return nil
}

func (a *App) Refresh(ctx context.Context) error {
	user, err := a.api.Refresh(ctx)
	if err != nil {
		return err
	}
	a.user = user
	fmt.Fprintln(a.out, "Tokens refreshed")
	return nil
}

// Logout forgets the local session even when the server rejects the call.
func (a *App) Logout(ctx context.Context) error {
	a.user = nil
	if err := a.api.Logout(ctx); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Logged out")
	return nil
}
