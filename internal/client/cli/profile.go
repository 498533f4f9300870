package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/dmitrijs2005/authgate/internal/client/models"
	"github.com/dmitrijs2005/authgate/internal/common"
)

const secretBytes = 32

func (a *App) Me(ctx context.Context) error {
	user, err := a.api.Me(ctx)
	if err != nil {
		return err
	}
	a.user = user
	a.printUser(user)
	return nil
}

func (a *App) Rename(ctx context.Context) error {
	name, err := getSimpleText(a.reader, "Enter new display name", a.out)
	if err != nil {
		return err
	}
	user, err := a.api.UpdateName(ctx, name)
	if err != nil {
		return err
	}
	a.user = user
	a.printUser(user)
	return nil
}

// Secrets prints a fresh access and refresh signing secret.
func (a *App) Secrets(context.Context) error {
	access, err := common.MakeRandHexString(secretBytes)
	if err != nil {
		return err
	}
	refresh, err := common.MakeRandHexString(secretBytes)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "JWT_ACCESS_SECRET=%s\nJWT_REFRESH_SECRET=%s\n", access, refresh)
	return nil
}

func (a *App) printUser(u *models.User) {
	fmt.Fprintf(a.out, "ID:      %s\nEmail:   %s\nName:    %s\nCreated: %s\n",
		u.ID, u.Email, u.Name, u.CreatedAt.Local().Format(time.DateTime))
}
