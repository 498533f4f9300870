package auth

import (
	"time"

	"github.com/dmitrijs2005/authgate/internal/server/models"
)

// TokenPair is one access token plus one refresh token minted from the same
// identity snapshot.
type TokenPair struct {
	AccessToken      string
	RefreshToken     string
	AccessExpiresAt  time.Time
	RefreshExpiresAt time.Time
}

// TokenIssuer mints token pairs. It either returns both tokens or an error.
type TokenIssuer struct {
	codec *TokenCodec
}

func NewTokenIssuer(codec *TokenCodec) *TokenIssuer {
	return &TokenIssuer{codec: codec}
}

func (i *TokenIssuer) Issue(user *models.User) (*TokenPair, error) {
	access, accessExp, err := i.codec.sign(user.ID, user.Email, KeyspaceAccess)
	if err != nil {
		return nil, err
	}
	refresh, refreshExp, err := i.codec.sign(user.ID, user.Email, KeyspaceRefresh)
	if err != nil {
		return nil, err
	}
	return &TokenPair{
		AccessToken:      access,
		RefreshToken:     refresh,
		AccessExpiresAt:  accessExp,
		RefreshExpiresAt: refreshExp,
	}, nil
}
