package services

import (
	"context"
	"fmt"

	"git.solsynth.dev/hypernet/socialgraph/pkg/internal/database"
	"git.solsynth.dev/hypernet/socialgraph/pkg/internal/errs"
	"git.solsynth.dev/hypernet/socialgraph/pkg/internal/models"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"
)

// CredentialVerifier decides whether a supplied secret matches the stored one
type CredentialVerifier interface {
	Verify(secret, stored string) bool
}

// CredentialHasher is implemented by verifiers that store a derived form of the secret
type CredentialHasher interface {
	Hash(secret string) (string, error)
}

// PlainVerifier compares the secrets as they are
type PlainVerifier struct{}

func (PlainVerifier) Verify(secret, stored string) bool {
	return secret == stored
}

type BcryptVerifier struct {
	Cost int
}

func (v BcryptVerifier) Verify(secret, stored string) bool {
	return bcrypt.CompareHashAndPassword([]byte(stored), []byte(secret)) == nil
}

func (v BcryptVerifier) Hash(secret string) (string, error) {
	cost := v.Cost
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	out, err := bcrypt.GenerateFromPassword([]byte(secret), cost)
	return string(out), err
}

func NewCredentialVerifier(name string, cost int) (CredentialVerifier, error) {
	switch name {
	case "", "plain":
		return PlainVerifier{}, nil
	case "bcrypt":
		return BcryptVerifier{Cost: cost}, nil
	default:
		return nil, fmt.Errorf("unknown credential verifier %s", name)
	}
}

// hashUserPassword stores the derived password when the write carries a new one
func (c *Core) hashUserPassword(ctx context.Context, item *models.User, payload Payload) error {
	hasher, ok := c.options.Verifier.(CredentialHasher)
	if !ok {
		return nil
	}
	if _, supplied := payload["password"]; !supplied {
		return nil
	}
	hashed, err := hasher.Hash(item.Password)
	if err != nil {
		return fmt.Errorf("unable to hash password: %v", err)
	}
	item.Password = hashed
	return nil
}

// Authenticate returns the user whose email and password both match
func (c *Core) Authenticate(ctx context.Context, email, password string) (models.User, error) {
	users, err := c.Users.Find(ctx, database.Where(database.Condition{"email": email}))
	if err != nil {
		return models.User{}, err
	}
	for _, user := range users {
		if user.Email == email && c.options.Verifier.Verify(password, user.Password) {
			return user, nil
		}
	}
	log.Debug().Str("email", email).Msg("Rejected authentication attempt...")
	return models.User{}, errs.NewInvalidCredentialsError(email)
}
