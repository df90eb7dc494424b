package users

import (
	"strings"

	"go-pos-lite/internal/apperr"
	"go-pos-lite/internal/database"
	"go-pos-lite/internal/models"

	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// Login is the demo sign-in: the first active user whose email matches,
// case-insensitively, becomes the current user. There is no password.
func (d *Directory) Login(email string) (models.User, error) {
	email = strings.TrimSpace(email)
	var found models.User

	err := d.db.Update(func(b database.Bucket) error {
		list, err := database.LoadList[models.User](b, database.KeyUsers)
		if err != nil {
			return err
		}
		for _, u := range list {
			if u.IsActive && strings.EqualFold(u.Email, email) {
				found = u
				return database.SaveValue(b, database.KeyCurrentUser, u)
			}
		}
		return errors.Wrapf(apperr.ErrUnauthorized, "no active user for %s", email)
	})
	if err != nil {
		zap.L().Warn("login rejected", zap.String("email", email))
		return models.User{}, err
	}

	zap.L().Info("user signed in", zap.String("user_id", found.ID), zap.String("role", string(found.Role)))
	return found, nil
}

// Logout clears the current user slot.
func (d *Directory) Logout() error {
	return d.db.Update(func(b database.Bucket) error {
		return b.Delete(database.KeyCurrentUser)
	})
}

// Current returns the signed-in user or ErrUnauthorized.
func (d *Directory) Current() (models.User, error) {
	var u models.User
	err := d.db.View(func(b database.Bucket) error {
		var ok bool
		var err error
		u, ok, err = database.LoadValue[models.User](b, database.KeyCurrentUser)
		if err != nil {
			return err
		}
		if !ok {
			return apperr.ErrUnauthorized
		}
		return nil
	})
	return u, err
}
