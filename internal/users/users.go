// Package users keeps cashier/admin records and the signed-in session slot.
package users

import (
	"strings"
	"time"

	"go-pos-lite/internal/apperr"
	"go-pos-lite/internal/database"
	"go-pos-lite/internal/models"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

var validate = validator.New()

type Directory struct {
	db  database.Store
	now func() time.Time
}

func NewDirectory(db database.Store) *Directory {
	return &Directory{db: db, now: time.Now}
}

func (d *Directory) WithClock(now func() time.Time) *Directory {
	d.now = now
	return d
}

func (d *Directory) List() ([]models.User, error) {
	var list []models.User
	err := d.db.View(func(b database.Bucket) error {
		var err error
		list, err = database.LoadList[models.User](b, database.KeyUsers)
		return err
	})
	return list, err
}

// Cashiers lists users with the cashier role, active or not.
func (d *Directory) Cashiers() ([]models.User, error) {
	all, err := d.List()
	if err != nil {
		return nil, err
	}
	out := make([]models.User, 0, len(all))
	for _, u := range all {
		if u.Role == models.RoleCashier {
			out = append(out, u)
		}
	}
	return out, nil
}

func (d *Directory) Get(id string) (models.User, error) {
	all, err := d.List()
	if err != nil {
		return models.User{}, err
	}
	for _, u := range all {
		if u.ID == id {
			return u, nil
		}
	}
	return models.User{}, errors.Wrapf(apperr.ErrNotFound, "user %s", id)
}

// Upsert creates or edits a user. Users are never hard-deleted; deactivate
// them instead.
func (d *Directory) Upsert(u models.User) (models.User, error) {
	u.Name = strings.TrimSpace(u.Name)
	u.Email = strings.TrimSpace(u.Email)
	if u.Role == "" {
		u.Role = models.RoleCashier
	}
	if err := validate.Struct(u); err != nil {
		return models.User{}, errors.Wrap(apperr.ErrValidation, err.Error())
	}

	err := d.db.Update(func(b database.Bucket) error {
		list, err := database.LoadList[models.User](b, database.KeyUsers)
		if err != nil {
			return err
		}

		idx := -1
		for i, existing := range list {
			if existing.ID == u.ID && u.ID != "" {
				idx = i
				continue
			}
			if strings.EqualFold(existing.Email, u.Email) {
				return errors.Wrapf(apperr.ErrValidation, "email %s already in use", u.Email)
			}
		}

		if idx < 0 {
			if u.ID == "" {
				u.ID = uuid.NewString()
			}
			u.CreatedAt = d.now()
			list = append(list, u)
		} else {
			u.CreatedAt = list[idx].CreatedAt
			list[idx] = u
		}
		return database.SaveList(b, database.KeyUsers, list)
	})
	if err != nil {
		return models.User{}, err
	}

	zap.L().Info("user saved", zap.String("user_id", u.ID), zap.String("role", string(u.Role)), zap.Bool("active", u.IsActive))
	return u, nil
}
