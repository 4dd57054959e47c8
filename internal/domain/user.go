package domain

import (
	"context"
	"errors"
	"time"

	"golang.org/x/crypto/bcrypt"
)

type Role string

const (
	RoleAdmin    Role = "admin"
	RolePaidUser Role = "paid_user"
	RoleUser     Role = "user"
)

// IsAtLeast reports whether r carries at least the privileges of other.
// Roles are ordered admin > paid_user > user.
func (r Role) IsAtLeast(other Role) bool {
	rank := map[Role]int{RoleAdmin: 2, RolePaidUser: 1, RoleUser: 0}
	return rank[r] >= rank[other]
}

type User struct {
	ID        int
	Email     string
	Password  password
	Role      Role
	CreatedAt time.Time
	UpdatedAt time.Time
	Version   int
}

type password struct {
	plaintext *string
	Hash      []byte
}

func (p *password) Set(plaintext string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(plaintext), 12)
	if err != nil {
		return err
	}

	p.plaintext = &plaintext
	p.Hash = hash

	return nil
}

func (p *password) Matches(plaintext string) (bool, error) {
	err := bcrypt.CompareHashAndPassword(p.Hash, []byte(plaintext))
	if err != nil {
		switch {
		case errors.Is(err, bcrypt.ErrMismatchedHashAndPassword):
			return false, nil
		default:
			return false, err
		}
	}

	return true, nil
}

type UserRepository interface {
	Create(ctx context.Context, user *User) error
	GetByEmail(ctx context.Context, email string) (*User, error)
	GetById(ctx context.Context, id int) (*User, error)
	Update(ctx context.Context, user *User) error
	Delete(ctx context.Context, id int) error
}
