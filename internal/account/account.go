// Package account validates the sign-in, registration and profile forms.
package account

import (
	"strings"

	"github.com/jensholdgaard/hypebid-bot/internal/domain"
)

// Login is the body of POST /account/login.
type Login struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// Validate checks l.
func (l Login) Validate() (Login, error) {
	if err := domain.CheckForm(l); err != nil {
		return Login{}, err
	}
	return l, nil
}

// Register is the body of POST /account/register.
type Register struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email" msg:"Email is not valid"`
	Phone    string `json:"phone" validate:"required,startswith=62" msg:"Phone number must start with 62"`
	Password string `json:"password" validate:"required"`
}

// Validate checks r and returns it with the email lower-cased.
func (r Register) Validate() (Register, error) {
	r.Email = strings.ToLower(strings.TrimSpace(r.Email))
	if err := domain.CheckForm(r); err != nil {
		return Register{}, err
	}
	return r, nil
}

// ChangePassword is the body of PUT /account/change-password.
type ChangePassword struct {
	OldPassword     string `json:"oldPassword" validate:"required"`
	NewPassword     string `json:"newPassword" validate:"required"`
	ConfirmPassword string `json:"confirmPassword" validate:"required,eqfield=NewPassword" msg:"Password doesn't match"`
}

// Validate checks c.
func (c ChangePassword) Validate() (ChangePassword, error) {
	if err := domain.CheckForm(c); err != nil {
		return ChangePassword{}, err
	}
	return c, nil
}

// EditProfile is the body of PUT /account.
type EditProfile struct {
	Name  string `json:"name" validate:"required"`
	Email string `json:"email" validate:"required"`
	Phone string `json:"phone" validate:"required"`
}

// EditProfileOf prefills the form from the cached profile.
func EditProfileOf(p domain.Profile) EditProfile {
	return EditProfile{Name: p.Name, Email: p.Email, Phone: p.Phone}
}

// Validate checks e.
func (e EditProfile) Validate() (EditProfile, error) {
	if err := domain.CheckForm(e); err != nil {
		return EditProfile{}, err
	}
	return e, nil
}
