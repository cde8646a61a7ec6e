package authapi

import (
	"strings"

	"github.com/shandysiswandi/moviebuzz/internal/pkg/session"
	"github.com/shandysiswandi/moviebuzz/internal/verification/entity"
)

// contact is serialized as "email" or "mobile" depending on its shape.
type contact struct {
	Email  string `json:"email,omitempty"`
	Mobile string `json:"mobile,omitempty"`
}

func newContact(c string) contact {
	if strings.Contains(c, "@") {
		return contact{Email: c}
	}
	return contact{Mobile: c}
}

func (c contact) value() string {
	if c.Email != "" {
		return c.Email
	}
	return c.Mobile
}

type registerRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	contact
}

type registerResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	UserID  string `json:"userId"`
	OTP     string `json:"otp"`
}

type sendCodeRequest struct {
	contact
}

type sendCodeResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	OTP     string `json:"otp"`
}

type verifyCodeRequest struct {
	contact
	OTP string `json:"otp"`
}

type credentialsRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type userResponse struct {
	ID         string `json:"id"`
	MongoID    string `json:"_id"`
	Username   string `json:"username"`
	Email      string `json:"email"`
	IsVerified bool   `json:"isVerified"`
	IsAdmin    bool   `json:"isAdmin"`
}

func (u userResponse) toUser() session.User {
	id := u.ID
	if id == "" {
		id = u.MongoID
	}

	return session.User{
		ID:         id,
		Username:   u.Username,
		Email:      u.Email,
		IsVerified: u.IsVerified,
		IsAdmin:    u.IsAdmin,
	}
}

type sessionResponse struct {
	Success bool         `json:"success"`
	Message string       `json:"message"`
	Token   string       `json:"token"`
	User    userResponse `json:"user"`
}

type loginNeedsVerification struct {
	Error             string `json:"error"`
	NeedsVerification bool   `json:"needsVerification"`
	contact
	OTP string `json:"otp"`
}

type userEnvelope struct {
	User userResponse `json:"user"`
}

type setupStatusResponse struct {
	SetupRequired bool `json:"setupRequired"`
}

type errorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

func (e errorResponse) text() string {
	if e.Error != "" {
		return e.Error
	}
	return e.Message
}

func delivery(code string) entity.Delivery {
	if code == "" {
		return entity.Delivered()
	}
	return entity.DemoDisplay(code)
}
