// Package authapi is the HTTP client for the MovieBuzz auth service.
package authapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/shandysiswandi/moviebuzz/internal/pkg/goerror"
	"github.com/shandysiswandi/moviebuzz/internal/pkg/instrument"
	"github.com/shandysiswandi/moviebuzz/internal/pkg/session"
	"github.com/shandysiswandi/moviebuzz/internal/pkg/uid"
	"github.com/shandysiswandi/moviebuzz/internal/verification/entity"
	"github.com/shandysiswandi/moviebuzz/internal/verification/usecase"
	"go.opentelemetry.io/otel/trace"
)

const maxBodyBytes = 1 << 20

type Config struct {
	BaseURL    string
	Timeout    time.Duration
	HTTPClient *http.Client
	UUID       uid.StringID
	Instrument instrument.Instrumentation
}

type Client struct {
	baseURL string
	http    *http.Client
	uuid    uid.StringID
	ins     instrument.Instrumentation
}

func NewClient(cfg Config) *Client {
	hc := cfg.HTTPClient
	if hc == nil {
		hc = &http.Client{Timeout: cfg.Timeout}
	}

	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		http:    hc,
		uuid:    cfg.UUID,
		ins:     cfg.Instrument,
	}
}

func (c *Client) startSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	return c.ins.Tracer("verification.authapi").Start(ctx, name)
}

func (c *Client) Register(ctx context.Context, in usecase.RegisterRequest) (usecase.RegisterResult, error) {
	ctx, span := c.startSpan(ctx, "Register")
	defer span.End()

	var out registerResponse
	if err := c.do(ctx, http.MethodPost, "/api/auth/register", "", registerRequest{
		Username: in.Username,
		Password: in.Password,
		contact:  newContact(in.Contact),
	}, &out); err != nil {
		return usecase.RegisterResult{}, toError(err)
	}

	return usecase.RegisterResult{UserID: out.UserID, Message: out.Message, Delivery: delivery(out.OTP)}, nil
}

func (c *Client) IssueCode(ctx context.Context, contact string) (entity.Delivery, error) {
	ctx, span := c.startSpan(ctx, "IssueCode")
	defer span.End()

	var out sendCodeResponse
	if err := c.do(ctx, http.MethodPost, "/api/auth/send-otp", "", sendCodeRequest{newContact(contact)}, &out); err != nil {
		return entity.Delivery{}, toError(err)
	}

	return delivery(out.OTP), nil
}

func (c *Client) VerifyCode(ctx context.Context, contact, code string) (session.Session, error) {
	ctx, span := c.startSpan(ctx, "VerifyCode")
	defer span.End()

	var out sessionResponse
	if err := c.do(ctx, http.MethodPost, "/api/auth/verify-otp", "", verifyCodeRequest{
		contact: newContact(contact),
		OTP:     code,
	}, &out); err != nil {
		return session.Session{}, toError(err)
	}

	// A 2xx with success=false is still a refusal.
	if !out.Success && out.Token == "" {
		return session.Session{}, goerror.FromStatus(http.StatusBadRequest, out.Message)
	}

	return session.Session{Token: out.Token, User: out.User.toUser()}, nil
}

func (c *Client) Login(ctx context.Context, username, password string) (usecase.LoginResult, error) {
	ctx, span := c.startSpan(ctx, "Login")
	defer span.End()

	var out sessionResponse
	err := c.do(ctx, http.MethodPost, "/api/auth/login", "", credentialsRequest{Username: username, Password: password}, &out)

	var se *statusError
	if errors.As(err, &se) && se.status == http.StatusForbidden {
		var nv loginNeedsVerification
		if json.Unmarshal(se.body, &nv) == nil && nv.NeedsVerification {
			return usecase.LoginResult{
				NeedsVerification: true,
				Contact:           nv.value(),
				Delivery:          delivery(nv.OTP),
			}, nil
		}
	}
	if err != nil {
		return usecase.LoginResult{}, toError(err)
	}

	return usecase.LoginResult{Session: session.Session{Token: out.Token, User: out.User.toUser()}}, nil
}

func (c *Client) VerifyToken(ctx context.Context, token string) (session.User, error) {
	ctx, span := c.startSpan(ctx, "VerifyToken")
	defer span.End()

	var out userEnvelope
	if err := c.do(ctx, http.MethodGet, "/api/auth/verify", token, nil, &out); err != nil {
		return session.User{}, toError(err)
	}

	return out.User.toUser(), nil
}

func (c *Client) SetupStatus(ctx context.Context) (bool, error) {
	ctx, span := c.startSpan(ctx, "SetupStatus")
	defer span.End()

	var out setupStatusResponse
	if err := c.do(ctx, http.MethodGet, "/api/auth/setup-status", "", nil, &out); err != nil {
		return false, toError(err)
	}

	return out.SetupRequired, nil
}

func (c *Client) SetupAdmin(ctx context.Context, username, password string) (session.Session, error) {
	ctx, span := c.startSpan(ctx, "SetupAdmin")
	defer span.End()

	var out sessionResponse
	if err := c.do(ctx, http.MethodPost, "/api/auth/setup", "", credentialsRequest{Username: username, Password: password}, &out); err != nil {
		return session.Session{}, toError(err)
	}

	return session.Session{Token: out.Token, User: out.User.toUser()}, nil
}
