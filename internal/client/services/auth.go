// Package services contains application services for the CartSync client.
// This file defines the authentication gateway: login and registration
// against the remote shop API, with failures reported as *AuthError.
package services

import (
	"context"
	"encoding/json"
	"errors"
	"strings"

	"github.com/dmitrijs2005/cartsync/internal/client/client"
	"github.com/dmitrijs2005/cartsync/internal/client/models"
	"github.com/dmitrijs2005/cartsync/internal/logging"
)

const (
	loginFallbackMessage  = "Invalid credentials"
	signupFallbackMessage = "Registration failed"
)

var (
	ErrValidationFailure = errors.New("validation failure")
	ErrTransportFailure  = errors.New("transport failure")
)

type AuthErrorKind int

const (
	AuthErrorValidation AuthErrorKind = iota + 1
	AuthErrorTransport
)

func (k AuthErrorKind) String() string {
	switch k {
	case AuthErrorValidation:
		return "validation"
	case AuthErrorTransport:
		return "transport"
	default:
		return "unknown"
	}
}

// AuthError is the only error type returned by AuthService. Message is
// ready to show to the user; Fields carries per-field detail when the
// server sent it.
type AuthError struct {
	Kind    AuthErrorKind
	Message string
	Fields  map[string]string
	Err     error
}

func (e *AuthError) Error() string { return e.Message }

func (e *AuthError) Unwrap() error { return e.Err }

func (e *AuthError) Is(target error) bool {
	switch target {
	case ErrValidationFailure:
		return e.Kind == AuthErrorValidation
	case ErrTransportFailure:
		return e.Kind == AuthErrorTransport
	}
	return false
}

// AuthService defines authentication operations for the CLI.
//
// Contract:
//   - Login: exchange credentials for a user. Stateless; the caller persists.
//   - Signup: create an account. Never logs in.
//
// Every returned error is a *AuthError.
type AuthService interface {
	Login(ctx context.Context, creds models.Credentials) (models.User, error)
	Signup(ctx context.Context, reg models.Registration) (models.SignupResult, error)
}

type authService struct {
	api client.AuthAPI
	log logging.Logger
}

func NewAuthService(api client.AuthAPI, log logging.Logger) AuthService {
	return &authService{api: api, log: log}
}

func (a *authService) Login(ctx context.Context, creds models.Credentials) (models.User, error) {
	creds.Email = strings.TrimSpace(creds.Email)
	if err := requireCredentials(creds.Email, creds.Password); err != nil {
		return models.User{}, err
	}

	u, err := a.api.Login(ctx, creds)
	if err != nil {
		a.log.Warn(ctx, "login failed", "email", creds.Email, "error", err)
		return models.User{}, newAuthError(err, loginFallbackMessage)
	}
	a.log.Debug(ctx, "login accepted", "user_id", u.ID)
	return u, nil
}

func (a *authService) Signup(ctx context.Context, reg models.Registration) (models.SignupResult, error) {
	reg.Email = strings.TrimSpace(reg.Email)
	if err := requireCredentials(reg.Email, reg.Password); err != nil {
		return models.SignupResult{}, err
	}

	raw, err := a.api.Register(ctx, reg)
	if err != nil {
		a.log.Warn(ctx, "registration failed", "email", reg.Email, "error", err)
		return models.SignupResult{}, newAuthError(err, signupFallbackMessage)
	}

	res := models.SignupResult{Raw: raw}
	if msg, _ := payloadMessage(raw); msg != "" {
		res.Message = msg
	}
	return res, nil
}

func requireCredentials(email, password string) *AuthError {
	fields := map[string]string{}
	if email == "" {
		fields["email"] = "is required"
	}
	if password == "" {
		fields["password"] = "is required"
	}
	if len(fields) == 0 {
		return nil
	}
	return &AuthError{
		Kind:    AuthErrorValidation,
		Message: "Email and password are required",
		Fields:  fields,
	}
}

// newAuthError classifies err. A 4xx with a body is a validation failure
// carrying the body; anything else is a transport failure that still
// surfaces a body if the server sent one.
func newAuthError(err error, fallback string) *AuthError {
	ae := &AuthError{Kind: AuthErrorTransport, Message: fallback, Err: err}

	var se *client.StatusError
	if !errors.As(err, &se) || len(se.Body) == 0 {
		return ae
	}
	if se.IsClientError() {
		ae.Kind = AuthErrorValidation
	}
	msg, fields := payloadMessage(se.Body)
	if msg != "" {
		ae.Message = msg
	}
	ae.Fields = fields
	return ae
}

// payloadMessage extracts a display message from a server payload: the
// "message" field of a JSON object, a JSON string, or the raw text.
func payloadMessage(raw []byte) (string, map[string]string) {
	text := strings.TrimSpace(string(raw))
	if text == "" {
		return "", nil
	}

	var obj struct {
		Message string                     `json:"message"`
		Errors  map[string]json.RawMessage `json:"errors"`
	}
	if err := json.Unmarshal(raw, &obj); err == nil {
		fields := decodeFields(obj.Errors)
		if obj.Message != "" {
			return obj.Message, fields
		}
		return text, fields
	}

	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s, nil
	}
	return text, nil
}

func decodeFields(in map[string]json.RawMessage) map[string]string {
	if len(in) == 0 {
		return nil
	}
	out := make(map[string]string, len(in))
	for k, v := range in {
		var s string
		if err := json.Unmarshal(v, &s); err == nil {
			out[k] = s
			continue
		}
		var list []string
		if err := json.Unmarshal(v, &list); err == nil {
			out[k] = strings.Join(list, "; ")
			continue
		}
		out[k] = string(v)
	}
	return out
}
