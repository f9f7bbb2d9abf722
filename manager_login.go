package logiscore

import (
	"context"
	"fmt"
	"net/mail"
	"strings"

	"github.com/logiscore/logiscore-go/api"
)

func validateEmail(email string) error {
	addr, err := mail.ParseAddress(strings.TrimSpace(email))
	if err != nil || addr.Address != strings.TrimSpace(email) {
		return fmt.Errorf("%w: %q", ErrInvalidEmail, email)
	}
	return nil
}

// Login authenticates with the legacy password endpoint. On success the
// session is installed in memory and the durable mirror, and inactivity
// tracking (re)starts. On failure the previous session, if any, is left
// untouched and State.Err carries a user-facing message.
func (m *Manager) Login(ctx context.Context, email, password string) (*AuthResponse, error) {
	if err := validateEmail(email); err != nil {
		m.failOp(messageOf(err, "Sign in failed"))
		return nil, err
	}
	if password == "" {
		m.failOp(ErrEmptyPassword.Error())
		return nil, ErrEmptyPassword
	}

	m.beginOp()
	resp, err := m.client.Signin(ctx, email, password)
	if err != nil {
		m.failOp(messageOf(err, "Sign in failed"))
		m.metricInc(MetricLoginFailure)
		m.audit.emit(ctx, auditEventLogin, "", email, false, err.Error())
		return nil, err
	}

	m.setAuth(ctx, &resp.User, resp.AccessToken)
	m.metricInc(MetricLoginSuccess)
	m.audit.emit(ctx, auditEventLogin, resp.User.ID, email, true, "")
	return resp, nil
}

// Register creates an account with the legacy password endpoint. Same
// contract as [Manager.Login].
func (m *Manager) Register(ctx context.Context, req SignupRequest) (*AuthResponse, error) {
	if err := validateEmail(req.Email); err != nil {
		m.failOp(messageOf(err, "Registration failed"))
		return nil, err
	}
	if req.Password == "" {
		m.failOp(ErrEmptyPassword.Error())
		return nil, ErrEmptyPassword
	}

	m.beginOp()
	resp, err := m.client.Signup(ctx, req)
	if err != nil {
		m.failOp(messageOf(err, "Registration failed"))
		m.metricInc(MetricSignupFailure)
		m.audit.emit(ctx, auditEventSignup, "", req.Email, false, err.Error())
		return nil, err
	}

	m.setAuth(ctx, &resp.User, resp.AccessToken)
	m.metricInc(MetricSignupSuccess)
	m.audit.emit(ctx, auditEventSignup, resp.User.ID, req.Email, true, "")
	return resp, nil
}

// RequestSigninCode asks the backend to email a one-time sign-in code to an
// existing account.
func (m *Manager) RequestSigninCode(ctx context.Context, email string) (*api.CodeResponse, error) {
	if err := validateEmail(email); err != nil {
		return nil, err
	}
	resp, err := m.client.SendSigninCode(ctx, email)
	if err != nil {
		m.audit.emit(ctx, auditEventCodeRequest, "", email, false, err.Error())
		return nil, err
	}
	m.metricInc(MetricCodeRequested)
	m.audit.emit(ctx, auditEventCodeRequest, "", email, true, "")
	return resp, nil
}

// RequestSignupCode asks the backend to email a one-time sign-up code for a
// new account.
func (m *Manager) RequestSignupCode(ctx context.Context, email string, userType UserType, companyName string) (*api.CodeResponse, error) {
	if err := validateEmail(email); err != nil {
		return nil, err
	}
	resp, err := m.client.SendSignupCode(ctx, email, userType, companyName)
	if err != nil {
		m.audit.emit(ctx, auditEventCodeRequest, "", email, false, err.Error())
		return nil, err
	}
	m.metricInc(MetricCodeRequested)
	m.audit.emit(ctx, auditEventCodeRequest, "", email, true, "")
	return resp, nil
}

// VerifySigninCode exchanges an emailed sign-in code for a session. Same
// session contract as [Manager.Login].
func (m *Manager) VerifySigninCode(ctx context.Context, email, code string) (*AuthResponse, error) {
	if err := validateEmail(email); err != nil {
		m.failOp(messageOf(err, "Sign in failed"))
		return nil, err
	}
	if strings.TrimSpace(code) == "" {
		m.failOp(ErrInvalidCode.Error())
		return nil, ErrInvalidCode
	}

	m.beginOp()
	resp, err := m.client.VerifySigninCode(ctx, email, strings.TrimSpace(code))
	if err != nil {
		m.failOp(messageOf(err, "Sign in failed"))
		m.metricInc(MetricCodeVerifyFailure)
		m.audit.emit(ctx, auditEventCodeVerify, "", email, false, err.Error())
		return nil, err
	}

	m.setAuth(ctx, &resp.User, resp.AccessToken)
	m.metricInc(MetricLoginSuccess)
	m.audit.emit(ctx, auditEventCodeVerify, resp.User.ID, email, true, "")
	return resp, nil
}

// VerifySignupCode exchanges an emailed sign-up code for a session, creating
// the account in the same call. Same session contract as [Manager.Register].
func (m *Manager) VerifySignupCode(ctx context.Context, req VerifySignupRequest) (*AuthResponse, error) {
	if err := validateEmail(req.Email); err != nil {
		m.failOp(messageOf(err, "Registration failed"))
		return nil, err
	}
	if strings.TrimSpace(req.Code) == "" {
		m.failOp(ErrInvalidCode.Error())
		return nil, ErrInvalidCode
	}

	m.beginOp()
	resp, err := m.client.VerifySignupCode(ctx, req)
	if err != nil {
		m.failOp(messageOf(err, "Registration failed"))
		m.metricInc(MetricCodeVerifyFailure)
		m.audit.emit(ctx, auditEventCodeVerify, "", req.Email, false, err.Error())
		return nil, err
	}

	m.setAuth(ctx, &resp.User, resp.AccessToken)
	m.metricInc(MetricSignupSuccess)
	m.audit.emit(ctx, auditEventCodeVerify, resp.User.ID, req.Email, true, "")
	return resp, nil
}

// GitHubCallback exchanges a GitHub OAuth code for a session. Same session
// contract as [Manager.Login].
func (m *Manager) GitHubCallback(ctx context.Context, code string) (*AuthResponse, error) {
	if strings.TrimSpace(code) == "" {
		m.failOp(ErrInvalidCode.Error())
		return nil, ErrInvalidCode
	}

	m.beginOp()
	resp, err := m.client.GitHubCallback(ctx, strings.TrimSpace(code))
	if err != nil {
		m.failOp(messageOf(err, "GitHub authentication failed"))
		m.metricInc(MetricLoginFailure)
		m.audit.emit(ctx, auditEventLogin, "", "", false, err.Error())
		return nil, err
	}

	m.setAuth(ctx, &resp.User, resp.AccessToken)
	m.metricInc(MetricLoginSuccess)
	m.audit.emit(ctx, auditEventLogin, resp.User.ID, resp.User.Email, true, "")
	return resp, nil
}
