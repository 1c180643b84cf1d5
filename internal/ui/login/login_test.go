// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package login

import (
	"context"
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/veritas-tui/internal/api"
	"github.com/jeranaias/veritas-tui/internal/model"
	"github.com/jeranaias/veritas-tui/internal/ui/styles"
)

type fakeAuth struct {
	loginCalls  int
	signupCalls int
	err         error
}

func (f *fakeAuth) Login(ctx context.Context, email, password string) (*api.LoginResponse, error) {
	f.loginCalls++
	if f.err != nil {
		return nil, f.err
	}
	return &api.LoginResponse{AccessToken: "tok-login", User: model.User{Email: email}}, nil
}

func (f *fakeAuth) Signup(ctx context.Context, email, password string) (*api.SignupResponse, error) {
	f.signupCalls++
	if f.err != nil {
		return nil, f.err
	}
	resp := &api.SignupResponse{User: model.User{Email: email}}
	resp.Session.AccessToken = "tok-signup"
	return resp, nil
}

func filled(t *testing.T, auth Authenticator) Model {
	t.Helper()
	m := New(styles.NewTheme("dark"), auth)
	m.inputs[fieldEmail].SetValue("user@example.com")
	m.inputs[fieldPassword].SetValue("hunter2")
	return m
}

func TestSubmit_EmptyFieldsRejectedLocally(t *testing.T) {
	auth := &fakeAuth{}
	m := New(styles.NewTheme("dark"), auth)

	m, cmd := m.submit()
	if cmd != nil {
		t.Error("empty form should not dispatch")
	}
	if m.errText == "" {
		t.Error("validation error not surfaced")
	}
	if auth.loginCalls != 0 {
		t.Error("backend reached with empty credentials")
	}
}

func TestSubmit_LoginProducesToken(t *testing.T) {
	auth := &fakeAuth{}
	m := filled(t, auth)

	_, cmd := m.submit()
	if cmd == nil {
		t.Fatal("submit should dispatch")
	}
	done := cmd().(DoneMsg)
	if done.Err != nil || done.Token != "tok-login" {
		t.Errorf("done = %+v", done)
	}
	if auth.loginCalls != 1 || auth.signupCalls != 0 {
		t.Errorf("calls = login:%d signup:%d", auth.loginCalls, auth.signupCalls)
	}
}

func TestSubmit_SignupUsesNestedToken(t *testing.T) {
	auth := &fakeAuth{}
	m := filled(t, auth)
	m.signup = true

	_, cmd := m.submit()
	done := cmd().(DoneMsg)
	if done.Token != "tok-signup" {
		t.Errorf("token = %q", done.Token)
	}
	if auth.signupCalls != 1 {
		t.Error("signup flow not used")
	}
}

func TestUpdate_FailureSurfacesInline(t *testing.T) {
	m := filled(t, &fakeAuth{err: errors.New("invalid credentials")})
	m.submitting = true

	m, _ = m.Update(DoneMsg{Err: errors.New("invalid credentials")})
	if m.submitting {
		t.Error("in-flight flag should clear")
	}
	if m.errText != "invalid credentials" {
		t.Errorf("errText = %q", m.errText)
	}
}

func TestUpdate_CtrlSTogglesSignup(t *testing.T) {
	m := filled(t, &fakeAuth{})
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyCtrlS})
	if !m.signup {
		t.Error("ctrl+s should switch to signup")
	}
}
