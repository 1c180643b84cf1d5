// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// auth.go - Terminal login and logout.

package cli

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/jeranaias/veritas-tui/internal/api"
	"github.com/jeranaias/veritas-tui/internal/creds"
	"github.com/jeranaias/veritas-tui/internal/ui/styles"
)

// AuthClient is the slice of the API client the auth commands need.
type AuthClient interface {
	Login(ctx context.Context, email, password string) (*api.LoginResponse, error)
	Logout(ctx context.Context) error
}

// RunLogin prompts for credentials, authenticates, and stores the token.
func RunLogin(auth AuthClient, store *creds.Store) error {
	if !IsTTY() {
		return ErrNoTTY
	}

	fmt.Fprint(os.Stderr, "Email: ")
	reader := bufio.NewReader(os.Stdin)
	email, err := reader.ReadString('\n')
	if err != nil {
		return fmt.Errorf("read email: %w", err)
	}
	email = strings.TrimSpace(email)
	if email == "" {
		return fmt.Errorf("email is required")
	}

	password, err := ReadPassword("Password: ")
	if err != nil {
		return err
	}
	if password == "" {
		return fmt.Errorf("password is required")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	resp, err := auth.Login(ctx, email, password)
	if err != nil {
		return fmt.Errorf("login: %w", err)
	}
	if err := store.SaveToken(resp.AccessToken); err != nil {
		return fmt.Errorf("store token: %w", err)
	}

	who := email
	if resp.User.Email != "" {
		who = resp.User.Email
	}
	fmt.Println(styles.RenderSuccess("Signed in as " + who))
	return nil
}

// RunLogout revokes the backend session best-effort and always clears the
// local token.
func RunLogout(auth AuthClient, store *creds.Store) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := auth.Logout(ctx); err != nil {
		fmt.Fprintln(os.Stderr, styles.RenderWarning("backend logout failed; clearing local token anyway"))
	}
	if err := store.Clear(); err != nil {
		return fmt.Errorf("clear token: %w", err)
	}
	fmt.Println(styles.RenderSuccess("Signed out"))
	return nil
}
