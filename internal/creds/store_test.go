// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package creds

import (
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

func TestStore_RoundTrip(t *testing.T) {
	s := NewStore(t.TempDir())

	if err := s.SaveToken("tok-abc123"); err != nil {
		t.Fatalf("SaveToken: %v", err)
	}
	got, err := s.Token()
	if err != nil {
		t.Fatalf("Token: %v", err)
	}
	if got != "tok-abc123" {
		t.Errorf("Token = %q, want the saved token", got)
	}
}

func TestStore_NoToken(t *testing.T) {
	s := NewStore(t.TempDir())
	if _, err := s.Token(); !errors.Is(err, ErrNoToken) {
		t.Errorf("err = %v, want ErrNoToken", err)
	}
	if s.HasToken() {
		t.Error("HasToken should be false for an empty store")
	}
}

func TestStore_Clear(t *testing.T) {
	s := NewStore(t.TempDir())
	s.SaveToken("tok")

	if err := s.Clear(); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	if s.HasToken() {
		t.Error("token should be gone after Clear")
	}
	// Clearing an empty store is fine.
	if err := s.Clear(); err != nil {
		t.Errorf("second Clear: %v", err)
	}
}

func TestStore_TokenNotStoredInPlaintext(t *testing.T) {
	dir := t.TempDir()
	s := NewStore(dir)
	s.SaveToken("super-secret-token")

	raw, err := os.ReadFile(filepath.Join(dir, TokenKey))
	if err != nil {
		t.Fatalf("read token file: %v", err)
	}
	if string(raw) == "super-secret-token" || string(raw) == `"super-secret-token"` {
		t.Error("token must not be stored in plaintext")
	}
}

func TestStore_TamperedTokenFails(t *testing.T) {
	dir := t.TempDir()
	s := NewStore(dir)
	s.SaveToken("tok")

	path := filepath.Join(dir, TokenKey)
	raw, _ := os.ReadFile(path)
	raw[len(raw)-1] ^= 0xFF
	os.WriteFile(path, raw, 0600)

	if _, err := s.Token(); !errors.Is(err, ErrCorrupted) {
		t.Errorf("err = %v, want ErrCorrupted", err)
	}
}

func TestStore_FileModes(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("unix file modes")
	}
	dir := t.TempDir()
	s := NewStore(dir)
	s.SaveToken("tok")

	for _, name := range []string{TokenKey, deviceKeyFile} {
		info, err := os.Stat(filepath.Join(dir, name))
		if err != nil {
			t.Fatalf("stat %s: %v", name, err)
		}
		if info.Mode().Perm() != 0600 {
			t.Errorf("%s mode = %o, want 0600", name, info.Mode().Perm())
		}
	}
}

func TestStore_RejectsEmptyToken(t *testing.T) {
	s := NewStore(t.TempDir())
	if err := s.SaveToken(""); err == nil {
		t.Error("SaveToken(\"\") should fail")
	}
}
