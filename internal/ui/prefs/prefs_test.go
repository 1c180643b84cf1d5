// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package prefs

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/jeranaias/veritas-tui/internal/model"
	"github.com/jeranaias/veritas-tui/internal/ui/styles"
)

type fakeSaver struct {
	got  model.NewsPreferences
	err  error
	hits int
}

func (f *fakeSaver) UpdatePreferences(ctx context.Context, prefs model.NewsPreferences) error {
	f.hits++
	f.got = prefs
	return f.err
}

func TestSplitList(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{"politics, science", []string{"politics", "science"}},
		{"  a ,, b ,", []string{"a", "b"}},
		{"", nil},
		{" , , ", nil},
	}
	for _, tt := range tests {
		if got := splitList(tt.in); !reflect.DeepEqual(got, tt.want) {
			t.Errorf("splitList(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestNew_PrefillsFromCurrent(t *testing.T) {
	current := &model.NewsPreferences{
		Categories: []string{"science", "health"},
		Language:   "en",
		Region:     "us",
	}
	m := New(styles.NewTheme("dark"), &fakeSaver{}, current)

	prefs := m.Preferences()
	if !reflect.DeepEqual(prefs.Categories, current.Categories) {
		t.Errorf("categories = %v", prefs.Categories)
	}
	if prefs.Language != "en" || prefs.Region != "us" {
		t.Errorf("prefs = %+v", prefs)
	}
}

func TestSave_SendsParsedPreferences(t *testing.T) {
	saver := &fakeSaver{}
	m := New(styles.NewTheme("dark"), saver, nil)
	m.inputs[fieldCategories].SetValue("politics, tech")
	m.inputs[fieldLanguage].SetValue(" de ")

	_, cmd := m.save()
	if cmd == nil {
		t.Fatal("save should dispatch")
	}
	msg := cmd().(SavedMsg)
	if msg.Err != nil {
		t.Fatalf("save: %v", msg.Err)
	}
	if saver.hits != 1 {
		t.Fatalf("saver hit %d times", saver.hits)
	}
	if !reflect.DeepEqual(saver.got.Categories, []string{"politics", "tech"}) {
		t.Errorf("categories = %v", saver.got.Categories)
	}
	if saver.got.Language != "de" {
		t.Errorf("language = %q, want trimmed", saver.got.Language)
	}
}

func TestUpdate_SaveFailureSurfacesInline(t *testing.T) {
	m := New(styles.NewTheme("dark"), &fakeSaver{}, nil)
	m.saving = true

	m, _ = m.Update(SavedMsg{Err: errors.New("server error")})
	if m.saving {
		t.Error("saving flag should clear")
	}
	if m.errText != "server error" {
		t.Errorf("errText = %q", m.errText)
	}
	if m.saved {
		t.Error("failed save must not report success")
	}
}
