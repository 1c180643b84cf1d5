// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"testing"
	"time"

	"github.com/jeranaias/veritas-tui/internal/model"
	"github.com/jeranaias/veritas-tui/internal/realtime"
)

var t0 = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func chunk(typ realtime.ChunkType, msgID, content string) realtime.StreamChunk {
	return realtime.StreamChunk{
		Type:      typ,
		SessionID: "s1",
		MessageID: msgID,
		Role:      model.RoleAssistant,
		Content:   content,
	}
}

// appendsOf filters the effects down to ledger appends.
func appendsOf(effects []Effect) []model.Turn {
	var out []model.Turn
	for _, e := range effects {
		if e.Kind == EffectAppendTurn {
			out = append(out, e.Turn)
		}
	}
	return out
}

// =============================================================================
// LIFECYCLE TESTS
// =============================================================================

func TestApply_StartOpensTurn(t *testing.T) {
	s, effects := Apply(State{}, chunk(realtime.ChunkStart, "m1", ""), t0)

	if len(effects) != 0 {
		t.Errorf("start produced %d effects, want 0", len(effects))
	}
	if s.Phase != PhaseStarted {
		t.Errorf("Phase = %v, want started", s.Phase)
	}
	if !s.Turn.IsStreaming || s.Turn.ID != "m1" {
		t.Errorf("Turn = %+v, want streaming m1", s.Turn)
	}
}

func TestApply_ContentReplaceSemantics(t *testing.T) {
	s, _ := Apply(State{}, chunk(realtime.ChunkStart, "m1", ""), t0)
	s, _ = Apply(s, chunk(realtime.ChunkData, "m1", "The"), t0)
	s, _ = Apply(s, chunk(realtime.ChunkData, "m1", "The moon is"), t0)
	s, _ = Apply(s, chunk(realtime.ChunkData, "m1", "The moon is not cheese."), t0)

	if s.Phase != PhaseAccumulating {
		t.Errorf("Phase = %v, want accumulating", s.Phase)
	}
	// Latest value is ground truth, not a concatenation.
	if s.Turn.Content != "The moon is not cheese." {
		t.Errorf("Content = %q, want the last chunk's full content", s.Turn.Content)
	}
}

func TestApply_DuplicateChunkIsIdempotent(t *testing.T) {
	s, _ := Apply(State{}, chunk(realtime.ChunkStart, "m1", ""), t0)
	s, _ = Apply(s, chunk(realtime.ChunkData, "m1", "partial text"), t0)
	before := s

	s, effects := Apply(s, chunk(realtime.ChunkData, "m1", "partial text"), t0)

	if len(effects) != 0 {
		t.Errorf("duplicate chunk produced %d effects, want 0", len(effects))
	}
	if s.Turn.Content != before.Turn.Content || s.Phase != before.Phase {
		t.Errorf("state changed on duplicate chunk: %+v vs %+v", s, before)
	}
}

func TestApply_EndFinalizes(t *testing.T) {
	fc := &model.FactCheckResult{
		Claim:      "The moon is made of cheese",
		Verdict:    model.VerdictFalse,
		Confidence: 0.98,
	}

	s, _ := Apply(State{}, chunk(realtime.ChunkStart, "m1", ""), t0)
	s, _ = Apply(s, chunk(realtime.ChunkData, "m1", "No, the moon is rock."), t0)

	end := chunk(realtime.ChunkEnd, "m1", "No, the moon is rock.")
	end.FactCheckResult = fc
	s, effects := Apply(s, end, t0)

	appends := appendsOf(effects)
	if len(appends) != 1 {
		t.Fatalf("end produced %d appends, want 1", len(appends))
	}
	final := appends[0]
	if final.IsStreaming {
		t.Error("finalized turn must not be streaming")
	}
	if final.Content != "No, the moon is rock." {
		t.Errorf("Content = %q", final.Content)
	}
	if final.FactCheckResult == nil || final.FactCheckResult.Verdict != model.VerdictFalse {
		t.Errorf("FactCheckResult = %+v, want verdict false", final.FactCheckResult)
	}
	if s.Streaming() {
		t.Error("state should return to idle after finalization")
	}
}

func TestApply_EndWithEmptyContentKeepsAccumulated(t *testing.T) {
	s, _ := Apply(State{}, chunk(realtime.ChunkStart, "m1", ""), t0)
	s, _ = Apply(s, chunk(realtime.ChunkData, "m1", "full answer"), t0)
	_, effects := Apply(s, chunk(realtime.ChunkEnd, "m1", ""), t0)

	appends := appendsOf(effects)
	if len(appends) != 1 || appends[0].Content != "full answer" {
		t.Errorf("appends = %+v, want accumulated content preserved", appends)
	}
}

func TestApply_BareEndFinalizesDirectly(t *testing.T) {
	// Row-insert delivery: a single terminal chunk with full content.
	_, effects := Apply(State{}, chunk(realtime.ChunkEnd, "m1", "complete reply"), t0)

	appends := appendsOf(effects)
	if len(appends) != 1 {
		t.Fatalf("appends = %d, want 1", len(appends))
	}
	if appends[0].Content != "complete reply" || appends[0].IsStreaming {
		t.Errorf("turn = %+v", appends[0])
	}
}

func TestApply_DataChunkOpensTurnWhenIdle(t *testing.T) {
	s, effects := Apply(State{}, chunk(realtime.ChunkData, "m1", "joined late"), t0)

	if len(effects) != 0 {
		t.Errorf("effects = %v, want none", effects)
	}
	if s.Phase != PhaseAccumulating || s.Turn.Content != "joined late" {
		t.Errorf("state = %+v", s)
	}
}

// =============================================================================
// ISOLATION AND ABANDONMENT TESTS
// =============================================================================

func TestApply_NewMessageIDAbandonsPartial(t *testing.T) {
	s, _ := Apply(State{}, chunk(realtime.ChunkStart, "m1", ""), t0)
	s, _ = Apply(s, chunk(realtime.ChunkData, "m1", "half-finished"), t0)

	s, effects := Apply(s, chunk(realtime.ChunkStart, "m2", ""), t0)

	if len(appendsOf(effects)) != 0 {
		t.Error("abandoned partial must never be appended")
	}
	var discarded bool
	for _, e := range effects {
		if e.Kind == EffectDiscardPartial && e.Turn.ID == "m1" {
			discarded = true
		}
	}
	if !discarded {
		t.Error("expected a discard effect for the abandoned turn")
	}
	if s.Turn.ID != "m2" || s.Phase != PhaseStarted {
		t.Errorf("state = %+v, want fresh turn for m2", s)
	}
}

func TestReset_DiscardsPartial(t *testing.T) {
	s, _ := Apply(State{}, chunk(realtime.ChunkData, "m1", "in flight"), t0)

	s, effects := Reset(s)

	if s.Streaming() {
		t.Error("Reset should return to idle")
	}
	if len(effects) != 1 || effects[0].Kind != EffectDiscardPartial {
		t.Errorf("effects = %+v, want one discard", effects)
	}
	if len(appendsOf(effects)) != 0 {
		t.Error("Reset must not append the partial")
	}
}

func TestReset_IdleIsNoop(t *testing.T) {
	s, effects := Reset(State{})
	if s.Streaming() || len(effects) != 0 {
		t.Errorf("idle Reset: state=%+v effects=%v", s, effects)
	}
}

// =============================================================================
// IDLE TIMEOUT TESTS
// =============================================================================

func TestSweepIdle_TimesOutStalledStream(t *testing.T) {
	s, _ := Apply(State{}, chunk(realtime.ChunkData, "m1", "stalled"), t0)

	s, effects := SweepIdle(s, t0.Add(3*time.Minute), 2*time.Minute)

	if s.Streaming() {
		t.Error("timed-out stream should reset to idle")
	}
	appends := appendsOf(effects)
	if len(appends) != 1 {
		t.Fatalf("appends = %d, want one synthetic failure turn", len(appends))
	}
	if appends[0].Content != model.ErrorTurnContent {
		t.Errorf("Content = %q, want the fixed failure text", appends[0].Content)
	}
	if appends[0].SessionID != "s1" {
		t.Errorf("SessionID = %q, want s1", appends[0].SessionID)
	}
}

func TestSweepIdle_FreshStreamSurvives(t *testing.T) {
	s, _ := Apply(State{}, chunk(realtime.ChunkData, "m1", "live"), t0)

	s, effects := SweepIdle(s, t0.Add(30*time.Second), 2*time.Minute)

	if !s.Streaming() || len(effects) != 0 {
		t.Errorf("fresh stream swept: state=%+v effects=%v", s, effects)
	}
}

func TestSweepIdle_ChunkRefreshesDeadline(t *testing.T) {
	s, _ := Apply(State{}, chunk(realtime.ChunkData, "m1", "a"), t0)
	s, _ = Apply(s, chunk(realtime.ChunkData, "m1", "ab"), t0.Add(100*time.Second))

	s, effects := SweepIdle(s, t0.Add(3*time.Minute), 2*time.Minute)

	if !s.Streaming() || len(effects) != 0 {
		t.Error("a recent chunk should keep the stream alive")
	}
}
