package nats

import (
	"encoding/json"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/sony/gobreaker/v2"

	"github.com/kirillkom/applicant-screener/internal/core/domain"
)

func TestEncodeEventPayload(t *testing.T) {
	scoredAt := time.Date(2026, 5, 4, 3, 2, 1, 0, time.UTC)
	msg, err := encodeEvent("candidates.scored", domain.CandidateScoredEvent{
		CandidateID: "c1",
		Email:       "jane@example.com",
		Score:       71.5,
		ScoredAt:    scoredAt,
	})
	if err != nil {
		t.Fatalf("encodeEvent() error = %v", err)
	}
	if msg.Subject != "candidates.scored" {
		t.Fatalf("unexpected subject %q", msg.Subject)
	}

	var payload map[string]any
	if err := json.Unmarshal(msg.Data, &payload); err != nil {
		t.Fatalf("payload is not JSON: %v", err)
	}
	if payload["candidate_id"] != "c1" || payload["email"] != "jane@example.com" || payload["score"] != 71.5 {
		t.Fatalf("unexpected payload %v", payload)
	}
	if payload["scored_at"] != "2026-05-04T03:02:01Z" {
		t.Fatalf("unexpected scored_at %v", payload["scored_at"])
	}
	if msg.Header.Get(nats.MsgIdHdr) != fmt.Sprintf("c1-%d", scoredAt.UnixNano()) {
		t.Fatalf("unexpected message id %q", msg.Header.Get(nats.MsgIdHdr))
	}
}

func TestClassifyNATSError(t *testing.T) {
	cases := []struct {
		name      string
		err       error
		retryable bool
	}{
		{name: "no servers", err: fmt.Errorf("nats publish: %w", nats.ErrNoServers), retryable: true},
		{name: "closed", err: nats.ErrConnectionClosed, retryable: true},
		{name: "open circuit", err: gobreaker.ErrOpenState, retryable: true},
		{name: "bad subject", err: nats.ErrBadSubject, retryable: false},
		{name: "other", err: errors.New("boom"), retryable: false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := classifyNATSError(tc.err).Retryable; got != tc.retryable {
				t.Fatalf("retryable = %v, want %v", got, tc.retryable)
			}
			wrapped := wrapTemporaryIfNeeded(tc.err)
			if domain.IsKind(wrapped, domain.ErrTemporary) != tc.retryable {
				t.Fatalf("temporary = %v, want %v", !tc.retryable, tc.retryable)
			}
		})
	}
}
