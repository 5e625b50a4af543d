package queue

import (
	"encoding/json"
	"testing"
	"time"
)

func TestEnvelopeRoundTrip(t *testing.T) {
	env := Envelope{
		Queue:      QueueRaw,
		EnqueuedAt: time.Date(2024, 1, 3, 10, 0, 0, 0, time.UTC),
		Payload:    json.RawMessage(`{"source":"news_api_org"}`),
	}

	data, err := json.Marshal(env)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	var got Envelope
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if got.Queue != QueueRaw {
		t.Fatalf("Queue = %q, want %q", got.Queue, QueueRaw)
	}

	var payload map[string]any
	if err := json.Unmarshal(got.Payload, &payload); err != nil {
		t.Fatalf("payload unmarshal: %v", err)
	}
	if payload["source"] != "news_api_org" {
		t.Fatalf("payload source = %v", payload["source"])
	}
}

func TestQueueNamesStable(t *testing.T) {
	// 队列名是与下游消费者的约定，不可改动
	if QueueRaw != "data.raw" || QueueValidation != "data.validation" || QueueBreaking != "data.breaking" {
		t.Fatalf("queue names changed: %q %q %q", QueueRaw, QueueValidation, QueueBreaking)
	}
}
