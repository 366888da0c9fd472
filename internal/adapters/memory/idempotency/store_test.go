package idempotency

import (
	"context"
	"testing"
	"time"

	"github.com/kunall-01/crowdspark-frontend/internal/ports/out/idempotency"
)

func TestStore_PutThenGet(t *testing.T) {
	t.Parallel()

	s := NewStore()
	fp := idempotency.Fingerprint{Key: "pay_1", Subject: "u1", Route: "POST /transactions"}
	rec := idempotency.Record{
		StatusCode: 201,
		Body:       []byte(`{"_id":"c1"}`),
		CreatedAt:  time.Unix(123, 0).UTC(),
	}

	if err := s.Put(context.Background(), fp, rec); err != nil {
		t.Fatalf("Put() err=%v", err)
	}

	got, ok, err := s.Get(context.Background(), fp)
	if err != nil {
		t.Fatalf("Get() err=%v", err)
	}
	if !ok {
		t.Fatalf("Get() ok=false, want true")
	}
	if got.StatusCode != rec.StatusCode || string(got.Body) != string(rec.Body) {
		t.Fatalf("Get()=%+v, want %+v", got, rec)
	}

	other := fp
	other.Subject = "u2"
	if _, ok, _ := s.Get(context.Background(), other); ok {
		t.Fatalf("Get() for another subject ok=true, want false")
	}
}

func TestStore_GetReturnsCopy(t *testing.T) {
	t.Parallel()

	s := NewStore()
	fp := idempotency.Fingerprint{Key: "pay_2", Subject: "u1", Route: "POST /transactions"}
	_ = s.Put(context.Background(), fp, idempotency.Record{StatusCode: 201, Body: []byte("abc")})

	got, _, _ := s.Get(context.Background(), fp)
	got.Body[0] = 'z'
	again, _, _ := s.Get(context.Background(), fp)
	if string(again.Body) != "abc" {
		t.Fatalf("Body=%q, want %q", again.Body, "abc")
	}
}
