package storage

import (
	"errors"
	"reflect"
	"strings"
	"testing"

	"subledger/internal/core"
)

func sampleSubs() []core.Subscription {
	return []core.Subscription{
		{ID: "a", Name: "Netflix", Price: core.Money{Cents: 4590}, RenewalDate: core.NewDate(2026, 10, 22), Category: "Streaming", Icon: "Tv", Color: "bg-red-500"},
		{ID: "b", Name: "Gym", Price: core.Money{Cents: 3000}, RenewalDate: core.NewDate(2026, 11, 1), Category: "Streaming", Icon: "Tv", Color: "bg-gray-500"},
	}
}

func TestEncodeDecode_RoundTrip(t *testing.T) {
	data, err := EncodeSubscriptions(sampleSubs())
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	got, rejected, err := DecodeSubscriptions(data)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(rejected) != 0 {
		t.Fatalf("unexpected rejections: %+v", rejected)
	}
	if !reflect.DeepEqual(got, sampleSubs()) {
		t.Fatalf("round trip mismatch:\n got=%+v\nwant=%+v", got, sampleSubs())
	}
}

func TestDecode_EmptyPayloads(t *testing.T) {
	for _, payload := range []string{"", "  ", "null", "[]"} {
		subs, rejected, err := DecodeSubscriptions([]byte(payload))
		if err != nil || len(subs) != 0 || len(rejected) != 0 {
			t.Fatalf("payload %q: subs=%v rejected=%v err=%v", payload, subs, rejected, err)
		}
	}
}

func TestDecode_CorruptSlot(t *testing.T) {
	for _, payload := range []string{`{"id":"a"}`, `not json`, `"text"`} {
		if _, _, err := DecodeSubscriptions([]byte(payload)); !errors.Is(err, ErrCorruptSlot) {
			t.Fatalf("payload %q: expected ErrCorruptSlot, got %v", payload, err)
		}
	}
}

func TestDecode_DropsInvalidRecords(t *testing.T) {
	payload := `[
		{"id":"ok","name":"Netflix","price":45.9,"renewalDate":"2026-10-22","category":"Streaming","icon":"Tv","color":"bg-red-500"},
		{"id":"no-name","price":10,"renewalDate":"2026-10-22"},
		{"id":"neg","name":"X","price":-1,"renewalDate":"2026-10-22"},
		{"id":"bad-date","name":"X","price":1,"renewalDate":"22/10/2026"},
		{"id":"str-price","name":"X","price":"abc","renewalDate":"2026-10-22"},
		{"id":"ok","name":"Dup","price":1,"renewalDate":"2026-10-22"},
		42,
		{"id":"fallback","name":"Custom","price":"12.5","renewalDate":"2026-12-01","icon":"Rocket"},
		{"id":"huge","name":"X","price":1e19,"renewalDate":"2026-10-22"},
		{"id":"wraps","name":"X","price":5e17,"renewalDate":"2026-10-22"},
		{"id":"over-cap","name":"X","price":1000000.01,"renewalDate":"2026-10-22"},
		{"id":"at-cap","name":"X","price":1000000,"renewalDate":"2026-10-22"}
	]`

	subs, rejected, err := DecodeSubscriptions([]byte(payload))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(subs) != 3 {
		t.Fatalf("expected 3 valid records, got %+v", subs)
	}
	if subs[2].ID != "at-cap" || subs[2].Price.Cents != core.MaxPriceCents {
		t.Fatalf("price at the cap must load, got %+v", subs[2])
	}
	if subs[0].Price.Cents != 4590 {
		t.Fatalf("expected 4590 cents, got %d", subs[0].Price.Cents)
	}
	if subs[1].ID != "fallback" || subs[1].Icon != core.DefaultIcon || subs[1].Color != core.DefaultColor || subs[1].Price.Cents != 1250 {
		t.Fatalf("expected presentation fallbacks, got %+v", subs[1])
	}

	if len(rejected) != 9 {
		t.Fatalf("expected 9 rejections, got %+v", rejected)
	}
	for i, id := range []string{"huge", "wraps", "over-cap"} {
		r := rejected[6+i]
		if r.ID != id || !strings.HasPrefix(r.Reason, "invalid price") {
			t.Fatalf("expected %s rejected for its price, got %+v", id, r)
		}
	}
	if rejected[4].ID != "ok" || rejected[4].Reason != "duplicate id" {
		t.Fatalf("expected duplicate rejection, got %+v", rejected[4])
	}
	if rejected[5].Index != 6 {
		t.Fatalf("expected non-object at index 6, got %+v", rejected[5])
	}
}
