package services_test

import (
	"errors"
	"strings"
	"testing"

	"mediaparse/internal/services"
)

func TestWrapIncludesContext(t *testing.T) {
	base := errors.New("boom")
	err := services.Wrap(services.ErrExternal, "enrichment", "search", "failed", base)
	if err == nil {
		t.Fatal("expected error")
	}
	if !errors.Is(err, services.ErrExternal) {
		t.Fatalf("expected marker to be retained, got %v", err)
	}
	if !errors.Is(err, base) {
		t.Fatalf("expected wrapped error to contain base error, got %v", err)
	}
	msg := err.Error()
	for _, fragment := range []string{"enrichment", "search", "failed"} {
		if !strings.Contains(msg, fragment) {
			t.Fatalf("expected %q in error string %q", fragment, msg)
		}
	}
}

func TestWrapDefaultsMarker(t *testing.T) {
	err := services.Wrap(nil, "", "", "", nil)
	if !errors.Is(err, services.ErrTransient) {
		t.Fatalf("expected transient marker, got %v", err)
	}
	if !strings.Contains(err.Error(), "service failure") {
		t.Fatalf("expected fallback detail, got %q", err.Error())
	}
}

func TestIsFatal(t *testing.T) {
	validationErr := services.Wrap(services.ErrValidation, "parser", "decode", "missing tweets", nil)
	if !services.IsFatal(validationErr) {
		t.Fatal("expected validation error to be fatal")
	}
	configErr := services.Wrap(services.ErrConfiguration, "config", "regex", "bad pattern", nil)
	if !services.IsFatal(configErr) {
		t.Fatal("expected configuration error to be fatal")
	}
	transientErr := services.Wrap(services.ErrTransient, "enrichment", "search", "timeout", errors.New("io"))
	if services.IsFatal(transientErr) {
		t.Fatal("expected transient error to be non-fatal")
	}
	if services.IsFatal(nil) {
		t.Fatal("expected nil error to be non-fatal")
	}
}

func TestStageOf(t *testing.T) {
	inner := services.Wrap(services.ErrExternal, "wikidata", "search", "status 503", nil)
	outer := services.Wrap(services.ErrTransient, "enrichment", "search", "retries exhausted", inner)
	if stage, ok := services.StageOf(outer); !ok || stage != "enrichment" {
		t.Fatalf("StageOf = %q, %v", stage, ok)
	}
	if !errors.Is(outer, services.ErrExternal) {
		t.Fatal("expected inner marker to remain reachable")
	}
	if _, ok := services.StageOf(errors.New("plain")); ok {
		t.Fatal("expected no stage for unclassified error")
	}
}
