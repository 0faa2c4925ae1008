package wikidata_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"mediaparse/internal/wikidata"
)

func TestNewRequiresUserAgent(t *testing.T) {
	if _, err := wikidata.New("", " ", "en"); err == nil {
		t.Fatal("expected error when user agent missing")
	}
}

func TestSearchEntitiesSendsParameters(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if q.Get("action") != "wbsearchentities" || q.Get("search") != "the witches 1990" {
			t.Errorf("unexpected query %q", r.URL.RawQuery)
		}
		if q.Get("type") != "item" || q.Get("limit") != "10" || q.Get("language") != "en" || q.Get("format") != "json" {
			t.Errorf("missing search parameters: %q", r.URL.RawQuery)
		}
		if got := r.Header.Get("User-Agent"); got != "MediaParser/1.0" {
			t.Errorf("unexpected user agent %q", got)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"search":[{"id":"Q1","label":"The Witches"},{"id":"Q2","label":"The Witches (novel)"}]}`))
	}))
	t.Cleanup(server.Close)

	client, err := wikidata.New(server.URL, "MediaParser/1.0", "en")
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	results, err := client.SearchEntities(context.Background(), "the witches 1990", 10)
	if err != nil {
		t.Fatalf("SearchEntities returned error: %v", err)
	}
	if len(results) != 2 || results[0].ID != "Q1" {
		t.Fatalf("unexpected results: %#v", results)
	}
}

func TestSearchEntitiesHTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	t.Cleanup(server.Close)

	client, err := wikidata.New(server.URL, "ua", "")
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	_, err = client.SearchEntities(context.Background(), "x", 0)
	var statusErr *wikidata.StatusError
	if !errors.As(err, &statusErr) {
		t.Fatalf("expected StatusError, got %v", err)
	}
	if !statusErr.Temporary() {
		t.Fatal("expected 429 to be temporary")
	}
}

func TestSearchEntitiesAPIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"error":{"code":"badvalue","info":"bad"}}`))
	}))
	t.Cleanup(server.Close)

	client, _ := wikidata.New(server.URL, "ua", "en")
	if _, err := client.SearchEntities(context.Background(), "x", 3); err == nil {
		t.Fatal("expected api error")
	}
}

func TestSearchEntitiesEmptyQuery(t *testing.T) {
	client, err := wikidata.New("", "ua", "")
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	if _, err := client.SearchEntities(context.Background(), "  ", 10); err == nil {
		t.Fatal("expected error for empty query")
	}
}

const entitiesPayload = `{
  "entities": {
    "Q1": {
      "id": "Q1",
      "labels": {"en": {"language": "en", "value": "The Witches"}},
      "claims": {
        "P31": [
          {"mainsnak": {"snaktype": "value", "property": "P31", "datavalue": {"type": "wikibase-entityid", "value": {"id": "Q11424"}}}},
          {"mainsnak": {"snaktype": "somevalue", "property": "P31"}}
        ],
        "P577": [{"mainsnak": {"snaktype": "value", "datavalue": {"type": "time", "value": {"time": "+1990-05-25T00:00:00Z"}}}}],
        "P345": [{"mainsnak": {"snaktype": "value", "datavalue": {"type": "string", "value": "tt0100944"}}}]
      }
    },
    "Q404": {"id": "Q404", "missing": ""}
  }
}`

func TestGetEntitiesBatchesAndParsesClaims(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if q.Get("action") != "wbgetentities" || q.Get("ids") != "Q1|Q404" {
			t.Errorf("unexpected query %q", r.URL.RawQuery)
		}
		if q.Get("props") != "claims|labels|descriptions" || q.Get("languages") != "en" {
			t.Errorf("unexpected props: %q", r.URL.RawQuery)
		}
		_, _ = w.Write([]byte(entitiesPayload))
	}))
	t.Cleanup(server.Close)

	client, _ := wikidata.New(server.URL, "ua", "en")
	entities, err := client.GetEntities(context.Background(), []string{"Q1", "Q404"})
	if err != nil {
		t.Fatalf("GetEntities returned error: %v", err)
	}
	if _, ok := entities["Q404"]; ok {
		t.Fatal("expected missing entity to be dropped")
	}
	entity, ok := entities["Q1"]
	if !ok {
		t.Fatal("expected Q1")
	}
	if entity.Label("en") != "The Witches" {
		t.Fatalf("unexpected label %q", entity.Label("en"))
	}
	if ids := entity.EntityIDs(wikidata.PropInstanceOf); len(ids) != 1 || ids[0] != "Q11424" {
		t.Fatalf("unexpected P31 ids %v", ids)
	}
	if entity.FirstYear(wikidata.PropPublication) != "1990" {
		t.Fatalf("unexpected year %q", entity.FirstYear(wikidata.PropPublication))
	}
	if entity.FirstYear(wikidata.PropInception) != "" {
		t.Fatal("expected no inception year")
	}
	if entity.FirstString(wikidata.PropIMDbID) != "tt0100944" {
		t.Fatalf("unexpected imdb id %q", entity.FirstString(wikidata.PropIMDbID))
	}
	if entity.FirstString(wikidata.PropSteamID) != "" {
		t.Fatal("expected no steam id")
	}
}

func TestGetEntitiesNoIDs(t *testing.T) {
	client, _ := wikidata.New("", "ua", "")
	entities, err := client.GetEntities(context.Background(), nil)
	if err != nil || len(entities) != 0 {
		t.Fatalf("expected empty result, got %v, %v", entities, err)
	}
}
