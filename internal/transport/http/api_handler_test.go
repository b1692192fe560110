package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"space-adventure-service/internal/studio"
)

type stubGenerator struct{}

func (stubGenerator) GenerateImage(context.Context, string) (string, error) {
	return studio.DataURL("image/png", []byte("png")), nil
}

func doJSON(t *testing.T, method, url string, body any, out any) int {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode: %v", err)
		}
	}
	req, err := http.NewRequest(method, url, &buf)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, url, err)
	}
	defer resp.Body.Close()
	if out != nil && resp.StatusCode != http.StatusNoContent {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			t.Fatalf("decode: %v", err)
		}
	}
	return resp.StatusCode
}

func TestHealthAndMenu(t *testing.T) {
	srv := newTestServer(t, nil)

	var health healthPayload
	if code := doJSON(t, http.MethodGet, srv.URL+"/healthz", nil, &health); code != http.StatusOK || health.Status != "ok" {
		t.Fatalf("healthz: %d %+v", code, health)
	}
	if health.Sessions != 0 || health.Workshops != 0 {
		t.Fatalf("fresh server should report no activity, got %+v", health)
	}
	var view map[string]any
	doJSON(t, http.MethodPost, srv.URL+"/api/workshops", map[string]any{"kind": "coloring"}, &view)
	doJSON(t, http.MethodGet, srv.URL+"/healthz", nil, &health)
	if health.Workshops != 1 {
		t.Fatalf("expected one open workshop, got %+v", health)
	}

	var menu []map[string]any
	if code := doJSON(t, http.MethodGet, srv.URL+"/api/menu", nil, &menu); code != http.StatusOK {
		t.Fatalf("menu status %d", code)
	}
	if len(menu) != 12 {
		t.Fatalf("expected 12 menu entries, got %d", len(menu))
	}
}

func TestCharactersEndpoints(t *testing.T) {
	srv := newTestServer(t, nil)

	var list []map[string]any
	if code := doJSON(t, http.MethodGet, srv.URL+"/api/characters", nil, &list); code != http.StatusOK || len(list) != 0 {
		t.Fatalf("expected empty gallery, got %d %v", code, list)
	}

	var bad map[string]any
	if code := doJSON(t, http.MethodPost, srv.URL+"/api/characters", map[string]any{"name": "Zap"}, &bad); code != http.StatusBadRequest {
		t.Fatalf("character without image should be rejected, got %d", code)
	}

	var created map[string]any
	code := doJSON(t, http.MethodPost, srv.URL+"/api/characters", map[string]any{
		"description": "yeşil uzaylı",
		"imageUrl":    "data:image/png;base64,AA==",
		"type":        "alien",
	}, &created)
	if code != http.StatusCreated {
		t.Fatalf("create status %d", code)
	}
	if created["name"] != "Uzay Dostu" || created["id"] == "" {
		t.Fatalf("expected defaults filled in, got %v", created)
	}

	if code := doJSON(t, http.MethodGet, srv.URL+"/api/characters", nil, &list); code != http.StatusOK || len(list) != 1 {
		t.Fatalf("expected one character, got %d %v", code, list)
	}
}

func TestCharacterWorkshopOverHTTP(t *testing.T) {
	srv := newTestServer(t, stubGenerator{})

	var view map[string]any
	if code := doJSON(t, http.MethodPost, srv.URL+"/api/workshops", map[string]any{"kind": "character"}, &view); code != http.StatusCreated {
		t.Fatalf("open status %d", code)
	}
	id := view["id"].(string)
	base := srv.URL + "/api/workshops/" + id

	if code := doJSON(t, http.MethodPost, base+"/save", nil, &view); code != http.StatusConflict {
		t.Fatalf("save before drawing should conflict, got %d", code)
	}
	if code := doJSON(t, http.MethodPost, base+"/input", map[string]any{"text": "mor antenli robot"}, &view); code != http.StatusOK {
		t.Fatalf("input status %d", code)
	}
	if view["stage"] != "result" || view["image"] == "" {
		t.Fatalf("expected a drawn result, got %v", view)
	}
	if code := doJSON(t, http.MethodPost, base+"/save", nil, &view); code != http.StatusOK || view["stage"] != "saved" {
		t.Fatalf("save failed: %d %v", code, view)
	}

	var list []map[string]any
	doJSON(t, http.MethodGet, srv.URL+"/api/characters", nil, &list)
	if len(list) != 1 {
		t.Fatalf("saved character should be in the gallery, got %v", list)
	}

	if code := doJSON(t, http.MethodDelete, base, nil, nil); code != http.StatusNoContent {
		t.Fatalf("delete status %d", code)
	}
	if code := doJSON(t, http.MethodGet, base, nil, &view); code != http.StatusNotFound {
		t.Fatalf("expected 404 after delete, got %d", code)
	}
}

func TestWorkshopGenerationUnavailable(t *testing.T) {
	srv := newTestServer(t, nil)

	var view map[string]any
	doJSON(t, http.MethodPost, srv.URL+"/api/workshops", map[string]any{"kind": "character"}, &view)
	id := view["id"].(string)

	code := doJSON(t, http.MethodPost, srv.URL+"/api/workshops/"+id+"/input", map[string]any{"text": "robot"}, &view)
	if code != http.StatusBadGateway {
		t.Fatalf("expected 502, got %d", code)
	}
	if view["stage"] != "prompt" || view["error"] == "" {
		t.Fatalf("expected the prompt view with an error, got %v", view)
	}
}

func TestUnknownWorkshopKind(t *testing.T) {
	srv := newTestServer(t, nil)
	var out map[string]any
	if code := doJSON(t, http.MethodPost, srv.URL+"/api/workshops", map[string]any{"kind": "sculpture"}, &out); code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", code)
	}
}
