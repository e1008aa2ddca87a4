package http

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestClient_GetJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer tok" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		if r.Header.Get("User-Agent") != "destreamer" {
			t.Errorf("User-Agent = %q", r.Header.Get("User-Agent"))
		}
		w.Write([]byte(`{"name":"Lecture"}`))
	}))
	defer srv.Close()

	client := NewClient(5 * time.Second)

	var got struct {
		Name string `json:"name"`
	}
	if err := client.GetJSON(context.Background(), srv.URL, BearerHeader("tok"), &got); err != nil {
		t.Fatalf("GetJSON() error = %v", err)
	}
	if got.Name != "Lecture" {
		t.Errorf("Name = %q", got.Name)
	}
}

func TestClient_StatusError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	client := NewClient(5 * time.Second)
	_, err := client.Get(context.Background(), srv.URL, nil)

	var se *StatusError
	if !errors.As(err, &se) {
		t.Fatalf("error = %v, want *StatusError", err)
	}
	if !se.Unauthorized() {
		t.Error("Unauthorized() should be true for 401")
	}
}

func TestClient_MalformedJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"name":`))
	}))
	defer srv.Close()

	var v map[string]any
	if err := NewClient(5*time.Second).GetJSON(context.Background(), srv.URL, nil, &v); err == nil {
		t.Error("expected decode error")
	}
}
