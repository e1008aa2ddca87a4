package stream

import (
	"context"
	"errors"
	"fmt"
	"math"
	"math/rand"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	dhttp "github.com/handiism/destreamer/internal/http"
	"github.com/handiism/destreamer/internal/model"
)

func TestDurationToUnits(t *testing.T) {
	tests := []struct {
		input string
		want  float64
	}{
		{"PT1M1S", 1 + 1.0/60},
		{"PT1M0.2S", 1 + 1.0/60},
		{"PT59.9S", 1},
		{"PT1H", 60},
		{"PT1H2M3S", 62 + 3.0/60},
		{"PT0S", 0},
		{"P1DT1M", 1441},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := DurationToUnits(tt.input)
			if err != nil {
				t.Fatalf("DurationToUnits(%q) error = %v", tt.input, err)
			}
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("DurationToUnits(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestDurationToUnits_RoundsSecondsUp(t *testing.T) {
	for s := 1; s < 60; s++ {
		iso := fmt.Sprintf("PT2M%d.4S", s-1)
		got, err := DurationToUnits(iso)
		if err != nil {
			t.Fatalf("DurationToUnits(%q) error = %v", iso, err)
		}
		want := 2 + float64(s)/60
		if math.Abs(got-want) > 1e-9 {
			t.Errorf("DurationToUnits(%q) = %v, want %v", iso, got, want)
		}
	}
}

func TestDurationToUnits_Invalid(t *testing.T) {
	for _, input := range []string{"", "1:02:03", "P1M"} {
		if _, err := DurationToUnits(input); err == nil {
			t.Errorf("DurationToUnits(%q) expected error", input)
		}
	}
}

func TestPublishedDateToString(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"2021-03-05T10:00:00Z", "05-03-2021"},
		{"2020-11-09T12:30:00.1234567Z", "09-11-2020"},
		{"2021-03-05T23:59:59", "05-03-2021"},
		{"2021-03-05T00:00:00.5", "05-03-2021"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := PublishedDateToString(tt.input)
			if err != nil {
				t.Fatalf("error = %v", err)
			}
			if got != tt.want {
				t.Errorf("PublishedDateToString(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}

	if _, err := PublishedDateToString("yesterday"); err == nil {
		t.Error("expected error for malformed date")
	}
}

func TestVideoGUIDs(t *testing.T) {
	got, err := VideoGUIDs([]string{
		"https://web.microsoftstream.com/video/aaaa-1111",
		"https://web.microsoftstream.com/video/bbbb-2222/",
		"https://web.microsoftstream.com/video/cccc-3333?list=user",
	})
	if err != nil {
		t.Fatalf("VideoGUIDs() error = %v", err)
	}
	if len(got) != 3 || got[0] != "aaaa-1111" || got[1] != "bbbb-2222" || got[2] != "cccc-3333" {
		t.Errorf("VideoGUIDs() = %v", got)
	}

	_, err = VideoGUIDs([]string{"not a url"})
	if model.CodeOf(err) != model.CodeInvalidVideoGUID {
		t.Errorf("CodeOf() = %v, want CodeInvalidVideoGUID", model.CodeOf(err))
	}
}

func videoJSON(id string) string {
	return fmt.Sprintf(`{
		"id": %q,
		"name": "Video %s",
		"publishedDate": "2021-03-05T10:00:00Z",
		"media": {"duration": "PT10M30.5S"},
		"posterImage": {"medium": {"url": "https://img.example.com/%s.jpg"}},
		"playbackUrls": [
			{"mimeType": "video/mp4", "playbackUrl": "https://cdn.example.com/%s.mp4"},
			{"mimeType": "application/vnd.apple.mpegurl", "playbackUrl": "https://cdn.example.com/%s.m3u8"},
			{"mimeType": "application/vnd.apple.mpegurl", "playbackUrl": "https://cdn.example.com/%s-2.m3u8"}
		]
	}`, id, id, id, id, id, id)
}

func newAPI(t *testing.T, handler func(id string, w http.ResponseWriter)) (*httptest.Server, model.Session) {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer tok" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		if r.URL.Query().Get("api-version") != "1.4-private" {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		handler(strings.TrimPrefix(r.URL.Path, "/api/videos/"), w)
	}))
	t.Cleanup(srv.Close)

	return srv, model.Session{
		AccessToken:       "tok",
		APIGatewayURI:     srv.URL + "/api/",
		APIGatewayVersion: "1.4-private",
		ExpiresAt:         time.Now().Add(time.Hour),
	}
}

func TestResolver_PreservesOrder(t *testing.T) {
	_, session := newAPI(t, func(id string, w http.ResponseWriter) {
		time.Sleep(time.Duration(rand.Intn(30)) * time.Millisecond)
		w.Write([]byte(videoJSON(id)))
	})

	ids := []string{"e", "a", "d", "b", "c", "f", "g"}
	resolver := NewResolver(dhttp.NewClient(5*time.Second), -1)

	var requested atomic.Int32
	resolver.OnRequest(func(string) { requested.Add(1) })

	videos, err := resolver.Resolve(context.Background(), ids, session)
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if len(videos) != len(ids) {
		t.Fatalf("got %d videos, want %d", len(videos), len(ids))
	}
	for i, id := range ids {
		if videos[i].ID != id || videos[i].Title != "Video "+id {
			t.Errorf("videos[%d] = %+v, want id %s", i, videos[i], id)
		}
	}
	if int(requested.Load()) != len(ids) {
		t.Errorf("issued %d requests, want %d", requested.Load(), len(ids))
	}

	v := videos[0]
	if v.PlaybackURL != "https://cdn.example.com/e.m3u8" {
		t.Errorf("PlaybackURL = %q, want first HLS variant", v.PlaybackURL)
	}
	if v.PosterImage != "https://img.example.com/e.jpg" {
		t.Errorf("PosterImage = %q", v.PosterImage)
	}
	if v.Date != "05-03-2021" {
		t.Errorf("Date = %q", v.Date)
	}
	if math.Abs(v.TotalUnits-(10+31.0/60)) > 1e-9 {
		t.Errorf("TotalUnits = %v", v.TotalUnits)
	}
}

func TestResolver_SurfacesItemFailures(t *testing.T) {
	_, session := newAPI(t, func(id string, w http.ResponseWriter) {
		switch id {
		case "nohls":
			w.Write([]byte(`{"name":"x","publishedDate":"2021-03-05T10:00:00Z","media":{"duration":"PT1M"},
				"playbackUrls":[{"mimeType":"video/mp4","playbackUrl":"https://cdn/x.mp4"}]}`))
		case "gone":
			w.WriteHeader(http.StatusNotFound)
		default:
			w.Write([]byte(videoJSON(id)))
		}
	})

	resolver := NewResolver(dhttp.NewClient(5*time.Second), 2)
	videos, err := resolver.Resolve(context.Background(), []string{"ok", "nohls", "gone"}, session)
	if err == nil {
		t.Fatal("expected error")
	}
	if videos != nil {
		t.Error("no partial result should be returned")
	}
	if model.CodeOf(err) != model.CodeMetadataResolution {
		t.Errorf("CodeOf() = %v", model.CodeOf(err))
	}
	if !errors.Is(err, ErrNoPlaybackURL) {
		t.Error("error should wrap ErrNoPlaybackURL")
	}

	var re *ResolveError
	if !errors.As(err, &re) {
		t.Fatal("error should contain a *ResolveError")
	}
	if !strings.Contains(err.Error(), "gone") || !strings.Contains(err.Error(), "nohls") {
		t.Errorf("error should name both failed videos: %v", err)
	}
}

func TestResolver_Unauthorized(t *testing.T) {
	_, session := newAPI(t, func(id string, w http.ResponseWriter) {
		w.Write([]byte(videoJSON(id)))
	})
	session.AccessToken = "expired"

	_, err := NewResolver(dhttp.NewClient(5*time.Second), -1).Resolve(context.Background(), []string{"a"}, session)

	var se *dhttp.StatusError
	if !errors.As(err, &se) || !se.Unauthorized() {
		t.Errorf("error = %v, want unauthorized *StatusError", err)
	}
}
