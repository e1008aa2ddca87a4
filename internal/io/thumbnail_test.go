package ioutils

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"net/http"
	"strings"
	"testing"

	"github.com/muesli/termenv"
)

type fakeFetcher struct {
	data   []byte
	err    error
	header http.Header
}

func (f *fakeFetcher) Get(ctx context.Context, url string, header http.Header) ([]byte, error) {
	f.header = header
	return f.data, f.err
}

func testPNG(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x * 10), G: uint8(y * 10), B: 128, A: 255})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func TestThumbnailRenderer_Draw(t *testing.T) {
	fetcher := &fakeFetcher{data: testPNG(t, 20, 10)}
	var out bytes.Buffer

	r := NewThumbnailRenderer(fetcher, &out, 10).WithProfile(termenv.TrueColor)
	if err := r.Draw(context.Background(), "https://example.com/poster.png", "tok"); err != nil {
		t.Fatalf("Draw() error = %v", err)
	}

	if got := fetcher.header.Get("Authorization"); got != "Bearer tok" {
		t.Errorf("Authorization header = %q", got)
	}

	// 10 wide at ratio 0.5 gives 5 pixel rows, rendered on 3 text lines.
	lines := strings.Split(strings.TrimRight(out.String(), "\n"), "\n")
	if len(lines) != 3 {
		t.Errorf("rendered %d lines, want 3", len(lines))
	}
	if !strings.Contains(out.String(), "▀") {
		t.Error("output should contain half block characters")
	}
}

func TestThumbnailRenderer_NoColor(t *testing.T) {
	var out bytes.Buffer
	r := NewThumbnailRenderer(&fakeFetcher{}, &out, 10).WithProfile(termenv.Ascii)

	err := r.Draw(context.Background(), "https://example.com/poster.png", "tok")
	if !errors.Is(err, ErrNoColorSupport) {
		t.Errorf("Draw() error = %v, want ErrNoColorSupport", err)
	}
	if out.Len() != 0 {
		t.Error("nothing should be written without color support")
	}
}

func TestThumbnailRenderer_FetchError(t *testing.T) {
	var out bytes.Buffer
	r := NewThumbnailRenderer(&fakeFetcher{err: errors.New("403")}, &out, 10).WithProfile(termenv.ANSI256)

	if err := r.Draw(context.Background(), "https://example.com/poster.png", "tok"); err == nil {
		t.Error("expected error")
	}
}
