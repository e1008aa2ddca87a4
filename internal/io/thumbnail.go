package ioutils

import (
	"context"
	"errors"
	"fmt"
	"image"
	"image/color"
	"io"
	"net/http"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// ErrNoColorSupport is returned when the output cannot display colors.
var ErrNoColorSupport = errors.New("terminal has no color support")

// Fetcher downloads a resource with extra request headers.
type Fetcher interface {
	Get(ctx context.Context, url string, header http.Header) ([]byte, error)
}

// ThumbnailRenderer draws poster images inline in the terminal using
// upper half block characters, two image rows per text line.
type ThumbnailRenderer struct {
	fetcher Fetcher
	images  *ImageService
	out     io.Writer
	width   int
	profile termenv.Profile
}

// NewThumbnailRenderer creates a renderer writing to out. The color profile
// is detected from the environment.
func NewThumbnailRenderer(fetcher Fetcher, out io.Writer, width int) *ThumbnailRenderer {
	return &ThumbnailRenderer{
		fetcher: fetcher,
		images:  NewImageService(),
		out:     out,
		width:   width,
		profile: termenv.EnvColorProfile(),
	}
}

// WithProfile overrides the detected color profile.
func (r *ThumbnailRenderer) WithProfile(p termenv.Profile) *ThumbnailRenderer {
	r.profile = p
	return r
}

// Draw fetches the poster with the given bearer token and renders it.
func (r *ThumbnailRenderer) Draw(ctx context.Context, posterURL, accessToken string) error {
	if r.profile == termenv.Ascii {
		return ErrNoColorSupport
	}
	if posterURL == "" {
		return errors.New("no poster image")
	}

	data, err := r.fetcher.Get(ctx, posterURL, http.Header{
		"Authorization": []string{"Bearer " + accessToken},
	})
	if err != nil {
		return fmt.Errorf("fetch poster: %w", err)
	}

	img, err := r.images.Decode(ctx, data)
	if err != nil {
		return fmt.Errorf("decode poster: %w", err)
	}

	_, err = io.WriteString(r.out, r.render(img))
	return err
}

func (r *ThumbnailRenderer) render(img image.Image) string {
	scaled := r.images.FitWidth(img, r.width, 1.0)
	bounds := scaled.Bounds()

	renderer := lipgloss.NewRenderer(r.out)
	renderer.SetColorProfile(r.profile)

	var sb strings.Builder
	for y := bounds.Min.Y; y < bounds.Max.Y; y += 2 {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			style := renderer.NewStyle().Foreground(hexColor(scaled.At(x, y)))
			if y+1 < bounds.Max.Y {
				style = style.Background(hexColor(scaled.At(x, y+1)))
			}
			sb.WriteString(style.Render("▀"))
		}
		sb.WriteString("\n")
	}
	sb.WriteString("\n")

	return sb.String()
}

func hexColor(c color.Color) lipgloss.Color {
	r, g, b, _ := c.RGBA()
	return lipgloss.Color(fmt.Sprintf("#%02x%02x%02x", r>>8, g>>8, b>>8))
}
