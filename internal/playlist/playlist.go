package playlist

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"math"
	"path/filepath"
	"strings"

	ioutils "github.com/handiism/destreamer/internal/io"
)

// Format is a playlist file format.
type Format int

const (
	// FormatM3U writes .m3u files, optionally with #EXTINF lines.
	FormatM3U Format = iota
	// FormatPLS writes INI-style .pls files.
	FormatPLS
	// FormatWPL writes Windows Media Player .wpl files.
	FormatWPL
)

// ParseFormat maps a settings value ("m3u", "pls", "wpl") to a Format.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "m3u":
		return FormatM3U, nil
	case "pls":
		return FormatPLS, nil
	case "wpl":
		return FormatWPL, nil
	default:
		return 0, fmt.Errorf("unknown playlist format %q", s)
	}
}

// Ext returns the file extension without the dot.
func (f Format) Ext() string {
	switch f {
	case FormatPLS:
		return "pls"
	case FormatWPL:
		return "wpl"
	default:
		return "m3u"
	}
}

// Entry is one downloaded video.
type Entry struct {
	Path  string
	Title string

	// Minutes is the media duration in fractional minutes.
	Minutes float64
}

func (e Entry) seconds() int {
	return int(math.Round(e.Minutes * 60))
}

// Writer renders and stores playlists. Entry paths are written relative
// to the playlist, which lives in the same directory as the videos.
type Writer struct {
	format   Format
	extended bool
}

// NewWriter creates a Writer. extended only affects M3U output.
func NewWriter(format Format, extended bool) *Writer {
	return &Writer{format: format, extended: extended}
}

// Render returns the playlist content.
func (w *Writer) Render(name string, entries []Entry) string {
	switch w.format {
	case FormatPLS:
		return renderPLS(entries)
	case FormatWPL:
		return renderWPL(name, entries)
	default:
		return w.renderM3U(entries)
	}
}

// Write stores the playlist as dir/name.ext and returns its path.
func (w *Writer) Write(dir, name string, entries []Entry) (string, error) {
	path := filepath.Join(dir, ioutils.SanitizeFileName(name)+"."+w.format.Ext())
	if err := ioutils.WriteFileAtomic(path, []byte(w.Render(name, entries)), 0644); err != nil {
		return "", fmt.Errorf("write playlist: %w", err)
	}
	return path, nil
}

func (w *Writer) renderM3U(entries []Entry) string {
	var sb strings.Builder
	if w.extended {
		sb.WriteString("#EXTM3U\n")
	}
	for _, e := range entries {
		if w.extended {
			fmt.Fprintf(&sb, "#EXTINF:%d,%s\n", e.seconds(), e.Title)
		}
		sb.WriteString(filepath.Base(e.Path))
		sb.WriteString("\n")
	}
	return sb.String()
}

func renderPLS(entries []Entry) string {
	var sb strings.Builder
	sb.WriteString("[playlist]\n")
	for i, e := range entries {
		n := i + 1
		fmt.Fprintf(&sb, "File%d=%s\n", n, filepath.Base(e.Path))
		fmt.Fprintf(&sb, "Title%d=%s\n", n, e.Title)
		fmt.Fprintf(&sb, "Length%d=%d\n", n, e.seconds())
	}
	fmt.Fprintf(&sb, "NumberOfEntries=%d\n", len(entries))
	sb.WriteString("Version=2\n")
	return sb.String()
}

func renderWPL(name string, entries []Entry) string {
	var sb strings.Builder
	sb.WriteString("<?wpl version=\"1.0\"?>\n<smil>\n  <head>\n")
	fmt.Fprintf(&sb, "    <title>%s</title>\n", escape(name))
	fmt.Fprintf(&sb, "    <meta name=\"ItemCount\" content=\"%d\"/>\n", len(entries))
	sb.WriteString("  </head>\n  <body>\n    <seq>\n")
	for _, e := range entries {
		fmt.Fprintf(&sb, "      <media src=\"%s\"/>\n", escape(filepath.Base(e.Path)))
	}
	sb.WriteString("    </seq>\n  </body>\n</smil>\n")
	return sb.String()
}

func escape(s string) string {
	var b bytes.Buffer
	xml.EscapeText(&b, []byte(s))
	return b.String()
}
