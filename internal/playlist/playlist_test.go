package playlist

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func testEntries() []Entry {
	return []Entry{
		{Path: "/videos/Intro - 05-03-2021.mkv", Title: "Intro", Minutes: 1.5},
		{Path: "/videos/Q&A <live> - 06-03-2021.mkv", Title: "Q&A <live>", Minutes: 62.05},
	}
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    Format
		wantErr bool
	}{
		{"", FormatM3U, false},
		{"M3U", FormatM3U, false},
		{"pls", FormatPLS, false},
		{" wpl ", FormatWPL, false},
		{"zpl", 0, true},
	}
	for _, tt := range tests {
		got, err := ParseFormat(tt.in)
		if (err != nil) != tt.wantErr || (!tt.wantErr && got != tt.want) {
			t.Errorf("ParseFormat(%q) = %v, %v", tt.in, got, err)
		}
	}
}

func TestRenderM3U(t *testing.T) {
	plain := NewWriter(FormatM3U, false).Render("run", testEntries())
	if plain != "Intro - 05-03-2021.mkv\nQ&A <live> - 06-03-2021.mkv\n" {
		t.Errorf("plain M3U = %q", plain)
	}

	ext := NewWriter(FormatM3U, true).Render("run", testEntries())
	if !strings.HasPrefix(ext, "#EXTM3U\n") {
		t.Error("extended M3U should start with #EXTM3U")
	}
	if !strings.Contains(ext, "#EXTINF:90,Intro\n") || !strings.Contains(ext, "#EXTINF:3723,Q&A <live>\n") {
		t.Errorf("extended M3U = %q", ext)
	}
}

func TestRenderPLS(t *testing.T) {
	content := NewWriter(FormatPLS, false).Render("run", testEntries())

	for _, want := range []string{"[playlist]\n", "File1=Intro - 05-03-2021.mkv\n", "Length2=3723\n", "NumberOfEntries=2\n", "Version=2\n"} {
		if !strings.Contains(content, want) {
			t.Errorf("PLS missing %q in %q", want, content)
		}
	}
}

func TestRenderWPLEscapes(t *testing.T) {
	content := NewWriter(FormatWPL, false).Render("Lectures & Talks", testEntries())

	if !strings.HasPrefix(content, "<?wpl") {
		t.Error("WPL should start with <?wpl")
	}
	if !strings.Contains(content, "<title>Lectures &amp; Talks</title>") {
		t.Errorf("title not escaped: %q", content)
	}
	if !strings.Contains(content, `src="Q&amp;A &lt;live&gt; - 06-03-2021.mkv"`) {
		t.Errorf("media src not escaped: %q", content)
	}
}

func TestWrite(t *testing.T) {
	dir := t.TempDir()
	w := NewWriter(FormatPLS, false)

	path, err := w.Write(dir, "destreamer", testEntries())
	if err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	if path != filepath.Join(dir, "destreamer.pls") {
		t.Errorf("path = %q", path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != w.Render("destreamer", testEntries()) {
		t.Error("written content differs from Render()")
	}
}
