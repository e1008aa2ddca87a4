package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/charmbracelet/lipgloss"
	"github.com/handiism/destreamer/internal/auth"
	"github.com/handiism/destreamer/internal/config"
	"github.com/handiism/destreamer/internal/download"
	"github.com/handiism/destreamer/internal/model"
	"github.com/handiism/destreamer/internal/platform"
)

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#FF6B6B"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF5555"))
	warningStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#FFB86C"))
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#50FA7B"))
	verboseStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#6272A4"))
	labelStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#F1FA8C"))
	valueStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#50FA7B"))
)

// listFlag collects a repeatable, comma separated flag.
type listFlag []string

func (l *listFlag) String() string { return strings.Join(*l, ",") }

func (l *listFlag) Set(v string) error {
	*l = append(*l, download.ParseVideoURLs(v)...)
	return nil
}

func main() {
	os.Exit(int(run()))
}

func run() model.ExitCode {
	var (
		urlsFlag listFlag
		dirsFlag listFlag
	)
	flag.Var(&urlsFlag, "i", "Video URL(s) to download (comma separated, repeatable)")
	flag.Var(&dirsFlag, "o", "Output directory(ies), assigned to videos round-robin (comma separated)")
	var (
		urlFileFlag      = flag.String("f", "", "File with one video URL per line")
		loginFileFlag    = flag.String("x", "", "Login data file: email, then optionally username and password")
		configFlag       = flag.String("config", "", "Path to config file")
		simulateFlag     = flag.Bool("simulate", false, "Only print title, date and playback URL of each video")
		noCleanupFlag    = flag.Bool("no-cleanup", false, "Keep partial files on failure or interruption")
		noThumbnailsFlag = flag.Bool("no-thumbnails", false, "Do not draw video posters")
		verboseFlag      = flag.Bool("verbose", false, "Show verbose output")
		hideBrowserFlag  = flag.Bool("hide-browser", false, "Run the login browser headless")
		noDialogFlag     = flag.Bool("no-login-dialog", false, "Dismiss the \"stay signed in?\" prompt automatically")
		playlistFlag     = flag.Bool("playlist", false, "Create a playlist in each output directory")
	)
	flag.Parse()

	urls := append([]string(nil), urlsFlag...)
	for _, arg := range flag.Args() {
		urls = append(urls, download.ParseVideoURLs(arg)...)
	}
	if *urlFileFlag != "" {
		fromFile, err := download.ReadURLFile(*urlFileFlag)
		if err != nil {
			return fail(err)
		}
		urls = append(urls, fromFile...)
	}

	if len(urls) == 0 {
		fmt.Println("destreamer - download videos from a private streaming platform")
		fmt.Println()
		fmt.Println("Usage:")
		fmt.Println("  destreamer -i <URL>[,<URL>...] [-o <dir>[,<dir>...]] [options]")
		fmt.Println("  destreamer -f urls.txt [options]")
		fmt.Println()
		fmt.Println("For interactive mode, use: destreamer-tui")
		fmt.Println()
		flag.PrintDefaults()
		return model.CodeInvalidInputURLs
	}

	if err := platform.CheckElevation(platform.IsElevated()); err != nil {
		return fail(err)
	}

	settings := config.DefaultSettings()
	if *configFlag != "" {
		var err error
		settings, err = config.Load(*configFlag)
		if err != nil {
			return fail(fmt.Errorf("loading config: %w", err))
		}
	}
	settings.ApplyEnv()

	if *noCleanupFlag {
		settings.NoCleanup = true
	}
	if *noThumbnailsFlag {
		settings.NoThumbnails = true
	}
	if *hideBrowserFlag {
		settings.HideBrowser = true
	}
	if *noDialogFlag {
		settings.SuppressLoginDialog = true
	}
	if *playlistFlag {
		settings.CreatePlaylist = true
	}

	dirs := []string(dirsFlag)
	if len(dirs) == 0 {
		dirs = []string{settings.OutputDirectory}
	}

	var credentials []string
	if *loginFileFlag != "" {
		var err error
		credentials, err = auth.LoadCredentials(*loginFileFlag)
		if err != nil {
			return fail(err)
		}
	}

	runner, err := download.NewRunner(settings, credentials, os.Stdout, func(event download.ProgressEvent) {
		printEvent(event, *verboseFlag)
	})
	if err != nil {
		return fail(err)
	}
	defer runner.Close()
	runner.SetSimulate(*simulateFlag)

	if !*simulateFlag {
		if _, err := platform.CheckFFmpeg(runner.FFmpeg); err != nil {
			return fail(err)
		}
	}

	// The first signal cancels the run so the active job can clean up;
	// a second one exits immediately.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 2)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		fmt.Println("\nInterrupted, cleaning up...")
		cancel()
		<-sigCh
		os.Exit(int(model.CodeInterrupted))
	}()

	fmt.Println(titleStyle.Render("destreamer"))
	fmt.Println()

	if err := runner.Run(ctx, urls, dirs); err != nil {
		if errors.Is(err, model.ErrInterrupted) {
			fmt.Println("\nDownload cancelled.")
		}
		return fail(err)
	}

	if !*simulateFlag {
		fmt.Println()
		fmt.Println(successStyle.Render(fmt.Sprintf("Done! Downloaded %d video(s).", len(urls))))
	}
	return model.CodeNoError
}

func printEvent(event download.ProgressEvent, verbose bool) {
	if event.Video != nil {
		printVideo(event.Video)
		return
	}

	switch event.Level {
	case download.LevelVerbose:
		if verbose {
			fmt.Println(verboseStyle.Render(event.Message))
		}
	case download.LevelWarning:
		fmt.Println(warningStyle.Render(event.Message))
	case download.LevelError:
		fmt.Fprintln(os.Stderr, errorStyle.Render(event.Message))
	case download.LevelSuccess:
		fmt.Println(successStyle.Render(event.Message))
	default:
		fmt.Println(event.Message)
	}
}

func printVideo(v *model.Metadata) {
	fmt.Println()
	fmt.Println(labelStyle.Render("Title: ") + valueStyle.Render(v.Title))
	fmt.Println(labelStyle.Render("Published Date: ") + valueStyle.Render(v.Date))
	fmt.Println(labelStyle.Render("Playback URL: ") + valueStyle.Render(v.PlaybackURL))
}

func fail(err error) model.ExitCode {
	code := model.CodeOf(err)
	if code != model.CodeInterrupted {
		fmt.Fprintln(os.Stderr, errorStyle.Render(fmt.Sprintf("Error (%s): %v", code, err)))
	}
	return code
}
