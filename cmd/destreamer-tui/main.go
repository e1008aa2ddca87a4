package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/handiism/destreamer/internal/config"
	"github.com/handiism/destreamer/internal/model"
	"github.com/handiism/destreamer/internal/platform"
	"github.com/handiism/destreamer/internal/transcode"
	"github.com/handiism/destreamer/internal/tui"
)

func main() {
	configFlag := flag.String("config", "", "Path to config file")
	flag.Parse()

	if err := platform.CheckElevation(platform.IsElevated()); err != nil {
		exit(err)
	}

	settings := config.DefaultSettings()
	if *configFlag != "" {
		var err error
		if settings, err = config.Load(*configFlag); err != nil {
			exit(err)
		}
	}
	settings.ApplyEnv()

	if _, err := platform.CheckFFmpeg(transcode.NewFFmpeg(settings.FFmpegPath)); err != nil {
		exit(err)
	}

	if err := tui.Run(settings); err != nil {
		exit(err)
	}
}

func exit(err error) {
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	os.Exit(int(model.CodeOf(err)))
}
