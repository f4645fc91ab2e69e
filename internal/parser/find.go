package parser

import (
	"errors"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"

	"git.lost.host/meutraa/chartscope/internal/game"
)

var ErrNoChart = errors.New("unable to find .sm file in given directory")

// Find walks a song directory for its chart and any audio file.
func Find(dir string) (chartFile string, audioFile string, err error) {
	if err := filepath.Walk(dir, func(p string, info os.FileInfo, err error) error {
		if nil != err {
			return err
		}
		switch strings.ToLower(path.Ext(info.Name())) {
		case ".ogg", ".mp3", ".wav":
			audioFile = p
		case ".sm":
			chartFile = p
		}
		return nil
	}); nil != err {
		return "", "", fmt.Errorf("unable to walk song directory: %w", err)
	}

	if chartFile == "" {
		return "", "", ErrNoChart
	}
	return chartFile, audioFile, nil
}

// MusicFile prefers the file named by #MUSIC when it exists next to the
// chart, falling back to whatever Find turned up.
func MusicFile(chartFile string, song *game.Song, found string) string {
	if song.Music != "" {
		p := filepath.Join(filepath.Dir(chartFile), song.Music)
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return found
}
