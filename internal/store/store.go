package store

import (
	"time"

	"git.lost.host/meutraa/chartscope/internal/game"
	"git.lost.host/meutraa/chartscope/internal/timing"
)

type Store interface {
	Init(path string) error
	Deinit()

	// Save indexes a chart, replacing any earlier entry for it
	Save(song *game.Song, chart *game.Chart, length time.Duration) error

	// Load an indexed chart by its hash, with its timing rebuilt
	Load(sum string) (*Entry, error)

	List() ([]Entry, error)
}

type Entry struct {
	Sum        string
	Title      string
	Artist     string
	Difficulty string
	Meter      int
	NoteCount  int64
	MinBPM     float64
	MaxBPM     float64
	Length     time.Duration // Audio length, or the last note when there is no audio
	Timing     *timing.Data  // Only set by Load
}
