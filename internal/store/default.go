package store

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"git.lost.host/meutraa/chartscope/internal/game"
	"git.lost.host/meutraa/chartscope/internal/log"
	"git.lost.host/meutraa/chartscope/internal/timing"
	_ "github.com/mattn/go-sqlite3"
)

var ErrNotFound = errors.New("chart not indexed")

type DefaultStore struct {
	Logger *log.Logger

	db *sql.DB
}

// EventsCompact holds every event of one kind.
type EventsCompact struct {
	Kind   timing.Kind
	Rows   []int
	Values []float64
}

func compactEvents(events []*timing.Event) []EventsCompact {
	kindCount := 0
	for _, e := range events {
		if int(e.Kind) >= kindCount {
			kindCount = int(e.Kind) + 1
		}
	}
	evs := make([]EventsCompact, kindCount)
	for i := range evs {
		evs[i].Kind = timing.Kind(i)
	}
	for _, e := range events {
		evs[e.Kind].Rows = append(evs[e.Kind].Rows, e.Row)
		evs[e.Kind].Values = append(evs[e.Kind].Values, e.Value)
	}
	return evs
}

func uncompactEvents(offset float64, events []EventsCompact) (*timing.Data, error) {
	td := timing.NewData(offset)
	for _, ec := range events {
		if len(ec.Rows) != len(ec.Values) {
			return nil, fmt.Errorf("%v: %v rows for %v values", ec.Kind, len(ec.Rows), len(ec.Values))
		}
		for i, row := range ec.Rows {
			var err error
			switch ec.Kind {
			case timing.Tempo:
				_, err = td.AddTempo(row, ec.Values[i])
			case timing.Stop:
				_, err = td.AddStop(row, ec.Values[i])
			case timing.Delay:
				_, err = td.AddDelay(row, ec.Values[i])
			case timing.Warp:
				_, err = td.AddWarp(row, ec.Values[i])
			case timing.Scroll:
				_, err = td.AddScroll(row, ec.Values[i])
			default:
				err = fmt.Errorf("unknown event kind %v", ec.Kind)
			}
			if nil != err {
				return nil, err
			}
		}
	}
	return td, nil
}

func (s *DefaultStore) Init(path string) error {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return err
	}

	initStatement := `
	create table if not exists charts
	  (
		  id integer not null primary key,
		  sum text not null unique,
		  title text,
		  artist text,
		  difficulty text,
		  meter integer,
		  notes integer,
		  min_bpm real,
		  max_bpm real,
		  length integer,
		  chart_offset real,
		  timing blob
	  );
	`
	if _, err = db.Exec(initStatement); nil != err {
		db.Close()
		return fmt.Errorf("unable to create charts table: %w", err)
	}

	s.db = db
	return nil
}

func (s *DefaultStore) Deinit() {
	if nil != s.db {
		s.db.Close()
		s.db = nil
	}
}

func (s *DefaultStore) Save(song *game.Song, c *game.Chart, length time.Duration) error {
	data, err := json.Marshal(compactEvents(c.Timing.Events()))
	if nil != err {
		return fmt.Errorf("unable to marshal timing: %w", err)
	}
	low, high := c.Timing.BPMRange()
	sum := c.Hash()
	_, err = s.db.Exec(`insert or replace into charts
		(sum, title, artist, difficulty, meter, notes, min_bpm, max_bpm, length, chart_offset, timing)
		values(?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		sum, song.Title, song.Artist, c.Difficulty.Name, c.Difficulty.Meter, c.NoteCount,
		low, high, int64(length), c.Timing.Offset, data)
	if nil != err {
		return fmt.Errorf("unable to save chart: %w", err)
	}
	s.Logger.Debug("saved chart", "sum", sum, "title", song.Title, "difficulty", c.Difficulty.Name)
	return nil
}

func (s *DefaultStore) Load(sum string) (*Entry, error) {
	var e Entry
	var length int64
	var offset float64
	var data []byte
	err := s.db.QueryRow(`select sum, title, artist, difficulty, meter, notes, min_bpm, max_bpm, length, chart_offset, timing
		from charts where sum = ?`, sum).
		Scan(&e.Sum, &e.Title, &e.Artist, &e.Difficulty, &e.Meter, &e.NoteCount, &e.MinBPM, &e.MaxBPM, &length, &offset, &data)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w: %v", ErrNotFound, sum)
	} else if nil != err {
		return nil, fmt.Errorf("unable to load chart: %w", err)
	}
	e.Length = time.Duration(length)

	var evs []EventsCompact
	if err := json.Unmarshal(data, &evs); nil != err {
		return nil, fmt.Errorf("unable to unmarshal timing: %w", err)
	}
	if e.Timing, err = uncompactEvents(offset, evs); nil != err {
		return nil, fmt.Errorf("unable to rebuild timing: %w", err)
	}
	return &e, nil
}

func (s *DefaultStore) List() ([]Entry, error) {
	entries := []Entry{}
	rows, err := s.db.Query(`select sum, title, artist, difficulty, meter, notes, min_bpm, max_bpm, length
		from charts order by title, meter`)
	if nil != err {
		return nil, fmt.Errorf("unable to list charts: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var e Entry
		var length int64
		if err := rows.Scan(&e.Sum, &e.Title, &e.Artist, &e.Difficulty, &e.Meter, &e.NoteCount, &e.MinBPM, &e.MaxBPM, &length); nil != err {
			s.Logger.Warn("unable to scan chart", "error", err)
			continue
		}
		e.Length = time.Duration(length)
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
