package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"text/tabwriter"
	"time"

	"git.lost.host/meutraa/chartscope/internal/audio"
	"git.lost.host/meutraa/chartscope/internal/config"
	"git.lost.host/meutraa/chartscope/internal/game"
	"git.lost.host/meutraa/chartscope/internal/log"
	"git.lost.host/meutraa/chartscope/internal/parser"
	"git.lost.host/meutraa/chartscope/internal/render"
	"git.lost.host/meutraa/chartscope/internal/store"
	"git.lost.host/meutraa/chartscope/internal/timing"
	"github.com/eiannone/keyboard"
)

func main() {
	command, err := config.Parse(os.Args[1:])
	if nil != err {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	lg := log.New(*config.LogLevel, *config.LogDir)
	if err := run(command, lg, os.Stdout); nil != err {
		lg.Error("command failed", "command", command, "error", err)
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(command string, lg *log.Logger, w io.Writer) error {
	switch command {
	case config.InfoCmd.FullCommand():
		return info(w, lg, *config.InfoDirectory)
	case config.QueryCmd.FullCommand():
		mode, err := timing.ParseSpacingMode(*config.QuerySpacing)
		if nil != err {
			return err
		}
		return query(w, lg, *config.QueryDirectory, mode, *config.QueryRow, *config.QueryBeat, *config.QueryTime)
	case config.ScrubCmd.FullCommand():
		return scrub(lg, *config.ScrubDirectory)
	case config.IndexCmd.FullCommand():
		return index(w, lg, *config.IndexDirectories)
	case config.ListCmd.FullCommand():
		return list(w, lg)
	}
	return fmt.Errorf("unknown command %q", command)
}

type loaded struct {
	song      *game.Song
	charts    []*game.Chart
	chartFile string
	audioFile string
}

func load(lg *log.Logger, dir string) (*loaded, error) {
	chartFile, found, err := parser.Find(dir)
	if nil != err {
		return nil, err
	}

	psr := &parser.DefaultParser{Logger: lg}
	song, charts, err := psr.Parse(chartFile)
	if nil != err {
		return nil, fmt.Errorf("%v: %w", chartFile, err)
	}
	if len(charts) == 0 {
		return nil, fmt.Errorf("%v: no supported charts", chartFile)
	}
	lg.Info("loaded song", "chart", chartFile, "title", song.Title, "charts", len(charts))

	return &loaded{
		song:      song,
		charts:    charts,
		chartFile: chartFile,
		audioFile: parser.MusicFile(chartFile, song, found),
	}, nil
}

func (l *loaded) chart(index int) (*game.Chart, error) {
	if index < 0 || index >= len(l.charts) {
		return nil, fmt.Errorf("difficulty %v out of range, song has %v charts", index, len(l.charts))
	}
	return l.charts[index], nil
}

// length is the audio length, or the chart's when the audio is unreadable.
func (l *loaded) length(lg *log.Logger, chart *game.Chart) time.Duration {
	if l.audioFile != "" {
		d, err := audio.Length(l.audioFile)
		if nil == err {
			return d
		}
		lg.Warn("unable to read audio length", "file", l.audioFile, "error", err)
	}
	return chart.Length()
}

func info(w io.Writer, lg *log.Logger, dir string) error {
	l, err := load(lg, dir)
	if nil != err {
		return err
	}
	td := l.charts[0].Timing

	fmt.Fprintf(w, "%v - %v\n", l.song.Title, l.song.Artist)
	if l.audioFile != "" {
		length := l.length(lg, l.charts[0])
		fmt.Fprintf(w, "Audio: %v (%v, ends at beat %.3f)\n", l.audioFile, length,
			td.RowAt(length.Seconds())/timing.RowsPerBeat)
	} else {
		fmt.Fprintln(w, "Audio: none")
	}

	fmt.Fprintln(w, "Charts:")
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	for i, c := range l.charts {
		fmt.Fprintf(tw, "%2v)\t%v\t%v\t%v\t%v notes\t%v holds\t%v mines\t%v\n", i, c.Difficulty.Type,
			c.Difficulty.Name, c.Difficulty.Meter, c.NoteCount, c.HoldCount, c.MineCount, c.Length())
	}
	tw.Flush()

	low, high := td.BPMRange()
	fmt.Fprintf(w, "Timing (offset %.3fs, %v-%v bpm):\n", td.Offset, low, high)
	for _, e := range td.Events() {
		fmt.Fprintf(w, "  %v\n", e)
	}
	return nil
}

func query(w io.Writer, lg *log.Logger, dir string, mode timing.SpacingMode, row, beat, seconds string) error {
	l, err := load(lg, dir)
	if nil != err {
		return err
	}
	chart, err := l.chart(*config.Difficulty)
	if nil != err {
		return err
	}
	td := chart.Timing

	var at timing.Cursor
	set := 0
	for _, s := range []string{row, beat, seconds} {
		if s != "" {
			set++
		}
	}
	if set != 1 {
		return errors.New("exactly one of --row, --beat or --time is required")
	}

	switch {
	case seconds != "":
		t, err := strconv.ParseFloat(seconds, 64)
		if nil != err {
			return fmt.Errorf("--time: %w", err)
		}
		at = timing.Cursor{Time: t, Position: td.RowAt(t)}
	default:
		s, scale := row, 1.0
		if beat != "" {
			s, scale = beat, timing.RowsPerBeat
		}
		v, err := strconv.ParseFloat(s, 64)
		if nil != err {
			return fmt.Errorf("position: %w", err)
		}
		p := v * scale
		at = timing.Cursor{Time: td.TimeAt(p), Position: p}
	}

	fmt.Fprintf(w, "cursor:    row %.3f (beat %.3f), %.3fs\n", at.Position, at.Position/timing.RowsPerBeat, at.Time)
	fmt.Fprintf(w, "spacing:   %v\n", mode)
	if e := td.Tree().FindBest(mode, at).Current(); e != nil {
		fmt.Fprintf(w, "governing: %v\n", e)
		fmt.Fprintf(w, "bpm:       %.3f\n", e.BPM())
		fmt.Fprintf(w, "scroll:    %.2f\n", e.ScrollRate)
	} else {
		fmt.Fprintf(w, "governing: none, base tempo %.3f bpm\n", td.BaseBPM)
	}
	return nil
}

func scrub(lg *log.Logger, dir string) error {
	l, err := load(lg, dir)
	if nil != err {
		return err
	}
	chart, err := l.chart(*config.Difficulty)
	if nil != err {
		return err
	}
	mode, err := timing.ParseSpacingMode(*config.ScrubSpacing)
	if nil != err {
		return err
	}

	keys, err := keyboard.GetKeys(128)
	if nil != err {
		return fmt.Errorf("unable to open keyboard: %w", err)
	}
	defer func() {
		if err := keyboard.Close(); nil != err {
			lg.Warn("unable to close keyboard", "error", err)
		}
	}()

	r := &render.DefaultRenderer{}
	if err := r.Init(); nil != err {
		return err
	}
	defer func() {
		// Restore the terminal state
		if err := r.Deinit(); nil != err {
			lg.Warn("unable to restore terminal", "error", err)
		}
	}()

	p := &Program{
		Song:     l.song,
		Chart:    chart,
		Renderer: r,
		Logger:   lg,
		Mode:     mode,
	}
	p.Init()
	p.Run(*config.FramePeriod, keys)
	return nil
}

func openStore(lg *log.Logger) (*store.DefaultStore, error) {
	s := &store.DefaultStore{Logger: lg}
	if err := s.Init(*config.Database); nil != err {
		return nil, fmt.Errorf("unable to open %v: %w", *config.Database, err)
	}
	return s, nil
}

func index(w io.Writer, lg *log.Logger, dirs []string) error {
	s, err := openStore(lg)
	if nil != err {
		return err
	}
	defer s.Deinit()

	var failed int
	for _, dir := range dirs {
		l, err := load(lg, dir)
		if nil != err {
			lg.Warn("unable to load song", "directory", dir, "error", err)
			fmt.Fprintf(w, "skipped %v: %v\n", dir, err)
			failed++
			continue
		}
		for _, c := range l.charts {
			if err := s.Save(l.song, c, l.length(lg, c)); nil != err {
				return err
			}
		}
		fmt.Fprintf(w, "indexed %v (%v charts)\n", l.song.Title, len(l.charts))
	}
	if failed == len(dirs) {
		return errors.New("no songs indexed")
	}
	return nil
}

func list(w io.Writer, lg *log.Logger) error {
	s, err := openStore(lg)
	if nil != err {
		return err
	}
	defer s.Deinit()

	entries, err := s.List()
	if nil != err {
		return err
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "TITLE\tARTIST\tDIFFICULTY\tMETER\tNOTES\tBPM\tLENGTH")
	for _, e := range entries {
		bpm := strconv.FormatFloat(e.MinBPM, 'f', -1, 64)
		if e.MaxBPM != e.MinBPM {
			bpm += "-" + strconv.FormatFloat(e.MaxBPM, 'f', -1, 64)
		}
		fmt.Fprintf(tw, "%v\t%v\t%v\t%v\t%v\t%v\t%v\n", e.Title, e.Artist, e.Difficulty, e.Meter,
			e.NoteCount, bpm, e.Length.Round(time.Second))
	}
	return tw.Flush()
}
