package parser

import (
	"fmt"
	"math"
	"math/big"
	"os"
	"strconv"
	"strings"

	"git.lost.host/meutraa/chartscope/internal/game"
	"git.lost.host/meutraa/chartscope/internal/log"
	"git.lost.host/meutraa/chartscope/internal/timing"
)

type DefaultParser struct {
	// Logger receives warnings about events that are skipped. It may be nil.
	Logger *log.Logger
}

type tag struct {
	name, value string
}

type change struct {
	kind  timing.Kind
	beat  float64
	value float64
}

var timingTags = map[string]timing.Kind{
	"BPMS":    timing.Tempo,
	"STOPS":   timing.Stop,
	"FREEZES": timing.Stop,
	"DELAYS":  timing.Delay,
	"WARPS":   timing.Warp,
	"SCROLLS": timing.Scroll,
}

func stripComments(src string) string {
	lines := strings.Split(src, "\n")
	for i, l := range lines {
		if j := strings.Index(l, "//"); j >= 0 {
			lines[i] = l[:j]
		}
	}
	return strings.Join(lines, "\n")
}

// tags splits a .sm file into its #NAME:VALUE; pairs, in file order.
func tags(src string) []tag {
	var ts []tag
	for {
		i := strings.IndexByte(src, '#')
		if i < 0 {
			return ts
		}
		src = src[i+1:]
		j := strings.IndexByte(src, ':')
		if j < 0 {
			return ts
		}
		name := strings.ToUpper(strings.TrimSpace(src[:j]))
		src = src[j+1:]

		var value string
		if k := strings.IndexByte(src, ';'); k < 0 {
			value, src = src, ""
		} else {
			value, src = src[:k], src[k+1:]
		}
		ts = append(ts, tag{name: name, value: strings.TrimSpace(value)})
	}
}

// parsePairs reads "beat=value,beat=value" lists.
func parsePairs(value string) ([][2]float64, error) {
	pairs := [][2]float64{}
	for _, p := range strings.Split(value, ",") {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		as := strings.Split(p, "=")
		if len(as) != 2 {
			return nil, fmt.Errorf("malformed pair %q", p)
		}
		beat, err := strconv.ParseFloat(strings.TrimSpace(as[0]), 64)
		if nil != err {
			return nil, err
		}
		v, err := strconv.ParseFloat(strings.TrimSpace(as[1]), 64)
		if nil != err {
			return nil, err
		}
		pairs = append(pairs, [2]float64{beat, v})
	}
	return pairs, nil
}

func beatToRow(beat float64) int {
	return int(math.Round(beat * timing.RowsPerBeat))
}

func (p *DefaultParser) Parse(file string) (*game.Song, []*game.Chart, error) {
	data, err := os.ReadFile(file)
	if nil != err {
		return nil, nil, err
	}
	return p.ParseString(string(data))
}

func (p *DefaultParser) ParseString(src string) (*game.Song, []*game.Chart, error) {
	src = stripComments(strings.ReplaceAll(src, "\r", ""))

	song := &game.Song{}
	offset := 0.0
	changes := []change{}
	difficulties := []game.Difficulty{}

	for _, t := range tags(src) {
		switch t.name {
		case "TITLE":
			song.Title = t.value
		case "ARTIST":
			song.Artist = t.value
		case "MUSIC":
			song.Music = t.value
		case "OFFSET":
			offs, err := strconv.ParseFloat(t.value, 64)
			if nil != err {
				return nil, nil, fmt.Errorf("parsing #OFFSET: %w", err)
			}
			offset = offs
		case "NOTES":
			difficulty, ok := p.parseDifficulty(t.value)
			if ok {
				difficulties = append(difficulties, difficulty)
			}
		default:
			kind, ok := timingTags[t.name]
			if !ok {
				continue
			}
			pairs, err := parsePairs(t.value)
			if nil != err {
				return nil, nil, fmt.Errorf("parsing #%s: %w", t.name, err)
			}
			for _, pair := range pairs {
				changes = append(changes, change{kind: kind, beat: pair[0], value: pair[1]})
			}
		}
	}

	td := p.buildTiming(offset, changes)

	charts := []*game.Chart{}
	for _, difficulty := range difficulties {
		charts = append(charts, p.parseNotes(difficulty, td))
	}
	return song, charts, nil
}

func (p *DefaultParser) buildTiming(offset float64, changes []change) *timing.Data {
	td := timing.NewData(offset)
	for _, c := range changes {
		row := beatToRow(c.beat)
		var err error
		switch c.kind {
		case timing.Tempo:
			_, err = td.AddTempo(row, c.value)
		case timing.Stop:
			_, err = td.AddStop(row, c.value)
		case timing.Delay:
			_, err = td.AddDelay(row, c.value)
		case timing.Warp:
			_, err = td.AddWarp(row, c.value*timing.RowsPerBeat)
		case timing.Scroll:
			_, err = td.AddScroll(row, c.value)
		}
		if nil != err {
			p.Logger.Warn("skipping timing event", "kind", c.kind.String(), "beat", c.beat, "error", err)
		}
	}
	return td
}

// parseDifficulty reads the six colon separated fields of a #NOTES tag.
// Charts of unsupported types are skipped.
func (p *DefaultParser) parseDifficulty(value string) (game.Difficulty, bool) {
	fields := strings.SplitN(value, ":", 6)
	if len(fields) != 6 {
		p.Logger.Warn("malformed #NOTES", "fields", len(fields))
		return game.Difficulty{}, false
	}
	chartType := strings.TrimSpace(fields[0])
	nKeys, ok := game.NKeyMap[chartType]
	if !ok {
		p.Logger.Debug("skipping chart", "type", chartType)
		return game.Difficulty{}, false
	}

	meter, err := strconv.Atoi(strings.TrimSpace(fields[3]))
	if nil != err {
		p.Logger.Warn("unreadable meter", "type", chartType, "meter", fields[3])
	}
	return game.Difficulty{
		Type:    chartType,
		Name:    strings.TrimSpace(fields[2]),
		Meter:   meter,
		Section: strings.TrimSpace(fields[5]),
		NKeys:   nKeys,
	}, true
}

// 0 – No note
// 1 – Normal note
// 2 – Hold head
// 3 – Hold/Roll tail
// 4 – Roll head
// M – Mine (or other negative note)
// K – Automatic keysound
// L – Lift note
// F – Fake note

func isNote(c byte) bool {
	return c == '1' || c == '2' || c == '4' || c == 'M'
}

func (p *DefaultParser) parseNotes(difficulty game.Difficulty, td *timing.Data) *game.Chart {
	chart := &game.Chart{
		Difficulty: difficulty,
		Timing:     td,
	}
	for m, block := range strings.Split(difficulty.Section, ",") {
		measureRow := m * timing.RowsPerMeasure
		for b := 0; b < 4; b++ {
			row := measureRow + b*timing.RowsPerBeat
			denom := 4
			if b == 0 {
				denom = 1
			}
			chart.Measures = append(chart.Measures, &game.Measure{
				Denom: denom,
				Row:   row,
				Time:  game.Seconds(td.TimeAt(float64(row))),
			})
		}

		lines := []string{}
		for _, l := range strings.Split(block, "\n") {
			l = strings.TrimSpace(l)
			if len(l) == int(difficulty.NKeys) {
				lines = append(lines, l)
			}
		}

		lineCount := int64(len(lines))
		for i, line := range lines {
			row := measureRow + int(math.Round(float64(i*timing.RowsPerMeasure)/float64(lineCount)))
			r := big.NewRat(int64(i*4), lineCount)
			denom := int(r.Denom().Int64())

			for col := 0; col < len(line); col++ {
				c := line[col]
				if isNote(c) {
					note := &game.Note{
						Index:  uint8(col),
						Row:    row,
						Denom:  denom,
						IsMine: c == 'M',
						IsHold: c == '2' || c == '4',
					}
					note.Time = game.Seconds(td.TimeAt(float64(row)))
					switch {
					case note.IsMine:
						chart.MineCount++
					case note.IsHold:
						chart.HoldCount++
						chart.NoteCount++
					default:
						chart.NoteCount++
					}
					chart.Notes = append(chart.Notes, note)
				} else if c == '3' {
					// Close the most recent open head in this column
					for j := len(chart.Notes) - 1; j >= 0; j-- {
						note := chart.Notes[j]
						if int(note.Index) != col || !note.IsHold || note.RowEnd != 0 {
							continue
						}
						note.RowEnd = row
						note.TimeEnd = game.Seconds(td.TimeAt(float64(row)))
						break
					}
				}
			}
		}
	}
	return chart
}
