package main

import (
	"fmt"
	"math"
	"time"

	"git.lost.host/meutraa/chartscope/internal/game"
	"git.lost.host/meutraa/chartscope/internal/log"
	"git.lost.host/meutraa/chartscope/internal/render"
	"git.lost.host/meutraa/chartscope/internal/theme"
	"git.lost.host/meutraa/chartscope/internal/timing"
	"github.com/eiannone/keyboard"
)

const (
	rowsPerLine    = 12 // 1/16ths
	secondsPerLine = 0.05
	timeStep       = 0.1
	flashFrames    = 20
)

// Program is the interactive scrub view: a cursor moving through a chart
// and the rate altering event that governs it.
type Program struct {
	Song     *game.Song
	Chart    *game.Chart
	Renderer render.Renderer
	Theme    theme.Theme
	Logger   *log.Logger
	Mode     timing.SpacingMode

	cursor    timing.Cursor
	governing *timing.Event
	changed   bool

	width, height int
	hitRow        int
	middle        int
	sideCol       int
}

func (p *Program) Init() {
	if p.Theme == nil {
		p.Theme = &theme.DefaultTheme{}
	}
	p.setRow(0)
	p.changed = false
}

func (p *Program) Cursor() timing.Cursor {
	return p.cursor
}

// Governing is the event found for the cursor in the current spacing mode,
// nil when the chart has no timing events.
func (p *Program) Governing() *timing.Event {
	return p.governing
}

func (p *Program) setRow(row float64) {
	p.cursor = timing.Cursor{Position: row, Time: p.Chart.Timing.TimeAt(row)}
	p.locate()
}

func (p *Program) setTime(t float64) {
	p.cursor = timing.Cursor{Time: t, Position: p.Chart.Timing.RowAt(t)}
	p.locate()
}

func (p *Program) locate() {
	e := p.Chart.Timing.Tree().FindBest(p.Mode, p.cursor).Current()
	if e != p.governing {
		p.changed = true
		p.Logger.Debug("governing event changed", "event", fmt.Sprint(e), "row", p.cursor.Position)
	}
	p.governing = e
}

func (p *Program) move(lines float64) {
	if p.Mode == timing.ConstantTime {
		p.setTime(p.cursor.Time + lines*timeStep)
	} else {
		p.setRow(math.Max(0, p.cursor.Position+lines*rowsPerLine))
	}
}

// jump moves the cursor onto the next or previous event row.
func (p *Program) jump(forward bool) {
	it := p.Chart.Timing.Tree().FindBestByPosition(p.cursor.Position)
	if !it.Valid() {
		return
	}
	if forward {
		if float64(it.Current().Row) <= p.cursor.Position && !it.MoveNext() {
			return
		}
	} else {
		for float64(it.Current().Row) >= p.cursor.Position {
			if !it.MovePrev() {
				return
			}
		}
	}
	p.setRow(float64(it.Current().Row))
}

// Update applies a key press and reports whether to keep running.
func (p *Program) Update(key keyboard.KeyEvent) bool {
	switch {
	case key.Key == keyboard.KeyEsc || key.Rune == 'q':
		return false
	case key.Key == keyboard.KeyArrowDown || key.Rune == 'j':
		p.move(1)
	case key.Key == keyboard.KeyArrowUp || key.Rune == 'k':
		p.move(-1)
	case key.Key == keyboard.KeyPgdn || key.Rune == 'J':
		p.move(timing.RowsPerMeasure / rowsPerLine)
	case key.Key == keyboard.KeyPgup || key.Rune == 'K':
		p.move(-timing.RowsPerMeasure / rowsPerLine)
	case key.Rune == ']':
		p.jump(true)
	case key.Rune == '[':
		p.jump(false)
	case key.Rune == 'g':
		p.setRow(0)
	case key.Rune == 'G':
		p.setRow(float64(p.Chart.LastRow()))
	case key.Rune == 'm':
		p.Mode = (p.Mode + 1) % 3
		p.locate()
	}
	return true
}

// lineOf returns the screen line a row is drawn on.
func (p *Program) lineOf(row int) int {
	switch p.Mode {
	case timing.ConstantTime:
		t := p.Chart.Timing.TimeAt(float64(row))
		return p.hitRow + int(math.Round((t-p.cursor.Time)/secondsPerLine))
	case timing.Variable:
		scroll := p.Chart.Timing.ScrollAt(p.cursor.Position)
		return p.hitRow + int(math.Round((float64(row)-p.cursor.Position)*scroll/rowsPerLine))
	}
	return p.hitRow + int(math.Round((float64(row)-p.cursor.Position)/rowsPerLine))
}

// visibleRows returns the row range covered by the screen.
func (p *Program) visibleRows() (int, int) {
	above, below := float64(p.hitRow), float64(p.height-p.hitRow)
	switch p.Mode {
	case timing.ConstantTime:
		start := p.Chart.Timing.RowAt(p.cursor.Time - above*secondsPerLine)
		end := p.Chart.Timing.RowAt(p.cursor.Time + below*secondsPerLine)
		return int(math.Floor(start)), int(math.Ceil(end))
	case timing.Variable:
		scroll := math.Abs(p.Chart.Timing.ScrollAt(p.cursor.Position))
		if scroll < 0.01 {
			scroll = 0.01
		}
		return int(p.cursor.Position - above*rowsPerLine/scroll), int(p.cursor.Position + below*rowsPerLine/scroll)
	}
	return int(p.cursor.Position - above*rowsPerLine), int(p.cursor.Position + below*rowsPerLine)
}

func (p *Program) column(index uint8) int {
	return p.middle - int(p.Chart.Difficulty.NKeys) + 2*int(index)
}

func (p *Program) Resize() {
	p.width, p.height = p.Renderer.Size()
	p.hitRow = p.height / 3
	p.middle = p.width / 2
	p.sideCol = p.column(0) - 44
	if p.sideCol < 2 {
		p.sideCol = 2
	}
}

func (p *Program) Render() {
	p.Resize()
	p.Renderer.Clear()

	start, end := p.visibleRows()
	visible := func(line int) bool { return line > 0 && line <= p.height }

	for _, m := range p.Chart.Measures {
		if m.Row < start || m.Row > end {
			continue
		}
		if line := p.lineOf(m.Row); visible(line) {
			p.Renderer.Fill(line, p.column(0)-3, p.Theme.RenderMeasure(m.Denom))
		}
	}

	for _, note := range p.Chart.Between(start, end+1) {
		col := p.column(note.Index)
		line := p.lineOf(note.Row)
		if note.RowEnd != 0 {
			for l := line + 1; l <= p.lineOf(note.RowEnd) && l <= p.height; l++ {
				if visible(l) {
					p.Renderer.Fill(l, col, p.Theme.RenderHold())
				}
			}
		}
		if !visible(line) {
			continue
		}
		if note.IsMine {
			p.Renderer.Fill(line, col, p.Theme.RenderMine(int(note.Index)))
		} else {
			p.Renderer.Fill(line, col, p.Theme.RenderNote(int(note.Index), note.Denom))
		}
	}

	// Events are listed beside the lane, several on one row share a line.
	eventCol := p.column(p.Chart.Difficulty.NKeys) + 2
	lastLine, offset := -1, 0
	for it := p.Chart.Timing.Tree().FindBestByPosition(float64(start)); it.Valid() && it.Current().Row <= end; it.MoveNext() {
		e := it.Current()
		line := p.lineOf(e.Row)
		if line == lastLine {
			offset += 2
		} else {
			lastLine, offset = line, 0
		}
		if visible(line) {
			p.Renderer.Fill(line, eventCol+offset, p.Theme.RenderEvent(e.Kind))
		}
	}

	p.Renderer.Fill(p.hitRow, p.column(0)-5, ">")
	p.renderStatus()
}

func (p *Program) renderStatus() {
	td := p.Chart.Timing
	lines := []string{
		fmt.Sprintf("%v - %v", p.Song.Title, p.Song.Artist),
		fmt.Sprintf("%v %v (%v)", p.Chart.Difficulty.Type, p.Chart.Difficulty.Name, p.Chart.Difficulty.Meter),
		"",
		fmt.Sprintf("   Spacing:  %v", p.Mode),
		fmt.Sprintf("      Beat:  %9.3f", p.cursor.Position/timing.RowsPerBeat),
		fmt.Sprintf("       Row:  %9.3f", p.cursor.Position),
		fmt.Sprintf("      Time:  %9.3fs", p.cursor.Time),
		fmt.Sprintf("       BPM:  %9.3f", td.BPMAt(p.cursor.Position)),
		fmt.Sprintf("    Scroll:  %9.2f", td.ScrollAt(p.cursor.Position)),
		"",
	}
	if p.governing != nil {
		lines = append(lines, "Governing: "+p.governing.String())
	} else {
		lines = append(lines, fmt.Sprintf("Governing: none, base tempo %.3f bpm", td.BaseBPM))
	}
	for i, l := range lines {
		p.Renderer.Fill(2+i, p.sideCol, l)
	}

	if p.changed {
		p.Renderer.AddDecoration(p.sideCol-2, 2+len(lines)-1, "*", flashFrames)
		p.changed = false
	}
}

func (p *Program) Run(framePeriod time.Duration, keys <-chan keyboard.KeyEvent) {
	p.Renderer.RenderLoop(framePeriod, func(time.Duration) bool {
		for len(keys) > 0 {
			key := <-keys
			if nil != key.Err {
				p.Logger.Warn("keyboard error", "error", key.Err)
				continue
			}
			if !p.Update(key) {
				return false
			}
		}
		p.Render()
		return true
	})
}
