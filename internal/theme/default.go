package theme

import (
	"fmt"
	"image/color"

	"git.lost.host/meutraa/chartscope/internal/timing"
)

type DefaultTheme struct {
}

func (t *DefaultTheme) NoteColor(denom int) color.RGBA {
	col, ok := noteColors[denom]
	if !ok {
		return noteColors[-1]
	}
	return col
}

func (t *DefaultTheme) EventColor(kind timing.Kind) color.RGBA {
	col, ok := eventColors[kind]
	if !ok {
		return noteColors[-1]
	}
	return col
}

func (t *DefaultTheme) RenderMine(column int) string {
	return paint(t.NoteColor(1), mineSym)
}

func (t *DefaultTheme) RenderNote(column int, denom int) string {
	return paint(t.NoteColor(denom), noteSym)
}

func (t *DefaultTheme) RenderHold() string {
	return holdSym
}

func (t *DefaultTheme) RenderEvent(kind timing.Kind) string {
	return paint(t.EventColor(kind), eventSyms[kind])
}

func (t *DefaultTheme) RenderMeasure(denom int) string {
	if denom == 1 {
		return measureSym
	}
	return beatSym
}

func paint(c color.RGBA, s string) string {
	return fmt.Sprintf("\033[38;2;%v;%v;%vm%v\033[0m", c.R, c.G, c.B, s)
}

const (
	noteSym    = "⬤"
	mineSym    = "⨯"
	holdSym    = "│"
	measureSym = "━"
	beatSym    = "─"
)

var (
	eventSyms = map[timing.Kind]string{
		timing.Tempo:  "♩",
		timing.Scroll: "≋",
		timing.Warp:   "↷",
		timing.Delay:  "◆",
		timing.Stop:   "■",
	}
	eventColors = map[timing.Kind]color.RGBA{
		timing.Tempo:  {236, 195, 0, 255},
		timing.Scroll: {0, 236, 128, 255},
		timing.Warp:   {106, 0, 236, 255},
		timing.Delay:  {236, 128, 0, 255},
		timing.Stop:   {236, 30, 0, 255},
	}
	noteColors = map[int]color.RGBA{
		1:  {236, 30, 0, 255},    // 1/4 red
		2:  {0, 118, 236, 255},   // 1/8 blue
		3:  {106, 0, 236, 255},   // 1/12 purple
		4:  {236, 195, 0, 255},   // 1/16 yellow
		5:  {106, 106, 106, 255}, // 1/20 grey???
		6:  {236, 0, 106, 255},   // 1/24 pink
		8:  {236, 128, 0, 255},   // 1/32 orange
		12: {173, 236, 236, 255}, // 1/48 light blue
		16: {0, 236, 128, 255},   // 1/64 green
		24: {106, 106, 106, 255}, // 1/96 grey
		32: {106, 106, 106, 255}, // 1/128 grey
		48: {110, 147, 89, 255},  // 1/192 olive
		64: {106, 106, 106, 255}, // 1/256 grey
		-1: {255, 255, 255, 255}, // other white
	}
)
