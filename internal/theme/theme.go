package theme

import (
	"image/color"

	"git.lost.host/meutraa/chartscope/internal/timing"
)

type Theme interface {
	NoteColor(denom int) color.RGBA
	EventColor(kind timing.Kind) color.RGBA
	RenderNote(column int, denom int) string
	RenderMine(column int) string
	RenderHold() string
	RenderEvent(kind timing.Kind) string
	RenderMeasure(denom int) string
}
