package main

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/eiannone/keyboard"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.lost.host/meutraa/chartscope/internal/game"
	"git.lost.host/meutraa/chartscope/internal/parser"
	"git.lost.host/meutraa/chartscope/internal/render"
	"git.lost.host/meutraa/chartscope/internal/timing"
)

func testProgram(t *testing.T) (*Program, *bytes.Buffer) {
	psr := parser.DefaultParser{}
	song, charts, err := psr.Parse(filepath.Join("internal", "parser", "testdata", "simple.sm"))
	require.NoError(t, err)

	var out bytes.Buffer
	p := &Program{
		Song:     song,
		Chart:    charts[0],
		Renderer: &render.DefaultRenderer{Out: &out},
		Mode:     timing.ConstantRow,
	}
	p.Init()
	return p, &out
}

func press(r rune) keyboard.KeyEvent {
	return keyboard.KeyEvent{Rune: r}
}

func TestProgramMoves(t *testing.T) {
	p, _ := testProgram(t)
	assert.Equal(t, 0.0, p.Cursor().Position)
	assert.InDelta(t, 0.5, p.Cursor().Time, 1e-9)
	assert.Equal(t, timing.Scroll, p.Governing().Kind)

	for i := 0; i < 4; i++ {
		assert.True(t, p.Update(press('j')))
	}
	assert.Equal(t, 48.0, p.Cursor().Position)

	assert.True(t, p.Update(keyboard.KeyEvent{Key: keyboard.KeyPgdn}))
	assert.Equal(t, 240.0, p.Cursor().Position)
	assert.Equal(t, timing.Tempo, p.Governing().Kind)
	assert.Equal(t, 60.0, p.Governing().Value)

	assert.True(t, p.Update(press('K')))
	assert.True(t, p.Update(press('K')))
	assert.Equal(t, 0.0, p.Cursor().Position)

	assert.True(t, p.Update(press('G')))
	assert.Equal(t, 384.0, p.Cursor().Position)
	assert.False(t, p.Update(press('q')))
	assert.False(t, p.Update(keyboard.KeyEvent{Key: keyboard.KeyEsc}))
}

func TestProgramJumps(t *testing.T) {
	p, _ := testProgram(t)
	var rows []float64
	for i := 0; i < 4; i++ {
		p.Update(press(']'))
		rows = append(rows, p.Cursor().Position)
	}
	// The last jump has nowhere to go.
	assert.Equal(t, []float64{96, 192, 288, 288}, rows)
	assert.Equal(t, timing.Scroll, p.Governing().Kind)

	p.Update(press('['))
	assert.Equal(t, 192.0, p.Cursor().Position)
	p.Update(press('['))
	p.Update(press('['))
	assert.Equal(t, 0.0, p.Cursor().Position)
	p.Update(press('['))
	assert.Equal(t, 0.0, p.Cursor().Position)
}

func TestProgramSpacingModes(t *testing.T) {
	p, _ := testProgram(t)
	p.Update(press('m'))
	assert.Equal(t, timing.Variable, p.Mode)
	p.Update(press('m'))
	assert.Equal(t, timing.ConstantTime, p.Mode)

	// Time mode steps through time, so the stop holds the row in place.
	p.setRow(96)
	p.Update(press('j'))
	assert.Equal(t, 96.0, p.Cursor().Position)
	assert.InDelta(t, 1.6, p.Cursor().Time, 1e-9)
	assert.Equal(t, timing.Stop, p.Governing().Kind)

	p.Update(press('m'))
	assert.Equal(t, timing.ConstantRow, p.Mode)
}

func TestProgramWithoutEvents(t *testing.T) {
	p := &Program{
		Song:     &game.Song{},
		Chart:    &game.Chart{Timing: timing.NewData(0)},
		Renderer: &render.DefaultRenderer{Out: &bytes.Buffer{}},
	}
	p.Init()
	assert.Nil(t, p.Governing())
	p.Update(press(']'))
	assert.Equal(t, 0.0, p.Cursor().Position)
	p.Render()
}

func TestProgramRender(t *testing.T) {
	p, out := testProgram(t)
	p.Update(press(']'))
	p.Render()
	p.Renderer.Flush()

	s := out.String()
	assert.True(t, strings.Contains(s, "Test Song - Tester"), s)
	assert.True(t, strings.Contains(s, "Governing: stop 1.000s @ beat 2.000"), s)
	assert.True(t, strings.Contains(s, "120.000"), s)
}
