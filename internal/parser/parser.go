package parser

import "git.lost.host/meutraa/chartscope/internal/game"

type Parser interface {
	Parse(file string) (*game.Song, []*game.Chart, error)
}
