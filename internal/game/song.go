package game

type Song struct {
	Title  string
	Artist string
	Music  string // Audio file named by the chart, relative to it
}
