package config

import (
	"gopkg.in/alecthomas/kingpin.v2"
)

var (
	app = kingpin.New("chartscope", "Inspect the timing of StepMania charts")

	Database   = app.Flag("db", "Chart library database").Default("./charts.db").String()
	LogLevel   = app.Flag("log-level", "Logging level").Default("info").Enum("debug", "info", "warn", "error")
	LogDir     = app.Flag("log-dir", "Log directory, defaults to the user config directory").String()
	Difficulty = app.Flag("difficulty", "Index of the chart within the song").Default("0").Short('d').Int()

	InfoCmd       = app.Command("info", "Describe a song's charts and timing events")
	InfoDirectory = InfoCmd.Arg("directory", "Song/chart directory").Required().ExistingDir()

	QueryCmd       = app.Command("query", "Find the event governing a row or time")
	QueryDirectory = QueryCmd.Arg("directory", "Song/chart directory").Required().ExistingDir()
	QueryRow       = QueryCmd.Flag("row", "Chart position in rows, 48 per beat").String()
	QueryBeat      = QueryCmd.Flag("beat", "Chart position in beats").String()
	QueryTime      = QueryCmd.Flag("time", "Chart time in seconds").String()
	QuerySpacing   = QueryCmd.Flag("spacing", "Spacing mode").Default("row").Enum("time", "row", "variable")

	ScrubCmd       = app.Command("scrub", "Step through a chart interactively")
	ScrubDirectory = ScrubCmd.Arg("directory", "Song/chart directory").Required().ExistingDir()
	ScrubSpacing   = ScrubCmd.Flag("spacing", "Initial spacing mode").Default("row").Enum("time", "row", "variable")
	FramePeriod    = ScrubCmd.Flag("frame-period", "Render frame period").Default("16ms").Short('p').Duration()

	IndexCmd         = app.Command("index", "Add songs to the chart library")
	IndexDirectories = IndexCmd.Arg("directories", "Song/chart directories").Required().Strings()

	ListCmd = app.Command("list", "List the chart library")
)

// Parse returns the selected command's full name.
func Parse(args []string) (string, error) {
	app.Version("0.3.0")
	return app.Parse(args)
}
