package game

type Difficulty struct {
	Type    string // dance-single etc
	Name    string
	Meter   int
	Section string // The raw note data
	NKeys   uint8
}

var NKeyMap = map[string]uint8{
	"dance-single": 4,
	"dance-solo":   6,
	"dance-double": 8,
}
