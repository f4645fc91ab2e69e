package game

import (
	"time"
)

type Measure struct {
	Denom int // 1 for measure lines, 4 for beats
	Row   int
	Time  time.Duration
}
