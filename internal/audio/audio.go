package audio

import (
	"errors"
	"fmt"
	"os"
	"path"
	"strings"
	"time"

	"github.com/faiface/beep"
	"github.com/faiface/beep/mp3"
	"github.com/faiface/beep/vorbis"
	"github.com/faiface/beep/wav"
)

var ErrUnsupported = errors.New("unsupported audio format")

// Length decodes just enough of an audio file to report its duration.
func Length(file string) (time.Duration, error) {
	ext := strings.ToLower(path.Ext(file))
	switch ext {
	case ".mp3", ".ogg", ".wav":
	default:
		return 0, fmt.Errorf("%w: %v", ErrUnsupported, ext)
	}

	f, err := os.Open(file)
	if err != nil {
		return 0, err
	}

	var streamer beep.StreamSeekCloser
	var format beep.Format
	switch ext {
	case ".ogg":
		streamer, format, err = vorbis.Decode(f)
	case ".mp3":
		streamer, format, err = mp3.Decode(f)
	case ".wav":
		streamer, format, err = wav.Decode(f)
	}
	if err != nil {
		f.Close()
		return 0, fmt.Errorf("unable to decode %v: %w", file, err)
	}
	defer streamer.Close()

	return format.SampleRate.D(streamer.Len()), nil
}
