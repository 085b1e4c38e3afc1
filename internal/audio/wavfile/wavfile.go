package wavfile

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	goaudio "github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

const bitDepth = 16

// Encode writes mono float32 samples in [-1, 1] as 16-bit PCM WAV.
func Encode(w io.WriteSeeker, pcm []float32, sampleRate int) error {
	enc := wav.NewEncoder(w, sampleRate, bitDepth, 1, 1)

	data := make([]int, len(pcm))
	for i, x := range pcm {
		if x > 1 {
			x = 1
		} else if x < -1 {
			x = -1
		}
		data[i] = int(x * 32767)
	}

	buf := &goaudio.IntBuffer{
		Format:         &goaudio.Format{NumChannels: 1, SampleRate: sampleRate},
		Data:           data,
		SourceBitDepth: bitDepth,
	}
	if err := enc.Write(buf); err != nil {
		return fmt.Errorf("encode wav: %w", err)
	}
	return enc.Close()
}

// Dump writes pcm into dir under a timestamped name and returns the path.
func Dump(dir, label string, pcm []float32, sampleRate int) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	name := fmt.Sprintf("%s-%s.wav", time.Now().Format("20060102T150405.000"), label)
	path := filepath.Join(dir, name)

	f, err := os.Create(path)
	if err != nil {
		return "", err
	}
	if err := Encode(f, pcm, sampleRate); err != nil {
		f.Close()
		return "", err
	}
	return path, f.Close()
}
