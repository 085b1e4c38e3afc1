// Package audioconv decodes audio files into the 16 kHz mono float32 PCM
// that the transcriber expects.
package audioconv

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

const TargetRate = 16000

type Options struct {
	// MaxSamples truncates the output; 0 keeps everything.
	MaxSamples int
}

// pcm is decoded audio before conversion: interleaved samples in [-1, 1].
type pcm struct {
	samples  []float32
	channels int
	rate     int
}

type decoder func(io.ReadSeeker) (pcm, error)

var byExt = map[string][]decoder{
	".wav":  {decodeWAV},
	".mp3":  {decodeMP3},
	".ogg":  {decodeVorbis, decodeOpus},
	".oga":  {decodeVorbis, decodeOpus},
	".opus": {decodeOpus},
}

var byMagic = map[string][]decoder{
	"RIFF":    {decodeWAV},
	"OggS":    {decodeVorbis, decodeOpus},
	"ID3\x03": {decodeMP3},
	"ID3\x04": {decodeMP3},
}

func DecodeFile(ctx context.Context, path string, opt Options) ([]float32, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	decoders, err := pick(f, path)
	if err != nil {
		return nil, err
	}

	var errs []error
	for _, dec := range decoders {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if _, err := f.Seek(0, io.SeekStart); err != nil {
			return nil, err
		}
		raw, err := dec(f)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		return convert(raw, opt), nil
	}
	return nil, fmt.Errorf("decode %s: %w", filepath.Base(path), errors.Join(errs...))
}

func pick(f *os.File, path string) ([]decoder, error) {
	ext := strings.ToLower(filepath.Ext(path))
	if d, ok := byExt[ext]; ok {
		return d, nil
	}

	magic, _ := bufio.NewReader(f).Peek(4)
	if d, ok := byMagic[string(magic)]; ok {
		return d, nil
	}
	return nil, fmt.Errorf("unsupported format: %q (supported: wav, mp3, ogg vorbis/opus)", ext)
}

func convert(in pcm, opt Options) []float32 {
	x := downmix(in.samples, in.channels)
	x = resample(x, in.rate, TargetRate)
	if opt.MaxSamples > 0 && len(x) > opt.MaxSamples {
		x = x[:opt.MaxSamples]
	}
	return x
}
