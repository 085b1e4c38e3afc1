package audioconv

import (
	"bytes"
	"encoding/binary"
	"errors"
	"io"

	"github.com/go-audio/wav"
	"github.com/hajimehoshi/go-mp3"
	"github.com/jfreymuth/oggvorbis"
	popus "github.com/pekim/opus"
)

func decodeWAV(r io.ReadSeeker) (pcm, error) {
	dec := wav.NewDecoder(r)
	if !dec.IsValidFile() {
		return pcm{}, errors.New("invalid wav")
	}
	buf, err := dec.FullPCMBuffer()
	if err != nil {
		return pcm{}, err
	}
	if buf == nil || len(buf.Data) == 0 {
		return pcm{}, errors.New("empty wav")
	}

	depth := int(dec.BitDepth)
	if depth == 0 {
		depth = 16
	}
	scale := 1.0 / float64(int64(1)<<(depth-1))
	out := make([]float32, len(buf.Data))
	for i, v := range buf.Data {
		out[i] = float32(clamp(float64(v) * scale))
	}

	p := pcm{samples: out, channels: 1, rate: 44100}
	if buf.Format != nil {
		if buf.Format.NumChannels > 0 {
			p.channels = buf.Format.NumChannels
		}
		if buf.Format.SampleRate > 0 {
			p.rate = buf.Format.SampleRate
		}
	}
	return p, nil
}

func decodeMP3(r io.ReadSeeker) (pcm, error) {
	dec, err := mp3.NewDecoder(r)
	if err != nil {
		return pcm{}, err
	}
	var raw bytes.Buffer
	if _, err := io.Copy(&raw, dec); err != nil {
		return pcm{}, err
	}
	ints := make([]int16, raw.Len()/2)
	if err := binary.Read(&raw, binary.LittleEndian, ints); err != nil {
		return pcm{}, err
	}

	rate := dec.SampleRate()
	if rate <= 0 {
		rate = 44100
	}
	// go-mp3 always emits 16-bit stereo
	return pcm{samples: int16ToFloat(ints), channels: 2, rate: rate}, nil
}

func decodeVorbis(r io.ReadSeeker) (pcm, error) {
	samples, format, err := oggvorbis.ReadAll(r)
	if err != nil {
		return pcm{}, err
	}
	if format == nil || format.Channels <= 0 || format.SampleRate <= 0 {
		return pcm{}, errors.New("invalid ogg/vorbis stream")
	}
	return pcm{samples: samples, channels: format.Channels, rate: format.SampleRate}, nil
}

func decodeOpus(r io.ReadSeeker) (pcm, error) {
	dec, err := popus.NewDecoder(r)
	if err != nil {
		return pcm{}, err
	}
	defer dec.Destroy()

	ch := dec.ChannelCount()
	if ch <= 0 {
		ch = 1
	}

	var out []float32
	buf := make([]int16, 24_000*ch) // 0.5s at 48k
	for {
		n, err := dec.Read(buf) // samples per channel
		if n > 0 {
			out = append(out, int16ToFloat(buf[:n*ch])...)
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			return pcm{}, err
		}
	}
	if len(out) == 0 {
		return pcm{}, errors.New("empty opus stream")
	}
	// libopusfile always decodes at 48k
	return pcm{samples: out, channels: ch, rate: 48000}, nil
}
