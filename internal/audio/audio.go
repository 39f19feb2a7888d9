package audio

import (
	"fmt"
	"log/slog"
	"math"
	"sync"

	"github.com/gordonklaus/portaudio"
	"github.com/mjibson/go-dsp/window"

	"github.com/san-kum/sortviz/internal/playback"
	"github.com/san-kum/sortviz/internal/step"
)

const (
	SampleRate = 44100
	BufferSize = 512

	// BlipSeconds is the length of one compare tone.
	BlipSeconds = 0.045
	MaxVoices   = 8
	MinFreq     = 220.0
	MaxFreq     = 1320.0
)

type voice struct {
	freq  float64
	phase float64
	pos   int
}

// Player sonifies playback: every consumed compare plays a short
// Hann-windowed triangle blip pitched by the compared value.
type Player struct {
	stream   *portaudio.Stream
	envelope []float64
	cutoff   float64
	volume   float64

	mu      sync.Mutex
	pending []float64

	// owned by the audio callback
	voices []voice
	filter [2]float64

	Active bool
}

func NewPlayer() *Player {
	return &Player{
		envelope: window.Hann(int(SampleRate * BlipSeconds)),
		cutoff:   4000,
		volume:   0.3,
		voices:   make([]voice, 0, MaxVoices),
	}
}

func (p *Player) Start() error {
	if err := portaudio.Initialize(); err != nil {
		return fmt.Errorf("audio: initialize: %w", err)
	}

	// Output only; duplex streams often fail on Linux when devices differ.
	stream, err := portaudio.OpenDefaultStream(0, 2, SampleRate, BufferSize, p.Render)
	if err != nil {
		portaudio.Terminate()
		return fmt.Errorf("audio: open stream: %w", err)
	}
	if err := stream.Start(); err != nil {
		stream.Close()
		portaudio.Terminate()
		return fmt.Errorf("audio: start stream: %w", err)
	}

	slog.Debug("audio started", "sample_rate", SampleRate, "buffer", BufferSize)
	p.stream = stream
	p.Active = true
	return nil
}

func (p *Player) Stop() {
	if !p.Active {
		return
	}
	p.stream.Stop()
	p.stream.Close()
	portaudio.Terminate()
	p.Active = false
}

// Pitch maps value in [0, maxValue] exponentially onto [MinFreq, MaxFreq].
func Pitch(value, maxValue int) float64 {
	if maxValue <= 0 {
		return MinFreq
	}
	r := math.Max(0, math.Min(1, float64(value)/float64(maxValue)))
	return MinFreq * math.Pow(MaxFreq/MinFreq, r)
}

func (p *Player) OnStep(s step.Step, e *playback.Engine) {
	if s.Kind != step.KindCompare {
		return
	}
	idx := s.J
	if idx == step.None {
		idx = s.I
	}
	v, ok := e.VisualOf(idx)
	if !ok {
		return
	}
	p.queue(Pitch(v.Value, e.MaxValue()))
}

func (p *Player) queue(freq float64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if len(p.pending) == MaxVoices {
		p.pending = p.pending[1:]
	}
	p.pending = append(p.pending, freq)
}

// Triangle Wave: Smooth, flute-like, no harsh buzz
func triangle(phase float64) float64 {
	q := phase - math.Floor(phase)
	return 4.0*math.Abs(q-0.5) - 1.0
}

// Low Pass Filter (One Pole)
func lpf(sample, cutoff, dt, state float64) (float64, float64) {
	rc := 1.0 / (2.0 * math.Pi * cutoff)
	alpha := dt / (rc + dt)
	out := state + alpha*(sample-state)
	return out, out
}

// Render fills one stereo buffer. It is the stream callback.
func (p *Player) Render(out [][]float32) {
	p.mu.Lock()
	for _, f := range p.pending {
		if len(p.voices) == MaxVoices {
			p.voices = p.voices[1:]
		}
		p.voices = append(p.voices, voice{freq: f})
	}
	p.pending = p.pending[:0]
	p.mu.Unlock()

	dt := 1.0 / float64(SampleRate)
	gain := 1.0 / float64(MaxVoices/2)

	for i := range out[0] {
		sample := 0.0
		live := p.voices[:0]
		for _, v := range p.voices {
			sample += triangle(v.phase) * p.envelope[v.pos] * gain
			v.phase += v.freq * dt
			v.pos++
			if v.pos < len(p.envelope) {
				live = append(live, v)
			}
		}
		p.voices = live

		var l, r float64
		l, p.filter[0] = lpf(sample, p.cutoff, dt, p.filter[0])
		r, p.filter[1] = lpf(sample, p.cutoff*0.9, dt, p.filter[1])

		out[0][i] = float32(l * p.volume)
		if len(out) > 1 {
			out[1][i] = float32(r * p.volume)
		}
	}
}
