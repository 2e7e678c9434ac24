package emu

import (
	"github.com/arl/blip"

	"pakhost/emu/log"
)

// Paks are sampled at this rate, then resampled to the output rate.
const PakClockRate = 44100

const (
	minSampleRate = 8000
	maxSampleRate = 96000
)

// Pak samples pack two unsigned 8-bit levels, left in the high byte.
const levelScale = 96

// AudioSink consumes interleaved stereo samples.
type AudioSink interface {
	Queue(samples []int16) error
}

type discardSink struct{}

func (discardSink) Queue([]int16) error { return nil }

// Discard is a sink dropping all samples.
var Discard AudioSink = discardSink{}

// PakAudio turns the pak analog output into a stereo sample stream.
type PakAudio struct {
	outbuf   []int16
	bufleft  *blip.Buffer
	bufright *blip.Buffer

	prevLeft  int32
	prevRight int32

	clocksPerFrame int
	sink           AudioSink
}

func NewPakAudio(sampleRate, frameRate int, sink AudioSink) *PakAudio {
	nsamples := sampleRate/frameRate*2 + 1
	pa := &PakAudio{
		outbuf:         make([]int16, nsamples*2),
		bufleft:        blip.NewBuffer(nsamples),
		bufright:       blip.NewBuffer(nsamples),
		clocksPerFrame: PakClockRate / frameRate,
		sink:           sink,
	}
	pa.bufleft.SetRates(PakClockRate, float64(sampleRate))
	pa.bufright.SetRates(PakClockRate, float64(sampleRate))
	return pa
}

func (pa *PakAudio) Reset() {
	pa.prevLeft = 0
	pa.prevRight = 0
	pa.bufleft.Clear()
	pa.bufright.Clear()
}

// RunFrame samples the pak output for one frame and queues the resampled
// stream into the sink.
func (pa *PakAudio) RunFrame(sample func() uint16) {
	for t := range pa.clocksPerFrame {
		s := sample()
		left := int32(s>>8) * levelScale
		right := int32(s&0xFF) * levelScale

		if d := left - pa.prevLeft; d != 0 {
			pa.bufleft.AddDelta(uint64(t), d)
			pa.prevLeft = left
		}
		if d := right - pa.prevRight; d != 0 {
			pa.bufright.AddDelta(uint64(t), d)
			pa.prevRight = right
		}
	}

	pa.bufleft.EndFrame(pa.clocksPerFrame)
	pa.bufright.EndFrame(pa.clocksPerFrame)

	n := pa.bufleft.ReadSamples(pa.outbuf, len(pa.outbuf)/2, blip.Stereo)
	pa.bufright.ReadSamples(pa.outbuf[1:], n, blip.Stereo)

	if err := pa.sink.Queue(pa.outbuf[:n*2]); err != nil {
		log.ModSound.DebugZ("failed to queue audio buffer").Error("err", err).End()
	}
}
