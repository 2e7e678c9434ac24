package emu

import (
	"unsafe"

	"github.com/veandco/go-sdl2/sdl"

	"pakhost/emu/log"
)

const (
	AudioFormat     = sdl.AUDIO_S16LSB
	AudioChannels   = 2
	AudioBufferSize = 4096
)

// SDLSink plays samples on the default SDL audio device.
type SDLSink struct {
	id   sdl.AudioDeviceID
	spec sdl.AudioSpec
}

func OpenSDLSink(sampleRate int) (*SDLSink, error) {
	if err := sdl.InitSubSystem(sdl.INIT_AUDIO); err != nil {
		return nil, err
	}

	spec := &sdl.AudioSpec{
		Freq:     int32(sampleRate),
		Format:   AudioFormat,
		Channels: AudioChannels,
		Samples:  AudioBufferSize,
	}

	s := &SDLSink{}
	var err error
	s.id, err = sdl.OpenAudioDevice("", false, spec, &s.spec, 0)
	if err != nil {
		sdl.QuitSubSystem(sdl.INIT_AUDIO)
		return nil, err
	}

	log.ModSound.InfoZ("audio device opened").
		Int("freq", int(s.spec.Freq)).
		Int("samples", int(s.spec.Samples)).
		End()

	sdl.PauseAudioDevice(s.id, false)
	return s, nil
}

func (s *SDLSink) Queue(samples []int16) error {
	if len(samples) == 0 {
		return nil
	}
	buf := unsafe.Slice((*byte)(unsafe.Pointer(&samples[0])), len(samples)*2)
	cpy := make([]byte, len(buf))
	copy(cpy, buf)
	return sdl.QueueAudio(s.id, cpy)
}

func (s *SDLSink) Close() {
	sdl.ClearQueuedAudio(s.id)
	sdl.CloseAudioDevice(s.id)
	sdl.QuitSubSystem(sdl.INIT_AUDIO)
}
