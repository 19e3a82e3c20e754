package front

import (
	"github.com/veandco/go-sdl2/sdl"
)

const (
	sampleRate = 44100 // Samples per second.
	toneFreq   = 440   // Beeper pitch in Hz.
	toneGain   = 0x20  // Amplitude around the unsigned silence level.
)

// openAudio opens a mono 8-bit queue-fed audio device and builds one
// period of the square wave.
func (s *Screen) openAudio() (err error) {
	spec := &sdl.AudioSpec{
		Freq:     sampleRate,
		Format:   sdl.AUDIO_U8,
		Channels: 1,
		Samples:  512,
	}

	s.audio, err = sdl.OpenAudioDevice("", false, spec, nil, 0)
	if err != nil {
		return
	}

	period := sampleRate / toneFreq
	s.tone = make([]byte, period)
	for n := range s.tone {
		if n < period/2 {
			s.tone[n] = 0x80 + toneGain
		} else {
			s.tone[n] = 0x80 - toneGain
		}
	}

	return
}

// Sound turns the beeper on or off. While on, the queue is kept
// topped up with about a frame's worth of square wave so it never
// underruns between calls.
func (s *Screen) Sound(active bool) {
	if !active {
		sdl.ClearQueuedAudio(s.audio)
		sdl.PauseAudioDevice(s.audio, true)
		return
	}

	queued := int(sdl.GetQueuedAudioSize(s.audio))
	for queued < sampleRate/30 {
		sdl.QueueAudio(s.audio, s.tone)
		queued += len(s.tone)
	}
	sdl.PauseAudioDevice(s.audio, false)
}
