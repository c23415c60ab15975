package main

import (
	"github.com/veandco/go-sdl2/sdl"
)

const (
	/// ToneFrequency is the pitch of the CHIP-8 buzzer.
	///
	ToneFrequency = 440

	// samples per second and samples queued at a time
	sampleRate   = 22050
	sampleBuffer = 512
)

/// Audio plays a square wave tone while the sound timer is running.
///
type Audio struct {
	id   sdl.AudioDeviceID
	spec sdl.AudioSpec

	// one buffer of the square wave
	tone []byte
}

/// NewAudio opens an audio device for the CHIP-8 virtual machine.
///
func NewAudio() (*Audio, error) {
	spec := &sdl.AudioSpec{
		Freq:     sampleRate,
		Format:   sdl.AUDIO_U8,
		Channels: 1,
		Samples:  sampleBuffer,
	}

	aud := &Audio{}

	id, err := sdl.OpenAudioDevice("", false, spec, &aud.spec, 0)
	if err != nil {
		return nil, err
	}

	aud.id = id
	aud.tone = make([]byte, sampleBuffer)

	// fill in the square wave around the silence value
	period := int(aud.spec.Freq) / ToneFrequency
	for i := range aud.tone {
		if i%period < period/2 {
			aud.tone[i] = aud.spec.Silence + 32
		} else {
			aud.tone[i] = aud.spec.Silence - 32
		}
	}

	// start playing immediately, the queue decides what's heard
	sdl.PauseAudioDevice(aud.id, false)

	return aud, nil
}

/// Update queues the tone while on and silences the device otherwise.
///
func (aud *Audio) Update(on bool) error {
	if !on {
		sdl.ClearQueuedAudio(aud.id)
		return nil
	}

	// keep about two buffers ahead of the device
	if sdl.GetQueuedAudioSize(aud.id) >= 2*sampleBuffer {
		return nil
	}

	return sdl.QueueAudio(aud.id, aud.tone)
}

/// Close the audio device.
///
func (aud *Audio) Close() {
	sdl.CloseAudioDevice(aud.id)
}
