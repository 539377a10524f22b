package assets

import (
	"encoding/binary"
	"math"

	"github.com/hajimehoshi/ebiten/v2/audio"

	"github.com/milk9111/toybox/common"
)

const sampleRate = 44100

var audioContext = audio.NewContext(sampleRate)

var (
	masterVolume = 0.8
	muted        bool

	grabTone    = tone(520, 0.08, 0.5)
	releaseTone = tone(360, 0.10, 0.45)
	shoveTone   = tone(240, 0.14, 0.6)
	thudTone    = tone(110, 0.22, 0.8)
)

// SetVolume sets the master volume for all effect sounds.
func SetVolume(v float64) {
	masterVolume = common.Clamp(v, 0, 1)
}

// SetMuted silences all effect sounds without touching the volume.
func SetMuted(m bool) {
	muted = m
}

func PlayGrab()    { play(grabTone, 1) }
func PlayRelease() { play(releaseTone, 1) }
func PlayShove()   { play(shoveTone, 1) }

// PlayThud plays an impact sound scaled by collision speed. Slow touches
// stay quiet so resting stacks don't crackle.
func PlayThud(speed float64) {
	if speed < 40 {
		return
	}
	play(thudTone, common.Clamp(speed/600, 0.15, 1))
}

func play(pcm []byte, vol float64) {
	if muted {
		return
	}
	v := vol * masterVolume
	if v <= 0 {
		return
	}
	p := audioContext.NewPlayerFromBytes(pcm)
	p.SetVolume(v)
	p.Play()
}

// tone renders a decaying sine as 16-bit little endian stereo PCM, the
// context's native byte format.
func tone(freq, dur, vol float64) []byte {
	n := int(sampleRate * dur)
	b := make([]byte, n*4)
	for i := 0; i < n; i++ {
		t := float64(i) / sampleRate
		env := math.Exp(-5 * t / dur)
		s := int16(vol * env * math.Sin(2*math.Pi*freq*t) * math.MaxInt16 * 0.6)
		binary.LittleEndian.PutUint16(b[i*4:], uint16(s))
		binary.LittleEndian.PutUint16(b[i*4+2:], uint16(s))
	}
	return b
}
