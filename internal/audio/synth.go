package audio

import (
	"encoding/binary"
	"math"
)

// SoundKind identifies a sound effect.
type SoundKind int

const (
	SoundKill SoundKind = iota
	SoundPickup
	SoundHurt
	SoundTrap
	SoundUnlock
	SoundGameOver
)

// putFrame writes a mono sample to every channel of frame i as float32 LE.
func putFrame(buf []byte, i int, sample float64) {
	bits := math.Float32bits(float32(sample))
	frame := buf[i*bytesPerFrame : (i+1)*bytesPerFrame]
	for ch := 0; ch < ChannelCount; ch++ {
		binary.LittleEndian.PutUint32(frame[ch*4:], bits)
	}
}

// saturate folds any level into (-1, 1), rounding off peaks instead of clipping.
func saturate(x float64) float64 {
	return math.Tanh(x)
}

// envelope is a linear attack, decay, sustain, release shape over a sound's
// progress in [0,1]. attack, decay and release are fractions of the length.
type envelope struct {
	attack, decay, sustain, release float64
}

func (e envelope) at(p float64) float64 {
	switch {
	case p < e.attack:
		return p / e.attack
	case p < e.attack+e.decay:
		return 1 - (1-e.sustain)*(p-e.attack)/e.decay
	case p < 1-e.release:
		return e.sustain
	case p >= 1:
		return 0
	}
	return e.sustain * (1 - p) / e.release
}

// operator is a two-operator FM pair: a sine carrier phase-modulated by a sine
// at ratio times its frequency. index is the modulation depth at full drive.
type operator struct {
	ratio, index float64
}

func (o operator) sample(t, freq, drive float64) float64 {
	mod := math.Sin(2 * math.Pi * freq * o.ratio * t)
	return math.Sin(2*math.Pi*freq*t + o.index*drive*mod)
}

// noise is a xorshift generator yielding white noise in [-1, 1).
type noise uint64

func (n *noise) next() float64 {
	x := uint64(*n)
	if x == 0 {
		x = 0x9e3779b97f4a7c15
	}
	x ^= x << 13
	x ^= x >> 7
	x ^= x << 17
	*n = noise(x)
	return float64(x>>11)/(1<<52) - 1
}

func frames(n int) []byte { return make([]byte, n*bytesPerFrame) }

func generate(kind SoundKind) []byte {
	switch kind {
	case SoundKill:
		return genKill()
	case SoundPickup:
		return genPickup()
	case SoundHurt:
		return genHurt()
	case SoundTrap:
		return genTrap()
	case SoundUnlock:
		return genUnlock()
	case SoundGameOver:
		return genGameOver()
	}
	return nil
}

// genKill: filtered noise swish over a falling thud.
func genKill() []byte {
	n := int(0.24 * SampleRate)
	buf := frames(n)
	src := noise(0x6b1d)
	env := envelope{attack: 0.03, decay: 0.35, sustain: 0.25, release: 0.45}
	smooth := 0.0
	for i := 0; i < n; i++ {
		t := float64(i) / SampleRate
		p := float64(i) / float64(n)
		smooth += (src.next() - smooth) * (0.55 - 0.45*p)
		swish := smooth * math.Exp(-p*8) * 0.6
		thud := math.Sin(2*math.Pi*(120-70*p)*t) * env.at(p) * 0.6
		putFrame(buf, i, saturate(swish+thud))
	}
	return buf
}

// genPickup: bright chirp climbing an octave.
func genPickup() []byte {
	n := int(0.15 * SampleRate)
	buf := frames(n)
	env := envelope{attack: 0.02, decay: 0.4, sustain: 0.3, release: 0.3}
	op := operator{ratio: 2, index: 2.5}
	for i := 0; i < n; i++ {
		t := float64(i) / SampleRate
		p := float64(i) / float64(n)
		e := env.at(p)
		putFrame(buf, i, saturate(op.sample(t, 700*(1+p), e)*e*0.45))
	}
	return buf
}

// genHurt: buzzy tone sliding down.
func genHurt() []byte {
	n := int(0.18 * SampleRate)
	buf := frames(n)
	env := envelope{attack: 0.02, decay: 0.5, sustain: 0.15, release: 0.3}
	op := operator{ratio: 1.5, index: 3}
	for i := 0; i < n; i++ {
		t := float64(i) / SampleRate
		p := float64(i) / float64(n)
		e := env.at(p)
		freq := 300 - 190*p
		s := op.sample(t, freq, 1-p)*e*0.5 + math.Sin(4*math.Pi*freq*t)*e*0.12
		putFrame(buf, i, saturate(s))
	}
	return buf
}

// genTrap: metallic clang from inharmonic partials, higher ones dying first.
func genTrap() []byte {
	n := int(0.32 * SampleRate)
	buf := frames(n)
	partials := []float64{497, 1210, 1843, 2711}
	for i := 0; i < n; i++ {
		t := float64(i) / SampleRate
		p := float64(i) / float64(n)
		s := 0.0
		for k, f := range partials {
			s += math.Sin(2*math.Pi*f*t) * math.Exp(-p*float64(5+5*k))
		}
		putFrame(buf, i, saturate(s*0.2))
	}
	return buf
}

// genUnlock: rising arpeggio of bells, each note ringing under the next.
func genUnlock() []byte {
	notes := []float64{392, 493.88, 587.33, 783.99, 987.77}
	step := int(0.1 * SampleRate)
	total := len(notes)*step + int(0.3*SampleRate)
	env := envelope{attack: 0.005, decay: 0.6, sustain: 0.05, release: 0.3}
	bell := operator{ratio: 3.5, index: 5}
	mix := make([]float64, total)

	for k, freq := range notes {
		start := k * step
		length := total - start
		for j := 0; j < length; j++ {
			t := float64(start+j) / SampleRate
			e := env.at(float64(j) / float64(length))
			mix[start+j] += bell.sample(t, freq, e)*e*0.26 + math.Sin(4*math.Pi*freq*t)*e*0.06
		}
	}
	buf := frames(total)
	for i, s := range mix {
		putFrame(buf, i, saturate(s))
	}
	return buf
}

// genGameOver: a minor triad falling in from the top, detuning as it fades.
func genGameOver() []byte {
	n := int(0.8 * SampleRate)
	notes := []struct{ freq, onset float64 }{
		{311.13, 0.00},
		{261.63, 0.15},
		{207.65, 0.30},
	}
	env := envelope{attack: 0.01, decay: 0.3, sustain: 0.35, release: 0.4}
	op := operator{ratio: 2, index: 1.8}
	mix := make([]float64, n)
	for _, note := range notes {
		start := int(note.onset * SampleRate)
		for i := start; i < n; i++ {
			t := float64(i) / SampleRate
			p := float64(i-start) / float64(n-start)
			e := env.at(p)
			freq := note.freq * (1 - p*0.03)
			mix[i] += op.sample(t, freq, e)*e*0.3 + math.Sin(math.Pi*freq*t)*e*0.12
		}
	}
	buf := frames(n)
	for i, s := range mix {
		putFrame(buf, i, saturate(s))
	}
	return buf
}

// drumKit holds the percussion voices of the music loop. Each voice takes the
// time in seconds since its hit.
type drumKit struct {
	noise noise
	last  float64
}

// kick is a sine whose pitch drops from 160Hz to 45Hz. The phase is the
// integral of that sweep.
func (d *drumKit) kick(dt float64) float64 {
	if dt > 0.3 {
		return 0
	}
	const base, sweep, rate = 45.0, 115.0, 28.0
	phase := 2 * math.Pi * (base*dt + sweep/rate*(1-math.Exp(-rate*dt)))
	return math.Sin(phase) * math.Exp(-dt*12)
}

func (d *drumKit) snare(dt float64) float64 {
	if dt > 0.18 {
		return 0
	}
	env := math.Exp(-dt * 24)
	return math.Sin(2*math.Pi*196*dt)*env*0.3 + d.noise.next()*env*0.5
}

// hat is noise through a first-difference high-pass.
func (d *drumKit) hat(dt float64) float64 {
	if dt > 0.05 {
		return 0
	}
	x := d.noise.next()
	s := (x - d.last) * 0.5
	d.last = x
	return s * math.Exp(-dt*60) * 0.12
}

var (
	bassOp = operator{ratio: 1, index: 1.4}
	arpOp  = operator{ratio: 3, index: 2.2}
)

func bass(t, freq, env float64) float64 {
	return bassOp.sample(t, freq, env)*env*0.45 + math.Sin(2*math.Pi*freq*t)*env*0.25
}

// arp adds a slightly detuned sine for width.
func arp(t, freq, env float64) float64 {
	return arpOp.sample(t, freq, env)*env*0.2 + math.Sin(2*math.Pi*freq*1.004*t)*env*0.07
}
