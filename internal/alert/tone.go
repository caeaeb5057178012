// ABOUTME: Synthesizes the rest-over beep as 16-bit mono PCM.
// ABOUTME: An 800 Hz sine with exponential gain decay, encoded as a WAV stream.
package alert

import (
	"bytes"
	"encoding/binary"
	"math"
	"time"
)

// Tone describes a decaying sine beep.
type Tone struct {
	Frequency  float64 // Hz
	StartGain  float64 // linear, 0..1
	EndGain    float64 // linear, reached at Duration
	Duration   time.Duration
	SampleRate int
}

// DefaultTone is the completion beep: 800 Hz, gain 0.3 ramping to 0.01 over half a second.
var DefaultTone = Tone{
	Frequency:  800,
	StartGain:  0.3,
	EndGain:    0.01,
	Duration:   500 * time.Millisecond,
	SampleRate: 44100,
}

// Samples renders the tone as signed 16-bit samples.
func (t Tone) Samples() []int16 {
	n := int(t.Duration.Seconds() * float64(t.SampleRate))
	if n <= 0 || t.SampleRate <= 0 {
		return nil
	}

	out := make([]int16, n)
	ratio := t.EndGain / t.StartGain
	for i := range out {
		pos := float64(i) / float64(n)
		gain := t.StartGain * math.Pow(ratio, pos)
		v := gain * math.Sin(2*math.Pi*t.Frequency*float64(i)/float64(t.SampleRate))
		out[i] = int16(v * math.MaxInt16)
	}
	return out
}

// WAV renders the tone as a RIFF/WAVE byte stream.
func (t Tone) WAV() []byte {
	samples := t.Samples()
	dataLen := uint32(len(samples) * 2)

	var buf bytes.Buffer
	buf.Grow(44 + int(dataLen))

	w := func(v any) { _ = binary.Write(&buf, binary.LittleEndian, v) }

	buf.WriteString("RIFF")
	w(36 + dataLen)
	buf.WriteString("WAVE")

	buf.WriteString("fmt ")
	w(uint32(16)) // chunk size
	w(uint16(1))  // PCM
	w(uint16(1))  // mono
	w(uint32(t.SampleRate))
	w(uint32(t.SampleRate * 2)) // byte rate
	w(uint16(2))                // block align
	w(uint16(16))               // bits per sample

	buf.WriteString("data")
	w(dataLen)
	w(samples)

	return buf.Bytes()
}
