package effects

import "math"

// EQ3Band splits the bus at two crossovers and scales each band.
type EQ3Band struct {
	lowGain  float32
	midGain  float32
	highGain float32
	lpAlpha  float32
	hpAlpha  float32
	lp, hp   float32
}

// NewEQ3Band creates a 3-band EQ.
// lowGain, midGain, highGain: 1.0 = unity
// lowFreq, highFreq: crossover frequencies in Hz
func NewEQ3Band(sampleRate int, lowGain, midGain, highGain, lowFreq, highFreq float32) *EQ3Band {
	dt := 1.0 / float64(sampleRate)
	alpha := func(freq float32) float32 {
		rc := 1.0 / (2.0 * math.Pi * float64(freq))
		return float32(dt / (rc + dt))
	}
	return &EQ3Band{
		lowGain:  lowGain,
		midGain:  midGain,
		highGain: highGain,
		lpAlpha:  alpha(lowFreq),
		hpAlpha:  alpha(highFreq),
	}
}

func (eq *EQ3Band) Process(x float32) float32 {
	eq.lp += eq.lpAlpha * (x - eq.lp)
	low := eq.lp

	eq.hp += eq.hpAlpha * (x - eq.hp)
	high := x - eq.hp

	mid := x - low - high
	return low*eq.lowGain + mid*eq.midGain + high*eq.highGain
}

func (eq *EQ3Band) Reset() {
	eq.lp, eq.hp = 0, 0
}
