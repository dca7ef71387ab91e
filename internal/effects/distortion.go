package effects

import "math"

// Distortion is a tanh drive with an optional one-pole lowpass after it.
type Distortion struct {
	preGain  float32
	postGain float32
	lpfAlpha float32
	lpf      float32
}

// NewDistortion creates a drive effect.
// preGain: input gain (higher = more saturation)
// postGain: output gain
// lpfCutoff: lowpass cutoff in Hz (0 = no filter)
func NewDistortion(sampleRate int, preGain, postGain, lpfCutoff float32) *Distortion {
	d := &Distortion{
		preGain:  preGain,
		postGain: postGain,
	}
	if lpfCutoff > 0 && lpfCutoff < float32(sampleRate)/2 {
		rc := 1.0 / (2.0 * math.Pi * float64(lpfCutoff))
		dt := 1.0 / float64(sampleRate)
		d.lpfAlpha = float32(dt / (rc + dt))
	}
	return d
}

func (d *Distortion) Process(x float32) float32 {
	x = float32(math.Tanh(float64(x*d.preGain))) * d.postGain
	if d.lpfAlpha > 0 {
		d.lpf += d.lpfAlpha * (x - d.lpf)
		x = d.lpf
	}
	return x
}

func (d *Distortion) Reset() {
	d.lpf = 0
}
