package visual

import "image/color"

// Levels are normalized band energies in [0, 1].
type Levels struct {
	Bass float64
	Mid  float64
	High float64
}

// Bands averages bass (0-15%), mid (15-40%) and high (40-85%) of the bins.
func Bands(freq []byte) Levels {
	n := len(freq)
	b1, b2, b3 := n*15/100, n*40/100, n*85/100
	return Levels{
		Bass: mean(freq[:b1]),
		Mid:  mean(freq[b1:b2]),
		High: mean(freq[b2:b3]),
	}
}

// Average returns the mean of all bins in [0, 1].
func Average(freq []byte) float64 {
	return mean(freq)
}

func mean(b []byte) float64 {
	if len(b) == 0 {
		return 0
	}
	sum := 0
	for _, v := range b {
		sum += int(v)
	}
	return float64(sum) / float64(len(b)) / 255
}

var (
	Magenta = color.RGBA{255, 0, 110, 255}
	Orange  = color.RGBA{251, 86, 7, 255}
	Yellow  = color.RGBA{255, 190, 11, 255}
	Cyan    = color.RGBA{6, 255, 165, 255}
	Blue    = color.RGBA{58, 134, 255, 255}
)

// LevelColor maps a normalized level onto the palette.
func LevelColor(v float64) color.RGBA {
	switch {
	case v > 0.7:
		return Magenta
	case v > 0.5:
		return Orange
	case v > 0.3:
		return Yellow
	default:
		return Cyan
	}
}

// BarColor picks a bar colour from a raw byte magnitude.
func BarColor(v byte) color.RGBA {
	switch {
	case v > 200:
		return Magenta
	case v > 150:
		return Orange
	case v > 100:
		return Yellow
	case v > 50:
		return Cyan
	default:
		return Blue
	}
}
