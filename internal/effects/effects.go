package effects

import (
	"strconv"
	"strings"

	"github.com/Southclaws/fault"
	"github.com/Southclaws/fault/fmsg"
	"github.com/Southclaws/fault/ftag"
)

// Effector processes the mono master bus one sample at a time.
type Effector interface {
	Process(x float32) float32
	Reset()
}

// Chain applies a sequence of effects in order.
type Chain struct {
	effects []Effector
}

func NewChain(effects ...Effector) *Chain {
	return &Chain{effects: effects}
}

func (c *Chain) Process(x float32) float32 {
	for _, e := range c.effects {
		x = e.Process(x)
	}
	return x
}

func (c *Chain) Reset() {
	for _, e := range c.effects {
		e.Reset()
	}
}

func (c *Chain) Add(e Effector) {
	c.effects = append(c.effects, e)
}

// Len returns the number of effects in the chain.
func (c *Chain) Len() int {
	return len(c.effects)
}

// ParseChain builds a chain from effect specs such as "delay 180,0.3,0.2".
// Blank specs are skipped. An empty chain is returned as nil.
func ParseChain(specs []string, sampleRate int) (*Chain, error) {
	chain := NewChain()
	for _, spec := range specs {
		if strings.TrimSpace(spec) == "" {
			continue
		}
		eff, err := Parse(spec, sampleRate)
		if err != nil {
			return nil, err
		}
		chain.Add(eff)
	}
	if chain.Len() == 0 {
		return nil, nil
	}
	return chain, nil
}

// Parse builds one effect from "<type> p1,p2,...". Missing params take
// defaults. Supports delay, reverb, distortion, eq, compressor and limiter.
func Parse(spec string, sampleRate int) (Effector, error) {
	raw := strings.TrimSpace(spec)
	parts := strings.SplitN(raw, " ", 2)
	effectType := strings.ToLower(strings.TrimSpace(parts[0]))
	var params []float64
	if len(parts) > 1 {
		for _, p := range strings.Split(parts[1], ",") {
			p = strings.TrimSpace(p)
			if p == "" {
				continue
			}
			v, err := strconv.ParseFloat(p, 64)
			if err != nil {
				return nil, fault.Wrap(err,
					fmsg.With("parse effect param"),
					ftag.With(ftag.InvalidArgument))
			}
			params = append(params, v)
		}
	}
	if eff := create(effectType, params, sampleRate); eff != nil {
		return eff, nil
	}
	return nil, fault.New("unknown effect "+strconv.Quote(effectType), ftag.With(ftag.InvalidArgument))
}

func create(effectType string, params []float64, sampleRate int) Effector {
	getParam := func(idx int, def float64) float64 {
		if idx < len(params) {
			return params[idx]
		}
		return def
	}
	switch effectType {
	case "delay":
		return NewDelay(sampleRate,
			getParam(0, 180),          // delay ms
			float32(getParam(1, 0.3)), // feedback
			float32(getParam(2, 0.2)), // wet
		)
	case "reverb":
		return NewReverb(sampleRate,
			float32(getParam(0, 0.5)),  // room size
			float32(getParam(1, 0.7)),  // feedback
			float32(getParam(2, 0.25)), // wet
		)
	case "dist", "distortion", "drive":
		return NewDistortion(sampleRate,
			float32(getParam(0, 3)),    // pre gain
			float32(getParam(1, 0.7)),  // post gain
			float32(getParam(2, 9000)), // lpf cutoff
		)
	case "eq":
		return NewEQ3Band(sampleRate,
			float32(getParam(0, 1.0)),  // low gain
			float32(getParam(1, 1.0)),  // mid gain
			float32(getParam(2, 1.0)),  // high gain
			float32(getParam(3, 250)),  // low freq
			float32(getParam(4, 4000)), // high freq
		)
	case "comp", "compressor":
		return NewCompressor(sampleRate,
			float32(getParam(0, -18)), // threshold dB
			float32(getParam(1, 4)),   // ratio
			float32(getParam(2, 2)),   // attack ms
			float32(getParam(3, 120)), // release ms
			float32(getParam(4, 3)),   // makeup dB
		)
	case "limit", "limiter":
		return NewCompressor(sampleRate,
			float32(getParam(0, -1)), // ceiling dB
			100,
			0.1,
			float32(getParam(1, 60)), // release ms
			0,
		)
	}
	return nil
}

func clamp(v, lo, hi float32) float32 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
