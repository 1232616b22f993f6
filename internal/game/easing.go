package game

import "math"

// Easing maps progress in [0, 1] onto [0, 1] with Ease(0) == 0 and Ease(1) == 1.
// The numbering matches the easing ids used by RPE and PEC charts.
type Easing uint8

const (
	Linear Easing = iota + 1
	OutSine
	InSine
	OutQuad
	InQuad
	InOutSine
	InOutQuad
	OutCubic
	InCubic
	OutQuart
	InQuart
	InOutCubic
	InOutQuart
	OutQuint
	InQuint
	OutExpo
	InExpo
	OutCirc
	InCirc
	OutBack
	InBack
	InOutCirc
	InOutBack
	OutElastic
	InElastic
	OutBounce
	InBounce
	InOutBounce
	InOutElastic
)

const (
	backC1    = 1.70158
	backC2    = backC1 * 1.525
	backC3    = backC1 + 1
	elasticC4 = 2 * math.Pi / 3
	elasticC5 = 2 * math.Pi / 4.5
)

func outBounce(x float64) float64 {
	const n1, d1 = 7.5625, 2.75
	switch {
	case x < 1/d1:
		return n1 * x * x
	case x < 2/d1:
		x -= 1.5 / d1
		return n1*x*x + 0.75
	case x < 2.5/d1:
		x -= 2.25 / d1
		return n1*x*x + 0.9375
	default:
		x -= 2.625 / d1
		return n1*x*x + 0.984375
	}
}

var easings = map[Easing]func(float64) float64{
	Linear:    func(x float64) float64 { return x },
	OutSine:   func(x float64) float64 { return math.Sin(x * math.Pi / 2) },
	InSine:    func(x float64) float64 { return 1 - math.Cos(x*math.Pi/2) },
	OutQuad:   func(x float64) float64 { return 1 - (1-x)*(1-x) },
	InQuad:    func(x float64) float64 { return x * x },
	InOutSine: func(x float64) float64 { return -(math.Cos(math.Pi*x) - 1) / 2 },
	InOutQuad: func(x float64) float64 {
		if x < 0.5 {
			return 2 * x * x
		}
		return 1 - math.Pow(-2*x+2, 2)/2
	},
	OutCubic: func(x float64) float64 { return 1 - math.Pow(1-x, 3) },
	InCubic:  func(x float64) float64 { return x * x * x },
	OutQuart: func(x float64) float64 { return 1 - math.Pow(1-x, 4) },
	InQuart:  func(x float64) float64 { return math.Pow(x, 4) },
	InOutCubic: func(x float64) float64 {
		if x < 0.5 {
			return 4 * x * x * x
		}
		return 1 - math.Pow(-2*x+2, 3)/2
	},
	InOutQuart: func(x float64) float64 {
		if x < 0.5 {
			return 8 * math.Pow(x, 4)
		}
		return 1 - math.Pow(-2*x+2, 4)/2
	},
	OutQuint: func(x float64) float64 { return 1 - math.Pow(1-x, 5) },
	InQuint:  func(x float64) float64 { return math.Pow(x, 5) },
	OutExpo: func(x float64) float64 {
		if x == 1 {
			return 1
		}
		return 1 - math.Pow(2, -10*x)
	},
	InExpo: func(x float64) float64 {
		if x == 0 {
			return 0
		}
		return math.Pow(2, 10*x-10)
	},
	OutCirc: func(x float64) float64 { return math.Sqrt(1 - math.Pow(x-1, 2)) },
	InCirc:  func(x float64) float64 { return 1 - math.Sqrt(1-x*x) },
	OutBack: func(x float64) float64 { return 1 + backC3*math.Pow(x-1, 3) + backC1*math.Pow(x-1, 2) },
	InBack:  func(x float64) float64 { return backC3*x*x*x - backC1*x*x },
	InOutCirc: func(x float64) float64 {
		if x < 0.5 {
			return (1 - math.Sqrt(1-math.Pow(2*x, 2))) / 2
		}
		return (math.Sqrt(1-math.Pow(-2*x+2, 2)) + 1) / 2
	},
	InOutBack: func(x float64) float64 {
		if x < 0.5 {
			return math.Pow(2*x, 2) * ((backC2+1)*2*x - backC2) / 2
		}
		return (math.Pow(2*x-2, 2)*((backC2+1)*(x*2-2)+backC2) + 2) / 2
	},
	OutElastic: func(x float64) float64 {
		if x == 0 || x == 1 {
			return x
		}
		return math.Pow(2, -10*x)*math.Sin((x*10-0.75)*elasticC4) + 1
	},
	InElastic: func(x float64) float64 {
		if x == 0 || x == 1 {
			return x
		}
		return -math.Pow(2, 10*x-10) * math.Sin((x*10-10.75)*elasticC4)
	},
	OutBounce: outBounce,
	InBounce:  func(x float64) float64 { return 1 - outBounce(1-x) },
	InOutBounce: func(x float64) float64 {
		if x < 0.5 {
			return (1 - outBounce(1-2*x)) / 2
		}
		return (1 + outBounce(2*x-1)) / 2
	},
	InOutElastic: func(x float64) float64 {
		if x == 0 || x == 1 {
			return x
		}
		if x < 0.5 {
			return -(math.Pow(2, 20*x-10) * math.Sin((20*x-11.125)*elasticC5)) / 2
		}
		return math.Pow(2, -20*x+10)*math.Sin((20*x-11.125)*elasticC5)/2 + 1
	},
}

// EasingFromID falls back to Linear for ids outside the table.
func EasingFromID(id int64) Easing {
	e := Easing(id)
	if _, ok := easings[e]; !ok || id < 0 || id > int64(InOutElastic) {
		return Linear
	}
	return e
}

// Ease clamps x into [0, 1]; the endpoints are returned exactly.
func (e Easing) Ease(x float64) float64 {
	if x <= 0 {
		return 0
	}
	if x >= 1 {
		return 1
	}
	f, ok := easings[e]
	if !ok {
		return x
	}
	return f(x)
}
