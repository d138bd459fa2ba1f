package timeline

import (
	"strings"

	"github.com/tanema/gween/ease"
)

// DefaultEase is used when Vars.Ease is empty or unknown.
const DefaultEase = "power1.out"

type easeFamily struct {
	in, out, inOut ease.TweenFunc
}

// families maps GSAP-style ease names onto gween's Penner functions.
// powerN is a polynomial of degree N+1.
var families = map[string]easeFamily{
	"power1":  {ease.InQuad, ease.OutQuad, ease.InOutQuad},
	"quad":    {ease.InQuad, ease.OutQuad, ease.InOutQuad},
	"power2":  {ease.InCubic, ease.OutCubic, ease.InOutCubic},
	"cubic":   {ease.InCubic, ease.OutCubic, ease.InOutCubic},
	"power3":  {ease.InQuart, ease.OutQuart, ease.InOutQuart},
	"quart":   {ease.InQuart, ease.OutQuart, ease.InOutQuart},
	"power4":  {ease.InQuint, ease.OutQuint, ease.InOutQuint},
	"quint":   {ease.InQuint, ease.OutQuint, ease.InOutQuint},
	"expo":    {ease.InExpo, ease.OutExpo, ease.InOutExpo},
	"sine":    {ease.InSine, ease.OutSine, ease.InOutSine},
	"circ":    {ease.InCirc, ease.OutCirc, ease.InOutCirc},
	"back":    {ease.InBack, ease.OutBack, ease.InOutBack},
	"bounce":  {ease.InBounce, ease.OutBounce, ease.InOutBounce},
	"elastic": {ease.InElastic, ease.OutElastic, ease.InOutElastic},
}

// LookupEase resolves names such as "power2.inOut", "expo.out" or "none".
// A family without a variant means its out variant.
func LookupEase(name string) (ease.TweenFunc, bool) {
	name = strings.TrimSpace(name)
	switch strings.ToLower(name) {
	case "none", "linear", "power0", "power0.none":
		return ease.Linear, true
	}
	family, variant, _ := strings.Cut(name, ".")
	if i := strings.IndexByte(variant, '('); i >= 0 {
		// parameterised eases such as back.out(1.7) use gween's defaults
		variant = variant[:i]
	}
	f, ok := families[strings.ToLower(family)]
	if !ok {
		return nil, false
	}
	switch variant {
	case "", "out":
		return f.out, true
	case "in":
		return f.in, true
	case "inOut", "inout":
		return f.inOut, true
	}
	return nil, false
}
