package systems

import (
	"github.com/Jinkieyz/lajfi/components"
	"github.com/Jinkieyz/lajfi/config"
)

// Appetite decides when and how far an organism can eat.
type Appetite struct {
	Range    float64
	Satiated float64 // 0 means never satiated
}

// NewAppetite builds feeding rules from the feeding config.
func NewAppetite(cfg config.FeedingConfig) Appetite {
	return Appetite{
		Range:    cfg.EatRange,
		Satiated: cfg.SatiatedEnergy,
	}
}

// Hungry reports whether a living organism is below the satiation level.
func (a Appetite) Hungry(v *components.Vitals) bool {
	return v.Alive && (a.Satiated <= 0 || v.Energy < a.Satiated)
}

// Feed lets a hungry organism eat the nearest plant within range.
// At most one plant is consumed per call. The plant's energy is added to
// vit and the eaten plant is returned.
func (a Appetite) Feed(pos components.Position, vit *components.Vitals, flora *FloraSystem) (Plant, bool) {
	if !a.Hungry(vit) {
		return Plant{}, false
	}
	i := flora.NearestWithin(pos, a.Range)
	if i < 0 {
		return Plant{}, false
	}
	p := flora.Consume(i)
	vit.Energy += p.Energy
	return p, true
}
