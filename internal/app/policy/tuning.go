package policy

import (
	"errors"
	"fmt"
)

var ErrInvalidTuning = errors.New("invalid tuning")

// Tuning holds the thresholds the selector reads. Values are process-wide and
// fixed for the lifetime of a run.
type Tuning struct {
	CriticalLife      int     `yaml:"critical_life" json:"critical_life"`
	MinLifeBeforeHeal int     `yaml:"min_life_before_heal" json:"min_life_before_heal"`
	HealPrice         int     `yaml:"heal_price" json:"heal_price"`
	StepCost          float64 `yaml:"step_cost" json:"step_cost"`
	HazardCost        int     `yaml:"hazard_cost" json:"hazard_cost"`
	DiscountNear      int     `yaml:"discount_near" json:"discount_near"`
	DiscountFar       int     `yaml:"discount_far" json:"discount_far"`
}

const (
	DefaultCriticalLife      = 25
	DefaultMinLifeBeforeHeal = 70
	DefaultHealPrice         = 2
	DefaultStepCost          = 0.5
	DefaultHazardCost        = 5
	DefaultDiscountNear      = 3
	DefaultDiscountFar       = 13
)

func DefaultTuning() Tuning {
	return Tuning{
		CriticalLife:      DefaultCriticalLife,
		MinLifeBeforeHeal: DefaultMinLifeBeforeHeal,
		HealPrice:         DefaultHealPrice,
		StepCost:          DefaultStepCost,
		HazardCost:        DefaultHazardCost,
		DiscountNear:      DefaultDiscountNear,
		DiscountFar:       DefaultDiscountFar,
	}
}

func (t Tuning) Validate() error {
	switch {
	case t.CriticalLife < 0 || t.MinLifeBeforeHeal < 0:
		return fmt.Errorf("%w: life thresholds must be >= 0", ErrInvalidTuning)
	case t.HealPrice < 0:
		return fmt.Errorf("%w: heal_price must be >= 0", ErrInvalidTuning)
	case t.StepCost < 0:
		return fmt.Errorf("%w: step_cost must be >= 0", ErrInvalidTuning)
	case t.HazardCost < 1:
		return fmt.Errorf("%w: hazard_cost must be >= 1", ErrInvalidTuning)
	case t.DiscountFar <= t.DiscountNear:
		return fmt.Errorf("%w: discount_far must exceed discount_near", ErrInvalidTuning)
	}
	return nil
}

// discount scales the score of an order the hero can already deliver: 0 at
// DiscountNear steps, 1 at DiscountFar steps, linear and clamped between.
func (t Tuning) discount(steps int) float64 {
	d := float64(steps-t.DiscountNear) / float64(t.DiscountFar-t.DiscountNear)
	if d < 0 {
		return 0
	}
	if d > 1 {
		return 1
	}
	return d
}
