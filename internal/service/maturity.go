package service

import (
	"bizdiag_backend/internal/config"
	"bizdiag_backend/internal/model"
)

// Thresholds are the inclusive lower bounds of the basic, intermediate and
// advanced bands. Anything below Basic is initial.
type Thresholds struct {
	Basic        float64
	Intermediate float64
	Advanced     float64
}

var DefaultThresholds = Thresholds{Basic: 40, Intermediate: 60, Advanced: 80}

func ThresholdsFromConfig(cfg config.ThresholdConfig) Thresholds {
	return Thresholds{Basic: cfg.Basic, Intermediate: cfg.Intermediate, Advanced: cfg.Advanced}
}

// MaturityClassifier is the only place percentages are turned into levels,
// for both area and overall scores.
type MaturityClassifier struct {
	t Thresholds
}

func NewMaturityClassifier(t Thresholds) *MaturityClassifier {
	return &MaturityClassifier{t: t}
}

func (c *MaturityClassifier) Classify(pct float64) (model.MaturityLevel, model.Priority) {
	switch {
	case pct >= c.t.Advanced:
		return model.MaturityAdvanced, model.PriorityStrong
	case pct >= c.t.Intermediate:
		return model.MaturityIntermediate, model.PriorityGood
	case pct >= c.t.Basic:
		return model.MaturityBasic, model.PriorityImprovable
	default:
		return model.MaturityInitial, model.PriorityCritical
	}
}

func (c *MaturityClassifier) Level(pct float64) model.MaturityLevel {
	level, _ := c.Classify(pct)
	return level
}
