package service

import (
	"bizdiag_backend/internal/model"
	"bizdiag_backend/internal/util"
	"math"
)

type ScoreResult struct {
	OverallScore  float64             `json:"overall_score"`
	MaturityLevel model.MaturityLevel `json:"maturity_level"`
	AreaResults   []model.AreaResult  `json:"area_results"`
}

// ScoreSession computes the area and overall percentages of a template from
// the given responses. Responses to free-text or unknown questions are
// ignored. Area results keep the template's area order.
func ScoreSession(tpl *model.DiagnosticTemplate, responses []model.DiagnosticResponse, classifier *MaturityClassifier) ScoreResult {
	values := make(map[uint]float64, len(responses))
	for _, r := range responses {
		values[r.QuestionID] = r.NumericValue
	}

	results := make([]model.AreaResult, 0, len(tpl.Areas))
	var weightedSum, totalWeight float64
	for _, area := range tpl.Areas {
		var raw, maxScore float64
		for i := range area.Questions {
			q := &area.Questions[i]
			if !q.IsScored() {
				continue
			}
			maxScore += q.ScaleMax * q.Weight
			if v, ok := values[q.ID]; ok {
				raw += v * q.Weight
			}
		}

		pct := 0.0
		if maxScore > 0 {
			pct = clampPercentage(util.Round2(raw * 100 / maxScore))
		}

		results = append(results, model.AreaResult{
			AreaID:        area.ID,
			AreaName:      area.Name,
			Weight:        area.Weight,
			RawScore:      util.Round2(raw),
			MaxScore:      util.Round2(maxScore),
			Percentage:    pct,
			MaturityLevel: classifier.Level(pct),
		})

		weightedSum += pct * area.Weight / 100
		totalWeight += area.Weight
	}

	overall := 0.0
	if totalWeight > 0 {
		overall = weightedSum
		if math.Abs(totalWeight-100) > 1e-9 {
			overall = weightedSum * 100 / totalWeight
		}
	}
	overall = clampPercentage(util.Round2(overall))

	return ScoreResult{
		OverallScore:  overall,
		MaturityLevel: classifier.Level(overall),
		AreaResults:   results,
	}
}

func clampPercentage(v float64) float64 {
	return math.Min(100, math.Max(0, v))
}
