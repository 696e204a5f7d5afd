package intent

// Evaluate scores one rule against a signal snapshot and returns a
// normalized score in [0,100].
//
// Only enabled criteria whose name is present in the signal bag take part.
// Every participating criterion adds its weight to the denominator; it adds
// the same weight to the numerator when it passes: booleans when true,
// numeric behavioral signals when the value reaches the criterion
// threshold, historical and device-context factors when the value is
// truthy. A missing signal key skips the criterion entirely.
//
// An empty denominator yields exactly 0, never NaN; zero is the ordinary
// "no intent evidence" outcome.
func Evaluate(rule Rule, signals SignalSet) float64 {
	var totalScore, totalWeight float64

	for _, criterion := range rule.BehavioralSignals {
		if !criterion.Enabled {
			continue
		}
		value, ok := signals[criterion.Name]
		if !ok {
			continue
		}

		switch v := value.(type) {
		case bool:
			if v {
				totalScore += criterion.Weight
			}
		default:
			if n, isNum := asNumber(value); isNum && n >= criterion.Threshold {
				totalScore += criterion.Weight
			}
		}
		totalWeight += criterion.Weight
	}

	for _, factor := range rule.HistoricalFactors {
		if !factor.Enabled {
			continue
		}
		value, ok := signals[factor.Name]
		if !ok {
			continue
		}
		if truthy(value) {
			totalScore += factor.Weight
		}
		totalWeight += factor.Weight
	}

	for _, context := range rule.DeviceContext {
		if !context.Enabled {
			continue
		}
		value, ok := signals[context.Name]
		if !ok {
			continue
		}
		if truthy(value) {
			totalScore += context.Weight
		}
		totalWeight += context.Weight
	}

	if totalWeight == 0 {
		return 0
	}

	return (totalScore / totalWeight) * 100
}
