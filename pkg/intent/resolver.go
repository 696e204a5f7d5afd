package intent

// Resolution is the winning intent for one signal snapshot.
type Resolution struct {
	IntentType Type    `json:"intentType"`
	Score      float64 `json:"score"`
}

// Resolve evaluates every active rule and returns the matching rule with
// the strictly highest score, or nil when no rule matches. A rule matches
// when its score reaches its own threshold.
//
// Ties keep the first-seen rule, so the caller-supplied order decides;
// rule stores return rules ordered by threshold descending to keep this
// deterministic. Matching is score >= threshold, so a zero-threshold
// rule resolves even at score zero rather than requiring a strictly
// positive score.
func Resolve(rules []Rule, signals SignalSet) *Resolution {
	var best *Resolution

	for _, rule := range rules {
		if !rule.IsActive {
			continue
		}

		score := Evaluate(rule, signals)
		if score < rule.Threshold {
			continue
		}

		if best == nil || score > best.Score {
			best = &Resolution{
				IntentType: rule.IntentType,
				Score:      score,
			}
		}
	}

	return best
}
