package analytics

// Quality score weights. They blend bounce rate, conversion rate and
// normalized engagement duration into a single ranking value and must sum
// to 1 so the score stays within [0,1].
const (
	WeightBounceRate     = 0.30
	WeightConversionRate = 0.40
	WeightDuration       = 0.30
)

// ConversionRate returns conversions/sessions as a fraction, defined as 0
// when there are no sessions.
func ConversionRate(conversions, sessions int64) float64 {
	if sessions <= 0 {
		return 0
	}
	return float64(conversions) / float64(sessions)
}

// QualityScore blends the three ranking inputs. All inputs are fractions in
// [0,1]; the score is monotonically non-decreasing in conversion rate,
// normalized duration and (1 - bounce rate).
func QualityScore(bounceRate, conversionRate, normalizedDuration float64) float64 {
	return WeightBounceRate*(1-bounceRate) +
		WeightConversionRate*conversionRate +
		WeightDuration*normalizedDuration
}

// DeriveMetrics computes the derived fields (conversion rate, normalized
// duration, quality score) for a set of group aggregates. Durations are
// normalized against the maximum mean duration within the set; when every
// duration is 0 the normalized value is 0 for all. The input is not
// modified.
func DeriveMetrics(groups []GroupAggregate) []GroupAggregate {
	if len(groups) == 0 {
		return []GroupAggregate{}
	}

	derived := make([]GroupAggregate, len(groups))
	copy(derived, groups)

	var maxDuration float64
	for i := range derived {
		derived[i].ConversionRate = ConversionRate(derived[i].Conversions, derived[i].Sessions)
		if derived[i].AvgDuration > maxDuration {
			maxDuration = derived[i].AvgDuration
		}
	}

	for i := range derived {
		if maxDuration > 0 {
			derived[i].NormalizedDuration = derived[i].AvgDuration / maxDuration
		}
		derived[i].QualityScore = QualityScore(derived[i].BounceRate, derived[i].ConversionRate, derived[i].NormalizedDuration)
	}

	return derived
}
