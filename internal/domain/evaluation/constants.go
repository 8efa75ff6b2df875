package evaluation

const (
	PeriodQuarterly  = "quarterly"
	PeriodSemiAnnual = "semi_annual"
	PeriodAnnual     = "annual"

	RatingOutstanding  = "outstanding"
	RatingExceeds      = "exceeds_expectations"
	RatingMeets        = "meets_expectations"
	RatingNeedsImprove = "needs_improvement"
	RatingUnsatisfying = "unsatisfactory"
)

var PeriodTypes = []string{PeriodQuarterly, PeriodSemiAnnual, PeriodAnnual}

var Ratings = []string{RatingOutstanding, RatingExceeds, RatingMeets, RatingNeedsImprove, RatingUnsatisfying}
