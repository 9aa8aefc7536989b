package spacedrep

// Quality is a 0-5 recall rating. Ratings below QualityPass count as a
// failed recall.
type Quality int

const (
	QualityBlackout Quality = 0
	QualityWrong    Quality = 1
	QualityHard     Quality = 2
	QualityPass     Quality = 3
	QualityGood     Quality = 4
	QualityPerfect  Quality = 5
)

// DefaultFastResponseMs is the response time at or below which a correct,
// unassisted answer is rated perfect.
const DefaultFastResponseMs int64 = 15_000

func (q Quality) clamp() Quality {
	if q < QualityBlackout {
		return QualityBlackout
	}
	if q > QualityPerfect {
		return QualityPerfect
	}
	return q
}

// QualityFor maps a practice outcome onto the recall scale. A nil response
// time is treated as not fast. fastMs <= 0 selects DefaultFastResponseMs.
func QualityFor(isCorrect bool, hintsUsed int, responseTimeMs *int64, fastMs int64) Quality {
	if fastMs <= 0 {
		fastMs = DefaultFastResponseMs
	}
	if isCorrect {
		switch {
		case hintsUsed > 0:
			return QualityPass
		case responseTimeMs != nil && *responseTimeMs <= fastMs:
			return QualityPerfect
		default:
			return QualityGood
		}
	}
	switch {
	case hintsUsed <= 0:
		return QualityHard
	case hintsUsed == 1:
		return QualityWrong
	default:
		return QualityBlackout
	}
}
