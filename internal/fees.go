package internal

import "context"

// Age categories and performance types used as fee-table and ranking keys.
const (
	AgeMini   = "mini"
	AgeJunior = "junior"
	AgeTeen   = "teen"
	AgeSenior = "senior"

	TypeSolo  = "solo"
	TypeDuet  = "duet"
	TypeTrio  = "trio"
	TypeGroup = "group"
)

// Entry fees in whole dollars, keyed by (age category, performance type).
var feeTable = map[string]map[string]int{
	AgeMini:   {TypeSolo: 35, TypeDuet: 30, TypeTrio: 30, TypeGroup: 25},
	AgeJunior: {TypeSolo: 40, TypeDuet: 35, TypeTrio: 35, TypeGroup: 30},
	AgeTeen:   {TypeSolo: 45, TypeDuet: 40, TypeTrio: 40, TypeGroup: 35},
	AgeSenior: {TypeSolo: 50, TypeDuet: 45, TypeTrio: 45, TypeGroup: 40},
}

// Nationals base rates. Solos bill per solo entered, duets and trios bill
// per participant, groups bill a flat tier by head count.
const (
	nationalsSoloRate        = 115
	nationalsPerDancerRate   = 70
	nationalsGroupSmallFee   = 300 // up to 9 dancers
	nationalsGroupLargeFee   = 450 // 10 or more
	nationalsGroupSmallLimit = 9
)

// Registration fee owed once per dancer, keyed by mastery level.
var registrationFeeTable = map[string]int{
	"novice":       25,
	"intermediate": 30,
	"advanced":     35,
}

// CalculateFee is a pure lookup; identical arguments always return the same
// fee.
func CalculateFee(ageCategory, performanceType string) (int, error) {
	byType, ok := feeTable[ageCategory]
	if !ok {
		return 0, &ValidationError{Msg: "unknown age category: " + ageCategory}
	}
	fee, ok := byType[performanceType]
	if !ok {
		return 0, &ValidationError{Msg: "unknown performance type: " + performanceType}
	}
	return fee, nil
}

// CalculateNationalsFee computes the tiered base fee plus one registration
// fee for every participant who has not yet paid for their mastery level.
// Payment flags are read from the store; the arithmetic itself is pure, so
// identical store state and arguments produce identical breakdowns.
func CalculateNationalsFee(ctx context.Context, st Store, performanceType string, soloCount, participantCount int, participantIDs []int) (*FeeBreakdown, error) {
	if participantCount < 0 || soloCount < 0 {
		return nil, &ValidationError{Msg: "counts must be non-negative"}
	}

	var base int
	switch performanceType {
	case TypeSolo:
		base = nationalsSoloRate * soloCount
	case TypeDuet, TypeTrio:
		base = nationalsPerDancerRate * participantCount
	case TypeGroup:
		if participantCount <= nationalsGroupSmallLimit {
			base = nationalsGroupSmallFee
		} else {
			base = nationalsGroupLargeFee
		}
	default:
		return nil, &ValidationError{Msg: "unknown performance type: " + performanceType}
	}

	dancers, err := st.DancersByIDs(ctx, participantIDs)
	if err != nil {
		return nil, err
	}

	regTotal := 0
	unpaid := 0
	for _, d := range dancers {
		if d.RegistrationPaid {
			continue
		}
		fee, ok := registrationFeeTable[d.MasteryLevel]
		if !ok {
			return nil, &ValidationError{Msg: "unknown mastery level: " + d.MasteryLevel}
		}
		regTotal += fee
		unpaid++
	}

	return &FeeBreakdown{
		BaseFee:          base,
		RegistrationFees: regTotal,
		UnpaidCount:      unpaid,
		Total:            base + regTotal,
	}, nil
}
