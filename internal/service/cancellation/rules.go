package cancellation

import (
	"github.com/shopspring/decimal"
	"github.com/staffhub/shiftcore-backend-go/internal/domain/cancellation"
)

// Fine is one applicable penalty, keyed by its stable reason code.
type Fine struct {
	Reason string
	Amount decimal.Decimal
}

// evaluateFines is the single entry point for both rule paths: the owner's
// ordered rule list is evaluated first; when the list is empty or nothing
// matches, the static settings decide. Short-notice and invalid-reason fines
// from static settings are additive, not exclusive.
func evaluateFines(rules []cancellation.FineRule, settings *cancellation.OwnerSettings, hoursBefore float64, reasonExcused bool) []Fine {
	if fines := evaluateRuleList(rules, hoursBefore, reasonExcused); len(fines) > 0 {
		return fines
	}

	if settings == nil {
		return nil
	}

	var fines []Fine
	if hoursBefore < settings.ShortNoticeHours && settings.ShortNoticeFine.IsPositive() {
		fines = append(fines, Fine{
			Reason: cancellation.FineReasonShortNotice,
			Amount: settings.ShortNoticeFine,
		})
	}
	if !reasonExcused && settings.InvalidReasonFine.IsPositive() {
		fines = append(fines, Fine{
			Reason: cancellation.FineReasonInvalidReason,
			Amount: settings.InvalidReasonFine,
		})
	}
	return fines
}

func evaluateRuleList(rules []cancellation.FineRule, hoursBefore float64, reasonExcused bool) []Fine {
	var fines []Fine
	seen := make(map[string]bool)
	for _, rule := range rules {
		if !rule.FineAmount.IsPositive() || seen[rule.FineReason] {
			continue
		}

		matched := false
		switch rule.Predicate {
		case cancellation.PredicateHoursBeforeLT:
			matched = rule.HoursThreshold != nil && hoursBefore < *rule.HoursThreshold
		case cancellation.PredicateReasonInvalid:
			matched = !reasonExcused
		}
		if !matched {
			continue
		}

		fines = append(fines, Fine{Reason: rule.FineReason, Amount: rule.FineAmount})
		seen[rule.FineReason] = true
	}
	return fines
}

func totalFine(fines []Fine) decimal.Decimal {
	total := decimal.Zero
	for _, f := range fines {
		total = total.Add(f.Amount)
	}
	return total
}

// fineReasonCode collapses the applied fines into the stable code stored on
// the cancellation record.
func fineReasonCode(fines []Fine) string {
	switch len(fines) {
	case 0:
		return ""
	case 1:
		return fines[0].Reason
	default:
		return cancellation.FineReasonBoth
	}
}
