package autonomy

import "github.com/aneslog/aneslog-backend/internal/domain"

// ResolveOutcome turns one log row into a binary outcome for the CUSUM.
//
// A senior-validated Success always wins. Without validation the declared
// autonomy level stands in: the top two tiers (capable, autonomous) count as
// success, everything below as failure. This fallback is a policy choice —
// it substitutes self-assessment for an objective outcome and every curve
// point reports whether it was used, so charts can distinguish validated
// from inferred evidence.
func ResolveOutcome(l domain.ProcedureLog) (success, reviewerConfirmed bool) {
	if l.Success != nil {
		return *l.Success, true
	}
	return l.Autonomy.Rank() >= domain.AutonomyCapable.Rank(), false
}
