package extract

import "strings"

// UnknownSentinel marks information the model judged unavailable. Distinct
// from an absent or empty value.
const UnknownSentinel = "N/A"

// Schema is the fixed, ordered set of business-profile fields subject to
// reconciliation and missing-field detection. Extra fields the model adds are
// passed through for one turn but never carried forward.
var Schema = []string{
	"company_name",
	"business_domain",
	"region_or_market",
	"business_needs",
	"product_or_service",
	"target_audience",
	"unique_value_proposition",
	"distribution_channels",
	"revenue_model",
	"key_partners",
	"kpis_or_outcomes",
	"technologies_involved",
	"document_references",
	"start_date",
	"urls",
}

func isSentinel(s string) bool {
	return strings.EqualFold(strings.TrimSpace(s), UnknownSentinel)
}

// isKnown reports whether a field value carries usable information: a
// non-blank, non-sentinel string, or a non-empty list.
func isKnown(v any) bool {
	switch val := v.(type) {
	case string:
		return strings.TrimSpace(val) != "" && !isSentinel(val)
	case []any:
		return len(val) > 0
	case []string:
		return len(val) > 0
	default:
		return false
	}
}
