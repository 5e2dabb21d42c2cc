package tokens

import (
	"strings"

	"github.com/ukaji3/aiafill-go/pkg/aiafill/format"
	"github.com/ukaji3/aiafill-go/pkg/aiafill/models"
)

// ReviewLabel is the value of {review_label} on review copies.
const ReviewLabel = "REVIEW COPY"

// Schedule-of-values token names.
const (
	SOVItemNo               = "sov_item_no"
	SOVDescription          = "sov_description"
	SOVScheduledValue       = "sov_scheduled_value"
	SOVPreviousApplications = "sov_previous_applications"
	SOVThisPeriod           = "sov_this_period"
	SOVMaterialsStored      = "sov_materials_stored"
	SOVTotalCompleted       = "sov_total_completed"
	SOVPercentComplete      = "sov_percent_complete"
	SOVBalanceToFinish      = "sov_balance_to_finish"
	SOVRetainage            = "sov_retainage"
)

// field pairs a token name with its accessor.
type field struct {
	name string
	get  func(d *models.InvoiceApplicationData) string
}

var scalarFields = []field{
	{"company_name", func(d *models.InvoiceApplicationData) string { return d.Company.Name }},
	{"company_address", func(d *models.InvoiceApplicationData) string { return d.Company.Address }},
	{"company_city", func(d *models.InvoiceApplicationData) string { return d.Company.City }},
	{"company_state", func(d *models.InvoiceApplicationData) string { return d.Company.State }},
	{"company_zip", func(d *models.InvoiceApplicationData) string { return d.Company.Zip }},
	{"company_phone", func(d *models.InvoiceApplicationData) string { return d.Company.Phone }},
	{"company_email", func(d *models.InvoiceApplicationData) string { return d.Company.Email }},
	{"company_license", func(d *models.InvoiceApplicationData) string { return d.Company.License }},

	{"owner_name", func(d *models.InvoiceApplicationData) string { return d.Owner.Name }},
	{"owner_address", func(d *models.InvoiceApplicationData) string { return d.Owner.Address }},
	{"owner_city", func(d *models.InvoiceApplicationData) string { return d.Owner.City }},
	{"owner_state", func(d *models.InvoiceApplicationData) string { return d.Owner.State }},
	{"owner_zip", func(d *models.InvoiceApplicationData) string { return d.Owner.Zip }},
	{"owner_phone", func(d *models.InvoiceApplicationData) string { return d.Owner.Phone }},
	{"owner_email", func(d *models.InvoiceApplicationData) string { return d.Owner.Email }},

	{"architect_name", func(d *models.InvoiceApplicationData) string { return d.Architect.Name }},
	{"architect_address", func(d *models.InvoiceApplicationData) string { return d.Architect.Address }},
	{"architect_project_number", func(d *models.InvoiceApplicationData) string { return d.Architect.ProjectNumber }},

	{"project_name", func(d *models.InvoiceApplicationData) string { return d.Project.Name }},
	{"project_number", func(d *models.InvoiceApplicationData) string { return d.Project.Number }},
	{"project_address", func(d *models.InvoiceApplicationData) string { return d.Project.Address }},
	{"project_city", func(d *models.InvoiceApplicationData) string { return d.Project.City }},
	{"project_state", func(d *models.InvoiceApplicationData) string { return d.Project.State }},
	{"project_zip", func(d *models.InvoiceApplicationData) string { return d.Project.Zip }},

	{"contract_date", func(d *models.InvoiceApplicationData) string { return d.Contract.Date }},
	{"contract_for", func(d *models.InvoiceApplicationData) string { return d.Contract.For }},
	{"original_contract_sum", func(d *models.InvoiceApplicationData) string { return d.Contract.OriginalContractSum }},
	{"contract_amount", func(d *models.InvoiceApplicationData) string {
		if d.Contract.Amount != "" {
			return d.Contract.Amount
		}
		return d.Contract.ContractSumToDate
	}},
	{"net_change_orders", func(d *models.InvoiceApplicationData) string { return d.Contract.NetChangeOrders }},
	{"contract_sum_to_date", func(d *models.InvoiceApplicationData) string { return d.Contract.ContractSumToDate }},
	{"retainage_percent", func(d *models.InvoiceApplicationData) string { return d.Contract.RetainagePercent }},

	{"application_number", func(d *models.InvoiceApplicationData) string { return d.Application.Number }},
	{"application_date", func(d *models.InvoiceApplicationData) string { return d.Application.Date }},
	{"period_from", func(d *models.InvoiceApplicationData) string { return d.Application.PeriodFrom }},
	{"period_to", func(d *models.InvoiceApplicationData) string { return d.Application.PeriodTo }},
	{"total_completed", func(d *models.InvoiceApplicationData) string { return d.Application.TotalCompleted }},
	{"retainage_amount", func(d *models.InvoiceApplicationData) string { return d.Application.RetainageAmount }},
	{"total_earned_less_retainage", func(d *models.InvoiceApplicationData) string { return d.Application.TotalEarnedLessRetainage }},
	{"previous_certificates", func(d *models.InvoiceApplicationData) string { return d.Application.PreviousCertificates }},
	{"current_payment_due", func(d *models.InvoiceApplicationData) string { return d.Application.CurrentPaymentDue }},
	{"balance_to_finish", func(d *models.InvoiceApplicationData) string { return d.Application.BalanceToFinish }},
}

// reviewLabelToken is filled from the request rather than the data object.
const reviewLabelToken = "review_label"

// Vocabulary returns the fixed scalar token names in declaration order.
func Vocabulary() []string {
	names := make([]string, 0, len(scalarFields)+1)
	for _, f := range scalarFields {
		names = append(names, f.name)
	}
	return append(names, reviewLabelToken)
}

// SOVVocabulary returns the per-line-item token names.
func SOVVocabulary() []string {
	return []string{
		SOVItemNo, SOVDescription, SOVScheduledValue, SOVPreviousApplications,
		SOVThisPeriod, SOVMaterialsStored, SOVTotalCompleted, SOVPercentComplete,
		SOVBalanceToFinish, SOVRetainage,
	}
}

// Map builds the scalar dictionary for data. Every vocabulary token is present;
// absent values map to "". Custom tokens are added only when they do not
// collide with the vocabulary or the sov_ namespace.
func Map(data models.InvoiceApplicationData, review bool) Dict {
	d := make(Dict, len(scalarFields)+1+len(data.Custom))
	for name, v := range data.Custom {
		key := strings.ToLower(strings.TrimSpace(name))
		if key == "" || IsSOVName(key) {
			continue
		}
		d[key] = v
	}
	for _, f := range scalarFields {
		d[f.name] = f.get(&data)
	}
	d[reviewLabelToken] = ""
	if review {
		d[reviewLabelToken] = ReviewLabel
	}
	return d
}

// LineItemMap builds the per-row dictionary for one schedule-of-values item.
func LineItemMap(item models.LineItem) Dict {
	return Dict{
		SOVItemNo:               item.ItemNumber,
		SOVDescription:          item.Description,
		SOVScheduledValue:       format.Currency(item.ScheduledValue),
		SOVPreviousApplications: format.Currency(item.PreviousApplications),
		SOVThisPeriod:           format.Currency(item.ThisPeriod),
		SOVMaterialsStored:      format.Currency(item.MaterialsStored),
		SOVTotalCompleted:       format.Currency(item.TotalCompleted),
		SOVPercentComplete:      format.Percent(item.PercentComplete),
		SOVBalanceToFinish:      format.Currency(item.BalanceToFinish),
		SOVRetainage:            format.Currency(item.Retainage),
	}
}

// LineItemNumber returns the raw numeric value behind a numeric SOV token.
// ok is false for text tokens and unknown names.
func LineItemNumber(item models.LineItem, name string) (v float64, ok bool) {
	switch strings.ToLower(name) {
	case SOVScheduledValue:
		return item.ScheduledValue, true
	case SOVPreviousApplications:
		return item.PreviousApplications, true
	case SOVThisPeriod:
		return item.ThisPeriod, true
	case SOVMaterialsStored:
		return item.MaterialsStored, true
	case SOVTotalCompleted:
		return item.TotalCompleted, true
	case SOVPercentComplete:
		return item.PercentComplete, true
	case SOVBalanceToFinish:
		return item.BalanceToFinish, true
	case SOVRetainage:
		return item.Retainage, true
	}
	return 0, false
}
