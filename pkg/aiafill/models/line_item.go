package models

// LineItem is one row of the schedule of values.
type LineItem struct {
	// ItemNumber is the stable ordering key shown in the item column.
	ItemNumber string `json:"item_number"`
	// Description is free text and is inserted verbatim.
	Description          string  `json:"description"`
	ScheduledValue       float64 `json:"scheduled_value"`
	PreviousApplications float64 `json:"previous_applications"`
	ThisPeriod           float64 `json:"this_period"`
	MaterialsStored      float64 `json:"materials_stored"`
	TotalCompleted       float64 `json:"total_completed"`
	// PercentComplete is expressed in percent units (37.5 means 37.5%).
	PercentComplete float64 `json:"percent_complete"`
	BalanceToFinish float64 `json:"balance_to_finish"`
	Retainage       float64 `json:"retainage"`
}
