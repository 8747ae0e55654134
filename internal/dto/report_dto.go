package dto

// StatusBreakdown is one slice of the per-status distribution.
type StatusBreakdown struct {
	Status     string  `json:"status"`
	Count      int64   `json:"count"`
	Percentage float64 `json:"percentage"`
}

// MonthlyCount is the number of records created in one calendar month.
type MonthlyCount struct {
	Month string `json:"month"`
	Count int64  `json:"count"`
}

// StatisticsReport aggregates an operator's records for the statistics
// document. Percentages are zero when there are no records at all.
type StatisticsReport struct {
	Total    int64             `json:"total"`
	ByStatus []StatusBreakdown `json:"by_status"`
	Monthly  []MonthlyCount    `json:"monthly"`
}
