package models

// ChartData is the per-participant series consumed by the event page chart
type ChartData struct {
	Labels []string  `json:"labels"`
	Values []float64 `json:"values"`
}
