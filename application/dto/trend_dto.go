package dto

import "github.com/product-analytics/domain/trend"

type TrendResponse struct {
	Action    ActionRef              `json:"action"`
	Label     string                 `json:"label"`
	Count     float64                `json:"count"`
	Breakdown []trend.BreakdownEntry `json:"breakdown"`
	Labels    []string               `json:"labels,omitempty"`
	Data      []float64              `json:"data,omitempty"`
}
