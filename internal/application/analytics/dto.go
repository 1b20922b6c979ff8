package analytics

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// RevenuePointInfo is one day of fulfilled sales revenue
type RevenuePointInfo struct {
	Day     time.Time       `json:"day"`
	Revenue decimal.Decimal `json:"revenue"`
	Orders  int64           `json:"orders"`
}

// LowStockItem is a product at or below its reorder point
type LowStockItem struct {
	ProductID    uuid.UUID       `json:"product_id"`
	SKU          string          `json:"sku"`
	Name         string          `json:"name"`
	OnHand       decimal.Decimal `json:"on_hand"`
	Available    decimal.Decimal `json:"available"`
	ReorderPoint decimal.Decimal `json:"reorder_point"`
}

// DashboardSnapshot is the aggregated tenant dashboard. Snapshots are
// cached in Redis and recomputed on a schedule or on cache miss.
type DashboardSnapshot struct {
	ContactsByStage map[string]int64   `json:"contacts_by_stage"`
	OrdersByStatus  map[string]int64   `json:"orders_by_status"`
	Revenue         []RevenuePointInfo `json:"revenue"`
	LowStock        []LowStockItem     `json:"low_stock"`
	GeneratedAt     time.Time          `json:"generated_at"`
}

// ForecastPoint is one projected day of demand
type ForecastPoint struct {
	Day      time.Time `json:"day"`
	Expected float64   `json:"expected"`
	Lower    float64   `json:"lower"`
	Upper    float64   `json:"upper"`
}

// ProductForecast projects demand for a single product and derives
// replenishment figures from it.
type ProductForecast struct {
	ProductID         uuid.UUID       `json:"product_id"`
	SKU               string          `json:"sku"`
	HistoryDays       int             `json:"history_days"`
	Naive             bool            `json:"naive"`
	AvgDailyDemand    float64         `json:"avg_daily_demand"`
	Trend             float64         `json:"trend"`
	Points            []ForecastPoint `json:"points"`
	HorizonDemand     float64         `json:"horizon_demand"`
	SafetyStock       float64         `json:"safety_stock"`
	ReorderPoint      float64         `json:"reorder_point"`
	SuggestedOrderQty float64         `json:"suggested_order_qty"`
	GeneratedAt       time.Time       `json:"generated_at"`
}

// ScoreBreakdown explains how a lead score was assembled
type ScoreBreakdown struct {
	ContactID    uuid.UUID       `json:"contact_id"`
	Score        decimal.Decimal `json:"score"`
	Recency      float64         `json:"recency"`
	Engagement   float64         `json:"engagement"`
	Revenue      float64         `json:"revenue"`
	Completeness float64         `json:"completeness"`
	ScoredAt     time.Time       `json:"scored_at"`
}

// SearchHit is one result in the global search response
type SearchHit struct {
	Type     string    `json:"type"`
	ID       uuid.UUID `json:"id"`
	Title    string    `json:"title"`
	Subtitle string    `json:"subtitle,omitempty"`
	Score    int       `json:"score"`
}

// SearchResults groups hits per entity type
type SearchResults struct {
	Query    string      `json:"query"`
	Contacts []SearchHit `json:"contacts"`
	Products []SearchHit `json:"products"`
	Orders   []SearchHit `json:"orders"`
}
