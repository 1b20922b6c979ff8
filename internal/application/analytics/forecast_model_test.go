package analytics

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/elevatecrm/backend/internal/domain/catalog"
	"github.com/elevatecrm/backend/internal/domain/inventory"
	"github.com/elevatecrm/backend/internal/infrastructure/config"
)

func testAnalyticsConfig() config.AnalyticsConfig {
	return config.AnalyticsConfig{
		CacheTTL:         5 * time.Minute,
		ForecastHorizon:  30,
		HistoryWindow:    90,
		ServiceLevelZ:    1.96,
		DefaultLeadTime:  7,
		SearchResultCap:  20,
		MinHistoryPoints: 7,
	}
}

func TestFillDailySeries(t *testing.T) {
	now := startOfDay(time.Now())
	sales := []inventory.DailySales{
		{Day: now.AddDate(0, 0, -1), Quantity: 5},
		{Day: now.AddDate(0, 0, -3), Quantity: 2},
	}

	series, start := fillDailySeries(sales, 7)
	require.Len(t, series, 7)
	assert.Equal(t, now.AddDate(0, 0, -7), start)
	assert.Equal(t, 5.0, series[6])
	assert.Equal(t, 2.0, series[4])
	assert.Equal(t, 0.0, series[0])
}

func TestFillDailySeriesIgnoresOutOfWindowPoints(t *testing.T) {
	now := startOfDay(time.Now())
	sales := []inventory.DailySales{
		{Day: now.AddDate(0, 0, -30), Quantity: 9},
	}

	series, _ := fillDailySeries(sales, 7)
	for _, v := range series {
		assert.Equal(t, 0.0, v)
	}
}

func TestLinearSlope(t *testing.T) {
	assert.InDelta(t, 0, linearSlope([]float64{4, 4, 4, 4}), 1e-9)
	assert.InDelta(t, 1, linearSlope([]float64{1, 2, 3, 4, 5}), 1e-9)
	assert.InDelta(t, -2, linearSlope([]float64{10, 8, 6, 4}), 1e-9)
	assert.Equal(t, 0.0, linearSlope([]float64{7}))
}

func TestMovingAverage(t *testing.T) {
	series := []float64{1, 1, 1, 10, 10, 10}
	assert.InDelta(t, 10, movingAverage(series, 3), 1e-9)
	assert.InDelta(t, 5.5, movingAverage(series, 6), 1e-9)
	assert.InDelta(t, 5.5, movingAverage(series, 100), 1e-9)
	assert.Equal(t, 0.0, movingAverage(nil, 7))
}

func TestWeekdayIndexesFlatSeries(t *testing.T) {
	series := make([]float64, 28)
	for i := range series {
		series[i] = 3
	}

	indexes := weekdayIndexes(series, startOfDay(time.Now()).AddDate(0, 0, -28))
	for wd := 0; wd < 7; wd++ {
		assert.InDelta(t, 1.0, indexes[wd], 1e-9)
	}
}

func TestWeekdayIndexesDetectPattern(t *testing.T) {
	// Four weeks where one weekday sells double the others
	start := startOfDay(time.Now()).AddDate(0, 0, -28)
	series := make([]float64, 28)
	for i := range series {
		series[i] = 2
		if start.AddDate(0, 0, i).Weekday() == time.Saturday {
			series[i] = 4
		}
	}

	indexes := weekdayIndexes(series, start)
	assert.Greater(t, indexes[int(time.Saturday)], 1.2)
	assert.Less(t, indexes[int(time.Monday)], 1.0)
}

func TestBuildForecastFallsBackToNaiveWithThinHistory(t *testing.T) {
	svc := &ForecastService{cfg: testAnalyticsConfig()}
	product, err := catalog.NewProduct(uuid.New(), "Widget", "WID-1", catalog.ProductTypeProduct, decimal.NewFromInt(10))
	require.NoError(t, err)

	now := startOfDay(time.Now())
	sales := []inventory.DailySales{
		{Day: now.AddDate(0, 0, -2), Quantity: 3},
		{Day: now.AddDate(0, 0, -5), Quantity: 3},
	}

	forecast := svc.buildForecast(product, sales)
	assert.True(t, forecast.Naive)
	require.Len(t, forecast.Points, 30)
	assert.Equal(t, forecast.Points[0].Expected, forecast.Points[29].Expected)
}

func TestBuildForecastUsesModelWithEnoughHistory(t *testing.T) {
	svc := &ForecastService{cfg: testAnalyticsConfig()}
	product, err := catalog.NewProduct(uuid.New(), "Widget", "WID-1", catalog.ProductTypeProduct, decimal.NewFromInt(10))
	require.NoError(t, err)

	now := startOfDay(time.Now())
	sales := make([]inventory.DailySales, 0, 60)
	for i := 1; i <= 60; i++ {
		sales = append(sales, inventory.DailySales{
			Day:      now.AddDate(0, 0, -i),
			Quantity: 5,
		})
	}

	forecast := svc.buildForecast(product, sales)
	assert.False(t, forecast.Naive)
	require.Len(t, forecast.Points, 30)

	for _, point := range forecast.Points {
		assert.GreaterOrEqual(t, point.Expected, 0.0)
		assert.GreaterOrEqual(t, point.Upper, point.Expected)
		assert.LessOrEqual(t, point.Lower, point.Expected)
	}

	// Steady demand of 5/day over a 90 day window averages out lower
	// because the window is zero-filled beyond the observed 60 days.
	assert.Greater(t, forecast.HorizonDemand, 0.0)
	assert.Greater(t, forecast.ReorderPoint, 0.0)
}

func TestBandWidensWithForecastDistance(t *testing.T) {
	svc := &ForecastService{cfg: testAnalyticsConfig()}
	product, err := catalog.NewProduct(uuid.New(), "Widget", "WID-1", catalog.ProductTypeProduct, decimal.NewFromInt(10))
	require.NoError(t, err)

	now := startOfDay(time.Now())
	sales := make([]inventory.DailySales, 0, 30)
	for i := 1; i <= 30; i++ {
		qty := 4.0
		if i%3 == 0 {
			qty = 9.0
		}
		sales = append(sales, inventory.DailySales{Day: now.AddDate(0, 0, -i), Quantity: qty})
	}

	forecast := svc.buildForecast(product, sales)
	require.False(t, forecast.Naive)

	firstBand := forecast.Points[0].Upper - forecast.Points[0].Lower
	lastBand := forecast.Points[len(forecast.Points)-1].Upper - forecast.Points[len(forecast.Points)-1].Lower
	assert.Greater(t, lastBand, firstBand)
}

func TestSuggestedOrderQtyCoversShortfall(t *testing.T) {
	svc := &ForecastService{cfg: testAnalyticsConfig()}
	product, err := catalog.NewProduct(uuid.New(), "Widget", "WID-1", catalog.ProductTypeProduct, decimal.NewFromInt(10))
	require.NoError(t, err)
	require.NoError(t, product.ApplyQuantityChange(decimal.NewFromInt(1000000)))

	forecast := svc.buildForecast(product, nil)
	assert.Equal(t, 0.0, forecast.SuggestedOrderQty)
}
