package analytics

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/elevatecrm/backend/internal/domain/catalog"
	"github.com/elevatecrm/backend/internal/domain/inventory"
	"github.com/elevatecrm/backend/internal/infrastructure/cache"
	"github.com/elevatecrm/backend/internal/infrastructure/config"
	"github.com/elevatecrm/backend/internal/infrastructure/telemetry"
)

const movingAverageWindow = 7

// ForecastService projects daily demand per product from the sales
// ledger. The model is a moving-average level with a least-squares
// trend and weekday seasonality; with too little history it falls back
// to a naive mean forecast.
type ForecastService struct {
	moveRepo    inventory.StockMoveRepository
	productRepo catalog.ProductRepository
	cache       ResultCache
	cfg         config.AnalyticsConfig
	logger      *zap.Logger
}

// NewForecastService creates the forecasting service
func NewForecastService(
	moveRepo inventory.StockMoveRepository,
	productRepo catalog.ProductRepository,
	c ResultCache,
	cfg config.AnalyticsConfig,
	logger *zap.Logger,
) *ForecastService {
	return &ForecastService{
		moveRepo:    moveRepo,
		productRepo: productRepo,
		cache:       c,
		cfg:         cfg,
		logger:      logger,
	}
}

func forecastKey(tenantID, productID uuid.UUID) string {
	return fmt.Sprintf("analytics:forecast:%s:%s", tenantID, productID)
}

// ForecastProduct returns the demand projection for one product
func (s *ForecastService) ForecastProduct(ctx context.Context, tenantID, productID uuid.UUID) (*ProductForecast, error) {
	ctx, span := telemetry.StartSpan(ctx, "forecast.product",
		telemetry.WithAttribute(telemetry.SpanAttrTenantID, tenantID.String()),
		telemetry.WithAttribute(telemetry.SpanAttrProductID, productID.String()))
	defer span.End()

	if s.cache != nil {
		var cached ProductForecast
		err := s.cache.Get(ctx, forecastKey(tenantID, productID), &cached)
		if err == nil {
			return &cached, nil
		}
		if !errors.Is(err, cache.ErrCacheMiss) {
			s.logger.Warn("Forecast cache read failed", zap.Error(err))
		}
	}

	product, err := s.productRepo.FindByIDForTenant(ctx, tenantID, productID)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	since := time.Now().AddDate(0, 0, -s.cfg.HistoryWindow)
	sales, err := s.moveRepo.DailySalesForProduct(ctx, tenantID, productID, since)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	forecast := s.buildForecast(product, sales)

	if s.cache != nil {
		if err := s.cache.Set(ctx, forecastKey(tenantID, productID), forecast, s.cfg.CacheTTL); err != nil {
			s.logger.Warn("Forecast cache write failed", zap.Error(err))
		}
	}
	return forecast, nil
}

// buildForecast runs the model over the daily history
func (s *ForecastService) buildForecast(product *catalog.Product, sales []inventory.DailySales) *ProductForecast {
	series, start := fillDailySeries(sales, s.cfg.HistoryWindow)

	forecast := &ProductForecast{
		ProductID:   product.ID,
		SKU:         product.SKU,
		HistoryDays: len(sales),
		GeneratedAt: time.Now(),
	}

	mean := meanOf(series)
	forecast.AvgDailyDemand = mean

	if len(sales) < s.cfg.MinHistoryPoints {
		forecast.Naive = true
		s.projectNaive(forecast, series, mean)
	} else {
		s.projectModel(forecast, series, start)
	}

	s.deriveReplenishment(forecast, product, series)
	return forecast
}

// projectNaive repeats the historical mean with a flat band
func (s *ForecastService) projectNaive(forecast *ProductForecast, series []float64, mean float64) {
	sigma := stddevAround(series, mean)
	today := startOfDay(time.Now())

	forecast.Points = make([]ForecastPoint, 0, s.cfg.ForecastHorizon)
	for i := 1; i <= s.cfg.ForecastHorizon; i++ {
		band := s.cfg.ServiceLevelZ * sigma
		forecast.Points = append(forecast.Points, ForecastPoint{
			Day:      today.AddDate(0, 0, i),
			Expected: mean,
			Lower:    math.Max(0, mean-band),
			Upper:    mean + band,
		})
		forecast.HorizonDemand += mean
	}
}

// projectModel combines a moving-average level, a linear trend and
// weekday seasonality. The confidence band widens with the forecast
// distance as z * sigma * sqrt(days ahead).
func (s *ForecastService) projectModel(forecast *ProductForecast, series []float64, start time.Time) {
	level := movingAverage(series, movingAverageWindow)
	slope := linearSlope(series)
	seasonal := weekdayIndexes(series, start)
	sigma := residualStddev(series, seasonal, start)

	forecast.Trend = slope

	today := startOfDay(time.Now())
	forecast.Points = make([]ForecastPoint, 0, s.cfg.ForecastHorizon)
	for i := 1; i <= s.cfg.ForecastHorizon; i++ {
		day := today.AddDate(0, 0, i)
		expected := (level + slope*float64(i)) * seasonal[int(day.Weekday())]
		if expected < 0 {
			expected = 0
		}

		band := s.cfg.ServiceLevelZ * sigma * math.Sqrt(float64(i))
		forecast.Points = append(forecast.Points, ForecastPoint{
			Day:      day,
			Expected: expected,
			Lower:    math.Max(0, expected-band),
			Upper:    expected + band,
		})
		forecast.HorizonDemand += expected
	}
}

// deriveReplenishment turns the demand projection into safety stock,
// reorder point and a suggested order quantity.
func (s *ForecastService) deriveReplenishment(forecast *ProductForecast, product *catalog.Product, series []float64) {
	leadTime := float64(s.cfg.DefaultLeadTime)
	sigma := stddevAround(series, forecast.AvgDailyDemand)

	forecast.SafetyStock = s.cfg.ServiceLevelZ * sigma * math.Sqrt(leadTime)
	forecast.ReorderPoint = forecast.AvgDailyDemand*leadTime + forecast.SafetyStock

	available, _ := product.QuantityAvailable().Float64()
	suggested := forecast.ReorderPoint + forecast.HorizonDemand - available
	if suggested < 0 {
		suggested = 0
	}
	forecast.SuggestedOrderQty = math.Ceil(suggested)
}

// fillDailySeries expands sparse per-day sales into a dense series of
// windowDays values ending yesterday, zero-filling days without sales.
func fillDailySeries(sales []inventory.DailySales, windowDays int) ([]float64, time.Time) {
	if windowDays <= 0 {
		windowDays = 1
	}
	end := startOfDay(time.Now())
	start := end.AddDate(0, 0, -windowDays)

	series := make([]float64, windowDays)
	for _, point := range sales {
		idx := int(startOfDay(point.Day).Sub(start).Hours() / 24)
		if idx >= 0 && idx < windowDays {
			series[idx] = point.Quantity
		}
	}
	return series, start
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func meanOf(series []float64) float64 {
	if len(series) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range series {
		sum += v
	}
	return sum / float64(len(series))
}

func stddevAround(series []float64, mean float64) float64 {
	if len(series) < 2 {
		return 0
	}
	sum := 0.0
	for _, v := range series {
		d := v - mean
		sum += d * d
	}
	return math.Sqrt(sum / float64(len(series)-1))
}

// movingAverage returns the mean of the trailing window
func movingAverage(series []float64, window int) float64 {
	if len(series) == 0 {
		return 0
	}
	if window > len(series) {
		window = len(series)
	}
	return meanOf(series[len(series)-window:])
}

// linearSlope fits y = a + b*x by least squares and returns b
func linearSlope(series []float64) float64 {
	n := float64(len(series))
	if n < 2 {
		return 0
	}
	var sumX, sumY, sumXY, sumXX float64
	for i, v := range series {
		x := float64(i)
		sumX += x
		sumY += v
		sumXY += x * v
		sumXX += x * x
	}
	denom := n*sumXX - sumX*sumX
	if denom == 0 {
		return 0
	}
	return (n*sumXY - sumX*sumY) / denom
}

// weekdayIndexes returns a multiplicative index per weekday, 1.0 when
// a weekday has no data or overall demand is zero.
func weekdayIndexes(series []float64, start time.Time) [7]float64 {
	var sums, counts [7]float64
	for i, v := range series {
		wd := int(start.AddDate(0, 0, i).Weekday())
		sums[wd] += v
		counts[wd]++
	}

	overall := meanOf(series)
	var indexes [7]float64
	for wd := 0; wd < 7; wd++ {
		indexes[wd] = 1
		if overall > 0 && counts[wd] > 0 {
			indexes[wd] = (sums[wd] / counts[wd]) / overall
		}
	}
	return indexes
}

// residualStddev measures spread after removing the weekday pattern
func residualStddev(series []float64, seasonal [7]float64, start time.Time) float64 {
	if len(series) < 2 {
		return 0
	}
	overall := meanOf(series)
	sum := 0.0
	for i, v := range series {
		wd := int(start.AddDate(0, 0, i).Weekday())
		expected := overall * seasonal[wd]
		d := v - expected
		sum += d * d
	}
	return math.Sqrt(sum / float64(len(series)-1))
}
