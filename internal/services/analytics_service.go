package services

import (
	"fmt"
	"time"

	"bookstore/internal/models"
	"bookstore/internal/repositories"
)

// SalesAnalytics is the assembled admin sales report. All amounts are
// integer cents.
type SalesAnalytics struct {
	TotalOrders            int64                              `json:"total_orders"`
	TotalRevenueCents      int64                              `json:"total_revenue_cents"`
	AverageOrderValueCents int64                              `json:"average_order_value_cents"`
	StatusBreakdown        []repositories.StatusBreakdownRow  `json:"status_breakdown"`
	PaymentBreakdown       []repositories.PaymentBreakdownRow `json:"payment_method_breakdown"`
	TopSellingBooks        []repositories.BookSalesRow        `json:"top_selling_books"`
	UnderperformingBooks   []repositories.BookSalesRow        `json:"underperforming_books"`
}

// AnalyticsService assembles sales reports for admins.
type AnalyticsService struct {
	analyticsRepo repositories.AnalyticsRepository
}

// NewAnalyticsService creates a new AnalyticsService.
func NewAnalyticsService(analyticsRepo repositories.AnalyticsRepository) *AnalyticsService {
	return &AnalyticsService{
		analyticsRepo: analyticsRepo,
	}
}

const sellerListLimit = 10

// now is stubbed in tests to pin the period windows.
var now = time.Now

// GetSalesAnalytics builds the sales report for the requested window.
// Exactly one of period ("week", "month", "year") or an explicit
// start/end pair may be given; both empty means all time. The optional
// status narrows every aggregate to orders in that status.
func (s *AnalyticsService) GetSalesAnalytics(period, startDate, endDate, status string) (*SalesAnalytics, error) {
	filter, err := buildAnalyticsFilter(period, startDate, endDate, status)
	if err != nil {
		return nil, err
	}

	count, revenueCents, err := s.analyticsRepo.OrderTotals(filter)
	if err != nil {
		return nil, err
	}

	statusRows, err := s.analyticsRepo.StatusBreakdown(filter)
	if err != nil {
		return nil, err
	}

	paymentRows, err := s.analyticsRepo.PaymentMethodBreakdown(filter)
	if err != nil {
		return nil, err
	}

	top, err := s.analyticsRepo.TopSellingBooks(filter, sellerListLimit)
	if err != nil {
		return nil, err
	}

	bottom, err := s.analyticsRepo.UnderperformingBooks(filter, sellerListLimit)
	if err != nil {
		return nil, err
	}

	report := &SalesAnalytics{
		TotalOrders:          count,
		TotalRevenueCents:    revenueCents,
		StatusBreakdown:      statusRows,
		PaymentBreakdown:     paymentRows,
		TopSellingBooks:      top,
		UnderperformingBooks: bottom,
	}
	if count > 0 {
		report.AverageOrderValueCents = revenueCents / count
	}
	return report, nil
}

func buildAnalyticsFilter(period, startDate, endDate, status string) (repositories.AnalyticsFilter, error) {
	var filter repositories.AnalyticsFilter

	switch {
	case period != "" && (startDate != "" || endDate != ""):
		return filter, fmt.Errorf("period and explicit start/end dates are mutually exclusive")
	case period != "":
		end := now()
		var start time.Time
		switch period {
		case "week":
			start = end.AddDate(0, 0, -7)
		case "month":
			start = end.AddDate(0, 0, -30)
		case "year":
			start = end.AddDate(0, 0, -365)
		default:
			return filter, fmt.Errorf("invalid period %q, must be one of: week, month, year", period)
		}
		filter.Start = &start
		filter.End = &end
	default:
		if startDate != "" {
			start, err := time.Parse("2006-01-02", startDate)
			if err != nil {
				return filter, fmt.Errorf("invalid start_date %q, expected YYYY-MM-DD", startDate)
			}
			filter.Start = &start
		}
		if endDate != "" {
			end, err := time.Parse("2006-01-02", endDate)
			if err != nil {
				return filter, fmt.Errorf("invalid end_date %q, expected YYYY-MM-DD", endDate)
			}
			// Inclusive end of day.
			end = end.Add(24*time.Hour - time.Nanosecond)
			filter.End = &end
		}
		if filter.Start != nil && filter.End != nil && filter.End.Before(*filter.Start) {
			return filter, fmt.Errorf("end_date must not be before start_date")
		}
	}

	if status != "" {
		parsed := models.OrderStatus(status)
		if !parsed.Valid() {
			return filter, fmt.Errorf("invalid status %q, must be one of: pending, processing, paid, shipped, completed, cancelled", status)
		}
		filter.Status = &parsed
	}
	return filter, nil
}
