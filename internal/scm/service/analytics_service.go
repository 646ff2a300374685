package service

import (
	"context"
	"fmt"
	"sort"

	"github.com/bitfantasy/scm/internal/scm/entity"
	"github.com/bitfantasy/scm/internal/scm/repository"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

// ProductPerformance is one row of the top-products ranking.
type ProductPerformance struct {
	ProductName      string          `json:"product_name"`
	Revenue          decimal.Decimal `json:"revenue"`
	Profit           decimal.Decimal `json:"profit"`
	MarginPercentage decimal.Decimal `json:"margin_percentage"`
}

// FinancialMetrics is recomputed in full on every request; nothing is cached
// or persisted.
type FinancialMetrics struct {
	TotalRevenue        decimal.Decimal            `json:"total_revenue"`
	COGS                decimal.Decimal            `json:"cogs"`
	GrossProfit         decimal.Decimal            `json:"gross_profit"`
	NetMarginPercentage decimal.Decimal            `json:"net_margin_percentage"`
	AverageOrderValue   decimal.Decimal            `json:"average_order_value"`
	InventoryValuation  decimal.Decimal            `json:"inventory_valuation"`
	RevenueTrend        map[string]decimal.Decimal `json:"revenue_trend"`
	ProfitTrend         map[string]decimal.Decimal `json:"profit_trend"`
	TopProducts         []ProductPerformance       `json:"top_products"`
}

// AnalyticsService derives financial metrics from the full order history and
// product catalog.
type AnalyticsService struct {
	orderRepo   *repository.OrderRepository
	productRepo *repository.ProductRepository
}

func NewAnalyticsService(or *repository.OrderRepository, pr *repository.ProductRepository) *AnalyticsService {
	return &AnalyticsService{orderRepo: or, productRepo: pr}
}

func (s *AnalyticsService) FinancialSummary(ctx context.Context) (*FinancialMetrics, error) {
	orders, err := s.orderRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("load orders: %w", err)
	}
	products, err := s.productRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("load products: %w", err)
	}
	metrics := ComputeFinancialMetrics(orders, products)
	return &metrics, nil
}

// marginPct is (profit / revenue) * 100 with the ratio rounded half-up to 4
// digits. Zero revenue reports a zero margin rather than an error.
func marginPct(profit, revenue decimal.Decimal) decimal.Decimal {
	if !revenue.IsPositive() {
		return decimal.Zero
	}
	return profit.DivRound(revenue, 4).Mul(decimal.NewFromInt(100))
}

// ComputeFinancialMetrics is a pure function of the order history and catalog.
//
// Per-product performance is grouped by product display name, so two catalog
// entries sharing a name are merged into one row. Ranking is descending by
// revenue, ties keep encounter order, truncated to the top 5.
func ComputeFinancialMetrics(orders []entity.Order, products []entity.Product) FinancialMetrics {
	totalRevenue := decimal.Zero
	totalCost := decimal.Zero
	revenueTrend := map[string]decimal.Decimal{}
	profitTrend := map[string]decimal.Decimal{}

	type prodStats struct {
		revenue decimal.Decimal
		cost    decimal.Decimal
	}
	statsByName := map[string]*prodStats{}
	var nameOrder []string

	for _, order := range orders {
		totalRevenue = totalRevenue.Add(order.TotalAmount)

		month := order.OrderDate.Format("2006-01")
		orderProfit := decimal.Zero

		for _, item := range order.Items {
			qty := decimal.NewFromInt(int64(item.Quantity))
			itemRevenue := item.UnitPrice.Mul(qty)
			itemCost := item.CostOrZero().Mul(qty)
			totalCost = totalCost.Add(itemCost)
			orderProfit = orderProfit.Add(itemRevenue.Sub(itemCost))

			name := item.ProductID
			if item.Product != nil {
				name = item.Product.Name
			}
			stats, ok := statsByName[name]
			if !ok {
				stats = &prodStats{revenue: decimal.Zero, cost: decimal.Zero}
				statsByName[name] = stats
				nameOrder = append(nameOrder, name)
			}
			stats.revenue = stats.revenue.Add(itemRevenue)
			stats.cost = stats.cost.Add(itemCost)
		}

		revenueTrend[month] = revenueTrend[month].Add(order.TotalAmount)
		profitTrend[month] = profitTrend[month].Add(orderProfit)
	}

	grossProfit := totalRevenue.Sub(totalCost)
	netMargin := marginPct(grossProfit, totalRevenue)

	avgOrderValue := decimal.Zero
	if len(orders) > 0 {
		avgOrderValue = totalRevenue.DivRound(decimal.NewFromInt(int64(len(orders))), 2)
	}

	valuation := decimal.Zero
	for _, p := range products {
		valuation = valuation.Add(p.CostOrZero().Mul(decimal.NewFromInt(int64(p.Quantity))))
	}

	perf := make([]ProductPerformance, 0, len(nameOrder))
	for _, name := range nameOrder {
		stats := statsByName[name]
		profit := stats.revenue.Sub(stats.cost)
		perf = append(perf, ProductPerformance{
			ProductName:      name,
			Revenue:          stats.revenue,
			Profit:           profit,
			MarginPercentage: marginPct(profit, stats.revenue),
		})
	}
	sort.SliceStable(perf, func(i, j int) bool {
		return perf[i].Revenue.GreaterThan(perf[j].Revenue)
	})
	if len(perf) > 5 {
		perf = perf[:5]
	}

	return FinancialMetrics{
		TotalRevenue:        totalRevenue,
		COGS:                totalCost,
		GrossProfit:         grossProfit,
		NetMarginPercentage: netMargin,
		AverageOrderValue:   avgOrderValue,
		InventoryValuation:  valuation,
		RevenueTrend:        revenueTrend,
		ProfitTrend:         profitTrend,
		TopProducts:         perf,
	}
}

// ExportSummary renders the financial summary as an xlsx workbook.
func (s *AnalyticsService) ExportSummary(ctx context.Context) (*excelize.File, error) {
	metrics, err := s.FinancialSummary(ctx)
	if err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	const sheet = "Financial Summary"
	f.SetSheetName("Sheet1", sheet)

	rows := [][]interface{}{
		{"Metric", "Value"},
		{"Total Revenue", metrics.TotalRevenue.StringFixed(2)},
		{"COGS", metrics.COGS.StringFixed(2)},
		{"Gross Profit", metrics.GrossProfit.StringFixed(2)},
		{"Net Margin %", metrics.NetMarginPercentage.StringFixed(2)},
		{"Average Order Value", metrics.AverageOrderValue.StringFixed(2)},
		{"Inventory Valuation", metrics.InventoryValuation.StringFixed(2)},
	}
	for i, row := range rows {
		cell, _ := excelize.CoordinatesToCellName(1, i+1)
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return nil, fmt.Errorf("write summary row: %w", err)
		}
	}

	const topSheet = "Top Products"
	if _, err := f.NewSheet(topSheet); err != nil {
		return nil, fmt.Errorf("create top products sheet: %w", err)
	}
	header := []interface{}{"Product", "Revenue", "Profit", "Margin %"}
	if err := f.SetSheetRow(topSheet, "A1", &header); err != nil {
		return nil, fmt.Errorf("write top products header: %w", err)
	}
	for i, p := range metrics.TopProducts {
		row := []interface{}{p.ProductName, p.Revenue.StringFixed(2), p.Profit.StringFixed(2), p.MarginPercentage.StringFixed(2)}
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := f.SetSheetRow(topSheet, cell, &row); err != nil {
			return nil, fmt.Errorf("write top products row: %w", err)
		}
	}

	return f, nil
}
