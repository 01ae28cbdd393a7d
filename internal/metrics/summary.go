package metrics

import (
	"github.com/ignite/commerce-pulse/internal/config"
	"github.com/ignite/commerce-pulse/internal/sales"
)

// Summary assembles the executive summary from all metric families.
// comparison may be nil; every growth figure then reads not-applicable.
func Summary(primary, comparison *sales.Table, buckets []config.DeliveryBucket) ExecutiveSummary {
	revenue := Revenue(primary, comparison)
	orders := Orders(primary, comparison)
	categories := Categories(primary)
	geo := Geography(primary)
	delivery := Delivery(primary, buckets)
	satisfaction := Satisfaction(primary)

	return ExecutiveSummary{
		TotalRevenue:         revenue.TotalRevenue,
		YoYGrowth:            revenue.GrowthRate,
		MonthlyAvgGrowth:     AverageMonthlyGrowth(primary),
		TotalOrders:          orders.OrderCount,
		AverageOrderValue:    revenue.AverageOrderValue,
		OrderGrowth:          orders.GrowthRate,
		TopCategory:          categories.TopCategory,
		CategoryMarketShare:  categories.TopShare,
		TopMarket:            geo.TopState,
		ActiveMarkets:        geo.ActiveMarkets,
		AverageReviewScore:   satisfaction.AverageScore,
		HighSatisfactionRate: satisfaction.HighSatisfactionRate,
		AverageDeliveryDays:  delivery.AverageDays,
	}
}
