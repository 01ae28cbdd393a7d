package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/ignite/commerce-pulse/internal/config"
	"github.com/ignite/commerce-pulse/internal/dataset"
	"github.com/ignite/commerce-pulse/internal/insights"
	"github.com/ignite/commerce-pulse/internal/metrics"
	"github.com/ignite/commerce-pulse/internal/pkg/logger"
	"github.com/ignite/commerce-pulse/internal/sales"
)

func main() {
	var (
		configPath = flag.String("config", "", "path to config YAML (optional)")
		dataDir    = flag.String("data", "", "directory holding the CSV dataset")
		year       = flag.Int("year", 0, "target year (0 = all years)")
		month      = flag.Int("month", 0, "target month 1-12 (requires -year)")
		status     = flag.String("status", "", "order status filter (default delivered, 'all' disables)")
		asJSON     = flag.Bool("json", false, "emit the report as JSON")
	)
	flag.Parse()

	cfg, err := loadConfig(*configPath)
	if err != nil {
		logger.Error("loading config", "error", err.Error())
		os.Exit(1)
	}
	if *dataDir != "" {
		cfg.Dataset.Dir = *dataDir
	}
	if *year != 0 {
		cfg.Analysis.TargetYear = *year
		cfg.Analysis.ComparisonYear = *year - 1
	}
	switch *status {
	case "":
	case "all":
		cfg.Analysis.StatusFilter = ""
	default:
		cfg.Analysis.StatusFilter = *status
	}
	if *month != 0 && cfg.Analysis.TargetYear == 0 {
		fmt.Fprintln(os.Stderr, "-month requires -year")
		os.Exit(2)
	}

	tables, err := dataset.Load(cfg.Dataset.Dir)
	if err != nil {
		logger.Error("loading dataset", "error", err.Error())
		os.Exit(1)
	}

	opts := sales.Options{ReviewAggregation: cfg.Analysis.ReviewAggregation}
	filter := sales.Filter{
		Status: cfg.Analysis.StatusFilter,
		Year:   cfg.Analysis.TargetYear,
		Month:  *month,
	}
	primary := sales.UnifyWithOptions(tables, filter, opts)

	var comparison *sales.Table
	if cfg.Analysis.ComparisonYear != 0 {
		cf := sales.Filter{Status: filter.Status, Year: cfg.Analysis.ComparisonYear, Month: *month}
		comparison = sales.UnifyWithOptions(tables, cf, opts)
	}

	summary := metrics.Summary(primary, comparison, cfg.Delivery.Buckets)
	generated := insights.NewGenerator().Generate(summary, cfg.Insights.Rules)

	if *asJSON {
		out := map[string]interface{}{
			"summary":      summary,
			"categories":   metrics.Categories(primary),
			"geography":    metrics.Geography(primary),
			"delivery":     metrics.Delivery(primary, cfg.Delivery.Buckets),
			"satisfaction": metrics.Satisfaction(primary),
			"trend":        metrics.MonthlyTrend(primary),
			"insights":     generated,
			"excluded":     primary.Excluded,
		}
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(out); err != nil {
			logger.Error("encoding report", "error", err.Error())
			os.Exit(1)
		}
		return
	}

	printReport(primary, summary, generated, cfg)
}

func loadConfig(path string) (*config.Config, error) {
	return config.LoadFromEnv(path)
}

func printReport(primary *sales.Table, sum metrics.ExecutiveSummary, generated []insights.Insight, cfg *config.Config) {
	fmt.Println("EXECUTIVE SUMMARY")
	fmt.Println("=================")
	if primary.Empty() {
		fmt.Println("no data for selected filters")
		return
	}

	fmt.Printf("Total revenue:       %s\n", insights.FormatCurrency(sum.TotalRevenue))
	fmt.Printf("YoY growth:          %s\n", formatRatioPct(sum.YoYGrowth))
	fmt.Printf("Total orders:        %d\n", sum.TotalOrders)
	fmt.Printf("Avg order value:     %s\n", formatRatioCurrency(sum.AverageOrderValue))
	fmt.Printf("Order growth:        %s\n", formatRatioPct(sum.OrderGrowth))
	fmt.Printf("Top category:        %s (%s of revenue)\n", sum.TopCategory, formatRatioShare(sum.CategoryMarketShare))
	fmt.Printf("Top market:          %s (%d active markets)\n", sum.TopMarket, sum.ActiveMarkets)
	fmt.Printf("Avg review score:    %s\n", formatRatio(sum.AverageReviewScore, "%.2f"))
	fmt.Printf("High satisfaction:   %s\n", formatRatioShare(sum.HighSatisfactionRate))
	fmt.Printf("Avg delivery days:   %s\n", formatRatio(sum.AverageDeliveryDays, "%.1f"))

	if primary.Excluded.Total() > 0 {
		fmt.Printf("\nExcluded rows: %d (missing refs %d, bad prices %d, bad dates %d)\n",
			primary.Excluded.Total(),
			primary.Excluded.MissingOrder+primary.Excluded.MissingProduct+primary.Excluded.MissingCustomer,
			primary.Excluded.BadPrice, primary.Excluded.BadDate)
	}

	fmt.Println("\nINSIGHTS")
	fmt.Println("========")
	if len(generated) == 0 {
		fmt.Println("no rules triggered")
		return
	}
	for _, ins := range generated {
		fmt.Printf("[%s] %s\n", ins.Severity, ins.Message)
	}
}

func formatRatio(r metrics.Ratio, layout string) string {
	if !r.Valid {
		return "n/a"
	}
	return fmt.Sprintf(layout, r.Value)
}

func formatRatioPct(r metrics.Ratio) string {
	if !r.Valid {
		return "n/a"
	}
	return fmt.Sprintf("%+.1f%%", r.Value*100)
}

func formatRatioShare(r metrics.Ratio) string {
	if !r.Valid {
		return "n/a"
	}
	return fmt.Sprintf("%.1f%%", r.Value*100)
}

func formatRatioCurrency(r metrics.Ratio) string {
	if !r.Valid {
		return "n/a"
	}
	return insights.FormatCurrency(r.Value)
}
