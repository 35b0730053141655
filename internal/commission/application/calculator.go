package application

import (
	"fmt"
	"math"
	"strconv"

	commission "trophy-ops/internal/commission/domain"
	"trophy-ops/internal/rateconfig"
)

// DescriptionConfigNotFound marks settlements that found no active rate config.
const DescriptionConfigNotFound = "config not found"

// Compute derives a commission result from a rate config and order figures.
// Pure; amounts are rounded to standard currency precision.
func Compute(cfg rateconfig.RateConfig, quantity int, totalSales float64) commission.Result {
	switch cfg.Method {
	case rateconfig.CalcPerPiece:
		amount := round2(cfg.Rate * float64(quantity))
		return commission.Result{
			RateDisplay:       formatNumber(cfg.Rate) + " per unit",
			BaseAmountDisplay: strconv.Itoa(quantity) + " units",
			Amount:            amount,
			Description:       fmt.Sprintf("%s × %d = %s", formatNumber(cfg.Rate), quantity, formatNumber(amount)),
		}
	case rateconfig.CalcPercentOfSales:
		amount := round2(cfg.Rate / 100 * totalSales)
		return commission.Result{
			RateDisplay:       formatNumber(cfg.Rate) + "%",
			BaseAmountDisplay: formatCurrency(totalSales),
			Amount:            amount,
			Description:       fmt.Sprintf("%s%% of %s = %s", formatNumber(cfg.Rate), formatNumber(totalSales), formatNumber(amount)),
		}
	}
	// Registry validation keeps this unreachable for loaded configs.
	return commission.Result{RateDisplay: "-", BaseAmountDisplay: "-", Description: "unsupported calc method"}
}

func degradedResult() commission.Result {
	return commission.Result{
		RateDisplay:       "-",
		BaseAmountDisplay: "-",
		Amount:            0,
		Description:       DescriptionConfigNotFound,
	}
}

func round2(value float64) float64 {
	return math.Round(value*100) / 100
}

func formatNumber(value float64) string {
	return strconv.FormatFloat(round2(value), 'f', -1, 64)
}

func formatCurrency(value float64) string {
	return strconv.FormatFloat(round2(value), 'f', 2, 64)
}
