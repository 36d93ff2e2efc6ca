package domns

import (
	"math/big"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/shopspring/decimal"
)

const (
	MetricNameSpace = "domns"
)

var (
	txTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: MetricNameSpace,
			Name:      "transaction_total",
			Help:      "register and record transactions by outcome",
		},
		[]string{"action", "status"},
	)
	listingRefreshTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: MetricNameSpace,
			Name:      "listing_refresh_total",
			Help:      "listing refreshes by outcome",
		},
		[]string{"status"},
	)
	listingSize = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: MetricNameSpace,
			Name:      "listing_size",
			Help:      "registered names in the last listing",
		},
	)
	walletBalance = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: MetricNameSpace,
			Name:      "wallet_balance",
			Help:      "native balance of the connected account",
		},
		[]string{"account", "token"},
	)
)

func init() {
	prometheus.MustRegister(
		txTotal,
		listingRefreshTotal,
		listingSize,
		walletBalance,
	)
}

func metricTx(action string, err error) {
	status := "success"
	if err != nil {
		status = "failed"
	}
	txTotal.WithLabelValues(action, status).Inc()
}

func metricListing(size int, err error) {
	if err != nil {
		listingRefreshTotal.WithLabelValues("failed").Inc()
		return
	}
	listingRefreshTotal.WithLabelValues("success").Inc()
	listingSize.Set(float64(size))
}

func metricWalletBalance(bal *big.Int, decimals int32, account, symbol string) {
	amount, _ := decimal.NewFromBigInt(bal, -decimals).Float64()
	walletBalance.WithLabelValues(account, symbol).Set(amount)
}
