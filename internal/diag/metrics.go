package diag

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// 指标命名沿用三类：
// - op_total{comp,stage,result}
// - error_total{comp,code}
// - op_duration_ms{comp,stage}
var (
	opTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "flachtex_op_total",
		Help: "Count of component operations by stage and result.",
	}, []string{"comp", "stage", "result"})

	errorTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "flachtex_error_total",
		Help: "Count of errors by component and classification code.",
	}, []string{"comp", "code"})

	opDurationMS = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "flachtex_op_duration_ms",
		Help:    "Duration of component operations in milliseconds.",
		Buckets: prometheus.ExponentialBuckets(1, 2, 16),
	}, []string{"comp", "stage"})
)

// IncOp 累加操作计数（result=success|error）。
func IncOp(comp, stage, result string) {
	opTotal.WithLabelValues(comp, stage, result).Inc()
}

// IncError 按分类累加错误计数。
func IncError(comp, code string) {
	errorTotal.WithLabelValues(comp, code).Inc()
}

// ObserveDuration 记录阶段耗时（毫秒）。
func ObserveDuration(comp, stage string, durMS int64) {
	opDurationMS.WithLabelValues(comp, stage).Observe(float64(durMS))
}

// ServeMetrics 在给定地址上暴露 /metrics；调用方负责管理生命周期（通常放入后台 goroutine）。
// 仅在用户显式传入 --metrics-addr 时才会被调用，默认工具保持无网络监听的密闭状态。
func ServeMetrics(addr string) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	return http.ListenAndServe(addr, mux)
}
