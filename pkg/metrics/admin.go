// Copyright 2025 Arcade Team
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package metrics

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "admin"

// Login 结果标签
const (
	LoginSuccess  = "success"
	LoginFailure  = "failure"
	LoginDisabled = "disabled"
)

// AdminMetrics 业务指标，方法对 nil 接收者安全
type AdminMetrics struct {
	LoginTotal          *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec
	CronJobRunsTotal    *prometheus.CounterVec
	CronJobErrorsTotal  *prometheus.CounterVec
	CronJobDuration     *prometheus.HistogramVec
	CronJobLastRunTime  *prometheus.GaugeVec
}

func NewAdminMetrics(reg prometheus.Registerer) (*AdminMetrics, error) {
	m := &AdminMetrics{
		LoginTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "login_total",
			Help:      "Total number of login attempts by result",
		}, []string{"result"}),
		HTTPRequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "Duration of HTTP requests in seconds",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route", "status"}),
		CronJobRunsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cron_job_runs_total",
			Help:      "Total number of cron job runs",
		}, []string{"job_name"}),
		CronJobErrorsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cron_job_errors_total",
			Help:      "Total number of cron job errors",
		}, []string{"job_name"}),
		CronJobDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "cron_job_run_duration_seconds",
			Help:      "Duration of cron job runs in seconds",
			Buckets:   prometheus.ExponentialBuckets(0.001, 2, 15), // 1ms to ~32s
		}, []string{"job_name"}),
		CronJobLastRunTime: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "cron_job_last_run_time_seconds",
			Help:      "Last run time of cron job in seconds since epoch",
		}, []string{"job_name"}),
	}

	for _, c := range []prometheus.Collector{
		m.LoginTotal,
		m.HTTPRequestDuration,
		m.CronJobRunsTotal,
		m.CronJobErrorsTotal,
		m.CronJobDuration,
		m.CronJobLastRunTime,
	} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

func (m *AdminMetrics) RecordLogin(result string) {
	if m == nil {
		return
	}
	m.LoginTotal.WithLabelValues(result).Inc()
}

// RecordJobRun 实现 cron.Recorder
func (m *AdminMetrics) RecordJobRun(name string, duration time.Duration, err error) {
	if m == nil {
		return
	}
	if err != nil {
		m.CronJobErrorsTotal.WithLabelValues(name).Inc()
	}
	m.CronJobRunsTotal.WithLabelValues(name).Inc()
	m.CronJobDuration.WithLabelValues(name).Observe(duration.Seconds())
	m.CronJobLastRunTime.WithLabelValues(name).Set(float64(time.Now().Unix()))
}

// FiberMiddleware 按路由模板记录请求耗时
func (m *AdminMetrics) FiberMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if m == nil {
			return c.Next()
		}
		start := time.Now()
		err := c.Next()

		route := c.Route().Path
		if route == "" {
			route = "unmatched"
		}
		status := c.Response().StatusCode()
		if err != nil {
			if fe, ok := err.(*fiber.Error); ok {
				status = fe.Code
			} else {
				status = fiber.StatusInternalServerError
			}
		}
		m.HTTPRequestDuration.
			WithLabelValues(c.Method(), route, strconv.Itoa(status)).
			Observe(time.Since(start).Seconds())
		return err
	}
}
