package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// Metrics 业务与 HTTP 指标
// 使用独立 Registry，避免测试中重复注册全局指标
type Metrics struct {
	Registry *prometheus.Registry

	httpRequests   *prometheus.CounterVec
	membersCreated prometheus.Counter
	membersDeleted prometheus.Counter
	feesRecorded   prometheus.Counter
	dashboardViews prometheus.Counter
	loginThrottled prometheus.Counter
}

// New 创建并注册全部指标
func New() *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		Registry: reg,
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "gym",
			Name:      "http_requests_total",
			Help:      "HTTP 请求总数（按方法、路由、状态码）",
		}, []string{"method", "route", "status"}),
		membersCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "gym",
			Name:      "members_created_total",
			Help:      "新增会员数",
		}),
		membersDeleted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "gym",
			Name:      "members_deleted_total",
			Help:      "删除会员请求数",
		}),
		feesRecorded: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "gym",
			Name:      "fees_recorded_total",
			Help:      "记录的缴费笔数（含入会首笔）",
		}),
		dashboardViews: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "gym",
			Name:      "dashboard_views_total",
			Help:      "看板计算次数",
		}),
		loginThrottled: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "gym",
			Name:      "login_throttled_total",
			Help:      "因尝试过多被拒绝的登录请求数",
		}),
	}

	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.httpRequests,
		m.membersCreated,
		m.membersDeleted,
		m.feesRecorded,
		m.dashboardViews,
		m.loginThrottled,
	)
	return m
}

// ObserveRequest 记录一次 HTTP 请求
func (m *Metrics) ObserveRequest(method, route string, status int) {
	if m == nil {
		return
	}
	if route == "" {
		route = "unmatched"
	}
	m.httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
}

// MemberCreated 新增会员（同时计入首笔缴费）
func (m *Metrics) MemberCreated() {
	if m == nil {
		return
	}
	m.membersCreated.Inc()
	m.feesRecorded.Inc()
}

// MemberDeleted 删除会员
func (m *Metrics) MemberDeleted() {
	if m == nil {
		return
	}
	m.membersDeleted.Inc()
}

// FeeRecorded 记录缴费
func (m *Metrics) FeeRecorded() {
	if m == nil {
		return
	}
	m.feesRecorded.Inc()
}

// DashboardViewed 看板被计算一次
func (m *Metrics) DashboardViewed() {
	if m == nil {
		return
	}
	m.dashboardViews.Inc()
}

// LoginThrottled 登录请求被限流
func (m *Metrics) LoginThrottled() {
	if m == nil {
		return
	}
	m.loginThrottled.Inc()
}
