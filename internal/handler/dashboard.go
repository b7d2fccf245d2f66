package handler

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/kaoqin/kaoqin/internal/service"
	"github.com/kaoqin/kaoqin/pkg/analytics"
	"github.com/kaoqin/kaoqin/pkg/logger"
)

// DashboardHandler 看板查询API
//
// 查询只读，不修改存储；数据不足时返回定义好的回退对象，
// 因此查询端点总是 200，错误状态码只出现在摄取端点。
type DashboardHandler struct {
	engine *analytics.Engine
	svc    *service.Service
}

// NewDashboardHandler 创建看板处理器
func NewDashboardHandler(engine *analytics.Engine, svc *service.Service) *DashboardHandler {
	return &DashboardHandler{engine: engine, svc: svc}
}

// Metrics 当前指标API
func (h *DashboardHandler) Metrics(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		sendJSONError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	sendJSON(w, h.engine.CurrentMetrics())
}

// Alerts 活动告警API
func (h *DashboardHandler) Alerts(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		sendJSONError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	sendJSON(w, h.engine.ActiveAlerts())
}

// Regional 区域经理汇总API
func (h *DashboardHandler) Regional(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		sendJSONError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	rollups := h.engine.RegionalBreakdown()
	if rollups == nil {
		rollups = []analytics.ManagerRollup{}
	}
	sendJSON(w, rollups)
}

// History 历史趋势API，支持 ?weeks=N
func (h *DashboardHandler) History(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		sendJSONError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	weeks := 12
	if v := r.URL.Query().Get("weeks"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			weeks = n
		}
	}
	sendJSON(w, h.engine.AttendanceHistory(weeks))
}

// AtRisk 风险员工API
func (h *DashboardHandler) AtRisk(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		sendJSONError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	entries := h.engine.AtRiskEmployees()
	if entries == nil {
		entries = []analytics.RiskEntry{}
	}
	sendJSON(w, entries)
}

// Attendance 某日期考勤明细API，路径 /api/v1/dashboard/attendance/{date}
func (h *DashboardHandler) Attendance(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		sendJSONError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	date := strings.TrimPrefix(r.URL.Path, "/api/v1/dashboard/attendance/")
	if date == "" || strings.Contains(date, "/") {
		sendJSONError(w, "Invalid date path", http.StatusBadRequest)
		return
	}
	sendJSON(w, h.engine.DetailedAttendance(date))
}

// Dates 可用日期列表API
func (h *DashboardHandler) Dates(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		sendJSONError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	dates := h.engine.AvailableDates()
	if dates == nil {
		dates = []string{}
	}
	sendJSON(w, dates)
}

// Refresh 从快照重载存储API
func (h *DashboardHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		sendJSONError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	if err := h.svc.Refresh(r.Context()); err != nil {
		logger.WithContext(r.Context()).Error().Err(err).Msg("存储刷新失败")
		sendAppError(w, err)
		return
	}
	sendJSON(w, map[string]string{"status": "refreshed"})
}
