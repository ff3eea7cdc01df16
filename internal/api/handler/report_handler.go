package handler

import (
	"Reunite/internal/pkg/response"
	"Reunite/internal/service"
	"strconv"

	"github.com/gin-gonic/gin"
)

type ReportHandler struct {
	reportService service.ReportService
}

func NewReportHandler(s service.ReportService) *ReportHandler {
	return &ReportHandler{
		reportService: s,
	}
}

// 非数字的 id 与不存在的报告同样按 404 处理
func parseReportID(c *gin.Context) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		response.Error(c, service.ErrReportNotFound)
		return 0, false
	}
	return id, true
}

// GetReport 报告详情，浏览量取实时值
func (h *ReportHandler) GetReport(c *gin.Context) {
	id, ok := parseReportID(c)
	if !ok {
		return
	}

	report, err := h.reportService.GetReport(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, report)
}

// RecordView 记录一次浏览并返回自增后的总数
func (h *ReportHandler) RecordView(c *gin.Context) {
	id, ok := parseReportID(c)
	if !ok {
		return
	}

	view, err := h.reportService.RecordView(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, view)
}

// ResolveReport 报告归属者标记已解决
func (h *ReportHandler) ResolveReport(c *gin.Context) {
	id, ok := parseReportID(c)
	if !ok {
		return
	}

	userID := c.GetUint64("user_id")
	if err := h.reportService.ResolveReport(c.Request.Context(), userID, id); err != nil {
		response.Error(c, err)
		return
	}

	response.Message(c, "Report resolved")
}
