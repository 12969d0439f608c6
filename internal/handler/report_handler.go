package handler

import (
	"net/http"
	"strconv"

	"CivicReport/internal/service"

	"github.com/gin-gonic/gin"
)

type ReportHandler struct {
	svc *service.ReportService
}

type ReportCreateReq struct {
	CommunityID uint64 `json:"community_id"`
	Title       string `json:"title"`
	Content     string `json:"content"`
}

func NewReportHandler(svc *service.ReportService) *ReportHandler {
	return &ReportHandler{svc: svc}
}

func (h *ReportHandler) Create(c *gin.Context) {
	var req ReportCreateReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"msg": "invalid params"})
		return
	}

	report, err := h.svc.Create(c.Request.Context(), currentUserID(c), req.CommunityID, req.Title, req.Content)
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"id": report.ID})
}

// ListByCommunity 游标分页：?last_id=&last_ts=&size=
func (h *ReportHandler) ListByCommunity(c *gin.Context) {
	communityID := paramID(c)
	lastID, _ := strconv.ParseUint(c.Query("last_id"), 10, 64)
	lastTS, _ := strconv.ParseInt(c.Query("last_ts"), 10, 64)
	size, _ := strconv.Atoi(c.Query("size"))

	list, nextID, nextTS, err := h.svc.ListByCommunity(c.Request.Context(), communityID, lastID, lastTS, size)
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"list": list, "next_id": nextID, "next_ts": nextTS})
}

func (h *ReportHandler) Delete(c *gin.Context) {
	if err := h.svc.Delete(c.Request.Context(), currentUserID(c), paramID(c)); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"msg": "ok"})
}
