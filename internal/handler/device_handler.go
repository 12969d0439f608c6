package handler

import (
	"net/http"
	"strconv"

	"CivicReport/internal/repository/mysql"
	"CivicReport/internal/service"

	"github.com/gin-gonic/gin"
)

type DeviceHandler struct {
	svc      *service.DeviceService
	notifSvc *mysql.NotificationRepository
}

type DeviceRegisterReq struct {
	Token      string `json:"token"`
	Platform   string `json:"platform"`
	DeviceInfo string `json:"device_info"`
}

func NewDeviceHandler(svc *service.DeviceService, notifRepo *mysql.NotificationRepository) *DeviceHandler {
	return &DeviceHandler{svc: svc, notifSvc: notifRepo}
}

func (h *DeviceHandler) Register(c *gin.Context) {
	var req DeviceRegisterReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"msg": "invalid params"})
		return
	}

	if err := h.svc.Register(c.Request.Context(), currentUserID(c), req.Token, req.Platform, req.DeviceInfo); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"msg": "ok"})
}

func (h *DeviceHandler) Deactivate(c *gin.Context) {
	var req struct {
		Token string `json:"token"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"msg": "invalid params"})
		return
	}

	if err := h.svc.Deactivate(c.Request.Context(), req.Token); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"msg": "ok"})
}

func (h *DeviceHandler) List(c *gin.Context) {
	list, err := h.svc.ListActive(c.Request.Context(), currentUserID(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"msg": "list failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"list": list})
}

// Notifications 当前用户的通知记录（审计产物）
func (h *DeviceHandler) Notifications(c *gin.Context) {
	limit, _ := strconv.Atoi(c.Query("limit"))
	list, err := h.notifSvc.ListByRecipient(c.Request.Context(), currentUserID(c), limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"msg": "list failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"list": list})
}
