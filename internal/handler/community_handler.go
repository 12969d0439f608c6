package handler

import (
	"net/http"
	"strconv"

	"CivicReport/internal/pkg"
	"CivicReport/internal/service"

	"github.com/gin-gonic/gin"
)

// CommunityHandler 社区与审核动作的薄适配层，业务全在 service。
type CommunityHandler struct {
	svc        *service.CommunityService
	moderation *service.ModerationService
	cascade    *service.CascadeService
}

type CommunityCreateReq struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

type ExpelReq struct {
	TargetID uint64 `json:"target_id"`
	Reason   string `json:"reason"`
}

func NewCommunityHandler(svc *service.CommunityService, moderation *service.ModerationService, cascade *service.CascadeService) *CommunityHandler {
	return &CommunityHandler{svc: svc, moderation: moderation, cascade: cascade}
}

func currentUserID(c *gin.Context) uint64 {
	v, _ := c.Get("user_id")
	id, _ := v.(uint64)
	return id
}

func paramID(c *gin.Context) uint64 {
	id, _ := strconv.ParseUint(c.Param("id"), 10, 64)
	return id
}

func fail(c *gin.Context, err error) {
	c.JSON(pkg.HTTPStatus(err), gin.H{"msg": err.Error()})
}

func (h *CommunityHandler) Create(c *gin.Context) {
	var req CommunityCreateReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"msg": "invalid params"})
		return
	}

	community, err := h.svc.Create(c.Request.Context(), currentUserID(c), req.Name, req.Description)
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"id":          community.ID,
		"name":        community.Name,
		"description": community.Description,
	})
}

func (h *CommunityHandler) List(c *gin.Context) {
	page, _ := strconv.Atoi(c.Query("page"))
	size, _ := strconv.Atoi(c.Query("size"))

	list, err := h.svc.List(c.Request.Context(), page, size)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"msg": "list failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"list": list})
}

func (h *CommunityHandler) Join(c *gin.Context) {
	if _, err := h.moderation.Join(c.Request.Context(), currentUserID(c), paramID(c)); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"msg": "ok"})
}

func (h *CommunityHandler) Leave(c *gin.Context) {
	if err := h.moderation.Leave(c.Request.Context(), currentUserID(c), paramID(c)); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"msg": "ok"})
}

func (h *CommunityHandler) Expel(c *gin.Context) {
	var req ExpelReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"msg": "invalid params"})
		return
	}

	if err := h.moderation.Expel(c.Request.Context(), currentUserID(c), paramID(c), req.TargetID, req.Reason); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"msg": "ok"})
}

func (h *CommunityHandler) Suspend(c *gin.Context) {
	if err := h.svc.Suspend(c.Request.Context(), currentUserID(c), paramID(c)); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"msg": "ok"})
}

func (h *CommunityHandler) Reactivate(c *gin.Context) {
	if err := h.svc.Reactivate(c.Request.Context(), currentUserID(c), paramID(c)); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"msg": "ok"})
}

func (h *CommunityHandler) Delete(c *gin.Context) {
	if err := h.cascade.DeleteCommunity(c.Request.Context(), currentUserID(c), paramID(c)); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"msg": "ok"})
}
