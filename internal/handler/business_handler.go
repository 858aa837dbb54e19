package handler

import (
	"net/http"
	"strconv"

	"bizhood/internal/middleware"
	"bizhood/internal/service"

	"github.com/gin-gonic/gin"
)

type BusinessHandler struct {
	svc       *service.BusinessService
	discovery *service.DiscoveryService
}

func NewBusinessHandler(svc *service.BusinessService, discovery *service.DiscoveryService) *BusinessHandler {
	return &BusinessHandler{svc: svc, discovery: discovery}
}

type BusinessCreateReq struct {
	Name         string   `json:"name" binding:"required,max=20"`
	Bio          string   `json:"bio" binding:"required"`
	CommunityIDs []uint64 `json:"community_ids"`
}

// BusinessEditReq 部分更新：两个字段都可缺省；community_ids 传空数组会清空关联
type BusinessEditReq struct {
	Bio          *string  `json:"bio"`
	CommunityIDs []uint64 `json:"community_ids"`
}

type VerifyReq struct {
	BusinessID uint64 `json:"business_id" binding:"required"`
	Type       string `json:"type" binding:"required,max=5"`
}

func (h *BusinessHandler) Create(c *gin.Context) {
	var req BusinessCreateReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"msg": "invalid params"})
		return
	}
	if _, err := h.svc.CreateBusiness(middleware.UserID(c), req.Name, req.Bio, req.CommunityIDs); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"business": "created"})
}

func (h *BusinessHandler) Edit(c *gin.Context) {
	businessID, err := strconv.ParseUint(c.Param("business_id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"msg": "invalid params"})
		return
	}
	var req BusinessEditReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"msg": "invalid params"})
		return
	}
	if err := h.svc.EditBusiness(businessID, middleware.UserID(c), req.Bio, req.CommunityIDs); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"business": "edited"})
}

func (h *BusinessHandler) Delete(c *gin.Context) {
	businessID, err := strconv.ParseUint(c.Param("business_id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"msg": "invalid params"})
		return
	}
	if err := h.svc.DeleteBusiness(businessID, middleware.UserID(c)); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"business": "deleted"})
}

func (h *BusinessHandler) Get(c *gin.Context) {
	businessID, err := strconv.ParseUint(c.Param("business_id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"msg": "invalid params"})
		return
	}
	view, err := h.svc.GetBusiness(businessID, middleware.UserID(c))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

func (h *BusinessHandler) Verify(c *gin.Context) {
	var req VerifyReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"msg": "invalid params"})
		return
	}
	if err := h.svc.VerifyBusiness(req.BusinessID, middleware.UserID(c), req.Type); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"business": "verified"})
}

// Newcomers 最新商家：有社区查社区范围，没有走全局
func (h *BusinessHandler) Newcomers(c *gin.Context) {
	n, err := strconv.Atoi(c.Param("n"))
	if err != nil || n < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"msg": "invalid params"})
		return
	}
	listings, err := h.discovery.NewcomersForUser(middleware.UserID(c), n)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"newcomers": listings})
}
