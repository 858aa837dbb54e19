package handler

import (
	"net/http"
	"strconv"

	"bizhood/internal/middleware"
	"bizhood/internal/service"

	"github.com/gin-gonic/gin"
)

type CommunityHandler struct {
	svc *service.CommunityService
}

func NewCommunityHandler(svc *service.CommunityService) *CommunityHandler {
	return &CommunityHandler{svc: svc}
}

type CommunityCreateReq struct {
	Name        string `json:"name" binding:"required,min=4,max=25"`
	Description string `json:"description" binding:"required,min=10"`
	RedditLink  string `json:"reddit_link"`
	Slug        string `json:"slug" binding:"required"`
}

func (h *CommunityHandler) Create(c *gin.Context) {
	var req CommunityCreateReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"msg": "invalid params"})
		return
	}
	community, err := h.svc.CreateCommunity(middleware.UserID(c), req.Name, req.Description, req.RedditLink, req.Slug)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"id":   community.ID,
		"name": community.Name,
	})
}

func (h *CommunityHandler) Delete(c *gin.Context) {
	communityID, err := strconv.ParseUint(c.Param("community_id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"msg": "invalid params"})
		return
	}
	if err := h.svc.DeleteCommunity(communityID, middleware.UserID(c)); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"community": "deleted"})
}

func (h *CommunityHandler) Join(c *gin.Context) {
	communityID, err := strconv.ParseUint(c.Param("community_id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"msg": "invalid params"})
		return
	}
	if err := h.svc.JoinCommunity(middleware.UserID(c), communityID); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"community": "joined"})
}

func (h *CommunityHandler) Leave(c *gin.Context) {
	communityID, err := strconv.ParseUint(c.Param("community_id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"msg": "invalid params"})
		return
	}
	if err := h.svc.LeaveCommunity(middleware.UserID(c), communityID); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"community": "left"})
}

// Joined 当前用户参与的社区 id
func (h *CommunityHandler) Joined(c *gin.Context) {
	ids, err := h.svc.MemberCommunityIDs(middleware.UserID(c))
	if err != nil {
		fail(c, err)
		return
	}
	if ids == nil {
		ids = []uint64{}
	}
	c.JSON(http.StatusOK, gin.H{"community_ids": ids})
}

func (h *CommunityHandler) List(c *gin.Context) {
	page, _ := strconv.Atoi(c.Query("page"))
	size, _ := strconv.Atoi(c.Query("size"))

	list, err := h.svc.ListCommunities(page, size)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"list": list})
}
