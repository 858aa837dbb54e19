package handler

import (
	"net/http"
	"strconv"

	"bizhood/internal/middleware"
	"bizhood/internal/service"

	"github.com/gin-gonic/gin"
)

type PostHandler struct {
	svc *service.PostService
}

func NewPostHandler(svc *service.PostService) *PostHandler {
	return &PostHandler{svc: svc}
}

type PostCreateReq struct {
	Name        string `json:"name" binding:"required"`
	Contents    string `json:"contents" binding:"required"`
	CommunityID uint64 `json:"community_id" binding:"required"`
}

type PostEditReq struct {
	Contents string `json:"contents" binding:"required"`
}

type VoteReq struct {
	PostID   uint64  `json:"post_id" binding:"required"`
	WouldPay float64 `json:"would_pay"`
}

func (h *PostHandler) Create(c *gin.Context) {
	var req PostCreateReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"msg": "invalid params"})
		return
	}
	post, err := h.svc.CreatePost(middleware.UserID(c), req.CommunityID, req.Name, req.Contents)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"post": "created", "id": post.ID})
}

func (h *PostHandler) Get(c *gin.Context) {
	postID, err := strconv.ParseUint(c.Param("post_id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"msg": "invalid params"})
		return
	}
	view, err := h.svc.GetPost(postID)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

func (h *PostHandler) Edit(c *gin.Context) {
	postID, err := strconv.ParseUint(c.Param("post_id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"msg": "invalid params"})
		return
	}
	var req PostEditReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"msg": "invalid params"})
		return
	}
	if err := h.svc.EditPost(postID, req.Contents); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"post": "edited"})
}

func (h *PostHandler) Delete(c *gin.Context) {
	postID, err := strconv.ParseUint(c.Param("post_id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"msg": "invalid params"})
		return
	}
	if err := h.svc.DeletePost(postID); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"post": "deleted"})
}

func (h *PostHandler) Vote(c *gin.Context) {
	var req VoteReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"msg": "invalid params"})
		return
	}
	if err := h.svc.VoteOnPost(req.PostID, middleware.UserID(c), req.WouldPay); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"post": "voted"})
}

func (h *PostHandler) ListByCommunity(c *gin.Context) {
	communityID, err := strconv.ParseUint(c.Param("community_id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"msg": "invalid params"})
		return
	}
	page, _ := strconv.Atoi(c.Query("page"))
	size, _ := strconv.Atoi(c.Query("size"))

	list, err := h.svc.ListByCommunity(communityID, page, size)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"list": list})
}
