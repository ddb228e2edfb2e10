package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/freee021022/onco/internal/events"
	"github.com/freee021022/onco/internal/models"
	"github.com/freee021022/onco/internal/types"
	"github.com/freee021022/onco/internal/utils"
)

func (h *Handler) GetForumCategories(ctx *gin.Context) {
	categories, err := h.store.GetForumCategories(ctx.Request.Context())
	if err != nil {
		fail(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, categories)
}

func (h *Handler) GetForumPosts(ctx *gin.Context) {
	var (
		posts []models.ForumPost
		err   error
	)

	if categoryID, ok := utils.GetQueryID(ctx, "categoryId"); ok {
		posts, err = h.store.GetForumPostsByCategory(ctx.Request.Context(), categoryID)
	} else {
		posts, err = h.store.GetForumPosts(ctx.Request.Context())
	}

	if err != nil {
		fail(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, posts)
}

// GetForumPost returns the post as read before this view was counted.
func (h *Handler) GetForumPost(ctx *gin.Context) {
	postID, err := utils.GetParamID(ctx, "id")
	if err != nil {
		badRequest(ctx, "Invalid post ID")
		return
	}

	reqCtx := ctx.Request.Context()

	post, err := h.store.GetForumPost(reqCtx, postID)
	if err != nil {
		fail(ctx, err)
		return
	}

	if err := h.store.IncrementPostViewCount(reqCtx, postID); err != nil {
		fail(ctx, err)
		return
	}

	comments, err := h.store.GetForumCommentsByPost(reqCtx, postID)
	if err != nil {
		fail(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, types.ForumPostDetail{Post: post, Comments: comments})
}

func (h *Handler) CreateForumPost(ctx *gin.Context) {
	var body types.InsertForumPost

	if err := bindJSON(ctx, &body, "Invalid post data"); err != nil {
		fail(ctx, err)
		return
	}

	post := body.Model()
	if err := h.store.CreateForumPost(ctx.Request.Context(), &post); err != nil {
		fail(ctx, err)
		return
	}

	h.publish(ctx.Request.Context(), events.ForumPostCreated, strconv.FormatUint(uint64(post.CategoryID), 10), &post)

	ctx.JSON(http.StatusCreated, post)
}

func (h *Handler) CreateForumComment(ctx *gin.Context) {
	var body types.InsertForumComment

	if err := bindJSON(ctx, &body, "Invalid comment data"); err != nil {
		fail(ctx, err)
		return
	}

	comment := body.Model()
	if err := h.store.CreateForumComment(ctx.Request.Context(), &comment); err != nil {
		fail(ctx, err)
		return
	}

	h.publish(ctx.Request.Context(), events.ForumCommentCreated, strconv.FormatUint(uint64(comment.PostID), 10), &comment)

	ctx.JSON(http.StatusCreated, comment)
}
