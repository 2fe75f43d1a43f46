package http

import (
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/crobro234/wuebuddy/internal/domain/board"
	apperrors "github.com/crobro234/wuebuddy/pkg/errors"
)

// ListPosts returns the bulletin board, newest first.
func (h *Handler) ListPosts(c *gin.Context) {
	posts, err := h.boardSvc.List(c.Request.Context())
	if err != nil {
		abortWithError(c, NewHTTPError(http.StatusInternalServerError, "board_failed", errMessage(err), err))
		return
	}
	c.JSON(http.StatusOK, gin.H{"posts": posts})
}

// CreatePost appends a new bulletin board entry.
func (h *Handler) CreatePost(c *gin.Context) {
	var req board.CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_request", errMessage(err), err))
		return
	}
	post, err := h.boardSvc.Create(c.Request.Context(), req)
	if err != nil {
		status := http.StatusInternalServerError
		code := "board_failed"
		if apperrors.IsCode(err, "invalid_input") {
			status = http.StatusBadRequest
			code = "invalid_request"
		}
		abortWithError(c, NewHTTPError(status, code, errMessage(err), err))
		return
	}
	c.JSON(http.StatusCreated, post)
}

// UploadAttachment stores a multipart file against a post.
func (h *Handler) UploadAttachment(c *gin.Context) {
	postID, err := strconv.ParseInt(c.Param("post_id"), 10, 64)
	if err != nil {
		abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_request", "invalid post id", err))
		return
	}
	fileHeader, err := c.FormFile("file")
	if err != nil {
		abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_request", "file is required", err))
		return
	}
	file, err := fileHeader.Open()
	if err != nil {
		abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_request", "failed to read upload", err))
		return
	}
	defer file.Close()
	data, err := io.ReadAll(file)
	if err != nil {
		abortWithError(c, NewHTTPError(http.StatusInternalServerError, "upload_failed", "failed to read file", err))
		return
	}
	attachment, err := h.boardSvc.AttachFile(c.Request.Context(), postID, fileHeader.Filename, fileHeader.Header.Get("Content-Type"), data)
	if err != nil {
		status := http.StatusInternalServerError
		code := "upload_failed"
		switch {
		case apperrors.IsCode(err, "invalid_input"):
			status = http.StatusBadRequest
			code = "invalid_request"
		case apperrors.IsCode(err, "not_found"):
			status = http.StatusNotFound
			code = "not_found"
		}
		abortWithError(c, NewHTTPError(status, code, errMessage(err), err))
		return
	}
	c.JSON(http.StatusCreated, attachment)
}

// ListAttachments returns attachment metadata for a post.
func (h *Handler) ListAttachments(c *gin.Context) {
	postID, err := strconv.ParseInt(c.Param("post_id"), 10, 64)
	if err != nil {
		abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_request", "invalid post id", err))
		return
	}
	attachments, err := h.boardSvc.Attachments(c.Request.Context(), postID)
	if err != nil {
		status := http.StatusInternalServerError
		code := "board_failed"
		if apperrors.IsCode(err, "not_found") {
			status = http.StatusNotFound
			code = "not_found"
		}
		abortWithError(c, NewHTTPError(status, code, errMessage(err), err))
		return
	}
	c.JSON(http.StatusOK, gin.H{"attachments": attachments})
}

// DownloadAttachment streams the stored file back to the client.
func (h *Handler) DownloadAttachment(c *gin.Context) {
	id, err := uuid.Parse(c.Param("attachment_id"))
	if err != nil {
		abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_request", "invalid attachment id", err))
		return
	}
	attachment, reader, err := h.boardSvc.OpenAttachment(c.Request.Context(), id)
	if err != nil {
		status := http.StatusInternalServerError
		code := "board_failed"
		if apperrors.IsCode(err, "not_found") {
			status = http.StatusNotFound
			code = "not_found"
		}
		abortWithError(c, NewHTTPError(status, code, errMessage(err), err))
		return
	}
	defer reader.Close()

	extraHeaders := map[string]string{
		"Content-Disposition": `attachment; filename="` + attachment.FileName + `"`,
	}
	c.DataFromReader(http.StatusOK, attachment.SizeBytes, attachment.MimeType, reader, extraHeaders)
}
