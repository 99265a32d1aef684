package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"go-user-api/internal/service"
	"go-user-api/internal/transport/http/middleware"
	"go-user-api/internal/transport/http/request"
	resp "go-user-api/internal/transport/http/response"
)

// UserHandler 校验入参 → 调 Service → 包装响应；
// 错误一律 c.Error 上抛给 Errors 中间件统一序列化。
type UserHandler struct {
	svc *service.UserService
	log *zap.Logger
}

func NewUserHandler(svc *service.UserService, log *zap.Logger) *UserHandler {
	return &UserHandler{svc: svc, log: log}
}

func (h *UserHandler) fail(c *gin.Context, err error) {
	_ = c.Error(err)
	c.Abort()
}

func (h *UserHandler) failValidation(c *gin.Context, err error) {
	h.log.Warn("request validation failed",
		zap.String("rid", c.GetString(middleware.KeyRequestID)),
		zap.String("path", c.FullPath()),
		zap.Error(err),
	)
	h.fail(c, err)
}

// List GET /users?page&limit
func (h *UserHandler) List(c *gin.Context) {
	q, err := request.ParseListQuery(c.Request.URL.Query())
	if err != nil {
		h.failValidation(c, err)
		return
	}
	users, meta, err := h.svc.ListUsers(q)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, resp.Page(users, meta))
}

// Get GET /users/:id
func (h *UserHandler) Get(c *gin.Context) {
	id, err := request.ParseID(c.Param("id"))
	if err != nil {
		h.failValidation(c, err)
		return
	}
	u, err := h.svc.GetUserByID(id)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, resp.Data(u))
}

// Create POST /users
func (h *UserHandler) Create(c *gin.Context) {
	in, err := request.ParseCreateUser(c.Request.Body)
	if err != nil {
		h.failValidation(c, err)
		return
	}
	u, err := h.svc.CreateUser(in)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp.Data(u))
}

// Update PATCH /users/:id
func (h *UserHandler) Update(c *gin.Context) {
	id, err := request.ParseID(c.Param("id"))
	if err != nil {
		h.failValidation(c, err)
		return
	}
	in, err := request.ParseUpdateUser(c.Request.Body)
	if err != nil {
		h.failValidation(c, err)
		return
	}
	u, err := h.svc.UpdateUser(id, in)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, resp.Data(u))
}

// Delete DELETE /users/:id
func (h *UserHandler) Delete(c *gin.Context) {
	id, err := request.ParseID(c.Param("id"))
	if err != nil {
		h.failValidation(c, err)
		return
	}
	if err := h.svc.DeleteUser(id); err != nil {
		h.fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
