package handlers

import (
	"errors"
	"log/slog"

	"github.com/gofiber/fiber/v2"
	config "github.com/mdriyaz-a/captionflow/configs"
	"github.com/mdriyaz-a/captionflow/internal/service"
	"github.com/mdriyaz-a/captionflow/internal/transfer"
)

type PostHandler struct {
	cfg  config.Config
	s    service.PostService
	auth service.AuthService
}

func NewPostHandler(cfg config.Config, service service.PostService, auth service.AuthService) *PostHandler {
	return &PostHandler{cfg: cfg, s: service, auth: auth}
}

func (h *PostHandler) CreatePost(c *fiber.Ctx) error {
	userID := GetUserID(c)

	var req transfer.PostCreation
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Unable to parse request body",
		})
	}

	post, status, err := h.s.Create(c.Context(), userID, &req)
	if err != nil {
		if errors.Is(err, service.ErrCaptionRequired) || errors.Is(err, service.ErrInvalidPostType) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": err.Error(),
			})
		}
		slog.Error(err.Error())
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Unable to create post",
		})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"post":             post.ToMap(),
		"instagram_status": status,
	})
}

func (h *PostHandler) ListPosts(c *fiber.Ctx) error {
	userID := GetUserID(c)

	posts, err := h.s.List(c.Context(), userID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Unable to list posts",
		})
	}

	result := make([]map[string]interface{}, 0, len(posts))
	for _, post := range posts {
		result = append(result, post.ToMap())
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"posts": result,
	})
}

func (h *PostHandler) GetPost(c *fiber.Ctx) error {
	userID := GetUserID(c)

	postID, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid post id",
		})
	}

	post, err := h.s.PostInfo(c.Context(), int64(postID), userID)
	if err != nil {
		return postErrorResponse(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(post.ToMap())
}

func (h *PostHandler) UpdatePost(c *fiber.Ctx) error {
	userID := GetUserID(c)

	postID, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid post id",
		})
	}

	var req transfer.PostUpdate
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Unable to parse request body",
		})
	}

	post, err := h.s.Update(c.Context(), int64(postID), userID, &req)
	if err != nil {
		if errors.Is(err, service.ErrInvalidPostType) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": err.Error(),
			})
		}
		return postErrorResponse(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(post.ToMap())
}

func (h *PostHandler) RemovePost(c *fiber.Ctx) error {
	userID := GetUserID(c)

	postID, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid post id",
		})
	}

	if err := h.s.Remove(c.Context(), int64(postID), userID); err != nil {
		return postErrorResponse(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"message": "Post removed",
	})
}

// PublishPost queues a background Instagram publish for an existing post.
// Credentials come from the request body, then the user's stored credentials,
// then the server-wide account from the environment.
func (h *PostHandler) PublishPost(c *fiber.Ctx) error {
	userID := GetUserID(c)

	postID, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid post id",
		})
	}

	var req transfer.PublishRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Unable to parse request body",
			})
		}
	}

	var username, password string
	if req.InstagramCredentials != nil && req.InstagramCredentials.Username != "" {
		username = req.InstagramCredentials.Username
		password = req.InstagramCredentials.Password
	} else if username, password, err = h.auth.StoredInstagramCredentials(c.Context(), userID); err != nil {
		username = h.cfg.InstagramUsername
		password = h.cfg.InstagramPassword
		if username == "" {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "No Instagram credentials provided or stored",
			})
		}
	}

	status, err := h.s.Publish(c.Context(), int64(postID), userID, username, password)
	if err != nil {
		return postErrorResponse(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"instagram_status": status,
	})
}

func postErrorResponse(c *fiber.Ctx, err error) error {
	if errors.Is(err, service.ErrPostNotFound) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": err.Error(),
		})
	}
	slog.Error(err.Error())
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"error": "Unable to process post",
	})
}
