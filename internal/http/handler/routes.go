package handler

import (
	"context"
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"

	"storyapi/internal/model"
	"storyapi/internal/repository"
	"storyapi/internal/service"
)

const healthTimeout = 2 * time.Second

// RegisterRoutes attaches HTTP routes to the provided Fiber app.
// CORS applies to the story routes only; operational routes stay same-origin.
func RegisterRoutes(app *fiber.App, store repository.Pinger, storySvc service.StoryService, corsOrigins string) {
	app.Get("/health", HealthCheck(store))
	app.Get("/healthz", LivenessProbe())

	stories := app.Group("/api/stories", cors.New(cors.Config{
		AllowOrigins: corsOrigins,
		AllowMethods: "GET,POST,OPTIONS",
		AllowHeaders: "Origin,Content-Type,Accept,X-Request-ID",
	}))
	stories.Get("", ListStories(storySvc))
	stories.Post("", CreateStory(storySvc))
}

// HealthCheck godoc
// @Summary Store health
// @Description Pings the configured story store.
// @Tags ops
// @Produce json
// @Success 200 {object} map[string]string
// @Failure 503 {object} errorPayload
// @Router /health [get]
func HealthCheck(store repository.Pinger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx, cancel := context.WithTimeout(c.UserContext(), healthTimeout)
		defer cancel()
		if err := store.Ping(ctx); err != nil {
			return writeError(c, fiber.StatusServiceUnavailable, "SERVICE_UNAVAILABLE", "dependency unavailable")
		}
		return c.Status(fiber.StatusOK).JSON(fiber.Map{"status": "healthy"})
	}
}

// LivenessProbe reports that the process is serving.
func LivenessProbe() fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	}
}

// ListStories godoc
// @Summary List stories
// @Description Returns every stored story, newest first. An empty store yields [].
// @Tags stories
// @Produce json
// @Success 200 {array} model.Story
// @Failure 500 {object} errorPayload
// @Router /api/stories [get]
func ListStories(storySvc service.StoryService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		stories, err := storySvc.ListStories(c.UserContext())
		if err != nil {
			return writeServiceError(c, err)
		}
		if stories == nil {
			stories = []model.Story{}
		}
		return c.Status(fiber.StatusOK).JSON(stories)
	}
}

// CreateStory godoc
// @Summary Create a story
// @Description Validates the draft, fills defaults and stores it as a new story.
// @Tags stories
// @Accept json
// @Produce json
// @Param story body model.StoryDraft true "Story draft"
// @Success 200 {object} model.Story
// @Failure 400 {object} errorPayload
// @Failure 500 {object} errorPayload
// @Router /api/stories [post]
func CreateStory(storySvc service.StoryService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var draft model.StoryDraft
		// The app's JSON decoder is used directly so a missing Content-Type still parses.
		if err := c.App().Config().JSONDecoder(c.Body(), &draft); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "request body must be a JSON object")
		}

		story, err := storySvc.CreateStory(c.UserContext(), &draft)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.Status(fiber.StatusOK).JSON(story)
	}
}

// writeServiceError maps service errors onto the HTTP error envelope.
func writeServiceError(c *fiber.Ctx, err error) error {
	var verr *service.ValidationError
	if errors.As(err, &verr) {
		return writeFieldError(c, fiber.StatusBadRequest, "VALIDATION_ERROR", verr.Error(), verr.Field)
	}
	var serr *service.StoreUnavailableError
	if errors.As(err, &serr) {
		return writeError(c, fiber.StatusInternalServerError, "STORE_UNAVAILABLE", "story store unavailable")
	}
	return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
}
