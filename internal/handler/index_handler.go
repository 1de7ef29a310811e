package handler

import (
	"time"

	"github.com/gofiber/fiber/v2"
)

// APIVersion is reported by the root and index endpoints.
const APIVersion = "1.0.0"

func routeIndex() map[string][]string {
	return map[string][]string{
		"auth": {
			"POST /api/auth/register",
			"POST /api/auth/login",
			"GET /api/auth/verify-token",
		},
		"students": {
			"GET /api/students/course/:studentId",
			"GET /api/students/projects/:studentId",
			"POST /api/students/select-project",
			"PUT /api/students/update-project/:studentId",
		},
		"projects": {
			"GET /api/projects/available/:course",
			"GET /api/projects/details/:projectId",
			"GET /api/projects/references/:projectId",
		},
		"submissions": {
			"POST /api/submissions/weekly/:studentId",
			"GET /api/submissions/weekly/:studentId",
			"POST /api/submissions/project/:studentId",
			"GET /api/submissions/project/:studentId",
		},
		"discussions": {
			"GET /api/discussions/:studentId",
			"POST /api/discussions/:studentId/questions",
			"POST /api/discussions/:studentId/questions/:questionId/answers",
			"PUT /api/discussions/:studentId/questions/:questionId",
			"DELETE /api/discussions/:studentId/questions/:questionId",
		},
	}
}

// Root greets clients hitting the bare host.
func Root(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"success": true,
		"message": "Welcome to ICTAK Backend API",
		"version": APIVersion,
		"documentation": fiber.Map{
			"health": "/api/health",
			"endpoints": fiber.Map{
				"auth":        "/api/auth",
				"students":    "/api/students",
				"projects":    "/api/projects",
				"submissions": "/api/submissions",
				"discussions": "/api/discussions",
			},
		},
		"timestamp": time.Now().UTC(),
	})
}

// APIIndex lists every endpoint.
func APIIndex(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"success":   true,
		"message":   "ICTAK API Documentation",
		"version":   APIVersion,
		"baseUrl":   c.BaseURL(),
		"endpoints": routeIndex(),
	})
}
