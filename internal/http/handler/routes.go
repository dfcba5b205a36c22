package handler

import (
	"context"
	"database/sql"
	"errors"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"

	"bgcapi/internal/service"
)

// searchRequest is the POST body for search and export requests.
type searchRequest struct {
	SearchString string `json:"search_string"`
	Offset       int    `json:"offset"`
	Paginate     int    `json:"paginate"`
}

// RegisterRoutes attaches HTTP routes to the provided Fiber app.
// Handlers stay thin; search semantics live in the service layer.
func RegisterRoutes(app *fiber.App, db *sql.DB, searchSvc service.SearchService) {
	// Serve OpenAPI spec and Swagger UI
	app.Get("/openapi.yaml", func(c *fiber.Ctx) error {
		c.Type("yaml")
		return c.SendFile("openapi.yaml")
	})
	app.Get("/docs", func(c *fiber.Ctx) error {
		html := `<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="UTF-8" />
  <meta name="viewport" content="width=device-width, initial-scale=1" />
  <title>API Docs</title>
  <link rel="stylesheet" href="https://unpkg.com/swagger-ui-dist@5/swagger-ui.css" />
</head>
<body>
  <div id="swagger-ui"></div>
  <script src="https://unpkg.com/swagger-ui-dist@5/swagger-ui-bundle.js"></script>
  <script>
    window.ui = SwaggerUIBundle({
      url: '/openapi.yaml',
      dom_id: '#swagger-ui',
      presets: [SwaggerUIBundle.presets.apis],
      layout: 'BaseLayout'
    });
  </script>
</body>
</html>`
		return c.Type("html").SendString(html)
	})

	app.Get("/health", HealthCheck(db))
	app.Get("/healthz", LivenessProbe())

	v1 := app.Group("/api/v1.0")
	v1.Get("/search", SearchClusters(searchSvc))
	v1.Post("/search", SearchClustersPost(searchSvc))
	v1.Get("/export", ExportClusters(searchSvc))
	v1.Post("/export", ExportArchiveLink(searchSvc))
	v1.Get("/available/:category/:term", AvailableTerms(searchSvc))
}

// HealthCheck reports readiness; it checks DB connectivity only.
func HealthCheck(db *sql.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx, cancel := context.WithTimeout(c.UserContext(), 2*time.Second)
		defer cancel()
		if err := db.PingContext(ctx); err != nil {
			return writeError(c, fiber.StatusServiceUnavailable, "SERVICE_UNAVAILABLE", "dependency unavailable")
		}
		return c.Status(fiber.StatusOK).JSON(fiber.Map{"status": "healthy"})
	}
}

// LivenessProbe is a simple liveness endpoint.
func LivenessProbe() fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	}
}

// SearchClusters handles GET search requests with q/offset/paginate query
// params. An omitted paginate defaults to a 50-row page; paginate=0 disables
// pagination. POST bodies carry no such default, their zero value already
// means unpaginated.
func SearchClusters(svc service.SearchService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		q := c.Query("q")
		offset, err := strconv.Atoi(c.Query("offset", "0"))
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_OFFSET", "invalid offset")
		}
		paginate, err := strconv.Atoi(c.Query("paginate", "50"))
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_PAGINATE", "invalid paginate")
		}

		return runSearch(c, svc, q, offset, paginate)
	}
}

// SearchClustersPost handles POST search requests with a JSON body.
func SearchClustersPost(svc service.SearchService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req searchRequest
		if err := c.BodyParser(&req); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "invalid request body")
		}
		return runSearch(c, svc, req.SearchString, req.Offset, req.Paginate)
	}
}

func runSearch(c *fiber.Ctx, svc service.SearchService, q string, offset, paginate int) error {
	res, err := svc.Search(c.UserContext(), q, offset, paginate)
	if err != nil {
		if errors.Is(err, service.ErrEmptyQuery) {
			return writeError(c, fiber.StatusBadRequest, "INVALID_QUERY", "search string is required")
		}
		return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
	}
	return c.JSON(res)
}

// ExportClusters streams the full result set as a tab-separated download.
func ExportClusters(svc service.SearchService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		csv, err := svc.ExportCSV(c.UserContext(), c.Query("q"))
		if err != nil {
			if errors.Is(err, service.ErrEmptyQuery) {
				return writeError(c, fiber.StatusBadRequest, "INVALID_QUERY", "search string is required")
			}
			return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
		}

		c.Set(fiber.HeaderContentType, "text/tab-separated-values; charset=utf-8")
		c.Set(fiber.HeaderContentDisposition, `attachment; filename="clusters.csv"`)
		return c.SendString(csv)
	}
}

// ExportArchiveLink stores the export in object storage and returns a presigned URL.
func ExportArchiveLink(svc service.SearchService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req searchRequest
		if err := c.BodyParser(&req); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "invalid request body")
		}

		url, err := svc.ExportArchive(c.UserContext(), req.SearchString)
		if err != nil {
			if errors.Is(err, service.ErrEmptyQuery) {
				return writeError(c, fiber.StatusBadRequest, "INVALID_QUERY", "search string is required")
			}
			return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
		}
		return c.Status(fiber.StatusCreated).JSON(fiber.Map{"url": url})
	}
}

// AvailableTerms lists autocomplete candidates for a category and prefix.
func AvailableTerms(svc service.SearchService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		terms, err := svc.Available(c.UserContext(), c.Params("category"), c.Params("term"))
		if err != nil {
			return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
		}
		return c.JSON(terms)
	}
}
