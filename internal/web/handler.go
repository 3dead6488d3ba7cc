// Package web serves the HTML pages, static assets and health check.
package web

import (
	"bytes"
	"fmt"
	"html/template"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
)

const serviceName = "kinetsulist-api"

type Options struct {
	TemplatesDir string
	StaticDir    string
	// AssetFile is the file whose mtime busts the browser cache.
	AssetFile string
	Version   string
}

type Handler struct {
	index     *template.Template
	admin     *template.Template
	opts      Options
	startedAt time.Time
}

// NewHandler parses index.html and admin.html from opts.TemplatesDir.
func NewHandler(opts Options) (*Handler, error) {
	index, err := template.ParseFiles(filepath.Join(opts.TemplatesDir, "index.html"))
	if err != nil {
		return nil, fmt.Errorf("index template: %w", err)
	}
	admin, err := template.ParseFiles(filepath.Join(opts.TemplatesDir, "admin.html"))
	if err != nil {
		return nil, fmt.Errorf("admin template: %w", err)
	}
	return &Handler{index: index, admin: admin, opts: opts, startedAt: time.Now()}, nil
}

func (h *Handler) RegisterPublicRoutes(app *fiber.App) {
	RegisterHealth(app, h.opts.Version)
	app.Get("/", h.getIndex)
	app.Get("/admin", h.getAdmin)
	app.Static("/static", h.opts.StaticDir)
}

// RegisterHealth adds /health, which never touches loaded data.
func RegisterHealth(app *fiber.App, version string) {
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":  "healthy",
			"service": serviceName,
			"version": version,
		})
	})
}

type pageData struct {
	AssetVersion string
}

func (h *Handler) getIndex(c *fiber.Ctx) error {
	return h.render(c, h.index)
}

func (h *Handler) getAdmin(c *fiber.Ctx) error {
	return h.render(c, h.admin)
}

func (h *Handler) render(c *fiber.Ctx, tpl *template.Template) error {
	var buf bytes.Buffer
	if err := tpl.Execute(&buf, pageData{AssetVersion: h.assetVersion()}); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"detail": "Error al renderizar la página"})
	}
	c.Type("html", "utf-8")
	return c.Send(buf.Bytes())
}

// assetVersion is the unix mtime of the asset file, or the process start
// time when the file cannot be read.
func (h *Handler) assetVersion() string {
	if fi, err := os.Stat(h.opts.AssetFile); err == nil {
		return strconv.FormatInt(fi.ModTime().Unix(), 10)
	}
	return strconv.FormatInt(h.startedAt.Unix(), 10)
}
