// Package api exposes the extraction pipeline over HTTP: upload one
// statement PDF, get the extracted dataset back as JSON plus a CSV string.
package api

import (
	"bytes"
	"fmt"
	"os"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/finflow/statement-extractor/internal/extractor"
	"github.com/finflow/statement-extractor/internal/metrics"
	"github.com/finflow/statement-extractor/internal/models"
	"github.com/finflow/statement-extractor/internal/parser"
	"github.com/finflow/statement-extractor/internal/writer"
)

// ExtractResponse is the JSON response from POST /api/extract.
type ExtractResponse struct {
	Success      bool                 `json:"success"`
	Error        string               `json:"error,omitempty"`
	Count        int                  `json:"count"`
	Transactions []models.Transaction `json:"transactions"`
	PagesSkipped []models.Diagnostic  `json:"pagesSkipped,omitempty"`
	CSV          string               `json:"csv,omitempty"`
}

// Server is the HTTP front end of the extraction pipeline.
type Server struct {
	app       *fiber.App
	extractor *parser.Extractor
	log       *zap.Logger
	metrics   *metrics.Metrics
}

// New builds the fiber app and its routes. When reg is non-nil the upload
// counters are registered with it and served on /metrics.
func New(log *zap.Logger, reg *prometheus.Registry) *Server {
	if log == nil {
		log = zap.NewNop()
	}
	s := &Server{
		app:       fiber.New(fiber.Config{BodyLimit: 32 << 20}),
		extractor: parser.New(extractor.PDFSource{}, log),
		log:       log,
	}

	s.app.Get("/api/health", s.handleHealth)
	s.app.Post("/api/extract", s.handleExtract)
	if reg != nil {
		s.metrics = metrics.New(reg)
		s.app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(reg, promhttp.HandlerOpts{})))
	}
	return s
}

// App exposes the fiber app for tests.
func (s *Server) App() *fiber.App { return s.app }

// Listen starts serving on addr and blocks.
func (s *Server) Listen(addr string) error { return s.app.Listen(addr) }

func (s *Server) handleHealth(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "ok"})
}

func (s *Server) handleExtract(c *fiber.Ctx) error {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		return writeError(c, fiber.StatusBadRequest, "No file uploaded. Use form field 'file'.")
	}
	if !strings.HasSuffix(strings.ToLower(fileHeader.Filename), ".pdf") {
		return writeError(c, fiber.StatusBadRequest, "Only PDF files are supported.")
	}

	var filter *models.TransactionType
	if tp := c.FormValue("type"); tp != "" {
		t, err := models.ParseTransactionType(tp)
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, err.Error())
		}
		filter = &t
	}

	tmp, err := os.CreateTemp("", "statement-*.pdf")
	if err != nil {
		return writeError(c, fiber.StatusInternalServerError, "Failed to create temp file.")
	}
	tmpPath := tmp.Name()
	tmp.Close()
	defer os.Remove(tmpPath)

	if err := c.SaveFile(fileHeader, tmpPath); err != nil {
		return writeError(c, fiber.StatusInternalServerError, "Failed to save uploaded file.")
	}

	pages, err := (extractor.PDFSource{}).ExtractPages(tmpPath)
	if err != nil {
		return writeError(c, fiber.StatusUnprocessableEntity, fmt.Sprintf("PDF extraction failed: %v", err))
	}

	var (
		dataset models.Dataset
		diags   []models.Diagnostic
	)
	for i, text := range pages {
		txns, diag := s.extractor.ExtractPage(fileHeader.Filename, i+1, text, filter)
		dataset = append(dataset, txns...)
		if diag != nil {
			diags = append(diags, *diag)
		}
	}
	dataset.SortByBookingDate()

	var csvBuf bytes.Buffer
	cw := &writer.CSVWriter{}
	if err := cw.Write(&csvBuf, dataset); err != nil {
		return writeError(c, fiber.StatusInternalServerError, fmt.Sprintf("CSV generation failed: %v", err))
	}

	// nil marshals to JSON null, not []
	txns := []models.Transaction(dataset)
	if txns == nil {
		txns = []models.Transaction{}
	}

	if s.metrics != nil {
		s.metrics.RecordsParsed.Add(float64(len(txns)))
		s.metrics.PagesSkipped.Add(float64(len(diags)))
	}

	s.log.Info("extracted upload",
		zap.String("document", fileHeader.Filename),
		zap.Int("records", len(txns)),
		zap.Int("pagesSkipped", len(diags)))

	return c.JSON(ExtractResponse{
		Success:      true,
		Count:        len(txns),
		Transactions: txns,
		PagesSkipped: diags,
		CSV:          csvBuf.String(),
	})
}

func writeError(c *fiber.Ctx, status int, msg string) error {
	return c.Status(status).JSON(ExtractResponse{
		Success:      false,
		Error:        msg,
		Transactions: []models.Transaction{},
	})
}
