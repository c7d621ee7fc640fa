package handlers

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/phambaophuc/image-toolkit/internal/apperrors"
	"github.com/phambaophuc/image-toolkit/internal/http/middleware"
	"github.com/phambaophuc/image-toolkit/internal/models"
	"github.com/phambaophuc/image-toolkit/internal/services/processor"
	"github.com/phambaophuc/image-toolkit/internal/services/validator"
	"github.com/phambaophuc/image-toolkit/pkg/utils"
	"go.uber.org/zap"
)

// multipartOverhead is the room left for boundaries and form fields on top of the file limit.
const multipartOverhead = 1 << 20

type parseFunc func(validator.Params) (processor.Operation, error)

func operation[P any](parse func(validator.Params) (P, error), build func(P) processor.Operation) parseFunc {
	return func(p validator.Params) (processor.Operation, error) {
		params, err := parse(p)
		if err != nil {
			return nil, err
		}
		return build(params), nil
	}
}

// === PROCESSING LOGIC ===

// handle runs one operation request: validate, store the upload, transform, store the
// output and respond. The stored input is kept even when a later step fails.
func (h *ImageHandler) handle(c *gin.Context, outputPrefix string, parse parseFunc) {
	ctx := c.Request.Context()

	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.config.Storage.MaxFileSize+multipartOverhead)
	params, err := h.parseForm(c)
	if err != nil {
		h.respondError(c, err)
		return
	}

	op, err := parse(params)
	if err != nil {
		h.respondError(c, err)
		return
	}

	data, filename, contentType, err := h.readUpload(c)
	if err != nil {
		h.respondError(c, err)
		return
	}

	input, err := h.storage.Store(ctx, data, filename, contentType)
	if err != nil {
		h.respondError(c, err)
		return
	}

	stored, err := h.storage.Load(ctx, input.Name)
	if err != nil {
		h.respondError(c, err)
		return
	}

	result, err := h.processor.Execute(ctx, stored, op)
	if err != nil {
		h.respondError(c, err)
		return
	}

	output, err := h.storage.SaveOutput(ctx, result.Data, outputPrefix, result.Format)
	if err != nil {
		h.respondError(c, err)
		return
	}

	h.publish(ctx, op.Kind(), input, output, result.Metadata)

	h.logger.Info("Operation completed",
		zap.String("operation", string(op.Kind())),
		zap.String("input", input.Name),
		zap.String("artifact", output.Name),
		zap.Int("size", result.Size()))

	c.JSON(http.StatusOK, models.APIResponse{
		Status:    models.StatusSuccess,
		OutputURL: h.absoluteURL(c, output.URL),
		Metadata:  result.Metadata,
	})
}

// === REQUEST PARSING ===

func (h *ImageHandler) parseForm(c *gin.Context) (validator.Params, error) {
	if err := c.Request.ParseMultipartForm(h.config.Storage.MaxFileSize); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return nil, apperrors.New(apperrors.KindPayloadTooLarge, "http.parse_form",
				"File too large. Maximum size is "+utils.HumanSize(h.config.Storage.MaxFileSize))
		}
		return nil, apperrors.InvalidField("http.parse_form", imageParamKey, "Failed to parse form data")
	}

	params := make(validator.Params)
	for key, values := range c.Request.MultipartForm.Value {
		if len(values) > 0 {
			params[key] = values[0]
		}
	}
	return params, nil
}

// === FILE OPERATIONS ===

func (h *ImageHandler) readUpload(c *gin.Context) ([]byte, string, string, error) {
	file, header, err := c.Request.FormFile(imageParamKey)
	if err != nil {
		return nil, "", "", apperrors.InvalidField("http.upload", imageParamKey, "No image file provided")
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return nil, "", "", apperrors.Wrap(apperrors.KindInternal, "http.upload", "failed to read upload", err)
	}
	return data, header.Filename, header.Header.Get("Content-Type"), nil
}

// === RESPONSE HANDLING ===

func (h *ImageHandler) respondError(c *gin.Context, err error) {
	middleware.RespondError(c, h.logger, err)
}

// absoluteURL resolves an artifact URL against PUBLIC_BASE_URL or, when unset, the
// origin the request arrived on.
func (h *ImageHandler) absoluteURL(c *gin.Context, artifactURL string) string {
	if u, err := url.Parse(artifactURL); err == nil && u.IsAbs() {
		return artifactURL
	}

	base := strings.TrimRight(h.config.Server.PublicBaseURL, "/")
	if base == "" {
		scheme := "http"
		if c.Request.TLS != nil {
			scheme = "https"
		}
		if proto := c.GetHeader("X-Forwarded-Proto"); proto != "" {
			scheme = proto
		}
		base = scheme + "://" + c.Request.Host
	}
	return base + "/" + strings.TrimLeft(artifactURL, "/")
}

// === EVENTS ===

func (h *ImageHandler) publish(ctx context.Context, kind models.OperationKind, input, output *models.Artifact, metadata map[string]any) {
	event := &models.ArtifactEvent{
		Operation: kind,
		Input:     input,
		Output:    output,
		Metadata:  metadata,
		CreatedAt: time.Now(),
	}

	// Event delivery never fails the request.
	if err := h.events.PublishArtifact(ctx, event); err != nil {
		h.logger.Warn("Failed to publish artifact event",
			zap.String("artifact", output.Name),
			zap.Error(err))
	}
}

// === UTILITY METHODS ===

func (h *ImageHandler) calculateOverallHealth(services map[string]string) string {
	for _, status := range services {
		if status != "healthy" && status != "disabled" {
			return "unhealthy"
		}
	}
	return "healthy"
}
