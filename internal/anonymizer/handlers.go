package anonymizer

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/Baptiste-Leterrier/gpx-anonymous/internal/track"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/tkrajina/gpxgo/gpx"
)

func RegisterRoutes(r fiber.Router, svc *Service, log *slog.Logger) {
	r.Post("/", func(c *fiber.Ctx) error {
		up, err := readUpload(c)
		if err != nil {
			return err
		}
		res, err := svc.Anonymize(c.Context(), up.doc)
		if err != nil {
			return httpError(err)
		}
		out, err := track.Serialize(res.Doc)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "failed to serialize track")
		}
		log.InfoContext(c.Context(), "gpx file processed",
			"request_id", up.id,
			"filename", up.name,
			"original_m", res.OriginalDistanceM,
			"anonymized_m", res.AnonymizedDistanceM,
			"processing_s", res.ProcessingTime.Seconds())
		return c.JSON(AnonymizeResponse{
			AnonymizedGPX:      string(out),
			OriginalDistance:   res.OriginalDistanceM,
			AnonymizedDistance: res.AnonymizedDistanceM,
			ProcessingTime:     res.ProcessingTime.Seconds(),
		})
	})

	r.Post("/download", func(c *fiber.Ctx) error {
		up, err := readUpload(c)
		if err != nil {
			return err
		}
		res, err := svc.Anonymize(c.Context(), up.doc)
		if err != nil {
			return httpError(err)
		}
		out, err := track.Serialize(res.Doc)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "failed to serialize track")
		}
		log.InfoContext(c.Context(), "gpx file processed for download",
			"request_id", up.id,
			"filename", up.name,
			"original_m", res.OriginalDistanceM,
			"anonymized_m", res.AnonymizedDistanceM,
			"processing_s", res.ProcessingTime.Seconds())
		c.Set(fiber.HeaderContentType, "application/gpx+xml")
		c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", downloadName(up.name)))
		return c.Send(out)
	})
}

type upload struct {
	id   string
	name string
	doc  *gpx.GPX
}

func readUpload(c *fiber.Ctx) (*upload, error) {
	fh, err := c.FormFile("file")
	if err != nil {
		return nil, fiber.NewError(fiber.StatusBadRequest, "multipart field 'file' required")
	}
	name := filepath.Base(fh.Filename)
	if !strings.EqualFold(filepath.Ext(name), ".gpx") {
		return nil, fiber.NewError(fiber.StatusBadRequest, "file must be a GPX file")
	}
	f, err := fh.Open()
	if err != nil {
		return nil, fiber.NewError(fiber.StatusBadRequest, "cannot read uploaded file")
	}
	defer f.Close()
	data, err := io.ReadAll(f)
	if err != nil {
		return nil, fiber.NewError(fiber.StatusBadRequest, "cannot read uploaded file")
	}
	doc, err := track.Parse(data)
	if err != nil {
		return nil, httpError(err)
	}
	return &upload{id: uuid.NewString(), name: name, doc: doc}, nil
}

// downloadName derives "<basename>_anonymized.<ext>" from the uploaded name.
func downloadName(name string) string {
	ext := filepath.Ext(name)
	return strings.TrimSuffix(name, ext) + "_anonymized" + ext
}

func httpError(err error) *fiber.Error {
	switch {
	case errors.Is(err, track.ErrMalformedInput),
		errors.Is(err, track.ErrUnsupportedVersion),
		errors.Is(err, track.ErrEmptyTrack):
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}
	return fiber.NewError(fiber.StatusInternalServerError, "internal error")
}
