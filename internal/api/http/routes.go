package httpapi

import (
	"bytes"
	"errors"
	"io"
	"log"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/i474232898/weather-records/internal/common"
	"github.com/i474232898/weather-records/internal/export"
	"github.com/i474232898/weather-records/internal/metrics"
	"github.com/i474232898/weather-records/internal/store"
	"github.com/i474232898/weather-records/internal/weather"
)

var validate = validator.New()

// ErrorHandler renders every handler error as {"error": true, "message": ...}.
func ErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := "internal server error"

	var fe *fiber.Error
	if errors.As(err, &fe) {
		code = fe.Code
		message = fe.Message
	} else {
		log.Printf("ERROR: %s %s: %v", c.Method(), c.Path(), err)
	}

	return c.Status(code).JSON(fiber.Map{
		"error":   true,
		"message": message,
	})
}

// RegisterRoutes wires the HTTP handlers into the Fiber app.
func RegisterRoutes(app *fiber.App, service *weather.Service) {
	h := &handlers{service: service}

	app.Get("/", h.index)
	app.Post("/", h.quickLookup)
	app.Post("/create", h.create)
	app.Get("/read", h.read)
	app.Get("/delete/:id", h.delete)

	app.Get("/export/csv", h.exportFile("csv", "text/csv; charset=utf-8", export.WriteCSV))
	app.Get("/export/xlsx", h.exportFile("xlsx", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", export.WriteXLSX))
	app.Get("/export/pdf", h.exportFile("pdf", "application/pdf", export.WritePDF))
}

type handlers struct {
	service *weather.Service
}

// manualEntryForm is the manual-entry form posted to "/create".
// The datetime layout matches weather.DateLayout.
type manualEntryForm struct {
	Location  string `validate:"required"`
	StartDate string `validate:"required,datetime=2006-01-02"`
	EndDate   string `validate:"required,datetime=2006-01-02"`
}

func newManualEntryForm(c *fiber.Ctx) manualEntryForm {
	return manualEntryForm{
		Location:  strings.TrimSpace(c.FormValue("location")),
		StartDate: strings.TrimSpace(c.FormValue("start_date")),
		EndDate:   strings.TrimSpace(c.FormValue("end_date")),
	}
}

// check reports the first problem with the form as a 400. A missing field
// takes precedence over a malformed date.
func (f manualEntryForm) check() error {
	err := validate.Struct(f)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}

	message := "Invalid date format"
	for _, fe := range verrs {
		if fe.Tag() == "required" {
			message = "Missing data"
			break
		}
	}
	return fiber.NewError(fiber.StatusBadRequest, message)
}

func (h *handlers) index(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"weather": nil})
}

func (h *handlers) quickLookup(c *fiber.Ctx) error {
	reading, _, err := h.service.QuickLookup(c.UserContext(), c.FormValue("city"))
	switch {
	case err == nil:
		return c.JSON(fiber.Map{"weather": reading})
	case errors.Is(err, weather.ErrMissingField):
		return c.JSON(fiber.Map{"weather": nil})
	case errors.Is(err, weather.ErrTimeout):
		return c.JSON(fiber.Map{"weather": fiber.Map{"error": "Weather provider timed out"}})
	case errors.Is(err, weather.ErrMalformedResponse):
		return c.JSON(fiber.Map{"weather": fiber.Map{"error": "Unexpected response from weather provider"}})
	case errors.Is(err, weather.ErrCityNotFound), errors.Is(err, weather.ErrLookupFailed):
		return c.JSON(fiber.Map{"weather": fiber.Map{"error": "City not found"}})
	default:
		return err
	}
}

func (h *handlers) create(c *fiber.Ctx) error {
	form := newManualEntryForm(c)
	if err := form.check(); err != nil {
		return err
	}

	rec, err := h.service.ManualEntry(c.UserContext(), form.Location, form.StartDate, form.EndDate)
	if err != nil {
		switch {
		case errors.Is(err, weather.ErrMissingField):
			return fiber.NewError(fiber.StatusBadRequest, "Missing data")
		case errors.Is(err, weather.ErrInvalidDateFormat):
			return fiber.NewError(fiber.StatusBadRequest, "Invalid date format")
		case errors.Is(err, weather.ErrInvalidDateRange):
			return fiber.NewError(fiber.StatusBadRequest, "Invalid date range")
		case errors.Is(err, weather.ErrInvalidLocation):
			return fiber.NewError(fiber.StatusBadRequest, "Invalid location")
		}
		return err
	}

	if wantsJSON(c) {
		return c.Status(fiber.StatusCreated).JSON(rec)
	}
	return c.Redirect("/read", fiber.StatusFound)
}

func (h *handlers) read(c *fiber.Ctx) error {
	records, err := h.service.ListRecords(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"records": records})
}

func (h *handlers) delete(c *fiber.Ctx) error {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil {
		return fiber.NewError(fiber.StatusNotFound, "record not found")
	}

	if err := h.service.DeleteRecord(c.UserContext(), id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "record not found")
		}
		return err
	}

	if wantsJSON(c) {
		return c.SendStatus(fiber.StatusNoContent)
	}
	return c.Redirect("/read", fiber.StatusFound)
}

func (h *handlers) exportFile(format, contentType string, write func(io.Writer, []weather.Record) error) fiber.Handler {
	filename := "weather_data." + format
	return func(c *fiber.Ctx) error {
		records, err := h.service.ListRecords(c.UserContext())
		if err != nil {
			metrics.ObserveExport(format, err)
			return err
		}

		var buf bytes.Buffer
		err = write(&buf, records)
		metrics.ObserveExport(format, err)
		if err != nil {
			return err
		}

		c.Attachment(filename)
		c.Set(fiber.HeaderContentType, contentType)
		return c.Send(buf.Bytes())
	}
}

func wantsJSON(c *fiber.Ctx) bool {
	return common.HasAny(c.Get(fiber.HeaderAccept), fiber.MIMEApplicationJSON, "+json")
}
