package httpapi

import (
	"errors"
	"log/slog"
	"math"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/utils"

	"github.com/i474232898/airport-weather/internal/weather"
)

var validate = validator.New()

// RegisterRoutes wires the collect and query handlers into the Fiber app.
func RegisterRoutes(app *fiber.App, service *weather.Service, logger *slog.Logger) {
	h := &handlers{service: service, logger: logger}

	collect := app.Group("/collect")
	collect.Get("/ping", h.collectPing)
	collect.Post("/weather/:code/:kind", h.updateWeather)
	collect.Get("/airports", h.listAirports)
	collect.Get("/airport/:code", h.getAirport)
	collect.Post("/airport/:code/:lat/:lon", h.addAirport)
	collect.Delete("/airport/:code", h.deleteAirport)

	query := app.Group("/query")
	query.Get("/ping", h.queryPing)
	query.Get("/weather/:code/:radius", h.queryWeather)
}

type handlers struct {
	service *weather.Service
	logger  *slog.Logger
}

// param returns a copy of a path parameter. Fiber reuses the request buffer,
// and codes end up as long-lived store keys.
func param(c *fiber.Ctx, name string) string {
	return utils.CopyString(c.Params(name))
}

func (h *handlers) collectPing(c *fiber.Ctx) error {
	return c.SendString("ready")
}

func (h *handlers) updateWeather(c *fiber.Ctx) error {
	code, kind := param(c, "code"), param(c, "kind")

	var reading weather.Reading
	if err := c.BodyParser(&reading); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid reading payload: "+err.Error())
	}

	if err := h.service.Submit(code, kind, reading); err != nil {
		return h.fail(c, err)
	}
	return c.SendStatus(fiber.StatusOK)
}

func (h *handlers) listAirports(c *fiber.Ctx) error {
	return c.JSON(h.service.StationCodes())
}

func (h *handlers) getAirport(c *fiber.Ctx) error {
	st, err := h.service.Station(param(c, "code"))
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(st)
}

func (h *handlers) addAirport(c *fiber.Ctx) error {
	latStr, lonStr := param(c, "lat"), param(c, "lon")

	lat, errLat := strconv.ParseFloat(latStr, 64)
	lon, errLon := strconv.ParseFloat(lonStr, 64)
	if errLat != nil || errLon != nil {
		return fiber.NewError(fiber.StatusBadRequest,
			"number format exception, latitude: '"+latStr+"', longitude: '"+lonStr+"'")
	}

	st := weather.Station{
		Code:      param(c, "code"),
		Latitude:  lat,
		Longitude: lon,
	}
	if err := validate.Struct(st); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	h.service.AddStation(st)
	return c.SendStatus(fiber.StatusOK)
}

func (h *handlers) deleteAirport(c *fiber.Ctx) error {
	if err := h.service.RemoveStation(param(c, "code")); err != nil {
		return h.fail(c, err)
	}
	return c.SendStatus(fiber.StatusOK)
}

func (h *handlers) queryPing(c *fiber.Ctx) error {
	return c.JSON(h.service.Health())
}

func (h *handlers) queryWeather(c *fiber.Ctx) error {
	var q radiusQuery
	if err := q.bind(c); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	snapshots, err := h.service.Query(param(c, "code"), q.Radius)
	if err != nil {
		return h.fail(c, err)
	}

	views := make([]snapshotView, 0, len(snapshots))
	for _, s := range snapshots {
		views = append(views, newSnapshotView(s))
	}
	return c.JSON(views)
}

// fail logs a rejected request and converts err into a fiber error.
func (h *handlers) fail(c *fiber.Ctx, err error) error {
	ferr := toHTTPError(err)
	if ferr.Code >= fiber.StatusInternalServerError {
		h.logger.Error("request failed", "method", c.Method(), "path", c.Path(), "error", err)
	} else {
		h.logger.Warn("request rejected", "method", c.Method(), "path", c.Path(), "error", err)
	}
	return ferr
}

func toHTTPError(err error) *fiber.Error {
	switch {
	case errors.Is(err, weather.ErrNotFound):
		return fiber.NewError(fiber.StatusNotFound, err.Error())
	case errors.Is(err, weather.ErrInvalidType),
		errors.Is(err, weather.ErrOutOfRange),
		errors.Is(err, weather.ErrInvalidRadius):
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	default:
		return fiber.NewError(fiber.StatusInternalServerError, "internal error")
	}
}

// ErrorHandler renders every error as a JSON body with the matching status.
func ErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	var e *fiber.Error
	if errors.As(err, &e) {
		code = e.Code
	}
	return c.Status(code).JSON(fiber.Map{
		"error":   true,
		"message": err.Error(),
	})
}

// radiusQuery holds the radius path parameter of the weather query. Radii
// beyond the Earth's circumference are rejected.
type radiusQuery struct {
	Radius float64 `validate:"gte=0,lte=40075"`
}

func (q *radiusQuery) bind(c *fiber.Ctx) error {
	s := param(c, "radius")
	radius, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(radius) || math.IsInf(radius, 0) {
		return errors.New("number format exception, radius: '" + s + "'")
	}
	q.Radius = radius
	return validate.Struct(q)
}

// snapshotView is the wire shape of a snapshot: absent kinds are omitted.
type snapshotView struct {
	Wind          *weather.Reading `json:"wind,omitempty"`
	Temperature   *weather.Reading `json:"temperature,omitempty"`
	Humidity      *weather.Reading `json:"humidity,omitempty"`
	Precipitation *weather.Reading `json:"precipitation,omitempty"`
	Pressure      *weather.Reading `json:"pressure,omitempty"`
	CloudCover    *weather.Reading `json:"cloudCover,omitempty"`
}

func newSnapshotView(s weather.Snapshot) snapshotView {
	slot := func(k weather.Kind) *weather.Reading {
		if r, ok := s.Get(k); ok {
			return &r
		}
		return nil
	}

	return snapshotView{
		Wind:          slot(weather.KindWind),
		Temperature:   slot(weather.KindTemperature),
		Humidity:      slot(weather.KindHumidity),
		Precipitation: slot(weather.KindPrecipitation),
		Pressure:      slot(weather.KindPressure),
		CloudCover:    slot(weather.KindCloudCover),
	}
}
