package handler

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"

	"github.com/signora/eventwall/internal/middleware"
	"github.com/signora/eventwall/internal/model"
	"github.com/signora/eventwall/internal/service"
)

// requestTimeout bounds the store calls made on behalf of one request.
const requestTimeout = 5 * time.Second

func requestContext(c echo.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.Request().Context(), requestTimeout)
}

// httpError maps a service error onto an Echo HTTPError. Internal failures
// are logged with their cause and rendered with a generic message.
func httpError(log *logrus.Logger, err error) error {
	var se *service.Error
	if !errors.As(err, &se) {
		se = &service.Error{Kind: service.KindInternal, Message: service.MsgInternal, Err: err}
	}
	status := http.StatusInternalServerError
	switch se.Kind {
	case service.KindBadRequest:
		status = http.StatusBadRequest
	case service.KindUnauthorized:
		status = http.StatusUnauthorized
	case service.KindNotFound:
		status = http.StatusNotFound
	case service.KindConflict:
		status = http.StatusConflict
	default:
		log.WithError(se.Err).Error("request failed")
	}
	return echo.NewHTTPError(status, se.Message).SetInternal(err)
}

// actingUser resolves the user a request acts for. Callers may name
// themselves; only staff may name somebody else. An empty claim means the
// caller.
func actingUser(c echo.Context, claimed string) (string, error) {
	self, _ := c.Get(middleware.ContextUserID).(string)
	if claimed == "" || claimed == self {
		return self, nil
	}
	switch role, _ := c.Get(middleware.ContextRole).(string); model.Role(role) {
	case model.RoleAdmin, model.RoleOfficer:
		return claimed, nil
	}
	return "", echo.NewHTTPError(http.StatusForbidden, "forbidden")
}
