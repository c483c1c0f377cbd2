package factory

import (
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
)

const RequestIDHeader = "X-Request-ID"

func NewModuleLogger(module string) logrus.FieldLogger {
	return logrus.WithField("module", module)
}

func LoggerWithContext(logger logrus.FieldLogger, ctx echo.Context) logrus.FieldLogger {
	requestID := ctx.Response().Header().Get(echo.HeaderXRequestID)
	if requestID == "" {
		requestID = ctx.Request().Header.Get(RequestIDHeader)
	}
	return LoggerWithRequestID(logger, requestID)
}

func LoggerWithRequestID(logger logrus.FieldLogger, requestID string) logrus.FieldLogger {
	requestID = strings.TrimSpace(requestID)
	if requestID == "" {
		return logger
	}
	return logger.WithField("request_id", requestID)
}
