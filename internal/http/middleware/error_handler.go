package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/ignatzorin/freelance-market-backend/internal/dto"
	"github.com/ignatzorin/freelance-market-backend/internal/logger"
	"github.com/ignatzorin/freelance-market-backend/internal/pkg/apperror"
)

// ErrorHandler обрабатывает ошибки централизованно: доменные ошибки
// транслируются в код и статус из apperror, всё остальное маскируется
// как INVALID_REQUEST без утечки деталей в ответ.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if c.Writer.Written() || len(c.Errors) == 0 {
			return
		}

		err := c.Errors.Last().Err

		if appErr, ok := apperror.From(err); ok {
			if appErr.Cause != nil && logger.Log != nil {
				logger.Log.WithFields(logrus.Fields{
					"code":   appErr.Code,
					"path":   c.Request.URL.Path,
					"method": c.Request.Method,
				}).WithError(appErr.Cause).Warn("request failed")
			}
			c.JSON(appErr.HTTPStatus, dto.ErrorResponse{
				Error:   string(appErr.Code),
				Message: appErr.Message,
			})
			return
		}

		// Неизвестная ошибка: детали остаются в логе.
		if logger.Log != nil {
			logger.Log.WithFields(logrus.Fields{
				"path":   c.Request.URL.Path,
				"method": c.Request.Method,
			}).WithError(err).Error("unhandled request error")
		}

		c.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error:   string(apperror.ErrCodeInvalidRequest),
			Message: "не удалось обработать запрос",
		})
	}
}
