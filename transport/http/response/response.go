package response

import (
	"encoding/json"
	"net/http"
	"salon/shared/constant"
	"salon/shared/failure"
	"salon/shared/logger"

	"github.com/rs/zerolog/log"
)

// Data, Error and Message are the three envelopes every endpoint answers with.
type Data[T any] struct {
	Data *T `json:"data,omitempty"`
}

type Error struct {
	Error *string `json:"error,omitempty"`
}

type Message struct {
	Message *string `json:"message,omitempty"`
}

func WithMessage(writer http.ResponseWriter, code int, message string) {
	write(writer, code, Message{Message: &message})
}

func WithJSON(writer http.ResponseWriter, code int, payload any) {
	write(writer, code, Data[any]{Data: &payload})
}

// WithError maps err to its HTTP status. Server errors are logged and answered with the
// status text only, so driver and SQL messages never reach the caller.
func WithError(writer http.ResponseWriter, err error) {
	code := failure.GetCode(err)
	message := err.Error()

	if code >= http.StatusInternalServerError {
		log.Error().Err(err).Int("status", code).Msg("request failed")

		message = http.StatusText(code)
	}

	write(writer, code, Error{Error: &message})
}

func WithRequestLimitExceeded(writer http.ResponseWriter) {
	WithMessage(writer, http.StatusTooManyRequests, constant.ResponseErrorRequestLimitExceeded)
}

func WithPreparingShutdown(writer http.ResponseWriter) {
	WithMessage(writer, http.StatusServiceUnavailable, constant.ResponseErrorPrepareShutdown)
}

func WithUnhealthy(writer http.ResponseWriter) {
	WithMessage(writer, http.StatusServiceUnavailable, constant.ResponseErrorUnhealthy)
}

func write(writer http.ResponseWriter, code int, payload any) {
	body, err := json.Marshal(payload)
	if err != nil {
		logger.ErrorWithStack(err)
		writer.WriteHeader(http.StatusInternalServerError)

		return
	}

	writer.Header().Set(constant.RequestHeaderContentType, constant.ContentTypeJSON)
	writer.WriteHeader(code)

	if _, err = writer.Write(body); err != nil {
		logger.ErrorWithStack(err)
	}
}
