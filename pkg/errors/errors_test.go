package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewUpstreamHTTPError_MapsStatus(t *testing.T) {
	tests := []struct {
		status  int
		reason  Reason
		message string
	}{
		{http.StatusUnauthorized, ReasonUnauthorized, MsgUnauthorized},
		{http.StatusPaymentRequired, ReasonPaymentRequired, MsgPaymentRequired},
		{http.StatusNotFound, ReasonModelNotFound, MsgModelNotFound},
		{http.StatusTooManyRequests, ReasonRateLimited, MsgRateLimited},
		{http.StatusBadGateway, ReasonOther, "provider exploded"},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("status_%d", tt.status), func(t *testing.T) {
			err := NewUpstreamHTTPError(tt.status, "provider exploded")
			assert.Equal(t, CodeUpstreamHTTP, err.Code)
			assert.Equal(t, tt.reason, err.Reason)
			assert.Equal(t, tt.message, err.Message)
			assert.Equal(t, http.StatusInternalServerError, err.HTTPStatus)
		})
	}
}

func TestNewUpstreamHTTPError_OtherWithoutMessage(t *testing.T) {
	err := NewUpstreamHTTPError(http.StatusInternalServerError, "")
	assert.Equal(t, MsgUpstreamDefault, err.Message)
	assert.Equal(t, "upstream_http/other", err.Kind())
}

func TestAsAppError_ThroughWrapping(t *testing.T) {
	base := NewUpstreamShapeError(ReasonMissingChoices, "Invalid response: Missing or empty choices array")
	wrapped := fmt.Errorf("plan intro: %w", base)

	appErr := AsAppError(wrapped)
	require.NotNil(t, appErr)
	assert.True(t, IsCode(wrapped, CodeUpstreamShape))
	assert.True(t, HasReason(wrapped, ReasonMissingChoices))
	assert.False(t, HasReason(wrapped, ReasonMissingMessage))
	assert.Equal(t, "upstream_shape/missing_choices", Kind(wrapped))
}

func TestUserMessage(t *testing.T) {
	assert.Equal(t, MsgTimeout, UserMessage(NewTimeoutError(stderrors.New("deadline")), "fallback"))
	assert.Equal(t, "fallback", UserMessage(stderrors.New("raw"), "fallback"))
	assert.Equal(t, "internal", Kind(stderrors.New("raw")))
}

func TestCodeToHTTPStatus(t *testing.T) {
	assert.Equal(t, http.StatusBadRequest, NewInvalidParamError("bad").HTTPStatus)
	assert.Equal(t, http.StatusTooManyRequests, New(CodeTooManyRequests, "slow down").HTTPStatus)
	assert.Equal(t, http.StatusInternalServerError, NewExtractionError("nothing").HTTPStatus)
	assert.Equal(t, http.StatusInternalServerError, NewConfigurationError(MsgMissingAPIKey).HTTPStatus)
}

func TestAppError_ErrorString(t *testing.T) {
	err := NewIncompleteContentError(ReasonMissingSections, "Incomplete AI response - missing core sections").
		WithDetail("Required Skills:")
	assert.Equal(t, "[4001/missing_sections] Incomplete AI response - missing core sections: Required Skills:", err.Error())

	wrapped := NewTimeoutError(stderrors.New("context deadline exceeded"))
	assert.ErrorContains(t, wrapped, "context deadline exceeded")
	assert.Equal(t, "timeout", wrapped.Kind())
}
