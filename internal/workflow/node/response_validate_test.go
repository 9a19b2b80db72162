package node

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/viratco/idea/pkg/errors"
)

func decode(t *testing.T, raw string) any {
	t.Helper()
	var v any
	require.NoError(t, json.Unmarshal([]byte(raw), &v))
	return v
}

func TestValidateCompletion(t *testing.T) {
	tests := []struct {
		name   string
		raw    string
		want   string
		reason apperrors.Reason
	}{
		{name: "ok", raw: `{"choices":[{"message":{"content":"Title: X"}}]}`, want: "Title: X"},
		{name: "empty content allowed", raw: `{"choices":[{"message":{"content":""}}]}`, want: ""},
		{name: "null body", raw: `null`, reason: apperrors.ReasonEmptyResponse},
		{name: "array body", raw: `[1,2]`, reason: apperrors.ReasonEmptyResponse},
		{name: "no choices", raw: `{}`, reason: apperrors.ReasonMissingChoices},
		{name: "empty choices", raw: `{"choices":[]}`, reason: apperrors.ReasonMissingChoices},
		{name: "choices not array", raw: `{"choices":{"a":1}}`, reason: apperrors.ReasonMissingChoices},
		{name: "no message", raw: `{"choices":[{}]}`, reason: apperrors.ReasonMissingMessage},
		{name: "choice not object", raw: `{"choices":["x"]}`, reason: apperrors.ReasonMissingMessage},
		{name: "null message", raw: `{"choices":[{"message":null}]}`, reason: apperrors.ReasonMissingMessage},
		{name: "numeric content", raw: `{"choices":[{"message":{"content":42}}]}`, reason: apperrors.ReasonNonStringContent},
		{name: "missing content", raw: `{"choices":[{"message":{"role":"assistant"}}]}`, reason: apperrors.ReasonNonStringContent},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ValidateCompletion(decode(t, tt.raw))
			if tt.reason == "" {
				require.NoError(t, err)
				assert.Equal(t, tt.want, got)
				return
			}
			require.Error(t, err)
			assert.True(t, apperrors.IsCode(err, apperrors.CodeUpstreamShape))
			assert.True(t, apperrors.HasReason(err, tt.reason), err.Error())
		})
	}
}

func TestValidateCompletion_NilInput(t *testing.T) {
	_, err := ValidateCompletion(nil)
	assert.True(t, apperrors.HasReason(err, apperrors.ReasonEmptyResponse))
}
