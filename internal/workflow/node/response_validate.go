package node

import (
	apperrors "github.com/viratco/idea/pkg/errors"
)

// ValidateCompletion 校验补全接口返回的原始 JSON 结构并取出首个回答的文本。
// 依次检查：非空对象、非空 choices 数组、首元素含 message 对象、content 为字符串。
// content 为空字符串时不报错，由调用方决定如何处理。
func ValidateCompletion(resp any) (string, error) {
	obj, ok := resp.(map[string]any)
	if !ok || obj == nil {
		return "", apperrors.NewUpstreamShapeError(apperrors.ReasonEmptyResponse,
			"Invalid response: Empty or non-object response received")
	}

	choices, ok := obj["choices"].([]any)
	if !ok || len(choices) == 0 {
		return "", apperrors.NewUpstreamShapeError(apperrors.ReasonMissingChoices,
			"Invalid response: Missing or empty choices array")
	}

	first, _ := choices[0].(map[string]any)
	message, ok := first["message"].(map[string]any)
	if !ok || message == nil {
		return "", apperrors.NewUpstreamShapeError(apperrors.ReasonMissingMessage,
			"Invalid response: Missing or invalid message object in first choice")
	}

	content, ok := message["content"].(string)
	if !ok {
		return "", apperrors.NewUpstreamShapeError(apperrors.ReasonNonStringContent,
			"Invalid response: Missing or non-string content in message")
	}
	return content, nil
}
