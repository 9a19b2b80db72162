package node

import (
	"context"
	"errors"
	"net"
	"strings"
)

// IsTimeoutError 判断上游调用是否因超时中止
func IsTimeoutError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}
	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "deadline exceeded"):
		return true
	case strings.Contains(msg, "client.timeout exceeded"):
		return true
	case strings.Contains(msg, "i/o timeout"):
		return true
	default:
		return false
	}
}
