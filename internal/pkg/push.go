package pkg

import (
	"context"
	"errors"
	"log"
)

// ErrInvalidToken 推送网关报告目的地结构性失效（非瞬时错误）。
// 扇出引擎据此停用 token；其余错误一律按本次投递失败处理。
var ErrInvalidToken = errors.New("invalid device token")

type PushMessage struct {
	Token string
	Title string
	Body  string
	Data  map[string]string
}

// PushSender 外部推送传输的最小契约，单 token 单次尝试，无重试。
type PushSender interface {
	Send(ctx context.Context, msg PushMessage) error
}

// LogPushSender 本地开发用：不配置 FCM 凭证时只打日志。
type LogPushSender struct{}

func (LogPushSender) Send(ctx context.Context, msg PushMessage) error {
	log.Printf("PUSH token=%s title=%q body=%q", msg.Token, msg.Title, msg.Body)
	return nil
}
