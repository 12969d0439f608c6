package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"CivicReport/internal/model"
	"CivicReport/internal/pkg"
)

// TokenSource / NotificationSink 扇出引擎依赖的最小仓储面，
// mysql 仓储实现它们，测试用内存假实现。
type TokenSource interface {
	ListActive(ctx context.Context, userID uint64) ([]model.DeviceToken, error)
	Deactivate(ctx context.Context, token string) error
}

type NotificationSink interface {
	SaveRecord(ctx context.Context, rec *model.NotificationRecord) error
	SaveBatchLog(ctx context.Context, logRow *model.NotificationBatchLog) error
}

// FanoutService 通知扇出引擎。单次尽力投递：
// 每个 token 独立尝试，互不影响；不在本次调用内重试；
// 结构性失效的 token 原地停用；结果全部落到记录与批次日志。
type FanoutService struct {
	tokens TokenSource
	sink   NotificationSink
	push   pkg.PushSender

	// 单 token 外呼超时，防止一个不可达端点拖死整批
	callTimeout time.Duration
}

func NewFanoutService(tokens TokenSource, sink NotificationSink, push pkg.PushSender, callTimeout time.Duration) *FanoutService {
	if callTimeout <= 0 {
		callTimeout = 5 * time.Second
	}
	return &FanoutService{tokens: tokens, sink: sink, push: push, callTimeout: callTimeout}
}

type attempt struct {
	userID uint64
	token  string
}

// Dispatch 处理一个领域事件。返回错误仅供 relayer 记账，
// 绝不会传导回触发事件的审核操作。
func (s *FanoutService) Dispatch(ctx context.Context, ev *DomainEvent) error {
	title, body := renderMessage(ev)
	payload, _ := json.Marshal(map[string]any{
		"type":         ev.Type,
		"community_id": ev.CommunityID,
		"reason":       ev.Reason,
	})

	// 受众 → 活跃 token，一个用户 0..N 个
	var attempts []attempt
	for _, userID := range ev.Audience {
		tokens, err := s.tokens.ListActive(ctx, userID)
		if err != nil {
			log.Printf("fanout %s: list tokens for user %d: %v", ev.EventID, userID, err)
			continue
		}
		for _, t := range tokens {
			attempts = append(attempts, attempt{userID: userID, token: t.Token})
		}
	}

	// 无任何注册设备不算错误：短路写一条空批次日志
	if len(attempts) == 0 {
		return s.sink.SaveBatchLog(ctx, &model.NotificationBatchLog{
			EventID:         ev.EventID,
			EventType:       ev.Type,
			CommunityID:     ev.CommunityID,
			TotalRecipients: len(ev.Audience),
		})
	}

	var (
		mu     sync.Mutex
		sent   int
		failed int
		byUser = make(map[uint64]int8) // 每个接收人保留最后处理完的结果
		wg     sync.WaitGroup
	)

	for _, a := range attempts {
		wg.Add(1)
		go func(a attempt) {
			defer wg.Done()

			callCtx, cancel := context.WithTimeout(ctx, s.callTimeout)
			defer cancel()

			err := s.push.Send(callCtx, pkg.PushMessage{
				Token: a.token,
				Title: title,
				Body:  body,
				Data: map[string]string{
					"type":         ev.Type,
					"community_id": fmt.Sprintf("%d", ev.CommunityID),
					"event_id":     ev.EventID,
				},
			})

			status := model.DispatchSent
			if err != nil {
				status = model.DispatchFailed
				// 仅结构性失效才停用，瞬时错误留给下次扇出
				if errors.Is(err, pkg.ErrInvalidToken) {
					if derr := s.tokens.Deactivate(ctx, a.token); derr != nil {
						log.Printf("fanout %s: deactivate token: %v", ev.EventID, derr)
					}
				}
			}

			mu.Lock()
			if err != nil {
				failed++
			} else {
				sent++
			}
			byUser[a.userID] = status
			mu.Unlock()
		}(a)
	}
	wg.Wait()

	// 每个有设备的接收人一条记录；无设备的用户不写记录
	for userID, status := range byUser {
		rec := &model.NotificationRecord{
			EventID:     ev.EventID,
			RecipientID: userID,
			Title:       title,
			Body:        body,
			Payload:     string(payload),
			Status:      status,
		}
		if err := s.sink.SaveRecord(ctx, rec); err != nil {
			log.Printf("fanout %s: save record for user %d: %v", ev.EventID, userID, err)
		}
	}

	return s.sink.SaveBatchLog(ctx, &model.NotificationBatchLog{
		EventID:         ev.EventID,
		EventType:       ev.Type,
		CommunityID:     ev.CommunityID,
		TotalRecipients: len(ev.Audience),
		SentCount:       sent,
		FailedCount:     failed,
	})
}

func renderMessage(ev *DomainEvent) (title, body string) {
	name := ev.CommunityName
	if name == "" {
		name = fmt.Sprintf("community %d", ev.CommunityID)
	}
	switch ev.Type {
	case EventUserExpelled:
		return "Member removed", fmt.Sprintf("A member was removed from %s", name)
	case EventCommunityDeleted:
		return "Community deleted", fmt.Sprintf("%s has been deleted", name)
	case EventReportPosted:
		return "New report", fmt.Sprintf("A new report was posted in %s", name)
	default:
		return "Community update", fmt.Sprintf("Update in %s", name)
	}
}
