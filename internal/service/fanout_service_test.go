package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"CivicReport/internal/model"
	"CivicReport/internal/pkg"
)

type fakeTokenSource struct {
	mu          sync.Mutex
	tokens      map[uint64][]model.DeviceToken
	listErr     map[uint64]error
	deactivated []string
}

func (f *fakeTokenSource) ListActive(ctx context.Context, userID uint64) ([]model.DeviceToken, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.listErr[userID]; err != nil {
		return nil, err
	}
	return f.tokens[userID], nil
}

func (f *fakeTokenSource) Deactivate(ctx context.Context, token string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deactivated = append(f.deactivated, token)
	return nil
}

type fakeSink struct {
	mu      sync.Mutex
	records []*model.NotificationRecord
	batches []*model.NotificationBatchLog
}

func (f *fakeSink) SaveRecord(ctx context.Context, rec *model.NotificationRecord) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.records = append(f.records, rec)
	return nil
}

func (f *fakeSink) SaveBatchLog(ctx context.Context, logRow *model.NotificationBatchLog) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.batches = append(f.batches, logRow)
	return nil
}

// fakePush 按 token 返回预设错误，其余成功
type fakePush struct {
	mu    sync.Mutex
	fail  map[string]error
	calls int
}

func (f *fakePush) Send(ctx context.Context, msg pkg.PushMessage) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	return f.fail[msg.Token]
}

func deviceToken(userID uint64, token string) model.DeviceToken {
	return model.DeviceToken{UserID: userID, Token: token, Active: true}
}

// 5 个接收人：3 人各一台设备，1 人没有设备，1 人两台设备且其中
// 一个 token 已失效。校验批次汇总、失效 token 停用与逐人记录。
func TestFanoutDispatch(t *testing.T) {
	tokens := &fakeTokenSource{tokens: map[uint64][]model.DeviceToken{
		1: {deviceToken(1, "tok-1")},
		2: {deviceToken(2, "tok-2")},
		3: {deviceToken(3, "tok-3")},
		// 4 没有注册设备
		5: {deviceToken(5, "tok-5a"), deviceToken(5, "tok-5b")},
	}}
	sink := &fakeSink{}
	push := &fakePush{fail: map[string]error{
		"tok-5b": fmt.Errorf("send: %w", pkg.ErrInvalidToken),
	}}

	svc := NewFanoutService(tokens, sink, push, time.Second)
	ev := newEvent(EventUserExpelled, 10)
	ev.CommunityName = "Riverside"
	ev.Audience = []uint64{1, 2, 3, 4, 5}

	if err := svc.Dispatch(context.Background(), ev); err != nil {
		t.Fatalf("Dispatch: %v", err)
	}

	if push.calls != 5 {
		t.Fatalf("expected 5 push attempts, got %d", push.calls)
	}

	if len(sink.batches) != 1 {
		t.Fatalf("expected 1 batch log, got %d", len(sink.batches))
	}
	b := sink.batches[0]
	if b.TotalRecipients != 5 || b.SentCount != 4 || b.FailedCount != 1 {
		t.Fatalf("batch log = total %d sent %d failed %d", b.TotalRecipients, b.SentCount, b.FailedCount)
	}
	if b.EventID != ev.EventID || b.EventType != EventUserExpelled || b.CommunityID != 10 {
		t.Fatalf("batch log identity mismatch: %+v", b)
	}

	// 有设备的 4 人各一条记录，没有设备的用户 4 不写记录
	if len(sink.records) != 4 {
		t.Fatalf("expected 4 records, got %d", len(sink.records))
	}
	byUser := make(map[uint64]*model.NotificationRecord)
	for _, r := range sink.records {
		if r.EventID != ev.EventID {
			t.Fatalf("record event id = %s, want %s", r.EventID, ev.EventID)
		}
		byUser[r.RecipientID] = r
	}
	if _, ok := byUser[4]; ok {
		t.Fatal("user without devices must not get a record")
	}
	for _, id := range []uint64{1, 2, 3} {
		r, ok := byUser[id]
		if !ok {
			t.Fatalf("missing record for user %d", id)
		}
		if r.Status != model.DispatchSent {
			t.Fatalf("user %d record status = %d, want sent", id, r.Status)
		}
	}
	if _, ok := byUser[5]; !ok {
		t.Fatal("missing record for user 5")
	}

	if len(tokens.deactivated) != 1 || tokens.deactivated[0] != "tok-5b" {
		t.Fatalf("deactivated = %v, want [tok-5b]", tokens.deactivated)
	}
}

// 瞬时错误不停用 token，只计入失败
func TestFanoutDispatchTransientError(t *testing.T) {
	tokens := &fakeTokenSource{tokens: map[uint64][]model.DeviceToken{
		1: {deviceToken(1, "tok-1")},
		2: {deviceToken(2, "tok-2")},
	}}
	sink := &fakeSink{}
	push := &fakePush{fail: map[string]error{"tok-1": errors.New("fcm unavailable")}}

	svc := NewFanoutService(tokens, sink, push, time.Second)
	ev := newEvent(EventReportPosted, 7)
	ev.Audience = []uint64{1, 2}

	if err := svc.Dispatch(context.Background(), ev); err != nil {
		t.Fatalf("Dispatch: %v", err)
	}
	if len(tokens.deactivated) != 0 {
		t.Fatalf("transient failure must not deactivate, got %v", tokens.deactivated)
	}
	b := sink.batches[0]
	if b.SentCount != 1 || b.FailedCount != 1 {
		t.Fatalf("batch sent %d failed %d, want 1/1", b.SentCount, b.FailedCount)
	}
}

// 受众没有任何注册设备时短路：只写一条空批次日志
func TestFanoutDispatchNoDevices(t *testing.T) {
	tokens := &fakeTokenSource{tokens: map[uint64][]model.DeviceToken{}}
	sink := &fakeSink{}
	push := &fakePush{}

	svc := NewFanoutService(tokens, sink, push, time.Second)
	ev := newEvent(EventCommunityDeleted, 3)
	ev.Audience = []uint64{8, 9}

	if err := svc.Dispatch(context.Background(), ev); err != nil {
		t.Fatalf("Dispatch: %v", err)
	}
	if push.calls != 0 {
		t.Fatalf("expected no push calls, got %d", push.calls)
	}
	if len(sink.records) != 0 {
		t.Fatalf("expected no records, got %d", len(sink.records))
	}
	if len(sink.batches) != 1 || sink.batches[0].TotalRecipients != 2 {
		t.Fatalf("expected one empty batch log for 2 recipients, got %+v", sink.batches)
	}
}

func TestRenderMessage(t *testing.T) {
	ev := &DomainEvent{Type: EventCommunityDeleted, CommunityID: 4, CommunityName: "Oak Hill"}
	title, body := renderMessage(ev)
	if title != "Community deleted" || body != "Oak Hill has been deleted" {
		t.Fatalf("got %q / %q", title, body)
	}

	ev = &DomainEvent{Type: EventUserExpelled, CommunityID: 4}
	_, body = renderMessage(ev)
	if body != "A member was removed from community 4" {
		t.Fatalf("fallback name not used: %q", body)
	}
}
