package service

import (
	"encoding/json"
	"time"

	"CivicReport/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	EventUserExpelled     = "user_expelled"
	EventCommunityDeleted = "community_deleted"
	EventReportPosted     = "report_posted"
)

// DomainEvent 审核事件。Audience 由事件生产方按各自业务规则算好
// （"除当事人之外的全部成员"之类），扇出引擎不做任何受众推导。
type DomainEvent struct {
	EventID       string    `json:"event_id"`
	Type          string    `json:"type"`
	CommunityID   uint64    `json:"community_id"`
	CommunityName string    `json:"community_name,omitempty"`
	ActorID       uint64    `json:"actor_id,omitempty"`
	TargetID      uint64    `json:"target_id,omitempty"`
	Reason        string    `json:"reason,omitempty"`
	Audience      []uint64  `json:"audience"`
	OccurredAt    time.Time `json:"occurred_at"`
}

func newEvent(eventType string, communityID uint64) *DomainEvent {
	return &DomainEvent{
		EventID:     uuid.NewString(),
		Type:        eventType,
		CommunityID: communityID,
		OccurredAt:  time.Now().UTC(),
	}
}

// insertOutbox 与业务变更同一事务写入事件行
func insertOutbox(tx *gorm.DB, ev *DomainEvent) error {
	payload, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	ob := &model.ModerationOutbox{
		EventID:     ev.EventID,
		EventType:   ev.Type,
		CommunityID: ev.CommunityID,
		Payload:     string(payload),
		Status:      0,
	}
	return tx.Create(ob).Error
}

// excludeIDs 从受众中剔除指定用户（目标、操作者本人等）
func excludeIDs(ids []uint64, drop ...uint64) []uint64 {
	out := make([]uint64, 0, len(ids))
	for _, id := range ids {
		skip := false
		for _, d := range drop {
			if id == d {
				skip = true
				break
			}
		}
		if !skip {
			out = append(out, id)
		}
	}
	return out
}
