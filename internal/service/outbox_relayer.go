package service

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"CivicReport/internal/pkg"
	"CivicReport/internal/repository/mysql"

	"gorm.io/gorm"
)

// OutboxRelayer 把 outbox 里的待投递事件异步交给扇出引擎，
// 可选地镜像到 kafka。这是审核事务与通知副作用之间的解耦边界：
// 事务提交后 relayer 才会看到事件，通知失败只影响 outbox 状态。
type OutboxRelayer struct {
	repo       *mysql.OutboxRepository
	dispatcher *FanoutService
	mirror     *pkg.KafkaProducer // 可为 nil
	batchSize  int
	interval   time.Duration
}

func NewOutboxRelayer(db *gorm.DB, dispatcher *FanoutService, mirror *pkg.KafkaProducer, batchSize int, interval time.Duration) *OutboxRelayer {
	if batchSize <= 0 {
		batchSize = 200
	}
	if interval <= 0 {
		interval = time.Second
	}
	return &OutboxRelayer{
		repo:       &mysql.OutboxRepository{DB: db},
		dispatcher: dispatcher,
		mirror:     mirror,
		batchSize:  batchSize,
		interval:   interval,
	}
}

// Run 启动器，ctx 取消即退出
func (r *OutboxRelayer) Run(ctx context.Context) {
	t := time.NewTicker(r.interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			r.drainOnce(ctx)
		}
	}
}

func (r *OutboxRelayer) drainOnce(ctx context.Context) {
	rows, err := r.repo.ListPending(ctx, r.batchSize)
	if err != nil {
		log.Printf("outbox query err: %v", err)
		return
	}
	for i := range rows {
		ob := rows[i]

		var ev DomainEvent
		if err := json.Unmarshal([]byte(ob.Payload), &ev); err != nil {
			// 坏载荷没有重投意义，直接标失败
			log.Printf("outbox %d: bad payload: %v", ob.ID, err)
			_ = r.repo.MarkFailed(ctx, ob.ID)
			continue
		}

		if err := r.dispatcher.Dispatch(ctx, &ev); err != nil {
			log.Printf("outbox %d: dispatch err: %v", ob.ID, err)
			_ = r.repo.MarkFailed(ctx, ob.ID)
			continue
		}

		if r.mirror != nil {
			if err := r.mirror.Send(ctx, pkg.MakeKeyFromID(ob.CommunityID), []byte(ob.Payload)); err != nil {
				// 镜像是旁路，失败不影响 outbox 记账
				log.Printf("outbox %d: kafka mirror err: %v", ob.ID, err)
			}
		}

		_ = r.repo.MarkSent(ctx, ob.ID)
	}
}
