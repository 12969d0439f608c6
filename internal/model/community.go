package model

import "time"

// Community 生命周期状态
const (
	CommunityActive    int8 = 0
	CommunitySuspended int8 = 1
	CommunityDeleted   int8 = 2 // 终态，触发级联清理
)

// Membership 状态
const (
	MemberActive   int8 = 0
	MemberLeft     int8 = 1
	MemberExpelled int8 = 2 // 终态，被驱逐后永久禁止再次加入
)

// Membership 角色
const (
	RoleMember  int8 = 0
	RoleAdmin   int8 = 1
	RoleCreator int8 = 2
)

type Community struct {
	ID          uint64 `gorm:"primaryKey"`
	Name        string `gorm:"uniqueIndex;size:64;not null"`
	Description string `gorm:"type:text"`
	CreatorID   uint64 `gorm:"not null;index"` // 创建后不可变更
	State       int8   `gorm:"not null;default:0;comment:'0=active,1=suspended,2=deleted'"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

type Membership struct {
	ID          uint64    `gorm:"primaryKey"`
	CommunityID uint64    `gorm:"not null;index;uniqueIndex:uk_community_user"`
	UserID      uint64    `gorm:"not null;index;uniqueIndex:uk_community_user"`
	Role        int8      `gorm:"not null;default:0;comment:'0=member,1=admin,2=creator'"`
	Status      int8      `gorm:"not null;default:0;comment:'0=active,1=left,2=expelled'"`
	ExpelReason string    `gorm:"size:255"`
	JoinedAt    time.Time `gorm:"not null"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (Membership) TableName() string { return "memberships" }
