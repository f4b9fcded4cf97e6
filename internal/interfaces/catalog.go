package interfaces

import (
	"context"
	"time"

	"WellnessHub/internal/model"
)

// EventCatalog 活动目录查询能力（推荐消费者与活动目录同进程）
type EventCatalog interface {
	// FindStartingBetween 开始时间位于 [start, end) 的活动，按开始时间升序
	FindStartingBetween(ctx context.Context, start, end time.Time) ([]model.Event, error)
	// FindByLocation 地点包含子串（忽略大小写）的活动
	FindByLocation(ctx context.Context, q string) ([]model.Event, error)
}

// ResourceFilter 资源目录读接口的过滤条件（Category 与 EventID 二选一）
type ResourceFilter struct {
	Category string
	EventID  uint64
}

// ResourceFetcher 远端资源目录读取能力；永不返回错误，失败时返回空列表
type ResourceFetcher interface {
	Fetch(ctx context.Context, filter ResourceFilter) []model.Resource
}
