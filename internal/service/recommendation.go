package service

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"WellnessHub/internal/interfaces"
	"WellnessHub/internal/model"

	"github.com/sirupsen/logrus"
)

const (
	defaultWindowMonths = 3
	defaultLimit        = 5
)

// Recommendation 一次目标完成对应的推荐结果（仅存在于内存，不持久化）
type Recommendation struct {
	StudentID   string        `json:"studentId"`
	GoalID      string        `json:"goalId"`
	GoalTitle   string        `json:"goalTitle"`
	Category    string        `json:"category"`
	Matched     bool          `json:"matched"` // false 表示走了"最近活动"兜底
	Events      []model.Event `json:"events"`
	CompletedAt time.Time     `json:"completedAt"` // 触发推荐的目标完成时间
	GeneratedAt time.Time     `json:"generatedAt"`
}

// RecommendationBoard 每个学生最近一次推荐结果（进程内存）
type RecommendationBoard struct {
	mu     sync.RWMutex
	latest map[string]Recommendation
}

// NewRecommendationBoard 创建推荐看板
func NewRecommendationBoard() *RecommendationBoard {
	return &RecommendationBoard{latest: make(map[string]Recommendation)}
}

// Put 记录学生的推荐结果；目标完成时间早于已有记录的旧事实被忽略，返回是否写入
func (b *RecommendationBoard) Put(rec Recommendation) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	if cur, ok := b.latest[rec.StudentID]; ok && cur.CompletedAt.After(rec.CompletedAt) {
		return false
	}
	b.latest[rec.StudentID] = rec
	return true
}

// Latest 返回学生最近一次完成目标对应的推荐
func (b *RecommendationBoard) Latest(studentID string) (Recommendation, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	rec, ok := b.latest[studentID]
	return rec, ok
}

// RecommendationService 根据目标完成事实，从活动目录中挑选相关的近期活动
type RecommendationService struct {
	catalog      interfaces.EventCatalog
	table        KeywordTable
	board        *RecommendationBoard
	windowMonths int
	limit        int
	now          func() time.Time
	logger       *logrus.Logger
}

// NewRecommendationService 创建推荐服务；board 可为 nil
func NewRecommendationService(catalog interfaces.EventCatalog, table KeywordTable, board *RecommendationBoard, windowMonths, limit int, logger *logrus.Logger) *RecommendationService {
	if windowMonths <= 0 {
		windowMonths = defaultWindowMonths
	}
	if limit <= 0 {
		limit = defaultLimit
	}
	return &RecommendationService{
		catalog:      catalog,
		table:        table,
		board:        board,
		windowMonths: windowMonths,
		limit:        limit,
		now:          time.Now,
		logger:       logger,
	}
}

// Recommend 计算推荐列表并输出（日志 + 看板）
func (s *RecommendationService) Recommend(ctx context.Context, fact model.GoalCompletionFact) (Recommendation, error) {
	now := s.now()
	upcoming, err := s.catalog.FindStartingBetween(ctx, now, now.AddDate(0, s.windowMonths, 0))
	if err != nil {
		return Recommendation{}, fmt.Errorf("查询近期活动失败: %w", err)
	}
	sortByStart(upcoming)

	rec := Recommendation{
		StudentID:   fact.StudentID,
		GoalID:      fact.GoalID,
		GoalTitle:   fact.GoalTitle,
		Category:    fact.Category,
		CompletedAt: fact.CompletedAt,
		GeneratedAt: now.UTC(),
	}
	if strings.TrimSpace(fact.Category) == "" {
		rec.Events = firstN(upcoming, s.limit)
	} else {
		rec.Events = s.rank(upcoming, s.table.Keywords(fact.Category))
		rec.Matched = len(rec.Events) > 0
		if !rec.Matched {
			s.logger.WithField("category", fact.Category).Info("没有与分类匹配的活动，推荐全部近期活动")
			rec.Events = firstN(upcoming, s.limit)
		}
	}

	s.emit(rec)
	return rec, nil
}

type scoredEvent struct {
	event model.Event
	hits  int
	best  int // 命中的最高优先级关键词下标
}

// rank 标题包含任一关键词的活动，按命中数降序、开始时间升序、关键词优先级、ID 排序并截断
func (s *RecommendationService) rank(events []model.Event, keywords []string) []model.Event {
	scored := make([]scoredEvent, 0, len(events))
	for _, ev := range events {
		title := strings.ToLower(ev.Title)
		se := scoredEvent{event: ev, best: len(keywords)}
		for i, kw := range keywords {
			if kw != "" && strings.Contains(title, kw) {
				se.hits++
				if i < se.best {
					se.best = i
				}
			}
		}
		if se.hits > 0 {
			scored = append(scored, se)
		}
	}
	sort.SliceStable(scored, func(i, j int) bool {
		a, b := scored[i], scored[j]
		if a.hits != b.hits {
			return a.hits > b.hits
		}
		if !a.event.StartsAt.Equal(b.event.StartsAt) {
			return a.event.StartsAt.Before(b.event.StartsAt)
		}
		if a.best != b.best {
			return a.best < b.best
		}
		return a.event.ID < b.event.ID
	})

	out := make([]model.Event, 0, s.limit)
	for _, se := range scored {
		if len(out) == s.limit {
			break
		}
		out = append(out, se.event)
	}
	return out
}

func (s *RecommendationService) emit(rec Recommendation) {
	log := s.logger.WithFields(logrus.Fields{
		"student_id": rec.StudentID,
		"goal_id":    rec.GoalID,
		"category":   rec.Category,
	})
	if len(rec.Events) == 0 {
		log.Info("暂无可推荐的近期活动")
	} else {
		log.Infof("为完成的目标 '%s' 推荐 %d 个活动", rec.GoalTitle, len(rec.Events))
		for _, ev := range rec.Events {
			location := ev.Location
			if location == "" {
				location = "TBD"
			}
			log.Infof("  - 活动: '%s' 时间 %s 地点 %s", ev.Title, ev.StartsAt.Format(time.RFC3339), location)
		}
	}
	if s.board != nil && !s.board.Put(rec) {
		log.Info("看板已有更新的目标完成记录，忽略旧结果")
	}
}

func sortByStart(events []model.Event) {
	sort.SliceStable(events, func(i, j int) bool {
		if !events[i].StartsAt.Equal(events[j].StartsAt) {
			return events[i].StartsAt.Before(events[j].StartsAt)
		}
		return events[i].ID < events[j].ID
	})
}

func firstN(events []model.Event, n int) []model.Event {
	if len(events) > n {
		events = events[:n]
	}
	out := make([]model.Event, len(events))
	copy(out, events)
	return out
}
