package itinerary

import (
	"sort"
	"strconv"
	"sync"

	"TourCore/internal/model"
	"TourCore/utils"
)

// GroupActivitiesByDay 按 day_number 分组，组内按 order 升序（稳定排序）。
// 每次调用返回新的 map。
func GroupActivitiesByDay(it model.Itinerary) map[int][]model.Activity {
	groups := make(map[int][]model.Activity)
	for _, a := range it.Activities {
		groups[a.DayNumber] = append(groups[a.DayNumber], a.Clone())
	}

	for day := range groups {
		sortByOrder(groups[day])
	}
	return groups
}

// Days 返回有活动的天，升序
func Days(groups map[int][]model.Activity) []int {
	days := make([]int, 0, len(groups))
	for day := range groups {
		days = append(days, day)
	}
	sort.Ints(days)
	return days
}

func sortByOrder(acts []model.Activity) {
	sort.SliceStable(acts, func(i, j int) bool {
		return acts[i].Order < acts[j].Order
	})
}

const defaultGrouperCapacity = 256

// Grouper 带缓存的分组器，相同内容的行程复用同一份分组结果。
// 每次返回的都是副本，调用方可以随意修改。
type Grouper struct {
	cache    map[string]map[int][]model.Activity
	keys     []string
	capacity int
	mu       sync.Mutex
}

func NewGrouper(capacity int) *Grouper {
	if capacity <= 0 {
		capacity = defaultGrouperCapacity
	}
	return &Grouper{
		cache:    make(map[string]map[int][]model.Activity, capacity),
		capacity: capacity,
	}
}

// Group 与 GroupActivitiesByDay 语义一致
func (g *Grouper) Group(it model.Itinerary) map[int][]model.Activity {
	key := ActivitiesFingerprint(it)

	g.mu.Lock()
	defer g.mu.Unlock()

	if groups, ok := g.cache[key]; ok {
		return copyGroups(groups)
	}

	groups := GroupActivitiesByDay(it)
	if len(g.keys) >= g.capacity {
		oldest := g.keys[0]
		g.keys = g.keys[1:]
		delete(g.cache, oldest)
	}
	g.cache[key] = groups
	g.keys = append(g.keys, key)
	return copyGroups(groups)
}

func copyGroups(groups map[int][]model.Activity) map[int][]model.Activity {
	out := make(map[int][]model.Activity, len(groups))
	for day, acts := range groups {
		cp := make([]model.Activity, len(acts))
		for i, a := range acts {
			cp[i] = a.Clone()
		}
		out[day] = cp
	}
	return out
}

// Len 当前缓存条目数
func (g *Grouper) Len() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.cache)
}

// ActivitiesFingerprint 活动集合的内容指纹
func ActivitiesFingerprint(it model.Itinerary) string {
	parts := make([]string, 0, len(it.Activities)*10+1)
	parts = append(parts, it.ID)
	for _, a := range it.Activities {
		parts = append(parts,
			a.ID,
			strconv.Itoa(a.DayNumber),
			strconv.Itoa(a.Order),
			a.Title,
			a.Description,
			string(a.Type),
			a.StartTime+"-"+a.EndTime,
			string(a.Status),
			deref(a.DestinationID),
			deref(a.POIID),
		)
	}
	return utils.Fingerprint(parts...)
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
