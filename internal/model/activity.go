package model

// DailyActivity 是日历日期 (YYYY-MM-DD) 到当日累计活跃秒数的映射。
// 每个日期桶只增不减。
type DailyActivity map[string]int64

// ActivityDay 是活跃度查询结果中的一天。
type ActivityDay struct {
	Date    string `json:"date"`
	Minutes int    `json:"minutes"`
}
