package model

// UserIdentity 是从显示名确定性派生的用户标识，
// 作为所有持久化集合的命名空间键。
type UserIdentity struct {
	ID          string `json:"id"`
	DisplayName string `json:"displayName"`
}

// UserProfile 是用户的个人资料，仅通过显式编辑修改。
type UserProfile struct {
	Name   string `json:"name"`
	Level  string `json:"level"`
	Avatar string `json:"avatar"`
}

// DefaultProfile 返回新用户的默认资料。
func DefaultProfile(name string) UserProfile {
	return UserProfile{Name: name, Level: string(DifficultyIntermediate), Avatar: "😎"}
}
