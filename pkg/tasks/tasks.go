// Package tasks 定义了投递到消息队列的任务负载。
package tasks

// WordEnrichmentTask 是词条异步补全任务的负载。
type WordEnrichmentTask struct {
	UserID  string `json:"user_id"`
	WordID  string `json:"word_id"`
	Word    string `json:"word"`
	Context string `json:"context"`
}
