package model

import "errors"

// ErrWordExists 表示该词（忽略大小写）已在词汇本中，保存是幂等的空操作。
var ErrWordExists = errors.New("word already saved")

// ErrWordNotFound 表示按 id 找不到词汇条目。
var ErrWordNotFound = errors.New("word not found")

// WordEnrichment 是词条的异步补全数据：词条先以精简形态插入，
// 补全结果到达后按 id 合并进既有条目。
type WordEnrichment struct {
	Phonetic           string   `json:"phonetic,omitempty"`
	PartOfSpeech       string   `json:"partOfSpeech,omitempty"`
	ChineseDefinition  string   `json:"chineseDefinition,omitempty"`
	ExampleSentence    string   `json:"exampleSentence,omitempty"`
	ExampleTranslation string   `json:"exampleTranslation,omitempty"`
	Synonyms           []string `json:"synonyms,omitempty"`
	Roots              string   `json:"roots,omitempty"`
}

// Empty 判断补全数据是否全部缺失。
func (e WordEnrichment) Empty() bool {
	return e.Phonetic == "" && e.PartOfSpeech == "" && e.ChineseDefinition == "" &&
		e.ExampleSentence == "" && e.ExampleTranslation == "" && len(e.Synonyms) == 0 && e.Roots == ""
}

// VocabularyWord 代表词汇本中的一个条目。
// Word 文本在单个用户内忽略大小写唯一；补全字段缺失时条目处于“加载中”展示状态。
type VocabularyWord struct {
	ID         string `json:"id"`
	Word       string `json:"word"`
	Definition string `json:"definition"`
	Context    string `json:"context"`
	AddedAt    int64  `json:"addedAt"`

	WordEnrichment
}

// Enriched 判断条目是否已经合并过补全数据。
func (w VocabularyWord) Enriched() bool {
	return !w.WordEnrichment.Empty()
}
