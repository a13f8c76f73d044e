package model

// 所有模型的统一导入点
// 用于 AutoMigrate，顺序满足外键依赖
var AllModels = []interface{}{
	&ChatSession{},
	&Message{},
	&MentorStyle{},
	&AIResponseQueueEntry{},
}
