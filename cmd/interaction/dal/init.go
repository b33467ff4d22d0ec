package dal

import (
	"VideoHub.com/cmd/interaction/dal/db"
)

// Init 连接 mysql 并返回 engagement 核心使用的 Store
func Init() *db.Store {
	db.Init()
	return db.NewStore(db.DB)
}
