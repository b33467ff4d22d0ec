package db

import (
	"github.com/cloudwego/hertz/pkg/common/hlog"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	gormopentracing "gorm.io/plugin/opentracing"

	"VideoHub.com/cmd/model"
	"VideoHub.com/pkg/utils"
)

var DB *gorm.DB

// Init init DB
func Init() {
	var err error
	DB, err = Open(mysql.Open(utils.GetMysqlDsn()))
	if err != nil {
		panic(err)
	}
}

// Open 打开数据库, 挂载 opentracing 插件并完成迁移
func Open(dialector gorm.Dialector) (*gorm.DB, error) {
	db, err := gorm.Open(dialector,
		&gorm.Config{
			PrepareStmt:            true,
			SkipDefaultTransaction: true,
			Logger:                 logger.Default.LogMode(logger.Warn),
		},
	)
	if err != nil {
		return nil, err
	}
	if err = db.Use(gormopentracing.New()); err != nil {
		return nil, err
	}
	if err = Migrate(db); err != nil {
		return nil, err
	}
	return db, nil
}

func Migrate(db *gorm.DB) error {
	hlog.Info("Starting tables migration...")
	if err := db.AutoMigrate(
		&model.User{},
		&model.Video{},
		&model.Comment{},
		&model.Like{},
		&model.Subscription{},
		&model.Playlist{},
		&model.PlaylistVideo{},
		&model.Tweet{},
		&model.WatchHistory{},
	); err != nil {
		hlog.Errorf("Failed to migrate tables: %v", err)
		return err
	}
	hlog.Info("Tables migration completed successfully")
	return nil
}
