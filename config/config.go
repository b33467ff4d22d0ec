package config

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

var ConfigInfo = Default()

// Default 返回不依赖配置文件的默认配置, 测试与本地启动都会用到
func Default() config {
	var c config
	c.Server.Addr = "0.0.0.0:8888"
	c.Server.MaxBodySize = 512 * 1024 * 1024
	c.Server.AllowOrigins = []string{"http://localhost:5173", "http://localhost:8888"}
	c.Server.UploadTempDir = os.TempDir()
	c.Mysql.Charset = "utf8mb4"
	c.Cache.Driver = "memory"
	c.Cache.Prefix = "videohub:"
	c.Cache.TTL = "10m"
	c.Jwt.IdentityKey = "user_id"
	c.Jwt.Timeout = "24h"
	c.RabbitMq.Exchange = "engagement"
	c.RabbitMq.Prefetch = 16
	c.Minio.Bucket = "videohub"
	c.Elastic.Index = "videos"
	c.Jaeger.ServiceName = "videohub-api"
	c.Snowflake.WorkerID = 1
	c.Snowflake.DatacenterID = 1
	c.Page.DefaultSize = 10
	c.Page.MaxSize = 50
	return c
}

// 使用Viper的好处在于支持配置文件的热更新 同时viper对于大小写并不敏感 都是统一进行处理
func Init() {
	wd, _ := os.Getwd()
	logrus.Infof("Current working directory: %s", wd)

	viper.SetConfigType("yaml")
	viper.SetConfigName("config.yml")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	configPaths := []string{
		"../../config",
		"./config",
		"../config",
		".",
	}
	for _, path := range configPaths {
		viper.AddConfigPath(path)
		absPath, _ := filepath.Abs(path)
		logrus.Debugf("Added config path: %s (absolute: %s)", path, absPath)
	}

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			logrus.Warnf("config file not found, using defaults: %v", err)
		} else {
			logrus.Errorf("config error: %v", err)
		}
		return
	}
	logrus.Infof("Successfully read config file: %s", viper.ConfigFileUsed())

	// 手动从viper获取配置值，避免Unmarshal问题
	setString(&ConfigInfo.Server.Addr, "server.addr")
	setInt(&ConfigInfo.Server.MaxBodySize, "server.max_body_size")
	if v := viper.GetStringSlice("server.allow_origins"); len(v) > 0 {
		ConfigInfo.Server.AllowOrigins = v
	}
	setString(&ConfigInfo.Server.UploadTempDir, "server.upload_temp_dir")
	setString(&ConfigInfo.Server.PprofAddr, "server.pprof_addr")

	setString(&ConfigInfo.Mysql.Addr, "mysql.addr")
	setString(&ConfigInfo.Mysql.Database, "mysql.database")
	setString(&ConfigInfo.Mysql.Username, "mysql.username")
	setString(&ConfigInfo.Mysql.Password, "mysql.password")
	setString(&ConfigInfo.Mysql.Charset, "mysql.charset")

	setString(&ConfigInfo.Redis.Addr, "redis.addr")
	setString(&ConfigInfo.Redis.Password, "redis.password")
	setInt(&ConfigInfo.Redis.DB, "redis.db")

	setString(&ConfigInfo.Cache.Driver, "cache.driver")
	setString(&ConfigInfo.Cache.Prefix, "cache.prefix")
	setString(&ConfigInfo.Cache.TTL, "cache.ttl")

	setString(&ConfigInfo.Jwt.Secret, "jwt.secret")
	setString(&ConfigInfo.Jwt.IdentityKey, "jwt.identity_key")
	setString(&ConfigInfo.Jwt.Timeout, "jwt.timeout")

	ConfigInfo.RabbitMq.Enabled = viper.GetBool("rabbitmq.enabled")
	setString(&ConfigInfo.RabbitMq.Addr, "rabbitmq.addr")
	setString(&ConfigInfo.RabbitMq.Username, "rabbitmq.username")
	setString(&ConfigInfo.RabbitMq.Password, "rabbitmq.password")
	setString(&ConfigInfo.RabbitMq.Exchange, "rabbitmq.exchange")
	if viper.IsSet("rabbitmq.prefetch") {
		ConfigInfo.RabbitMq.Prefetch = viper.GetInt("rabbitmq.prefetch")
	}

	setString(&ConfigInfo.Minio.Endpoint, "minio.endpoint")
	setString(&ConfigInfo.Minio.AccessKey, "minio.access_key")
	setString(&ConfigInfo.Minio.SecretKey, "minio.secret_key")
	setString(&ConfigInfo.Minio.Bucket, "minio.bucket")
	setString(&ConfigInfo.Minio.PublicURL, "minio.public_url")
	ConfigInfo.Minio.UseSSL = viper.GetBool("minio.use_ssl")

	ConfigInfo.Elastic.Enabled = viper.GetBool("elastic.enabled")
	setString(&ConfigInfo.Elastic.URL, "elastic.url")
	setString(&ConfigInfo.Elastic.Index, "elastic.index")

	ConfigInfo.Jaeger.Enabled = viper.GetBool("jaeger.enabled")
	setString(&ConfigInfo.Jaeger.ServiceName, "jaeger.service_name")
	setString(&ConfigInfo.Jaeger.AgentAddr, "jaeger.agent_addr")

	if viper.IsSet("snowflake.worker_id") {
		ConfigInfo.Snowflake.WorkerID = viper.GetInt64("snowflake.worker_id")
	}
	if viper.IsSet("snowflake.datacenter_id") {
		ConfigInfo.Snowflake.DatacenterID = viper.GetInt64("snowflake.datacenter_id")
	}
	setInt(&ConfigInfo.Page.DefaultSize, "page.default_size")
	setInt(&ConfigInfo.Page.MaxSize, "page.max_size")

	logrus.Infof("Config loaded - MySQL: %s:%s@%s/%s, cache driver: %s",
		ConfigInfo.Mysql.Username, "***", ConfigInfo.Mysql.Addr, ConfigInfo.Mysql.Database, ConfigInfo.Cache.Driver)
}

// CacheTTL 视图缓存的过期时间, 解析失败时退回10分钟
func CacheTTL() time.Duration {
	return parseDuration(ConfigInfo.Cache.TTL, 10*time.Minute)
}

func JwtTimeout() time.Duration {
	return parseDuration(ConfigInfo.Jwt.Timeout, 24*time.Hour)
}

func parseDuration(v string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		return fallback
	}
	return d
}

func setString(dst *string, key string) {
	if v := viper.GetString(key); v != "" {
		*dst = v
	}
}

func setInt(dst *int, key string) {
	if v := viper.GetInt(key); v != 0 {
		*dst = v
	}
}
