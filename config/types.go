package config

type config struct {
	Server    server    `yaml:"server" mapstructure:"server"`
	Mysql     mysql     `yaml:"mysql" mapstructure:"mysql"`
	Redis     redis     `yaml:"redis" mapstructure:"redis"`
	Cache     cache     `yaml:"cache" mapstructure:"cache"`
	Jwt       jwt       `yaml:"jwt" mapstructure:"jwt"`
	RabbitMq  rabbitmq  `yaml:"rabbitmq" mapstructure:"rabbitmq"`
	Minio     minio     `yaml:"minio" mapstructure:"minio"`
	Elastic   elastic   `yaml:"elastic" mapstructure:"elastic"`
	Jaeger    jaeger    `yaml:"jaeger" mapstructure:"jaeger"`
	Snowflake snowflake `yaml:"snowflake" mapstructure:"snowflake"`
	Page      page      `yaml:"page" mapstructure:"page"`
}

type server struct {
	Addr          string   `yaml:"addr"`
	MaxBodySize   int      `yaml:"max_body_size" mapstructure:"max_body_size"`
	AllowOrigins  []string `yaml:"allow_origins" mapstructure:"allow_origins"`
	UploadTempDir string   `yaml:"upload_temp_dir" mapstructure:"upload_temp_dir"`
	PprofAddr     string   `yaml:"pprof_addr" mapstructure:"pprof_addr"`
}

type mysql struct {
	Addr     string `yaml:"addr"`
	Database string `yaml:"database"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`
	Charset  string `yaml:"charset"`
}

type redis struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

type cache struct {
	// redis | memory
	Driver string `yaml:"driver"`
	Prefix string `yaml:"prefix"`
	TTL    string `yaml:"ttl"`
}

type jwt struct {
	Secret      string `yaml:"secret"`
	IdentityKey string `yaml:"identity_key" mapstructure:"identity_key"`
	Timeout     string `yaml:"timeout"`
}

type rabbitmq struct {
	Enabled  bool   `yaml:"enabled"`
	Addr     string `yaml:"addr"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`
	Exchange string `yaml:"exchange"`
	Prefetch int    `yaml:"prefetch"`
}

type minio struct {
	Endpoint  string `yaml:"endpoint"`
	AccessKey string `yaml:"access_key" mapstructure:"access_key"`
	SecretKey string `yaml:"secret_key" mapstructure:"secret_key"`
	Bucket    string `yaml:"bucket"`
	UseSSL    bool   `yaml:"use_ssl" mapstructure:"use_ssl"`
	PublicURL string `yaml:"public_url" mapstructure:"public_url"`
}

type elastic struct {
	Enabled bool   `yaml:"enabled"`
	URL     string `yaml:"url"`
	Index   string `yaml:"index"`
}

type jaeger struct {
	Enabled     bool   `yaml:"enabled"`
	ServiceName string `yaml:"service_name" mapstructure:"service_name"`
	AgentAddr   string `yaml:"agent_addr" mapstructure:"agent_addr"`
}

type snowflake struct {
	WorkerID     int64 `yaml:"worker_id" mapstructure:"worker_id"`
	DatacenterID int64 `yaml:"datacenter_id" mapstructure:"datacenter_id"`
}

type page struct {
	DefaultSize int `yaml:"default_size" mapstructure:"default_size"`
	MaxSize     int `yaml:"max_size" mapstructure:"max_size"`
}
