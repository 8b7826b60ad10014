package config

// Redis обслуживает таблицу лидеров и очередь отложенных задач бота.
// Пустой адрес отключает оба.
type Redis struct {
	Address  string `env:"REDIS_ADDRESS"`
	Username string `env:"REDIS_USERNAME"`
	Password string `env:"REDIS_PASSWORD" json:"-"`
	DB       int    `env:"REDIS_DB" envDefault:"0"`
	PoolSize int    `env:"REDIS_POOL_SIZE" envDefault:"10"`
}

func (r Redis) Enabled() bool {
	return r.Address != ""
}
