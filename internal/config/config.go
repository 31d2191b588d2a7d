package config

import "github.com/kelseyhightower/envconfig"

// Config holds application configuration loaded from environment variables.
type Config struct {
	BotToken     string `envconfig:"BOT_TOKEN" required:"true"`
	NotifyChatID int64  `envconfig:"NOTIFY_CHAT_ID" default:"0"`          // chat receiving fired reminders; 0 = log only
	DataDir      string `envconfig:"DATA_DIR" default:"./data"`           // root for both storage backends
	StoreBackend string `envconfig:"STORE_BACKEND" default:"diskv"`       // diskv|sqlite
	TriggerMode  string `envconfig:"TRIGGER_MODE" default:"calendar"`     // calendar|interval
	Timezone     string `envconfig:"TZ_NAME" default:"America/Sao_Paulo"` // wall-clock anchor for triggers
	LogLevel     string `envconfig:"LOG_LEVEL" default:"info"`            // debug|info|warn|error
	HTTPAddr     string `envconfig:"HTTP_ADDR" default:":8080"`           // healthz
}

// Load reads environment variables into Config.
func Load() (Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}
