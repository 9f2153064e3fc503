package config

const (
	defaultConfigPath           = "~/.config/beacon/config.toml"
	defaultStateDir             = "~/.local/share/beacon"
	defaultLogDir               = "~/.local/share/beacon/logs"
	defaultLogFormat            = "console"
	defaultLogLevel             = "info"
	defaultNotifyRequestTimeout = 10
	defaultNotifyQueueLimit     = 50
	defaultNotifyDeliveryBuffer = 64
	defaultWatchPollInterval    = 2
	defaultWatchBatchSize       = 200
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			StateDir: defaultStateDir,
			LogDir:   defaultLogDir,
		},
		Notifications: Notifications{
			RequestTimeout: defaultNotifyRequestTimeout,
			Failure:        true,
			Success:        true,
			QueueLimit:     defaultNotifyQueueLimit,
			DeliveryBuffer: defaultNotifyDeliveryBuffer,
		},
		Watch: Watch{
			PollInterval: defaultWatchPollInterval,
			BatchSize:    defaultWatchBatchSize,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
