// internal/config/config.go
package config

type Config struct {
	Gateway GatewayConfig `yaml:"gateway"`
}

type GatewayConfig struct {
	Link     LinkConfig     `yaml:"link"`
	Watchdog WatchdogConfig `yaml:"watchdog"`
	Recovery RecoveryConfig `yaml:"recovery"`
	TimeSync TimeSyncConfig `yaml:"timesync"`
	Power    PowerConfig    `yaml:"power"`
	Settings SettingsConfig `yaml:"settings"`
	EEPROM   EEPROMConfig   `yaml:"eeprom"`
	Events   EventsConfig   `yaml:"events"`
}

// ---- LINK ----

type LinkConfig struct {
	Endpoint       string `yaml:"endpoint"`        // link daemon request endpoint
	EventsEndpoint string `yaml:"events_endpoint"` // optional event frame stream
	TimeoutMs      int    `yaml:"timeout_ms"`
	GuardFile      string `yaml:"guard_file"` // lock shared by configuration memory users
}

// ---- WATCHDOG ----

type WatchdogConfig struct {
	PollIntervalMs      int `yaml:"poll_interval_ms"`
	CommunicationCheckS int `yaml:"communication_check_s"`
	TimeCheckS          int `yaml:"time_check_s"`
	SettingsCheckS      int `yaml:"settings_check_s"`

	TimeoutWaitS     int `yaml:"timeout_wait_s"`
	MaintenanceWaitS int `yaml:"maintenance_wait_s"`
	ErrorWaitS       int `yaml:"error_wait_s"`
}

// ---- RECOVERY ----

type RecoveryConfig struct {
	DebugDir    string `yaml:"debug_dir"`
	DebugRetain int    `yaml:"debug_retain"`

	RestartGraceMs int `yaml:"restart_grace_ms"`
	ResetGraceMs   int `yaml:"reset_grace_ms"`
	ResetSettleMs  int `yaml:"reset_settle_ms"`

	SelfHealCalls int     `yaml:"self_heal_calls"`
	MinCalls      int     `yaml:"min_calls"`
	HealthyWindow int     `yaml:"healthy_window"`
	RatioWindowS  int     `yaml:"ratio_window_s"`
	FailureRatio  float64 `yaml:"failure_ratio"`
	BackoffMinS   int     `yaml:"backoff_min_s"`
	BackoffMaxS   int     `yaml:"backoff_max_s"`
}

// ---- TIME SYNC ----

type TimeSyncConfig struct {
	ToleranceS int `yaml:"tolerance_s"`
}

// ---- POWER ----

type PowerConfig struct {
	Driver string            `yaml:"driver"` // "" | none | gpio | modbus
	HoldMs int               `yaml:"hold_ms"`
	GPIO   GPIOConfig        `yaml:"gpio"`
	Modbus ModbusRelayConfig `yaml:"modbus"`
}

type GPIOConfig struct {
	Pin       *int   `yaml:"pin"`
	SysfsRoot string `yaml:"sysfs_root"`
}

type ModbusRelayConfig struct {
	Endpoint  string `yaml:"endpoint"` // serial device or tcp://host:port
	BaudRate  int    `yaml:"baud_rate"`
	SlaveID   uint8  `yaml:"slave_id"`
	Coil      uint16 `yaml:"coil"`
	TimeoutMs int    `yaml:"timeout_ms"`
	Inverted  bool   `yaml:"inverted"`
}

// ---- STORAGE ----

type SettingsConfig struct {
	Path string `yaml:"path"`
}

type EEPROMConfig struct {
	RetryPauseMs *int `yaml:"retry_pause_ms"`
}

type EventsConfig struct {
	Journal string `yaml:"journal"`
}
