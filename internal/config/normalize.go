// internal/config/normalize.go
package config

// Defaults applied by Normalize.
const (
	DefaultLinkTimeoutMs = 2000
	DefaultGuardFile     = "/tmp/master-gateway-eeprom.lock"

	DefaultPollIntervalMs      = 5000
	DefaultCommunicationCheckS = 60
	DefaultTimeCheckS          = 300
	DefaultSettingsCheckS      = 900
	DefaultTimeoutWaitS        = 60
	DefaultMaintenanceWaitS    = 10
	DefaultErrorWaitS          = 60

	DefaultDebugDir       = "/tmp"
	DefaultDebugRetain    = 10
	DefaultRestartGraceMs = 15000
	DefaultResetGraceMs   = 1000
	DefaultResetSettleMs  = 5000

	DefaultSelfHealCalls = 30
	DefaultMinCalls      = 10
	DefaultHealthyWindow = 10
	DefaultRatioWindowS  = 180
	DefaultFailureRatio  = 0.25
	DefaultBackoffMinS   = 300
	DefaultBackoffMaxS   = 1200

	DefaultToleranceS = 180

	DefaultPowerHoldMs   = 5000
	DefaultGPIOSysfsRoot = "/sys/class/gpio"
	DefaultRelayBaudRate = 9600
	DefaultRelayTimeout  = 1000

	DefaultSettingsPath = "/opt/master-gateway/etc/settings.json"
	DefaultRetryPauseMs = 2000
)

// Normalize applies post-validation normalization.
// It is allowed to mutate configuration.
// It MUST be called only after Validate().
func Normalize(cfg *Config) {
	if cfg == nil {
		return
	}
	g := &cfg.Gateway

	def(&g.Link.TimeoutMs, DefaultLinkTimeoutMs)
	if g.Link.GuardFile == "" {
		g.Link.GuardFile = DefaultGuardFile
	}

	def(&g.Watchdog.PollIntervalMs, DefaultPollIntervalMs)
	def(&g.Watchdog.CommunicationCheckS, DefaultCommunicationCheckS)
	def(&g.Watchdog.TimeCheckS, DefaultTimeCheckS)
	def(&g.Watchdog.SettingsCheckS, DefaultSettingsCheckS)
	def(&g.Watchdog.TimeoutWaitS, DefaultTimeoutWaitS)
	def(&g.Watchdog.MaintenanceWaitS, DefaultMaintenanceWaitS)
	def(&g.Watchdog.ErrorWaitS, DefaultErrorWaitS)

	if g.Recovery.DebugDir == "" {
		g.Recovery.DebugDir = DefaultDebugDir
	}
	def(&g.Recovery.DebugRetain, DefaultDebugRetain)
	def(&g.Recovery.RestartGraceMs, DefaultRestartGraceMs)
	def(&g.Recovery.ResetGraceMs, DefaultResetGraceMs)
	def(&g.Recovery.ResetSettleMs, DefaultResetSettleMs)
	def(&g.Recovery.SelfHealCalls, DefaultSelfHealCalls)
	def(&g.Recovery.MinCalls, DefaultMinCalls)
	def(&g.Recovery.HealthyWindow, DefaultHealthyWindow)
	def(&g.Recovery.RatioWindowS, DefaultRatioWindowS)
	if g.Recovery.FailureRatio == 0 {
		g.Recovery.FailureRatio = DefaultFailureRatio
	}
	def(&g.Recovery.BackoffMinS, DefaultBackoffMinS)
	def(&g.Recovery.BackoffMaxS, DefaultBackoffMaxS)
	if g.Recovery.BackoffMaxS < g.Recovery.BackoffMinS {
		// only one bound was configured
		g.Recovery.BackoffMaxS = g.Recovery.BackoffMinS
	}

	def(&g.TimeSync.ToleranceS, DefaultToleranceS)

	if g.Power.Driver == "" {
		g.Power.Driver = "none"
	}
	def(&g.Power.HoldMs, DefaultPowerHoldMs)
	if g.Power.GPIO.SysfsRoot == "" {
		g.Power.GPIO.SysfsRoot = DefaultGPIOSysfsRoot
	}
	def(&g.Power.Modbus.BaudRate, DefaultRelayBaudRate)
	def(&g.Power.Modbus.TimeoutMs, DefaultRelayTimeout)
	if g.Power.Modbus.SlaveID == 0 {
		g.Power.Modbus.SlaveID = 1
	}

	if g.Settings.Path == "" {
		g.Settings.Path = DefaultSettingsPath
	}
	if g.EEPROM.RetryPauseMs == nil {
		v := DefaultRetryPauseMs
		g.EEPROM.RetryPauseMs = &v
	}
}

func def(v *int, d int) {
	if *v == 0 {
		*v = d
	}
}
