package constants

import "time"

const (
	AppName            = "meter"
	DefaultKeyringUser = "database-connection"
	DefaultConfigDir   = "~/.meter"
	DefaultDBPath      = "~/.meter/db.sqlite"
	DefaultInvoiceDir  = "~/meter/invoices"
	Version            = "v0.3.0"

	// DefaultDescription is used when a timer is started without a description
	DefaultDescription = "Work session"
	DefaultCurrency    = "$"
	DefaultTerms       = "Net 30"

	// Pomodoro defaults
	DefaultPomodoroEnabled   = false
	DefaultWorkMinutes       = 45
	DefaultShortBreakMinutes = 15
	DefaultLongBreakMinutes  = 60
	DefaultCyclesBeforeLong  = 4

	// Session tick cadence
	DefaultTickInterval = 250 * time.Millisecond
	TrayTickInterval    = time.Second

	// Invoice output
	InvoiceFormatPDF  = "pdf"
	InvoiceFormatText = "text"

	// Backup constants
	MaxBackups       = 14
	BackupDirName    = "backups"
	BackupFilePrefix = "meter-"
	BackupFileSuffix = ".db"

	// Notify constants
	NotifyMaxRetries       = 3
	NotifyRetryDelay       = 100 * time.Millisecond
	NotifierLockfileName   = "meter-notifier.lock"
	NotifierSecretHeader   = "X-Meter-Secret"
	NotificationDurationMs = 5000
	TrayAppIdentifier      = "com.julianstephens.meter"
	TrayExecutablePrefix   = "meter-tray"
	NotificationTitle      = "Meter - Pomodoro"

	// Log file
	LogFileName = "meter.log"
)
