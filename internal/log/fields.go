package log

// Common field names for structured logging
const (
	FieldComponent   = "component"
	FieldOperation   = "operation"
	FieldError       = "error"
	FieldSuccess     = "success"
	FieldDuration    = "duration_ms"
	FieldScenarioID  = "scenario_id"
	FieldScenario    = "scenario_name"
	FieldBalance     = "balance"
	FieldPayment     = "payment"
	FieldRate        = "annual_rate"
	FieldMonths      = "months"
	FieldPayoffMonth = "payoff_month"
	FieldEpisodeDate = "episode_date"
	FieldURL         = "url"
	FieldFilePath    = "file_path"
	FieldBytes       = "bytes"
	FieldSheetsRef   = "sheets_ref"
)

// Components defines standard component names
const (
	ComponentApp        = "app"
	ComponentEngine     = "engine"
	ComponentStorage    = "storage"
	ComponentAMQP       = "amqp"
	ComponentWorker     = "worker"
	ComponentSheets     = "sheets"
	ComponentDownloader = "downloader"
	ComponentCLI        = "cli"
)

// Operations defines standard operation names
const (
	OpSimulate = "simulate"
	OpSave     = "save"
	OpSync     = "sync"
	OpFetch    = "fetch"
	OpParse    = "parse"
	OpStartup  = "startup"
	OpShutdown = "shutdown"
)
