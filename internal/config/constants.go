package config

// Application constants
const (
	// Service registration for `ensaio service`
	ServiceName        = "ensaio"
	ServiceDisplayName = "Simulação de Ensaio"
	ServiceDescription = "Formulário de simulação de ensaios MR e DP sobre Google Sheets"

	// Google Sheets
	DefaultCredentialsFile = "credenciais.json"
	DefaultMRSheet         = "Interface MR"
	DefaultDPSheet         = "Interface DP"

	// Rate limiting
	DefaultRateLimit = 20 // requests per second
	DefaultBurstSize = 10

	// Log settings
	DefaultLogFile    = "logs/ensaio.log"
	MaxLogFileSizeMB  = 10
	MaxLogFileBackups = 3
	MaxLogFileAgeDays = 28
)
