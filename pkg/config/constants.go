package config

const (
	EnvPrefix = "payvault"

	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	EnvDBDSN  = "PAYVAULT_DB_DSN"
	EnvDBHost = "PAYVAULT_DB_HOST"
	EnvDBUser = "PAYVAULT_DB_USER"
	EnvDBName = "PAYVAULT_DB_NAME"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
