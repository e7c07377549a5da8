package config

const (
	// EnvPrefix is the envconfig prefix for all settings.
	EnvPrefix = "replyhub"

	AppEnvDev  = "development"
	AppEnvProd = "production"

	EnvDBDSN  = "REPLYHUB_DB_DSN"
	EnvDBHost = "REPLYHUB_DB_HOST"
	EnvDBUser = "REPLYHUB_DB_USER"
	EnvDBName = "REPLYHUB_DB_NAME"
)

var requiredDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
