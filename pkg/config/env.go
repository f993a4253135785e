package config

const (
	// EnvPrefix namespaces every environment variable the service reads.
	EnvPrefix = "parfumerie"

	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	EnvDBDSN  = "PARFUMERIE_DB_DSN"
	EnvDBHost = "PARFUMERIE_DB_HOST"
	EnvDBUser = "PARFUMERIE_DB_USER"
	EnvDBName = "PARFUMERIE_DB_NAME"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
