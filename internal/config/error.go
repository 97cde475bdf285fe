package config

import "errors"

var (
	errEnvNotLoaded    = errors.New("environment variables not loaded properly")
	errMongoURIMissing = errors.New("MONGODB_URI is required when DB_DRIVER=mongo")
	errUnknownDriver   = errors.New("DB_DRIVER must be postgres or mongo")
)
