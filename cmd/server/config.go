package main

type Config struct {
	Host           string `env:"HOST,default=localhost"`
	Port           int    `env:"PORT,default=8080"`
	BadgerFilepath string `env:"BADGER_FILEPATH,required=true"`
	// BaseURL is the prefix of the canonical resource links embedded in
	// notifications.
	BaseURL  string `env:"BASE_URL,default=http://localhost:8080"`
	LogLevel string `env:"LOG_LEVEL,default=INFO"`
}
