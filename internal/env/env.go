package env

import (
	"log"
	"os"
	"path"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// actual environment variables
var JWT_SECRET []byte
var MONGO_URI string
var REDIS_URI string
var COUNTRY_CODE string
var SENDER_NAME string
var SEED_FILE string
var ENABLE_SYNC_TRANSPORT bool
var PREFORK bool

// set from the --deployment flag, not the env file
var DEPLOYMENT string

func Init(envRoot string, deployment string) {
	loadEnv(envRoot)

	DEPLOYMENT = strings.TrimSpace(deployment)

	PREFORK, _ = strconv.ParseBool(os.Getenv("PREFORK"))
	ENABLE_SYNC_TRANSPORT, _ = strconv.ParseBool(os.Getenv("ENABLE_SYNC_TRANSPORT"))
	MONGO_URI = os.Getenv("MONGO_URI")
	REDIS_URI = os.Getenv("REDIS_URI")
	JWT_SECRET = []byte(os.Getenv("JWT_SECRET"))
	SEED_FILE = strings.TrimSpace(os.Getenv("SEED_FILE"))

	COUNTRY_CODE = strings.ToUpper(strings.TrimSpace(os.Getenv("COUNTRY_CODE")))
	if COUNTRY_CODE == "" {
		COUNTRY_CODE = "TZA"
	}

	SENDER_NAME = strings.TrimSpace(os.Getenv("SENDER_NAME"))
	if SENDER_NAME == "" {
		SENDER_NAME = "Early Warning Team"
	}
}

func IsProduction() bool {
	return DEPLOYMENT == "prod"
}

func loadEnv(envRoot string) {
	if envRoot == "" {
		envRoot = repoRoot()
	}

	path := path.Join(envRoot, ".env")
	if err := godotenv.Overload(path); err != nil {
		log.Fatalf("failed to load env file %s: %v", path, err)
	}
}

func repoRoot() string {
	_, b, _, _ := runtime.Caller(0)
	return filepath.Join(filepath.Dir(b), "../..")
}
