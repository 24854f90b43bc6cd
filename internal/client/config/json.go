package config

import (
	"encoding/json"
	"os"
	"time"

	"github.com/dmitrijs2005/mooddiary/internal/flagx"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling. Timeouts are
// given in whole seconds.
type JsonConfig struct {
	ServerEndpointAddr    string `json:"server_endpoint_addr"`
	RequestTimeoutSeconds int    `json:"request_timeout_seconds"`
}

// parseJson overlays Config with values loaded from a JSON file located via
// the -c/-config flags. Missing flag means no JSON is loaded. Read or
// unmarshal errors panic; config is resolved once at startup.
func parseJson(cfg *Config) {
	jsonConfigFile := flagx.JsonConfigFlags()
	if jsonConfigFile == "" {
		return
	}

	var jc JsonConfig

	data, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}
	if err := json.Unmarshal(data, &jc); err != nil {
		panic(err)
	}

	if jc.ServerEndpointAddr != "" {
		cfg.ServerEndpointAddr = jc.ServerEndpointAddr
	}
	if jc.RequestTimeoutSeconds > 0 {
		cfg.RequestTimeout = time.Duration(jc.RequestTimeoutSeconds) * time.Second
	}
}
