package config

import (
	"encoding/json"
	"os"
	"time"

	"github.com/connectinghands/handshare/internal/flagx"
	"github.com/connectinghands/handshare/internal/timex"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling.
// It relies on timex.Duration so JSON can specify intervals either as
// strings like "2s" or as integer nanoseconds. After parsing, values
// are copied into the runtime Config (which uses time.Duration).
type JsonConfig struct {
	ServerBaseURL  string         `json:"server_base_url"`
	RequestTimeout timex.Duration `json:"request_timeout"`
	PollInterval   timex.Duration `json:"poll_interval"`
	StateDBFile    string         `json:"state_db_file"`
}

// parseJson overlays Config with values loaded from a JSON file.
//
// Lookup order for the JSON file path:
//  1. Command-line flags (-c or -config) via flagx.JsonConfigFlags().
//  2. If empty, no JSON is loaded and the function returns.
//
// Panics on read or unmarshal errors. Intended usage is:
// defaults -> parseJson -> parseFlags, where later stages override
// earlier ones.
func parseJson(cfg *Config) {
	// Resolve file path from flags.
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

	cfg.ServerBaseURL = jc.ServerBaseURL
	cfg.RequestTimeout = time.Duration(jc.RequestTimeout.Duration)
	cfg.PollInterval = time.Duration(jc.PollInterval.Duration)
	cfg.StateDBFile = jc.StateDBFile
}
