package main

import "github.com/spf13/pflag"

// VerifyConfig holds the flags accepted by the reference verification
// binary, in the same flat shape as the teacher's RunnerConfig.
type VerifyConfig struct {
	TranscriptPath string
	StructurePath  string
	SentPath       string
	ReceivedPath   string
	Sentinel       byte
	JSONLogs       bool
	LogLevel       string
}

// DefaultVerifyConfig returns the default configuration.
func DefaultVerifyConfig() VerifyConfig {
	return VerifyConfig{
		Sentinel: '*',
		JSONLogs: false,
		LogLevel: "info",
	}
}

// ParseArgs parses command-line flags into a VerifyConfig.
func ParseArgs() VerifyConfig {
	config := DefaultVerifyConfig()

	var sentinel string
	pflag.StringVar(&config.TranscriptPath, "transcript", "", "path to a JSON partial-transcript file (sent/received + authenticated ranges)")
	pflag.StringVar(&config.StructurePath, "structure", "", "path to the JSON structure template file")
	pflag.StringVar(&config.SentPath, "sent", "", "path to a raw, fully-trusted sent-direction file (alternative to --transcript)")
	pflag.StringVar(&config.ReceivedPath, "received", "", "path to a raw, fully-trusted received-direction file (alternative to --transcript)")
	pflag.StringVar(&sentinel, "sentinel", string(config.Sentinel), "single-byte sentinel marking unauthenticated regions in --transcript")
	pflag.BoolVar(&config.JSONLogs, "json-logs", config.JSONLogs, "enable JSON log format")
	pflag.StringVar(&config.LogLevel, "log-level", config.LogLevel, "log level (debug, info, warn, error)")
	pflag.Parse()

	if len(sentinel) > 0 {
		config.Sentinel = sentinel[0]
	}
	return config
}
