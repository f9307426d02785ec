// Command webtranscript-verify is a reference binary demonstrating the
// library end to end: load a transcript and a structure template, parse,
// enforce contextual integrity, compute a reveal plan, and print the
// resulting canonical context plus the plan. It is an example wired around
// the library, not a general-purpose CLI product.
package main

import (
	"encoding/json"
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/tlscontext/webtranscript/httpcontext"
	"github.com/tlscontext/webtranscript/httpspan"
	"github.com/tlscontext/webtranscript/rangeset"
	"github.com/tlscontext/webtranscript/transcript"
)

func setupLogging(config VerifyConfig) {
	level, err := zerolog.ParseLevel(config.LogLevel)
	if err != nil {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	if config.JSONLogs {
		log.Logger = zerolog.New(os.Stdout).With().Timestamp().Str("cmd", "webtranscript-verify").Logger()
	} else {
		log.Logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout}).With().Timestamp().Str("cmd", "webtranscript-verify").Logger()
	}
}

func loadTranscript(config VerifyConfig) (httpspan.HttpTranscript, error) {
	if config.TranscriptPath != "" {
		raw, err := os.ReadFile(config.TranscriptPath)
		if err != nil {
			return httpspan.HttpTranscript{}, err
		}
		var tf transcriptFile
		if err := json.Unmarshal(raw, &tf); err != nil {
			return httpspan.HttpTranscript{}, err
		}
		partial := tf.toPartial()
		log.Info().Int("authed_sent_ranges", len(tf.AuthedSent)).
			Int("authed_received_ranges", len(tf.AuthedReceived)).
			Msg("loaded partial transcript")
		return httpspan.ParsePartial(&partial, config.Sentinel)
	}

	sent, err := os.ReadFile(config.SentPath)
	if err != nil {
		return httpspan.HttpTranscript{}, err
	}
	received, err := os.ReadFile(config.ReceivedPath)
	if err != nil {
		return httpspan.HttpTranscript{}, err
	}
	log.Info().Str("sent", config.SentPath).Str("received", config.ReceivedPath).Msg("loaded fully-trusted transcript")
	return httpspan.Parse(transcript.New(sent, received))
}

func loadStructure(path string) (httpcontext.Structure, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return httpcontext.Structure{}, err
	}
	var sf structureFile
	if err := json.Unmarshal(raw, &sf); err != nil {
		return httpcontext.Structure{}, err
	}
	return sf.toStructure()
}

func printRanges(label string, s rangeset.Set) {
	for _, r := range s.Ranges() {
		log.Info().Str("direction", label).Uint64("start", r.Start).Uint64("end", r.End).Msg("reveal range")
	}
}

func run(config VerifyConfig) error {
	httpTr, err := loadTranscript(config)
	if err != nil {
		return err
	}

	structure, err := loadStructure(config.StructurePath)
	if err != nil {
		return err
	}

	ctx, err := httpcontext.Enforce(structure, httpTr)
	if err != nil {
		return err
	}
	log.Info().Int("requests", len(ctx.Requests)).Int("responses", len(ctx.Responses)).Msg("structural enforcement passed")

	rendered, err := renderContext(ctx)
	if err != nil {
		return err
	}
	out, err := json.MarshalIndent(rendered, "", "  ")
	if err != nil {
		return err
	}
	os.Stdout.Write(out)
	os.Stdout.Write([]byte("\n"))

	builder := transcript.NewMemoryBuilder()
	built, err := httpcontext.RevealStructure(builder, httpTr)
	if err != nil {
		return err
	}
	mc, ok := built.(*transcript.MemoryCommitment)
	if ok {
		printRanges("sent", mc.CommittedRanges(transcript.Sent))
		printRanges("received", mc.CommittedRanges(transcript.Received))
	}

	return nil
}

func main() {
	config := ParseArgs()
	setupLogging(config)

	if config.StructurePath == "" {
		log.Fatal().Msg("--structure is required")
	}
	if config.TranscriptPath == "" && (config.SentPath == "" || config.ReceivedPath == "") {
		log.Fatal().Msg("either --transcript, or both --sent and --received, must be given")
	}

	if err := run(config); err != nil {
		log.Fatal().Err(err).Msg("verification failed")
	}
}
