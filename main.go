package main

import (
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/confidence-coach/backend/clients"
	cfg "github.com/confidence-coach/backend/config"
	"github.com/confidence-coach/backend/orchestrator"
	"github.com/confidence-coach/backend/server"
)

var rootCmd = &cobra.Command{
	Use:           "coach",
	Short:         "Confidence Coach backend: pause detection and continuation prompts for spoken recordings",
	SilenceUsage:  true,
	SilenceErrors: true,
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		conf, p, err := setup()
		if err != nil {
			return err
		}
		logrus.WithFields(logrus.Fields{
			"transcription": conf.Transcription.Provider,
			"prompt":        conf.Prompt.Provider,
			"version":       conf.Pipeline.Version,
		}).Info("confidence coach starting")
		return server.New(conf, p).ListenAndServe()
	},
}

// setup loads config, configures logging and builds the pipeline with
// the configured providers.
func setup() (*cfg.Root, *orchestrator.Pipeline, error) {
	conf, err := cfg.Load()
	if err != nil {
		return nil, nil, err
	}
	if lvl, err := logrus.ParseLevel(conf.Pipeline.LogLvl); err == nil {
		logrus.SetLevel(lvl)
	}

	h := clients.NewHTTP()
	transcriber, err := clients.NewTranscriber(conf, h)
	if err != nil {
		return nil, nil, err
	}
	generator, err := clients.NewPromptGenerator(conf, h)
	if err != nil {
		return nil, nil, err
	}
	return conf, orchestrator.NewPipeline(conf, transcriber, generator), nil
}

func main() {
	rootCmd.AddCommand(serveCmd, analyzeCmd)
	if err := rootCmd.Execute(); err != nil {
		logrus.Error(err)
		os.Exit(1)
	}
}
