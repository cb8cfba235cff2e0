// Package main provides the entry point for the application with CLI commands.
package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/digital-codes/platansense/cmd/app/commands"
)

const version = "1.0.0"

func main() {
	cmd := &cli.Command{
		Name:    "platansense",
		Usage:   "Sensor voice gateway and job processor",
		Version: version,
		Commands: []*cli.Command{
			{
				Name:  "server",
				Usage: "Start the HTTP API server",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					return commands.RunServer(ctx, version)
				},
			},
			{
				Name:  "worker",
				Usage: "Start the job processor polling loop",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					return commands.RunWorker(ctx, version)
				},
			},
			{
				Name:  "convert-audio",
				Usage: "Convert audio between WAV and the sensor's ADPCM format",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "input",
						Aliases:  []string{"i"},
						Usage:    "Input file (.wav or .adpcm)",
						Required: true,
					},
					&cli.StringFlag{
						Name:     "output",
						Aliases:  []string{"o"},
						Usage:    "Output file (.wav or .adpcm)",
						Required: true,
					},
					&cli.IntFlag{
						Name:  "sample-rate",
						Value: 8000,
						Usage: "Sample rate used when writing WAV output",
					},
					&cli.BoolFlag{
						Name:  "maximize",
						Usage: "Normalize the volume before encoding",
					},
				},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					return commands.RunConvertAudio(commands.ConvertAudioOptions{
						Input:      cmd.String("input"),
						Output:     cmd.String("output"),
						SampleRate: int(cmd.Int("sample-rate")),
						Maximize:   cmd.Bool("maximize"),
					})
				},
			},
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		slog.Error("command failed", slog.Any("error", err))
		os.Exit(1)
	}
}
