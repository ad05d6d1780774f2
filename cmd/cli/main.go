package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"thumbgenius/internal/app"
	"thumbgenius/internal/brief"
	"thumbgenius/internal/config"
	"thumbgenius/internal/gemini"
	"thumbgenius/internal/generator"
	"thumbgenius/internal/refimage"
)

type flags struct {
	topic       string
	noText      bool
	text        string
	language    string
	emotion     string
	lighting    string
	composition string
	camera      string
	style       string
	aspect      string
	image       string
	model       string
	plain       bool
}

var opts flags

var rootCmd = &cobra.Command{
	Use:   "thumbgenius [topic]",
	Short: "Generate a Midjourney prompt for a YouTube thumbnail",
	Long: `thumbgenius builds one thumbnail prompt from the command line.

Option values are matched loosely against the catalog, so "neon", "85mm" or
"shocked" are enough. Without GEMINI_API_KEY the prompt is assembled from the
local template.

Examples:
  thumbgenius "Surviving 24 hours in Antarctica"
  thumbgenius --topic "Cooking on a volcano" --emotion laughing --aspect 9:16
  thumbgenius "Night city" --text "LOST IN TOKYO" --image ref.jpg --plain`,
	Args:         cobra.ArbitraryArgs,
	SilenceUsage: true,
	RunE:         run,
}

func init() {
	f := rootCmd.Flags()
	f.StringVarP(&opts.topic, "topic", "t", "", "video topic (or pass it as arguments)")
	f.BoolVar(&opts.noText, "no-text", false, "no text overlay")
	f.StringVar(&opts.text, "text", "", "overlay text to use instead of an AI hook")
	f.StringVarP(&opts.language, "language", "l", "", "hook language")
	f.StringVarP(&opts.emotion, "emotion", "e", "", "subject emotion")
	f.StringVar(&opts.lighting, "lighting", "", "lighting style")
	f.StringVar(&opts.composition, "composition", "", "composition")
	f.StringVar(&opts.camera, "camera", "", "camera angle")
	f.StringVarP(&opts.style, "style", "s", "", "art style")
	f.StringVarP(&opts.aspect, "aspect", "a", "", "aspect ratio, e.g. 16:9")
	f.StringVarP(&opts.image, "image", "i", "", "path to a reference image")
	f.StringVarP(&opts.model, "model", "m", "", "Gemini model (overrides GEMINI_MODEL)")
	f.BoolVar(&opts.plain, "plain", false, "print only the prompt")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, args []string) error {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if v := strings.TrimSpace(opts.model); v != "" {
		cfg.GeminiModel = v
	}

	logger := newLogger(cfg, cmd.ErrOrStderr())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := app.New(ctx, cfg, logger)
	if err != nil {
		return err
	}

	req, err := buildRequest(opts, args, cfg.ImageMaxDimension)
	if err != nil {
		return err
	}

	res, err := a.Generator.Generate(ctx, req)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if opts.plain {
		_, err = fmt.Fprintln(out, res.Prompt)
		return err
	}
	_, err = fmt.Fprintln(out, render(res))
	return err
}

func buildRequest(f flags, args []string, maxDim int) (generator.Request, error) {
	topic := strings.TrimSpace(f.topic)
	if topic == "" {
		topic = strings.TrimSpace(strings.Join(args, " "))
	}

	b := brief.Brief{
		Topic:       topic,
		HasText:     !f.noText,
		TextMode:    brief.TextModeAI,
		Language:    f.language,
		Emotion:     f.emotion,
		Lighting:    f.lighting,
		Composition: f.composition,
		CameraAngle: f.camera,
		ArtStyle:    f.style,
		AspectRatio: f.aspect,
	}
	if text := strings.TrimSpace(f.text); text != "" {
		b.TextMode = brief.TextModeManual
		b.CustomText = text
	}

	req := generator.Request{Brief: b}
	if path := strings.TrimSpace(f.image); path != "" {
		img, err := loadImage(path, maxDim)
		if err != nil {
			return generator.Request{}, err
		}
		req.Image = &img
	}
	return req, nil
}

func loadImage(path string, maxDim int) (gemini.ImageInput, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return gemini.ImageInput{}, fmt.Errorf("read reference image: %w", err)
	}
	img, err := refimage.Prepare(data, http.DetectContentType(data), maxDim)
	if err != nil {
		return gemini.ImageInput{}, fmt.Errorf("%s: %w", path, err)
	}
	return img, nil
}

// newLogger writes to stderr so the prompt on stdout can be piped.
func newLogger(cfg config.Config, w io.Writer) *slog.Logger {
	level := slog.LevelWarn
	switch cfg.LogLevel {
	case "debug":
		level = slog.LevelDebug
	case "error":
		level = slog.LevelError
	}

	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{
		Level: level,
	}))
}
