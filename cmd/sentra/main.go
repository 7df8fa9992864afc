// Command sentra inspects Sentra Tools Protocol streams.
//
// Usage:
//
//	sentra [flags]                      read a stream from stdin
//	sentra -traces 'traces/**/*.json'   replay recorded traces
//	GEMINI_API_KEY=... sentra -live "prompt"
//
// Flags:
//
//	-traces string    Glob of trace files to replay (** supported)
//	-live             Stream a live Gemini turn from the prompt argument
//	-model string     Gemini model ID (live mode)
//	-api-key string   API key (overrides GEMINI_API_KEY)
//	-allow string     Comma-separated allowed tags
//	-plain            Print a plain summary instead of the TUI
//	-record string    Trace file to record the live stream into
//	-log-level string Log level: debug, info, warn, error
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"

	"github.com/sentrahq/sentra"
	"github.com/sentrahq/sentra/gemini"
	"github.com/sentrahq/sentra/log"
	"github.com/sentrahq/sentra/trace"
	"github.com/sentrahq/sentra/tui"
)

const defaultAllow = sentra.TagTools + "," + sentra.TagResult + "," + sentra.TagUserQuestion

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "sentra: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	var (
		tracesGlob = flag.String("traces", "", "Glob of trace files to replay (** supported)")
		live       = flag.Bool("live", false, "Stream a live Gemini turn from the prompt argument")
		model      = flag.String("model", "", "Gemini model ID (live mode)")
		apiKey     = flag.String("api-key", "", "API key (overrides GEMINI_API_KEY)")
		allow      = flag.String("allow", defaultAllow, "Comma-separated allowed tags")
		plain      = flag.Bool("plain", false, "Print a plain summary instead of the TUI")
		record     = flag.String("record", "", "Trace file to record the live stream into")
		logLevel   = flag.String("log-level", log.LevelInfo, "Log level: debug, info, warn, error")
	)
	flag.Parse()
	log.SetLevel(*logLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	allowed := splitTags(*allow)

	switch {
	case *tracesGlob != "":
		return replayTraces(ctx, *tracesGlob, allowed)
	case *live:
		return runLive(ctx, liveConfig{
			prompt:  strings.Join(flag.Args(), " "),
			model:   *model,
			apiKey:  *apiKey,
			record:  *record,
			plain:   *plain,
			allowed: allowed,
		})
	default:
		return runStdin(ctx, allowed, *plain)
	}
}

func splitTags(s string) []string {
	var tags []string
	for _, tag := range strings.Split(s, ",") {
		if tag = strings.TrimSpace(tag); tag != "" {
			tags = append(tags, tag)
		}
	}
	return tags
}

// replayTraces runs every matching trace through a fresh detector and
// prints one summary line per trace.
func replayTraces(ctx context.Context, pattern string, allowed []string) error {
	paths, err := trace.Glob(os.DirFS("."), pattern)
	if err != nil {
		return err
	}
	if len(paths) == 0 {
		return fmt.Errorf("no traces match %s", pattern)
	}

	for _, path := range paths {
		tr, err := trace.Load(path)
		if err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}
		det := sentra.NewDetector(allowed...)
		detection, err := sentra.ReadTurn(ctx, trace.Replay(tr), det)
		if err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}
		fmt.Printf("%s: %s\n", path, describe(detection))
	}
	return nil
}

type liveConfig struct {
	prompt  string
	model   string
	apiKey  string
	record  string
	plain   bool
	allowed []string
}

func runLive(ctx context.Context, cfg liveConfig) error {
	if cfg.prompt == "" {
		return fmt.Errorf("live mode needs a prompt argument")
	}
	key := cfg.apiKey
	if key == "" {
		key = os.Getenv("GEMINI_API_KEY")
	}
	if key == "" {
		return fmt.Errorf("live mode needs -api-key or GEMINI_API_KEY")
	}

	var opts []gemini.Option
	if cfg.model != "" {
		opts = append(opts, gemini.WithModel(cfg.model))
	}
	client, err := gemini.New(ctx, key, opts...)
	if err != nil {
		return err
	}

	stream, err := client.Stream(ctx, "", cfg.prompt)
	if err != nil {
		return err
	}
	defer stream.Close()

	if cfg.record != "" {
		rec := trace.NewRecorder(stream, cfg.record, cfg.model)
		defer func() {
			if err := trace.Save(cfg.record, rec.Trace()); err != nil {
				log.Errorf("save trace: %v", err)
			}
		}()
		return inspect(ctx, rec, cfg.allowed, cfg.plain)
	}
	return inspect(ctx, stream, cfg.allowed, cfg.plain)
}

func runStdin(ctx context.Context, allowed []string, plain bool) error {
	return inspect(ctx, newReaderStream(os.Stdin), allowed, plain)
}

// inspect routes a stream to the TUI or the plain printer.
func inspect(ctx context.Context, stream sentra.ChunkStream, allowed []string, plain bool) error {
	det := sentra.NewDetector(allowed...)
	if !plain {
		return tui.Run(ctx, stream, det, sentra.DefaultTheme())
	}

	detection, err := sentra.ReadTurn(ctx, stream, det)
	if err != nil {
		return err
	}
	fmt.Println(describe(detection))
	return nil
}

// describe renders a one-line detection summary.
func describe(d sentra.Detection) string {
	switch d := d.(type) {
	case sentra.Complete:
		switch d.Tag {
		case sentra.TagTools:
			calls := sentra.ParseToolCalls(d.Block)
			names := make([]string, len(calls))
			for i, c := range calls {
				names[i] = c.Name
			}
			return fmt.Sprintf("tool calls: %s", strings.Join(names, ", "))
		case sentra.TagResult:
			if res, ok := sentra.ParseResult(d.Block); ok {
				return fmt.Sprintf("result: %s step=%d success=%t", res.Tool, res.StepIndex, res.Success)
			}
			return "result: malformed"
		case sentra.TagUserQuestion:
			if q, ok := sentra.ParseUserQuestion(d.Block); ok {
				return fmt.Sprintf("question: %s", q)
			}
			return "question: malformed"
		default:
			return fmt.Sprintf("complete: %s", d.Tag)
		}
	case sentra.Disallowed:
		return fmt.Sprintf("disallowed: %s", d.Reason)
	default:
		return "no block detected"
	}
}

// readerStream adapts an io.Reader into a ChunkStream of fixed-size
// reads, approximating provider chunking for piped input.
type readerStream struct {
	r      io.Reader
	buf    []byte
	closed bool
}

func newReaderStream(r io.Reader) *readerStream {
	return &readerStream{r: r, buf: make([]byte, 512)}
}

func (s *readerStream) Next() (string, error) {
	if s.closed {
		return "", sentra.ErrStreamClosed
	}
	for {
		n, err := s.r.Read(s.buf)
		if n > 0 {
			return string(s.buf[:n]), nil
		}
		if err != nil {
			return "", err
		}
	}
}

func (s *readerStream) Close() error {
	s.closed = true
	return nil
}
