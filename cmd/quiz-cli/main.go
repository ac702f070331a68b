package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"quizkit/internal/cli"
	"quizkit/internal/config"
	"quizkit/internal/controller"
	"quizkit/internal/genclient"
	"quizkit/internal/host"
	"quizkit/internal/logger"
	"quizkit/internal/widget"
)

type options struct {
	configPath string
	file       string
	pageURL    string
	pageTitle  string
	generate   bool
	difficulty string
	count      int
	render     bool
	noColor    bool
	pages      int
}

func main() {
	var opts options
	flag.StringVar(&opts.configPath, "config", "", "path to YAML config")
	flag.StringVar(&opts.file, "file", "", "read quiz content from a file (\"-\" for stdin)")
	flag.StringVar(&opts.pageURL, "page", "", "page URL whose saved quiz should be loaded")
	flag.StringVar(&opts.pageTitle, "title", "", "page title stored with generated quizzes")
	flag.BoolVar(&opts.generate, "generate", false, "generate a new quiz for the page")
	flag.StringVar(&opts.difficulty, "difficulty", "", "generation difficulty (easy, medium, hard)")
	flag.IntVar(&opts.count, "count", 0, "number of questions to generate")
	flag.BoolVar(&opts.render, "render", false, "print widget markup instead of starting the UI")
	flag.BoolVar(&opts.noColor, "no-color", false, "disable colors")
	flag.IntVar(&opts.pages, "pages", 0, "list the N most recently saved pages and exit")
	flag.Parse()

	if err := run(opts); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func run(opts options) error {
	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return err
	}
	log, err := logger.New(cfg.Log)
	if err != nil {
		return err
	}
	defer log.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	client, err := genclient.New(cfg.Client.Endpoint, &http.Client{Timeout: cfg.Client.Timeout})
	if err != nil {
		return err
	}

	if opts.pages > 0 {
		return listPages(ctx, client, opts.pages, os.Stdout)
	}

	notices := cli.NewNoticeBoard()
	ctrl := controller.New(controller.Options{
		Notifier: notices,
		Logger:   log,
		Observer: func(t controller.Transition) {
			log.Debug("quiz transition", "widget", t.WidgetID, "action", t.Action, "from", t.From, "to", t.To, "correct", t.Correct)
		},
	})
	renderer := widget.NewRenderer(nil, labels(cfg.Labels))
	h := host.New(renderer, ctrl, log)
	results := widget.Element(atom.Div, "ai-quiz-results")

	var (
		widgets []*html.Node
		status  string
	)
	switch {
	case opts.file != "":
		raw, err := readContent(opts.file)
		if err != nil {
			return err
		}
		widgets, err = h.Append(results, raw)
		if err != nil {
			log.Warn("some widgets could not be bound", "error", err)
		}
		status = fmt.Sprintf("Loaded %d quiz(zes) from %s.", len(widgets), opts.file)
	case opts.pageURL != "":
		section := host.NewSection(h, client, host.Page{URL: opts.pageURL, Title: opts.pageTitle}, results, log)
		defer section.Close()
		if opts.generate {
			difficulty := opts.difficulty
			if difficulty == "" {
				difficulty = cfg.Client.Difficulty
			}
			count := opts.count
			if count <= 0 {
				count = cfg.Client.Count
			}
			fmt.Fprintln(os.Stderr, host.StatusGenerating)
			widgets, err = section.Generate(ctx, host.GenerateParams{Difficulty: difficulty, Count: count})
			if err != nil {
				return err
			}
			status = section.Status()
		} else {
			widgets, err = section.LoadSaved(ctx)
			if err != nil {
				return err
			}
			if len(widgets) == 0 {
				status = "No saved quiz for " + opts.pageURL + "."
			} else {
				status = fmt.Sprintf("Loaded saved quiz for %s.", opts.pageURL)
			}
		}
	default:
		return errors.New("one of -file, -page or -pages is required")
	}

	if opts.render {
		_, err := io.WriteString(os.Stdout, widget.OuterHTML(results)+"\n")
		return err
	}

	model := cli.NewModel(ctrl, widgets, cli.Options{
		Notices: notices,
		Status:  status,
		NoColor: opts.noColor,
		Logger:  log,
	})
	return cli.Run(ctx, model, os.Stdin, os.Stdout)
}

// readContent returns file contents as text, or decoded JSON for .json files
// so that wrapped generator responses are unpacked the same way.
func readContent(path string) (any, error) {
	var (
		data []byte
		err  error
	)
	if path == "-" {
		data, err = io.ReadAll(os.Stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	if strings.EqualFold(filepath.Ext(path), ".json") {
		var decoded any
		if err := json.Unmarshal(data, &decoded); err != nil {
			return nil, fmt.Errorf("decode %s: %w", path, err)
		}
		return decoded, nil
	}
	return string(data), nil
}

func labels(cfg config.LabelsConfig) *widget.Labels {
	chosen := widget.DefaultLabels
	if cfg.Submit != "" {
		chosen.Submit = cfg.Submit
	}
	if cfg.Reveal != "" {
		chosen.Reveal = cfg.Reveal
	}
	if cfg.Reset != "" {
		chosen.Reset = cfg.Reset
	}
	return &chosen
}

func listPages(ctx context.Context, client *genclient.Client, limit int, out io.Writer) error {
	pages, err := client.Pages(ctx, limit)
	if err != nil {
		return err
	}
	if len(pages) == 0 {
		fmt.Fprintln(out, "No saved quizzes.")
		return nil
	}
	for _, page := range pages {
		title := page.PageTitle
		if title == "" {
			title = "(untitled)"
		}
		fmt.Fprintf(out, "%s  %s  %s\n", page.SavedAt.Local().Format("2006-01-02 15:04"), page.PageURL, title)
	}
	return nil
}
