package main

import (
	"flag"
	"log"
	"log/slog"
	"os"
)

func main() {
	configPath := flag.String("config", "", "YAML config file (embedded defaults when empty)")
	demoName := flag.String("demo", "", "built-in renderer: plasma, balls or paint")
	scriptPath := flag.String("script", "", "tengo renderer, a path or builtin:<name>")
	debug := flag.Bool("debug", false, "enable debug logging and the stats overlay")
	watch := flag.Bool("watch", true, "reload the config and script when they change on disk")
	flag.Parse()

	level := slog.LevelInfo
	if *debug {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	opts := options{
		configPath: *configPath,
		demo:       *demoName,
		script:     *scriptPath,
		debug:      *debug,
		watch:      *watch,
	}
	if err := run(opts, logger); err != nil {
		log.Fatal(err)
	}
}
