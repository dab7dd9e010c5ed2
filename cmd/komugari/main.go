package main

import (
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/aerisDoesCodes/Komugari/internal/argtypes"
	"github.com/aerisDoesCodes/Komugari/internal/audit"
	"github.com/aerisDoesCodes/Komugari/internal/channels/discord"
	"github.com/aerisDoesCodes/Komugari/internal/commands"
	"github.com/aerisDoesCodes/Komugari/internal/config"
	"github.com/aerisDoesCodes/Komugari/internal/nickstore"
)

func main() {
	if len(os.Args) < 2 {
		printUsage(os.Stderr)
		os.Exit(2)
	}

	var code int
	switch os.Args[1] {
	case "init":
		code = handleInit(os.Args[2:])
	case "doctor":
		code = handleDoctor(os.Args[2:])
	case "serve":
		code = handleServe(os.Args[2:])
	default:
		fmt.Fprintf(os.Stderr, "unknown subcommand: %s\n\n", os.Args[1])
		printUsage(os.Stderr)
		code = 2
	}

	os.Exit(code)
}

func printUsage(w *os.File) {
	fmt.Fprintln(w, "usage: komugari <subcommand> [flags]")
	fmt.Fprintln(w, "subcommands: init, doctor, serve")
}

func handleInit(args []string) int {
	fs := flag.NewFlagSet("init", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	path := fs.String("config", config.DefaultPath, "config file path")
	force := fs.Bool("force", false, "overwrite an existing config")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	if !*force {
		if _, err := os.Stat(*path); err == nil {
			fmt.Fprintf(os.Stderr, "config already exists at %s (use -force to overwrite)\n", *path)
			return 1
		}
	}

	if err := config.Save(*path, config.Default()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	fmt.Printf("wrote %s\n", *path)
	return 0
}

func handleDoctor(args []string) int {
	fs := flag.NewFlagSet("doctor", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	path := fs.String("config", config.DefaultPath, "config file path")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	cfg, err := config.LoadOrDefault(*path)
	if err != nil {
		fmt.Fprintln(os.Stderr, "doctor: config:", err)
		return 1
	}

	configState := "defaults"
	if _, err := os.Stat(*path); err == nil {
		configState = "ok"
	}

	tokenState := "missing"
	if strings.TrimSpace(cfg.Discord.Token) != "" {
		tokenState = "config"
	} else if cfg.Discord.TokenEnv != "" && strings.TrimSpace(os.Getenv(cfg.Discord.TokenEnv)) != "" {
		tokenState = "env (" + cfg.Discord.TokenEnv + ")"
	}

	storeState := "will be created"
	if _, err := os.Stat(cfg.Store.Path); err == nil {
		storeState = "ok"
	}

	fmt.Printf("doctor: config=%s token=%s store=%s prefix=%q\n", configState, tokenState, storeState, cfg.Discord.CommandPrefix)
	if tokenState == "missing" {
		fmt.Println("set discord.token in the config or export " + cfg.Discord.TokenEnv)
		return 1
	}
	return 0
}

func handleServe(args []string) int {
	fs := flag.NewFlagSet("serve", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	path := fs.String("config", config.DefaultPath, "config file path")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	cfg, err := config.LoadOrDefault(*path)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	store, err := nickstore.Open(cfg.Store.Path)
	if err != nil {
		fmt.Fprintln(os.Stderr, "open nickname store:", err)
		return 1
	}
	defer store.Close()

	var auditor commands.Auditor
	if cfg.Audit.Enabled {
		logger, err := audit.NewLogger(cfg.Audit.Path, nil)
		if err != nil {
			fmt.Fprintln(os.Stderr, "open audit log:", err)
			return 1
		}
		defer logger.Close()
		auditor = logger
	}

	registry := commands.NewRegistry(argtypes.Builtin(), auditor, cfg.Discord.PromptLimit)
	registry.SetDefaultWait(time.Duration(cfg.Discord.ReplyWaitSeconds) * time.Second)

	builtins := []commands.Command{
		commands.NewNickname(store),
		commands.NewForgetMe(store),
		commands.NewChoose(nil),
		commands.NewRoll(nil),
		commands.NewEcho(),
		commands.NewHelp(registry.List),
	}
	for _, cmd := range builtins {
		if err := registry.Register(cmd); err != nil {
			fmt.Fprintln(os.Stderr, "register command:", err)
			return 1
		}
	}

	bot, err := discord.New(cfg, registry)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	if err := bot.Start(); err != nil {
		fmt.Fprintln(os.Stderr, "discord start failed:", err)
		return 1
	}
	defer bot.Stop()

	fmt.Println("komugari is running, press ctrl-c to stop")
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig
	return 0
}
