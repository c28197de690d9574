package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"strings"

	"github.com/joho/godotenv"

	"NewsVerifier/internal/app"
	"NewsVerifier/internal/config"
	"NewsVerifier/internal/logging"
	"NewsVerifier/internal/usecase"
)

func main() {
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "usage: %s [claim text]\n", os.Args[0])
		fmt.Fprintf(flag.CommandLine.Output(), "without a claim, starts a prompt (%s)\n", commandsHelp)
		flag.PrintDefaults()
	}
	flag.Parse()

	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg := config.Load()
	if cfg.Logging.Level == "info" {
		cfg.Logging.Level = "warn"
	}
	logger := logging.NewWithWriter(os.Stderr, cfg.Logging.Level, cfg.Logging.Format)

	application, err := app.New(cfg, logger)
	if err != nil {
		logger.Error("invalid configuration", "error", err)
		os.Exit(1)
	}
	defer application.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	verifier := application.Verifier()

	if claim := strings.Join(flag.Args(), " "); strings.TrimSpace(claim) != "" {
		if err := verifyAndPrint(ctx, verifier, claim, os.Stdout); err != nil {
			logger.Error("verification failed", "error", err)
			stop()
			_ = application.Close()
			os.Exit(1)
		}
		return
	}

	if err := prompt(ctx, verifier, os.Stdin, os.Stdout); err != nil {
		logger.Error("interactive session stopped", "error", err)
	}
}

func prompt(ctx context.Context, verifier *usecase.Verifier, in io.Reader, out io.Writer) error {
	scanner := bufio.NewScanner(in)
	fmt.Fprintln(out, commandsHelp)
	for {
		fmt.Fprint(out, "claim> ")
		if !scanner.Scan() {
			fmt.Fprintln(out)
			return scanner.Err()
		}

		line := strings.TrimSpace(scanner.Text())
		switch strings.ToLower(line) {
		case "":
			continue
		case "quit", "exit", "q":
			return nil
		case "sources":
			printSourceGuide(out)
			continue
		case "verdicts":
			printVerdictGuide(out)
			continue
		case "help":
			printSourceGuide(out)
			printVerdictGuide(out)
			continue
		}

		if err := verifyAndPrint(ctx, verifier, line, out); err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			fmt.Fprintf(out, "error: %v\n", err)
		}
	}
}

func verifyAndPrint(ctx context.Context, verifier *usecase.Verifier, claim string, out io.Writer) error {
	report, err := verifier.Verify(ctx, claim)
	if err != nil {
		if errors.Is(err, usecase.ErrEmptyClaim) {
			return fmt.Errorf("nothing to verify")
		}
		return err
	}

	printReport(out, report)
	return nil
}
