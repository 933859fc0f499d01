package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"runtime/pprof"
	"strconv"

	"github.com/lukaszgryglicki/atmoslut/internal/atmosphere"
)

func main() {
	atmosphere.Debug = os.Getenv("DEBUG") != ""
	atmosphere.PNG = os.Getenv("PNG") != ""
	atmosphere.RAW = os.Getenv("RAW") != ""
	atmosphere.EXR = os.Getenv("EXR") != ""
	atmosphere.GIF = os.Getenv("GIF") != ""
	atmosphere.SPIRV = os.Getenv("SPIRV") != ""
	if w := os.Getenv("WORKERS"); w != "" {
		n, err := strconv.Atoi(w)
		if err != nil {
			fmt.Printf("Error: WORKERS: %v\n", err)
			os.Exit(1)
		}
		atmosphere.Workers = n
	}
	level := slog.LevelInfo
	if atmosphere.Debug {
		level = slog.LevelDebug
	}
	atmosphere.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	profile := os.Getenv("PROFILE") != ""
	if profile {
		f, err := os.Create("cpu.out")
		if err != nil {
			panic(err)
		}
		if err := pprof.StartCPUProfile(f); err != nil {
			panic(err)
		}
		defer func() {
			pprof.StopCPUProfile()
			_ = f.Close()
		}()
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	cfg := "scenes/earth.json"
	if len(os.Args) > 1 {
		cfg = os.Args[1]
	}
	if err := atmosphere.RunContext(ctx, cfg); err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
}
