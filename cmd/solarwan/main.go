package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/signalsfoundry/solarwan-simulator/core"
	"github.com/signalsfoundry/solarwan-simulator/internal/anim"
	"github.com/signalsfoundry/solarwan-simulator/internal/config"
	"github.com/signalsfoundry/solarwan-simulator/internal/logging"
	"github.com/signalsfoundry/solarwan-simulator/internal/observability"
)

func main() {
	schools := flag.Int("schools", 5, "number of solar schools")
	clinics := flag.Int("clinics", 3, "number of solar clinics")
	microgrids := flag.Int("microgrids", 4, "number of community microgrids")
	simTime := flag.Duration("time", 30*time.Second, "simulation duration")
	verbose := flag.Bool("verbose", false, "enable debug logging")
	configPath := flag.String("config", "", "path to YAML application config")
	scenarioPath := flag.String("scenario", "", "path to JSON scenario overriding counts and policies")
	animPath := flag.String("anim", "", "animation export path (overrides config; empty uses config)")
	metricsLinger := flag.Duration("metrics-linger", 0, "keep the /metrics endpoint up this long after the run")
	flag.Parse()

	cfg := config.Default()
	if *configPath != "" {
		loaded, err := config.Load(*configPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			os.Exit(1)
		}
		cfg = loaded
	}
	if *verbose {
		cfg.Logging.Level = "debug"
	}

	log := logging.New(logging.Config{
		Level:     cfg.Logging.Level,
		Format:    cfg.Logging.Format,
		AddSource: cfg.Logging.AddSource,
	})
	ctx := context.Background()

	shutdownTracing, err := observability.InitTracing(ctx, observability.TracingConfig{
		Enabled:     cfg.Tracing.Enabled,
		ServiceName: cfg.Tracing.ServiceName,
		Exporter:    cfg.Tracing.Exporter,
		Endpoint:    cfg.Tracing.Endpoint,
		SampleRatio: cfg.Tracing.SampleRatio,
	}, log)
	if err != nil {
		log.Error(ctx, "tracing init failed", logging.String("error", err.Error()))
		os.Exit(1)
	}
	defer observability.ShutdownWithTimeout(ctx, shutdownTracing, log)

	params := core.Params{
		Schools:    *schools,
		Clinics:    *clinics,
		Microgrids: *microgrids,
		Duration:   *simTime,
		Logger:     log,
	}

	if *scenarioPath != "" {
		f, err := os.Open(*scenarioPath)
		if err != nil {
			log.Error(ctx, "open scenario failed", logging.String("error", err.Error()))
			os.Exit(1)
		}
		scenario, err := core.LoadScenario(f)
		f.Close()
		if err != nil {
			log.Error(ctx, "load scenario failed", logging.String("error", err.Error()))
			os.Exit(1)
		}
		params.Schools = scenario.Schools
		params.Clinics = scenario.Clinics
		params.Microgrids = scenario.Microgrids
		params.Duration = scenario.Duration
		params.LinkClasses = scenario.LinkClasses
		params.Policies = scenario.Policies
		log.Info(ctx, "scenario loaded", logging.String("path", *scenarioPath))
	}

	if cfg.Metrics.Enabled {
		collector, err := observability.NewSimulationCollector(nil)
		if err != nil {
			log.Error(ctx, "metrics init failed", logging.String("error", err.Error()))
			os.Exit(1)
		}
		params.Metrics = collector

		mux := http.NewServeMux()
		mux.Handle("/metrics", collector.Handler())
		go func() {
			if err := http.ListenAndServe(cfg.Metrics.Addr, mux); err != nil {
				log.Warn(ctx, "metrics endpoint failed", logging.String("error", err.Error()))
			}
		}()
		log.Info(ctx, "metrics endpoint up", logging.String("addr", cfg.Metrics.Addr))
	}

	printBanner(params)

	tracer := otel.Tracer("solarwan-simulator")
	runCtx, span := tracer.Start(ctx, "simulation.run")
	span.SetAttributes(
		attribute.Int("sim.schools", params.Schools),
		attribute.Int("sim.clinics", params.Clinics),
		attribute.Int("sim.microgrids", params.Microgrids),
		attribute.String("sim.duration", params.Duration.String()),
	)

	results, err := core.Run(runCtx, params)
	span.End()
	if err != nil {
		log.Error(ctx, "simulation failed", logging.String("error", err.Error()))
		os.Exit(1)
	}

	printReport(results)

	exportPath := cfg.Export.AnimationPath
	if *animPath != "" {
		exportPath = *animPath
	}
	if exportPath != "" {
		if err := anim.WriteFile(exportPath, results.Nodes, results.Links); err != nil {
			log.Error(ctx, "animation export failed", logging.String("error", err.Error()))
			os.Exit(1)
		}
		fmt.Printf("\nGenerated Files:\n")
		fmt.Printf("  Animation: %s\n", exportPath)
	}

	if cfg.Metrics.Enabled && *metricsLinger > 0 {
		log.Info(ctx, "holding metrics endpoint", logging.Any("linger", *metricsLinger))
		time.Sleep(*metricsLinger)
	}
}

func printBanner(p core.Params) {
	fmt.Println()
	fmt.Println("================================================================")
	fmt.Println("   SOLAR ENERGY WAN - Community Electrification System")
	fmt.Println("================================================================")
	fmt.Println("\nConfiguration:")
	fmt.Printf("  Solar-Powered Schools:    %d\n", p.Schools)
	fmt.Printf("  Solar-Powered Clinics:    %d\n", p.Clinics)
	fmt.Printf("  Community Micro-grids:    %d\n", p.Microgrids)
	fmt.Printf("  Simulation Time:          %s\n", p.Duration)
	fmt.Println("================================================================")
	fmt.Println("\nStarting solar energy network simulation...")
}

func printReport(r *core.Results) {
	rep := r.Report

	fmt.Println()
	fmt.Println("================================================================")
	fmt.Println("              SOLAR ENERGY WAN - RESULTS")
	fmt.Println("================================================================")
	fmt.Println("\nNetwork Performance Metrics:")
	fmt.Printf("  Packets Transmitted:      %d\n", rep.TxPackets)
	fmt.Printf("  Packets Received:         %d\n", rep.RxPackets)
	fmt.Printf("  Packets Lost:             %d\n", rep.LostPackets)

	if rep.HasLossRate {
		fmt.Printf("  Packet Loss Rate:         %.4g %%\n", rep.LossRatePct)
		switch rep.LossVerdict {
		case "EXCELLENT":
			fmt.Println("  Status: EXCELLENT - Network is highly reliable")
		case "GOOD":
			fmt.Println("  Status: GOOD - Network performance acceptable")
		default:
			fmt.Println("  Status: NEEDS IMPROVEMENT - Consider upgrading links")
		}
	}

	fmt.Printf("  Network Throughput:       %.4g kbps\n", rep.ThroughputKbps)

	if rep.HasLatency {
		fmt.Printf("  Average Latency:          %.4g ms\n", rep.AvgLatencyMs)
		switch rep.LatencyVerdict {
		case "EXCELLENT":
			fmt.Println("  Latency Status: EXCELLENT - Real-time monitoring possible")
		case "GOOD":
			fmt.Println("  Latency Status: GOOD - Suitable for most applications")
		default:
			fmt.Println("  Latency Status: ACCEPTABLE - May need optimization")
		}
	}

	fmt.Println("\n================================================================")
	fmt.Println("System Components Summary:")
	fmt.Printf("  Solar Schools Connected:     %d\n", r.Schools)
	fmt.Printf("  Health Clinics Connected:    %d\n", r.Clinics)
	fmt.Printf("  Community Micro-grids:       %d\n", r.Microgrids)
	fmt.Printf("  Total Renewable Sites:       %d\n", r.Schools+r.Clinics+r.Microgrids)
	fmt.Printf("  Run ID:                      %s\n", r.RunID)
	fmt.Println("================================================================")
}
