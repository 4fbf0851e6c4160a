package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/webgarden/platform/internal/infrastructure/config"
	"github.com/webgarden/platform/internal/infrastructure/logger"
	"github.com/webgarden/platform/internal/infrastructure/provision"
)

func main() {
	var (
		tls        bool
		configDir  string
		binaryPath string
		logLevel   string
	)

	flag.BoolVar(&tls, "tls", false, "Obtain a TLS certificate via certbot after nginx is configured")
	flag.StringVar(&configDir, "config-dir", "", "Site config directory (default: /etc/webgarden)")
	flag.StringVar(&binaryPath, "binary", "", "Site server binary (default: /usr/local/bin/webgarden-server)")
	flag.StringVar(&logLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	flag.Parse()

	args := flag.Args()
	if len(args) != 4 {
		printUsage()
		os.Exit(1)
	}

	port, err := strconv.Atoi(args[2])
	if err != nil || port <= 0 || port > 65535 {
		fmt.Fprintf(os.Stderr, "Invalid port %q\n", args[2])
		os.Exit(1)
	}

	log := logger.New(config.LogConfig{
		Level:  logLevel,
		Format: "console",
		Output: "stdout",
	})
	defer func() {
		_ = log.Sync()
	}()

	req := provision.Request{
		Site:       args[0],
		Domain:     args[1],
		Port:       port,
		DBPassword: args[3],
		TLS:        tls,
	}

	log.Info("Provisioning site",
		zap.String("site", req.Site),
		zap.String("domain", req.Domain),
		zap.Int("port", req.Port),
		zap.Bool("tls", req.TLS),
	)

	p := provision.New(provision.ExecRunner{}, provision.Paths{
		ConfigDir:  configDir,
		BinaryPath: binaryPath,
	}, log)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	if err := p.Provision(ctx, req); err != nil {
		log.Fatal("Provisioning failed", zap.Error(err))
	}

	log.Info("Site provisioned", zap.String("domain", req.Domain))
}

func printUsage() {
	fmt.Println(`WebGarden Site Provisioning Tool

Creates the database role and database, writes the site config,
configures nginx and systemd, and optionally requests a certificate.
Steps already applied are skipped, so the tool is safe to re-run.

Usage:
  provision [flags] <site> <domain> <port> <db-password>

Example:
  provision -tls rosewood rosewood-landscaping.com 8031 's3cret'

Flags:
  -tls                Request a TLS certificate via certbot
  -config-dir string  Site config directory (default: /etc/webgarden)
  -binary string      Site server binary path
  -log-level string   Log level (default: info)`)
}
