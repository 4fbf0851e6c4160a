// Package provision automates setup of a new site deployment: its database
// role and database, site configuration file, nginx server block, systemd
// unit, and optionally a TLS certificate. Each step checks for existing
// resources before creating them and the sequence stops at the first
// failure. There is no rollback; operator cleanup is the recovery path.
package provision

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"regexp"
	"strings"

	"go.uber.org/zap"
)

// Runner executes external commands. It exists so tests can record
// invocations without touching the host system.
type Runner interface {
	Run(ctx context.Context, name string, args ...string) (string, error)
}

// ExecRunner runs commands via os/exec.
type ExecRunner struct{}

func (ExecRunner) Run(ctx context.Context, name string, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, name, args...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		msg := strings.TrimSpace(stderr.String())
		if msg == "" {
			msg = strings.TrimSpace(stdout.String())
		}
		return stdout.String(), fmt.Errorf("%s: %w: %s", name, err, msg)
	}
	return stdout.String(), nil
}

// Request describes the site to provision.
type Request struct {
	Site       string // short site name, used for db role, unit and file names
	Domain     string // public domain served by nginx
	Port       int    // local port the site binary listens on
	DBPassword string // password for the site's database role
	TLS        bool   // obtain a certificate via certbot after nginx is up
}

// Paths holds the host locations written during provisioning.
// Zero values fall back to the standard Debian/Ubuntu layout.
type Paths struct {
	ConfigDir  string // site config files, default /etc/webgarden
	NginxAvail string // default /etc/nginx/sites-available
	NginxLive  string // default /etc/nginx/sites-enabled
	SystemdDir string // default /etc/systemd/system
	BinaryPath string // site server binary, default /usr/local/bin/webgarden-server
}

func (p *Paths) applyDefaults() {
	if p.ConfigDir == "" {
		p.ConfigDir = "/etc/webgarden"
	}
	if p.NginxAvail == "" {
		p.NginxAvail = "/etc/nginx/sites-available"
	}
	if p.NginxLive == "" {
		p.NginxLive = "/etc/nginx/sites-enabled"
	}
	if p.SystemdDir == "" {
		p.SystemdDir = "/etc/systemd/system"
	}
	if p.BinaryPath == "" {
		p.BinaryPath = "/usr/local/bin/webgarden-server"
	}
}

// Provisioner runs the provisioning sequence for one site.
type Provisioner struct {
	runner Runner
	paths  Paths
	logger *zap.Logger
}

func New(runner Runner, paths Paths, logger *zap.Logger) *Provisioner {
	if runner == nil {
		runner = ExecRunner{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	paths.applyDefaults()

	return &Provisioner{
		runner: runner,
		paths:  paths,
		logger: logger,
	}
}

var siteNamePattern = regexp.MustCompile(`^[a-z][a-z0-9_]{1,31}$`)

func (r Request) validate() error {
	if !siteNamePattern.MatchString(r.Site) {
		return fmt.Errorf("provision: invalid site name %q (lowercase letters, digits, underscore, 2-32 chars)", r.Site)
	}
	if r.Domain == "" {
		return fmt.Errorf("provision: domain is required")
	}
	if r.Port < 1024 || r.Port > 65535 {
		return fmt.Errorf("provision: port must be between 1024 and 65535")
	}
	if r.DBPassword == "" {
		return fmt.Errorf("provision: database password is required")
	}
	return nil
}

// Provision runs the full sequence: database, config file, nginx,
// systemd unit, then TLS when requested. It stops at the first error.
func (p *Provisioner) Provision(ctx context.Context, req Request) error {
	if err := req.validate(); err != nil {
		return err
	}

	if err := p.EnsureDatabase(ctx, req); err != nil {
		return err
	}
	if err := p.WriteSiteConfig(req); err != nil {
		return err
	}
	if err := p.ConfigureNginx(ctx, req); err != nil {
		return err
	}
	if err := p.ConfigureSystemd(ctx, req); err != nil {
		return err
	}
	if req.TLS {
		if err := p.EnableTLS(ctx, req); err != nil {
			return err
		}
	}

	p.logger.Info("site provisioned",
		zap.String("site", req.Site),
		zap.String("domain", req.Domain),
		zap.Int("port", req.Port))
	return nil
}

// EnsureDatabase creates the site's database role and database unless
// they already exist. Runs as the postgres superuser via sudo.
func (p *Provisioner) EnsureDatabase(ctx context.Context, req Request) error {
	roleExists, err := p.pgExists(ctx,
		fmt.Sprintf("SELECT 1 FROM pg_roles WHERE rolname = '%s'", req.Site))
	if err != nil {
		return fmt.Errorf("provision: check role: %w", err)
	}

	if roleExists {
		p.logger.Info("database role already exists, skipping", zap.String("role", req.Site))
	} else {
		stmt := fmt.Sprintf("CREATE ROLE %s LOGIN PASSWORD '%s'",
			req.Site, strings.ReplaceAll(req.DBPassword, "'", "''"))
		if _, err := p.psql(ctx, stmt); err != nil {
			return fmt.Errorf("provision: create role: %w", err)
		}
		p.logger.Info("database role created", zap.String("role", req.Site))
	}

	dbExists, err := p.pgExists(ctx,
		fmt.Sprintf("SELECT 1 FROM pg_database WHERE datname = '%s'", req.Site))
	if err != nil {
		return fmt.Errorf("provision: check database: %w", err)
	}

	if dbExists {
		p.logger.Info("database already exists, skipping", zap.String("database", req.Site))
		return nil
	}

	if _, err := p.psql(ctx, fmt.Sprintf("CREATE DATABASE %s OWNER %s", req.Site, req.Site)); err != nil {
		return fmt.Errorf("provision: create database: %w", err)
	}
	p.logger.Info("database created", zap.String("database", req.Site))
	return nil
}

func (p *Provisioner) psql(ctx context.Context, stmt string) (string, error) {
	return p.runner.Run(ctx, "sudo", "-u", "postgres", "psql", "-v", "ON_ERROR_STOP=1", "-c", stmt)
}

func (p *Provisioner) pgExists(ctx context.Context, query string) (bool, error) {
	out, err := p.runner.Run(ctx, "sudo", "-u", "postgres", "psql", "-tAc", query)
	if err != nil {
		return false, err
	}
	return strings.TrimSpace(out) == "1", nil
}

// WriteSiteConfig renders the site's config file unless one exists.
func (p *Provisioner) WriteSiteConfig(req Request) error {
	dir := filepath.Join(p.paths.ConfigDir, req.Site)
	path := filepath.Join(dir, "config.toml")

	if _, err := os.Stat(path); err == nil {
		p.logger.Info("site config already exists, skipping", zap.String("path", path))
		return nil
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("provision: create config dir: %w", err)
	}

	content, err := renderSiteConfig(req)
	if err != nil {
		return fmt.Errorf("provision: render config: %w", err)
	}

	// 0600: the file carries the database password
	if err := os.WriteFile(path, content, 0o600); err != nil {
		return fmt.Errorf("provision: write config: %w", err)
	}

	p.logger.Info("site config written", zap.String("path", path))
	return nil
}

// ConfigureNginx renders the server block, enables it and reloads nginx.
// The rendered config is validated with nginx -t before reload.
func (p *Provisioner) ConfigureNginx(ctx context.Context, req Request) error {
	avail := filepath.Join(p.paths.NginxAvail, req.Site)
	live := filepath.Join(p.paths.NginxLive, req.Site)

	if _, err := os.Stat(avail); err == nil {
		p.logger.Info("nginx server block already exists, skipping render", zap.String("path", avail))
	} else {
		content, err := renderNginxSite(req, p.paths)
		if err != nil {
			return fmt.Errorf("provision: render nginx config: %w", err)
		}
		if err := os.WriteFile(avail, content, 0o644); err != nil {
			return fmt.Errorf("provision: write nginx config: %w", err)
		}
		p.logger.Info("nginx server block written", zap.String("path", avail))
	}

	if _, err := os.Lstat(live); os.IsNotExist(err) {
		if err := os.Symlink(avail, live); err != nil {
			return fmt.Errorf("provision: enable nginx site: %w", err)
		}
	}

	if out, err := p.runner.Run(ctx, "nginx", "-t"); err != nil {
		return fmt.Errorf("provision: nginx config test failed: %w: %s", err, strings.TrimSpace(out))
	}
	if _, err := p.runner.Run(ctx, "systemctl", "reload", "nginx"); err != nil {
		return fmt.Errorf("provision: reload nginx: %w", err)
	}
	return nil
}

// ConfigureSystemd renders the site's unit file, then enables and starts it.
func (p *Provisioner) ConfigureSystemd(ctx context.Context, req Request) error {
	unit := fmt.Sprintf("webgarden-%s.service", req.Site)
	path := filepath.Join(p.paths.SystemdDir, unit)

	if _, err := os.Stat(path); err == nil {
		p.logger.Info("systemd unit already exists, skipping render", zap.String("path", path))
	} else {
		content, err := renderSystemdUnit(req, p.paths)
		if err != nil {
			return fmt.Errorf("provision: render systemd unit: %w", err)
		}
		if err := os.WriteFile(path, content, 0o644); err != nil {
			return fmt.Errorf("provision: write systemd unit: %w", err)
		}
		p.logger.Info("systemd unit written", zap.String("path", path))
	}

	if _, err := p.runner.Run(ctx, "systemctl", "daemon-reload"); err != nil {
		return fmt.Errorf("provision: systemd daemon-reload: %w", err)
	}
	if _, err := p.runner.Run(ctx, "systemctl", "enable", "--now", unit); err != nil {
		return fmt.Errorf("provision: enable unit %s: %w", unit, err)
	}
	return nil
}

// EnableTLS obtains a certificate for the domain via certbot's nginx plugin.
func (p *Provisioner) EnableTLS(ctx context.Context, req Request) error {
	_, err := p.runner.Run(ctx, "certbot", "--nginx",
		"-d", req.Domain,
		"--non-interactive",
		"--agree-tos",
		"--register-unsafely-without-email",
		"--redirect")
	if err != nil {
		return fmt.Errorf("provision: certbot: %w", err)
	}
	p.logger.Info("tls certificate obtained", zap.String("domain", req.Domain))
	return nil
}
