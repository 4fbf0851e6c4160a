package provision

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type call struct {
	name string
	args []string
}

// fakeRunner records commands and answers from a canned script.
type fakeRunner struct {
	calls   []call
	outputs map[string]string // matched by substring of the full command line
	failOn  string            // command line substring that returns an error
}

func (f *fakeRunner) Run(_ context.Context, name string, args ...string) (string, error) {
	f.calls = append(f.calls, call{name: name, args: args})

	line := name + " " + strings.Join(args, " ")
	if f.failOn != "" && strings.Contains(line, f.failOn) {
		return "", fmt.Errorf("exit status 1")
	}
	for key, out := range f.outputs {
		if strings.Contains(line, key) {
			return out, nil
		}
	}
	return "", nil
}

func (f *fakeRunner) commandLines() []string {
	lines := make([]string, 0, len(f.calls))
	for _, c := range f.calls {
		lines = append(lines, c.name+" "+strings.Join(c.args, " "))
	}
	return lines
}

func testPaths(t *testing.T) Paths {
	root := t.TempDir()
	p := Paths{
		ConfigDir:  filepath.Join(root, "etc", "webgarden"),
		NginxAvail: filepath.Join(root, "nginx", "sites-available"),
		NginxLive:  filepath.Join(root, "nginx", "sites-enabled"),
		SystemdDir: filepath.Join(root, "systemd"),
		BinaryPath: "/usr/local/bin/webgarden-server",
	}
	require.NoError(t, os.MkdirAll(p.NginxAvail, 0o755))
	require.NoError(t, os.MkdirAll(p.NginxLive, 0o755))
	require.NoError(t, os.MkdirAll(p.SystemdDir, 0o755))
	return p
}

func testRequest() Request {
	return Request{
		Site:       "florist",
		Domain:     "florist.example.com",
		Port:       8041,
		DBPassword: "s3cret-pw",
	}
}

func TestRequestValidation(t *testing.T) {
	p := New(&fakeRunner{}, testPaths(t), nil)

	t.Run("rejects site names unsafe for sql and paths", func(t *testing.T) {
		for _, site := range []string{"", "Florist", "bad-name", "a", "1site", "x; DROP TABLE"} {
			req := testRequest()
			req.Site = site
			assert.Error(t, p.Provision(context.Background(), req), "site %q", site)
		}
	})

	t.Run("rejects missing domain", func(t *testing.T) {
		req := testRequest()
		req.Domain = ""
		assert.Error(t, p.Provision(context.Background(), req))
	})

	t.Run("rejects privileged or invalid ports", func(t *testing.T) {
		for _, port := range []int{0, 80, 70000} {
			req := testRequest()
			req.Port = port
			assert.Error(t, p.Provision(context.Background(), req))
		}
	})

	t.Run("rejects empty db password", func(t *testing.T) {
		req := testRequest()
		req.DBPassword = ""
		assert.Error(t, p.Provision(context.Background(), req))
	})
}

func TestEnsureDatabase(t *testing.T) {
	t.Run("creates role and database when absent", func(t *testing.T) {
		runner := &fakeRunner{}
		p := New(runner, testPaths(t), nil)

		require.NoError(t, p.EnsureDatabase(context.Background(), testRequest()))

		lines := strings.Join(runner.commandLines(), "\n")
		assert.Contains(t, lines, "CREATE ROLE florist LOGIN PASSWORD 's3cret-pw'")
		assert.Contains(t, lines, "CREATE DATABASE florist OWNER florist")
	})

	t.Run("skips existing role and database", func(t *testing.T) {
		runner := &fakeRunner{outputs: map[string]string{
			"pg_roles":    "1\n",
			"pg_database": "1\n",
		}}
		p := New(runner, testPaths(t), nil)

		require.NoError(t, p.EnsureDatabase(context.Background(), testRequest()))

		lines := strings.Join(runner.commandLines(), "\n")
		assert.NotContains(t, lines, "CREATE ROLE")
		assert.NotContains(t, lines, "CREATE DATABASE")
	})

	t.Run("escapes single quotes in the password", func(t *testing.T) {
		runner := &fakeRunner{}
		p := New(runner, testPaths(t), nil)

		req := testRequest()
		req.DBPassword = "it's"
		require.NoError(t, p.EnsureDatabase(context.Background(), req))

		assert.Contains(t, strings.Join(runner.commandLines(), "\n"), "PASSWORD 'it''s'")
	})
}

func TestWriteSiteConfig(t *testing.T) {
	t.Run("renders config with database credentials", func(t *testing.T) {
		paths := testPaths(t)
		p := New(&fakeRunner{}, paths, nil)

		require.NoError(t, p.WriteSiteConfig(testRequest()))

		data, err := os.ReadFile(filepath.Join(paths.ConfigDir, "florist", "config.toml"))
		require.NoError(t, err)

		content := string(data)
		assert.Contains(t, content, `domain = "florist.example.com"`)
		assert.Contains(t, content, `password = "s3cret-pw"`)
		assert.Contains(t, content, "port = 8041")
	})

	t.Run("does not overwrite an existing config", func(t *testing.T) {
		paths := testPaths(t)
		p := New(&fakeRunner{}, paths, nil)

		dir := filepath.Join(paths.ConfigDir, "florist")
		require.NoError(t, os.MkdirAll(dir, 0o755))
		existing := filepath.Join(dir, "config.toml")
		require.NoError(t, os.WriteFile(existing, []byte("# hand edited\n"), 0o600))

		require.NoError(t, p.WriteSiteConfig(testRequest()))

		data, err := os.ReadFile(existing)
		require.NoError(t, err)
		assert.Equal(t, "# hand edited\n", string(data))
	})
}

func TestConfigureNginx(t *testing.T) {
	t.Run("writes server block, links it and reloads", func(t *testing.T) {
		paths := testPaths(t)
		runner := &fakeRunner{}
		p := New(runner, paths, nil)

		require.NoError(t, p.ConfigureNginx(context.Background(), testRequest()))

		data, err := os.ReadFile(filepath.Join(paths.NginxAvail, "florist"))
		require.NoError(t, err)
		assert.Contains(t, string(data), "server_name florist.example.com;")
		assert.Contains(t, string(data), "proxy_pass http://127.0.0.1:8041;")

		link, err := os.Readlink(filepath.Join(paths.NginxLive, "florist"))
		require.NoError(t, err)
		assert.Equal(t, filepath.Join(paths.NginxAvail, "florist"), link)

		lines := runner.commandLines()
		assert.Contains(t, lines, "nginx -t")
		assert.Contains(t, lines, "systemctl reload nginx")
	})

	t.Run("second run leaves existing block and symlink alone", func(t *testing.T) {
		paths := testPaths(t)
		p := New(&fakeRunner{}, paths, nil)

		require.NoError(t, p.ConfigureNginx(context.Background(), testRequest()))
		require.NoError(t, p.ConfigureNginx(context.Background(), testRequest()))
	})

	t.Run("fails fast when nginx rejects the config", func(t *testing.T) {
		paths := testPaths(t)
		runner := &fakeRunner{failOn: "nginx -t"}
		p := New(runner, paths, nil)

		err := p.ConfigureNginx(context.Background(), testRequest())
		require.Error(t, err)
		assert.NotContains(t, runner.commandLines(), "systemctl reload nginx")
	})
}

func TestConfigureSystemd(t *testing.T) {
	paths := testPaths(t)
	runner := &fakeRunner{}
	p := New(runner, paths, nil)

	require.NoError(t, p.ConfigureSystemd(context.Background(), testRequest()))

	data, err := os.ReadFile(filepath.Join(paths.SystemdDir, "webgarden-florist.service"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "Description=WebGarden site florist")
	assert.Contains(t, string(data), "ExecStart=/usr/local/bin/webgarden-server")

	lines := runner.commandLines()
	assert.Contains(t, lines, "systemctl daemon-reload")
	assert.Contains(t, lines, "systemctl enable --now webgarden-florist.service")
}

func TestProvisionSequence(t *testing.T) {
	t.Run("runs certbot only when tls requested", func(t *testing.T) {
		paths := testPaths(t)
		runner := &fakeRunner{}
		p := New(runner, paths, nil)

		require.NoError(t, p.Provision(context.Background(), testRequest()))
		assert.NotContains(t, strings.Join(runner.commandLines(), "\n"), "certbot")

		runner2 := &fakeRunner{}
		p2 := New(runner2, testPaths(t), nil)
		req := testRequest()
		req.TLS = true
		require.NoError(t, p2.Provision(context.Background(), req))
		assert.Contains(t, strings.Join(runner2.commandLines(), "\n"),
			"certbot --nginx -d florist.example.com")
	})

	t.Run("stops at the first failing step", func(t *testing.T) {
		paths := testPaths(t)
		runner := &fakeRunner{failOn: "CREATE ROLE"}
		p := New(runner, paths, nil)

		err := p.Provision(context.Background(), testRequest())
		require.Error(t, err)

		_, statErr := os.Stat(filepath.Join(paths.ConfigDir, "florist", "config.toml"))
		assert.True(t, os.IsNotExist(statErr), "config must not be written after db failure")
	})
}
