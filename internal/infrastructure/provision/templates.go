package provision

import (
	"bytes"
	"text/template"
)

var siteConfigTemplate = template.Must(template.New("config").Parse(`[app]
name = "{{.Site}}"
environment = "production"

[site]
name = "{{.Site}}"
domain = "{{.Domain}}"

[database]
driver = "postgres"
host = "localhost"
port = 5432
user = "{{.Site}}"
password = "{{.DBPassword}}"
name = "{{.Site}}"
sslmode = "disable"

[http]
host = "127.0.0.1"
port = {{.Port}}

[session]
secure = true

[upload]
dir = "/var/lib/webgarden/{{.Site}}/uploads"
`))

var nginxSiteTemplate = template.Must(template.New("nginx").Parse(`server {
    listen 80;
    server_name {{.Domain}};

    client_max_body_size 16m;

    location /static/ {
        alias /var/lib/webgarden/{{.Site}}/static/;
        expires 30d;
    }

    location /uploads/ {
        alias /var/lib/webgarden/{{.Site}}/uploads/;
        expires 7d;
    }

    location / {
        proxy_pass http://127.0.0.1:{{.Port}};
        proxy_set_header Host $host;
        proxy_set_header X-Real-IP $remote_addr;
        proxy_set_header X-Forwarded-For $proxy_add_x_forwarded_for;
        proxy_set_header X-Forwarded-Proto $scheme;
    }
}
`))

var systemdUnitTemplate = template.Must(template.New("systemd").Parse(`[Unit]
Description=WebGarden site {{.Site}}
After=network.target postgresql.service

[Service]
Type=simple
User=www-data
Group=www-data
WorkingDirectory={{.ConfigDir}}/{{.Site}}
ExecStart={{.BinaryPath}}
Restart=on-failure
RestartSec=5

[Install]
WantedBy=multi-user.target
`))

func renderSiteConfig(req Request) ([]byte, error) {
	var buf bytes.Buffer
	if err := siteConfigTemplate.Execute(&buf, req); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func renderNginxSite(req Request, _ Paths) ([]byte, error) {
	var buf bytes.Buffer
	if err := nginxSiteTemplate.Execute(&buf, req); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func renderSystemdUnit(req Request, paths Paths) ([]byte, error) {
	data := struct {
		Request
		ConfigDir  string
		BinaryPath string
	}{req, paths.ConfigDir, paths.BinaryPath}

	var buf bytes.Buffer
	if err := systemdUnitTemplate.Execute(&buf, data); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
