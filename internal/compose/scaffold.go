package compose

import (
	"fmt"
	"os"
	"path/filepath"
)

// DefaultComposeYAML is the stock single-node stack written by
// `chstack init`. It matches what the lifecycle commands expect: one
// clickhouse service, HTTP on 8123, native protocol on 9000, replication
// on 9009, data on a named volume, and file-descriptor limits raised to
// what ClickHouse recommends.
const DefaultComposeYAML = `services:
  clickhouse:
    image: clickhouse/clickhouse-server:latest
    container_name: clickhouse
    restart: unless-stopped
    ports:
      - "8123:8123"
      - "9000:9000"
      - "9009:9009"
    env_file:
      - .env
    volumes:
      - clickhouse_data:/var/lib/clickhouse
    ulimits:
      nofile:
        soft: 262144
        hard: 262144

volumes:
  clickhouse_data:
`

// DefaultEnv is the environment file template written by `chstack init`.
// The values here are development defaults; replace them before exposing
// the ports beyond localhost.
const DefaultEnv = `CLICKHOUSE_USER=clickhouse
CLICKHOUSE_PASSWORD=clickhouse
CLICKHOUSE_DB=default
CLICKHOUSE_DEFAULT_ACCESS_MANAGEMENT=1
`

// Scaffold writes the default compose file and .env into dir. Existing
// files are left untouched unless force is set.
func Scaffold(dir string, force bool) error {
	files := map[string]string{
		DefaultFile: DefaultComposeYAML,
		".env":      DefaultEnv,
	}

	for name, content := range files {
		path := filepath.Join(dir, name)
		if !force {
			if _, err := os.Stat(path); err == nil {
				return fmt.Errorf("%s already exists (use --force to overwrite)", path)
			}
		}
		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			return fmt.Errorf("failed to write %s: %w", name, err)
		}
	}

	return nil
}
