package tests

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	tcredis "github.com/testcontainers/testcontainers-go/modules/redis"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/rankstage/rankstage/internal/app"
)

var realBaseURL string
var httpClient = &http.Client{Timeout: 10 * time.Second}
var mailSink *smtpSink

func baseURL() string {
	return realBaseURL
}

type successEnvelope struct {
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Meta    map[string]any  `json:"meta"`
}

type errorEnvelope struct {
	Message string            `json:"message"`
	Error   map[string]string `json:"error"`
}

// configTemplate is filled with the postgres DSN, the redis URL and the mail
// sink address. Everything else points at addresses nothing listens on; those
// clients connect lazily and the suite never exercises them.
const configTemplate = `app:
  tz: UTC
  maintenance:
    endpoints: []
  server:
    max_goroutine: 100
    cors:
      - http://localhost:3000
    http:
      address: 127.0.0.1:0
      read_timeout_seconds: 15
      read_header_timeout_seconds: 5
      write_timeout_seconds: 15
      idle_timeout_seconds: 60

instrument:
  service_name: rankstage-tests
  service_version: 0.0.0
  env: test
  otlp_endpoint: 127.0.0.1:4317
  otlp_secure: false
  trace_sample_ratio: 0
  metric_interval_seconds: 300
  log_mask_fields:
    - password
    - new_password
    - current_password
    - otp

hash:
  bcrypt:
    cost: %d
    pepper: %s

otp:
  digits: 6
  ttl_minutes: 10
  secret: %s

jwt:
  secret: real-tests-jwt-secret
  issuer: rankstage
  audiences:
    - rankstage-web
  ttl_minutes: 60

database:
  url: %s
  pool:
    max_conns: 5
    min_conns: 1
    max_conn_lifetime_seconds: 1800
    max_conn_idle_seconds: 300
    health_check_period_seconds: 60

redis:
  url: %s

mail:
  host: %s
  port: %d
  username: ""
  password: ""
  from: no-reply@rankstage.io

storage:
  driver: minio
  minio:
    region: us-east-1
    endpoint: 127.0.0.1:9000
    access_key: minioadmin
    secret_key: minioadmin
    session_token: ""
    use_ssl: false

messaging:
  driver: nsq
  nsq:
    producer_addr: 127.0.0.1:4150
    consumer_nsqd_addrs:
      - 127.0.0.1:4150
    consumer_lookupd_addrs: []
    producer_config:
      max_in_flight: 10
      dial_timeout_seconds: 1
      read_timeout_seconds: 60
      write_timeout_seconds: 1
    consumer_config:
      max_in_flight: 10
      max_attempts: 5
      lookupd_poll_interval_seconds: 15
      dial_timeout_seconds: 1
      read_timeout_seconds: 60
      write_timeout_seconds: 1
      default_requeue_delay_seconds: 30
      max_requeue_delay_seconds: 900

modules:
  identity:
    enabled: true
    avatar_bucket: rankstage-avatars
    avatar_base_url: http://127.0.0.1:9000/rankstage-avatars
    avatar_max_size_bytes: 2097152
  domains:
    enabled: true
  notification:
    enabled: true
    consumer_names: []
`

func TestMain(m *testing.M) {
	os.Exit(run(m))
}

// run owns the container lifecycle so the deferred teardown still fires
// before the process exits.
func run(m *testing.M) int {
	ctx := context.Background()

	pgContainer, err := tcpostgres.Run(ctx, "postgres:16-alpine",
		tcpostgres.WithDatabase("rankstage"),
		tcpostgres.WithUsername("rankstage"),
		tcpostgres.WithPassword("rankstage"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(90*time.Second),
		),
	)
	if err != nil {
		fmt.Fprintf(os.Stderr, "real tests require docker. failed to start postgres: %v\n", err)
		return 1
	}
	defer func() {
		if err := pgContainer.Terminate(ctx); err != nil {
			fmt.Fprintf(os.Stderr, "failed to terminate postgres: %v\n", err)
		}
	}()

	redisContainer, err := tcredis.Run(ctx, "redis:7-alpine")
	if err != nil {
		fmt.Fprintf(os.Stderr, "real tests require docker. failed to start redis: %v\n", err)
		return 1
	}
	defer func() {
		if err := redisContainer.Terminate(ctx); err != nil {
			fmt.Fprintf(os.Stderr, "failed to terminate redis: %v\n", err)
		}
	}()

	dsn, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to resolve postgres dsn: %v\n", err)
		return 1
	}

	redisURL, err := redisContainer.ConnectionString(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to resolve redis url: %v\n", err)
		return 1
	}

	mailSink, err = startSMTPSink()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to start mail sink: %v\n", err)
		return 1
	}
	defer mailSink.Close()

	if err := prepareDatabase(ctx, dsn); err != nil {
		fmt.Fprintf(os.Stderr, "failed to prepare database: %v\n", err)
		return 1
	}

	cfgPath := filepath.Join(os.TempDir(), fmt.Sprintf("rankstage-tests-%d.yaml", os.Getpid()))
	cfg := fmt.Sprintf(configTemplate,
		testBcryptCost, testBcryptPepper, testOTPSecret,
		dsn, redisURL, mailSink.Host(), mailSink.Port(),
	)
	if err := os.WriteFile(cfgPath, []byte(cfg), 0o600); err != nil {
		fmt.Fprintf(os.Stderr, "failed to write config: %v\n", err)
		return 1
	}
	defer os.Remove(cfgPath)
	os.Setenv("CONFIG_PATH", cfgPath)

	application := app.New()

	listener, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to open listener: %v\n", err)
		return 1
	}
	application.Serve(listener)
	realBaseURL = "http://" + listener.Addr().String()

	resp, err := httpClient.Get(realBaseURL + "/")
	if err != nil {
		fmt.Fprintf(os.Stderr, "server did not come up at %s: %v\n", realBaseURL, err)
		return 1
	}
	io.Copy(io.Discard, resp.Body)
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		fmt.Fprintf(os.Stderr, "unexpected status %d from %s\n", resp.StatusCode, realBaseURL)
		return 1
	}

	code := m.Run()

	stopCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	application.Stop(stopCtx)
	cancel()

	return code
}

func doJSON(t *testing.T, method, path string, payload any, token string) (int, []byte) {
	t.Helper()

	var body io.Reader
	if payload != nil {
		buf := &bytes.Buffer{}
		if err := json.NewEncoder(buf).Encode(payload); err != nil {
			t.Fatalf("encode json: %v", err)
		}
		body = buf
	}

	req, err := http.NewRequest(method, strings.TrimRight(baseURL(), "/")+path, body)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := httpClient.Do(req)
	if err != nil {
		t.Fatalf("do request: %v", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read response: %v", err)
	}

	return resp.StatusCode, respBody
}

func decodeSuccess(t *testing.T, body []byte, out any) successEnvelope {
	t.Helper()

	var env successEnvelope
	if err := json.Unmarshal(body, &env); err != nil {
		t.Fatalf("decode success envelope: %v", err)
	}
	if out != nil && len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, out); err != nil {
			t.Fatalf("decode success data: %v", err)
		}
	}

	return env
}

func decodeError(t *testing.T, body []byte) errorEnvelope {
	t.Helper()

	var env errorEnvelope
	if err := json.Unmarshal(body, &env); err != nil {
		t.Fatalf("decode error envelope: %v", err)
	}

	return env
}
