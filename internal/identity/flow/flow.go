package flow

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/rankstage/rankstage/internal/pkg/clock"
	"go.uber.org/atomic"
)

// State is the controller's position in the verification workflow.
type State int

const (
	StateIdle State = iota
	StateRequesting
	StateIssued
	StateVerifying
	StateVerified
)

func (s State) String() string {
	switch s {
	case StateRequesting:
		return "requesting"
	case StateIssued:
		return "issued"
	case StateVerifying:
		return "verifying"
	case StateVerified:
		return "verified"
	default:
		return "idle"
	}
}

// Notifier surfaces user-facing messages (a toast abstraction). Failures are
// reported here and via slog; controller methods never panic.
type Notifier interface {
	Notify(ctx context.Context, message string)
}

type noopNotifier struct{}

func (noopNotifier) Notify(context.Context, string) {}

const (
	defaultMaxAttempts = 5
	codeLength         = 6
)

// Controller drives the email verification step of a multi-step form:
// request a challenge, count down its expiry, submit candidate codes and
// expose a verified flag downstream steps gate on. All state is local; the
// token itself is the only tie to the server.
type Controller struct {
	client      Client
	notifier    Notifier
	clock       clock.Clocker
	maxAttempts int

	// gen invalidates in-flight work: results carrying an older generation
	// are discarded.
	gen       atomic.Int64
	remaining atomic.Int64

	mu        sync.Mutex
	state     State
	resending bool
	email     string
	token     string
	expiresAt time.Time
	pin       string
	attempts  int

	// identity bound at the moment of a successful verification
	boundEmail    string
	boundPassword string
	obsEmail      string
	obsPassword   string
}

type Option func(*Controller)

func WithNotifier(n Notifier) Option {
	return func(c *Controller) { c.notifier = n }
}

func WithClock(clk clock.Clocker) Option {
	return func(c *Controller) { c.clock = clk }
}

func WithMaxAttempts(n int) Option {
	return func(c *Controller) {
		if n > 0 {
			c.maxAttempts = n
		}
	}
}

func New(client Client, opts ...Option) *Controller {
	c := &Controller{
		client:      client,
		notifier:    noopNotifier{},
		clock:       clock.New(),
		maxAttempts: defaultMaxAttempts,
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// RequestCode asks the issuer for a fresh challenge. It reports false when a
// request or verification is already in flight, and on issuer failure.
func (c *Controller) RequestCode(ctx context.Context, email, requestType, name string) bool {
	c.mu.Lock()
	if c.state == StateRequesting || c.state == StateVerifying {
		c.mu.Unlock()
		return false
	}

	c.resending = c.token != ""
	c.state = StateRequesting
	gen := c.gen.Add(1)
	c.mu.Unlock()

	result, err := c.client.Generate(ctx, GenerateRequest{
		Email:       email,
		RequestType: requestType,
		Name:        name,
	})

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.gen.Load() != gen {
		// A reset or newer request superseded this one.
		return false
	}

	if err != nil {
		slog.ErrorContext(ctx, "flow: challenge request failed", "error", err)
		c.notifier.Notify(ctx, "Could not send the verification code. Please try again.")
		c.state = StateIdle
		c.resending = false
		return false
	}

	c.email = email
	c.token = result.Token
	c.expiresAt = result.ExpiresAt
	c.pin = ""
	c.attempts = 0
	c.state = StateIssued
	c.resending = false

	c.updateRemaining()
	go c.countdown(gen)

	return true
}

// Verify submits a candidate code. Without a token, or with a code shorter
// than six digits, it rejects locally and makes no network call.
func (c *Controller) Verify(ctx context.Context, code string) bool {
	c.mu.Lock()
	if c.token == "" || c.state == StateRequesting || c.state == StateVerifying {
		c.mu.Unlock()
		return false
	}
	if len(code) < codeLength {
		c.mu.Unlock()
		c.notifier.Notify(ctx, "Enter the 6-digit code from the email.")
		return false
	}

	email := c.email
	token := c.token
	c.state = StateVerifying
	gen := c.gen.Load()
	c.mu.Unlock()

	valid, err := c.client.Verify(ctx, VerifyRequest{Email: email, OTP: code, Token: token})

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.gen.Load() != gen {
		return false
	}

	if err != nil {
		slog.ErrorContext(ctx, "flow: verification request failed", "error", err)
		c.notifier.Notify(ctx, "Could not verify the code. Please try again.")
		c.state = StateIssued
		return false
	}

	if valid {
		c.pin = code
		c.state = StateVerified
		c.boundEmail = c.obsEmail
		c.boundPassword = c.obsPassword
		if c.boundEmail == "" {
			c.boundEmail = email
		}
		return true
	}

	c.attempts++

	if c.remaining.Load() <= 0 {
		c.reset()
		c.notifier.Notify(ctx, "The code expired. Please request a new one.")
		return false
	}

	if c.attempts >= c.maxAttempts {
		c.reset()
		c.notifier.Notify(ctx, "Too many wrong attempts. Please request a new code.")
		return false
	}

	c.state = StateIssued
	c.notifier.Notify(ctx, "That code is not correct.")
	return false
}

// Observe records the identity the surrounding form currently holds. Once
// verified, any change of the identity bound at verification time wipes the
// state: re-verification is mandatory before proceeding.
func (c *Controller) Observe(email, password string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.obsEmail = email
	c.obsPassword = password

	if c.state == StateVerified && (email != c.boundEmail || password != c.boundPassword) {
		c.reset()
	}
}

// Reset wipes token, pin, expiry and flags, returning the controller to idle.
func (c *Controller) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.reset()
}

// reset requires c.mu held.
func (c *Controller) reset() {
	c.gen.Add(1)
	c.remaining.Store(0)
	c.state = StateIdle
	c.resending = false
	c.token = ""
	c.expiresAt = time.Time{}
	c.pin = ""
	c.attempts = 0
	c.boundEmail = ""
	c.boundPassword = ""
}

func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

func (c *Controller) Verified() bool {
	return c.State() == StateVerified
}

// Pin returns the committed code after a successful verification.
func (c *Controller) Pin() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.pin
}

// Remaining reports the advisory countdown in whole seconds. The server
// enforces the real expiry at verification time.
func (c *Controller) Remaining() int64 {
	return c.remaining.Load()
}

// Resending reports whether the in-flight request is a resend, for UI
// labeling only.
func (c *Controller) Resending() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.resending
}

func (c *Controller) updateRemaining() {
	left := c.expiresAt.Sub(c.clock.Now()).Milliseconds() / 1000
	if left < 0 {
		left = 0
	}
	c.remaining.Store(left)
}

// countdown ticks once a second until expiry or until a newer generation
// takes over.
func (c *Controller) countdown(gen int64) {
	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	for range ticker.C {
		if c.gen.Load() != gen {
			return
		}

		c.mu.Lock()
		c.updateRemaining()
		left := c.remaining.Load()
		c.mu.Unlock()

		if left <= 0 {
			return
		}
	}
}
