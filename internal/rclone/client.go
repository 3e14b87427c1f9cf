package rclone

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/cryptd777/linuxcloudsync/internal/shared"
)

// DefaultCommandTimeout bounds short management commands (version, listremotes).
const DefaultCommandTimeout = 10 * time.Second

// Providers the connect wizard knows how to create remotes for.
// The key is the remote name written to rclone.conf, the value the rclone
// backend type.
var Providers = map[string]string{
	"gdrive":   "drive",
	"onedrive": "onedrive",
}

// Client runs rclone commands against a managed configuration file.
type Client struct {
	binary         string
	configPath     string
	commandTimeout time.Duration
	logger         *log.Logger
}

// ClientOpts contains configuration options for creating a Client.
type ClientOpts struct {
	Binary         string // path to rclone; searched in PATH when empty
	ConfigPath     string // rclone.conf location, exported as RCLONE_CONFIG
	CommandTimeout time.Duration
	Logger         *log.Logger
}

// NewClient locates the rclone binary and returns a Client bound to the
// managed config file.
func NewClient(opts ClientOpts) (*Client, error) {
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.CommandTimeout <= 0 {
		opts.CommandTimeout = DefaultCommandTimeout
	}

	binary := opts.Binary
	if binary == "" {
		found, err := exec.LookPath("rclone")
		if err != nil {
			return nil, fmt.Errorf("%w: not in PATH", shared.ErrEngineNotFound)
		}
		binary = found
	} else {
		info, err := os.Stat(binary)
		if err != nil {
			return nil, fmt.Errorf("%w: %s", shared.ErrEngineNotFound, binary)
		}
		if info.Mode().Perm()&0o111 == 0 {
			// Bundled binaries may lose the execute bit when unpacked
			if err := os.Chmod(binary, 0o755); err != nil {
				return nil, fmt.Errorf("%w: %s is not executable", shared.ErrEngineNotFound, binary)
			}
		}
	}

	return &Client{
		binary:         binary,
		configPath:     opts.ConfigPath,
		commandTimeout: opts.CommandTimeout,
		logger:         opts.Logger,
	}, nil
}

// Binary returns the resolved rclone binary path.
func (c *Client) Binary() string { return c.binary }

// ConfigPath returns the managed rclone.conf location.
func (c *Client) ConfigPath() string { return c.configPath }

// Env returns the process environment with RCLONE_CONFIG pointing at the
// managed config file.
func (c *Client) Env() []string {
	env := os.Environ()
	if c.configPath != "" {
		env = append(env, "RCLONE_CONFIG="+c.configPath)
	}
	return env
}

// Version returns the first line of `rclone version` output.
func (c *Client) Version(ctx context.Context) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.commandTimeout)
	defer cancel()

	out, err := c.run(ctx, "version")
	if err != nil {
		return "", err
	}

	line, _, _ := strings.Cut(strings.TrimSpace(out), "\n")
	return line, nil
}

// ListRemotes returns the names of all configured remotes, colons included
// (e.g. "gdrive:").
func (c *Client) ListRemotes(ctx context.Context) ([]string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.commandTimeout)
	defer cancel()

	out, err := c.run(ctx, "listremotes")
	if err != nil {
		return nil, err
	}

	var remotes []string
	for _, line := range strings.Split(out, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			remotes = append(remotes, line)
		}
	}
	return remotes, nil
}

// ConfigCreate drives `rclone config create <name> <backend>` interactively.
//
// rclone owns the OAuth consent flow: it opens the provider's browser page
// and writes the resulting token to the managed config itself. Stdin/stdout
// stay attached to the terminal so the user can answer its prompts.
func (c *Client) ConfigCreate(ctx context.Context, name, backend string) error {
	cmd := exec.CommandContext(ctx, c.binary, "config", "create", name, backend)
	cmd.Env = c.Env()
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	if err := cmd.Run(); err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			return fmt.Errorf("%w: config create", shared.ErrTimeout)
		}
		return fmt.Errorf("%w: config create %s: %v", shared.ErrEngineFailed, name, err)
	}
	return nil
}

// SizeReport is the parsed output of `rclone size --json`.
type SizeReport struct {
	Count int64 `json:"count"`
	Bytes int64 `json:"bytes"`
}

// Size reports object count and total bytes for a remote path.
func (c *Client) Size(ctx context.Context, remote string) (*SizeReport, error) {
	if err := ValidateRemote(remote); err != nil {
		return nil, err
	}

	out, err := c.run(ctx, "size", remote, "--json")
	if err != nil {
		return nil, err
	}

	var report SizeReport
	if err := json.Unmarshal([]byte(out), &report); err != nil {
		return nil, fmt.Errorf("failed to parse size output: %w", err)
	}
	return &report, nil
}

// run executes a short rclone command and returns combined stdout.
func (c *Client) run(ctx context.Context, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, c.binary, args...)
	cmd.Env = c.Env()

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	c.logger.Debug("running rclone", "args", args)

	if err := cmd.Run(); err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			return "", fmt.Errorf("%w: rclone %s", shared.ErrTimeout, args[0])
		}
		msg := strings.TrimSpace(stderr.String())
		if msg == "" {
			msg = err.Error()
		}
		return "", fmt.Errorf("%w: %s: %s", shared.ErrEngineFailed, args[0], msg)
	}

	return stdout.String(), nil
}
