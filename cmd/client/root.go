// cmd/client/root.go
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/gurkanbulca/taskboard/internal/repository"
	"github.com/gurkanbulca/taskboard/internal/transport/grpcapi"
)

// app carries the global flags shared by every command
type app struct {
	out       io.Writer
	server    string
	timeout   time.Duration
	configDir string
	now       func() time.Time
}

func newRootCmd(out io.Writer) *cobra.Command {
	a := &app{out: out, now: time.Now}

	rootCmd := &cobra.Command{
		Use:           "taskboard-cli",
		Short:         "Taskboard - personal task board client",
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.SetOut(out)

	rootCmd.PersistentFlags().StringVar(&a.server, "server", envOr("TASKBOARD_SERVER", "localhost:50051"), "gRPC server address")
	rootCmd.PersistentFlags().DurationVar(&a.timeout, "timeout", 10*time.Second, "Per-command timeout")
	rootCmd.PersistentFlags().StringVar(&a.configDir, "config-dir", envOr("TASKBOARD_CONFIG_DIR", defaultConfigDir()), "Directory holding the saved session")

	// Add subcommands
	rootCmd.AddCommand(signUpCmd(a))
	rootCmd.AddCommand(signInCmd(a))
	rootCmd.AddCommand(signOutCmd(a))
	rootCmd.AddCommand(whoAmICmd(a))
	rootCmd.AddCommand(boardCmd(a))
	rootCmd.AddCommand(showCmd(a))
	rootCmd.AddCommand(createCmd(a))
	rootCmd.AddCommand(editCmd(a))
	rootCmd.AddCommand(statusCmd(a))
	rootCmd.AddCommand(deleteCmd(a))

	return rootCmd
}

func envOr(key, defaultValue string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultValue
}

func (a *app) sessions() *sessionStore {
	return newSessionStore(a.configDir)
}

func (a *app) context(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithTimeout(ctx, a.timeout)
}

func (a *app) dial() (*grpcapi.Client, error) {
	client, err := grpcapi.Dial(a.server)
	if err != nil {
		return nil, fmt.Errorf("connect to %s: %w", a.server, err)
	}
	return client, nil
}

// authedClient loads the saved session, refreshes it when the access token is
// about to expire, and returns a client that sends the token.
func (a *app) authedClient(ctx context.Context) (*grpcapi.Client, *savedSession, error) {
	store := a.sessions()
	sess, err := store.Load()
	if err != nil {
		return nil, nil, err
	}
	if sess.Server != "" && sess.Server != a.server {
		return nil, nil, fmt.Errorf("saved session belongs to %s: sign in again", sess.Server)
	}

	client, err := a.dial()
	if err != nil {
		return nil, nil, err
	}

	now := a.now()
	if sess.needsRefresh(now) {
		if !sess.canRefresh(now) {
			_ = client.Close()
			_ = store.Clear()
			return nil, nil, errNotSignedIn
		}

		refreshed, err := client.Refresh(ctx, sess.RefreshToken)
		if err != nil {
			_ = client.Close()
			if errors.Is(err, repository.ErrUnauthenticated) {
				_ = store.Clear()
				return nil, nil, errNotSignedIn
			}
			return nil, nil, err
		}
		sess = newSavedSession(a.server, refreshed)
		if err := store.Save(sess); err != nil {
			_ = client.Close()
			return nil, nil, err
		}
	}

	return client.WithToken(sess.AccessToken), sess, nil
}
