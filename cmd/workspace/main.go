// Command workspace is a terminal client for the component generation API:
// auth, session management, and an interactive generation loop with
// autosave.
package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/mcg-platform/componentgen/internal/client"
	"github.com/mcg-platform/componentgen/internal/domain"
	"github.com/mcg-platform/componentgen/internal/llm"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var serverURL string

func dataDir() string {
	base, err := os.UserConfigDir()
	if err != nil {
		base = "."
	}
	return filepath.Join(base, "componentgen")
}

func tokenPath() string {
	return filepath.Join(dataDir(), "token")
}

func newService() *client.Service {
	svc := client.NewService(serverURL)
	if data, err := os.ReadFile(tokenPath()); err == nil {
		svc.SetAuthToken(strings.TrimSpace(string(data)))
	}
	return svc
}

func saveToken(token string) error {
	if err := os.MkdirAll(dataDir(), 0o700); err != nil {
		return err
	}
	return os.WriteFile(tokenPath(), []byte(token), 0o600)
}

func promptPassword(label string) (string, error) {
	fmt.Print(label)
	pw, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Println()
	if err != nil {
		return "", err
	}
	return string(pw), nil
}

func newLoginCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "login <email>",
		Short: "Authenticate against the API",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			password, err := promptPassword("Password: ")
			if err != nil {
				return err
			}

			svc := newService()
			if err := svc.Login(cmd.Context(), domain.UserLogin{
				Email:    args[0],
				Password: password,
			}); err != nil {
				return err
			}

			if err := saveToken(svc.AuthToken()); err != nil {
				return err
			}
			fmt.Println("Logged in.")
			return nil
		},
	}
}

func newSignupCmd() *cobra.Command {
	var name string

	cmd := &cobra.Command{
		Use:   "signup <email>",
		Short: "Create an account",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			password, err := promptPassword("Password: ")
			if err != nil {
				return err
			}

			svc := newService()
			if err := svc.Signup(cmd.Context(), domain.UserSignup{
				Name:     name,
				Email:    args[0],
				Password: password,
			}); err != nil {
				return err
			}

			if err := saveToken(svc.AuthToken()); err != nil {
				return err
			}
			fmt.Println("Account created.")
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "display name")
	cmd.MarkFlagRequired("name")
	return cmd
}

func newLogoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Clear the stored credentials",
		RunE: func(cmd *cobra.Command, args []string) error {
			svc := newService()
			if err := svc.Logout(cmd.Context()); err != nil {
				fmt.Fprintf(os.Stderr, "warning: server logout failed: %v\n", err)
			}
			return os.Remove(tokenPath())
		},
	}
}

func newSessionsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sessions",
		Short: "Manage stored sessions",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List sessions, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			sessions, err := newService().ListSessions(cmd.Context())
			if err != nil {
				return err
			}
			for _, s := range sessions {
				fmt.Printf("%s  %-20s  %-40s  %d turns  %s\n",
					s.ID.Hex(), llm.ComponentName(s.CurrentJSX), s.Prompt,
					len(s.ChatMessages), s.CreatedAt.Format("2006-01-02 15:04"))
			}
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "show <id>",
		Short: "Print a session transcript",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			session, err := newService().GetSession(cmd.Context(), args[0])
			if err != nil {
				if errors.Is(err, domain.ErrNotFound) {
					return fmt.Errorf("session %s not found", args[0])
				}
				return err
			}
			for _, turn := range session.ChatMessages {
				role := "assistant"
				if turn.IsUser() {
					role = "user"
				}
				fmt.Printf("[%s] %s\n", role, turn.Text())
			}
			if session.CurrentJSX != "" {
				fmt.Printf("\n--- current component ---\n%s\n", session.CurrentJSX)
			}
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a session",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			session, err := newService().DeleteSession(cmd.Context(), args[0])
			if err != nil {
				if errors.Is(err, domain.ErrNotFound) {
					return fmt.Errorf("session %s not found", args[0])
				}
				return err
			}
			fmt.Printf("Deleted session %s (%s)\n", session.ID.Hex(), session.Prompt)
			return nil
		},
	})

	return cmd
}

func newChatCmd() *cobra.Command {
	var interval = client.DefaultAutosaveInterval

	cmd := &cobra.Command{
		Use:   "chat",
		Short: "Interactive generation loop with autosave",
		RunE: func(cmd *cobra.Command, args []string) error {
			svc := newService()
			state := client.NewState(client.NewFileMirror(dataDir()))
			ws := client.NewWorkspace(svc, state)

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			if err := ws.Restore(ctx); err != nil {
				fmt.Fprintf(os.Stderr, "warning: restore failed: %v\n", err)
			}

			saver := client.NewAutosaver(ws, interval)
			saverDone := make(chan struct{})
			go func() {
				saver.Run(ctx)
				close(saverDone)
			}()

			if active := state.Active(); active != nil {
				fmt.Printf("Resuming session: %s\n", active.Prompt)
			} else {
				fmt.Println(client.Greeting)
			}

			scanner := bufio.NewScanner(os.Stdin)
			for {
				fmt.Print("> ")
				if !scanner.Scan() {
					break
				}
				prompt := strings.TrimSpace(scanner.Text())
				if prompt == "" {
					continue
				}
				if prompt == "exit" || prompt == "quit" {
					break
				}

				session, err := ws.Generate(ctx, prompt)
				if err != nil {
					fmt.Fprintf(os.Stderr, "Error generating component: %v\n", err)
					continue
				}
				fmt.Printf("\n%s\n", session.CurrentJSX)
			}

			stop()
			<-saverDone
			return scanner.Err()
		},
	}

	cmd.Flags().DurationVar(&interval, "autosave-interval", interval, "autosave cadence")
	return cmd
}

func main() {
	root := &cobra.Command{
		Use:           "workspace",
		Short:         "Terminal client for the component generation API",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().StringVar(&serverURL, "server", "http://localhost:8080", "API base URL")

	root.AddCommand(
		newLoginCmd(),
		newSignupCmd(),
		newLogoutCmd(),
		newSessionsCmd(),
		newChatCmd(),
	)

	if err := root.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
