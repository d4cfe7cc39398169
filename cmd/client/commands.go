// cmd/client/commands.go
package main

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/gurkanbulca/taskboard/internal/models"
	"github.com/gurkanbulca/taskboard/internal/repository"
	"github.com/gurkanbulca/taskboard/internal/service"
	"github.com/gurkanbulca/taskboard/internal/view"
)

func passwordFlag(cmd *cobra.Command) string {
	password, _ := cmd.Flags().GetString("password")
	if password == "" {
		password = os.Getenv("TASKBOARD_PASSWORD")
	}
	return password
}

func signUpCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "signup",
		Short: "Create an account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := a.context(cmd)
			defer cancel()

			client, err := a.dial()
			if err != nil {
				return err
			}
			defer client.Close()

			name, _ := cmd.Flags().GetString("name")
			email, _ := cmd.Flags().GetString("email")
			user, err := client.SignUp(ctx, service.SignUpInput{
				Name:     name,
				Email:    email,
				Password: passwordFlag(cmd),
			})
			if err != nil {
				return err
			}

			fmt.Fprintf(a.out, "Account created for %s. Sign in with `taskboard-cli signin --email %s`.\n", user.Name, user.Email)
			return nil
		},
	}

	cmd.Flags().String("name", "", "Display name")
	cmd.Flags().String("email", "", "Email address")
	cmd.Flags().String("password", "", "Password (or TASKBOARD_PASSWORD)")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("email")
	return cmd
}

func signInCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "signin",
		Short: "Sign in and save the session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := a.context(cmd)
			defer cancel()

			client, err := a.dial()
			if err != nil {
				return err
			}
			defer client.Close()

			email, _ := cmd.Flags().GetString("email")
			session, err := client.SignIn(ctx, email, passwordFlag(cmd))
			if err != nil {
				return err
			}
			if err := a.sessions().Save(newSavedSession(a.server, session)); err != nil {
				return err
			}

			fmt.Fprintf(a.out, "Signed in as %s <%s>\n", session.User.Name, session.User.Email)
			return nil
		},
	}

	cmd.Flags().String("email", "", "Email address")
	cmd.Flags().String("password", "", "Password (or TASKBOARD_PASSWORD)")
	_ = cmd.MarkFlagRequired("email")
	return cmd
}

func signOutCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "signout",
		Short: "Revoke the session and forget it",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := a.context(cmd)
			defer cancel()

			store := a.sessions()
			client, sess, err := a.authedClient(ctx)
			if errors.Is(err, errNotSignedIn) {
				fmt.Fprintln(a.out, "Not signed in")
				return nil
			}
			if err != nil {
				return err
			}
			defer client.Close()

			err = client.SignOut(ctx, sess.RefreshToken)
			if err != nil && !errors.Is(err, repository.ErrUnauthenticated) {
				return err
			}
			if err := store.Clear(); err != nil {
				return err
			}

			fmt.Fprintln(a.out, "Signed out")
			return nil
		},
	}
}

func whoAmICmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the signed-in user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := a.context(cmd)
			defer cancel()

			client, _, err := a.authedClient(ctx)
			if err != nil {
				return err
			}
			defer client.Close()

			user, err := client.Me(ctx)
			if err != nil {
				return err
			}
			fmt.Fprintf(a.out, "%s <%s>\n", user.Name, user.Email)
			return nil
		},
	}
}

func boardCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:     "board",
		Aliases: []string{"ls", "list"},
		Short:   "Show your tasks grouped by status",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := a.context(cmd)
			defer cancel()

			client, _, err := a.authedClient(ctx)
			if err != nil {
				return err
			}
			defer client.Close()

			board := view.NewDashboard(client)
			if err := board.Load(ctx); err != nil {
				return err
			}
			renderBoard(a.out, board.Columns())
			return nil
		},
	}
}

func showCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show one task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := a.context(cmd)
			defer cancel()

			client, _, err := a.authedClient(ctx)
			if err != nil {
				return err
			}
			defer client.Close()

			detail := view.NewTaskDetail(client, args[0])
			if err := detail.Load(ctx); err != nil {
				return err
			}
			renderTask(a.out, detail.Task())
			return nil
		},
	}
}

func createCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a task",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			in, err := createInput(cmd)
			if err != nil {
				return err
			}

			ctx, cancel := a.context(cmd)
			defer cancel()

			client, _, err := a.authedClient(ctx)
			if err != nil {
				return err
			}
			defer client.Close()

			board := view.NewDashboard(client)
			task, err := board.CreateTask(ctx, in)
			if err != nil && !errors.Is(err, view.ErrStale) {
				return err
			}
			fmt.Fprintf(a.out, "Created task %s\n", task.ID)
			if err != nil {
				fmt.Fprintln(a.out, "Board could not be refreshed:", err)
			}
			return nil
		},
	}

	cmd.Flags().String("title", "", "Task title")
	cmd.Flags().String("description", "", "Task description")
	cmd.Flags().String("priority", string(models.PriorityMedium), "low, medium or high")
	cmd.Flags().String("due", "", "Due date (YYYY-MM-DD)")
	_ = cmd.MarkFlagRequired("title")
	return cmd
}

func editCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Change a task's fields",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := a.context(cmd)
			defer cancel()

			client, _, err := a.authedClient(ctx)
			if err != nil {
				return err
			}
			defer client.Close()

			detail := view.NewTaskDetail(client, args[0])
			if err := detail.Load(ctx); err != nil {
				return err
			}

			in, err := editInput(cmd, models.InputFromTask(detail.Task()))
			if err != nil {
				return err
			}
			if err := detail.Update(ctx, in); err != nil {
				return err
			}

			renderTask(a.out, detail.Task())
			return nil
		},
	}

	cmd.Flags().String("title", "", "New title")
	cmd.Flags().String("description", "", "New description")
	cmd.Flags().String("priority", "", "low, medium or high")
	cmd.Flags().String("status", "", "pending, in-progress or completed")
	cmd.Flags().String("due", "", "Due date (YYYY-MM-DD)")
	cmd.Flags().Bool("clear-due", false, "Remove the due date")
	return cmd
}

func statusCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "status <id> <pending|in-progress|completed>",
		Short: "Move a task to another status",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			status, err := models.ParseStatus(args[1])
			if err != nil {
				return models.NewValidationError("status", err.Error())
			}

			ctx, cancel := a.context(cmd)
			defer cancel()

			client, _, err := a.authedClient(ctx)
			if err != nil {
				return err
			}
			defer client.Close()

			detail := view.NewTaskDetail(client, args[0])
			if err := detail.Load(ctx); err != nil {
				return err
			}
			if detail.Task().Status == status {
				fmt.Fprintf(a.out, "Task is already %s\n", statusTitle(status))
				return nil
			}
			if err := detail.SetStatus(ctx, status); err != nil {
				return err
			}

			fmt.Fprintf(a.out, "Task %s is now %s\n", args[0], statusTitle(detail.Task().Status))
			return nil
		},
	}
}

func deleteCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:     "delete <id>",
		Aliases: []string{"rm"},
		Short:   "Delete a task",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := a.context(cmd)
			defer cancel()

			client, _, err := a.authedClient(ctx)
			if err != nil {
				return err
			}
			defer client.Close()

			if err := view.NewTaskDetail(client, args[0]).Delete(ctx); err != nil {
				return err
			}
			fmt.Fprintf(a.out, "Deleted task %s\n", args[0])
			return nil
		},
	}
}

// createInput builds the create form. New tasks always start pending.
func createInput(cmd *cobra.Command) (models.TaskInput, error) {
	title, _ := cmd.Flags().GetString("title")
	description, _ := cmd.Flags().GetString("description")

	in := models.TaskInput{
		Title:       title,
		Description: description,
		Status:      models.StatusPending,
		Priority:    models.PriorityMedium,
	}

	if raw, _ := cmd.Flags().GetString("priority"); raw != "" {
		priority, err := models.ParsePriority(raw)
		if err != nil {
			return in, models.NewValidationError("priority", err.Error())
		}
		in.Priority = priority
	}

	if raw, _ := cmd.Flags().GetString("due"); raw != "" {
		due, err := models.ParseDate(&raw)
		if err != nil {
			return in, models.NewValidationError("dueDate", err.Error())
		}
		in.DueDate = due
	}

	return in.Normalize(), nil
}

// editInput overlays the flags the user set on the task's current fields
func editInput(cmd *cobra.Command, in models.TaskInput) (models.TaskInput, error) {
	flags := cmd.Flags()

	if flags.Changed("title") {
		in.Title, _ = flags.GetString("title")
	}
	if flags.Changed("description") {
		in.Description, _ = flags.GetString("description")
	}
	if flags.Changed("priority") {
		raw, _ := flags.GetString("priority")
		priority, err := models.ParsePriority(strings.TrimSpace(raw))
		if err != nil {
			return in, models.NewValidationError("priority", err.Error())
		}
		in.Priority = priority
	}
	if flags.Changed("status") {
		raw, _ := flags.GetString("status")
		status, err := models.ParseStatus(strings.TrimSpace(raw))
		if err != nil {
			return in, models.NewValidationError("status", err.Error())
		}
		in.Status = status
	}

	clearDue, _ := flags.GetBool("clear-due")
	switch {
	case clearDue && flags.Changed("due"):
		return in, models.NewValidationError("dueDate", "--due and --clear-due are mutually exclusive")
	case clearDue:
		in.DueDate = nil
	case flags.Changed("due"):
		raw, _ := flags.GetString("due")
		due, err := models.ParseDate(&raw)
		if err != nil {
			return in, models.NewValidationError("dueDate", err.Error())
		}
		in.DueDate = due
	}

	return in, nil
}
