package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	portalrender "github.com/bnema/tronclass-cli/internal/adapters/render/portal"
	"github.com/spf13/cobra"
)

func newTodosCmd(app *app) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "todos",
		Short: "List pending to-do items",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return app.withSession(cmd, func(ctx context.Context, ps *portalSession) error {
				todos, err := ps.api.Todos(ctx)
				if err != nil {
					return err
				}
				if asJSON {
					return writeJSON(cmd.OutOrStdout(), todos)
				}
				return writeRendered(cmd, func() (string, error) {
					return app.render.todos(todos, portalrender.RenderOptions{Now: app.now()})
				})
			})
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Render JSON output")

	return cmd
}

func newCoursesCmd(app *app) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "courses",
		Short: "List enrolled courses",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return app.withSession(cmd, func(ctx context.Context, ps *portalSession) error {
				courses, err := ps.api.MyCourses(ctx)
				if err != nil {
					return err
				}
				if asJSON {
					return writeJSON(cmd.OutOrStdout(), courses)
				}
				return writeRendered(cmd, func() (string, error) {
					return app.render.courses(courses)
				})
			})
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Render JSON output")

	return cmd
}

func newRecentCmd(app *app) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "recent",
		Short: "List recently visited courses",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return app.withSession(cmd, func(ctx context.Context, ps *portalSession) error {
				courses, err := ps.api.RecentlyVisitedCourses(ctx)
				if err != nil {
					return err
				}
				if asJSON {
					return writeJSON(cmd.OutOrStdout(), courses)
				}
				return writeRendered(cmd, func() (string, error) {
					return app.render.recent(courses)
				})
			})
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Render JSON output")

	return cmd
}

func newHomeworkCmd(app *app) *cobra.Command {
	var courseID int64
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "homework",
		Short: "List homework activities of a course",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if courseID <= 0 {
				return fmt.Errorf("--course must be a positive course id")
			}
			return app.withSession(cmd, func(ctx context.Context, ps *portalSession) error {
				activities, err := ps.api.HomeworkActivities(ctx, courseID)
				if err != nil {
					return err
				}
				if asJSON {
					return writeJSON(cmd.OutOrStdout(), activities)
				}
				return writeRendered(cmd, func() (string, error) {
					return app.render.homework(courseID, activities, portalrender.RenderOptions{Now: app.now()})
				})
			})
		},
	}

	cmd.Flags().Int64Var(&courseID, "course", 0, "Course ID")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Render JSON output")
	_ = cmd.MarkFlagRequired("course")

	return cmd
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func writeRendered(cmd *cobra.Command, render func() (string, error)) error {
	rendered, err := render()
	if err != nil {
		return fmt.Errorf("render output: %w", err)
	}

	_, err = fmt.Fprintln(cmd.OutOrStdout(), rendered)
	return err
}
