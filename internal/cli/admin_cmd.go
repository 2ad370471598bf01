package cli

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/nsda/portal/internal/model"
	"github.com/nsda/portal/internal/view"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

func newAdminCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "admin",
		Short: "Admin dashboard (requires the admin role)",
	}

	cmd.AddCommand(newAdminTasksCmd(a))
	cmd.AddCommand(newSubmissionsCmd(a))
	cmd.AddCommand(newGradeCmd(a))
	cmd.AddCommand(newAdminAnnouncementsCmd(a))
	cmd.AddCommand(newAdminResourcesCmd(a))
	cmd.AddCommand(newAdminAttendanceCmd(a))
	cmd.AddCommand(newStudentsCmd(a))
	cmd.AddCommand(newOverviewCmd(a))

	return cmd
}

func newAdminTasksCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tasks",
		Short: "Manage tasks",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List tasks with submission counts",
		Args:  cobra.NoArgs,
		RunE: a.guarded("/admin/tasks", func(cmd *cobra.Command, _ []string) error {
			catalog := view.NewTaskCatalog(a.svc.Tasks, a.log)
			defer catalog.Dispose()
			catalog.Mount(cmd.Context())
			snap := catalog.Snapshot()
			if err := loaded(snap.State, snap.Err); err != nil {
				return err
			}
			return render(cmd, snap.Items, func(w io.Writer) { printAdminTasks(w, snap.Items) })
		}),
	})

	var (
		req       model.CreateTaskRequest
		resources []string
	)
	create := &cobra.Command{
		Use:   "create",
		Short: "Publish a new task",
		Example: `  portal admin tasks create --title "Go basics" --description "Finish the tour" \
    --deadline 2026-11-01 --resource "Tour=https://go.dev/tour"`,
		Args: cobra.NoArgs,
		RunE: a.guarded("/admin/tasks", func(cmd *cobra.Command, _ []string) error {
			parsed, err := parseResources(resources)
			if err != nil {
				return err
			}
			req.Resources = parsed

			catalog := view.NewTaskCatalog(a.svc.Tasks, a.log)
			defer catalog.Dispose()
			catalog.Mount(cmd.Context())
			snap := catalog.Snapshot()
			if err := loaded(snap.State, snap.Err); err != nil {
				return err
			}
			m, err := catalog.Create(cmd.Context(), "", req)
			task, err := created(catalog.List, m, err, "task")
			if err != nil {
				return err
			}
			return render(cmd, task, func(w io.Writer) {
				_, _ = fmt.Fprintf(w, "Task %q created (id %s).\n", task.Title, task.ID)
			})
		}),
	}
	create.Flags().StringVar(&req.Title, "title", "", "Task title")
	create.Flags().StringVar(&req.Description, "description", "", "Task description")
	create.Flags().StringVar(&req.Deadline, "deadline", "", "Deadline (YYYY-MM-DD)")
	create.Flags().StringVar(&req.EstimatedTime, "estimated-time", "", "Estimated effort, e.g. \"3 hours\"")
	create.Flags().StringArrayVar(&resources, "resource", nil, "Attached resource as title=url[=category] (repeatable)")
	cmd.AddCommand(create)

	return cmd
}

// created returns the entity a create reconciled into l. A failed create
// keeps its draft in l, so the error carries the mutation outcome.
func created[T any](l *view.List[T], m view.Mutation, err error, what string) (T, error) {
	var zero T
	if err != nil {
		return zero, fmt.Errorf("create %s (%s): %w", what, strings.ToLower(m.Status.String()), err)
	}
	item, ok := l.Find(m.ID)
	if !ok {
		return zero, fmt.Errorf("create %s: %s missing from view", what, m.ID)
	}
	return item, nil
}

// parseResources turns title=url[=category] flags into task resources.
func parseResources(specs []string) ([]model.TaskResource, error) {
	out := make([]model.TaskResource, 0, len(specs))
	for _, s := range specs {
		parts := strings.SplitN(s, "=", 3)
		if len(parts) < 2 || parts[0] == "" || parts[1] == "" {
			return nil, fmt.Errorf("invalid --resource %q: use title=url[=category]", s)
		}
		r := model.TaskResource{Title: parts[0], Link: parts[1]}
		if len(parts) == 3 {
			r.Category = parts[2]
		}
		out = append(out, r)
	}
	return out, nil
}

func mountQueue(a *app, cmd *cobra.Command, taskID string) (*view.SubmissionQueue, error) {
	q := view.NewSubmissionQueue(a.svc.Tasks, taskID, a.log)
	q.Mount(cmd.Context())
	snap := q.Snapshot()
	if err := loaded(snap.State, snap.Err); err != nil {
		q.Dispose()
		return nil, err
	}
	return q, nil
}

func newSubmissionsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "submissions <task-id>",
		Short: "List submissions for a task",
		Args:  cobra.ExactArgs(1),
		RunE: a.guarded("/admin/tasks", func(cmd *cobra.Command, args []string) error {
			q, err := mountQueue(a, cmd, args[0])
			if err != nil {
				return err
			}
			defer q.Dispose()
			items := q.Items()
			return render(cmd, items, func(w io.Writer) {
				printSubmissions(w, items)
				_, _ = fmt.Fprintf(w, "\n%d awaiting a grade\n", q.PendingCount())
			})
		}),
	}
}

func newGradeCmd(a *app) *cobra.Command {
	var req model.GradeRequest

	cmd := &cobra.Command{
		Use:   "grade <task-id> <student-id>",
		Short: "Grade a student's submission",
		Args:  cobra.ExactArgs(2),
		RunE: a.guarded("/admin/tasks", func(cmd *cobra.Command, args []string) error {
			q, err := mountQueue(a, cmd, args[0])
			if err != nil {
				return err
			}
			defer q.Dispose()

			if _, err := q.Grade(cmd.Context(), args[1], req); err != nil {
				if errors.Is(err, view.ErrNotFound) {
					return fmt.Errorf("no submission from student %s for task %s", args[1], args[0])
				}
				return err
			}
			sub, _ := q.Find(args[1])
			return render(cmd, sub, func(w io.Writer) {
				_, _ = fmt.Fprintf(w, "Graded %s: %s\n", orDash(sub.StudentName), sub.Grade)
			})
		}),
	}

	cmd.Flags().StringVar(&req.FinalGrade, "grade", "", "Final grade (required)")
	cmd.Flags().StringVar(&req.AdminFeedback, "feedback", "", "Feedback for the student")
	_ = cmd.MarkFlagRequired("grade")
	return cmd
}

func newAdminAnnouncementsCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "announcements",
		Short: "Manage announcements",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List announcements",
		Args:  cobra.NoArgs,
		RunE: a.guarded("/admin/announcements", func(cmd *cobra.Command, _ []string) error {
			return listAnnouncements(a, cmd)
		}),
	})

	bindForm := func(c *cobra.Command, req *model.AnnouncementRequest) {
		c.Flags().StringVar(&req.Title, "title", "", "Title")
		c.Flags().StringVar(&req.Message, "message", "", "Message body")
		c.Flags().StringVar((*string)(&req.Category), "category", string(model.CategoryNormal), "Category: urgent, warning, info, normal")
	}

	var createReq model.AnnouncementRequest
	create := &cobra.Command{
		Use:   "create",
		Short: "Publish an announcement",
		Args:  cobra.NoArgs,
		RunE: a.guarded("/admin/announcements", func(cmd *cobra.Command, _ []string) error {
			feed := view.NewAnnouncementFeed(a.svc.Announcements, a.log)
			defer feed.Dispose()
			feed.Mount(cmd.Context())
			snap := feed.Snapshot()
			if err := loaded(snap.State, snap.Err); err != nil {
				return err
			}
			m, err := feed.Create(cmd.Context(), "", createReq)
			ann, err := created(feed.List, m, err, "announcement")
			if err != nil {
				return err
			}
			return render(cmd, ann, func(w io.Writer) {
				_, _ = fmt.Fprintf(w, "Announcement %q published (id %s).\n", ann.Title, ann.ID)
			})
		}),
	}
	bindForm(create, &createReq)
	cmd.AddCommand(create)

	var updateReq model.AnnouncementRequest
	update := &cobra.Command{
		Use:   "update <id>",
		Short: "Edit an announcement",
		Args:  cobra.ExactArgs(1),
		RunE: a.guarded("/admin/announcements", func(cmd *cobra.Command, args []string) error {
			feed := view.NewAnnouncementFeed(a.svc.Announcements, a.log)
			defer feed.Dispose()
			feed.Mount(cmd.Context())
			snap := feed.Snapshot()
			if err := loaded(snap.State, snap.Err); err != nil {
				return err
			}
			current, ok := feed.Find(args[0])
			if !ok {
				return fmt.Errorf("announcement %s not found", args[0])
			}
			req := model.AnnouncementRequest{Title: current.Title, Message: current.Message, Category: current.Category}
			if cmd.Flags().Changed("title") {
				req.Title = updateReq.Title
			}
			if cmd.Flags().Changed("message") {
				req.Message = updateReq.Message
			}
			if cmd.Flags().Changed("category") {
				req.Category = updateReq.Category
			}
			if _, err := feed.Update(cmd.Context(), args[0], req); err != nil {
				return err
			}
			updated, _ := feed.Find(args[0])
			return render(cmd, updated, func(w io.Writer) {
				_, _ = fmt.Fprintf(w, "Announcement %s updated.\n", args[0])
			})
		}),
	}
	bindForm(update, &updateReq)
	cmd.AddCommand(update)

	cmd.AddCommand(&cobra.Command{
		Use:   "delete <id>",
		Short: "Delete an announcement",
		Args:  cobra.ExactArgs(1),
		RunE: a.guarded("/admin/announcements", func(cmd *cobra.Command, args []string) error {
			feed := view.NewAnnouncementFeed(a.svc.Announcements, a.log)
			defer feed.Dispose()
			feed.Mount(cmd.Context())
			snap := feed.Snapshot()
			if err := loaded(snap.State, snap.Err); err != nil {
				return err
			}
			m, err := feed.Delete(cmd.Context(), args[0])
			if errors.Is(err, view.ErrNotFound) {
				return fmt.Errorf("announcement %s not found", args[0])
			}
			if err != nil {
				return fmt.Errorf("delete announcement %s (%s): %w", args[0], strings.ToLower(m.Status.String()), err)
			}
			return printOK(cmd, fmt.Sprintf("Announcement %s deleted.", args[0]), map[string]string{"id": args[0]})
		}),
	})

	return cmd
}

func newAdminResourcesCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "resources",
		Short: "Manage learning resources",
	}

	mount := func(cmd *cobra.Command) (*view.ResourceShelf, error) {
		shelf := view.NewResourceShelf(a.svc.Resources, a.log)
		shelf.Mount(cmd.Context())
		snap := shelf.Snapshot()
		if err := loaded(snap.State, snap.Err); err != nil {
			shelf.Dispose()
			return nil, err
		}
		return shelf, nil
	}

	var category string
	list := &cobra.Command{
		Use:   "list",
		Short: "List resources",
		Args:  cobra.NoArgs,
		RunE: a.guarded("/admin/resources", func(cmd *cobra.Command, _ []string) error {
			shelf, err := mount(cmd)
			if err != nil {
				return err
			}
			defer shelf.Dispose()
			items := shelf.Items()
			if category != "" {
				filtered := items[:0]
				for _, r := range items {
					if strings.EqualFold(r.Category, category) {
						filtered = append(filtered, r)
					}
				}
				items = filtered
			}
			return render(cmd, items, func(w io.Writer) { printResources(w, items) })
		}),
	}
	list.Flags().StringVar(&category, "category", "", "Only show this category")
	cmd.AddCommand(list)

	var req model.ResourceRequest
	create := &cobra.Command{
		Use:   "create",
		Short: "Add a resource",
		Args:  cobra.NoArgs,
		RunE: a.guarded("/admin/resources", func(cmd *cobra.Command, _ []string) error {
			shelf, err := mount(cmd)
			if err != nil {
				return err
			}
			defer shelf.Dispose()
			m, err := shelf.Create(cmd.Context(), "", req)
			r, err := created(shelf.List, m, err, "resource")
			if err != nil {
				return err
			}
			return render(cmd, r, func(w io.Writer) {
				_, _ = fmt.Fprintf(w, "Resource %q added (id %s).\n", r.Name, r.ID)
			})
		}),
	}
	create.Flags().StringVar(&req.Name, "name", "", "Resource name")
	create.Flags().StringVar(&req.Link, "link", "", "Resource URL")
	create.Flags().StringVar(&req.Category, "category", "", "Category, e.g. Go, Docker")
	cmd.AddCommand(create)

	cmd.AddCommand(&cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a resource",
		Args:  cobra.ExactArgs(1),
		RunE: a.guarded("/admin/resources", func(cmd *cobra.Command, args []string) error {
			shelf, err := mount(cmd)
			if err != nil {
				return err
			}
			defer shelf.Dispose()
			if _, err := shelf.Delete(cmd.Context(), args[0]); err != nil {
				if errors.Is(err, view.ErrNotFound) {
					return fmt.Errorf("resource %s not found", args[0])
				}
				return err
			}
			return printOK(cmd, fmt.Sprintf("Resource %s deleted.", args[0]), map[string]string{"id": args[0]})
		}),
	})

	return cmd
}

func newAdminAttendanceCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "attendance",
		Short: "Attendance across all users",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "all",
		Short: "List every attendance record",
		Args:  cobra.NoArgs,
		RunE: a.guarded("/admin/attendance", func(cmd *cobra.Command, _ []string) error {
			board := view.NewAttendanceBoard(a.svc.Attendance, true, a.log)
			defer board.Dispose()
			board.Mount(cmd.Context())
			snap := board.Snapshot()
			if err := loaded(snap.State, snap.Err); err != nil {
				return err
			}
			return render(cmd, snap.All, func(w io.Writer) { printAttendance(w, snap.All, true) })
		}),
	})

	return cmd
}

func newStudentsCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "students",
		Short: "Manage the student roster",
	}

	mount := func(cmd *cobra.Command) (*view.Roster, error) {
		r := view.NewRoster(a.svc.Students, a.log)
		r.Mount(cmd.Context())
		snap := r.Snapshot()
		if err := loaded(snap.State, snap.Err); err != nil {
			r.Dispose()
			return nil, err
		}
		return r, nil
	}

	var q view.RosterQuery
	list := &cobra.Command{
		Use:   "list",
		Short: "List students",
		Args:  cobra.NoArgs,
		RunE: a.guarded("/admin/students", func(cmd *cobra.Command, _ []string) error {
			r, err := mount(cmd)
			if err != nil {
				return err
			}
			defer r.Dispose()
			students := r.Filtered(q)
			return render(cmd, students, func(w io.Writer) { printStudents(w, students) })
		}),
	}
	list.Flags().StringVar(&q.Search, "search", "", "Match name or email")
	list.Flags().StringVar((*string)(&q.Status), "status", "", "Active, Inactive or Blacklisted")
	list.Flags().StringVar(&q.Track, "track", "", "Only this track")
	cmd.AddCommand(list)

	bindForm := func(c *cobra.Command, req *model.StudentRequest) {
		c.Flags().StringVar(&req.Name, "name", "", "Full name")
		c.Flags().StringVar(&req.Email, "email", "", "Email")
		c.Flags().StringVar(&req.Phone, "phone", "", "Phone")
		c.Flags().StringVar(&req.Track, "track", "", "Learning track")
		c.Flags().StringVar((*string)(&req.Status), "status", "", "Active, Inactive or Blacklisted")
		c.Flags().StringVar(&req.Notes, "notes", "", "Notes")
	}

	var createReq model.StudentRequest
	create := &cobra.Command{
		Use:   "create",
		Short: "Add a student",
		Args:  cobra.NoArgs,
		RunE: a.guarded("/admin/students", func(cmd *cobra.Command, _ []string) error {
			r, err := mount(cmd)
			if err != nil {
				return err
			}
			defer r.Dispose()
			m, err := r.Create(cmd.Context(), "", createReq)
			s, err := created(r.List, m, err, "student")
			if err != nil {
				return err
			}
			return render(cmd, s, func(w io.Writer) {
				_, _ = fmt.Fprintf(w, "Student %s added (id %s).\n", s.Name, s.ID)
			})
		}),
	}
	bindForm(create, &createReq)
	cmd.AddCommand(create)

	var updateReq model.StudentRequest
	update := &cobra.Command{
		Use:   "update <id>",
		Short: "Edit a student; omitted flags keep their value",
		Args:  cobra.ExactArgs(1),
		RunE: a.guarded("/admin/students", func(cmd *cobra.Command, args []string) error {
			r, err := mount(cmd)
			if err != nil {
				return err
			}
			defer r.Dispose()
			cur, ok := r.Find(args[0])
			if !ok {
				return fmt.Errorf("student %s not found", args[0])
			}
			req := model.StudentRequest{Name: cur.Name, Email: cur.Email, Phone: cur.Phone, Track: cur.Track, Status: cur.Status, Notes: cur.Notes}
			flags := cmd.Flags()
			if flags.Changed("name") {
				req.Name = updateReq.Name
			}
			if flags.Changed("email") {
				req.Email = updateReq.Email
			}
			if flags.Changed("phone") {
				req.Phone = updateReq.Phone
			}
			if flags.Changed("track") {
				req.Track = updateReq.Track
			}
			if flags.Changed("status") {
				req.Status = updateReq.Status
			}
			if flags.Changed("notes") {
				req.Notes = updateReq.Notes
			}
			s, err := a.svc.Students.Update(cmd.Context(), args[0], req)
			if err != nil {
				return err
			}
			return render(cmd, s, func(w io.Writer) {
				_, _ = fmt.Fprintf(w, "Student %s updated.\n", s.ID)
			})
		}),
	}
	bindForm(update, &updateReq)
	cmd.AddCommand(update)

	cmd.AddCommand(&cobra.Command{
		Use:   "delete <id>",
		Short: "Remove a student",
		Args:  cobra.ExactArgs(1),
		RunE: a.guarded("/admin/students", func(cmd *cobra.Command, args []string) error {
			r, err := mount(cmd)
			if err != nil {
				return err
			}
			defer r.Dispose()
			if _, err := r.Delete(cmd.Context(), args[0]); err != nil {
				if errors.Is(err, view.ErrNotFound) {
					return fmt.Errorf("student %s not found", args[0])
				}
				return err
			}
			return printOK(cmd, fmt.Sprintf("Student %s removed.", args[0]), map[string]string{"id": args[0]})
		}),
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "status <id> [Active|Inactive|Blacklisted]",
		Short: "Set a student's status, or toggle the blacklist when omitted",
		Args:  cobra.RangeArgs(1, 2),
		RunE: a.guarded("/admin/students", func(cmd *cobra.Command, args []string) error {
			r, err := mount(cmd)
			if err != nil {
				return err
			}
			defer r.Dispose()

			if len(args) == 2 {
				_, err = r.SetStatus(cmd.Context(), args[0], model.StudentStatus(args[1]))
			} else {
				_, err = r.ToggleBlacklist(cmd.Context(), args[0])
			}
			if errors.Is(err, view.ErrNotFound) {
				return fmt.Errorf("student %s not found", args[0])
			}
			if err != nil {
				return err
			}
			s, _ := r.Find(args[0])
			return render(cmd, s, func(w io.Writer) {
				_, _ = fmt.Fprintf(w, "Student %s is now %s.\n", s.ID, s.Status)
			})
		}),
	})

	var assign model.AssignStudentRequest
	assignCmd := &cobra.Command{
		Use:   "assign <id>",
		Short: "Assign a student's track, batch and mentor",
		Args:  cobra.ExactArgs(1),
		RunE: a.guarded("/admin/students", func(cmd *cobra.Command, args []string) error {
			s, err := a.svc.Students.Assign(cmd.Context(), args[0], assign)
			if err != nil {
				return err
			}
			return render(cmd, s, func(w io.Writer) {
				_, _ = fmt.Fprintf(w, "Student %s assigned to %s.\n", s.ID, s.Track)
			})
		}),
	}
	assignCmd.Flags().StringVar(&assign.Track, "track", "", "Learning track")
	assignCmd.Flags().StringVar(&assign.Batch, "batch", "", "Batch")
	assignCmd.Flags().StringVar(&assign.Mentor, "mentor", "", "Mentor")
	cmd.AddCommand(assignCmd)

	return cmd
}

// overview is the admin landing page's KPI row.
type overview struct {
	ActiveStudents     int `json:"activeStudents"`
	TotalStudents      int `json:"totalStudents"`
	Tasks              int `json:"tasks"`
	PendingSubmissions int `json:"pendingSubmissions"`
	Announcements      int `json:"announcements"`
}

func newOverviewCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "overview",
		Short: "Show headline numbers for the admin dashboard",
		Args:  cobra.NoArgs,
		RunE: a.guarded("/admin", func(cmd *cobra.Command, _ []string) error {
			roster := view.NewRoster(a.svc.Students, a.log)
			catalog := view.NewTaskCatalog(a.svc.Tasks, a.log)
			feed := view.NewAnnouncementFeed(a.svc.Announcements, a.log)
			defer roster.Dispose()
			defer catalog.Dispose()
			defer feed.Dispose()

			ctx := cmd.Context()
			var g errgroup.Group
			g.Go(func() error {
				roster.Mount(ctx)
				s := roster.Snapshot()
				return loaded(s.State, s.Err)
			})
			g.Go(func() error {
				catalog.Mount(ctx)
				s := catalog.Snapshot()
				return loaded(s.State, s.Err)
			})
			g.Go(func() error {
				feed.Mount(ctx)
				s := feed.Snapshot()
				return loaded(s.State, s.Err)
			})
			if err := g.Wait(); err != nil {
				return err
			}

			_, pending := catalog.Totals()
			o := overview{
				ActiveStudents:     roster.ActiveCount(),
				TotalStudents:      len(roster.Items()),
				Tasks:              len(catalog.Items()),
				PendingSubmissions: pending,
				Announcements:      len(feed.Items()),
			}
			return render(cmd, o, func(w io.Writer) {
				PrintDetail(w, map[string]string{
					"active students":     fmt.Sprintf("%d of %d", o.ActiveStudents, o.TotalStudents),
					"tasks":               strconv.Itoa(o.Tasks),
					"pending submissions": strconv.Itoa(o.PendingSubmissions),
					"announcements":       strconv.Itoa(o.Announcements),
				})
			})
		}),
	}
}
