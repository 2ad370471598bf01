package cli

import (
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/nsda/portal/internal/model"
	"github.com/nsda/portal/internal/service"
	"github.com/nsda/portal/internal/view"
	"github.com/spf13/cobra"
)

func newDashboardCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "dashboard",
		Aliases: []string{"dash"},
		Short:   "Student dashboard (requires the student role)",
	}

	cmd.AddCommand(newStudentTasksCmd(a))
	cmd.AddCommand(newSubmitCmd(a))
	cmd.AddCommand(newReadCmd(a))
	cmd.AddCommand(newStudentAnnouncementsCmd(a))
	cmd.AddCommand(newStudentAttendanceCmd(a))
	cmd.AddCommand(newProfileCmd(a))
	cmd.AddCommand(newProgressCmd(a))

	return cmd
}

func (a *app) studentID() string {
	if u := a.store.Snapshot().User; u != nil {
		return u.ID
	}
	return ""
}

func newStudentTasksCmd(a *app) *cobra.Command {
	var filter string

	cmd := &cobra.Command{
		Use:   "tasks",
		Short: "List your tasks",
		Args:  cobra.NoArgs,
		RunE: a.guarded("/dashboard/tasks", func(cmd *cobra.Command, _ []string) error {
			f, err := service.ParseTaskFilter(filter)
			if err != nil {
				return err
			}
			board := view.NewTaskBoard(a.svc.Tasks, a.studentID(), a.log)
			defer board.Dispose()

			board.SetFilter(cmd.Context(), f)
			snap := board.Snapshot()
			if err := loaded(snap.State, snap.Err); err != nil {
				return err
			}
			return render(cmd, snap.Items, func(w io.Writer) { printStudentTasks(w, snap.Items) })
		}),
	}

	cmd.Flags().StringVar(&filter, "filter", "all", "Filter: all, todo, submitted, graded")
	return cmd
}

func newSubmitCmd(a *app) *cobra.Command {
	var req model.SubmitTaskRequest

	cmd := &cobra.Command{
		Use:   "submit <task-id>",
		Short: "Submit your work for a task",
		Args:  cobra.ExactArgs(1),
		RunE: a.guarded("/dashboard/tasks", func(cmd *cobra.Command, args []string) error {
			board := view.NewTaskBoard(a.svc.Tasks, a.studentID(), a.log)
			defer board.Dispose()

			board.Mount(cmd.Context())
			snap := board.Snapshot()
			if err := loaded(snap.State, snap.Err); err != nil {
				return err
			}
			if _, err := board.Submit(cmd.Context(), args[0], req); err != nil {
				return err
			}
			t, _ := board.Find(args[0])
			return render(cmd, t, func(w io.Writer) {
				_, _ = fmt.Fprintf(w, "Submitted %q. Status: %s\n", t.Title, taskStatus(t))
			})
		}),
	}

	cmd.Flags().StringVar(&req.SubmissionLink, "link", "", "Link to your work (required)")
	cmd.Flags().StringVar(&req.SubmissionNotes, "notes", "", "Notes for the reviewer")
	_ = cmd.MarkFlagRequired("link")
	return cmd
}

func newReadCmd(a *app) *cobra.Command {
	var unread bool

	cmd := &cobra.Command{
		Use:   "read <task-id> <resource-id>",
		Short: "Mark a task resource as read",
		Args:  cobra.ExactArgs(2),
		RunE: a.guarded("/dashboard/tasks", func(cmd *cobra.Command, args []string) error {
			if err := a.svc.Tasks.MarkResourceRead(cmd.Context(), args[0], args[1], !unread); err != nil {
				return err
			}
			state := "read"
			if unread {
				state = "unread"
			}
			return printOK(cmd, fmt.Sprintf("Resource %s marked %s.", args[1], state), map[string]string{"resource": args[1], "state": state})
		}),
	}

	cmd.Flags().BoolVar(&unread, "unread", false, "Clear the read mark instead")
	return cmd
}

func newStudentAnnouncementsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "announcements",
		Short: "List announcements",
		Args:  cobra.NoArgs,
		RunE: a.guarded("/dashboard/announcements", func(cmd *cobra.Command, _ []string) error {
			return listAnnouncements(a, cmd)
		}),
	}
}

func listAnnouncements(a *app, cmd *cobra.Command) error {
	feed := view.NewAnnouncementFeed(a.svc.Announcements, a.log)
	defer feed.Dispose()

	feed.Mount(cmd.Context())
	snap := feed.Snapshot()
	if err := loaded(snap.State, snap.Err); err != nil {
		return err
	}
	return render(cmd, snap.Items, func(w io.Writer) { printAnnouncements(w, snap.Items) })
}

func newStudentAttendanceCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "attendance",
		Short: "View and mark your attendance",
	}

	mount := func(cmd *cobra.Command) (*view.AttendanceBoard, error) {
		board := view.NewAttendanceBoard(a.svc.Attendance, false, a.log)
		board.Mount(cmd.Context())
		snap := board.Snapshot()
		if err := loaded(snap.State, snap.Err); err != nil {
			board.Dispose()
			return nil, err
		}
		return board, nil
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "history",
		Short: "List your attendance history",
		Args:  cobra.NoArgs,
		RunE: a.guarded("/dashboard/attendance", func(cmd *cobra.Command, _ []string) error {
			board, err := mount(cmd)
			if err != nil {
				return err
			}
			defer board.Dispose()
			history := board.Snapshot().History
			return render(cmd, history, func(w io.Writer) { printAttendance(w, history, false) })
		}),
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "summary",
		Short: "Show this week's attendance summary",
		Args:  cobra.NoArgs,
		RunE: a.guarded("/dashboard/attendance", func(cmd *cobra.Command, _ []string) error {
			board, err := mount(cmd)
			if err != nil {
				return err
			}
			defer board.Dispose()
			snap := board.Snapshot()
			return render(cmd, snap.Summary, func(w io.Writer) {
				fields := summaryFields(snap.Summary)
				fields["today"] = strconv.FormatBool(board.TodayMarked(time.Now()))
				PrintDetail(w, fields)
			})
		}),
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "mark",
		Short: "Mark yourself present today",
		Args:  cobra.NoArgs,
		RunE: a.guarded("/dashboard/attendance", func(cmd *cobra.Command, _ []string) error {
			board, err := mount(cmd)
			if err != nil {
				return err
			}
			defer board.Dispose()
			rec, err := board.Mark(cmd.Context(), time.Now())
			if err != nil {
				return err
			}
			return render(cmd, rec, func(w io.Writer) {
				_, _ = fmt.Fprintf(w, "Attendance marked for %s.\n", rec.Date)
			})
		}),
	})

	return cmd
}

func newProfileCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "profile",
		Short: "View and edit your profile",
	}

	printProfile := func(cmd *cobra.Command, p *model.Profile) error {
		return render(cmd, p, func(w io.Writer) {
			PrintDetail(w, map[string]string{
				"name":    p.User.Name,
				"email":   orDash(p.User.Email),
				"role":    p.User.Role.String(),
				"track":   orDash(p.User.Track),
				"phone":   orDash(p.Phone),
				"school":  orDash(p.School),
				"address": orDash(p.Address),
				"bio":     orDash(p.Bio),
			})
		})
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show your profile",
		Args:  cobra.NoArgs,
		RunE: a.guarded("/dashboard/profile", func(cmd *cobra.Command, _ []string) error {
			p, err := a.svc.Profile.Get(cmd.Context())
			if err != nil {
				return err
			}
			return printProfile(cmd, p)
		}),
	})

	var upd model.ProfileUpdateRequest
	update := &cobra.Command{
		Use:   "update",
		Short: "Update profile fields; omitted flags keep their value",
		Args:  cobra.NoArgs,
		RunE: a.guarded("/dashboard/profile", func(cmd *cobra.Command, _ []string) error {
			current, err := a.svc.Profile.Get(cmd.Context())
			if err != nil {
				return err
			}
			req := model.ProfileUpdateRequest{Phone: current.Phone, School: current.School, Address: current.Address, Bio: current.Bio}
			if cmd.Flags().Changed("phone") {
				req.Phone = upd.Phone
			}
			if cmd.Flags().Changed("school") {
				req.School = upd.School
			}
			if cmd.Flags().Changed("address") {
				req.Address = upd.Address
			}
			if cmd.Flags().Changed("bio") {
				req.Bio = upd.Bio
			}
			p, err := a.svc.Profile.Update(cmd.Context(), req)
			if err != nil {
				return err
			}
			return printProfile(cmd, p)
		}),
	}
	update.Flags().StringVar(&upd.Phone, "phone", "", "Phone number")
	update.Flags().StringVar(&upd.School, "school", "", "School")
	update.Flags().StringVar(&upd.Address, "address", "", "Address")
	update.Flags().StringVar(&upd.Bio, "bio", "", "Short bio")
	cmd.AddCommand(update)

	cmd.AddCommand(&cobra.Command{
		Use:   "password",
		Short: "Change your password",
		Args:  cobra.NoArgs,
		RunE: a.guarded("/dashboard/profile", func(cmd *cobra.Command, _ []string) error {
			var req model.ChangePasswordRequest
			var err error
			if req.CurrentPassword, err = a.readSecret(cmd, "Current password: "); err != nil {
				return err
			}
			if req.NewPassword, err = a.readSecret(cmd, "New password: "); err != nil {
				return err
			}
			if req.ConfirmNewPassword, err = a.readSecret(cmd, "Confirm new password: "); err != nil {
				return err
			}
			if err := a.svc.Auth.ChangePassword(cmd.Context(), req); err != nil {
				return err
			}
			return printOK(cmd, "Password updated.", nil)
		}),
	})

	return cmd
}

// progressReport is the student's progress page.
type progressReport struct {
	Total      int                      `json:"total"`
	ByStatus   map[model.TaskStatus]int `json:"byStatus"`
	Completion float64                  `json:"completion"`
	Attendance *model.WeeklySummary     `json:"attendance"`
}

func newProgressCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "progress",
		Short: "Summarize task completion and attendance",
		Args:  cobra.NoArgs,
		RunE: a.guarded("/dashboard/progress", func(cmd *cobra.Command, _ []string) error {
			board := view.NewTaskBoard(a.svc.Tasks, a.studentID(), a.log)
			defer board.Dispose()
			board.Mount(cmd.Context())
			snap := board.Snapshot()
			if err := loaded(snap.State, snap.Err); err != nil {
				return err
			}

			report := progressReport{Total: len(snap.Items), ByStatus: board.Counts()}
			if report.Total > 0 {
				done := report.ByStatus[model.TaskSubmitted] + report.ByStatus[model.TaskGraded]
				report.Completion = float64(done) * 100 / float64(report.Total)
			}
			// Attendance is best effort; the task summary stands on its own.
			if sum, err := a.svc.Attendance.WeeklySummary(cmd.Context()); err == nil {
				report.Attendance = sum
			} else {
				a.log.Warn().Err(err).Msg("Attendance summary unavailable")
			}

			return render(cmd, report, func(w io.Writer) {
				fields := map[string]string{
					"tasks":      strconv.Itoa(report.Total),
					"to do":      strconv.Itoa(report.ByStatus[model.TaskToDo]),
					"submitted":  strconv.Itoa(report.ByStatus[model.TaskSubmitted]),
					"graded":     strconv.Itoa(report.ByStatus[model.TaskGraded]),
					"completion": fmt.Sprintf("%.0f%%", report.Completion),
				}
				if report.Attendance != nil {
					fields["attendance"] = fmt.Sprintf("%.0f%% (%d/%d this week)", report.Attendance.Percentage, report.Attendance.Present, report.Attendance.Total)
				}
				PrintDetail(w, fields)
			})
		}),
	}
}
