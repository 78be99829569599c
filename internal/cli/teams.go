package cli

import (
	"github.com/spf13/cobra"

	"github.com/spec-kit/convodocs/internal/api/dto"
	"github.com/spec-kit/convodocs/internal/domain"
	"github.com/spec-kit/convodocs/internal/teams"
)

type teamOutput struct {
	Team         *dto.TeamResponse   `json:"team,omitempty"`
	Member       *dto.MemberResponse `json:"member,omitempty"`
	Notification string              `json:"notification,omitempty"`
}

func newTeamsCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "teams",
		Short: "Manage teams and their members",
	}
	cmd.AddCommand(newTeamsListCmd(app))
	cmd.AddCommand(newTeamsCreateCmd(app))
	cmd.AddCommand(newTeamsUpdateCmd(app))
	cmd.AddCommand(newTeamsDeleteCmd(app))
	cmd.AddCommand(newMembersCmd(app))
	return cmd
}

// loadManager returns a team manager backed by the API, already loaded.
func loadManager(cmd *cobra.Command, app *App) (*teams.Manager, error) {
	m := teams.NewManager(nil, teams.Options{Store: app.api.Teams, Logger: app.logger})
	if err := m.Load(cmd.Context()); err != nil {
		return nil, err
	}
	return m, nil
}

func findTeam(m *teams.Manager, id string) (domain.Team, error) {
	for _, t := range m.State().Teams {
		if t.ID == id {
			return t, nil
		}
	}
	return domain.Team{}, teams.ErrTeamNotFound
}

func notificationOf(m *teams.Manager) string {
	if n := m.State().Notification; n != nil {
		return n.Message
	}
	return ""
}

func newTeamsListCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List teams with their members",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := loadManager(cmd, app)
			if err != nil {
				return writeErr(cmd, err)
			}
			list := m.State().Teams
			out := make([]dto.TeamResponse, 0, len(list))
			for i := range list {
				out = append(out, dto.NewTeamResponse(&list[i]))
			}
			return writeOut(cmd, app, out)
		},
	}
}

func newTeamsCreateCmd(app *App) *cobra.Command {
	var form teams.TeamForm
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a team",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := loadManager(cmd, app)
			if err != nil {
				return writeErr(cmd, err)
			}
			m.OpenTeamDialog(nil)
			m.SetTeamForm(form)
			team, err := m.SaveTeam(cmd.Context())
			if err != nil {
				return writeErr(cmd, err)
			}
			resp := dto.NewTeamResponse(&team)
			return writeOut(cmd, app, teamOutput{Team: &resp, Notification: notificationOf(m)})
		},
	}
	cmd.Flags().StringVar(&form.Name, "name", "", "Team name")
	cmd.Flags().StringVar(&form.Description, "description", "", "Team description")
	return cmd
}

func newTeamsUpdateCmd(app *App) *cobra.Command {
	var form teams.TeamForm
	cmd := &cobra.Command{
		Use:   "update <team-id>",
		Short: "Rename a team or change its description",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := loadManager(cmd, app)
			if err != nil {
				return writeErr(cmd, err)
			}
			existing, err := findTeam(m, args[0])
			if err != nil {
				return writeErr(cmd, err)
			}
			m.OpenTeamDialog(&existing)
			next := m.State().TeamDialog.Form
			if cmd.Flags().Changed("name") {
				next.Name = form.Name
			}
			if cmd.Flags().Changed("description") {
				next.Description = form.Description
			}
			m.SetTeamForm(next)
			team, err := m.SaveTeam(cmd.Context())
			if err != nil {
				return writeErr(cmd, err)
			}
			resp := dto.NewTeamResponse(&team)
			return writeOut(cmd, app, teamOutput{Team: &resp, Notification: notificationOf(m)})
		},
	}
	cmd.Flags().StringVar(&form.Name, "name", "", "New team name")
	cmd.Flags().StringVar(&form.Description, "description", "", "New description")
	return cmd
}

func newTeamsDeleteCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <team-id>",
		Short: "Delete a team, its members and its documents",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := loadManager(cmd, app)
			if err != nil {
				return writeErr(cmd, err)
			}
			if err := m.DeleteTeam(cmd.Context(), args[0]); err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, teamOutput{Notification: notificationOf(m)})
		},
	}
}

func newMembersCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "members",
		Short: "Add, update and remove team members",
	}
	cmd.AddCommand(newMembersAddCmd(app))
	cmd.AddCommand(newMembersUpdateCmd(app))
	cmd.AddCommand(newMembersRemoveCmd(app))
	return cmd
}

func bindMemberFlags(cmd *cobra.Command, form *teams.MemberForm) {
	cmd.Flags().StringVar(&form.Name, "name", "", "Member name")
	cmd.Flags().StringVar(&form.Email, "email", "", "Member email")
	cmd.Flags().StringVar(&form.Role, "role", "", "Member role")
}

func newMembersAddCmd(app *App) *cobra.Command {
	var form teams.MemberForm
	cmd := &cobra.Command{
		Use:   "add <team-id>",
		Short: "Add a member to a team",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := loadManager(cmd, app)
			if err != nil {
				return writeErr(cmd, err)
			}
			if err := m.OpenMemberDialog(args[0], nil); err != nil {
				return writeErr(cmd, err)
			}
			m.SetMemberForm(form)
			return saveMember(cmd, app, m)
		},
	}
	bindMemberFlags(cmd, &form)
	return cmd
}

func newMembersUpdateCmd(app *App) *cobra.Command {
	var form teams.MemberForm
	cmd := &cobra.Command{
		Use:   "update <team-id> <member-id>",
		Short: "Update a member's name, email or role",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := loadManager(cmd, app)
			if err != nil {
				return writeErr(cmd, err)
			}
			team, err := findTeam(m, args[0])
			if err != nil {
				return writeErr(cmd, err)
			}
			idx := team.FindMember(args[1])
			if idx < 0 {
				return writeErr(cmd, teams.ErrMemberNotFound)
			}
			if err := m.OpenMemberDialog(team.ID, &team.Members[idx]); err != nil {
				return writeErr(cmd, err)
			}
			next := m.State().MemberDialog.Form
			if cmd.Flags().Changed("name") {
				next.Name = form.Name
			}
			if cmd.Flags().Changed("email") {
				next.Email = form.Email
			}
			if cmd.Flags().Changed("role") {
				next.Role = form.Role
			}
			m.SetMemberForm(next)
			return saveMember(cmd, app, m)
		},
	}
	bindMemberFlags(cmd, &form)
	return cmd
}

func newMembersRemoveCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "remove <team-id> <member-id>",
		Short: "Remove a member from a team",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := loadManager(cmd, app)
			if err != nil {
				return writeErr(cmd, err)
			}
			if err := m.DeleteMember(cmd.Context(), args[0], args[1]); err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, teamOutput{Notification: notificationOf(m)})
		},
	}
}

func saveMember(cmd *cobra.Command, app *App, m *teams.Manager) error {
	member, err := m.SaveMember(cmd.Context())
	if err != nil {
		return writeErr(cmd, err)
	}
	resp := dto.NewMemberResponse(&member)
	return writeOut(cmd, app, teamOutput{Member: &resp, Notification: notificationOf(m)})
}
