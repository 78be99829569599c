package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/convodocs/internal/domain"
)

// TeamRepository manages persistence for teams and their members.
type TeamRepository interface {
	Create(ctx context.Context, team *domain.Team) error
	Update(ctx context.Context, team *domain.Team) error
	GetByID(ctx context.Context, id string) (*domain.Team, error)
	List(ctx context.Context) ([]domain.Team, error)
	Delete(ctx context.Context, id string) error

	AddMember(ctx context.Context, teamID string, member *domain.TeamMember) error
	UpdateMember(ctx context.Context, teamID string, member *domain.TeamMember) error
	DeleteMember(ctx context.Context, teamID, memberID string) error
	GetMember(ctx context.Context, memberID string) (*domain.TeamMember, error)
}

type teamRepository struct {
	pool *pgxpool.Pool
}

// NewTeamRepository constructs the postgres-backed repository.
func NewTeamRepository(pool *pgxpool.Pool) TeamRepository {
	return &teamRepository{pool: pool}
}

func (r *teamRepository) Create(ctx context.Context, team *domain.Team) error {
	const query = `
        INSERT INTO teams (id, name, description, created_at)
        VALUES ($1,$2,$3,$4)`
	_, err := r.pool.Exec(ctx, query, team.ID, team.Name, team.Description, team.CreatedAt)
	return err
}

func (r *teamRepository) Update(ctx context.Context, team *domain.Team) error {
	const query = `UPDATE teams SET name=$1, description=$2 WHERE id=$3`
	cmd, err := r.pool.Exec(ctx, query, team.Name, team.Description, team.ID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *teamRepository) GetByID(ctx context.Context, id string) (*domain.Team, error) {
	const query = `SELECT id, name, description, created_at FROM teams WHERE id=$1`
	var team domain.Team
	if err := r.pool.QueryRow(ctx, query, id).Scan(
		&team.ID,
		&team.Name,
		&team.Description,
		&team.CreatedAt,
	); err != nil {
		return nil, mapNoRows(err)
	}
	members, err := r.membersByTeam(ctx, []string{team.ID})
	if err != nil {
		return nil, err
	}
	team.Members = membersOrEmpty(members[team.ID])
	return &team, nil
}

func (r *teamRepository) List(ctx context.Context) ([]domain.Team, error) {
	const query = `SELECT id, name, description, created_at FROM teams ORDER BY created_at, id`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := []domain.Team{}
	ids := []string{}
	for rows.Next() {
		var team domain.Team
		if err := rows.Scan(&team.ID, &team.Name, &team.Description, &team.CreatedAt); err != nil {
			return nil, err
		}
		result = append(result, team)
		ids = append(ids, team.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	members, err := r.membersByTeam(ctx, ids)
	if err != nil {
		return nil, err
	}
	for i := range result {
		result[i].Members = membersOrEmpty(members[result[i].ID])
	}
	return result, nil
}

func (r *teamRepository) Delete(ctx context.Context, id string) error {
	// team_members and documents cascade on the foreign key.
	cmd, err := r.pool.Exec(ctx, `DELETE FROM teams WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *teamRepository) AddMember(ctx context.Context, teamID string, member *domain.TeamMember) error {
	const query = `
        INSERT INTO team_members (id, team_id, name, email, role, created_at)
        VALUES ($1,$2,$3,$4,$5,$6)`
	_, err := r.pool.Exec(ctx, query, member.ID, teamID, member.Name, member.Email, member.Role, member.CreatedAt)
	return err
}

func (r *teamRepository) UpdateMember(ctx context.Context, teamID string, member *domain.TeamMember) error {
	const query = `UPDATE team_members SET name=$1, email=$2, role=$3 WHERE id=$4 AND team_id=$5`
	cmd, err := r.pool.Exec(ctx, query, member.Name, member.Email, member.Role, member.ID, teamID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *teamRepository) DeleteMember(ctx context.Context, teamID, memberID string) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM team_members WHERE id=$1 AND team_id=$2`, memberID, teamID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *teamRepository) GetMember(ctx context.Context, memberID string) (*domain.TeamMember, error) {
	const query = `SELECT id, name, email, role, created_at FROM team_members WHERE id=$1`
	var m domain.TeamMember
	if err := r.pool.QueryRow(ctx, query, memberID).Scan(&m.ID, &m.Name, &m.Email, &m.Role, &m.CreatedAt); err != nil {
		return nil, mapNoRows(err)
	}
	return &m, nil
}

func (r *teamRepository) membersByTeam(ctx context.Context, teamIDs []string) (map[string][]domain.TeamMember, error) {
	out := make(map[string][]domain.TeamMember, len(teamIDs))
	if len(teamIDs) == 0 {
		return out, nil
	}
	const query = `
        SELECT team_id, id, name, email, role, created_at
        FROM team_members WHERE team_id = ANY($1) ORDER BY position`
	rows, err := r.pool.Query(ctx, query, teamIDs)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var (
			teamID string
			m      domain.TeamMember
		)
		if err := rows.Scan(&teamID, &m.ID, &m.Name, &m.Email, &m.Role, &m.CreatedAt); err != nil {
			return nil, err
		}
		out[teamID] = append(out[teamID], m)
	}
	return out, rows.Err()
}

func membersOrEmpty(members []domain.TeamMember) []domain.TeamMember {
	if members == nil {
		return []domain.TeamMember{}
	}
	return members
}
