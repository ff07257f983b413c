package postgresql

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/payrollhq/payroll-backend-go/internal/domain/payroll"
	"github.com/payrollhq/payroll-backend-go/internal/pkg/database"
)

type payrollStepRepositoryImpl struct {
	db *database.DB
}

func NewPayrollStepRepository(db *database.DB) payroll.StepRepository {
	return &payrollStepRepositoryImpl{db: db}
}

func (r *payrollStepRepositoryImpl) CreateAll(ctx context.Context, steps []payroll.ProcessStep) error {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO payroll_process_steps (
			id, run_id, step_number, name, is_completed, completed_at, notes,
			created_at, updated_at
		) VALUES (
			uuidv7(), $1, $2, $3, $4, $5, $6,
			NOW(), NOW()
		)
	`

	for _, step := range steps {
		notesJSON, err := marshalStepNotes(step.Notes)
		if err != nil {
			return err
		}
		if _, err := q.Exec(ctx, query,
			step.RunID, step.StepNumber, step.Name, step.IsCompleted, step.CompletedAt, notesJSON,
		); err != nil {
			return fmt.Errorf("failed to create process step: %w", err)
		}
	}
	return nil
}

func (r *payrollStepRepositoryImpl) GetByRun(ctx context.Context, runID string) ([]payroll.ProcessStep, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, run_id, step_number, name, is_completed, completed_at, notes,
			   created_at, updated_at
		FROM payroll_process_steps
		WHERE run_id = $1
		ORDER BY step_number
	`

	rows, err := q.Query(ctx, query, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to list process steps: %w", err)
	}
	defer rows.Close()

	var steps []payroll.ProcessStep
	for rows.Next() {
		var step payroll.ProcessStep
		var notesJSON []byte
		if err := rows.Scan(
			&step.ID, &step.RunID, &step.StepNumber, &step.Name,
			&step.IsCompleted, &step.CompletedAt, &notesJSON,
			&step.CreatedAt, &step.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan process step: %w", err)
		}
		if len(notesJSON) > 0 {
			var notes payroll.StepNotes
			if err := json.Unmarshal(notesJSON, &notes); err != nil {
				return nil, fmt.Errorf("failed to decode step notes: %w", err)
			}
			step.Notes = &notes
		}
		steps = append(steps, step)
	}
	return steps, rows.Err()
}

func (r *payrollStepRepositoryImpl) Update(ctx context.Context, step payroll.ProcessStep) error {
	q := GetQuerier(ctx, r.db)

	notesJSON, err := marshalStepNotes(step.Notes)
	if err != nil {
		return err
	}

	query := `
		UPDATE payroll_process_steps
		SET is_completed = $1, completed_at = $2, notes = $3, updated_at = NOW()
		WHERE id = $4
	`

	tag, err := q.Exec(ctx, query, step.IsCompleted, step.CompletedAt, notesJSON, step.ID)
	if err != nil {
		return fmt.Errorf("failed to update process step: %w", err)
	}
	if tag.RowsAffected() != 1 {
		return payroll.ErrStepNotFound
	}
	return nil
}

// Step notes are typed in memory; JSON exists only at this boundary.
func marshalStepNotes(notes *payroll.StepNotes) ([]byte, error) {
	if notes == nil {
		return nil, nil
	}
	data, err := json.Marshal(notes)
	if err != nil {
		return nil, fmt.Errorf("failed to encode step notes: %w", err)
	}
	return data, nil
}
