package projects

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

const ruleColumns = `
  r.id, r.project_id, r.name, COALESCE(r.description, ''), r.category,
  r.is_required, r.sort_order, r.created_at`

func scanRule(row pgx.Row) (DesignRule, error) {
	var rule DesignRule
	err := row.Scan(
		&rule.ID, &rule.ProjectID, &rule.Name, &rule.Description, &rule.Category,
		&rule.IsRequired, &rule.Order, &rule.CreatedAt,
	)
	return rule, err
}

func (s *Store) ListDesignRules(ctx context.Context, projectID string) ([]DesignRule, error) {
	rows, err := s.DB.Query(ctx,
		"SELECT"+ruleColumns+" FROM design_rules r WHERE r.project_id = $1 ORDER BY r.sort_order, r.created_at",
		projectID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []DesignRule
	for rows.Next() {
		rule, err := scanRule(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rule)
	}
	return out, nil
}

func (s *Store) CreateDesignRule(ctx context.Context, rule DesignRule) (string, error) {
	var id string
	err := s.DB.QueryRow(ctx, `
    INSERT INTO design_rules (project_id, name, description, category, is_required, sort_order)
    VALUES ($1,$2,$3,$4,$5,$6)
    RETURNING id
  `, rule.ProjectID, rule.Name, nullIfEmpty(rule.Description), rule.Category,
		rule.IsRequired, rule.Order).Scan(&id)
	if isForeignKeyViolation(err) {
		return "", ErrProjectNotFound
	}
	if err != nil {
		return "", err
	}
	return id, nil
}

func (s *Store) UpdateDesignRule(ctx context.Context, ruleID string, rule DesignRule) error {
	cmd, err := s.DB.Exec(ctx, `
    UPDATE design_rules
    SET name = $1, description = $2, category = $3, is_required = $4, sort_order = $5
    WHERE id = $6
  `, rule.Name, nullIfEmpty(rule.Description), rule.Category, rule.IsRequired, rule.Order, ruleID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrRuleNotFound
	}
	return nil
}

func (s *Store) DeleteDesignRule(ctx context.Context, ruleID string) error {
	cmd, err := s.DB.Exec(ctx, "DELETE FROM design_rules WHERE id = $1", ruleID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrRuleNotFound
	}
	return nil
}

// CreateReview writes the review and its criteria, and moves the task in the
// same transaction when the outcome drives a status change. The from-status
// guard keeps a concurrent second review from double-moving the task.
func (s *Store) CreateReview(ctx context.Context, draft ReviewDraft, toStatus string, moveTask bool) (string, error) {
	tx, err := s.DB.Begin(ctx)
	if err != nil {
		return "", err
	}
	defer tx.Rollback(ctx)

	var reviewID string
	err = tx.QueryRow(ctx, `
    INSERT INTO task_reviews (task_id, reviewer_id, outcome, comment)
    VALUES ($1,$2,$3,$4)
    RETURNING id
  `, draft.TaskID, nullIfEmpty(draft.ReviewerID), draft.Outcome, nullIfEmpty(draft.Comment)).Scan(&reviewID)
	if isForeignKeyViolation(err) {
		return "", ErrTaskNotFound
	}
	if err != nil {
		return "", err
	}

	for _, criterion := range draft.Criteria {
		_, err = tx.Exec(ctx, `
      INSERT INTO review_criteria (review_id, design_rule_id, is_met, comment)
      VALUES ($1,$2,$3,$4)
    `, reviewID, criterion.DesignRuleID, criterion.IsMet, nullIfEmpty(criterion.Comment))
		if isForeignKeyViolation(err) {
			return "", ErrUnknownRule
		}
		if err != nil {
			return "", err
		}
	}

	if moveTask {
		cmd, err := tx.Exec(ctx, `
      UPDATE tasks
      SET status = $1, updated_at = now()
      WHERE id = $2 AND status = $3
    `, toStatus, draft.TaskID, TaskStatusReviewPending)
		if err != nil {
			return "", err
		}
		if cmd.RowsAffected() == 0 {
			return "", ErrInvalidState
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return "", err
	}
	return reviewID, nil
}

const reviewColumns = `
  tr.id, tr.task_id, t.title,
  COALESCE(tr.reviewer_id::text, ''), COALESCE(ru.first_name || ' ' || ru.last_name, ''),
  tr.outcome, COALESCE(tr.comment, ''), tr.reviewed_at`

const reviewFrom = `
  FROM task_reviews tr
  JOIN tasks t ON t.id = tr.task_id
  LEFT JOIN users ru ON ru.id = tr.reviewer_id`

func scanReview(row pgx.Row) (TaskReview, error) {
	var review TaskReview
	err := row.Scan(
		&review.ID, &review.TaskID, &review.TaskTitle,
		&review.ReviewerID, &review.ReviewerName,
		&review.Outcome, &review.Comment, &review.ReviewedAt,
	)
	return review, err
}

func (s *Store) GetReview(ctx context.Context, reviewID string) (TaskReview, error) {
	row := s.DB.QueryRow(ctx, "SELECT"+reviewColumns+reviewFrom+" WHERE tr.id = $1", reviewID)
	review, err := scanReview(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return TaskReview{}, ErrReviewNotFound
	}
	if err != nil {
		return TaskReview{}, err
	}
	review.Criteria, err = s.reviewCriteria(ctx, reviewID)
	if err != nil {
		return TaskReview{}, err
	}
	review.TotalCriteria, review.MetCriteria, review.CriteriaPercentage = CriteriaProgress(review.Criteria)
	return review, nil
}

func (s *Store) ListReviews(ctx context.Context, taskID string) ([]TaskReview, error) {
	rows, err := s.DB.Query(ctx,
		"SELECT"+reviewColumns+reviewFrom+" WHERE tr.task_id = $1 ORDER BY tr.reviewed_at DESC", taskID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []TaskReview
	for rows.Next() {
		review, err := scanReview(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, review)
	}
	rows.Close()

	for i := range out {
		out[i].Criteria, err = s.reviewCriteria(ctx, out[i].ID)
		if err != nil {
			return nil, err
		}
		out[i].TotalCriteria, out[i].MetCriteria, out[i].CriteriaPercentage = CriteriaProgress(out[i].Criteria)
	}
	return out, nil
}

func (s *Store) reviewCriteria(ctx context.Context, reviewID string) ([]ReviewCriterion, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT rc.id, rc.design_rule_id, dr.name, dr.category, rc.is_met, COALESCE(rc.comment, '')
    FROM review_criteria rc
    JOIN design_rules dr ON dr.id = rc.design_rule_id
    WHERE rc.review_id = $1
    ORDER BY dr.sort_order, rc.created_at
  `, reviewID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []ReviewCriterion
	for rows.Next() {
		var criterion ReviewCriterion
		if err := rows.Scan(
			&criterion.ID, &criterion.DesignRuleID, &criterion.RuleName,
			&criterion.RuleCategory, &criterion.IsMet, &criterion.Comment,
		); err != nil {
			return nil, err
		}
		out = append(out, criterion)
	}
	return out, nil
}

func isForeignKeyViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23503"
}
