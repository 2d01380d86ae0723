package sqlite

import (
	"context"
	"fmt"

	"quiz-studio/internal/quiz"
)

func (s *SQLiteStore) InsertAnswer(ctx context.Context, answer quiz.Answer) (int64, error) {
	return insertAnswer(ctx, s.db, answer)
}

func (s *SQLiteStore) UpdateAnswer(ctx context.Context, answer quiz.Answer) error {
	return updateAnswer(ctx, s.db, answer)
}

func (s *SQLiteStore) DeleteAnswer(ctx context.Context, answerID int64) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM answers WHERE id = ?`, answerID); err != nil {
		return fmt.Errorf("delete answer %d: %w", answerID, err)
	}
	return nil
}

func (s *SQLiteStore) ListAnswers(ctx context.Context, questionID int64) ([]quiz.Answer, error) {
	rows, err := s.db.QueryContext(
		ctx,
		`SELECT id, questionId, answerText, isCorrect
		 FROM answers
		 WHERE questionId = ?
		 ORDER BY id ASC`,
		questionID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	answers := make([]quiz.Answer, 0)
	for rows.Next() {
		var answer quiz.Answer
		if err := rows.Scan(&answer.ID, &answer.QuestionID, &answer.AnswerText, &answer.IsCorrect); err != nil {
			return nil, err
		}
		answers = append(answers, answer)
	}

	return answers, rows.Err()
}

// ApplyPlan commits one editor save.
//
// Invariants:
//   - Deletes run before updates, and updates before inserts.
//   - Every write is scoped to the plan's question; a row that moved to
//     another question is left alone.
//   - The question ends the transaction with at most one correct answer,
//     otherwise nothing is committed.
func (s *SQLiteStore) ApplyPlan(ctx context.Context, plan quiz.WritePlan) error {
	questionID := plan.Question.ID

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, answer := range plan.Deletes {
		if _, err := tx.ExecContext(
			ctx,
			`DELETE FROM answers WHERE id = ? AND questionId = ?`,
			answer.ID,
			questionID,
		); err != nil {
			return fmt.Errorf("delete answer %d: %w", answer.ID, err)
		}
	}

	for _, answer := range plan.Updates {
		if err := updateAnswerInQuestion(ctx, tx, questionID, answer); err != nil {
			return err
		}
	}

	for _, answer := range plan.Inserts {
		answer.QuestionID = questionID
		if _, err := insertAnswer(ctx, tx, answer); err != nil {
			return err
		}
	}

	if err := updateQuestion(ctx, tx, plan.Question); err != nil {
		return err
	}

	var correctCount int
	if err := tx.QueryRowContext(
		ctx,
		`SELECT COUNT(*) FROM answers WHERE questionId = ? AND isCorrect = 1`,
		questionID,
	).Scan(&correctCount); err != nil {
		return err
	}
	if correctCount > 1 {
		return quiz.ErrMultipleCorrectAnswers
	}

	return tx.Commit()
}

func insertAnswer(ctx context.Context, db execer, answer quiz.Answer) (int64, error) {
	result, err := db.ExecContext(
		ctx,
		`INSERT INTO answers (questionId, answerText, isCorrect) VALUES (?, ?, ?)`,
		answer.QuestionID,
		answer.AnswerText,
		answer.IsCorrect,
	)
	if err != nil {
		return 0, fmt.Errorf("insert answer: %w", err)
	}
	return result.LastInsertId()
}

// updateAnswerInQuestion rewrites text and correctness only while the row
// still belongs to questionID.
func updateAnswerInQuestion(ctx context.Context, db execer, questionID int64, answer quiz.Answer) error {
	_, err := db.ExecContext(
		ctx,
		`UPDATE answers SET answerText = ?, isCorrect = ? WHERE id = ? AND questionId = ?`,
		answer.AnswerText,
		answer.IsCorrect,
		answer.ID,
		questionID,
	)
	if err != nil {
		return fmt.Errorf("update answer %d: %w", answer.ID, err)
	}
	return nil
}

func updateAnswer(ctx context.Context, db execer, answer quiz.Answer) error {
	_, err := db.ExecContext(
		ctx,
		`UPDATE answers SET questionId = ?, answerText = ?, isCorrect = ? WHERE id = ?`,
		answer.QuestionID,
		answer.AnswerText,
		answer.IsCorrect,
		answer.ID,
	)
	if err != nil {
		return fmt.Errorf("update answer %d: %w", answer.ID, err)
	}
	return nil
}
