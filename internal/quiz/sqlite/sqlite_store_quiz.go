package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"quiz-studio/internal/quiz"
)

func (s *SQLiteStore) InsertQuiz(ctx context.Context, item quiz.Quiz) (int64, error) {
	result, err := s.db.ExecContext(
		ctx,
		`INSERT INTO quizzes (name, description, imagePath) VALUES (?, ?, ?)`,
		item.Name,
		item.Description,
		item.ImagePath,
	)
	if err != nil {
		return 0, fmt.Errorf("insert quiz: %w", err)
	}
	return result.LastInsertId()
}

func (s *SQLiteStore) ListQuizzes(ctx context.Context) ([]quiz.Quiz, error) {
	rows, err := s.db.QueryContext(
		ctx,
		`SELECT id, name, description, imagePath
		 FROM quizzes
		 ORDER BY name ASC, id ASC`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	quizzes := make([]quiz.Quiz, 0)
	for rows.Next() {
		var item quiz.Quiz
		if err := rows.Scan(&item.ID, &item.Name, &item.Description, &item.ImagePath); err != nil {
			return nil, err
		}
		quizzes = append(quizzes, item)
	}

	return quizzes, rows.Err()
}

func (s *SQLiteStore) GetQuiz(ctx context.Context, quizID int64) (quiz.Quiz, bool, error) {
	var item quiz.Quiz
	err := s.db.QueryRowContext(
		ctx,
		`SELECT id, name, description, imagePath FROM quizzes WHERE id = ?`,
		quizID,
	).Scan(&item.ID, &item.Name, &item.Description, &item.ImagePath)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return quiz.Quiz{}, false, nil
		}
		return quiz.Quiz{}, false, err
	}
	return item, true, nil
}

// DeleteQuiz relies on ON DELETE CASCADE; the single statement removes the
// quiz, its questions and their answers atomically.
func (s *SQLiteStore) DeleteQuiz(ctx context.Context, quizID int64) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM quizzes WHERE id = ?`, quizID); err != nil {
		return fmt.Errorf("delete quiz %d: %w", quizID, err)
	}
	return nil
}

// ClearAll deletes children before parents even though cascade would allow
// deleting quizzes first.
func (s *SQLiteStore) ClearAll(ctx context.Context) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, stmt := range []string{
		`DELETE FROM answers`,
		`DELETE FROM questions`,
		`DELETE FROM quizzes`,
	} {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("clear store: %w", err)
		}
	}

	return tx.Commit()
}

func (s *SQLiteStore) InsertQuestion(ctx context.Context, question quiz.Question) (int64, error) {
	result, err := s.db.ExecContext(
		ctx,
		`INSERT INTO questions (quizId, questionText) VALUES (?, ?)`,
		question.QuizID,
		question.QuestionText,
	)
	if err != nil {
		return 0, fmt.Errorf("insert question: %w", err)
	}
	return result.LastInsertId()
}

// InsertQuestionWithAnswers creates a question and its answer rows in one
// transaction. Answer QuestionIDs are overwritten with the generated id.
func (s *SQLiteStore) InsertQuestionWithAnswers(ctx context.Context, question quiz.Question, answers []quiz.Answer) (int64, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	result, err := tx.ExecContext(
		ctx,
		`INSERT INTO questions (quizId, questionText) VALUES (?, ?)`,
		question.QuizID,
		question.QuestionText,
	)
	if err != nil {
		return 0, fmt.Errorf("insert question: %w", err)
	}
	questionID, err := result.LastInsertId()
	if err != nil {
		return 0, err
	}

	for _, answer := range answers {
		answer.QuestionID = questionID
		if _, err := insertAnswer(ctx, tx, answer); err != nil {
			return 0, err
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return questionID, nil
}

func (s *SQLiteStore) ListQuestions(ctx context.Context, quizID int64) ([]quiz.Question, error) {
	rows, err := s.db.QueryContext(
		ctx,
		`SELECT id, quizId, questionText
		 FROM questions
		 WHERE quizId = ?
		 ORDER BY id ASC`,
		quizID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	questions := make([]quiz.Question, 0)
	for rows.Next() {
		var question quiz.Question
		if err := rows.Scan(&question.ID, &question.QuizID, &question.QuestionText); err != nil {
			return nil, err
		}
		questions = append(questions, question)
	}

	return questions, rows.Err()
}

func (s *SQLiteStore) GetQuestion(ctx context.Context, questionID int64) (quiz.Question, bool, error) {
	var question quiz.Question
	err := s.db.QueryRowContext(
		ctx,
		`SELECT id, quizId, questionText FROM questions WHERE id = ?`,
		questionID,
	).Scan(&question.ID, &question.QuizID, &question.QuestionText)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return quiz.Question{}, false, nil
		}
		return quiz.Question{}, false, err
	}
	return question, true, nil
}

func (s *SQLiteStore) UpdateQuestion(ctx context.Context, question quiz.Question) error {
	return updateQuestion(ctx, s.db, question)
}

func (s *SQLiteStore) DeleteQuestion(ctx context.Context, questionID int64) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM questions WHERE id = ?`, questionID); err != nil {
		return fmt.Errorf("delete question %d: %w", questionID, err)
	}
	return nil
}

// execer is satisfied by both *sql.DB and *sql.Tx.
type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func updateQuestion(ctx context.Context, db execer, question quiz.Question) error {
	_, err := db.ExecContext(
		ctx,
		`UPDATE questions SET quizId = ?, questionText = ? WHERE id = ?`,
		question.QuizID,
		question.QuestionText,
		question.ID,
	)
	if err != nil {
		return fmt.Errorf("update question %d: %w", question.ID, err)
	}
	return nil
}
