package sqlite

import (
	"context"
	"fmt"

	"quiz-studio/internal/quiz"
)

const schemaVersion = 3

// seedQuiz is inserted once, when the database file is first created.
var seedQuiz = quiz.Quiz{
	Name:        "Python Coding",
	Description: "An introductory quiz to Python programming concepts, designed to test your knowledge and skills.",
	ImagePath:   "pythonimage.jpg",
}

func (s *SQLiteStore) initSchema(ctx context.Context) error {
	var version int
	if err := s.db.QueryRowContext(ctx, `PRAGMA user_version;`).Scan(&version); err != nil {
		return fmt.Errorf("read schema version: %w", err)
	}

	statements := []string{
		`CREATE TABLE IF NOT EXISTS quizzes (
			id INTEGER PRIMARY KEY AUTOINCREMENT NOT NULL,
			name TEXT NOT NULL,
			description TEXT NOT NULL,
			imagePath TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS questions (
			id INTEGER PRIMARY KEY AUTOINCREMENT NOT NULL,
			quizId INTEGER NOT NULL,
			questionText TEXT NOT NULL,
			FOREIGN KEY (quizId) REFERENCES quizzes(id) ON DELETE CASCADE
		);`,
		`CREATE TABLE IF NOT EXISTS answers (
			id INTEGER PRIMARY KEY AUTOINCREMENT NOT NULL,
			questionId INTEGER NOT NULL,
			answerText TEXT NOT NULL,
			isCorrect INTEGER NOT NULL CHECK (isCorrect IN (0, 1)),
			FOREIGN KEY (questionId) REFERENCES questions(id) ON DELETE CASCADE
		);`,
		`CREATE INDEX IF NOT EXISTS idx_quizzes_name ON quizzes(name);`,
		`CREATE INDEX IF NOT EXISTS idx_questions_quiz ON questions(quizId);`,
		`CREATE INDEX IF NOT EXISTS idx_answers_question ON answers(questionId);`,
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, stmt := range statements {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("create schema: %w", err)
		}
	}

	if version == 0 {
		if _, err := tx.ExecContext(
			ctx,
			`INSERT INTO quizzes (name, description, imagePath) VALUES (?, ?, ?)`,
			seedQuiz.Name,
			seedQuiz.Description,
			seedQuiz.ImagePath,
		); err != nil {
			return fmt.Errorf("seed store: %w", err)
		}
		// PRAGMA does not accept bound parameters.
		if _, err := tx.ExecContext(ctx, fmt.Sprintf(`PRAGMA user_version = %d;`, schemaVersion)); err != nil {
			return fmt.Errorf("write schema version: %w", err)
		}
	}

	return tx.Commit()
}
