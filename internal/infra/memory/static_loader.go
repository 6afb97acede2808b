package memory

import (
	"context"

	"team-quiz-service/internal/domain"
)

// SampleSetName is the source id of the built-in question set.
const SampleSetName = "sample"

// StaticQuestionLoader serves named question sets held in memory.
type StaticQuestionLoader struct {
	sets map[string][]domain.Question
}

func NewStaticQuestionLoader(sets map[string][]domain.Question) *StaticQuestionLoader {
	return &StaticQuestionLoader{sets: sets}
}

// NewSampleLoader serves only the built-in sample set.
func NewSampleLoader() *StaticQuestionLoader {
	return NewStaticQuestionLoader(map[string][]domain.Question{SampleSetName: SampleQuestions()})
}

// Has reports whether a set is registered under name.
func (l *StaticQuestionLoader) Has(name string) bool {
	_, ok := l.sets[name]
	return ok
}

func (l *StaticQuestionLoader) LoadQuestions(_ context.Context, source string) ([]domain.Question, error) {
	if questions, ok := l.sets[source]; ok {
		return copyQuestions(questions), nil
	}
	return nil, domain.ErrQuestionSetNotFound
}

// SampleQuestions returns the 22-question demo set: three normal questions,
// a solar system bonus round, three more normal questions and a world
// capitals lightning round.
func SampleQuestions() []domain.Question {
	q := func(id int, text, answer string, typ domain.QuestionType) domain.Question {
		question := domain.Question{ID: id, Text: text, Type: typ}
		if answer != "" {
			a := answer
			question.Answer = &a
		}
		return question
	}
	return []domain.Question{
		q(1, "What is the capital of France?", "Paris", domain.QuestionNormal),
		q(2, "Who wrote 'Romeo and Juliet'?", "William Shakespeare", domain.QuestionNormal),
		q(3, "What is the chemical symbol for gold?", "Au", domain.QuestionNormal),

		q(4, "BONUS THEME: Solar System", "", domain.QuestionBonusTheme),
		q(5, "What is the largest planet in our solar system?", "Jupiter", domain.QuestionBonus),
		q(6, "Which planet is known as the Red Planet?", "Mars", domain.QuestionBonus),
		q(7, "Which planet has the most moons?", "Saturn", domain.QuestionBonus),
		q(8, "What is the smallest planet in our solar system?", "Mercury", domain.QuestionBonus),

		q(9, "Which country is home to the kangaroo?", "Australia", domain.QuestionNormal),
		q(10, "What is the largest mammal in the world?", "Blue Whale", domain.QuestionNormal),
		q(11, "Who painted the Mona Lisa?", "Leonardo da Vinci", domain.QuestionNormal),

		q(12, "LIGHTNING ROUND: World Capitals", "", domain.QuestionLightningTheme),
		q(13, "Capital of Japan?", "Tokyo", domain.QuestionLightning),
		q(14, "Capital of Egypt?", "Cairo", domain.QuestionLightning),
		q(15, "Capital of Australia?", "Canberra", domain.QuestionLightning),
		q(16, "Capital of Brazil?", "Brasília", domain.QuestionLightning),
		q(17, "Capital of Canada?", "Ottawa", domain.QuestionLightning),
		q(18, "Capital of Spain?", "Madrid", domain.QuestionLightning),
		q(19, "Capital of South Korea?", "Seoul", domain.QuestionLightning),
		q(20, "Capital of Italy?", "Rome", domain.QuestionLightning),
		q(21, "Capital of Argentina?", "Buenos Aires", domain.QuestionLightning),
		q(22, "Capital of India?", "New Delhi", domain.QuestionLightning),
	}
}
