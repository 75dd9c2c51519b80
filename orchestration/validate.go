// Schema validation and defaulting for generated artifacts.
//
// The policy is asymmetric on purpose: structural identity fields
// (question type, text, correct answer, roadmap content ids) hard-fail
// because downstream persistence needs them; descriptive fields
// (explanation, points, estimated time) soft-default because they only
// affect presentation.

package orchestration

import (
	"fmt"

	"github.com/edustack/coursegen/llm"
)

const (
	defaultQuestionPoints = 10
	defaultItemMinutes    = 60
	minutesPerQuestion    = 2
)

// ValidateAssessment checks structural identity fields of a generated
// assessment and fills defaults for descriptive ones, in place. The
// returned error names the first offending question index.
func ValidateAssessment(a *GeneratedAssessment, input AssessmentInput) error {
	if len(a.Questions) == 0 {
		return fmt.Errorf("assessment has no questions")
	}

	fallbackDifficulty := input.Difficulty
	if fallbackDifficulty == "" {
		fallbackDifficulty = llm.DifficultyIntermediate
	}

	totalPoints := 0
	for i := range a.Questions {
		q := &a.Questions[i]
		if q.Type == "" {
			return fmt.Errorf("question %d: missing type", i)
		}
		if q.QuestionText == "" {
			return fmt.Errorf("question %d: missing question_text", i)
		}
		if q.CorrectAnswer == "" {
			return fmt.Errorf("question %d: missing correct_answer", i)
		}
		if q.Type == QuestionMultipleChoice && len(q.Options) == 0 {
			return fmt.Errorf("question %d: multiple_choice question has no options", i)
		}

		if q.Points <= 0 {
			q.Points = defaultQuestionPoints
		}
		if q.DifficultyLevel == "" {
			q.DifficultyLevel = fallbackDifficulty
		}
		if q.Topics == nil {
			q.Topics = []string{}
		}
		totalPoints += q.Points
	}

	if a.Title == "" {
		a.Title = "Generated Assessment"
	}
	a.Metadata.TotalPoints = totalPoints
	a.Metadata.QuestionCount = len(a.Questions)
	if a.Metadata.EstimatedMinutes <= 0 {
		a.Metadata.EstimatedMinutes = len(a.Questions) * minutesPerQuestion
	}
	return nil
}

// ValidateRoadmap checks structural identity fields of a generated
// roadmap and fills defaults for descriptive ones, in place.
func ValidateRoadmap(r *GeneratedRoadmap) error {
	if len(r.LearningPath) == 0 {
		return fmt.Errorf("roadmap has no learning path")
	}

	total := 0
	for i := range r.LearningPath {
		item := &r.LearningPath[i]
		if item.ContentID == "" {
			return fmt.Errorf("learning path item %d: missing content_id", i)
		}
		if item.ContentType == "" {
			return fmt.Errorf("learning path item %d: missing content_type", i)
		}
		if item.Title == "" {
			return fmt.Errorf("learning path item %d: missing title", i)
		}

		if item.OrderIndex == 0 {
			item.OrderIndex = i
		}
		if item.EstimatedTime <= 0 {
			item.EstimatedTime = defaultItemMinutes
		}
		if item.Prerequisites == nil {
			item.Prerequisites = []string{}
		}
		if item.LearningObjectives == nil {
			item.LearningObjectives = []string{}
		}
		if item.DifficultyLevel == "" {
			item.DifficultyLevel = llm.DifficultyIntermediate
		}
		total += item.EstimatedTime
	}

	if r.Title == "" {
		r.Title = "Personalized Learning Roadmap"
	}
	r.TotalEstimatedTime = total
	return nil
}
