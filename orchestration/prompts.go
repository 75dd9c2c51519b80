// Prompt construction for structured generation tasks.
//
// System prompts embed a schema description so the model produces
// documents the validator can consume directly.

package orchestration

import (
	"fmt"
	"strings"
)

const assessmentSchemaHint = `Respond with a single JSON object and no other text, using exactly this shape:
{
  "title": "...",
  "description": "...",
  "questions": [
    {
      "type": "multiple_choice" | "true_false" | "short_answer" | "essay",
      "question_text": "...",
      "options": ["..."],          // required for multiple_choice
      "correct_answer": "...",
      "explanation": "...",
      "difficulty_level": "beginner" | "intermediate" | "advanced",
      "topics": ["..."],
      "points": <number>
    }
  ]
}`

const roadmapSchemaHint = `Respond with a single JSON object and no other text, using exactly this shape:
{
  "title": "...",
  "description": "...",
  "learning_path": [
    {
      "content_id": "...",        // must be an id from the available catalog
      "content_type": "course",
      "title": "...",
      "description": "...",
      "order_index": <number>,
      "estimated_time": <minutes>,
      "prerequisites": ["content_id", ...],
      "learning_objectives": ["..."],
      "difficulty_level": "beginner" | "intermediate" | "advanced"
    }
  ]
}`

// buildAssessmentPrompt returns the system and user prompts for an
// assessment generation call.
func buildAssessmentPrompt(input AssessmentInput) (system, user string) {
	system = "You are an expert instructional designer creating assessments for an online learning platform.\n\n" +
		assessmentSchemaHint

	var b strings.Builder
	fmt.Fprintf(&b, "Create an assessment with %d questions.\n", input.QuestionCount)
	if input.Difficulty != "" {
		fmt.Fprintf(&b, "Target difficulty: %s.\n", input.Difficulty)
	}
	if len(input.QuestionTypes) > 0 {
		types := make([]string, len(input.QuestionTypes))
		for i, t := range input.QuestionTypes {
			types[i] = string(t)
		}
		fmt.Fprintf(&b, "Allowed question types: %s.\n", strings.Join(types, ", "))
	}
	if len(input.LearningObjectives) > 0 {
		b.WriteString("\nLearning objectives:\n")
		for _, obj := range input.LearningObjectives {
			fmt.Fprintf(&b, "- %s\n", obj)
		}
	}
	if len(input.ContentBlocks) > 0 {
		b.WriteString("\nCourse material:\n")
		for _, block := range input.ContentBlocks {
			fmt.Fprintf(&b, "\n## %s\n%s\n", block.Title, block.Content)
		}
	}
	return system, b.String()
}

// buildRoadmapPrompt returns the system and user prompts for a roadmap
// generation call.
func buildRoadmapPrompt(input RoadmapInput) (system, user string) {
	system = "You are an expert learning advisor planning personalized study paths from an available course catalog. " +
		"Only reference courses from the catalog provided.\n\n" +
		roadmapSchemaHint

	var b strings.Builder
	b.WriteString("Plan a learning roadmap for this student.\n\nStudent profile:\n")
	fmt.Fprintf(&b, "- Skill level: %s\n", input.StudentProfile.SkillLevel)
	if len(input.StudentProfile.Interests) > 0 {
		fmt.Fprintf(&b, "- Interests: %s\n", strings.Join(input.StudentProfile.Interests, ", "))
	}
	if len(input.StudentProfile.CompletedCourses) > 0 {
		fmt.Fprintf(&b, "- Completed courses: %s\n", strings.Join(input.StudentProfile.CompletedCourses, ", "))
	}
	if len(input.StudentProfile.LearningGoals) > 0 {
		fmt.Fprintf(&b, "- Learning goals: %s\n", strings.Join(input.StudentProfile.LearningGoals, ", "))
	}
	if len(input.TargetSkills) > 0 {
		fmt.Fprintf(&b, "\nTarget skills: %s\n", strings.Join(input.TargetSkills, ", "))
	}
	if tc := input.TimeConstraints; tc != nil {
		fmt.Fprintf(&b, "\nTime constraints: %d hours/week over %d weeks.\n", tc.HoursPerWeek, tc.TargetWeeks)
	}

	b.WriteString("\nAvailable catalog:\n")
	for _, course := range input.AvailableCourses {
		fmt.Fprintf(&b, "- id=%s title=%q difficulty=%s estimated_time=%dm topics=%s\n",
			course.ID, course.Title, course.Difficulty, course.EstimatedTime,
			strings.Join(course.Topics, ","))
	}
	return system, b.String()
}
