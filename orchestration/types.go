// Package orchestration turns educational content into structured,
// schema-valid artifacts by coordinating rate limiting, provider calls,
// validation and deterministic fallback generation.
package orchestration

// QuestionType enumerates supported assessment question kinds.
type QuestionType string

const (
	QuestionMultipleChoice QuestionType = "multiple_choice"
	QuestionTrueFalse      QuestionType = "true_false"
	QuestionShortAnswer    QuestionType = "short_answer"
	QuestionEssay          QuestionType = "essay"
)

// ContentBlock is one unit of course material to assess.
type ContentBlock struct {
	Title   string `json:"title"`
	Type    string `json:"type"`
	Content string `json:"content"`
}

// AssessmentInput describes an assessment generation request. Supplied
// already parsed by the web layer.
type AssessmentInput struct {
	ContentBlocks      []ContentBlock `json:"content_blocks"`
	LearningObjectives []string       `json:"learning_objectives"`
	Difficulty         string         `json:"difficulty"`
	QuestionTypes      []QuestionType `json:"question_types"`
	QuestionCount      int            `json:"question_count"`
}

// Question is one generated assessment question. Identity fields (Type,
// QuestionText, CorrectAnswer, and Options for multiple choice) are
// required; descriptive fields are defaulted during validation.
type Question struct {
	Type            QuestionType `json:"type"`
	QuestionText    string       `json:"question_text"`
	Options         []string     `json:"options,omitempty"`
	CorrectAnswer   string       `json:"correct_answer"`
	Explanation     string       `json:"explanation"`
	DifficultyLevel string       `json:"difficulty_level"`
	Topics          []string     `json:"topics"`
	Points          int          `json:"points"`
}

// AssessmentMetadata summarizes a generated assessment. Recomputed from
// the question list during validation.
type AssessmentMetadata struct {
	TotalPoints      int    `json:"total_points"`
	QuestionCount    int    `json:"question_count"`
	EstimatedMinutes int    `json:"estimated_minutes"`
	GeneratedBy      string `json:"generated_by"`
}

// GeneratedAssessment is the structured assessment artifact returned to
// callers. After validation no optional field is ever absent.
type GeneratedAssessment struct {
	Title       string             `json:"title"`
	Description string             `json:"description"`
	Questions   []Question         `json:"questions"`
	Metadata    AssessmentMetadata `json:"assessment_metadata"`
}

// StudentProfile describes the learner a roadmap is generated for.
type StudentProfile struct {
	SkillLevel       string   `json:"skill_level"`
	Interests        []string `json:"interests"`
	CompletedCourses []string `json:"completed_courses"`
	LearningGoals    []string `json:"learning_goals"`
}

// Course is one catalog entry available for roadmap planning.
type Course struct {
	ID            string   `json:"id"`
	Title         string   `json:"title"`
	Description   string   `json:"description"`
	Difficulty    string   `json:"difficulty"`
	EstimatedTime int      `json:"estimated_time"` // minutes
	Topics        []string `json:"topics"`
}

// TimeConstraints bound the pacing of a roadmap.
type TimeConstraints struct {
	HoursPerWeek int `json:"hours_per_week"`
	TargetWeeks  int `json:"target_weeks"`
}

// RoadmapInput describes a personalized roadmap request.
type RoadmapInput struct {
	StudentProfile   StudentProfile   `json:"student_profile"`
	AvailableCourses []Course         `json:"available_courses"`
	TargetSkills     []string         `json:"target_skills,omitempty"`
	TimeConstraints  *TimeConstraints `json:"time_constraints,omitempty"`
}

// RoadmapItem is one step in a learning path. Identity fields (ContentID,
// ContentType, Title) are required; the rest default during validation.
type RoadmapItem struct {
	ContentID          string   `json:"content_id"`
	ContentType        string   `json:"content_type"`
	Title              string   `json:"title"`
	Description        string   `json:"description"`
	OrderIndex         int      `json:"order_index"`
	EstimatedTime      int      `json:"estimated_time"` // minutes
	Prerequisites      []string `json:"prerequisites"`
	LearningObjectives []string `json:"learning_objectives"`
	DifficultyLevel    string   `json:"difficulty_level"`
}

// GeneratedRoadmap is the structured roadmap artifact returned to callers.
type GeneratedRoadmap struct {
	Title              string        `json:"title"`
	Description        string        `json:"description"`
	LearningPath       []RoadmapItem `json:"learning_path"`
	TotalEstimatedTime int           `json:"total_estimated_time"` // minutes
	GeneratedBy        string        `json:"generated_by"`
}
