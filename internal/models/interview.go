package models

type QuestionType string

const (
	TypeTechnical  QuestionType = "technical"
	TypeBehavioral QuestionType = "behavioral"
	TypeScenario   QuestionType = "scenario"
	TypeProject    QuestionType = "project"
)

// QuestionTypes lists the accepted types in prompt order.
var QuestionTypes = []QuestionType{TypeTechnical, TypeBehavioral, TypeScenario, TypeProject}

func (t QuestionType) Valid() bool {
	for _, known := range QuestionTypes {
		if t == known {
			return true
		}
	}
	return false
}

type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

var Difficulties = []Difficulty{DifficultyEasy, DifficultyMedium, DifficultyHard}

func (d Difficulty) Valid() bool {
	for _, known := range Difficulties {
		if d == known {
			return true
		}
	}
	return false
}

type InterviewItem struct {
	Question   string       `json:"question"`
	Answer     string       `json:"answer"`
	Type       QuestionType `json:"type"`
	Difficulty Difficulty   `json:"difficulty"`
}

// CVScore is one entry of a multi-CV comparison.
type CVScore struct {
	CVText     string   `json:"cv_text"`
	Score      int      `json:"score"`
	Strengths  []string `json:"strengths"`
	Weaknesses []string `json:"weaknesses"`
}

// GenerationRequest is built per request and never persisted. An empty Type
// asks for a mix of all question types.
type GenerationRequest struct {
	CVText          string
	JobTitle        string
	JobRequirements string
	JobDescription  string
	Type            QuestionType
}

// JobPosting is the job side of a comparison.
type JobPosting struct {
	Title        string `json:"job_title"`
	Requirements string `json:"job_requirements"`
	Description  string `json:"job_description"`
}
