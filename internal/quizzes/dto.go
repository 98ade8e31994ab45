package quizzes

// CreateQuizRequest is the quiz authoring payload.
type CreateQuizRequest struct {
	Title     string `json:"title" validate:"required,max=200"`
	PassScore int    `json:"pass_score" validate:"gte=0,lte=100"`
}

// AddQuestionRequest appends a question to a quiz.
type AddQuestionRequest struct {
	Prompt  string   `json:"prompt" validate:"required"`
	Options []string `json:"options" validate:"required,min=2,dive,required"`
	Answer  int      `json:"answer" validate:"gte=0"`
}

// SubmitAttemptRequest carries one answer index per question, in question
// order.
type SubmitAttemptRequest struct {
	Answers []int `json:"answers" validate:"required,min=1"`
}
